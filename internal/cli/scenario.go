package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/overs/internal/harness"
)

// ScenarioOptions holds flags for the scenario command.
type ScenarioOptions struct {
	*RootOptions
	GoldenDir string // compare traces against <dir>/<name>.golden
	Update    bool   // regenerate golden files
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Pass       bool     `json:"pass"`
	Deliveries int      `json:"deliveries"`
	Summary    string   `json:"summary,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// ScenarioSuiteResult holds the overall result.
type ScenarioSuiteResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenarioOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scenario <file-or-dir>",
		Short: "Run scripted match scenarios",
		Long: `Run YAML match scenarios against the engine and check their assertions.

A directory is searched for .yaml and .yml files. With --golden each
scenario's delivery trace is also compared with <dir>/<name>.golden;
--update rewrites those files instead.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  overs scenario ./scenarios
  overs scenario ./scenarios/tie.yaml
  overs scenario ./scenarios --golden ./scenarios/golden --update`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "directory of golden trace files")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")

	return cmd
}

func runScenarios(opts *ScenarioOptions, path string, cmd *cobra.Command) error {
	if opts.Update && opts.GoldenDir == "" {
		return NewExitError(ExitCommandError, "--update requires --golden")
	}
	if _, err := os.Stat(path); err != nil {
		return WrapExitError(ExitCommandError, "scenario path not found", err)
	}

	suite, err := harness.RunDir(path, opts.Logger(cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenarios", err)
	}

	result := ScenarioSuiteResult{Scenarios: []ScenarioResult{}, Total: suite.Total}
	failed := make(map[string][]string, len(suite.Failures))
	for _, f := range suite.Failures {
		failed[f.Path] = f.Errors
	}

	ran := make(map[string]bool, len(suite.Runs))
	for _, run := range suite.Runs {
		ran[run.Path] = true
		sr := ScenarioResult{
			Name:       run.Name,
			Path:       run.Path,
			Pass:       run.Result.Pass,
			Deliveries: len(run.Result.Trace),
			Summary:    run.Result.Summary,
			Errors:     failed[run.Path],
		}
		if opts.GoldenDir != "" {
			if msg := checkGolden(opts, run); msg != "" {
				sr.Pass = false
				sr.Errors = append(sr.Errors, msg)
			}
		}
		result.Scenarios = append(result.Scenarios, sr)
	}
	for _, f := range suite.Failures {
		if ran[f.Path] {
			continue
		}
		name := f.Name
		if name == "" {
			name = filepath.Base(f.Path)
		}
		result.Scenarios = append(result.Scenarios, ScenarioResult{Name: name, Path: f.Path, Errors: f.Errors})
	}
	for _, sr := range result.Scenarios {
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	f := opts.Formatter(cmd)
	text := func(w io.Writer) { writeScenarioText(w, result) }
	if result.Failed == 0 {
		return f.Success(result, text)
	}
	if err := f.Failure("E_SCENARIO", fmt.Sprintf("%d scenario(s) failed", result.Failed), result, text); err != nil {
		return err
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total))
}

// checkGolden compares or rewrites the golden trace of one run. It returns
// a failure message, or "" when the trace matches.
func checkGolden(opts *ScenarioOptions, run harness.ScenarioRun) string {
	data, err := harness.MarshalSnapshot(run.Name, run.Result)
	if err != nil {
		return fmt.Sprintf("encode trace: %v", err)
	}
	path := filepath.Join(opts.GoldenDir, run.Name+".golden")

	if opts.Update {
		if err := os.MkdirAll(opts.GoldenDir, 0755); err != nil {
			return fmt.Sprintf("golden update: %v", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Sprintf("golden update: %v", err)
		}
		return ""
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// No golden file - assertions only
		return ""
	}
	if err != nil {
		return fmt.Sprintf("golden read: %v", err)
	}
	if !bytes.Equal(bytes.TrimSpace(want), data) {
		return fmt.Sprintf("trace differs from %s", path)
	}
	return ""
}

// writeScenarioText outputs the scenario results as text.
func writeScenarioText(w io.Writer, result ScenarioSuiteResult) {
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}
	for _, s := range result.Scenarios {
		if s.Pass {
			fmt.Fprintf(w, "✓ %s (%d deliveries)\n", s.Name, s.Deliveries)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
}
