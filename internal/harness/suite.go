package harness

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SuiteResult summarizes a directory of scenarios.
type SuiteResult struct {
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Runs     []ScenarioRun     `json:"runs"`
	Failures []ScenarioFailure `json:"failures,omitempty"`
}

// ScenarioRun is one scenario that loaded and ran, whether or not it passed.
type ScenarioRun struct {
	Path   string  `json:"path"`
	Name   string  `json:"name"`
	Result *Result `json:"result"`
}

// ScenarioFailure is one scenario that did not pass.
type ScenarioFailure struct {
	Path   string   `json:"path"`
	Name   string   `json:"name,omitempty"`
	Errors []string `json:"errors"`
}

// OK reports whether every scenario passed.
func (r *SuiteResult) OK() bool {
	return r.Failed == 0
}

// FindScenarios lists the scenario files under path. A file path is returned
// as is; a directory is walked for .yaml and .yml files in lexical order.
func FindScenarios(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scenario path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// RunDir loads and runs every scenario under path. A scenario that fails to
// load counts as a failure; RunDir only returns an error when path itself
// cannot be read.
func RunDir(path string, log *slog.Logger) (*SuiteResult, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	files, err := FindScenarios(path)
	if err != nil {
		return nil, err
	}

	suite := &SuiteResult{Runs: []ScenarioRun{}}
	for _, file := range files {
		suite.Total++

		scenario, err := LoadScenario(file)
		if err != nil {
			suite.fail(file, "", []string{err.Error()})
			log.Warn("scenario not loaded", "path", file, "error", err)
			continue
		}

		result, err := RunWithLogger(scenario, log)
		if err != nil {
			suite.fail(file, scenario.Name, []string{err.Error()})
			log.Warn("scenario not run", "path", file, "scenario", scenario.Name, "error", err)
			continue
		}
		suite.Runs = append(suite.Runs, ScenarioRun{Path: file, Name: scenario.Name, Result: result})
		if !result.Pass {
			suite.fail(file, scenario.Name, result.Errors)
			log.Info("scenario failed", "scenario", scenario.Name, "errors", len(result.Errors))
			continue
		}
		suite.Passed++
		log.Info("scenario passed", "scenario", scenario.Name, "deliveries", len(result.Trace))
	}
	return suite, nil
}

func (r *SuiteResult) fail(path, name string, errs []string) {
	r.Failed++
	r.Failures = append(r.Failures, ScenarioFailure{Path: path, Name: name, Errors: errs})
}
