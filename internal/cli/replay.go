package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/overs/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database  string
	MatchID   string // optional - specific match only
	TeamsFile string
}

// ReplayMatchResult holds the replay result for a single match.
type ReplayMatchResult struct {
	MatchID       string `json:"match_id"`
	Deliveries    int    `json:"deliveries"`
	Replayed      int    `json:"replayed"`
	Divergence    int64  `json:"divergence,omitempty"`
	Result        string `json:"result,omitempty"`
	ReplayResult  string `json:"replay_result,omitempty"`
	Head          string `json:"head"`
	Deterministic bool   `json:"deterministic"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Matches          []ReplayMatchResult `json:"matches"`
	TotalMatches     int                 `json:"total_matches"`
	AllDeterministic bool                `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-simulate recorded matches and verify determinism",
		Long: `Re-simulate every match in the delivery log from its seed and compare
each delivery digest with the recorded one.

The log is never used to restore a match: a match verifies only if the
engine, fed the same seed, produces byte-identical deliveries.

Exit codes:
  0 - All matches are deterministic
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  overs replay --db ./overs.db
  overs replay --db ./overs.db --match 0190a5c4-...
  overs replay --db ./overs.db --teams ./league.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.MatchID, "match", "", "replay specific match only")
	cmd.Flags().StringVar(&opts.TeamsFile, "teams", "", "CUE roster the matches were played with (default: built-in teams)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	log := opts.Logger(cmd)

	reg, err := loadRegistry(opts.TeamsFile)
	if err != nil {
		return err
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	// Get match IDs to process
	var ids []string
	if opts.MatchID != "" {
		ids = []string{opts.MatchID}
	} else {
		matches, err := st.ListMatches(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list matches", err)
		}
		for _, m := range matches {
			ids = append(ids, m.ID)
		}
	}

	result := ReplayResult{
		Matches:          make([]ReplayMatchResult, 0, len(ids)),
		TotalMatches:     len(ids),
		AllDeterministic: true,
	}
	for _, id := range ids {
		v, err := st.Verify(ctx, reg, id, log)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay match %s", id), err)
		}

		mr := ReplayMatchResult{
			MatchID:       id,
			Deliveries:    v.Recorded,
			Replayed:      v.Replayed,
			Divergence:    v.Divergence,
			Result:        v.Result,
			ReplayResult:  v.ReplayResult,
			Head:          v.Head,
			Deterministic: v.OK(),
		}
		result.Matches = append(result.Matches, mr)
		if !mr.Deterministic {
			result.AllDeterministic = false
		}
	}

	f := opts.Formatter(cmd)
	text := func(w io.Writer) { writeReplayText(w, result, opts.Verbose) }
	if result.AllDeterministic {
		return f.Success(result, text)
	}
	if err := f.Failure("E_DETERMINISM", "determinism verification failed", result, text); err != nil {
		return err
	}
	// Determinism failure = exit code 1
	return NewExitError(ExitFailure, "determinism verification failed")
}

// openExisting opens a delivery log that must already exist.
func openExisting(path string) (*store.Store, error) {
	if err := requireFile(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// writeReplayText outputs the replay result as text.
func writeReplayText(w io.Writer, result ReplayResult, verbose bool) {
	if result.TotalMatches == 0 {
		fmt.Fprintln(w, "No matches found in database.")
		return
	}

	fmt.Fprintf(w, "Replay Summary: %d match(es)\n", result.TotalMatches)
	fmt.Fprintln(w)

	for _, m := range result.Matches {
		status := "✓"
		if !m.Deterministic {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Match: %s\n", status, m.MatchID)
		fmt.Fprintf(w, "  Deliveries: %d recorded, %d replayed\n", m.Deliveries, m.Replayed)
		if m.Result != "" {
			fmt.Fprintf(w, "  Result: %s\n", m.Result)
		}
		if verbose {
			fmt.Fprintf(w, "  Head: %s\n", m.Head)
		}
		if m.Divergence != 0 {
			fmt.Fprintf(w, "  Warning: diverged at delivery %d\n", m.Divergence)
		} else if m.Result != m.ReplayResult {
			fmt.Fprintf(w, "  Warning: replay settled %q\n", m.ReplayResult)
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All matches verified deterministic")
		return
	}
	fmt.Fprintln(w, "✗ Determinism verification failed")
}
