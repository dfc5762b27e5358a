package cli

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	MatchID  string
	Kind     string // optional - filter to one delivery kind
}

// TraceDelivery is a single delivery in the trace timeline.
type TraceDelivery struct {
	Seq       int64           `json:"seq"`
	Innings   int             `json:"innings"`
	Over      string          `json:"over"`
	Kind      match.Kind      `json:"kind"`
	Runs      int             `json:"runs"`
	Dismissal match.Dismissal `json:"dismissal,omitempty"`
	Scripted  bool            `json:"scripted,omitempty"`
	Digest    string          `json:"digest"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	MatchID  string          `json:"match_id"`
	Home     match.TeamID    `json:"home"`
	Away     match.TeamID    `json:"away"`
	Seed     int64           `json:"seed"`
	Timeline []TraceDelivery `json:"timeline"`
	Stats    TraceStats      `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	TotalDeliveries int                `json:"total_deliveries"`
	Kinds           map[match.Kind]int `json:"kinds"`
	Result          string             `json:"result,omitempty"`
	Complete        bool               `json:"complete"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the recorded deliveries of a match",
		Long: `Show the delivery log of one recorded match.

The output includes:
- Timeline: every delivery in seq order with its chain digest
- Stats: deliveries per kind and the recorded result

Examples:
  overs trace --db ./overs.db --match 0190a5c4-...
  overs trace --db ./overs.db --match 0190a5c4-... --kind wicket
  overs trace --db ./overs.db --match 0190a5c4-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.MatchID, "match", "", "match ID to trace (required)")
	_ = cmd.MarkFlagRequired("match")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter to one delivery kind (ball|wide|noball|bye|legbye|wicket)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	kind := match.Kind(opts.Kind)
	if kind != "" && !slices.Contains(match.Kinds, kind) {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown delivery kind %q", opts.Kind))
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	m, err := st.ReadMatch(ctx, opts.MatchID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read match", err)
	}
	deliveries, err := st.ReadDeliveries(ctx, opts.MatchID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read deliveries", err)
	}
	kinds, err := st.KindCounts(ctx, opts.MatchID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count deliveries", err)
	}
	res, complete, err := st.ReadResult(ctx, opts.MatchID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read result", err)
	}

	result := TraceResult{
		MatchID:  m.ID,
		Home:     m.Home,
		Away:     m.Away,
		Seed:     m.Seed,
		Timeline: buildTimeline(deliveries, kind),
		Stats: TraceStats{
			TotalDeliveries: len(deliveries),
			Kinds:           kinds,
			Result:          res.Summary,
			Complete:        complete,
		},
	}

	return opts.Formatter(cmd).Success(result, func(w io.Writer) {
		writeTraceText(w, result, opts.Verbose)
	})
}

// buildTimeline converts store deliveries to timeline entries, keeping only
// kind when it is set.
func buildTimeline(deliveries []store.DeliveryRecord, kind match.Kind) []TraceDelivery {
	timeline := []TraceDelivery{}
	for _, d := range deliveries {
		if kind != "" && d.Kind != kind {
			continue
		}
		timeline = append(timeline, TraceDelivery{
			Seq:       d.Seq,
			Innings:   d.Innings,
			Over:      fmt.Sprintf("%d.%d", d.Over, d.Ball),
			Kind:      d.Kind,
			Runs:      d.Runs,
			Dismissal: d.Dismissal,
			Scripted:  d.Scripted,
			Digest:    d.Digest,
		})
	}
	return timeline
}

// writeTraceText outputs the trace as text.
func writeTraceText(w io.Writer, result TraceResult, verbose bool) {
	fmt.Fprintf(w, "Match: %s (%s v %s, seed %d)\n", result.MatchID, result.Home, result.Away, result.Seed)
	fmt.Fprintln(w)

	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "No deliveries.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, d := range result.Timeline {
			line := fmt.Sprintf("[%d]\tinnings %d\t%s\t%s\t%d", d.Seq, d.Innings, d.Over, d.Kind, d.Runs)
			if d.Dismissal != "" {
				line += "\t" + string(d.Dismissal)
			}
			if d.Scripted {
				line += "\tscripted"
			}
			if verbose {
				line += "\t" + d.Digest
			}
			fmt.Fprintln(tw, line)
		}
		tw.Flush()
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Deliveries: %d", result.Stats.TotalDeliveries)
	for _, k := range match.Kinds {
		if n := result.Stats.Kinds[k]; n > 0 {
			fmt.Fprintf(w, ", %s %d", k, n)
		}
	}
	fmt.Fprintln(w)
	if result.Stats.Complete {
		fmt.Fprintf(w, "Result: %s\n", result.Stats.Result)
	} else {
		fmt.Fprintln(w, "Result: unfinished")
	}
}
