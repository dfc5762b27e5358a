package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/overs/internal/engine"
	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/session"
	"github.com/roach88/overs/internal/stats"
	"github.com/roach88/overs/internal/store"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Seed       int64
	TeamsFile  string
	Home       string
	Away       string
	BatFirst   string
	Overs      int
	Database   string
	Pace       time.Duration
	Commentary bool
}

// SimulateResult is the JSON payload of a simulated match.
type SimulateResult struct {
	MatchID string       `json:"match_id"`
	Seed    int64        `json:"seed"`
	Home    match.TeamID `json:"home"`
	Away    match.TeamID `json:"away"`
	Overs   int          `json:"overs"`
	View    session.View `json:"view"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a match from first ball to result",
		Long: `Play one match between two teams and print the scorecard.

Without --home and --away two teams are drawn at random. Without --seed a
fresh seed is drawn; the seed is printed so the match can be played again.
With --db every delivery is written to a SQLite log that "overs replay" can
verify.

Exit codes:
  0 - Match completed
  1 - Match interrupted
  2 - Command error (unknown team, bad roster, database error)

Examples:
  overs simulate
  overs simulate --home MI --away CSK --seed 42
  overs simulate --overs 5 --commentary
  overs simulate --seed 7 --db ./overs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "seed for the toss and every delivery (default: random)")
	cmd.Flags().StringVar(&opts.TeamsFile, "teams", "", "CUE roster file (default: built-in teams)")
	cmd.Flags().StringVar(&opts.Home, "home", "", "home team ID")
	cmd.Flags().StringVar(&opts.Away, "away", "", "away team ID")
	cmd.Flags().StringVar(&opts.BatFirst, "bat-first", "", "team that bats first (default: toss)")
	cmd.Flags().IntVar(&opts.Overs, "overs", match.TotalOvers, "overs per innings")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite delivery log")
	cmd.Flags().DurationVar(&opts.Pace, "pace", 0, "pause after an ordinary delivery; boundaries and wickets linger longer")
	cmd.Flags().BoolVar(&opts.Commentary, "commentary", false, "print ball-by-ball commentary")

	return cmd
}

func runSimulate(opts *SimulateOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	log := opts.Logger(cmd)

	if (opts.Home == "") != (opts.Away == "") {
		return NewExitError(ExitCommandError, "--home and --away must be given together")
	}
	if opts.Overs < 1 || opts.Overs > match.TotalOvers {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("--overs must be between 1 and %d, got %d", match.TotalOvers, opts.Overs))
	}

	reg, err := loadRegistry(opts.TeamsFile)
	if err != nil {
		return err
	}

	sessOpts := []session.Option{
		session.WithRegistry(reg),
		session.WithOvers(opts.Overs),
		session.WithLogger(log),
	}
	if cmd.Flags().Changed("seed") {
		sessOpts = append(sessOpts, session.WithSeed(opts.Seed))
	}

	var recorders multiRecorder
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()
		recorders = append(recorders, store.NewMatchLog(ctx, st))
	}
	if opts.Commentary && opts.Format != "json" {
		recorders = append(recorders, &commentaryPrinter{w: cmd.OutOrStdout()})
	}
	if len(recorders) > 0 {
		sessOpts = append(sessOpts, session.WithRecorder(recorders))
	}

	sess := session.New(sessOpts...)
	if opts.Home != "" {
		if err := sess.SelectTeams(match.TeamID(opts.Home), match.TeamID(opts.Away)); err != nil {
			return WrapExitError(ExitCommandError, "invalid team selection", err)
		}
	}
	if _, err := sess.ResetMatch(match.TeamID(opts.BatFirst)); err != nil {
		return WrapExitError(ExitCommandError, "failed to start match", err)
	}
	info, _ := sess.Info()

	pacing := session.Pacing{Wicket: 3 * opts.Pace, Boundary: 2 * opts.Pace, Other: opts.Pace}
	view, err := session.Autoplay(ctx, sess, pacing)
	if err != nil {
		if ctx.Err() != nil {
			return WrapExitError(ExitFailure, "match interrupted", err)
		}
		return WrapExitError(ExitCommandError, "simulation failed", err)
	}

	result := SimulateResult{
		MatchID: view.MatchID,
		Seed:    info.Seed,
		Home:    info.Home,
		Away:    info.Away,
		Overs:   info.Overs,
		View:    view,
	}
	return opts.Formatter(cmd).Success(result, func(w io.Writer) {
		writeScorecard(w, result, opts.Verbose)
	})
}

// writeScorecard prints the match summary and, when verbose, both cards.
func writeScorecard(w io.Writer, r SimulateResult, verbose bool) {
	v := r.View
	fmt.Fprintf(w, "Match %s (seed %d, %d overs)\n", r.MatchID, r.Seed, r.Overs)
	fmt.Fprintln(w, v.Toss)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, side := range v.Teams {
		fmt.Fprintf(tw, "%s\t%s\textras %d\n", side.Name, side.Score(), side.Extras)
	}
	tw.Flush()

	if v.Result != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, v.Result)
	}

	for _, side := range v.Teams {
		if best, ok := stats.TopBatsman(v.Batsmen[side.ID]); ok && best.Balls > 0 {
			fmt.Fprintf(w, "Top score for %s: %s %d (%d)\n", side.ID, best.Name, best.Runs, best.Balls)
		}
	}

	if !verbose {
		return
	}
	for i, side := range v.Teams {
		fielding := v.Teams[1-i]
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s innings\n", side.Name)
		writeBattingCard(w, v.Batsmen[side.ID])
		fmt.Fprintln(w)
		writeBowlingCard(w, v.Bowlers[fielding.ID])
	}
}

func writeBattingCard(w io.Writer, list []match.BatsmanRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Batter\tHow out\tR\tB\t4s\t6s\tSR\t")
	for _, b := range list {
		if !b.HasBatted {
			continue
		}
		how := "not out"
		if b.IsOut {
			how = b.Dismissal
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%.2f\t\n",
			b.Name, how, b.Runs, b.Balls, b.Fours, b.Sixes, b.StrikeRate)
	}
	tw.Flush()
}

func writeBowlingCard(w io.Writer, list []match.BowlerRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Bowler\tO\tR\tW\tEcon\t")
	for _, b := range list {
		if b.LegalBalls == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2f\t\n",
			b.Name, stats.OversDisplay(b.LegalBalls), b.RunsConceded, b.Wickets, b.Economy)
	}
	tw.Flush()
}

// multiRecorder fans match events out to several recorders, stopping at the
// first error.
type multiRecorder []session.Recorder

func (m multiRecorder) BeginMatch(st *match.State, info session.MatchInfo) error {
	for _, r := range m {
		if err := r.BeginMatch(st, info); err != nil {
			return err
		}
	}
	return nil
}

func (m multiRecorder) RecordDelivery(st *match.State, out engine.Outcome) error {
	for _, r := range m {
		if err := r.RecordDelivery(st, out); err != nil {
			return err
		}
	}
	return nil
}

// commentaryPrinter writes the commentary each delivery produced.
type commentaryPrinter struct {
	w io.Writer
}

func (p *commentaryPrinter) BeginMatch(st *match.State, _ session.MatchInfo) error {
	for _, line := range st.Commentary.Items() {
		fmt.Fprintln(p.w, line)
	}
	return nil
}

func (p *commentaryPrinter) RecordDelivery(st *match.State, out engine.Outcome) error {
	// A delivery adds one line, plus the innings break or the result.
	n := 1
	if out.InningsEnded {
		n = 2
	}
	lines := st.Commentary.Items()
	if n > len(lines) {
		n = len(lines)
	}
	for _, line := range lines[len(lines)-n:] {
		fmt.Fprintln(p.w, line)
	}
	return nil
}
