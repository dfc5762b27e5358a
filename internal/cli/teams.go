package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/overs/internal/match"
)

// TeamsOptions holds flags for the teams command.
type TeamsOptions struct {
	*RootOptions
	TeamsFile string
}

// TeamEntry is one roster in the listing.
type TeamEntry struct {
	ID      match.TeamID `json:"id"`
	Name    string       `json:"name"`
	Players []string     `json:"players"`
	Bowlers []string     `json:"bowlers"`
}

// NewTeamsCommand creates the teams command.
func NewTeamsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TeamsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "teams",
		Short: "List the teams a match can be played with",
		Long: `List the teams in the built-in roster, or in a CUE roster file.

A roster file is validated against the roster schema: every team needs
eleven players and at least five bowlers who are also players.

Examples:
  overs teams
  overs teams --teams ./league.cue --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTeams(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.TeamsFile, "teams", "", "CUE roster file (default: built-in teams)")

	return cmd
}

func runTeams(opts *TeamsOptions, cmd *cobra.Command) error {
	reg, err := loadRegistry(opts.TeamsFile)
	if err != nil {
		return err
	}

	entries := make([]TeamEntry, 0, reg.Len())
	for _, id := range reg.IDs() {
		t, err := reg.Get(id)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read roster", err)
		}
		entries = append(entries, TeamEntry{ID: t.ID, Name: t.Name, Players: t.Players, Bowlers: t.Bowlers})
	}

	return opts.Formatter(cmd).Success(entries, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, t := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%d players, %d bowlers\n", t.ID, t.Name, len(t.Players), len(t.Bowlers))
		}
		tw.Flush()
		if !opts.Verbose {
			return
		}
		for _, t := range entries {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "%s\n", t.Name)
			fmt.Fprintf(w, "  Batting: %s\n", strings.Join(t.Players, ", "))
			fmt.Fprintf(w, "  Bowling: %s\n", strings.Join(t.Bowlers, ", "))
		}
	})
}
