package harness

import (
	"fmt"
	"log/slog"

	"github.com/roach88/overs/internal/engine"
	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/session"
	"github.com/roach88/overs/internal/stats"
	"github.com/roach88/overs/internal/teams"
	"github.com/roach88/overs/internal/testutil"
)

// maxPlayOut bounds a play_out step. A full match is far shorter.
const maxPlayOut = 2000

// Harness is the scenario execution engine.
// It drives a real session with a fixed match ID and seed.
type Harness struct {
	session *session.Session
	result  *Result
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh session. A step that cannot be applied, for
// example a delivery after the match completed, fails the result and stops
// the remaining steps; assertions are still evaluated.
//
// Returns an error only when the scenario cannot be set up.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.DiscardHandler))
}

// RunWithLogger is Run with engine and session logs sent to log.
func RunWithLogger(scenario *Scenario, log *slog.Logger) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	reg := teams.Default()
	if scenario.TeamsFile != "" {
		var err error
		if reg, err = teams.LoadFile(scenario.TeamsFile); err != nil {
			return nil, fmt.Errorf("load teams: %w", err)
		}
	}

	overs := scenario.Overs
	if overs == 0 {
		overs = match.TotalOvers
	}

	result := NewResult()
	sess := session.New(
		session.WithRegistry(reg),
		session.WithLogger(log),
		session.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.MatchID)),
		session.WithSeed(scenario.Seed),
		session.WithOvers(overs),
		session.WithRecorder(&traceRecorder{result: result}),
	)

	home, away := match.TeamID(scenario.Teams[0]), match.TeamID(scenario.Teams[1])
	if err := sess.SelectTeams(home, away); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}
	if _, err := sess.ResetMatch(match.TeamID(scenario.BatFirst)); err != nil {
		return nil, fmt.Errorf("start match: %w", err)
	}

	h := &Harness{session: sess, result: result}
	h.executeSteps(scenario.Steps)

	sess.Inspect(func(st *match.State) {
		if st == nil {
			result.AddError("no active match")
			return
		}
		for _, msg := range EvaluateAssertions(st, scenario.Assertions) {
			result.AddError(msg)
		}
		if st.Result != nil {
			result.Summary = st.Result.Summary
		}
	})
	return result, nil
}

func (h *Harness) executeSteps(steps []Step) {
	for i, step := range steps {
		if err := h.executeStep(step); err != nil {
			h.result.AddError(fmt.Sprintf("steps[%d]: %v", i, err))
			return
		}
	}
}

func (h *Harness) executeStep(step Step) error {
	switch {
	case step.Deliver != nil:
		ev, err := step.Deliver.Event()
		if err != nil {
			return err
		}
		n := max(step.Repeat, 1)
		for i := 0; i < n; i++ {
			if err := h.session.Queue(ev); err != nil {
				return fmt.Errorf("delivery %d of %d: %w", i+1, n, err)
			}
			if _, err := h.session.AdvanceOneBall(); err != nil {
				return fmt.Errorf("delivery %d of %d: %w", i+1, n, err)
			}
		}
	case step.Generate > 0:
		for i := 0; i < step.Generate; i++ {
			if _, err := h.session.AdvanceOneBall(); err != nil {
				return fmt.Errorf("generated delivery %d of %d: %w", i+1, step.Generate, err)
			}
		}
	case step.PlayOut:
		for i := 0; i < maxPlayOut; i++ {
			v, err := h.session.AdvanceOneBall()
			if err != nil {
				return err
			}
			if v.Status == session.StatusCompleted {
				return nil
			}
		}
		return fmt.Errorf("match did not complete within %d deliveries", maxPlayOut)
	}
	return nil
}

// traceRecorder turns each applied delivery into a TraceEvent.
type traceRecorder struct {
	result *Result
}

func (r *traceRecorder) BeginMatch(*match.State, session.MatchInfo) error {
	return nil
}

func (r *traceRecorder) RecordDelivery(st *match.State, out engine.Outcome) error {
	d := out.Delivery
	team := st.BattingFirst
	if d.Innings == 2 {
		team = st.BowlingFirst
	}
	score := st.Scores[team]

	ev := TraceEvent{
		Seq:     d.Seq,
		Innings: d.Innings,
		Over:    fmt.Sprintf("%d.%d", d.Over, d.Ball),
		Bowler:  d.Bowler,
		Batsman: d.Batsman,
		Ball:    d.Label(),
		Score:   stats.FormatScore(score.Runs, score.Wickets),
	}
	if out.Wicket != nil {
		ev.Wicket = out.Wicket.Batsman + " " + out.Wicket.Description
	}
	switch {
	case out.MatchCompleted:
		ev.End = "match"
	case out.InningsEnded:
		ev.End = "innings"
	}
	r.result.Trace = append(r.result.Trace, ev)
	return nil
}
