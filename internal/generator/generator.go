// Package generator draws the outcome of the next delivery.
//
// Outcomes come from fixed probability tables, not from any model of the
// players. The generator is stateless apart from its Source, so two
// generators fed the same seed produce the same deliveries.
//
// # Tables
//
// One draw in [0,100) picks the delivery kind by cumulative threshold:
//
//	wicket 5 | wide 7 | no-ball 3 | bye 2 | leg-bye 2 | ball 81
//
// A second draw picks the runs from the kind's table. Wickets draw the
// dismissal uniformly with Intn; a run out then draws completed runs.
package generator

import (
	"fmt"

	"github.com/roach88/overs/internal/match"
)

// Outcome is one row of a run table: Runs with probability Pct percent.
type Outcome struct {
	Runs int
	Pct  float64
}

// Table is a run distribution. Percentages sum to 100.
type Table []Outcome

// KindShare is one row of the delivery kind table.
type KindShare struct {
	Kind match.Kind
	Pct  float64
}

// KindTable orders kinds by cumulative threshold.
var KindTable = []KindShare{
	{match.KindWicket, 5},
	{match.KindWide, 7},
	{match.KindNoBall, 3},
	{match.KindBye, 2},
	{match.KindLegBye, 2},
	{match.KindBall, 81},
}

var (
	// BallRuns is the distribution of runs off the bat.
	BallRuns = Table{{0, 30}, {1, 20}, {2, 20}, {3, 15}, {4, 10}, {6, 5}}

	// WideRuns includes the one-run penalty.
	WideRuns = Table{{1, 95}, {2, 5}}

	// NoBallRuns includes the one-run penalty.
	NoBallRuns = Table{{1, 80}, {2, 15}, {5, 5}}

	// ByeRuns is shared by byes and leg-byes.
	ByeRuns = Table{{1, 70}, {2, 20}, {4, 10}}

	// RunOutRuns is the runs completed before a run out.
	RunOutRuns = Table{{0, 70}, {1, 30}}
)

// pick maps a draw in [0,100) to a row.
func (t Table) pick(draw float64) int {
	cum := 0.0
	for _, o := range t {
		cum += o.Pct
		if draw < cum {
			return o.Runs
		}
	}
	return t[len(t)-1].Runs
}

// midpoint returns a draw in [0,1) that selects runs, or false if the table
// cannot produce them.
func (t Table) midpoint(runs int) (float64, bool) {
	cum := 0.0
	for _, o := range t {
		if o.Runs == runs {
			return (cum + o.Pct/2) / 100, true
		}
		cum += o.Pct
	}
	return 0, false
}

func pickKind(draw float64) match.Kind {
	cum := 0.0
	for _, k := range KindTable {
		cum += k.Pct
		if draw < cum {
			return k.Kind
		}
	}
	return match.KindBall
}

func kindMidpoint(kind match.Kind) float64 {
	cum := 0.0
	for _, k := range KindTable {
		if k.Kind == kind {
			return (cum + k.Pct/2) / 100
		}
		cum += k.Pct
	}
	return 0.5
}

// Generator produces deliveries from a Source.
type Generator struct {
	src Source
}

// New creates a generator reading from src.
func New(src Source) *Generator {
	return &Generator{src: src}
}

// Source returns the generator's randomness source.
func (g *Generator) Source() Source {
	return g.src
}

// Generate draws the next delivery for state.
//
// Returns ILLEGAL_STATE_TRANSITION when the batting side's innings is over;
// the caller must not ask for a delivery nobody can face.
func (g *Generator) Generate(state *match.State) (match.BallEvent, error) {
	if err := checkLive(state); err != nil {
		return nil, err
	}

	draw := g.src.Float64() * 100
	switch pickKind(draw) {
	case match.KindWicket:
		dismissal := match.Dismissals[g.src.Intn(len(match.Dismissals))]
		completed := 0
		if dismissal == match.RunOut {
			completed = RunOutRuns.pick(g.src.Float64() * 100)
		}
		return match.Wicket{Dismissal: dismissal, Completed: completed}, nil
	case match.KindWide:
		return match.Wide{Extras: WideRuns.pick(g.src.Float64() * 100)}, nil
	case match.KindNoBall:
		return match.NoBall{Extras: NoBallRuns.pick(g.src.Float64() * 100)}, nil
	case match.KindBye:
		return match.Bye{Extras: ByeRuns.pick(g.src.Float64() * 100)}, nil
	case match.KindLegBye:
		return match.LegBye{Extras: ByeRuns.pick(g.src.Float64() * 100)}, nil
	default:
		return match.Ball{Bat: BallRuns.pick(g.src.Float64() * 100)}, nil
	}
}

func checkLive(state *match.State) error {
	if state == nil {
		return match.NewNoActiveMatch("generate")
	}
	if state.Completed {
		return match.NewIllegalState(state.MatchID, "match is completed")
	}
	batting := state.Batting()
	if batting == nil {
		return match.NewIllegalState(state.MatchID, "no batting side")
	}
	if batting.LegalBalls >= state.MaxLegalBalls() || batting.Wickets >= match.MaxWickets {
		return match.NewIllegalState(state.MatchID, "innings %d is over", state.Innings)
	}
	if s := state.Striker(); s == nil || s.IsOut {
		return match.NewIllegalState(state.MatchID, "no batsman on strike")
	}
	return nil
}

// Script returns a ScriptedSource whose draws make a Generator produce
// exactly the given deliveries, in order.
func Script(events ...match.BallEvent) (*ScriptedSource, error) {
	src := NewScriptedSource()
	for i, ev := range events {
		floats, ints, err := DrawsFor(ev)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		src.floats = append(src.floats, floats...)
		src.ints = append(src.ints, ints...)
	}
	return src, nil
}

// DrawsFor returns the Float64 and Intn draws that produce ev.
func DrawsFor(ev match.BallEvent) ([]float64, []int, error) {
	kindDraw := kindMidpoint(ev.Kind())

	runsDraw := func(t Table, runs int) ([]float64, []int, error) {
		d, ok := t.midpoint(runs)
		if !ok {
			return nil, nil, fmt.Errorf("%s cannot produce %d runs", ev.Kind(), runs)
		}
		return []float64{kindDraw, d}, nil, nil
	}

	switch e := ev.(type) {
	case match.Ball:
		return runsDraw(BallRuns, e.Bat)
	case match.Wide:
		return runsDraw(WideRuns, e.Extras)
	case match.NoBall:
		return runsDraw(NoBallRuns, e.Extras)
	case match.Bye:
		return runsDraw(ByeRuns, e.Extras)
	case match.LegBye:
		return runsDraw(ByeRuns, e.Extras)
	case match.Wicket:
		idx := -1
		for i, d := range match.Dismissals {
			if d == e.Dismissal {
				idx = i
			}
		}
		if idx < 0 {
			return nil, nil, fmt.Errorf("unknown dismissal %q", e.Dismissal)
		}
		if e.Dismissal != match.RunOut {
			if e.Completed != 0 {
				return nil, nil, fmt.Errorf("%s cannot complete runs", e.Dismissal)
			}
			return []float64{kindDraw}, []int{idx}, nil
		}
		d, ok := RunOutRuns.midpoint(e.Completed)
		if !ok {
			return nil, nil, fmt.Errorf("run out cannot complete %d runs", e.Completed)
		}
		return []float64{kindDraw, d}, []int{idx}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported delivery %T", ev)
	}
}
