package match

import (
	"fmt"
	"strconv"
)

// Kind names a delivery variant. The string values are stable: they are
// written to the delivery log and used in scenario files.
type Kind string

const (
	KindBall   Kind = "ball"
	KindWide   Kind = "wide"
	KindNoBall Kind = "noball"
	KindBye    Kind = "bye"
	KindLegBye Kind = "legbye"
	KindWicket Kind = "wicket"
)

// Kinds lists every delivery kind in a fixed order.
var Kinds = []Kind{KindBall, KindWide, KindNoBall, KindBye, KindLegBye, KindWicket}

// Dismissal is the manner of a wicket.
type Dismissal string

const (
	Bowled  Dismissal = "bowled"
	Caught  Dismissal = "caught"
	LBW     Dismissal = "lbw"
	RunOut  Dismissal = "run_out"
	Stumped Dismissal = "stumped"
)

// Dismissals lists the dismissal kinds the generator draws from, in draw order.
var Dismissals = []Dismissal{Bowled, Caught, LBW, RunOut, Stumped}

// CreditsBowler reports whether the bowler is credited with the wicket.
func (d Dismissal) CreditsBowler() bool {
	return d != RunOut
}

// BallEvent is one delivery outcome. The set of implementations is closed.
type BallEvent interface {
	Kind() Kind

	// Runs is the total added to the batting side's score.
	Runs() int

	// Legal reports whether the delivery counts toward the six-ball over.
	Legal() bool

	// Label is the short scorecard form, e.g. "4", "Wd", "W".
	Label() string

	isBallEvent()
}

// Ball is a legal delivery with runs off the bat.
type Ball struct {
	Bat int
}

// Wide is an illegal delivery. Extras includes the one-run penalty.
type Wide struct {
	Extras int
}

// NoBall is an illegal delivery. All of its runs are extras and the next
// legal delivery is a free hit.
type NoBall struct {
	Extras int
}

// Bye is a legal delivery where the runs are not credited to the striker.
type Bye struct {
	Extras int
}

// LegBye is a legal delivery where the runs come off the striker's body.
type LegBye struct {
	Extras int
}

// Wicket dismisses the striker on a legal delivery. Completed holds runs
// finished before a run out; it is zero for every other dismissal.
type Wicket struct {
	Dismissal Dismissal
	Completed int
}

func (Ball) Kind() Kind   { return KindBall }
func (Wide) Kind() Kind   { return KindWide }
func (NoBall) Kind() Kind { return KindNoBall }
func (Bye) Kind() Kind    { return KindBye }
func (LegBye) Kind() Kind { return KindLegBye }
func (Wicket) Kind() Kind { return KindWicket }

func (e Ball) Runs() int   { return e.Bat }
func (e Wide) Runs() int   { return e.Extras }
func (e NoBall) Runs() int { return e.Extras }
func (e Bye) Runs() int    { return e.Extras }
func (e LegBye) Runs() int { return e.Extras }
func (e Wicket) Runs() int { return e.Completed }

func (Ball) Legal() bool   { return true }
func (Wide) Legal() bool   { return false }
func (NoBall) Legal() bool { return false }
func (Bye) Legal() bool    { return true }
func (LegBye) Legal() bool { return true }
func (Wicket) Legal() bool { return true }

func (e Ball) Label() string { return strconv.Itoa(e.Bat) }

func (e Wide) Label() string { return extrasLabel(e.Extras, "Wd") }

func (e NoBall) Label() string { return extrasLabel(e.Extras, "Nb") }

func (e Bye) Label() string { return strconv.Itoa(e.Extras) + "B" }

func (e LegBye) Label() string { return strconv.Itoa(e.Extras) + "Lb" }

func (e Wicket) Label() string {
	if e.Completed > 0 {
		return strconv.Itoa(e.Completed) + "W"
	}
	return "W"
}

func (Ball) isBallEvent()   {}
func (Wide) isBallEvent()   {}
func (NoBall) isBallEvent() {}
func (Bye) isBallEvent()    {}
func (LegBye) isBallEvent() {}
func (Wicket) isBallEvent() {}

func extrasLabel(runs int, suffix string) string {
	if runs <= 1 {
		return suffix
	}
	return strconv.Itoa(runs) + suffix
}

// IsBoundary reports whether the event is a four or six off the bat.
func IsBoundary(e BallEvent) bool {
	b, ok := e.(Ball)
	return ok && (b.Bat == 4 || b.Bat == 6)
}

// NewEvent builds a BallEvent from its kind and run count. The dismissal is
// only read for KindWicket. Used by decoders (delivery log, scenario files).
func NewEvent(kind Kind, runs int, dismissal Dismissal) (BallEvent, error) {
	if runs < 0 {
		return nil, fmt.Errorf("negative runs %d for %s", runs, kind)
	}
	switch kind {
	case KindBall:
		return Ball{Bat: runs}, nil
	case KindWide:
		if runs < 1 {
			return nil, fmt.Errorf("wide must carry at least the penalty run")
		}
		return Wide{Extras: runs}, nil
	case KindNoBall:
		if runs < 1 {
			return nil, fmt.Errorf("no-ball must carry at least the penalty run")
		}
		return NoBall{Extras: runs}, nil
	case KindBye:
		return Bye{Extras: runs}, nil
	case KindLegBye:
		return LegBye{Extras: runs}, nil
	case KindWicket:
		if !validDismissal(dismissal) {
			return nil, fmt.Errorf("unknown dismissal %q", dismissal)
		}
		if runs > 0 && dismissal != RunOut {
			return nil, fmt.Errorf("only a run out may complete runs, got %d for %s", runs, dismissal)
		}
		return Wicket{Dismissal: dismissal, Completed: runs}, nil
	default:
		return nil, fmt.Errorf("unknown delivery kind %q", kind)
	}
}

func validDismissal(d Dismissal) bool {
	for _, known := range Dismissals {
		if d == known {
			return true
		}
	}
	return false
}
