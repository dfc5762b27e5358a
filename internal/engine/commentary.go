package engine

import (
	"fmt"
	"strings"

	"github.com/roach88/overs/internal/match"
)

// describe renders one commentary line, e.g. "3.2 Bumrah to Kohli, FOUR".
func (e *Engine) describe(d match.Delivery, reprieved match.Dismissal) string {
	var what string
	switch x := d.Event.(type) {
	case match.Ball:
		switch x.Bat {
		case 0:
			what = "no run"
		case 4:
			what = "FOUR"
		case 6:
			what = "SIX"
		default:
			what = plural(x.Bat, "run")
		}
		if reprieved != "" {
			what = e.dismissalTitle(reprieved) + " on a free hit, not out"
		}
	case match.Wide:
		what = plural(x.Extras, "wide")
	case match.NoBall:
		what = "no-ball, " + plural(x.Extras, "run") + ", free hit to follow"
	case match.Bye:
		what = plural(x.Extras, "bye")
	case match.LegBye:
		what = plural(x.Extras, "leg bye")
	case match.Wicket:
		what = "OUT! " + e.dismissalTitle(x.Dismissal)
		if x.Completed > 0 {
			what += ", " + plural(x.Completed, "run") + " completed"
		}
	}
	if d.FreeHit && reprieved == "" && d.Event.Legal() {
		what += " (free hit)"
	}
	return fmt.Sprintf("%d.%d %s to %s, %s", d.Over, d.Ball, d.Bowler, d.Batsman, what)
}

func (e *Engine) dismissalTitle(d match.Dismissal) string {
	if d == match.LBW {
		return "LBW"
	}
	return e.titler.String(strings.ReplaceAll(string(d), "_", " "))
}

// dismissalText is the batting card entry, e.g. "Caught, b Bumrah".
func (e *Engine) dismissalText(d match.Dismissal, bowler string) string {
	if !d.CreditsBowler() {
		return e.dismissalTitle(d)
	}
	return e.dismissalTitle(d) + ", b " + bowler
}
