package testutil

import (
	"fmt"

	"github.com/roach88/overs/internal/match"
)

// CheckInvariants returns every scoring invariant st violates. An empty
// result means the state is consistent.
//
// The checks are written independently of the engine so that engine tests
// do not grade the engine with its own arithmetic.
func CheckInvariants(st *match.State) []string {
	var problems []string
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	maxBalls := st.Overs * match.BallsPerOver
	capBalls := match.BowlerOversFor(st.Overs) * match.BallsPerOver

	for team, score := range st.Scores {
		sum := score.Extras
		for _, b := range st.Batsmen[team] {
			sum += b.Runs
		}
		if score.Runs != sum {
			fail("%s: runs %d != batsmen %d + extras %d", team, score.Runs, sum-score.Extras, score.Extras)
		}
		if score.LegalBalls > maxBalls {
			fail("%s: %d legal balls exceeds %d", team, score.LegalBalls, maxBalls)
		}
		if score.Wickets > match.MaxWickets {
			fail("%s: %d wickets", team, score.Wickets)
		}
		out := 0
		for _, b := range st.Batsmen[team] {
			if b.IsOut {
				out++
			}
		}
		if out != score.Wickets {
			fail("%s: %d batsmen out but %d wickets", team, out, score.Wickets)
		}
	}

	for team, list := range st.Bowlers {
		for _, b := range list {
			if b.LegalBalls > capBalls {
				fail("%s: bowler %s bowled %d balls, cap %d", team, b.Name, b.LegalBalls, capBalls)
			}
		}
	}

	if st.Completed {
		return problems
	}

	bat, bowl := st.BattingTeam(), st.BowlingTeam()

	onStrike := 0
	for i, b := range st.Batsmen[bat] {
		if b.IsOnStrike {
			onStrike++
			if i != st.StrikerIndex {
				fail("%s: %s flagged on strike but striker index is %d", bat, b.Name, st.StrikerIndex)
			}
			if b.IsOut {
				fail("%s: %s is out but on strike", bat, b.Name)
			}
		}
	}
	if onStrike != 1 {
		fail("%s: %d batsmen on strike", bat, onStrike)
	}
	if st.StrikerIndex == st.NonStrikerIndex {
		fail("%s: striker and non-striker are both %d", bat, st.StrikerIndex)
	}
	if ns := st.NonStriker(); ns == nil || ns.IsOut {
		fail("%s: no valid non-striker", bat)
	}
	for _, b := range st.Batsmen[bowl] {
		if b.IsOnStrike {
			fail("%s: %s on strike while fielding", bowl, b.Name)
		}
	}

	bowling := 0
	for _, b := range st.Bowlers[bowl] {
		if b.IsBowling {
			bowling++
		}
	}
	if bowling != 1 {
		fail("%s: %d bowlers bowling", bowl, bowling)
	}
	for _, b := range st.Bowlers[bat] {
		if b.IsBowling {
			fail("%s: %s bowling while batting", bat, b.Name)
		}
	}
	if b := st.Bowler(); b == nil || !b.IsBowling {
		fail("%s: bowler index %d is not the bowling bowler", bowl, st.BowlerIndex)
	}

	return problems
}
