package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/stats"
	"github.com/roach88/overs/internal/testutil"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion %s failed: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion against st and returns one
// message per failure.
func EvaluateAssertions(st *match.State, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(st, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluate(st *match.State, a Assertion) error {
	switch a.Type {
	case AssertScore:
		return assertScore(st, a)
	case AssertStriker:
		return assertStriker(st, a)
	case AssertBowler:
		return assertBowler(st, a)
	case AssertStatus:
		return assertStatus(st, a)
	case AssertResult:
		return assertResult(st, a)
	case AssertExtras:
		return assertExtras(st, a)
	case AssertInvariants:
		return assertInvariants(st)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func teamScore(st *match.State, team string) (*match.TeamInnings, error) {
	score, ok := st.Scores[match.TeamID(team)]
	if !ok || score == nil {
		return nil, fmt.Errorf("team %q is not playing", team)
	}
	return score, nil
}

func assertScore(st *match.State, a Assertion) error {
	score, err := teamScore(st, a.Team)
	if err != nil {
		return err
	}
	got := stats.FormatScore(score.Runs, score.Wickets)
	if got != a.Expect {
		return &AssertionError{Type: AssertScore, Expected: a.Team + " " + a.Expect, Actual: a.Team + " " + got}
	}
	if a.Overs != "" {
		if overs := match.OversString(score.LegalBalls); overs != a.Overs {
			return &AssertionError{Type: AssertScore, Expected: a.Overs + " overs", Actual: overs + " overs"}
		}
	}
	return nil
}

func assertStriker(st *match.State, a Assertion) error {
	got := "nobody"
	if !st.Completed {
		if s := st.Striker(); s != nil {
			got = s.Name
		}
	}
	if got != a.Expect {
		return &AssertionError{Type: AssertStriker, Expected: a.Expect, Actual: got}
	}
	return nil
}

func assertBowler(st *match.State, a Assertion) error {
	got := "nobody"
	if !st.Completed {
		if b := st.Bowler(); b != nil {
			got = b.Name
		}
	}
	if got != a.Expect {
		return &AssertionError{Type: AssertBowler, Expected: a.Expect, Actual: got}
	}
	return nil
}

func assertStatus(st *match.State, a Assertion) error {
	got := "live"
	if st.Completed {
		got = "completed"
	}
	if got != a.Expect {
		return &AssertionError{Type: AssertStatus, Expected: a.Expect, Actual: got}
	}
	return nil
}

func assertResult(st *match.State, a Assertion) error {
	got := "no result"
	if st.Result != nil {
		got = st.Result.Summary
	}
	if got != a.Expect {
		return &AssertionError{Type: AssertResult, Expected: fmt.Sprintf("%q", a.Expect), Actual: fmt.Sprintf("%q", got)}
	}
	return nil
}

func assertExtras(st *match.State, a Assertion) error {
	score, err := teamScore(st, a.Team)
	if err != nil {
		return err
	}
	if score.Extras != *a.Count {
		return &AssertionError{
			Type:     AssertExtras,
			Expected: fmt.Sprintf("%s %d extras", a.Team, *a.Count),
			Actual:   fmt.Sprintf("%s %d extras", a.Team, score.Extras),
		}
	}
	return nil
}

func assertInvariants(st *match.State) error {
	if violations := testutil.CheckInvariants(st); len(violations) > 0 {
		return &AssertionError{
			Type:     AssertInvariants,
			Expected: "no violations",
			Actual:   strings.Join(violations, "; "),
		}
	}
	return nil
}
