// Package stats derives rates, leaders and phase splits from a match state.
//
// Every function is pure: it reads the state and never mutates it. Rates are
// rounded to two decimal places, the precision a scorecard shows, and a zero
// denominator yields zero rather than NaN or Inf.
package stats

import (
	"math"
	"strconv"

	"github.com/roach88/overs/internal/match"
)

// PowerplayOvers is the number of opening overs in the powerplay.
const PowerplayOvers = 6

// DeathOvers is the number of closing overs in the death phase.
const DeathOvers = 5

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// RunRate is runs per six legal balls.
func RunRate(runs, legalBalls int) float64 {
	if legalBalls <= 0 {
		return 0
	}
	return round2(float64(runs) * match.BallsPerOver / float64(legalBalls))
}

// RequiredRunRate is the rate needed to reach target in the overs left.
// It is zero when no overs remain or the target is already reached.
func RequiredRunRate(target, runs int, oversRemaining float64) float64 {
	need := target - runs
	if oversRemaining <= 0 || need <= 0 {
		return 0
	}
	return round2(float64(need) / oversRemaining)
}

// StrikeRate is runs per hundred balls faced.
func StrikeRate(runs, balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return round2(float64(runs) * 100 / float64(balls))
}

// Economy is runs conceded per six legal balls bowled.
func Economy(runs, legalBalls int) float64 {
	return RunRate(runs, legalBalls)
}

// OversDisplay formats a legal ball count as "<completed overs>.<balls>".
func OversDisplay(legalBalls int) string {
	return match.OversString(legalBalls)
}

// BallsRemaining is the number of legal balls left in the batting side's
// innings.
func BallsRemaining(st *match.State) int {
	b := st.Batting()
	if b == nil {
		return 0
	}
	left := st.MaxLegalBalls() - b.LegalBalls
	if left < 0 {
		return 0
	}
	return left
}

// OversRemaining is BallsRemaining expressed in overs.
func OversRemaining(st *match.State) float64 {
	return float64(BallsRemaining(st)) / match.BallsPerOver
}

// CurrentRunRate is the batting side's run rate.
func CurrentRunRate(st *match.State) float64 {
	b := st.Batting()
	if b == nil {
		return 0
	}
	return RunRate(b.Runs, b.LegalBalls)
}

// CurrentRequiredRate is the chasing side's required rate, or zero outside a
// chase.
func CurrentRequiredRate(st *match.State) float64 {
	if st.Innings != 2 || st.Target == nil || st.Completed {
		return 0
	}
	return RequiredRunRate(*st.Target, st.Batting().Runs, OversRemaining(st))
}

// ProjectedScore extrapolates the current run rate over the full innings.
func ProjectedScore(runs, legalBalls, overs int) int {
	if legalBalls <= 0 {
		return runs
	}
	return int(math.Round(float64(runs) * float64(overs*match.BallsPerOver) / float64(legalBalls)))
}

// TopBatsman returns the highest scorer among those who batted. Ties go to
// fewer balls faced, then to batting order.
func TopBatsman(list []match.BatsmanRecord) (match.BatsmanRecord, bool) {
	best, found := match.BatsmanRecord{}, false
	for _, b := range list {
		if !b.HasBatted {
			continue
		}
		if !found || b.Runs > best.Runs || (b.Runs == best.Runs && b.Balls < best.Balls) {
			best, found = b, true
		}
	}
	return best, found
}

// TopBowler returns the bowler with the most wickets among those who bowled.
// Ties go to the lower economy, then to bowling order.
func TopBowler(list []match.BowlerRecord) (match.BowlerRecord, bool) {
	best, found := match.BowlerRecord{}, false
	for _, b := range list {
		if b.LegalBalls == 0 {
			continue
		}
		eco := Economy(b.RunsConceded, b.LegalBalls)
		if !found || b.Wickets > best.Wickets ||
			(b.Wickets == best.Wickets && eco < Economy(best.RunsConceded, best.LegalBalls)) {
			best, found = b, true
		}
	}
	return best, found
}

// PhaseStats aggregates a range of overs for one side.
type PhaseStats struct {
	Overs      int     `json:"overs"`
	Runs       int     `json:"runs"`
	Wickets    int     `json:"wickets"`
	Extras     int     `json:"extras"`
	LegalBalls int     `json:"legal_balls"`
	RunRate    float64 `json:"run_rate"`
}

// PowerplayStats covers overs 1 to 6 of team's innings.
func PowerplayStats(st *match.State, team match.TeamID) PhaseStats {
	return phaseStats(st, team, func(over int) bool { return over <= PowerplayOvers })
}

// DeathOversStats covers the last five overs of team's innings.
func DeathOversStats(st *match.State, team match.TeamID) PhaseStats {
	first := st.Overs - DeathOvers + 1
	return phaseStats(st, team, func(over int) bool { return over >= first })
}

func phaseStats(st *match.State, team match.TeamID, in func(over int) bool) PhaseStats {
	var ps PhaseStats
	for _, o := range st.OverSummaries[team] {
		if !in(o.Over) {
			continue
		}
		ps.Overs++
		ps.Runs += o.Runs
		ps.Wickets += o.Wickets
		ps.Extras += o.Extras
		ps.LegalBalls += o.LegalBalls
	}

	if !st.Completed && team == st.BattingTeam() && len(st.CurrentOver) > 0 &&
		in(st.CurrentOver[0].Over+1) {
		for _, d := range st.CurrentOver {
			ps.Runs += d.Event.Runs()
			if d.Event.Kind() == match.KindWicket {
				ps.Wickets++
			}
			if d.Event.Kind() != match.KindBall && d.Event.Kind() != match.KindWicket {
				ps.Extras += d.Event.Runs()
			}
			if d.Event.Legal() {
				ps.LegalBalls++
			}
		}
	}

	ps.RunRate = RunRate(ps.Runs, ps.LegalBalls)
	return ps
}

// PartnershipStats is the current stand.
type PartnershipStats struct {
	Runs    int       `json:"runs"`
	Balls   int       `json:"balls"`
	Batsmen [2]string `json:"batsmen"`
}

// Partnership returns runs and legal balls since the last wicket of the
// batting side.
func Partnership(st *match.State) PartnershipStats {
	p := PartnershipStats{Runs: st.PartnershipRuns, Balls: st.PartnershipBalls}
	if s := st.Striker(); s != nil {
		p.Batsmen[0] = s.Name
	}
	if ns := st.NonStriker(); ns != nil {
		p.Batsmen[1] = ns.Name
	}
	return p
}

// WinProbability estimates each side's chance of winning, in percent.
//
// During the first innings both sides are even. During the chase the chasing
// side starts at 50 and moves 10 points per run of difference between the
// current and required rates, clamped to [5,95]. With no balls left, or once
// the match is completed, the result is certain.
func WinProbability(st *match.State) map[match.TeamID]float64 {
	first, second := st.BattingFirst, st.BowlingFirst
	split := func(chasing float64) map[match.TeamID]float64 {
		return map[match.TeamID]float64{first: round2(100 - chasing), second: round2(chasing)}
	}

	if st.Completed {
		switch {
		case st.Result == nil || st.Result.Winner == nil:
			return split(50)
		case *st.Result.Winner == second:
			return split(100)
		default:
			return split(0)
		}
	}
	if st.Innings != 2 || st.Target == nil {
		return split(50)
	}

	runs := st.Scores[second].Runs
	if runs >= *st.Target {
		return split(100)
	}
	if BallsRemaining(st) == 0 {
		return split(0)
	}

	p := 50 + 10*(CurrentRunRate(st)-CurrentRequiredRate(st))
	return split(math.Max(5, math.Min(95, p)))
}

// FormatScore renders a total as "runs/wickets".
func FormatScore(runs, wickets int) string {
	return strconv.Itoa(runs) + "/" + strconv.Itoa(wickets)
}
