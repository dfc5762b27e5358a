package engine

import (
	"fmt"

	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/stats"
)

// openInnings puts the openers in and hands the ball to the first bowler.
func openInnings(st *match.State) {
	bat, bowl := st.BattingTeam(), st.BowlingTeam()

	st.StrikerIndex, st.NonStrikerIndex, st.BowlerIndex = 0, 1, 0
	batsmen := st.Batsmen[bat]
	batsmen[0].HasBatted = true
	batsmen[1].HasBatted = true
	markStrike(st)

	clearBowling(st)
	st.Bowlers[bowl][0].IsBowling = true
}

func clearBowling(st *match.State) {
	for _, side := range []match.TeamID{st.BattingFirst, st.BowlingFirst} {
		list := st.Bowlers[side]
		for i := range list {
			list[i].IsBowling = false
		}
	}
}

// completeOver archives the current over, complete or not.
func (e *Engine) completeOver(st *match.State) {
	if len(st.CurrentOver) == 0 {
		return
	}

	first := st.CurrentOver[0]
	sum := match.OverSummary{Over: first.Over + 1, Bowler: first.Bowler}
	for _, d := range st.CurrentOver {
		sum.Runs += d.Event.Runs()
		switch d.Event.(type) {
		case match.Wicket:
			sum.Wickets++
		case match.Wide, match.NoBall, match.Bye, match.LegBye:
			sum.Extras += d.Event.Runs()
		}
		if d.Event.Legal() {
			sum.LegalBalls++
		}
		sum.Balls = append(sum.Balls, d.Label())
	}

	team := st.BattingTeam()
	st.OverSummaries[team] = append(st.OverSummaries[team], sum)
	st.LastOver = st.CurrentOver
	st.CurrentOver = nil

	e.log.Debug("over completed",
		"match_id", st.MatchID,
		"team", team,
		"over", sum.Over,
		"bowler", sum.Bowler,
		"runs", sum.Runs,
	)
}

// rotateBowler hands the next over to the next bowler in bowling order who
// is under the cap, never the bowler who has just finished.
func (e *Engine) rotateBowler(st *match.State) {
	list := st.Bowlers[st.BowlingTeam()]
	limit := st.BowlerCap()
	prev := st.BowlerIndex

	list[prev].IsBowling = false
	next := -1
	for step := 1; step < len(list); step++ {
		i := (prev + step) % len(list)
		if list[i].LegalBalls < limit {
			next = i
			break
		}
	}
	if next < 0 {
		// Only reachable with fewer bowlers than the cap arithmetic assumes.
		e.log.Error("no eligible bowler, keeping current",
			"match_id", st.MatchID,
			"bowler", list[prev].Name,
		)
		next = prev
	}

	st.BowlerIndex = next
	list[next].IsBowling = true
}

// endInnings closes the batting side's innings. After the first innings it
// sets the target and opens the second; after the second it settles the
// result.
func (e *Engine) endInnings(st *match.State, out *Outcome) {
	team := st.BattingTeam()
	final := *st.Batting()
	out.InningsEnded = true

	for i := range st.Batsmen[team] {
		st.Batsmen[team][i].IsOnStrike = false
	}
	clearBowling(st)

	e.log.Info("innings completed",
		"match_id", st.MatchID,
		"innings", st.Innings,
		"team", team,
		"score", stats.FormatScore(final.Runs, final.Wickets),
		"overs", match.OversString(final.LegalBalls),
		"event", "innings_end",
	)

	if st.Innings == 1 {
		st.FirstInningsFinal = &final
		target := final.Runs + 1
		st.Target = &target
		e.transition(st, out, match.PhaseInningsBreak)

		st.Innings = 2
		chasing := st.BattingTeam()
		st.Scores[chasing] = &match.TeamInnings{}
		st.Batsmen[chasing] = battingCard(names(st.Batsmen[chasing]))
		st.FallOfWickets[chasing] = nil
		st.OverSummaries[chasing] = nil
		st.CurrentOver, st.LastOver = nil, nil
		st.LastWicket = nil
		st.FreeHit = false
		st.PartnershipRuns, st.PartnershipBalls = 0, 0

		openInnings(st)
		st.Commentary.Push(fmt.Sprintf("Innings break: %s need %s from %d balls",
			st.TeamName(chasing), plural(target, "run"), st.MaxLegalBalls()))
		e.transition(st, out, match.PhaseInnings2)
		return
	}

	st.Completed = true
	st.FreeHit = false
	st.Result = settle(st)
	e.transition(st, out, match.PhaseCompleted)
	out.MatchCompleted = true
	st.Commentary.Push(st.Result.Summary)

	e.log.Info("match completed",
		"match_id", st.MatchID,
		"result", st.Result.Summary,
		"event", "match_end",
	)
}

func (e *Engine) transition(st *match.State, out *Outcome, to match.Phase) {
	out.Transitions = append(out.Transitions, Transition{From: st.Phase, To: to})
	st.Phase = to
}

// settle compares the two innings. Equal totals are a tie with no winner.
func settle(st *match.State) *match.Result {
	first := 0
	if st.FirstInningsFinal != nil {
		first = st.FirstInningsFinal.Runs
	}
	chase := st.Scores[st.BowlingFirst]

	switch {
	case first > chase.Runs:
		winner := st.BattingFirst
		margin := plural(first-chase.Runs, "run")
		return &match.Result{Winner: &winner, Margin: margin, Summary: st.TeamName(winner) + " won by " + margin}
	case chase.Runs > first:
		winner := st.BowlingFirst
		margin := plural(match.MaxWickets-chase.Wickets, "wicket")
		return &match.Result{Winner: &winner, Margin: margin, Summary: st.TeamName(winner) + " won by " + margin}
	default:
		return &match.Result{Tie: true, Margin: "0 runs", Summary: "Match tied"}
	}
}

func names(list []match.BatsmanRecord) []string {
	out := make([]string, len(list))
	for i, b := range list {
		out[i] = b.Name
	}
	return out
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
