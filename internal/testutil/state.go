package testutil

import (
	"fmt"

	"github.com/roach88/overs/internal/match"
)

// Squad returns eleven player names: "<prefix>1" .. "<prefix>11".
func Squad(prefix string) []string {
	out := make([]string, match.MinPlayers)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return out
}

// NewState builds a live first-innings state between "AAA" (batting) and
// "BBB" (bowling) without going through the engine. Batsmen are A1..A11,
// bowlers B7..B11. A1 is on strike, B7 bowls.
//
// Intended for packages below the engine that need a plausible state.
func NewState() *match.State {
	bat, bowl := match.TeamID("AAA"), match.TeamID("BBB")
	st := &match.State{
		MatchID:      "test-match",
		Overs:        match.TotalOvers,
		Phase:        match.PhaseInnings1,
		Innings:      1,
		Toss:         match.TossResult{WonBy: bat, ChoseTo: match.ChoseBat},
		BattingFirst: bat,
		BowlingFirst: bowl,
		TeamNames:    map[match.TeamID]string{bat: "Team A", bowl: "Team B"},
		Scores: map[match.TeamID]*match.TeamInnings{
			bat:  {},
			bowl: {},
		},
		Batsmen: map[match.TeamID][]match.BatsmanRecord{
			bat:  ledger(Squad("A")),
			bowl: ledger(Squad("B")),
		},
		Bowlers: map[match.TeamID][]match.BowlerRecord{
			bat:  bowlers(Squad("A")[6:]),
			bowl: bowlers(Squad("B")[6:]),
		},
		StrikerIndex:    0,
		NonStrikerIndex: 1,
		BowlerIndex:     0,
		RecentBalls:     match.NewRing[match.Delivery](match.RecentCap),
		Commentary:      match.NewRing[string](match.CommentaryCap),
		FallOfWickets:   map[match.TeamID][]match.WicketRecord{},
		OverSummaries:   map[match.TeamID][]match.OverSummary{},
	}
	st.Batsmen[bat][0].IsOnStrike = true
	st.Batsmen[bat][0].HasBatted = true
	st.Batsmen[bat][1].HasBatted = true
	st.Bowlers[bowl][0].IsBowling = true
	return st
}

func ledger(names []string) []match.BatsmanRecord {
	out := make([]match.BatsmanRecord, len(names))
	for i, n := range names {
		out[i] = match.BatsmanRecord{Name: n}
	}
	return out
}

func bowlers(names []string) []match.BowlerRecord {
	out := make([]match.BowlerRecord, len(names))
	for i, n := range names {
		out[i] = match.BowlerRecord{Name: n}
	}
	return out
}

// Balls returns one Ball per run value.
func Balls(runs ...int) []match.BallEvent {
	out := make([]match.BallEvent, len(runs))
	for i, r := range runs {
		out[i] = match.Ball{Bat: r}
	}
	return out
}

// Dots returns n scoreless balls.
func Dots(n int) []match.BallEvent {
	return Repeat(match.Ball{}, n)
}

// Repeat returns ev n times.
func Repeat(ev match.BallEvent, n int) []match.BallEvent {
	out := make([]match.BallEvent, n)
	for i := range out {
		out[i] = ev
	}
	return out
}

// Concat joins event slices.
func Concat(parts ...[]match.BallEvent) []match.BallEvent {
	var out []match.BallEvent
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
