package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/testutil"
)

func TestRates(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"run rate", RunRate(45, 30), 9},
		{"run rate rounds", RunRate(10, 7), 8.57},
		{"run rate no balls", RunRate(4, 0), 0},
		{"required rate", RequiredRunRate(150, 90, 6), 10},
		{"required rate rounds", RequiredRunRate(100, 0, 7), 14.29},
		{"required rate target reached", RequiredRunRate(100, 100, 3), 0},
		{"required rate no overs", RequiredRunRate(100, 50, 0), 0},
		{"strike rate", StrikeRate(30, 20), 150},
		{"strike rate rounds", StrikeRate(1, 3), 33.33},
		{"strike rate no balls", StrikeRate(0, 0), 0},
		{"economy", Economy(24, 24), 6},
		{"economy partial over", Economy(5, 2), 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestOversDisplay(t *testing.T) {
	assert.Equal(t, "0.0", OversDisplay(0))
	assert.Equal(t, "0.5", OversDisplay(5))
	assert.Equal(t, "1.0", OversDisplay(6))
	assert.Equal(t, "19.4", OversDisplay(118))
	assert.Equal(t, "20.0", OversDisplay(120))
}

func TestProjectedScore(t *testing.T) {
	assert.Equal(t, 0, ProjectedScore(0, 0, 20))
	assert.Equal(t, 7, ProjectedScore(7, 0, 20), "nothing to extrapolate from")
	assert.Equal(t, 160, ProjectedScore(48, 36, 20))
	assert.Equal(t, 171, ProjectedScore(10, 7, 20))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "0/0", FormatScore(0, 0))
	assert.Equal(t, "187/6", FormatScore(187, 6))
}

func TestTopBatsman(t *testing.T) {
	list := []match.BatsmanRecord{
		{Name: "A1", Runs: 30, Balls: 25, HasBatted: true},
		{Name: "A2", Runs: 30, Balls: 20, HasBatted: true},
		{Name: "A3", Runs: 10, Balls: 5, HasBatted: true},
		{Name: "A4"},
	}
	best, ok := TopBatsman(list)
	require.True(t, ok)
	assert.Equal(t, "A2", best.Name, "equal runs go to fewer balls")

	_, ok = TopBatsman([]match.BatsmanRecord{{Name: "A1"}})
	assert.False(t, ok)
}

func TestTopBowler(t *testing.T) {
	list := []match.BowlerRecord{
		{Name: "B7", Wickets: 2, RunsConceded: 30, LegalBalls: 24},
		{Name: "B8", Wickets: 2, RunsConceded: 18, LegalBalls: 24},
		{Name: "B9", Wickets: 1, RunsConceded: 4, LegalBalls: 24},
		{Name: "B10", Wickets: 5},
	}
	best, ok := TopBowler(list)
	require.True(t, ok)
	assert.Equal(t, "B8", best.Name, "equal wickets go to lower economy")

	_, ok = TopBowler([]match.BowlerRecord{{Name: "B7"}})
	assert.False(t, ok, "a bowler who never bowled is not ranked")
}

func TestCurrentRates_FirstInnings(t *testing.T) {
	st := testutil.NewState()
	st.Scores["AAA"].Runs = 30
	st.Scores["AAA"].LegalBalls = 24

	assert.Equal(t, 7.5, CurrentRunRate(st))
	assert.Equal(t, 0.0, CurrentRequiredRate(st))
	assert.Equal(t, 96, BallsRemaining(st))
	assert.Equal(t, 16.0, OversRemaining(st))
}

// chase moves a fresh state into the second innings with BBB needing target.
func chase(target, runs, legalBalls int) *match.State {
	st := testutil.NewState()
	st.Innings = 2
	st.Phase = match.PhaseInnings2
	st.Target = &target
	st.Scores["AAA"].Runs = target - 1
	st.Scores["AAA"].LegalBalls = 120
	st.Scores["BBB"].Runs = runs
	st.Scores["BBB"].LegalBalls = legalBalls
	return st
}

func TestCurrentRates_Chase(t *testing.T) {
	st := chase(151, 60, 60)

	assert.Equal(t, match.TeamID("BBB"), st.BattingTeam())
	assert.Equal(t, 6.0, CurrentRunRate(st))
	assert.Equal(t, 9.1, CurrentRequiredRate(st))

	st.Completed = true
	assert.Equal(t, 0.0, CurrentRequiredRate(st))
}

func TestWinProbability(t *testing.T) {
	winner := func(id match.TeamID) *match.Result { return &match.Result{Winner: &id} }

	tests := []struct {
		name  string
		state func() *match.State
		want  map[match.TeamID]float64
	}{
		{
			name:  "first innings is even",
			state: testutil.NewState,
			want:  map[match.TeamID]float64{"AAA": 50, "BBB": 50},
		},
		{
			name:  "chase on the rate",
			state: func() *match.State { return chase(130, 60, 60) },
			want:  map[match.TeamID]float64{"AAA": 60, "BBB": 40},
		},
		{
			name:  "chase ahead of the rate is capped",
			state: func() *match.State { return chase(61, 60, 6) },
			want:  map[match.TeamID]float64{"AAA": 5, "BBB": 95},
		},
		{
			name:  "chase far behind is floored",
			state: func() *match.State { return chase(200, 10, 60) },
			want:  map[match.TeamID]float64{"AAA": 95, "BBB": 5},
		},
		{
			name:  "target reached",
			state: func() *match.State { return chase(100, 100, 60) },
			want:  map[match.TeamID]float64{"AAA": 0, "BBB": 100},
		},
		{
			name:  "no balls left",
			state: func() *match.State { return chase(100, 80, 120) },
			want:  map[match.TeamID]float64{"AAA": 100, "BBB": 0},
		},
		{
			name: "completed first side won",
			state: func() *match.State {
				st := chase(100, 80, 120)
				st.Completed = true
				st.Result = winner("AAA")
				return st
			},
			want: map[match.TeamID]float64{"AAA": 100, "BBB": 0},
		},
		{
			name: "completed tie",
			state: func() *match.State {
				st := chase(100, 99, 120)
				st.Completed = true
				st.Result = &match.Result{Tie: true}
				return st
			},
			want: map[match.TeamID]float64{"AAA": 50, "BBB": 50},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WinProbability(tt.state()))
		})
	}
}

func TestPhaseStats(t *testing.T) {
	st := testutil.NewState()
	st.OverSummaries["AAA"] = []match.OverSummary{
		{Over: 1, Runs: 8, Extras: 1, LegalBalls: 6},
		{Over: 6, Runs: 12, Wickets: 1, LegalBalls: 6},
		{Over: 7, Runs: 20, LegalBalls: 6},
		{Over: 16, Runs: 14, Wickets: 2, LegalBalls: 6},
	}
	// over 17 in progress: a wide and a four
	st.CurrentOver = []match.Delivery{
		{Over: 16, Ball: 0, Event: match.Wide{Extras: 1}},
		{Over: 16, Ball: 1, Event: match.Ball{Bat: 4}},
	}

	pp := PowerplayStats(st, "AAA")
	assert.Equal(t, PhaseStats{Overs: 2, Runs: 20, Wickets: 1, Extras: 1, LegalBalls: 12, RunRate: 10}, pp)

	death := DeathOversStats(st, "AAA")
	assert.Equal(t, PhaseStats{Overs: 1, Runs: 19, Wickets: 2, Extras: 1, LegalBalls: 7, RunRate: 16.29}, death)

	assert.Equal(t, PhaseStats{}, PowerplayStats(st, "BBB"))

	st.Completed = true
	death = DeathOversStats(st, "AAA")
	assert.Equal(t, 14, death.Runs, "the in-progress over only counts while the match is live")
}

func TestPartnership(t *testing.T) {
	st := testutil.NewState()
	st.PartnershipRuns = 42
	st.PartnershipBalls = 31

	assert.Equal(t, PartnershipStats{Runs: 42, Balls: 31, Batsmen: [2]string{"A1", "A2"}}, Partnership(st))
}
