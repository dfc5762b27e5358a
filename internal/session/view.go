package session

import (
	"github.com/roach88/overs/internal/engine"
	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/stats"
)

// Status values reported in a View.
const (
	StatusLive      = "live"
	StatusCompleted = "completed"
)

// SideView is one team's line on the scoreboard.
type SideView struct {
	ID      match.TeamID `json:"id"`
	Name    string       `json:"name"`
	Runs    int          `json:"runs"`
	Wickets int          `json:"wickets"`
	Overs   string       `json:"overs"`
	Extras  int          `json:"extras"`
	Batting bool         `json:"batting"`
}

// BallView is the most recent delivery.
type BallView struct {
	Seq      int64      `json:"seq"`
	Kind     match.Kind `json:"kind"`
	Label    string     `json:"label"`
	Runs     int        `json:"runs"`
	Boundary bool       `json:"boundary"`
}

// View is a read-only snapshot of a match for display. It shares no memory
// with the state it was built from.
type View struct {
	MatchID string      `json:"match_id"`
	Status  string      `json:"status"`
	Phase   match.Phase `json:"phase"`
	Innings int         `json:"innings"`
	Toss    string      `json:"toss"`

	// Teams is in batting-first order.
	Teams [2]SideView `json:"teams"`

	Striker    string `json:"striker"`
	NonStriker string `json:"non_striker"`
	Bowler     string `json:"bowler"`

	CurrentRunRate  float64 `json:"current_run_rate"`
	RequiredRunRate float64 `json:"required_run_rate"`
	Target          *int    `json:"target,omitempty"`
	ProjectedScore  int     `json:"projected_score"`
	FreeHit         bool    `json:"free_hit"`

	Batsmen map[match.TeamID][]match.BatsmanRecord `json:"batsmen"`
	Bowlers map[match.TeamID][]match.BowlerRecord  `json:"bowlers"`

	RecentBalls []string            `json:"recent_balls"`
	ThisOver    []string            `json:"this_over"`
	LastOver    []string            `json:"last_over"`
	LastBall    *BallView           `json:"last_ball,omitempty"`
	LastWicket  *match.WicketRecord `json:"last_wicket,omitempty"`
	Commentary  []string            `json:"commentary"`

	Partnership    stats.PartnershipStats   `json:"partnership"`
	Powerplay      stats.PhaseStats         `json:"powerplay"`
	DeathOvers     stats.PhaseStats         `json:"death_overs"`
	WinProbability map[match.TeamID]float64 `json:"win_probability"`

	Winner *match.TeamID `json:"winner,omitempty"`
	Margin string        `json:"margin,omitempty"`
	Result string        `json:"result,omitempty"`

	Seq int64 `json:"seq"`
}

// NewView snapshots st.
func NewView(st *match.State) View {
	batting := st.BattingTeam()
	v := View{
		MatchID:         st.MatchID,
		Status:          StatusLive,
		Phase:           st.Phase,
		Innings:         st.Innings,
		Toss:            engine.TossDescription(st),
		CurrentRunRate:  stats.CurrentRunRate(st),
		RequiredRunRate: stats.CurrentRequiredRate(st),
		FreeHit:         st.FreeHit,
		Batsmen:         make(map[match.TeamID][]match.BatsmanRecord, 2),
		Bowlers:         make(map[match.TeamID][]match.BowlerRecord, 2),
		Commentary:      st.Commentary.Items(),
		Partnership:     stats.Partnership(st),
		Powerplay:       stats.PowerplayStats(st, batting),
		DeathOvers:      stats.DeathOversStats(st, batting),
		WinProbability:  stats.WinProbability(st),
		Seq:             st.Seq,
	}
	if st.Completed {
		v.Status = StatusCompleted
	}

	for i, id := range []match.TeamID{st.BattingFirst, st.BowlingFirst} {
		score := st.Scores[id]
		v.Teams[i] = SideView{
			ID:      id,
			Name:    st.TeamName(id),
			Runs:    score.Runs,
			Wickets: score.Wickets,
			Overs:   stats.OversDisplay(score.LegalBalls),
			Extras:  score.Extras,
			Batting: id == batting && !st.Completed,
		}
		v.Batsmen[id] = append([]match.BatsmanRecord(nil), st.Batsmen[id]...)
		v.Bowlers[id] = append([]match.BowlerRecord(nil), st.Bowlers[id]...)
	}

	if b := st.Batting(); b != nil {
		v.ProjectedScore = stats.ProjectedScore(b.Runs, b.LegalBalls, st.Overs)
	}
	if !st.Completed {
		if s := st.Striker(); s != nil {
			v.Striker = s.Name
		}
		if ns := st.NonStriker(); ns != nil {
			v.NonStriker = ns.Name
		}
		if b := st.Bowler(); b != nil {
			v.Bowler = b.Name
		}
	}
	if st.Target != nil {
		target := *st.Target
		v.Target = &target
	}

	for _, d := range st.RecentBalls.Items() {
		v.RecentBalls = append(v.RecentBalls, d.Label())
	}
	for _, d := range st.CurrentOver {
		v.ThisOver = append(v.ThisOver, d.Label())
	}
	for _, d := range st.LastOver {
		v.LastOver = append(v.LastOver, d.Label())
	}
	if d, ok := st.RecentBalls.Last(); ok && d.Event != nil {
		v.LastBall = &BallView{
			Seq:      d.Seq,
			Kind:     d.Event.Kind(),
			Label:    d.Label(),
			Runs:     d.Event.Runs(),
			Boundary: match.IsBoundary(d.Event),
		}
	}
	if st.LastWicket != nil {
		w := *st.LastWicket
		v.LastWicket = &w
	}

	if r := st.Result; r != nil {
		if r.Winner != nil {
			winner := *r.Winner
			v.Winner = &winner
		}
		v.Margin = r.Margin
		v.Result = r.Summary
	}
	return v
}

// Score formats a side as "runs/wickets (overs)".
func (s SideView) Score() string {
	return stats.FormatScore(s.Runs, s.Wickets) + " (" + s.Overs + ")"
}
