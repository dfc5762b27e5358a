package match

import "fmt"

// Format constants for a T20 match.
const (
	TotalOvers     = 20
	BallsPerOver   = 6
	MaxWickets     = 10
	MaxBowlerOvers = 4
	RecentCap      = 18
	CommentaryCap  = 18
	MinPlayers     = 11
	MinBowlers     = 5
)

// TeamID identifies a side, e.g. "MI".
type TeamID string

// TossDecision is what the toss winner chose to do first.
type TossDecision string

const (
	ChoseBat   TossDecision = "bat"
	ChoseField TossDecision = "field"
)

// TossResult records the toss.
type TossResult struct {
	WonBy   TeamID       `json:"won_by"`
	ChoseTo TossDecision `json:"chose_to"`
}

// Phase is the match state machine position.
type Phase string

const (
	PhaseToss         Phase = "toss"
	PhaseInnings1     Phase = "innings1"
	PhaseInningsBreak Phase = "innings_break"
	PhaseInnings2     Phase = "innings2"
	PhaseCompleted    Phase = "completed"
)

// TeamInnings holds one side's batting totals.
type TeamInnings struct {
	Runs       int `json:"runs"`
	Wickets    int `json:"wickets"`
	LegalBalls int `json:"legal_balls"`
	Extras     int `json:"extras"`
}

// BatsmanRecord is one line of a batting card.
type BatsmanRecord struct {
	Name       string  `json:"name"`
	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
	IsOut      bool    `json:"is_out"`
	IsOnStrike bool    `json:"is_on_strike"`
	HasBatted  bool    `json:"has_batted"`
	Dismissal  string  `json:"dismissal,omitempty"`
}

// BowlerRecord is one line of a bowling card.
type BowlerRecord struct {
	Name         string  `json:"name"`
	LegalBalls   int     `json:"legal_balls"`
	RunsConceded int     `json:"runs_conceded"`
	Wickets      int     `json:"wickets"`
	Economy      float64 `json:"economy"`
	IsBowling    bool    `json:"is_bowling"`
}

// WicketRecord snapshots a dismissal.
type WicketRecord struct {
	Batsman      string `json:"batsman"`
	Runs         int    `json:"runs"`
	Balls        int    `json:"balls"`
	FallOfWicket string `json:"fall_of_wicket"`
	Over         string `json:"over"`
	Description  string `json:"description"`
}

// Delivery is a BallEvent as it was applied, with its context.
type Delivery struct {
	Seq     int64     `json:"seq"`
	Innings int       `json:"innings"`
	Over    int       `json:"over"` // zero-based over index
	Ball    int       `json:"ball"` // legal balls in the over after this delivery
	Bowler  string    `json:"bowler"`
	Batsman string    `json:"batsman"`
	FreeHit bool      `json:"free_hit"`
	Event   BallEvent `json:"-"`
}

// Label is the event's scorecard form.
func (d Delivery) Label() string {
	if d.Event == nil {
		return ""
	}
	return d.Event.Label()
}

// OverSummary archives one bowled over.
type OverSummary struct {
	Over       int      `json:"over"` // one-based
	Bowler     string   `json:"bowler"`
	Runs       int      `json:"runs"`
	Wickets    int      `json:"wickets"`
	Extras     int      `json:"extras"`
	LegalBalls int      `json:"legal_balls"`
	Balls      []string `json:"balls"`
}

// Result is the outcome of a completed match. Winner is nil for a tie.
type Result struct {
	Winner  *TeamID `json:"winner,omitempty"`
	Tie     bool    `json:"tie"`
	Margin  string  `json:"margin"`
	Summary string  `json:"summary"`
}

// State is the canonical record of one match.
//
// INVARIANTS (checked after every applied event):
//   - Scores[t].Runs == sum(Batsmen[t][i].Runs) + Scores[t].Extras
//   - one batsman on strike while the batting side is in
//   - one bowler bowling while an over is in progress
//   - LegalBalls <= Overs*6, Wickets <= 10, bowler balls <= cap
type State struct {
	MatchID string `json:"match_id"`
	Overs   int    `json:"overs"`

	Phase     Phase `json:"phase"`
	Innings   int   `json:"innings"`
	Completed bool  `json:"completed"`
	Target    *int  `json:"target,omitempty"`

	Toss         TossResult        `json:"toss"`
	BattingFirst TeamID            `json:"batting_first"`
	BowlingFirst TeamID            `json:"bowling_first"`
	TeamNames    map[TeamID]string `json:"team_names"`

	Scores  map[TeamID]*TeamInnings    `json:"scores"`
	Batsmen map[TeamID][]BatsmanRecord `json:"batsmen"`
	Bowlers map[TeamID][]BowlerRecord  `json:"bowlers"`

	StrikerIndex    int `json:"striker_index"`
	NonStrikerIndex int `json:"non_striker_index"`
	BowlerIndex     int `json:"bowler_index"`

	CurrentOver []Delivery      `json:"-"`
	LastOver    []Delivery      `json:"-"`
	RecentBalls *Ring[Delivery] `json:"-"`
	Commentary  *Ring[string]   `json:"commentary"`

	LastWicket    *WicketRecord             `json:"last_wicket,omitempty"`
	FallOfWickets map[TeamID][]WicketRecord `json:"fall_of_wickets"`
	OverSummaries map[TeamID][]OverSummary  `json:"over_summaries"`

	FirstInningsFinal *TeamInnings `json:"first_innings_final,omitempty"`

	FreeHit bool    `json:"free_hit"`
	Result  *Result `json:"result,omitempty"`

	// Partnership counts runs and legal balls since the last wicket.
	PartnershipRuns  int `json:"partnership_runs"`
	PartnershipBalls int `json:"partnership_balls"`

	// Seq is the number of deliveries applied so far.
	Seq int64 `json:"seq"`
}

// BattingTeam returns the side currently batting.
func (s *State) BattingTeam() TeamID {
	if s.Innings == 2 {
		return s.BowlingFirst
	}
	return s.BattingFirst
}

// BowlingTeam returns the side currently bowling.
func (s *State) BowlingTeam() TeamID {
	if s.Innings == 2 {
		return s.BattingFirst
	}
	return s.BowlingFirst
}

// Opponent returns the other side.
func (s *State) Opponent(team TeamID) TeamID {
	if team == s.BattingFirst {
		return s.BowlingFirst
	}
	return s.BattingFirst
}

// Batting returns the batting side's totals.
func (s *State) Batting() *TeamInnings {
	return s.Scores[s.BattingTeam()]
}

// Striker returns the on-strike batsman, or nil if the index is out of range.
func (s *State) Striker() *BatsmanRecord {
	return s.batsmanAt(s.StrikerIndex)
}

// NonStriker returns the non-striking batsman, or nil.
func (s *State) NonStriker() *BatsmanRecord {
	return s.batsmanAt(s.NonStrikerIndex)
}

func (s *State) batsmanAt(i int) *BatsmanRecord {
	list := s.Batsmen[s.BattingTeam()]
	if i < 0 || i >= len(list) {
		return nil
	}
	return &list[i]
}

// Bowler returns the current bowler, or nil.
func (s *State) Bowler() *BowlerRecord {
	list := s.Bowlers[s.BowlingTeam()]
	if s.BowlerIndex < 0 || s.BowlerIndex >= len(list) {
		return nil
	}
	return &list[s.BowlerIndex]
}

// MaxLegalBalls is the ball limit for one innings.
func (s *State) MaxLegalBalls() int {
	return s.Overs * BallsPerOver
}

// BowlerCap is the per-bowler legal ball limit for one innings.
func (s *State) BowlerCap() int {
	return BowlerOversFor(s.Overs) * BallsPerOver
}

// BowlerOversFor returns the per-bowler over cap for an innings of the given
// length: one fifth of the overs, rounded up.
func BowlerOversFor(overs int) int {
	return (overs + MaxBowlerOvers) / 5
}

// TeamName returns the display name for a side, falling back to its ID.
func (s *State) TeamName(id TeamID) string {
	if name, ok := s.TeamNames[id]; ok && name != "" {
		return name
	}
	return string(id)
}

// OversString formats a legal ball count as "<overs>.<balls>".
func OversString(legalBalls int) string {
	return fmt.Sprintf("%d.%d", legalBalls/BallsPerOver, legalBalls%BallsPerOver)
}
