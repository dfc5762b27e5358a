package engine

import (
	"errors"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/overs/internal/generator"
	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/stats"
	"github.com/roach88/overs/internal/teams"
)

// Engine applies deliveries to a match state.
//
// INVARIANTS (hold after every ApplyEvent):
//   - team runs == sum of batsman runs + extras, for both sides
//   - exactly one batsman on strike while the batting side is in
//   - exactly one bowler bowling while an innings is in progress
//   - no bowler exceeds the per-bowler cap, no innings exceeds its balls
type Engine struct {
	overs  int
	src    generator.Source
	clock  *Clock
	log    *slog.Logger
	titler cases.Caser
}

// Option configures an Engine.
type Option func(*Engine)

// WithOvers sets the innings length. The per-bowler cap scales with it, one
// fifth of the overs rounded up.
//
// Default: 20 overs (match.TotalOvers)
// Use WithOvers(2) for short test matches.
func WithOvers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.overs = n
		}
	}
}

// WithSource sets the randomness used for the toss.
func WithSource(src generator.Source) Option {
	return func(e *Engine) {
		e.src = src
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		overs:  match.TotalOvers,
		clock:  NewClock(),
		log:    slog.Default(),
		titler: cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = generator.NewSeeded(generator.NewSeed())
	}
	return e
}

// Overs returns the configured innings length.
func (e *Engine) Overs() int {
	return e.overs
}

// Initialize creates the state for a new match between home and away.
//
// If batFirst is empty the toss is drawn from the engine's Source: first the
// winner, then the decision. Otherwise batFirst is recorded as having won
// the toss and chosen to bat. Openers are batting order 0 and 1 with 0 on
// strike; the opening bowler is bowling order 0.
func (e *Engine) Initialize(matchID string, home, away teams.Team, batFirst match.TeamID) (*match.State, error) {
	if err := teams.Validate(home); err != nil {
		return nil, err
	}
	if err := teams.Validate(away); err != nil {
		return nil, err
	}
	if home.ID == away.ID {
		return nil, match.NewInvalidTeamSelection("a team cannot play itself (%s)", home.ID)
	}

	toss, err := e.toss(home.ID, away.ID, batFirst)
	if err != nil {
		return nil, err
	}

	first, second := home, away
	battingFirst := toss.WonBy
	if toss.ChoseTo == match.ChoseField {
		battingFirst = otherID(toss.WonBy, home.ID, away.ID)
	}
	if battingFirst == away.ID {
		first, second = away, home
	}

	st := &match.State{
		MatchID:      matchID,
		Overs:        e.overs,
		Phase:        match.PhaseToss,
		Innings:      1,
		Toss:         toss,
		BattingFirst: first.ID,
		BowlingFirst: second.ID,
		TeamNames:    map[match.TeamID]string{first.ID: first.Name, second.ID: second.Name},
		Scores: map[match.TeamID]*match.TeamInnings{
			first.ID:  {},
			second.ID: {},
		},
		Batsmen: map[match.TeamID][]match.BatsmanRecord{
			first.ID:  battingCard(first.Players),
			second.ID: battingCard(second.Players),
		},
		Bowlers: map[match.TeamID][]match.BowlerRecord{
			first.ID:  bowlingCard(first.Bowlers),
			second.ID: bowlingCard(second.Bowlers),
		},
		RecentBalls:   match.NewRing[match.Delivery](match.RecentCap),
		Commentary:    match.NewRing[string](match.CommentaryCap),
		FallOfWickets: map[match.TeamID][]match.WicketRecord{},
		OverSummaries: map[match.TeamID][]match.OverSummary{},
	}

	e.clock = NewClock()
	st.Commentary.Push(TossDescription(st))
	openInnings(st)
	st.Phase = match.PhaseInnings1

	e.log.Info("match initialized",
		"match_id", matchID,
		"batting_first", first.ID,
		"bowling_first", second.ID,
		"overs", e.overs,
		"event", "match_start",
	)
	return st, nil
}

func (e *Engine) toss(home, away, batFirst match.TeamID) (match.TossResult, error) {
	if batFirst != "" {
		if batFirst != home && batFirst != away {
			return match.TossResult{}, match.NewInvalidTeamSelection(
				"%s is not playing (%s v %s)", batFirst, home, away)
		}
		return match.TossResult{WonBy: batFirst, ChoseTo: match.ChoseBat}, nil
	}

	winner := home
	if e.src.Intn(2) == 1 {
		winner = away
	}
	choice := match.ChoseBat
	if e.src.Intn(2) == 1 {
		choice = match.ChoseField
	}
	return match.TossResult{WonBy: winner, ChoseTo: choice}, nil
}

// TossDescription renders the toss, e.g. "Mumbai Indians won the toss and
// chose to bat".
func TossDescription(st *match.State) string {
	return st.TeamName(st.Toss.WonBy) + " won the toss and chose to " + string(st.Toss.ChoseTo)
}

func battingCard(players []string) []match.BatsmanRecord {
	out := make([]match.BatsmanRecord, len(players))
	for i, p := range players {
		out[i] = match.BatsmanRecord{Name: p}
	}
	return out
}

func bowlingCard(bowlers []string) []match.BowlerRecord {
	out := make([]match.BowlerRecord, len(bowlers))
	for i, b := range bowlers {
		out[i] = match.BowlerRecord{Name: b}
	}
	return out
}

func otherID(id, a, b match.TeamID) match.TeamID {
	if id == a {
		return b
	}
	return a
}

// ApplyEvent scores one delivery against st and runs the over, innings and
// match checks that follow it.
//
// Returns NO_ACTIVE_MATCH for a nil state and ILLEGAL_STATE_TRANSITION for a
// completed match or a state with nobody on strike. The state is not touched
// when an error is returned.
func (e *Engine) ApplyEvent(st *match.State, ev match.BallEvent) (Outcome, error) {
	if err := e.checkApplicable(st, ev); err != nil {
		return Outcome{}, err
	}

	if st.Seq != e.clock.Current() {
		e.clock = NewClockAt(st.Seq)
	}
	out := Outcome{Seq: e.clock.Next()}
	st.Seq = out.Seq

	freeHit := st.FreeHit
	if w, ok := ev.(match.Wicket); ok && freeHit && w.Dismissal != match.RunOut {
		out.Reprieved = w.Dismissal
		ev = match.Ball{}
	}
	out.Event = ev
	out.Legal = ev.Legal()

	batting := st.Batting()
	striker := st.Striker()
	bowler := st.Bowler()
	overIdx := batting.LegalBalls / match.BallsPerOver

	e.score(st, ev, striker, bowler)
	st.FreeHit = ev.Kind() == match.KindNoBall || (freeHit && !ev.Legal())

	d := match.Delivery{
		Seq:     out.Seq,
		Innings: st.Innings,
		Over:    overIdx,
		Ball:    batting.LegalBalls - overIdx*match.BallsPerOver,
		Bowler:  bowler.Name,
		Batsman: striker.Name,
		FreeHit: freeHit,
		Event:   ev,
	}
	out.Delivery = d
	st.CurrentOver = append(st.CurrentOver, d)
	st.RecentBalls.Push(d)
	st.Commentary.Push(e.describe(d, out.Reprieved))

	allOut := false
	if w, ok := ev.(match.Wicket); ok {
		out.Wicket = e.dismiss(st, w, d)
		allOut = !nextBatsman(st)
	}

	if ev.Legal() && ev.Runs()%2 == 1 && !allOut {
		swapStrike(st)
		out.StrikeSwapped = true
	}

	if err := e.Reconcile(st); err != nil {
		out.Repaired = true
	}

	e.log.Debug("delivery applied",
		"match_id", st.MatchID,
		"seq", out.Seq,
		"innings", st.Innings,
		"over", match.OversString(batting.LegalBalls),
		"event", ev.Label(),
		"score", batting.Runs,
	)

	targetReached := st.Innings == 2 && st.Target != nil && batting.Runs >= *st.Target
	inningsOver := allOut || targetReached ||
		batting.LegalBalls >= st.MaxLegalBalls() ||
		batting.Wickets >= match.MaxWickets

	if ev.Legal() && batting.LegalBalls%match.BallsPerOver == 0 {
		e.completeOver(st)
		out.OverCompleted = true
		if !inningsOver {
			if !out.StrikeSwapped {
				swapStrike(st)
			}
			e.rotateBowler(st)
		}
	}

	if inningsOver {
		if len(st.CurrentOver) > 0 {
			e.completeOver(st)
		}
		e.endInnings(st, &out)
	} else {
		markStrike(st)
	}

	return out, nil
}

func (e *Engine) checkApplicable(st *match.State, ev match.BallEvent) error {
	if st == nil {
		return match.NewNoActiveMatch("apply delivery")
	}
	if st.Completed {
		return match.NewIllegalState(st.MatchID, "match is completed")
	}
	if ev == nil {
		return match.NewIllegalState(st.MatchID, "no delivery to apply")
	}
	batting := st.Batting()
	if batting == nil {
		return match.NewIllegalState(st.MatchID, "no batting side")
	}
	if batting.LegalBalls >= st.MaxLegalBalls() || batting.Wickets >= match.MaxWickets {
		return match.NewIllegalState(st.MatchID, "innings %d is over", st.Innings)
	}
	if s := st.Striker(); s == nil || s.IsOut {
		return match.NewIllegalState(st.MatchID, "no batsman on strike")
	}
	if st.Bowler() == nil {
		return match.NewIllegalState(st.MatchID, "no bowler")
	}
	return nil
}

// score credits the delivery to the team, the striker and the bowler.
func (e *Engine) score(st *match.State, ev match.BallEvent, striker *match.BatsmanRecord, bowler *match.BowlerRecord) {
	batting := st.Batting()
	batting.Runs += ev.Runs()
	st.PartnershipRuns += ev.Runs()

	switch x := ev.(type) {
	case match.Ball:
		striker.Runs += x.Bat
		striker.Balls++
		switch x.Bat {
		case 4:
			striker.Fours++
		case 6:
			striker.Sixes++
		}
		bowler.RunsConceded += x.Bat
	case match.Wide:
		batting.Extras += x.Extras
		bowler.RunsConceded += x.Extras
	case match.NoBall:
		batting.Extras += x.Extras
		bowler.RunsConceded += x.Extras
	case match.Bye:
		batting.Extras += x.Extras
	case match.LegBye:
		batting.Extras += x.Extras
	case match.Wicket:
		striker.Runs += x.Completed
		striker.Balls++
		bowler.RunsConceded += x.Completed
		if x.Dismissal.CreditsBowler() {
			bowler.Wickets++
		}
	default:
		panic("engine: unhandled delivery " + string(ev.Kind()))
	}

	if ev.Legal() {
		batting.LegalBalls++
		bowler.LegalBalls++
		st.PartnershipBalls++
	}

	striker.StrikeRate = stats.StrikeRate(striker.Runs, striker.Balls)
	bowler.Economy = stats.Economy(bowler.RunsConceded, bowler.LegalBalls)
}

// dismiss marks the striker out and records the fall of wicket.
func (e *Engine) dismiss(st *match.State, w match.Wicket, d match.Delivery) *match.WicketRecord {
	batting := st.Batting()
	striker := st.Striker()

	batting.Wickets++
	striker.IsOut = true
	striker.IsOnStrike = false
	striker.Dismissal = e.dismissalText(w.Dismissal, d.Bowler)

	rec := match.WicketRecord{
		Batsman:      striker.Name,
		Runs:         striker.Runs,
		Balls:        striker.Balls,
		FallOfWicket: stats.FormatScore(batting.Runs, batting.Wickets),
		Over:         match.OversString(batting.LegalBalls),
		Description:  striker.Dismissal,
	}
	team := st.BattingTeam()
	st.FallOfWickets[team] = append(st.FallOfWickets[team], rec)
	st.LastWicket = &rec
	st.PartnershipRuns = 0
	st.PartnershipBalls = 0

	e.log.Info("wicket",
		"match_id", st.MatchID,
		"seq", d.Seq,
		"batsman", rec.Batsman,
		"how", w.Dismissal,
		"fow", rec.FallOfWicket,
	)
	return &rec
}

// nextBatsman brings the next batsman in batting order to the striker's end.
// It reports false when nobody is left.
func nextBatsman(st *match.State) bool {
	list := st.Batsmen[st.BattingTeam()]
	for i := range list {
		if list[i].HasBatted || list[i].IsOut || i == st.NonStrikerIndex {
			continue
		}
		list[i].HasBatted = true
		st.StrikerIndex = i
		return true
	}
	return false
}

func swapStrike(st *match.State) {
	st.StrikerIndex, st.NonStrikerIndex = st.NonStrikerIndex, st.StrikerIndex
}

// markStrike makes IsOnStrike agree with StrikerIndex on the batting side.
func markStrike(st *match.State) {
	list := st.Batsmen[st.BattingTeam()]
	for i := range list {
		list[i].IsOnStrike = i == st.StrikerIndex && !list[i].IsOut
	}
}

// Reconcile checks each side's runs against its batting ledger plus extras.
// A mismatch is repaired by trusting the ledger and is returned as an
// INVARIANT_VIOLATION so callers can count repairs; it is always logged.
func (e *Engine) Reconcile(st *match.State) error {
	var errs []error
	for _, team := range []match.TeamID{st.BattingFirst, st.BowlingFirst} {
		score := st.Scores[team]
		if score == nil {
			continue
		}
		ledger := score.Extras
		for _, b := range st.Batsmen[team] {
			ledger += b.Runs
		}
		if score.Runs == ledger {
			continue
		}

		err := match.NewInvariantViolation(st.MatchID, team, score.Runs, ledger)
		e.log.Warn("score reconciled from ledger",
			"match_id", st.MatchID,
			"team", team,
			"recorded", score.Runs,
			"ledger", ledger,
			"event", "invariant_violation",
		)
		score.Runs = ledger
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
