// Package session owns live matches.
//
// A Session is an explicit handle: it holds at most one match at a time,
// serializes every operation on it with a mutex, and is passed to whoever
// needs to drive or display the match. There is no package-level session.
// A Manager keeps several independent sessions keyed by handle.
//
// Thread-safety model:
//   - every exported Session method is safe from any goroutine
//   - AdvanceOneBall calls never interleave, so a timer-driven Autoplay
//     loop and manual advances can share a session
//   - Views are snapshots and may be read after the lock is released
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/overs/internal/engine"
	"github.com/roach88/overs/internal/generator"
	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/teams"
)

// MatchInfo describes how a match was set up, enough to simulate it again.
type MatchInfo struct {
	Home     match.TeamID
	Away     match.TeamID
	BatFirst match.TeamID // empty when the toss was drawn
	Overs    int
	Seed     int64
	Seeded   bool // false when the randomness source was injected
}

// Recorder observes a session's matches. The delivery log implements it.
type Recorder interface {
	BeginMatch(st *match.State, info MatchInfo) error
	RecordDelivery(st *match.State, out engine.Outcome) error
}

// Session drives one match at a time.
type Session struct {
	mu sync.Mutex

	id       string
	registry *teams.Registry
	ids      IDGenerator
	log      *slog.Logger
	overs    int
	seed     *int64
	src      generator.Source
	selector generator.Source
	recorder Recorder

	pair    [2]match.TeamID
	info    MatchInfo
	engine  *engine.Engine
	gen     *generator.Generator
	state   *match.State
	pending *pendingQueue
}

// Option configures a Session.
type Option func(*Session)

// WithRegistry sets the teams a session can pick from. Default: teams.Default().
func WithRegistry(r *teams.Registry) Option {
	return func(s *Session) {
		s.registry = r
	}
}

// WithSeed makes every match the session starts use the same seed, so a
// reset replays the same deliveries.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.seed = &seed
	}
}

// WithSource injects the randomness for every match. It takes precedence
// over WithSeed. Matches started this way cannot be replayed from a seed.
func WithSource(src generator.Source) Option {
	return func(s *Session) {
		s.src = src
	}
}

// WithSelector sets the randomness used to pick teams when none are given.
func WithSelector(src generator.Source) Option {
	return func(s *Session) {
		s.selector = src
	}
}

// WithOvers sets the innings length. Default: 20.
func WithOvers(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.overs = n
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDGenerator sets the source of session handles and match IDs.
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) {
		s.ids = g
	}
}

// WithRecorder attaches a recorder that sees every match and delivery.
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// New creates a session with no match.
func New(opts ...Option) *Session {
	s := &Session{
		ids:     UUIDv7Generator{},
		log:     slog.Default(),
		overs:   match.TotalOvers,
		pending: newPendingQueue(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = teams.Default()
	}
	if s.selector == nil {
		s.selector = generator.NewSeeded(generator.NewSeed())
	}
	s.id = s.ids.Generate()
	return s
}

// ID returns the session handle.
func (s *Session) ID() string {
	return s.id
}

// Registry returns the teams available to the session.
func (s *Session) Registry() *teams.Registry {
	return s.registry
}

// Info returns the setup of the current match, or false with no match.
func (s *Session) Info() (MatchInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info, s.state != nil
}

// SelectTeams fixes the pair used by the next start or reset that does not
// name its teams. The current match is not affected.
func (s *Session) SelectTeams(a, b match.TeamID) error {
	if _, _, err := s.registry.Pair(a, b); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = [2]match.TeamID{a, b}
	return nil
}

// StartNewMatch replaces any current match with a new one between a and b.
// With both IDs empty the selected pair is used, or a random pair if none
// was selected. The toss is drawn.
func (s *Session) StartNewMatch(a, b match.TeamID) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	home, away, err := s.resolvePair(a, b)
	if err != nil {
		return View{}, err
	}
	if err := s.begin(home, away, ""); err != nil {
		return View{}, err
	}
	return NewView(s.state), nil
}

// ResetMatch discards the current match, if any, and starts a fresh one
// with the same pair. batFirst forces the side batting first; empty draws
// the toss. It works whether or not a match is active.
func (s *Session) ResetMatch(batFirst match.TeamID) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	home, away, err := s.resolvePair("", "")
	if err != nil {
		return View{}, err
	}
	if err := s.begin(home, away, batFirst); err != nil {
		return View{}, err
	}
	return NewView(s.state), nil
}

// AdvanceOneBall applies the next delivery: the oldest queued one if any,
// otherwise a generated one.
//
// Returns NO_ACTIVE_MATCH with no match and ILLEGAL_STATE_TRANSITION once the
// match is completed. If the recorder fails the delivery has still been
// applied; the view and the error are both returned.
func (s *Session) AdvanceOneBall() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return View{}, match.NewNoActiveMatch("advance")
	}
	if s.state.Completed {
		return View{}, match.NewIllegalState(s.state.MatchID, "match is completed")
	}

	ev, queued := s.pending.TryDequeue()
	if !queued {
		var err error
		ev, err = s.gen.Generate(s.state)
		if err != nil {
			return View{}, fmt.Errorf("generate delivery: %w", err)
		}
	}

	out, err := s.engine.ApplyEvent(s.state, ev)
	if err != nil {
		return View{}, err
	}
	out.Scripted = queued

	if s.recorder != nil {
		if err := s.recorder.RecordDelivery(s.state, out); err != nil {
			return NewView(s.state), fmt.Errorf("record delivery %d: %w", out.Seq, err)
		}
	}
	if out.MatchCompleted {
		s.log.Info("match completed",
			"session", s.id,
			"match_id", s.state.MatchID,
			"result", s.state.Result.Summary,
		)
	}
	return NewView(s.state), nil
}

// LiveView returns a snapshot of the current match, or false with no match.
func (s *Session) LiveView() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return View{}, false
	}
	return NewView(s.state), true
}

// Queue schedules a delivery to be applied by the next AdvanceOneBall
// instead of a generated one.
func (s *Session) Queue(ev match.BallEvent) error {
	if ev == nil {
		return fmt.Errorf("queue: nil delivery")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return match.NewNoActiveMatch("queue")
	}
	if s.state.Completed {
		return match.NewIllegalState(s.state.MatchID, "match is completed")
	}
	s.pending.Enqueue(ev)
	return nil
}

// Pending returns the number of queued deliveries.
func (s *Session) Pending() int {
	return s.pending.Len()
}

// Inspect calls fn with the live state while holding the session lock. fn
// must not retain or modify the state. st is nil with no match.
func (s *Session) Inspect(fn func(st *match.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Reset is ResetMatch.
func (s *Session) Reset(batFirst match.TeamID) (View, error) {
	return s.ResetMatch(batFirst)
}

// AdvanceBall is AdvanceOneBall.
func (s *Session) AdvanceBall() (View, error) {
	return s.AdvanceOneBall()
}

// resolvePair picks the teams for a start. Caller must hold s.mu.
func (s *Session) resolvePair(a, b match.TeamID) (teams.Team, teams.Team, error) {
	switch {
	case a == "" && b == "":
		if s.pair[0] != "" {
			a, b = s.pair[0], s.pair[1]
		} else {
			a, b = s.randomPair()
		}
	case a == "" || b == "":
		return teams.Team{}, teams.Team{}, match.NewInvalidTeamSelection(
			"name both teams or neither (got %q and %q)", a, b)
	}
	return s.registry.Pair(a, b)
}

func (s *Session) randomPair() (match.TeamID, match.TeamID) {
	ids := s.registry.IDs()
	i := s.selector.Intn(len(ids))
	j := s.selector.Intn(len(ids) - 1)
	if j >= i {
		j++
	}
	return ids[i], ids[j]
}

// begin creates and installs a new match. Caller must hold s.mu. On error
// the current match is left in place.
func (s *Session) begin(home, away teams.Team, batFirst match.TeamID) error {
	info := MatchInfo{Home: home.ID, Away: away.ID, BatFirst: batFirst, Overs: s.overs}

	src := s.src
	if src == nil {
		info.Seed = generator.NewSeed()
		if s.seed != nil {
			info.Seed = *s.seed
		}
		info.Seeded = true
		src = generator.NewSeeded(info.Seed)
	}

	eng := engine.New(
		engine.WithOvers(s.overs),
		engine.WithSource(src),
		engine.WithLogger(s.log),
	)
	st, err := eng.Initialize(s.ids.Generate(), home, away, batFirst)
	if err != nil {
		return err
	}

	if s.recorder != nil {
		if err := s.recorder.BeginMatch(st, info); err != nil {
			return fmt.Errorf("record match %s: %w", st.MatchID, err)
		}
	}

	s.engine = eng
	s.gen = generator.New(src)
	s.state = st
	s.info = info
	s.pair = [2]match.TeamID{home.ID, away.ID}
	s.pending.Clear()

	s.log.Info("match started",
		"session", s.id,
		"match_id", st.MatchID,
		"home", home.ID,
		"away", away.ID,
		"batting_first", st.BattingFirst,
		"seed", info.Seed,
	)
	return nil
}
