package generator

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Source is the randomness provider for the generator and the toss.
//
// *rand.Rand satisfies it. Implementations need not be safe for concurrent
// use; a session serializes every call.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64

	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
}

// NewSeeded returns a reproducible source. The same seed always yields the
// same sequence of draws.
func NewSeeded(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// NewSeed returns a fresh seed from the wall clock for production matches.
// The seed is recorded so a match can be re-simulated later.
func NewSeed() int64 {
	return time.Now().UnixNano()
}

// ScriptedSource returns predetermined draws in order.
//
// Float64 and Intn read from separate queues. Tests script each draw the
// generator makes, so a scenario can be expressed without searching for a
// seed that happens to produce it.
//
// Panics when a queue is exhausted, so a test that draws more than it
// scripted fails loudly.
type ScriptedSource struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
}

// NewScriptedSource creates a source with the given float draws.
func NewScriptedSource(floats ...float64) *ScriptedSource {
	return &ScriptedSource{floats: floats}
}

// WithInts appends integer draws and returns the source for chaining.
func (s *ScriptedSource) WithInts(ints ...int) *ScriptedSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = append(s.ints, ints...)
	return s
}

// Float64 returns the next scripted float.
func (s *ScriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.floats) == 0 {
		panic("ScriptedSource: float draws exhausted")
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// Intn returns the next scripted int. The value must lie in [0, n).
func (s *ScriptedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ints) == 0 {
		panic("ScriptedSource: int draws exhausted")
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("ScriptedSource: scripted int %d outside [0,%d)", v, n))
	}
	return v
}

// Remaining returns the number of unread float and int draws.
func (s *ScriptedSource) Remaining() (floats, ints int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.floats), len(s.ints)
}
