package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/testutil"
)

func TestPacing_After(t *testing.T) {
	p := Pacing{Wicket: 3, Boundary: 2, Other: 1}

	tests := []struct {
		name string
		ball *BallView
		want time.Duration
	}{
		{"no ball yet", nil, 1},
		{"wicket", &BallView{Kind: match.KindWicket}, 3},
		{"four", &BallView{Kind: match.KindBall, Runs: 4, Boundary: true}, 2},
		{"six", &BallView{Kind: match.KindBall, Runs: 6, Boundary: true}, 2},
		{"single", &BallView{Kind: match.KindBall, Runs: 1}, 1},
		{"wide", &BallView{Kind: match.KindWide, Runs: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.After(tt.ball))
		})
	}
}

func TestAutoplay_PlaysToCompletion(t *testing.T) {
	s := newSession(t, WithSeed(31), WithOvers(3))
	_, err := s.StartNewMatch("AAA", "BBB")
	require.NoError(t, err)

	v, err := Autoplay(context.Background(), s, Pacing{})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, v.Status)
	assert.NotEmpty(t, v.Result)

	s.Inspect(func(st *match.State) {
		assert.Empty(t, testutil.CheckInvariants(st))
		assert.Equal(t, st.Seq, v.Seq)
	})
}

func TestAutoplay_MatchesManualAdvance(t *testing.T) {
	auto := newSession(t, WithSeed(8), WithOvers(2))
	_, err := auto.StartNewMatch("AAA", "BBB")
	require.NoError(t, err)
	got, err := Autoplay(context.Background(), auto, Pacing{})
	require.NoError(t, err)

	manual := newSession(t, WithSeed(8), WithOvers(2))
	_, err = manual.StartNewMatch("AAA", "BBB")
	require.NoError(t, err)
	want := playOut(t, manual)

	assert.Equal(t, want, got)
}

func TestAutoplay_NoActiveMatch(t *testing.T) {
	s := newSession(t)
	_, err := Autoplay(context.Background(), s, Pacing{})
	assert.True(t, match.IsNoActiveMatch(err))
}

func TestAutoplay_StopsOnCancel(t *testing.T) {
	s := newSession(t, WithSeed(5))
	_, err := s.StartNewMatch("AAA", "BBB")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := Autoplay(ctx, s, Pacing{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), v.Seq)
}

func TestAutoplay_QueuedDeliveryWakesPause(t *testing.T) {
	s := newSession(t, WithSeed(5))
	_, err := s.StartNewMatch("AAA", "BBB")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slow := Pacing{Wicket: time.Hour, Boundary: time.Hour, Other: time.Hour}
	done := make(chan error, 1)
	go func() {
		_, err := Autoplay(ctx, s, slow)
		done <- err
	}()

	require.Eventually(t, func() bool {
		v, _ := s.LiveView()
		return v.Seq >= 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Queue(match.Ball{Bat: 6}))

	require.Eventually(t, func() bool {
		v, _ := s.LiveView()
		return v.Seq >= 2
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("autoplay did not stop after cancel")
	}
}
