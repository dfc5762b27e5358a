package session

import (
	"context"
	"time"

	"github.com/roach88/overs/internal/match"
)

// Pacing is the pause Autoplay takes after a delivery before bowling the
// next one.
type Pacing struct {
	Wicket   time.Duration
	Boundary time.Duration
	Other    time.Duration
}

// DefaultPacing lingers on the big moments.
var DefaultPacing = Pacing{
	Wicket:   3 * time.Second,
	Boundary: 2 * time.Second,
	Other:    1 * time.Second,
}

// After returns the pause that follows b.
func (p Pacing) After(b *BallView) time.Duration {
	switch {
	case b == nil:
		return p.Other
	case b.Kind == match.KindWicket:
		return p.Wicket
	case b.Boundary:
		return p.Boundary
	default:
		return p.Other
	}
}

// Autoplay advances s until the match completes or ctx is done. A delivery
// queued while Autoplay is waiting is bowled immediately.
//
// Returns the last view and nil on completion, or ctx.Err() on
// cancellation. Any error from AdvanceOneBall stops the loop.
func Autoplay(ctx context.Context, s *Session, p Pacing) (View, error) {
	v, ok := s.LiveView()
	if !ok {
		_, err := s.AdvanceOneBall()
		return View{}, err
	}

	for v.Status != StatusCompleted {
		if err := ctx.Err(); err != nil {
			return v, err
		}

		next, err := s.AdvanceOneBall()
		if err != nil {
			return v, err
		}
		v = next
		if v.Status == StatusCompleted {
			break
		}

		if err := pause(ctx, s, p.After(v.LastBall)); err != nil {
			return v, err
		}
	}

	s.log.Info("autoplay finished",
		"session", s.id,
		"match_id", v.MatchID,
		"seq", v.Seq,
	)
	return v, nil
}

func pause(ctx context.Context, s *Session, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	case <-s.pending.Wait():
	}
	return nil
}
