package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/overs/internal/engine"
	"github.com/roach88/overs/internal/generator"
	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/teams"
	"github.com/roach88/overs/internal/wire"
)

// Verification is the outcome of re-simulating one recorded match.
type Verification struct {
	MatchID    string
	Recorded   int    // deliveries in the log
	Replayed   int    // deliveries re-simulated
	Head       string // chain head of the log
	ReplayHead string // chain head of the re-simulation

	// Divergence is the first seq whose digest differs, or 0 if none.
	Divergence int64

	Result       string // recorded summary, empty if unfinished
	ReplayResult string // summary of the re-simulation at the same point
}

// OK reports whether the re-simulation reproduced the log exactly.
func (v Verification) OK() bool {
	return v.Divergence == 0 && v.Recorded == v.Replayed && v.Head == v.ReplayHead &&
		v.Result == v.ReplayResult
}

// Verify re-simulates a recorded match from its seed and compares every
// delivery digest with the log.
//
// Deliveries queued by hand are marked scripted in the log; their logged
// event is applied in place of a generated one. The re-simulation stops
// after as many deliveries as the log holds, so an unfinished match
// verifies up to where it was abandoned. Matches recorded
// with an injected randomness source cannot be verified.
func (s *Store) Verify(ctx context.Context, reg *teams.Registry, matchID string, log *slog.Logger) (Verification, error) {
	v := Verification{MatchID: matchID}

	m, err := s.ReadMatch(ctx, matchID)
	if err != nil {
		return v, fmt.Errorf("verify: %w", err)
	}
	if !m.Seeded {
		return v, fmt.Errorf("verify %s: match was not recorded with a seed", matchID)
	}
	recorded, err := s.ReadDeliveries(ctx, matchID)
	if err != nil {
		return v, fmt.Errorf("verify: %w", err)
	}
	v.Recorded = len(recorded)
	v.Head = m.Genesis
	if len(recorded) > 0 {
		v.Head = recorded[len(recorded)-1].Digest
	}
	if r, ok, err := s.ReadResult(ctx, matchID); err != nil {
		return v, fmt.Errorf("verify: %w", err)
	} else if ok {
		v.Result = r.Summary
	}

	home, away, err := reg.Pair(m.Home, m.Away)
	if err != nil {
		return v, fmt.Errorf("verify %s: %w", matchID, err)
	}

	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	src := generator.NewSeeded(m.Seed)
	eng := engine.New(
		engine.WithOvers(m.Overs),
		engine.WithSource(src),
		engine.WithLogger(log),
	)
	gen := generator.New(src)
	st, err := eng.Initialize(m.ID, home, away, m.BatFirst)
	if err != nil {
		return v, fmt.Errorf("verify %s: %w", matchID, err)
	}

	chain := wire.NewChain(wire.Genesis(m.ID, m.Seed))
	for _, rec := range recorded {
		if err := ctx.Err(); err != nil {
			return v, err
		}
		if st.Completed {
			break
		}

		out, err := replayOne(eng, gen, st, rec)
		if err != nil {
			return v, fmt.Errorf("verify %s at seq %d: %w", matchID, rec.Seq, err)
		}
		digest, _, err := chain.Add(out.Delivery)
		if err != nil {
			return v, fmt.Errorf("verify %s at seq %d: %w", matchID, rec.Seq, err)
		}
		v.Replayed++
		if v.Divergence == 0 && (digest != rec.Digest || out.Seq != rec.Seq) {
			v.Divergence = rec.Seq
			log.Warn("replay diverged",
				"match_id", matchID,
				"seq", rec.Seq,
				"recorded", rec.Digest,
				"replayed", digest,
			)
		}
	}
	v.ReplayHead = chain.Head()
	if st.Result != nil {
		v.ReplayResult = st.Result.Summary
	}
	return v, nil
}

// replayOne applies the next delivery. A scripted delivery never drew from
// the source, so its logged event is applied instead of a generated one.
func replayOne(eng *engine.Engine, gen *generator.Generator, st *match.State, rec DeliveryRecord) (engine.Outcome, error) {
	var ev match.BallEvent
	var err error
	if rec.Scripted {
		ev, err = wire.DeliveryEvent([]byte(rec.Payload))
	} else {
		ev, err = gen.Generate(st)
	}
	if err != nil {
		return engine.Outcome{}, err
	}
	return eng.ApplyEvent(st, ev)
}
