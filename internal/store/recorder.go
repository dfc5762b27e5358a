package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/overs/internal/engine"
	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/session"
	"github.com/roach88/overs/internal/wire"
)

// MatchLog records a session's matches into a Store. It implements
// session.Recorder.
//
// Thread-safety: MatchLog is safe for concurrent use; a single log may be
// shared by several sessions.
type MatchLog struct {
	ctx   context.Context
	store *Store

	mu     sync.Mutex
	chains map[string]*wire.Chain
}

// NewMatchLog creates a recorder writing to s. ctx bounds every write.
func NewMatchLog(ctx context.Context, s *Store) *MatchLog {
	return &MatchLog{
		ctx:    ctx,
		store:  s,
		chains: make(map[string]*wire.Chain),
	}
}

// BeginMatch writes the match row and starts its digest chain.
func (l *MatchLog) BeginMatch(st *match.State, info session.MatchInfo) error {
	genesis := wire.Genesis(st.MatchID, info.Seed)
	err := l.store.WriteMatch(l.ctx, MatchRecord{
		ID:       st.MatchID,
		Home:     info.Home,
		Away:     info.Away,
		BatFirst: info.BatFirst,
		Overs:    info.Overs,
		Seed:     info.Seed,
		Seeded:   info.Seeded,
		Genesis:  genesis,
	})
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.chains[st.MatchID] = wire.NewChain(genesis)
	return nil
}

// RecordDelivery appends the delivery to the chain and writes it. When the
// delivery completes the match the result is written too.
func (l *MatchLog) RecordDelivery(st *match.State, out engine.Outcome) error {
	l.mu.Lock()
	chain, ok := l.chains[st.MatchID]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("record delivery %d: match %s was not begun", out.Seq, st.MatchID)
	}
	digest, payload, err := chain.Add(out.Delivery)
	if out.MatchCompleted {
		delete(l.chains, st.MatchID)
	}
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("record delivery %d: %w", out.Seq, err)
	}

	rec := NewDeliveryRecord(st.MatchID, out.Delivery, payload, digest)
	rec.Scripted = out.Scripted
	if err := l.store.WriteDelivery(l.ctx, rec); err != nil {
		return err
	}

	if out.MatchCompleted && st.Result != nil {
		return l.store.WriteResult(l.ctx, NewResultRecord(st, digest))
	}
	return nil
}

// NewDeliveryRecord flattens an applied delivery into its log row.
func NewDeliveryRecord(matchID string, d match.Delivery, payload []byte, digest string) DeliveryRecord {
	rec := DeliveryRecord{
		MatchID: matchID,
		Seq:     d.Seq,
		Innings: d.Innings,
		Over:    d.Over,
		Ball:    d.Ball,
		Kind:    d.Event.Kind(),
		Runs:    d.Event.Runs(),
		Payload: string(payload),
		Digest:  digest,
	}
	if w, ok := d.Event.(match.Wicket); ok {
		rec.Dismissal = w.Dismissal
	}
	return rec
}

// NewResultRecord flattens a completed match's result.
func NewResultRecord(st *match.State, head string) ResultRecord {
	r := ResultRecord{
		MatchID:  st.MatchID,
		Tie:      st.Result.Tie,
		Margin:   st.Result.Margin,
		Summary:  st.Result.Summary,
		FinalSeq: st.Seq,
		Head:     head,
	}
	if st.Result.Winner != nil {
		r.Winner = *st.Result.Winner
	}
	return r
}
