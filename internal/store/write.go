package store

import (
	"context"
	"fmt"

	"github.com/roach88/overs/internal/match"
)

// MatchRecord is how a recorded match was set up.
type MatchRecord struct {
	ID       string
	Home     match.TeamID
	Away     match.TeamID
	BatFirst match.TeamID // empty when the toss was drawn
	Overs    int
	Seed     int64
	Seeded   bool
	Genesis  string // chain head before the first delivery
}

// DeliveryRecord is one applied delivery.
type DeliveryRecord struct {
	MatchID   string
	Seq       int64
	Innings   int
	Over      int
	Ball      int
	Kind      match.Kind
	Runs      int
	Dismissal match.Dismissal
	Scripted  bool   // queued by hand rather than generated
	Payload   string // canonical JSON of the delivery
	Digest    string // chain head after this delivery
}

// ResultRecord is a settled match.
type ResultRecord struct {
	MatchID  string
	Winner   match.TeamID // empty for a tie
	Tie      bool
	Margin   string
	Summary  string
	FinalSeq int64
	Head     string
}

// WriteMatch inserts a match record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteMatch(ctx context.Context, m MatchRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches
		(id, home, away, bat_first, overs, seed, seeded, genesis)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		m.ID,
		string(m.Home),
		string(m.Away),
		string(m.BatFirst),
		m.Overs,
		m.Seed,
		boolInt(m.Seeded),
		m.Genesis,
	)
	if err != nil {
		return fmt.Errorf("write match: %w", err)
	}
	return nil
}

// WriteDelivery inserts a delivery record.
// Uses ON CONFLICT DO NOTHING for idempotency - a (match, seq) pair is written once.
//
// Note: The match referenced by MatchID must exist (foreign key constraint).
func (s *Store) WriteDelivery(ctx context.Context, d DeliveryRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deliveries
		(match_id, seq, innings, over_index, ball, kind, runs, dismissal, scripted, payload, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id, seq) DO NOTHING
	`,
		d.MatchID,
		d.Seq,
		d.Innings,
		d.Over,
		d.Ball,
		string(d.Kind),
		d.Runs,
		string(d.Dismissal),
		boolInt(d.Scripted),
		d.Payload,
		d.Digest,
	)
	if err != nil {
		return fmt.Errorf("write delivery %d: %w", d.Seq, err)
	}
	return nil
}

// WriteResult inserts the result of a completed match.
// Uses ON CONFLICT(match_id) DO NOTHING - a match is settled once.
func (s *Store) WriteResult(ctx context.Context, r ResultRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results
		(match_id, winner, tie, margin, summary, final_seq, head)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id) DO NOTHING
	`,
		r.MatchID,
		string(r.Winner),
		boolInt(r.Tie),
		r.Margin,
		r.Summary,
		r.FinalSeq,
		r.Head,
	)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
