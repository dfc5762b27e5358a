package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/overs/internal/match"
)

// ErrMatchNotFound is returned when a match ID is not in the log.
var ErrMatchNotFound = errors.New("match not found")

// ReadMatch returns the setup of one match.
func (s *Store) ReadMatch(ctx context.Context, id string) (MatchRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, home, away, bat_first, overs, seed, seeded, genesis
		FROM matches
		WHERE id = ?
	`, id)

	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return MatchRecord{}, fmt.Errorf("read match %s: %w", id, ErrMatchNotFound)
	}
	if err != nil {
		return MatchRecord{}, fmt.Errorf("read match %s: %w", id, err)
	}
	return m, nil
}

// ListMatches returns every recorded match in insertion order.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) ListMatches(ctx context.Context) ([]MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, home, away, bat_first, overs, seed, seeded, genesis
		FROM matches
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	matches := []MatchRecord{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return matches, nil
}

// ReadDeliveries returns a match's deliveries ordered by seq.
//
// Returns an empty slice (not nil) if none were recorded.
func (s *Store) ReadDeliveries(ctx context.Context, matchID string) ([]DeliveryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT match_id, seq, innings, over_index, ball, kind, runs, dismissal, scripted, payload, digest
		FROM deliveries
		WHERE match_id = ?
		ORDER BY seq ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := []DeliveryRecord{}
	for rows.Next() {
		var d DeliveryRecord
		var kind, dismissal string
		var scripted int
		if err := rows.Scan(&d.MatchID, &d.Seq, &d.Innings, &d.Over, &d.Ball,
			&kind, &d.Runs, &dismissal, &scripted, &d.Payload, &d.Digest); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		d.Kind = match.Kind(kind)
		d.Dismissal = match.Dismissal(dismissal)
		d.Scripted = scripted == 1
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}
	return deliveries, nil
}

// ReadResult returns a match's result. ok is false while the match is
// unfinished.
func (s *Store) ReadResult(ctx context.Context, matchID string) (r ResultRecord, ok bool, err error) {
	var winner string
	var tie int
	err = s.db.QueryRowContext(ctx, `
		SELECT match_id, winner, tie, margin, summary, final_seq, head
		FROM results
		WHERE match_id = ?
	`, matchID).Scan(&r.MatchID, &winner, &tie, &r.Margin, &r.Summary, &r.FinalSeq, &r.Head)
	if errors.Is(err, sql.ErrNoRows) {
		return ResultRecord{}, false, nil
	}
	if err != nil {
		return ResultRecord{}, false, fmt.Errorf("read result %s: %w", matchID, err)
	}
	r.Winner = match.TeamID(winner)
	r.Tie = tie == 1
	return r, true, nil
}

// KindCounts returns how many deliveries of each kind a match recorded.
func (s *Store) KindCounts(ctx context.Context, matchID string) (map[match.Kind]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*)
		FROM deliveries
		WHERE match_id = ?
		GROUP BY kind
		ORDER BY kind COLLATE BINARY ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query kind counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[match.Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		counts[match.Kind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kind counts: %w", err)
	}
	return counts, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (MatchRecord, error) {
	var m MatchRecord
	var home, away, batFirst string
	var seeded int
	if err := row.Scan(&m.ID, &home, &away, &batFirst, &m.Overs, &m.Seed, &seeded, &m.Genesis); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MatchRecord{}, err
		}
		return MatchRecord{}, fmt.Errorf("scan match: %w", err)
	}
	m.Home = match.TeamID(home)
	m.Away = match.TeamID(away)
	m.BatFirst = match.TeamID(batFirst)
	m.Seeded = seeded == 1
	return m, nil
}
