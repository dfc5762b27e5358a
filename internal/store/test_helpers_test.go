package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/teams"
	"github.com/roach88/overs/internal/testutil"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestMatch returns a match record with minimal required fields.
func createTestMatch(id string, seed int64) MatchRecord {
	return MatchRecord{
		ID:      id,
		Home:    "AAA",
		Away:    "BBB",
		Overs:   2,
		Seed:    seed,
		Seeded:  true,
		Genesis: "genesis-" + id,
	}
}

// createTestDelivery returns a delivery record for a dot ball.
func createTestDelivery(matchID string, seq int64) DeliveryRecord {
	return DeliveryRecord{
		MatchID: matchID,
		Seq:     seq,
		Innings: 1,
		Over:    0,
		Ball:    int(seq),
		Kind:    match.KindBall,
		Payload: "{}",
		Digest:  "digest",
	}
}

func testRegistry(t *testing.T) *teams.Registry {
	t.Helper()
	a := testutil.Squad("A")
	b := testutil.Squad("B")
	r, err := teams.New(
		teams.Team{ID: "AAA", Name: "Team A", Players: a, Bowlers: a[6:]},
		teams.Team{ID: "BBB", Name: "Team B", Players: b, Bowlers: b[6:]},
	)
	if err != nil {
		t.Fatalf("teams.New() failed: %v", err)
	}
	return r
}
