package store

import (
	"context"
	"log/slog"
	"testing"

	"github.com/roach88/overs/internal/match"
	"github.com/roach88/overs/internal/session"
	"github.com/roach88/overs/internal/testutil"
)

// recordMatch plays a full seeded match through a session wired to a
// MatchLog and returns the final view. queued deliveries are bowled first.
func recordMatch(t *testing.T, s *Store, id string, seed int64, queued ...match.BallEvent) session.View {
	t.Helper()

	sess := session.New(
		session.WithRegistry(testRegistry(t)),
		session.WithLogger(slog.New(slog.DiscardHandler)),
		session.WithIDGenerator(testutil.NewFixedIDGenerator(id)),
		session.WithSeed(seed),
		session.WithOvers(2),
		session.WithRecorder(NewMatchLog(context.Background(), s)),
	)
	if _, err := sess.StartNewMatch("AAA", "BBB"); err != nil {
		t.Fatalf("StartNewMatch() failed: %v", err)
	}
	for _, ev := range queued {
		if err := sess.Queue(ev); err != nil {
			t.Fatalf("Queue() failed: %v", err)
		}
	}
	for i := 0; i < 500; i++ {
		v, err := sess.AdvanceOneBall()
		if err != nil {
			t.Fatalf("AdvanceOneBall() failed: %v", err)
		}
		if v.Status == session.StatusCompleted {
			return v
		}
	}
	t.Fatal("match did not complete")
	return session.View{}
}

func TestMatchLog_RecordsEveryDelivery(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	v := recordMatch(t, s, "m-log", 99)

	m, err := s.ReadMatch(ctx, "m-log")
	if err != nil {
		t.Fatalf("ReadMatch() failed: %v", err)
	}
	if m.Seed != 99 || !m.Seeded || m.Overs != 2 {
		t.Errorf("ReadMatch() = %+v, want seed 99, seeded, 2 overs", m)
	}

	deliveries, err := s.ReadDeliveries(ctx, "m-log")
	if err != nil {
		t.Fatalf("ReadDeliveries() failed: %v", err)
	}
	if int64(len(deliveries)) != v.Seq {
		t.Errorf("recorded %d deliveries, match applied %d", len(deliveries), v.Seq)
	}

	r, ok, err := s.ReadResult(ctx, "m-log")
	if err != nil || !ok {
		t.Fatalf("ReadResult() = ok %v, err %v", ok, err)
	}
	if r.Summary != v.Result {
		t.Errorf("recorded result %q, view says %q", r.Summary, v.Result)
	}
	if r.Head != deliveries[len(deliveries)-1].Digest {
		t.Error("result head must equal the last delivery digest")
	}
}

func TestVerify_ReproducesRecordedMatch(t *testing.T) {
	s := createTestStore(t)
	recordMatch(t, s, "m-verify", 2024)

	v, err := s.Verify(context.Background(), testRegistry(t), "m-verify", nil)
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	if !v.OK() {
		t.Errorf("Verify() = %+v, want a clean replay", v)
	}
	if v.Result == "" {
		t.Error("Verify() should report the recorded result")
	}
}

func TestVerify_DetectsTampering(t *testing.T) {
	s := createTestStore(t)
	recordMatch(t, s, "m-tamper", 7)

	if _, err := s.db.Exec(`UPDATE deliveries SET digest = 'forged' WHERE match_id = ? AND seq = 5`, "m-tamper"); err != nil {
		t.Fatalf("tamper failed: %v", err)
	}

	v, err := s.Verify(context.Background(), testRegistry(t), "m-tamper", nil)
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	if v.OK() {
		t.Fatal("Verify() accepted a forged digest")
	}
	if v.Divergence != 5 {
		t.Errorf("Divergence = %d, want 5", v.Divergence)
	}
}

func TestVerify_RejectsUnseededMatch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	m := createTestMatch("m-unseeded", 0)
	m.Seeded = false
	if err := s.WriteMatch(ctx, m); err != nil {
		t.Fatalf("WriteMatch() failed: %v", err)
	}

	if _, err := s.Verify(ctx, testRegistry(t), "m-unseeded", nil); err == nil {
		t.Error("Verify() of an unseeded match should fail")
	}
}

func TestVerify_ReplaysQueuedDeliveries(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	recordMatch(t, s, "m-queued", 7,
		match.Ball{Bat: 6},
		match.NoBall{Extras: 1},
		match.Wicket{Dismissal: match.Caught},
	)

	deliveries, err := s.ReadDeliveries(ctx, "m-queued")
	if err != nil {
		t.Fatalf("ReadDeliveries() failed: %v", err)
	}
	for i, d := range deliveries {
		if want := i < 3; d.Scripted != want {
			t.Errorf("delivery %d scripted = %v, want %v", d.Seq, d.Scripted, want)
		}
	}

	v, err := s.Verify(ctx, testRegistry(t), "m-queued", nil)
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	if !v.OK() {
		t.Errorf("Verify() = %+v, want a clean replay of a hand-scored match", v)
	}
}
