package wire

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/overs/internal/match"
)

// EventFields returns the canonical field set of a delivery outcome.
// The dismissal is present only for wickets.
func EventFields(ev match.BallEvent) map[string]any {
	fields := map[string]any{
		"kind": string(ev.Kind()),
		"runs": ev.Runs(),
	}
	if w, ok := ev.(match.Wicket); ok {
		fields["dismissal"] = string(w.Dismissal)
	}
	return fields
}

// MarshalEvent encodes a delivery outcome as canonical JSON, e.g.
// {"kind":"wide","runs":1}.
func MarshalEvent(ev match.BallEvent) ([]byte, error) {
	if ev == nil {
		return nil, fmt.Errorf("marshal event: nil event")
	}
	return MarshalCanonical(EventFields(ev))
}

// eventJSON mirrors the canonical event encoding for decoding.
type eventJSON struct {
	Kind      match.Kind      `json:"kind"`
	Runs      int             `json:"runs"`
	Dismissal match.Dismissal `json:"dismissal"`
}

// UnmarshalEvent decodes an encoded outcome and validates it.
func UnmarshalEvent(data []byte) (match.BallEvent, error) {
	var e eventJSON
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	ev, err := match.NewEvent(e.Kind, e.Runs, e.Dismissal)
	if err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return ev, nil
}

// DeliveryEvent decodes the event of a delivery encoded by MarshalDelivery.
func DeliveryEvent(payload []byte) (match.BallEvent, error) {
	var d struct {
		Event json.RawMessage `json:"event"`
	}
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("unmarshal delivery: %w", err)
	}
	if len(d.Event) == 0 {
		return nil, fmt.Errorf("unmarshal delivery: no event")
	}
	return UnmarshalEvent(d.Event)
}

// MarshalDelivery encodes an applied delivery with its context.
func MarshalDelivery(d match.Delivery) ([]byte, error) {
	if d.Event == nil {
		return nil, fmt.Errorf("marshal delivery %d: nil event", d.Seq)
	}
	return MarshalCanonical(map[string]any{
		"seq":      d.Seq,
		"innings":  d.Innings,
		"over":     d.Over,
		"ball":     d.Ball,
		"bowler":   d.Bowler,
		"batsman":  d.Batsman,
		"free_hit": d.FreeHit,
		"event":    EventFields(d.Event),
	})
}
