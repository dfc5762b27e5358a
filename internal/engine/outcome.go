package engine

import "github.com/roach88/overs/internal/match"

// Transition is one phase change observed while applying a delivery.
type Transition struct {
	From match.Phase `json:"from"`
	To   match.Phase `json:"to"`
}

// Outcome reports what a single ApplyEvent did.
type Outcome struct {
	// Seq is the delivery's position in the match, starting at 1.
	Seq int64

	// Event is the delivery as it was scored. It differs from the input only
	// when a dismissal was voided by a free hit.
	Event match.BallEvent

	// Delivery is the event with its context, as archived in the over.
	Delivery match.Delivery

	Legal          bool
	StrikeSwapped  bool
	OverCompleted  bool
	InningsEnded   bool
	MatchCompleted bool

	// Reprieved names a dismissal voided by a free hit.
	Reprieved match.Dismissal

	// Wicket is set when a batsman was dismissed.
	Wicket *match.WicketRecord

	// Repaired is set when reconciliation corrected a team total.
	Repaired bool

	// Scripted marks a delivery supplied by the caller instead of drawn
	// from the generator. The engine never sets it.
	Scripted bool

	Transitions []Transition
}
