// Package match holds the canonical record of a single T20 match.
//
// The types here are plain data. All mutation goes through the engine
// package; sessions own exactly one *State at a time and never share it.
//
// # Deliveries
//
// BallEvent is a closed tagged union with one variant per delivery kind:
//
//	Ball    runs off the bat, a legal delivery
//	Wide    extras, not a legal delivery
//	NoBall  extras, not a legal delivery, arms a free hit
//	Bye     extras, a legal delivery
//	LegBye  extras, a legal delivery
//	Wicket  a dismissal on a legal delivery
//
// Consumers switch on the concrete type and must handle every variant.
//
// # Format
//
// The constants in this package describe a 20-over innings with six-ball
// overs, ten wickets and a four-over cap per bowler. A State records its own
// over count so shortened matches keep their limits consistent.
package match
