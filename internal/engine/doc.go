// Package engine applies deliveries to a match and enforces the rules of a
// limited-overs innings.
//
// ARCHITECTURE:
//
// The engine is a synchronous state machine over a *match.State:
//
//	Toss -> Innings1 -> InningsBreak -> Innings2 -> Completed
//
// Transitions only happen inside ApplyEvent, or in the over and innings
// checks that run after the delivery has been scored. InningsBreak is
// transient: the break and the opening of the second innings are both
// reported in the same Outcome.
//
// Delivery Processing Flow:
//  1. Guard: the match is live and a batsman is on strike
//  2. Score the delivery against the team, striker and bowler
//  3. Handle a dismissal and bring in the next batsman
//  4. Rotate strike on odd runs
//  5. Reconcile team runs with the batting ledger
//  6. Complete the over, then the innings, then the match
//
// The engine holds no match data of its own. It is not safe for concurrent
// use; the session that owns a state serializes every call.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// Every applied delivery is stamped with the next seq from Clock. The seq is
// stored on the state, so a state handed to a fresh engine resumes its
// numbering.
//
// Injected Randomness:
// The toss draws from a generator.Source supplied with WithSource. No
// package-level random state is used anywhere.
package engine
