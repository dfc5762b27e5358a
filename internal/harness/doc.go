// Package harness runs scripted match scenarios against the real engine.
//
// A scenario names two teams, the innings length and a sequence of steps.
// Each step either bowls a fixed delivery (optionally repeated), bowls
// generated deliveries from the scenario's seed, or plays the match out.
// Assertions then check the final state.
//
// # Scenario Format
//
//	name: free_hit_reprieve
//	description: "A catch off a free hit is not out"
//	teams_file: ../teams.cue
//	teams: [AAA, BBB]
//	bat_first: AAA
//	overs: 2
//	seed: 7
//	steps:
//	  - deliver: { kind: noball, runs: 1 }
//	  - deliver: { kind: wicket, dismissal: caught }
//	  - deliver: { kind: ball, runs: 1 }
//	    repeat: 3
//	assertions:
//	  - type: score
//	    team: AAA
//	    expect: "4/0"
//	  - type: striker
//	    expect: A2
//	  - type: invariants
//
// # Assertion Types
//
//   - score: a team's "runs/wickets", and optionally its overs
//   - striker: the batsman on strike
//   - bowler: the bowler of the current over
//   - status: "live" or "completed"
//   - result: the result summary, e.g. "Team B won by 3 wickets"
//   - extras: a team's extras total
//   - invariants: every scoring invariant holds
//
// # Deterministic Testing
//
// Scenarios use a fixed match ID and a fixed seed, so every run produces the
// same trace. RunWithGolden compares that trace with a golden file under
// testdata/golden.
package harness
