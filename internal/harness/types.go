package harness

// TraceEvent is one applied delivery as seen by the scoreboard.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Innings int    `json:"innings"`
	Over    string `json:"over"` // "<over>.<legal ball>" as in commentary
	Bowler  string `json:"bowler"`
	Batsman string `json:"batsman"`
	Ball    string `json:"ball"`  // scorecard label
	Score   string `json:"score"` // batting side after the delivery
	Wicket  string `json:"wicket,omitempty"`
	End     string `json:"end,omitempty"` // "innings" or "match"
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step applied and every assertion held.
	Pass bool `json:"pass"`

	// Trace contains every delivery in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains step and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Summary is the match result, empty while the match is live.
	Summary string `json:"summary,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
