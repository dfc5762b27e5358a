package match

import (
	"errors"
	"fmt"
)

// Error is a typed failure raised by the match packages.
//
// Codes:
//   - INVALID_TEAM_SELECTION: unknown team, duplicate side, short roster
//   - INVARIANT_VIOLATION: team total disagrees with the batting ledger
//   - ILLEGAL_STATE_TRANSITION: advancing a finished match, missing striker
//   - NO_ACTIVE_MATCH: operating on a session that has no match
//
// Callers must not retry ILLEGAL_STATE_TRANSITION blindly; the state will
// not change on its own.
type Error struct {
	Code    ErrorCode
	Message string

	// MatchID identifies the affected match when one exists.
	MatchID string

	Details map[string]string
}

// ErrorCode categorizes match errors.
type ErrorCode string

const (
	ErrCodeInvalidTeamSelection   ErrorCode = "INVALID_TEAM_SELECTION"
	ErrCodeInvariantViolation     ErrorCode = "INVARIANT_VIOLATION"
	ErrCodeIllegalStateTransition ErrorCode = "ILLEGAL_STATE_TRANSITION"
	ErrCodeNoActiveMatch          ErrorCode = "NO_ACTIVE_MATCH"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.MatchID != "" {
		return fmt.Sprintf("%s: %s (match=%s)", e.Code, e.Message, e.MatchID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code ErrorCode) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}

// IsInvalidTeamSelection reports whether err is an INVALID_TEAM_SELECTION error.
func IsInvalidTeamSelection(err error) bool {
	return hasCode(err, ErrCodeInvalidTeamSelection)
}

// IsInvariantViolation reports whether err is an INVARIANT_VIOLATION error.
func IsInvariantViolation(err error) bool {
	return hasCode(err, ErrCodeInvariantViolation)
}

// IsIllegalState reports whether err is an ILLEGAL_STATE_TRANSITION error.
func IsIllegalState(err error) bool {
	return hasCode(err, ErrCodeIllegalStateTransition)
}

// IsNoActiveMatch reports whether err is a NO_ACTIVE_MATCH error.
func IsNoActiveMatch(err error) bool {
	return hasCode(err, ErrCodeNoActiveMatch)
}

// NewInvalidTeamSelection creates an INVALID_TEAM_SELECTION error.
func NewInvalidTeamSelection(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidTeamSelection,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewIllegalState creates an ILLEGAL_STATE_TRANSITION error for a match.
func NewIllegalState(matchID, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeIllegalStateTransition,
		Message: fmt.Sprintf(format, args...),
		MatchID: matchID,
	}
}

// NewInvariantViolation creates an INVARIANT_VIOLATION error describing a
// mismatch between a team's recorded runs and its ledger.
func NewInvariantViolation(matchID string, team TeamID, recorded, ledger int) *Error {
	return &Error{
		Code:    ErrCodeInvariantViolation,
		Message: fmt.Sprintf("team %s runs %d do not match ledger %d", team, recorded, ledger),
		MatchID: matchID,
		Details: map[string]string{
			"team":     string(team),
			"recorded": fmt.Sprintf("%d", recorded),
			"ledger":   fmt.Sprintf("%d", ledger),
		},
	}
}

// NewNoActiveMatch creates a NO_ACTIVE_MATCH error for the named operation.
func NewNoActiveMatch(op string) *Error {
	return &Error{
		Code:    ErrCodeNoActiveMatch,
		Message: fmt.Sprintf("%s: no match in progress", op),
	}
}
