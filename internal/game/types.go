// internal/game/types.go
//
// Core type definitions for the word scramble rule engine.
// Defines:
//   - Kind: outcome of validating one candidate word.
//   - Result: the kind plus the normalized word it applies to.
//   - Snapshot: read-only copy of a session for presenters.
//   - Sentinel errors for caller/environment failures (never user-facing).

package game

import "errors"

// Kind identifies the outcome of a Validate call.
// The values are stable and safe to put on the wire.
type Kind string

const (
	Accepted    Kind = "accepted"
	NoOp        Kind = "noop"          // empty input; nothing to report
	TooShort    Kind = "too_short"     // fewer than MinLength letters
	SameAsRoot  Kind = "same_as_root"  // candidate is the root word itself
	AlreadyUsed Kind = "already_used"  // accepted earlier this session
	NotPossible Kind = "not_possible"  // needs letters the root does not have
	NotAWord    Kind = "not_a_word"    // oracle did not recognize it
)

// Rejected reports whether k is a user-facing rejection.
// Accepted and NoOp are not.
func (k Kind) Rejected() bool {
	return k != Accepted && k != NoOp
}

// Result is the outcome of checking one candidate.
type Result struct {
	Kind Kind   `json:"kind"`
	Word string `json:"word"` // normalized candidate (lowercase, trimmed)
}

// Accepted reports whether the word was added to the session.
func (r Result) Accepted() bool { return r.Kind == Accepted }

// Snapshot is a copy of the session state; mutating it has no effect on the engine.
type Snapshot struct {
	Active    bool     `json:"active"`
	RootWord  string   `json:"rootWord"`
	UsedWords []string `json:"usedWords"` // most recent first
	Score     int      `json:"score"`
}

var (
	// ErrNoSession is returned by Validate before the first StartSession.
	ErrNoSession = errors.New("game: no active session")

	// ErrOracleUnavailable wraps failures and timeouts from the spelling oracle.
	ErrOracleUnavailable = errors.New("game: spelling oracle unavailable")
)
