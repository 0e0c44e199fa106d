// Package engine composes the color, registry, ruleset, index, constraints,
// scoring, beam, and replace packages into the outward API: generate,
// replace, explain, and record_feedback. It never panics through its API
// boundary; every operation returns a tagged Result.
package engine

import "fmt"

// Kind classifies the failure mode an Error reports.
type Kind string

const (
	KindInvalidInput Kind = "INVALID_INPUT"
	KindNoTemplate   Kind = "NO_TEMPLATE"
	KindNoBundle     Kind = "NO_BUNDLE"
	KindDeadline     Kind = "DEADLINE"
	KindIndexError   Kind = "INDEX_ERROR"
	KindInternal     Kind = "INTERNAL"
	KindBusy         Kind = "BUSY"
)

// Error is the tagged error the engine returns instead of panicking.
type Error struct {
	Kind           Kind
	Message        string
	RulesetVersion string
	TraceID        string

	// Set for NO_BUNDLE: the dominant violation code and the slot where
	// pruning eliminated the last candidate.
	DominantViolation string
	PruneSlot         string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (ruleset=%s trace=%s)", e.Kind, e.Message, e.RulesetVersion, e.TraceID)
}

func newError(kind Kind, msg string, rulesetVersion, traceID string) *Error {
	return &Error{Kind: kind, Message: msg, RulesetVersion: rulesetVersion, TraceID: traceID}
}
