package planner

import "fmt"

// ErrorKind distinguishes the planner's failure classes: callers that need to react differently to, say, a malformed schema versus
// a caller-imposed timeout can switch on Kind rather than parse a message.
type ErrorKind int

const (
	// UnknownObject: init/goal/schema references an object outside the
	// declared object set.
	UnknownObject ErrorKind = iota
	// UnboundParameter: an action template references a parameter not
	// declared by that action's own signature.
	UnboundParameter
	// OverlappingAddDelete: a ground action has a fact in both its
	// add-effects and delete-effects.
	OverlappingAddDelete
	// GoalOutsideUniverse: a goal literal names a predicate/arity that
	// grounding never produced.
	GoalOutsideUniverse
	// GoalUnreachable: an extracted Graphplan layered plan failed its
	// replay check against init and goal. Graphplan reports an ordinary
	// "no plan" outcome (level-off, goal never extractable) via
	// (nil, false, nil), never via this kind; seeing it means a bug in
	// expansion or extraction, not an unsolvable problem.
	GoalUnreachable
	// PlateauExhausted: an accumulated EHC plan failed its replay check
	// against init and goal. Like GoalUnreachable, this is an
	// internal-invariant violation; an exhausted plateau itself is the
	// ordinary (nil, false, nil) negative result.
	PlateauExhausted
	// Timeout: the caller-provided context was cancelled or exceeded its
	// deadline before planning completed.
	Timeout
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownObject:
		return "UnknownObject"
	case UnboundParameter:
		return "UnboundParameter"
	case OverlappingAddDelete:
		return "OverlappingAddDelete"
	case GoalOutsideUniverse:
		return "GoalOutsideUniverse"
	case GoalUnreachable:
		return "GoalUnreachable"
	case PlateauExhausted:
		return "PlateauExhausted"
	case Timeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// PlanError is the error type returned for every validation failure and for
// caller-imposed timeouts. "No plan found" is never a PlanError: it is an
// ordinary negative result, returned as (nil, false, nil).
type PlanError struct {
	Kind    ErrorKind
	Msg     string
	Wrapped error
}

func (e *PlanError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *PlanError) Unwrap() error { return e.Wrapped }

func newError(kind ErrorKind, format string, args ...interface{}) *PlanError {
	return &PlanError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, wrapped error, format string, args ...interface{}) *PlanError {
	return &PlanError{Kind: kind, Msg: fmt.Sprintf(format, args...), Wrapped: wrapped}
}
