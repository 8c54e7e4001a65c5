package game

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewPlayers   = errors.New("minimum of 2 players required")
	ErrTooManyPlayers  = errors.New("maximum of 4 players allowed")
	ErrDuplicatePlayer = errors.New("player appears more than once")
	ErrInvalidDeck     = errors.New("deck contains duplicate cards")
	ErrInvalidSnapshot = errors.New("invalid game snapshot")
)

// Rejection kinds. Every error returned by an action wraps exactly one of these.
var (
	ErrIllegalAction = errors.New("illegal action")
	ErrInvalidIndex  = errors.New("invalid index")
	ErrRuleViolation = errors.New("rule violation")
	ErrInternal      = errors.New("internal inconsistency")
)

// ActionError is a rejected action. The game state is untouched.
type ActionError struct {
	Kind error
	Msg  string
}

func (e *ActionError) Error() string {
	return e.Msg
}

func (e *ActionError) Unwrap() error {
	return e.Kind
}

func illegal(format string, args ...interface{}) error {
	return &ActionError{Kind: ErrIllegalAction, Msg: fmt.Sprintf(format, args...)}
}

func badIndex(format string, args ...interface{}) error {
	return &ActionError{Kind: ErrInvalidIndex, Msg: fmt.Sprintf(format, args...)}
}

func violation(format string, args ...interface{}) error {
	return &ActionError{Kind: ErrRuleViolation, Msg: fmt.Sprintf(format, args...)}
}

func internal(format string, args ...interface{}) error {
	return &ActionError{Kind: ErrInternal, Msg: fmt.Sprintf(format, args...)}
}

// KindName names the rejection kind of err, or "" for nil
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIllegalAction):
		return "IllegalAction"
	case errors.Is(err, ErrInvalidIndex):
		return "InvalidIndex"
	case errors.Is(err, ErrRuleViolation):
		return "RuleViolation"
	case errors.Is(err, ErrInternal):
		return "InternalInconsistency"
	}
	return "Error"
}
