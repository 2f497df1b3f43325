package types

import "errors"

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrUnknownEntity      = errors.New("unknown entity")
	ErrTerminalState      = errors.New("game has ended")
	ErrInvariantViolation = errors.New("invariant violation")
)

// Error kinds reported to callers
const (
	KindInsufficientFunds  = "insufficient_funds"
	KindInvalidQuantity    = "invalid_quantity"
	KindUnknownEntity      = "unknown_entity"
	KindTerminalState      = "terminal_state"
	KindInvariantViolation = "invariant_violation"
	KindInternal           = "internal"
)

// ErrorKind maps an error to its stable kind name
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrInvalidQuantity):
		return KindInvalidQuantity
	case errors.Is(err, ErrUnknownEntity):
		return KindUnknownEntity
	case errors.Is(err, ErrTerminalState):
		return KindTerminalState
	case errors.Is(err, ErrInvariantViolation):
		return KindInvariantViolation
	default:
		return KindInternal
	}
}
