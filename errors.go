package soitin

import "errors"

// The error kinds of the command and notation layers. All of them are
// recoverable: a failed command prints a diagnostic and leaves prior state
// unchanged. Wrap these with fmt.Errorf("%w: ...") to add context.
var (
	ErrUnknownType      = errors.New("unknown unit type")
	ErrUnboundLetter    = errors.New("letter not bound")
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrMalformedCommand = errors.New("malformed command")
	ErrUnbalancedParens = errors.New("unbalanced parentheses")
)
