package geometry

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter marks a caller precondition violation such as a zero
// max or a stroke wider than the ring.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParamError describes which parameter of which operation was rejected.
type ParamError struct {
	Op     string // "ring", "sparkline"
	Param  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", e.Op, e.Param, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}

func invalid(op, param string, value float64, reason string) error {
	return &ParamError{Op: op, Param: param, Value: value, Reason: reason}
}
