package maintenance

import (
	"errors"
	"fmt"
)

var (
	ErrMissingService    = errors.New("service must not be empty")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrPartialUsage      = errors.New("all three usage fields (limit, current, unit) must be supplied together, or all cleared together")
	ErrMissingPrediction = errors.New("an active maintenance needs a next due date or a complete usage prediction (limit, current, unit)")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidUsageUnit  = errors.New("invalid usage unit")
	ErrInvalidUsageValue = errors.New("usage values must not be negative")
	// ErrInconsistentColumns 表示存储中的预测列违反互斥约束
	ErrInconsistentColumns = errors.New("inconsistent prediction columns")
)

// ValidationError is a deterministic input failure surfaced verbatim to the caller.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err.Error())
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Code returns a stable machine-readable reason.
func (e *ValidationError) Code() string {
	switch {
	case errors.Is(e.Err, ErrMissingService):
		return "missing_service"
	case errors.Is(e.Err, ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(e.Err, ErrPartialUsage):
		return "partial_usage"
	case errors.Is(e.Err, ErrMissingPrediction):
		return "missing_prediction"
	case errors.Is(e.Err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(e.Err, ErrInvalidUsageUnit):
		return "invalid_usage_unit"
	case errors.Is(e.Err, ErrInvalidUsageValue):
		return "invalid_usage_value"
	default:
		return "invalid"
	}
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
