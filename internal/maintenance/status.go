// Package maintenance reconciles next-due predictions of maintenance records
// and ranks active records by urgency. Nothing in here performs I/O.
package maintenance

import (
	"fmt"
	"strings"
)

// Status 是维护记录的生命周期状态。
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPostponed Status = "postponed"
	StatusCancelled Status = "cancelled"
)

var allStatuses = []Status{StatusActive, StatusCompleted, StatusPostponed, StatusCancelled}

// ParseStatus accepts only the closed status set.
func ParseStatus(raw string) (Status, error) {
	candidate := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, status := range allStatuses {
		if candidate == status {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q, allowed values: %s", ErrInvalidStatus, raw, joinValues(allStatuses))
}

// UsageUnit is the unit of a usage counter.
type UsageUnit string

const (
	UnitDistance UsageUnit = "distance"
	UnitHours    UsageUnit = "hours"
	UnitCycles   UsageUnit = "cycles"
)

var allUnits = []UsageUnit{UnitDistance, UnitHours, UnitCycles}

// ParseUsageUnit accepts only the closed unit set.
func ParseUsageUnit(raw string) (UsageUnit, error) {
	candidate := UsageUnit(strings.ToLower(strings.TrimSpace(raw)))
	for _, unit := range allUnits {
		if candidate == unit {
			return unit, nil
		}
	}
	return "", fmt.Errorf("%w: %q, allowed values: %s", ErrInvalidUsageUnit, raw, joinValues(allUnits))
}

// Abbrev 返回用于展示的单位缩写。
func (u UsageUnit) Abbrev() string {
	switch u {
	case UnitDistance:
		return "km"
	case UnitHours:
		return "h"
	case UnitCycles:
		return "cycles"
	default:
		return string(u)
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}
