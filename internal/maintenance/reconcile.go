package maintenance

import (
	"strings"
	"time"
)

// Patch is a sparse maintenance update. Only fields present in the payload
// are applied; a field sent as null clears the stored value.
type Patch struct {
	Service      Optional[string]  `json:"service"`
	Description  Optional[string]  `json:"description"`
	PerformedAt  Optional[string]  `json:"performed_at"`
	Status       Optional[string]  `json:"status"`
	NextDueDate  Optional[string]  `json:"next_due_date"`
	UsageLimit   Optional[float64] `json:"next_due_usage_limit"`
	UsageCurrent Optional[float64] `json:"next_due_usage_current"`
	UsageUnit    Optional[string]  `json:"usage_unit"`
}

// Empty reports whether no field at all was sent.
func (p Patch) Empty() bool {
	return !p.Service.Present() &&
		!p.Description.Present() &&
		!p.PerformedAt.Present() &&
		!p.Status.Present() &&
		!p.touchesDate() &&
		!p.touchesUsage()
}

func (p Patch) touchesDate() bool { return p.NextDueDate.Present() }

func (p Patch) touchesUsage() bool {
	return p.UsageLimit.Present() || p.UsageCurrent.Present() || p.UsageUnit.Present()
}

// Snapshot is the reconciled, internally consistent state of a record.
type Snapshot struct {
	Service     string
	Description *string
	PerformedAt *time.Time
	Status      Status
	Prediction  Prediction
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.Description != nil {
		desc := *s.Description
		out.Description = &desc
	}
	if s.PerformedAt != nil {
		at := *s.PerformedAt
		out.PerformedAt = &at
	}
	return out
}

// Result is the outcome of a successful reconciliation.
type Result struct {
	Snapshot
	// Changed is false when the patch reproduces the stored state; callers
	// must then skip the write and return the existing record.
	Changed       bool
	ChangedFields []string
}

// Reconcile merges patch into existing. existing is nil on create, in which
// case status defaults to active and the prediction to none. The whole merged
// state is validated before anything is returned, so a failure never yields a
// half-applied record.
func Reconcile(existing *Snapshot, patch Patch) (Result, error) {
	creating := existing == nil

	var base Snapshot
	if creating {
		base = Snapshot{Status: StatusActive, Prediction: noPrediction()}
	} else {
		base = existing.clone()
	}
	next := base.clone()

	if patch.Service.Present() {
		raw, _ := patch.Service.Get()
		service := strings.TrimSpace(raw)
		if service == "" {
			return Result{}, invalid("service", ErrMissingService)
		}
		next.Service = service
	} else if creating {
		return Result{}, invalid("service", ErrMissingService)
	}

	if patch.Description.Present() {
		next.Description = nil
		if raw, ok := patch.Description.Get(); ok {
			if desc := strings.TrimSpace(raw); desc != "" {
				next.Description = &desc
			}
		}
	}

	if patch.PerformedAt.Present() {
		next.PerformedAt = nil
		if raw, ok := patch.PerformedAt.Get(); ok && strings.TrimSpace(raw) != "" {
			at, err := ParseDate(raw)
			if err != nil {
				return Result{}, invalid("performed_at", err)
			}
			next.PerformedAt = &at
		}
	}

	if patch.Status.Present() {
		raw, _ := patch.Status.Get()
		status, err := ParseStatus(raw)
		if err != nil {
			return Result{}, invalid("status", err)
		}
		next.Status = status
	}

	prediction, err := reconcilePrediction(base.Prediction, patch)
	if err != nil {
		return Result{}, err
	}
	next.Prediction = prediction

	// 仅在创建时强制 active 必须带预测，更新时允许清空。
	if creating && next.Status == StatusActive && next.Prediction.Kind() == KindNone {
		return Result{}, invalid("prediction", ErrMissingPrediction)
	}

	if creating {
		return Result{Snapshot: next, Changed: true}, nil
	}

	changed := diff(base, next)
	return Result{Snapshot: next, Changed: len(changed) > 0, ChangedFields: changed}, nil
}

func reconcilePrediction(existing Prediction, patch Patch) (Prediction, error) {
	if patch.touchesDate() {
		if raw, ok := patch.NextDueDate.Get(); ok && strings.TrimSpace(raw) != "" {
			due, err := ParseDate(raw)
			if err != nil {
				return Prediction{}, invalid("next_due_date", err)
			}
			// date wins: usage fields in the same payload are discarded
			return datePrediction(due), nil
		}
		if !patch.touchesUsage() {
			return noPrediction(), nil
		}
	}

	if !patch.touchesUsage() {
		return existing, nil
	}

	var (
		limit, current *float64
		unit           *UsageUnit
	)
	if stored, ok := existing.Usage(); ok {
		l, c, u := stored.Limit, stored.Current, stored.Unit
		limit, current, unit = &l, &c, &u
	}

	if patch.UsageLimit.Present() {
		limit = nil
		if v, ok := patch.UsageLimit.Get(); ok {
			limit = &v
		}
	}
	if patch.UsageCurrent.Present() {
		current = nil
		if v, ok := patch.UsageCurrent.Get(); ok {
			current = &v
		}
	}
	if patch.UsageUnit.Present() {
		unit = nil
		if raw, ok := patch.UsageUnit.Get(); ok && strings.TrimSpace(raw) != "" {
			parsed, err := ParseUsageUnit(raw)
			if err != nil {
				return Prediction{}, invalid("usage_unit", err)
			}
			unit = &parsed
		}
	}

	set := 0
	for _, isSet := range []bool{limit != nil, current != nil, unit != nil} {
		if isSet {
			set++
		}
	}

	switch set {
	case 0:
		return noPrediction(), nil
	case 3:
	default:
		return Prediction{}, invalid("usage", ErrPartialUsage)
	}

	if *limit < 0 {
		return Prediction{}, invalid("next_due_usage_limit", ErrInvalidUsageValue)
	}
	if *current < 0 {
		return Prediction{}, invalid("next_due_usage_current", ErrInvalidUsageValue)
	}

	return usagePrediction(Usage{Limit: *limit, Current: *current, Unit: *unit}), nil
}

func diff(before, after Snapshot) []string {
	var changed []string
	if before.Service != after.Service {
		changed = append(changed, "service")
	}
	if !equalStringPtr(before.Description, after.Description) {
		changed = append(changed, "description")
	}
	if !equalTimePtr(before.PerformedAt, after.PerformedAt) {
		changed = append(changed, "performed_at")
	}
	if before.Status != after.Status {
		changed = append(changed, "status")
	}
	if !before.Prediction.Equal(after.Prediction) {
		changed = append(changed, "prediction")
	}
	return changed
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
