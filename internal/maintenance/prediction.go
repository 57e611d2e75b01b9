package maintenance

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Kind identifies the variant held by a Prediction.
type Kind int

const (
	KindNone Kind = iota
	KindDate
	KindUsage
)

func (k Kind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindUsage:
		return "usage"
	default:
		return "none"
	}
}

// Usage is the co-required usage triple.
type Usage struct {
	Limit   float64
	Current float64
	Unit    UsageUnit
}

// Remaining is limit minus current.
func (u Usage) Remaining() float64 { return u.Limit - u.Current }

// Prediction is exactly one of: no prediction, a due date, or a usage triple.
// Fields are unexported so a mixed state cannot be built outside this package.
type Prediction struct {
	kind  Kind
	due   time.Time
	usage Usage
}

func noPrediction() Prediction { return Prediction{kind: KindNone} }

func datePrediction(due time.Time) Prediction {
	return Prediction{kind: KindDate, due: DateOf(due)}
}

func usagePrediction(u Usage) Prediction { return Prediction{kind: KindUsage, usage: u} }

// Kind returns the active variant.
func (p Prediction) Kind() Kind { return p.kind }

// DueDate returns the due date of a date prediction.
func (p Prediction) DueDate() (time.Time, bool) {
	if p.kind != KindDate {
		return time.Time{}, false
	}
	return p.due, true
}

// Usage returns the triple of a usage prediction.
func (p Prediction) Usage() (Usage, bool) {
	if p.kind != KindUsage {
		return Usage{}, false
	}
	return p.usage, true
}

// Equal compares variant and payload.
func (p Prediction) Equal(other Prediction) bool {
	if p.kind != other.kind {
		return false
	}
	switch p.kind {
	case KindDate:
		return p.due.Equal(other.due)
	case KindUsage:
		return p.usage == other.usage
	default:
		return true
	}
}

func (p Prediction) String() string {
	switch p.kind {
	case KindDate:
		return "date(" + p.due.Format(DateLayout) + ")"
	case KindUsage:
		return fmt.Sprintf("usage(%g/%g %s)", p.usage.Current, p.usage.Limit, p.usage.Unit)
	default:
		return "none"
	}
}

// Columns is the four-nullable-column storage projection of a Prediction.
type Columns struct {
	NextDueDate  *time.Time
	UsageLimit   *float64
	UsageCurrent *float64
	UsageUnit    *string
}

// Columns projects the prediction onto storage columns; unused columns are nil.
func (p Prediction) Columns() Columns {
	switch p.kind {
	case KindDate:
		due := p.due
		return Columns{NextDueDate: &due}
	case KindUsage:
		limit, current, unit := p.usage.Limit, p.usage.Current, string(p.usage.Unit)
		return Columns{UsageLimit: &limit, UsageCurrent: &current, UsageUnit: &unit}
	default:
		return Columns{}
	}
}

// PredictionFromColumns rehydrates a stored prediction, rejecting rows that
// mix date and usage fields or hold a partial usage triple.
func PredictionFromColumns(c Columns) (Prediction, error) {
	usageSet := 0
	if c.UsageLimit != nil {
		usageSet++
	}
	if c.UsageCurrent != nil {
		usageSet++
	}
	if c.UsageUnit != nil {
		usageSet++
	}

	switch {
	case c.NextDueDate != nil && usageSet > 0:
		return Prediction{}, fmt.Errorf("%w: date and usage both set", ErrInconsistentColumns)
	case c.NextDueDate != nil:
		return datePrediction(*c.NextDueDate), nil
	case usageSet == 0:
		return noPrediction(), nil
	case usageSet < 3:
		return Prediction{}, fmt.Errorf("%w: partial usage triple", ErrInconsistentColumns)
	}

	unit, err := ParseUsageUnit(*c.UsageUnit)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrInconsistentColumns, err)
	}
	return usagePrediction(Usage{Limit: *c.UsageLimit, Current: *c.UsageCurrent, Unit: unit}), nil
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return parsed, nil
}

// DateOf drops the clock part of t, keeping its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
