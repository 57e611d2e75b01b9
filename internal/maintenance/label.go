package maintenance

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Label renders the human readable urgency of p. It is derived from the
// same inputs as Score and never stored.
func Label(p Prediction, today time.Time) string {
	switch p.Kind() {
	case KindDate:
		days := daysUntil(p, today)
		switch {
		case days < 0:
			return fmt.Sprintf("Overdue (%dd)", -days)
		case days == 0:
			return "Today!"
		case days == 1:
			return "Due tomorrow"
		default:
			return fmt.Sprintf("Due in %d days", days)
		}
	case KindUsage:
		u, _ := p.Usage()
		remaining := u.Remaining()
		unit := u.Unit.Abbrev()
		switch usageBand(u) {
		case UrgencyExceeded:
			return fmt.Sprintf("Usage exceeded! (%s %s over)", formatAmount(math.Abs(remaining)), unit)
		case UrgencyNearLimit:
			return fmt.Sprintf("Near limit (%s %s left)", formatAmount(remaining), unit)
		case UrgencyAttention:
			return fmt.Sprintf("Attention (%s %s left)", formatAmount(remaining), unit)
		default:
			return fmt.Sprintf("OK (%s %s left)", formatAmount(remaining), unit)
		}
	default:
		return "No prediction"
	}
}

// formatAmount rounds to two decimals.
func formatAmount(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
