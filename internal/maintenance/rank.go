package maintenance

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"
)

// Usage score bands. Every usage score lives below any realistic date score
// except the "ok" band, which sits far above it.
const (
	exceededBase  = -1000
	nearLimitBase = -500
	attentionBase = -200
	okBase        = 10000

	nearLimitRatio = 0.95
	attentionRatio = 0.80

	soonDays = 7
)

// Urgency classifies a ranked item.
type Urgency string

const (
	UrgencyOverdue   Urgency = "overdue"
	UrgencyToday     Urgency = "today"
	UrgencySoon      Urgency = "soon"
	UrgencyUpcoming  Urgency = "upcoming"
	UrgencyExceeded  Urgency = "exceeded"
	UrgencyNearLimit Urgency = "near_limit"
	UrgencyAttention Urgency = "attention"
	UrgencyOK        Urgency = "ok"
)

// RankAsset is the slice of an asset the ranker needs.
type RankAsset struct {
	ID         string
	Name       string
	Importance int
}

// RankRecord carries raw storage columns so that malformed rows can be
// skipped here instead of failing the caller.
type RankRecord struct {
	ID      string
	AssetID string
	Service string
	Status  Status
	Columns Columns
}

// RankedItem is one worklist entry.
type RankedItem struct {
	RecordID   string
	AssetID    string
	AssetName  string
	Importance int
	Service    string
	Prediction Prediction
	Score      float64
	Urgency    Urgency
	Label      string
}

// Rank scores every active record with a prediction and returns them most
// urgent first, truncated to limit (limit <= 0 keeps everything).
func Rank(assets []RankAsset, recordsByAsset map[string][]RankRecord, today time.Time, limit int) []RankedItem {
	items := make([]RankedItem, 0)

	for _, asset := range assets {
		for _, record := range recordsByAsset[asset.ID] {
			prediction, ok := rankable(record)
			if !ok {
				continue
			}
			score, _ := Score(prediction, today)
			urgency := Classify(prediction, today)
			items = append(items, RankedItem{
				RecordID:   record.ID,
				AssetID:    asset.ID,
				AssetName:  asset.Name,
				Importance: asset.Importance,
				Service:    record.Service,
				Prediction: prediction,
				Score:      score,
				Urgency:    urgency,
				Label:      Label(prediction, today),
			})
		}
	}

	slices.SortStableFunc(items, func(a, b RankedItem) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Importance, a.Importance); c != 0 {
			return c
		}
		if c := strings.Compare(a.AssetName, b.AssetName); c != 0 {
			return c
		}
		return strings.Compare(a.RecordID, b.RecordID)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// CountRankable reports how many records Rank would return without a limit.
func CountRankable(assets []RankAsset, recordsByAsset map[string][]RankRecord) int {
	n := 0
	for _, asset := range assets {
		for _, record := range recordsByAsset[asset.ID] {
			if _, ok := rankable(record); ok {
				n++
			}
		}
	}
	return n
}

// rankable returns the prediction of an active, well-formed record that has one.
func rankable(record RankRecord) (Prediction, bool) {
	if record.Status != StatusActive {
		return Prediction{}, false
	}
	prediction, err := PredictionFromColumns(record.Columns)
	if err != nil || prediction.Kind() == KindNone {
		return Prediction{}, false
	}
	return prediction, true
}

// Score returns the urgency score of p; lower is more urgent. ok is false
// for NoPrediction.
func Score(p Prediction, today time.Time) (float64, bool) {
	switch p.Kind() {
	case KindDate:
		return float64(daysUntil(p, today)), true
	case KindUsage:
		u, _ := p.Usage()
		return usageScore(u), true
	default:
		return 0, false
	}
}

// daysUntil is ceil((due - today) / 1 day) over calendar dates.
func daysUntil(p Prediction, today time.Time) int {
	due, _ := p.DueDate()
	diff := DateOf(due).Sub(DateOf(today))
	return int(math.Ceil(diff.Hours() / 24))
}

func usageScore(u Usage) float64 {
	remaining := u.Remaining()
	switch usageBand(u) {
	case UrgencyExceeded:
		return exceededBase - math.Abs(remaining)
	case UrgencyNearLimit:
		return nearLimitBase + remaining
	case UrgencyAttention:
		return attentionBase + remaining
	default:
		return remaining + okBase
	}
}

func usageBand(u Usage) Urgency {
	remaining := u.Remaining()
	if u.Limit <= 0 || remaining <= 0 {
		return UrgencyExceeded
	}
	ratio := u.Current / u.Limit
	switch {
	case ratio >= nearLimitRatio:
		return UrgencyNearLimit
	case ratio >= attentionRatio:
		return UrgencyAttention
	default:
		return UrgencyOK
	}
}

// Classify maps a prediction to its urgency level.
func Classify(p Prediction, today time.Time) Urgency {
	switch p.Kind() {
	case KindDate:
		days := daysUntil(p, today)
		switch {
		case days < 0:
			return UrgencyOverdue
		case days == 0:
			return UrgencyToday
		case days <= soonDays:
			return UrgencySoon
		default:
			return UrgencyUpcoming
		}
	case KindUsage:
		u, _ := p.Usage()
		return usageBand(u)
	default:
		return ""
	}
}
