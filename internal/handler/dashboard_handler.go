package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/assetlog/internal/maintenance"
	"github.com/gin-gonic/gin"
)

type predictionPayload struct {
	Kind         string   `json:"kind"`
	NextDueDate  *string  `json:"next_due_date,omitempty"`
	UsageLimit   *float64 `json:"usage_limit,omitempty"`
	UsageCurrent *float64 `json:"usage_current,omitempty"`
	UsageUnit    string   `json:"usage_unit,omitempty"`
	Remaining    *float64 `json:"remaining,omitempty"`
}

type worklistItemPayload struct {
	MaintenanceID string            `json:"maintenance_id"`
	AssetID       string            `json:"asset_id"`
	AssetName     string            `json:"asset_name"`
	Importance    int               `json:"importance"`
	Service       string            `json:"service"`
	Score         float64           `json:"score"`
	Urgency       string            `json:"urgency"`
	Label         string            `json:"label"`
	Prediction    predictionPayload `json:"prediction"`
}

type worklistPayload struct {
	Items []worklistItemPayload `json:"items"`
	Total int                   `json:"total"`
	Today string                `json:"today"`
}

// Worklist 返回跨资产的维护紧急度排行
func (a *API) Worklist(c *gin.Context) {
	userID, _ := currentUserID(c)
	limit := a.worklistLimit(c.Query("limit"))

	worklist, err := a.dashboard.Worklist(userID, a.now().UTC(), limit)
	if err != nil {
		a.respondServiceError(c, err, "failed to build worklist")
		return
	}

	items := make([]worklistItemPayload, 0, len(worklist.Items))
	for _, item := range worklist.Items {
		items = append(items, worklistItemPayload{
			MaintenanceID: item.RecordID,
			AssetID:       item.AssetID,
			AssetName:     item.AssetName,
			Importance:    item.Importance,
			Service:       item.Service,
			Score:         item.Score,
			Urgency:       string(item.Urgency),
			Label:         item.Label,
			Prediction:    predictionToPayload(item.Prediction),
		})
	}

	c.JSON(http.StatusOK, worklistPayload{
		Items: items,
		Total: worklist.Total,
		Today: worklist.Today.Format(maintenance.DateLayout),
	})
}

// worklistLimit reads ?limit=, falling back to the configured default and
// clamping to 1..maxWorklistLimit.
func (a *API) worklistLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return a.dashboardLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > maxWorklistLimit {
		return maxWorklistLimit
	}
	return limit
}

func predictionToPayload(p maintenance.Prediction) predictionPayload {
	payload := predictionPayload{Kind: p.Kind().String()}
	if due, ok := p.DueDate(); ok {
		formatted := due.Format(maintenance.DateLayout)
		payload.NextDueDate = &formatted
	}
	if usage, ok := p.Usage(); ok {
		limit, current, remaining := usage.Limit, usage.Current, usage.Remaining()
		payload.UsageLimit = &limit
		payload.UsageCurrent = &current
		payload.Remaining = &remaining
		payload.UsageUnit = string(usage.Unit)
	}
	return payload
}
