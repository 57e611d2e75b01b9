package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorklistPayload(t *testing.T) {
	api, user := setupTestAPI(t)
	asset := seedHandlerAsset(t, api, user)
	createMaintenance(t, api, user, asset, `{"service":"Inspection","next_due_date":"2025-05-07"}`)
	createMaintenance(t, api, user, asset,
		`{"service":"Tyres","next_due_usage_limit":1000,"next_due_usage_current":500,"usage_unit":"distance"}`)

	c, w := newJSONContext(t, http.MethodGet, "/api/dashboard/worklist", nil, user.ID, nil)
	api.Worklist(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body worklistPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2025-05-10", body.Today)
	assert.Equal(t, 2, body.Total)
	require.Len(t, body.Items, 2)

	first := body.Items[0]
	assert.Equal(t, "Inspection", first.Service)
	assert.Equal(t, -3.0, first.Score)
	assert.Equal(t, "overdue", first.Urgency)
	assert.Equal(t, "Overdue (3d)", first.Label)
	assert.Equal(t, "date", first.Prediction.Kind)

	second := body.Items[1]
	assert.Equal(t, "usage", second.Prediction.Kind)
	assert.Equal(t, "OK (500 km left)", second.Label)
	require.NotNil(t, second.Prediction.Remaining)
	assert.Equal(t, 500.0, *second.Prediction.Remaining)
}

func TestWorklistLimit(t *testing.T) {
	api, _ := setupTestAPI(t)

	cases := map[string]int{
		"":    10,
		"abc": 10,
		"0":   1,
		"-5":  1,
		"3":   3,
		"500": maxWorklistLimit,
	}
	for raw, want := range cases {
		assert.Equal(t, want, api.worklistLimit(raw), "limit=%q", raw)
	}
}
