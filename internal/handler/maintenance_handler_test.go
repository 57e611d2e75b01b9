package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/assetlog/internal/db"
	"github.com/assetlog/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHandlerAsset(t *testing.T, api *API, user *db.User) *db.Asset {
	t.Helper()
	asset, err := api.assets.Create(user.ID, service.AssetInput{Name: "Car", Importance: 3})
	require.NoError(t, err)
	return asset
}

func createMaintenance(t *testing.T, api *API, user *db.User, asset *db.Asset, body string) map[string]any {
	t.Helper()
	c, w := newJSONContext(t, http.MethodPost, "/api/assets/"+asset.ID.String()+"/maintenances", body, user.ID,
		gin.Params{{Key: "id", Value: asset.ID.String()}})
	api.CreateMaintenance(c)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)
}

func TestCreateMaintenanceRejectsPartialUsage(t *testing.T) {
	api, user := setupTestAPI(t)
	asset := seedHandlerAsset(t, api, user)

	c, w := newJSONContext(t, http.MethodPost, "/", `{"service":"Tyres","next_due_usage_limit":100}`, user.ID,
		gin.Params{{Key: "id", Value: asset.ID.String()}})
	api.CreateMaintenance(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "partial_usage", body["code"])
	assert.Equal(t, "usage", body["field"])
}

func TestCreateMaintenanceRejectsMissingPrediction(t *testing.T) {
	api, user := setupTestAPI(t)
	asset := seedHandlerAsset(t, api, user)

	c, w := newJSONContext(t, http.MethodPost, "/", `{"service":"Tyres"}`, user.ID,
		gin.Params{{Key: "id", Value: asset.ID.String()}})
	api.CreateMaintenance(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_prediction", decodeBody(t, w)["code"])
}

func TestUpdateMaintenanceDateWinsOverUsage(t *testing.T) {
	api, user := setupTestAPI(t)
	asset := seedHandlerAsset(t, api, user)
	created := createMaintenance(t, api, user, asset,
		`{"service":"Tyres","next_due_usage_limit":50000,"next_due_usage_current":1000,"usage_unit":"distance"}`)
	recordID := created["id"].(string)

	c, w := newJSONContext(t, http.MethodPut, "/", map[string]any{
		"next_due_date":          "2025-07-01",
		"next_due_usage_limit":   60000,
		"next_due_usage_current": 2000,
		"usage_unit":             "distance",
	}, user.ID, gin.Params{{Key: "id", Value: asset.ID.String()}, {Key: "maintenanceId", Value: recordID}})
	api.UpdateMaintenance(c)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "2025-07-01", body["next_due_date"])
	assert.Nil(t, body["next_due_usage_limit"])
	assert.Nil(t, body["next_due_usage_current"])
	assert.Nil(t, body["usage_unit"])
	assert.Equal(t, true, body["changed"])
}

func TestUpdateMaintenanceEmptyPayload(t *testing.T) {
	api, user := setupTestAPI(t)
	asset := seedHandlerAsset(t, api, user)
	created := createMaintenance(t, api, user, asset, `{"service":"Oil","next_due_date":"2025-06-01"}`)

	c, w := newJSONContext(t, http.MethodPut, "/", `{}`, user.ID,
		gin.Params{{Key: "id", Value: asset.ID.String()}, {Key: "maintenanceId", Value: created["id"].(string)}})
	api.UpdateMaintenance(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateMaintenanceNoopReportsUnchanged(t *testing.T) {
	api, user := setupTestAPI(t)
	asset := seedHandlerAsset(t, api, user)
	created := createMaintenance(t, api, user, asset, `{"service":"Oil","next_due_date":"2025-06-01"}`)

	c, w := newJSONContext(t, http.MethodPut, "/", `{"service":"Oil"}`, user.ID,
		gin.Params{{Key: "id", Value: asset.ID.String()}, {Key: "maintenanceId", Value: created["id"].(string)}})
	api.UpdateMaintenance(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["changed"])
	assert.Equal(t, "2025-06-01", body["next_due_date"])
}

func TestGetMaintenanceRendersSanitizedDescription(t *testing.T) {
	api, user := setupTestAPI(t)
	asset := seedHandlerAsset(t, api, user)
	created := createMaintenance(t, api, user, asset,
		`{"service":"Oil","next_due_date":"2025-06-01","description":"**5W30** <script>alert(1)</script>"}`)

	c, w := newJSONContext(t, http.MethodGet, "/", nil, user.ID,
		gin.Params{{Key: "id", Value: asset.ID.String()}, {Key: "maintenanceId", Value: created["id"].(string)}})
	api.GetMaintenance(c)

	require.Equal(t, http.StatusOK, w.Code)
	html := decodeBody(t, w)["description_html"].(string)
	assert.Contains(t, html, "<strong>5W30</strong>")
	assert.False(t, strings.Contains(html, "<script>"), html)
}

func TestMaintenanceRoutesRejectMalformedIDs(t *testing.T) {
	api, user := setupTestAPI(t)
	asset := seedHandlerAsset(t, api, user)

	tests := []struct {
		name   string
		params gin.Params
		call   func(*gin.Context)
	}{
		{"list bad asset", gin.Params{{Key: "id", Value: "nope"}}, api.ListMaintenances},
		{"get bad record", gin.Params{{Key: "id", Value: asset.ID.String()}, {Key: "maintenanceId", Value: "42"}}, api.GetMaintenance},
		{"delete bad record", gin.Params{{Key: "id", Value: asset.ID.String()}, {Key: "maintenanceId", Value: ""}}, api.DeleteMaintenance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newJSONContext(t, http.MethodGet, "/", nil, user.ID, tt.params)
			tt.call(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestMaintenanceUnknownRecordIsNotFound(t *testing.T) {
	api, user := setupTestAPI(t)
	asset := seedHandlerAsset(t, api, user)

	c, w := newJSONContext(t, http.MethodGet, "/", nil, user.ID, gin.Params{
		{Key: "id", Value: asset.ID.String()},
		{Key: "maintenanceId", Value: "4f1c2b7e-3d4a-4b7e-9f5c-000000000000"},
	})
	api.GetMaintenance(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMaintenanceThenNotFound(t *testing.T) {
	api, user := setupTestAPI(t)
	asset := seedHandlerAsset(t, api, user)
	created := createMaintenance(t, api, user, asset, `{"service":"Oil","next_due_date":"2025-06-01"}`)
	params := gin.Params{{Key: "id", Value: asset.ID.String()}, {Key: "maintenanceId", Value: created["id"].(string)}}

	c, w := newJSONContext(t, http.MethodDelete, "/", nil, user.ID, params)
	api.DeleteMaintenance(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)

	c, w = newJSONContext(t, http.MethodDelete, "/", nil, user.ID, params)
	api.DeleteMaintenance(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
