package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/assetlog/internal/db"
	"github.com/assetlog/internal/service"
	"github.com/gin-gonic/gin"
)

type assetCreatePayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Importance  json.RawMessage `json:"importance"`
}

type assetUpdatePayload struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Importance  json.RawMessage `json:"importance"`
}

type assetPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Importance  int       `json:"importance"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func assetToPayload(asset *db.Asset) assetPayload {
	return assetPayload{
		ID:          asset.ID.String(),
		Name:        asset.Name,
		Description: asset.Description,
		Importance:  asset.Importance,
		CreatedAt:   asset.CreatedAt,
		UpdatedAt:   asset.UpdatedAt,
	}
}

// ListAssets 返回当前用户的资产列表
func (a *API) ListAssets(c *gin.Context) {
	userID, _ := currentUserID(c)
	assets, err := a.assets.List(userID)
	if err != nil {
		a.respondServiceError(c, err, "failed to list assets")
		return
	}

	items := make([]assetPayload, 0, len(assets))
	for i := range assets {
		items = append(items, assetToPayload(&assets[i]))
	}
	c.JSON(http.StatusOK, gin.H{"assets": items})
}

// GetAsset 返回单个资产
func (a *API) GetAsset(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := currentUserID(c)
	asset, err := a.assets.Get(userID, id)
	if err != nil {
		a.respondServiceError(c, err, "failed to load asset")
		return
	}
	c.JSON(http.StatusOK, assetToPayload(asset))
}

// CreateAsset 新建资产，重要度缺失或非数字时取 1
func (a *API) CreateAsset(c *gin.Context) {
	var payload assetCreatePayload
	if !bindJSON(c, &payload, "invalid asset payload") {
		return
	}

	importance, ok := parseImportance(payload.Importance)
	if !ok {
		importance = service.MinImportance
	}

	userID, _ := currentUserID(c)
	asset, err := a.assets.Create(userID, service.AssetInput{
		Name:        payload.Name,
		Description: payload.Description,
		Importance:  importance,
	})
	if err != nil {
		a.respondServiceError(c, err, "failed to create asset")
		return
	}
	c.JSON(http.StatusCreated, assetToPayload(asset))
}

// UpdateAsset applies a partial update; a non-numeric importance is ignored.
func (a *API) UpdateAsset(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload assetUpdatePayload
	if !bindJSON(c, &payload, "invalid asset payload") {
		return
	}

	input := service.AssetUpdate{Name: payload.Name, Description: payload.Description}
	if importance, ok := parseImportance(payload.Importance); ok {
		input.Importance = &importance
	}

	userID, _ := currentUserID(c)
	asset, err := a.assets.Update(userID, id, input)
	if err != nil {
		a.respondServiceError(c, err, "failed to update asset")
		return
	}
	c.JSON(http.StatusOK, assetToPayload(asset))
}

// DeleteAsset 删除资产及其维护记录
func (a *API) DeleteAsset(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := currentUserID(c)
	if err := a.assets.Delete(userID, id); err != nil {
		a.respondServiceError(c, err, "failed to delete asset")
		return
	}
	c.Status(http.StatusNoContent)
}

// parseImportance accepts a JSON number or a numeric string.
func parseImportance(raw json.RawMessage) (int, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, false
	}

	var number float64
	if err := json.Unmarshal(trimmed, &number); err == nil {
		return truncImportance(number), true
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return 0, false
	}
	number, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return truncImportance(number), true
}

func truncImportance(number float64) int {
	return service.ClampImportance(int(math.Trunc(math.Max(-1, math.Min(number, service.MaxImportance+1)))))
}
