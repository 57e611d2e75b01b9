package handler

import (
	"net/http"
	"time"

	"github.com/assetlog/internal/db"
	"github.com/assetlog/internal/maintenance"
	"github.com/assetlog/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type maintenancePayload struct {
	ID                  string    `json:"id"`
	AssetID             string    `json:"asset_id"`
	Service             string    `json:"service"`
	Description         *string   `json:"description"`
	DescriptionHTML     string    `json:"description_html,omitempty"`
	PerformedAt         *string   `json:"performed_at"`
	Status              string    `json:"status"`
	NextDueDate         *string   `json:"next_due_date"`
	NextDueUsageLimit   *float64  `json:"next_due_usage_limit"`
	NextDueUsageCurrent *float64  `json:"next_due_usage_current"`
	UsageUnit           *string   `json:"usage_unit"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type maintenanceUpdateResponse struct {
	maintenancePayload
	Changed bool `json:"changed"`
}

func maintenanceToPayload(record *db.MaintenanceRecord) maintenancePayload {
	return maintenancePayload{
		ID:                  record.ID.String(),
		AssetID:             record.AssetID.String(),
		Service:             record.Service,
		Description:         record.Description,
		PerformedAt:         formatDate(record.PerformedAt),
		Status:              record.Status,
		NextDueDate:         formatDate(record.NextDueDate),
		NextDueUsageLimit:   record.NextDueUsageLimit,
		NextDueUsageCurrent: record.NextDueUsageCurrent,
		UsageUnit:           record.UsageUnit,
		CreatedAt:           record.CreatedAt,
		UpdatedAt:           record.UpdatedAt,
	}
}

// ListMaintenances 返回资产的维护记录
func (a *API) ListMaintenances(c *gin.Context) {
	assetID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := currentUserID(c)
	records, err := a.records.List(userID, assetID)
	if err != nil {
		a.respondServiceError(c, err, "failed to list maintenances")
		return
	}

	items := make([]maintenancePayload, 0, len(records))
	for i := range records {
		items = append(items, maintenanceToPayload(&records[i]))
	}
	c.JSON(http.StatusOK, gin.H{"maintenances": items})
}

// GetMaintenance returns one record with its description rendered as HTML.
func (a *API) GetMaintenance(c *gin.Context) {
	assetID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	recordID, err := parseUUIDParam(c, "maintenanceId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := currentUserID(c)
	record, err := a.records.Get(userID, assetID, recordID)
	if err != nil {
		a.respondServiceError(c, err, "failed to load maintenance")
		return
	}

	payload := maintenanceToPayload(record)
	if record.Description != nil && *record.Description != "" {
		rendered, err := renderMarkdown(*record.Description)
		if err != nil {
			a.respondServiceError(c, err, "failed to render description")
			return
		}
		payload.DescriptionHTML = rendered
	}
	c.JSON(http.StatusOK, payload)
}

// CreateMaintenance 新建维护记录
func (a *API) CreateMaintenance(c *gin.Context) {
	assetID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var patch maintenance.Patch
	if !bindJSON(c, &patch, "invalid maintenance payload") {
		return
	}

	userID, _ := currentUserID(c)
	record, err := a.records.Create(userID, assetID, patch)
	if err != nil {
		a.respondServiceError(c, err, "failed to create maintenance")
		return
	}
	c.JSON(http.StatusCreated, maintenanceToPayload(record))
}

// UpdateMaintenance merges a sparse payload into the stored record.
func (a *API) UpdateMaintenance(c *gin.Context) {
	assetID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	recordID, err := parseUUIDParam(c, "maintenanceId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var patch maintenance.Patch
	if !bindJSON(c, &patch, "invalid maintenance payload") {
		return
	}
	if patch.Empty() {
		a.respondServiceError(c, service.ErrNothingToUpdate, "")
		return
	}

	userID, _ := currentUserID(c)
	record, changed, err := a.records.Update(userID, assetID, recordID, patch)
	if err != nil {
		a.respondServiceError(c, err, "failed to update maintenance")
		return
	}
	c.JSON(http.StatusOK, maintenanceUpdateResponse{
		maintenancePayload: maintenanceToPayload(record),
		Changed:            changed,
	})
}

// DeleteMaintenance 删除维护记录
func (a *API) DeleteMaintenance(c *gin.Context) {
	assetID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	recordID, err := parseUUIDParam(c, "maintenanceId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := currentUserID(c)
	if err := a.records.Delete(userID, assetID, recordID); err != nil {
		a.respondServiceError(c, err, "failed to delete maintenance")
		return
	}
	c.Status(http.StatusNoContent)
}

func formatDate(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	formatted := time.Time(*d).Format(maintenance.DateLayout)
	return &formatted
}
