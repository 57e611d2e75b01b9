package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Asset 是用户登记的实物资产
// Importance 取值 1..5，由 service 层负责钳制
type Asset struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uint      `gorm:"index;not null"`
	Name        string    `gorm:"not null"`
	Description string
	Importance  int                 `gorm:"not null;default:1"`
	Records     []MaintenanceRecord `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeforeCreate assigns a random id when none was set.
func (a *Asset) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// MaintenanceRecord stores the next-due prediction as four nullable columns.
// The check constraint keeps date and usage columns mutually exclusive.
type MaintenanceRecord struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	AssetID             uuid.UUID `gorm:"type:uuid;index;not null"`
	Service             string    `gorm:"not null"`
	Description         *string
	PerformedAt         *datatypes.Date
	Status              string          `gorm:"not null;default:active;index"`
	NextDueDate         *datatypes.Date `gorm:"check:chk_prediction_exclusive,next_due_date IS NULL OR (next_due_usage_limit IS NULL AND next_due_usage_current IS NULL AND usage_unit IS NULL)"`
	NextDueUsageLimit   *float64
	NextDueUsageCurrent *float64
	UsageUnit           *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName 固定表名
func (MaintenanceRecord) TableName() string {
	return "maintenance_records"
}

// BeforeCreate assigns a random id when none was set.
func (m *MaintenanceRecord) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
