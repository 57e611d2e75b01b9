package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/assetlog/internal/db"
	"github.com/assetlog/internal/maintenance"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrMaintenanceNotFound 在记录不存在或不属于该资产时返回
	ErrMaintenanceNotFound = errors.New("maintenance record not found")
	// ErrCorruptRecord 存储的列违反了预测互斥约束
	ErrCorruptRecord = errors.New("stored maintenance record is inconsistent")
)

// MaintenanceService persists maintenance records. Every write goes through
// maintenance.Reconcile, so the stored prediction columns are always
// mutually exclusive.
type MaintenanceService struct {
	db *gorm.DB
}

// NewMaintenanceService 构造 MaintenanceService
func NewMaintenanceService(gdb *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: gdb}
}

// List returns an asset's records, newest first.
func (s *MaintenanceService) List(userID uint, assetID uuid.UUID) ([]db.MaintenanceRecord, error) {
	if _, err := findAsset(s.db, userID, assetID); err != nil {
		return nil, err
	}

	var records []db.MaintenanceRecord
	if err := s.db.Where("asset_id = ?", assetID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list maintenance records: %w", err)
	}
	return records, nil
}

// Get 获取单条维护记录
func (s *MaintenanceService) Get(userID uint, assetID, recordID uuid.UUID) (*db.MaintenanceRecord, error) {
	if _, err := findAsset(s.db, userID, assetID); err != nil {
		return nil, err
	}
	return findRecord(s.db, assetID, recordID)
}

// ListActiveForAsset returns the active records of one asset.
func (s *MaintenanceService) ListActiveForAsset(assetID uuid.UUID) ([]db.MaintenanceRecord, error) {
	return s.ListActiveForAssets([]uuid.UUID{assetID})
}

// ListActiveForAssets returns the active records of all given assets in one query.
func (s *MaintenanceService) ListActiveForAssets(assetIDs []uuid.UUID) ([]db.MaintenanceRecord, error) {
	if len(assetIDs) == 0 {
		return []db.MaintenanceRecord{}, nil
	}

	var records []db.MaintenanceRecord
	if err := s.db.Where("asset_id IN ?", assetIDs).
		Where("status = ?", string(maintenance.StatusActive)).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list active records: %w", err)
	}
	return records, nil
}

// Create reconciles patch against an empty record and stores the result.
func (s *MaintenanceService) Create(userID uint, assetID uuid.UUID, patch maintenance.Patch) (*db.MaintenanceRecord, error) {
	var created db.MaintenanceRecord

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findAsset(tx, userID, assetID); err != nil {
			return err
		}

		result, err := maintenance.Reconcile(nil, patch)
		if err != nil {
			return err
		}

		created = db.MaintenanceRecord{AssetID: assetID}
		applySnapshot(&created, result.Snapshot)
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("create maintenance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update reads the stored record, reconciles patch against it and writes the
// merged state back in the same transaction. The returned flag is false when
// the patch changed nothing; the stored record is then returned untouched.
func (s *MaintenanceService) Update(userID uint, assetID, recordID uuid.UUID, patch maintenance.Patch) (*db.MaintenanceRecord, bool, error) {
	var (
		updated db.MaintenanceRecord
		changed bool
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findAsset(tx, userID, assetID); err != nil {
			return err
		}

		record, err := findRecord(tx.Clauses(clause.Locking{Strength: "UPDATE"}), assetID, recordID)
		if err != nil {
			return err
		}

		existing, err := SnapshotOf(record)
		if err != nil {
			return err
		}

		result, err := maintenance.Reconcile(&existing, patch)
		if err != nil {
			return err
		}
		if !result.Changed {
			updated = *record
			return nil
		}

		changed = true
		applySnapshot(record, result.Snapshot)
		if err := tx.Model(&db.MaintenanceRecord{}).
			Where("id = ? AND asset_id = ?", recordID, assetID).
			Updates(recordColumns(record)).Error; err != nil {
			return fmt.Errorf("update maintenance record: %w", err)
		}

		reloaded, err := findRecord(tx, assetID, recordID)
		if err != nil {
			return err
		}
		updated = *reloaded
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &updated, changed, nil
}

// Delete 删除维护记录
func (s *MaintenanceService) Delete(userID uint, assetID, recordID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findAsset(tx, userID, assetID); err != nil {
			return err
		}
		result := tx.Where("id = ? AND asset_id = ?", recordID, assetID).Delete(&db.MaintenanceRecord{})
		if result.Error != nil {
			return fmt.Errorf("delete maintenance record: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrMaintenanceNotFound
		}
		return nil
	})
}

// SnapshotOf converts a stored row into the reconciler's view of it.
func SnapshotOf(record *db.MaintenanceRecord) (maintenance.Snapshot, error) {
	status, err := maintenance.ParseStatus(record.Status)
	if err != nil {
		return maintenance.Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	prediction, err := maintenance.PredictionFromColumns(ColumnsOf(record))
	if err != nil {
		return maintenance.Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	return maintenance.Snapshot{
		Service:     record.Service,
		Description: record.Description,
		PerformedAt: fromDate(record.PerformedAt),
		Status:      status,
		Prediction:  prediction,
	}, nil
}

// ColumnsOf extracts the raw prediction columns of a stored row.
func ColumnsOf(record *db.MaintenanceRecord) maintenance.Columns {
	return maintenance.Columns{
		NextDueDate:  fromDate(record.NextDueDate),
		UsageLimit:   record.NextDueUsageLimit,
		UsageCurrent: record.NextDueUsageCurrent,
		UsageUnit:    record.UsageUnit,
	}
}

func applySnapshot(record *db.MaintenanceRecord, snap maintenance.Snapshot) {
	cols := snap.Prediction.Columns()

	record.Service = snap.Service
	record.Description = snap.Description
	record.PerformedAt = toDate(snap.PerformedAt)
	record.Status = string(snap.Status)
	record.NextDueDate = toDate(cols.NextDueDate)
	record.NextDueUsageLimit = cols.UsageLimit
	record.NextDueUsageCurrent = cols.UsageCurrent
	record.UsageUnit = cols.UsageUnit
}

// recordColumns lists every reconciled column explicitly so that cleared
// values are written as NULL instead of being skipped as zero values.
func recordColumns(record *db.MaintenanceRecord) map[string]interface{} {
	return map[string]interface{}{
		"service":                record.Service,
		"description":            nullable(record.Description),
		"performed_at":           nullableDate(record.PerformedAt),
		"status":                 record.Status,
		"next_due_date":          nullableDate(record.NextDueDate),
		"next_due_usage_limit":   nullable(record.NextDueUsageLimit),
		"next_due_usage_current": nullable(record.NextDueUsageCurrent),
		"usage_unit":             nullable(record.UsageUnit),
	}
}

func findRecord(gdb *gorm.DB, assetID, recordID uuid.UUID) (*db.MaintenanceRecord, error) {
	var record db.MaintenanceRecord
	if err := gdb.Where("id = ? AND asset_id = ?", recordID, assetID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaintenanceNotFound
		}
		return nil, fmt.Errorf("get maintenance record: %w", err)
	}
	return &record, nil
}

func nullable[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableDate(d *datatypes.Date) interface{} {
	if d == nil {
		return nil
	}
	return *d
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(maintenance.DateOf(*t))
	return &d
}

func fromDate(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := maintenance.DateOf(time.Time(*d))
	return &t
}
