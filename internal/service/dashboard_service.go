package service

import (
	"fmt"
	"time"

	"github.com/assetlog/internal/maintenance"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Worklist is the ranked dashboard view for one user.
type Worklist struct {
	Items []maintenance.RankedItem
	// Total counts every ranked record before truncation.
	Total int
	Today time.Time
}

// DashboardService builds the cross-asset maintenance worklist.
type DashboardService struct {
	assets  *AssetService
	records *MaintenanceService
}

// NewDashboardService 构造 DashboardService
func NewDashboardService(gdb *gorm.DB) *DashboardService {
	return &DashboardService{
		assets:  NewAssetService(gdb),
		records: NewMaintenanceService(gdb),
	}
}

// Worklist ranks the active records of every asset the user owns.
// limit <= 0 returns the full ranking.
func (s *DashboardService) Worklist(userID uint, today time.Time, limit int) (*Worklist, error) {
	assets, err := s.assets.List(userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(assets))
	rankAssets := make([]maintenance.RankAsset, 0, len(assets))
	for _, asset := range assets {
		ids = append(ids, asset.ID)
		rankAssets = append(rankAssets, maintenance.RankAsset{
			ID:         asset.ID.String(),
			Name:       asset.Name,
			Importance: asset.Importance,
		})
	}

	records, err := s.records.ListActiveForAssets(ids)
	if err != nil {
		return nil, fmt.Errorf("load worklist records: %w", err)
	}

	byAsset := make(map[string][]maintenance.RankRecord, len(assets))
	for i := range records {
		record := &records[i]
		key := record.AssetID.String()
		byAsset[key] = append(byAsset[key], maintenance.RankRecord{
			ID:      record.ID.String(),
			AssetID: key,
			Service: record.Service,
			Status:  maintenance.Status(record.Status),
			Columns: ColumnsOf(record),
		})
	}

	return &Worklist{
		Items: maintenance.Rank(rankAssets, byAsset, today, limit),
		Total: maintenance.CountRankable(rankAssets, byAsset),
		Today: maintenance.DateOf(today),
	}, nil
}
