package service

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/assetlog/internal/db"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const (
	MinImportance = 1
	MaxImportance = 5
)

var (
	// ErrAssetNotFound 在资产不存在或不属于当前用户时返回
	ErrAssetNotFound = errors.New("asset not found")
	// ErrAssetNameRequired 资产名称为空
	ErrAssetNameRequired = errors.New("asset name is required")
)

var plainTextPolicy = bluemonday.StrictPolicy()

// AssetService 负责资产的增删改查，所有查询都限定在所属用户内
type AssetService struct {
	db *gorm.DB
}

// AssetInput 定义创建资产时的字段
type AssetInput struct {
	Name        string
	Description string
	Importance  int
}

// AssetUpdate 定义可更新字段，nil 表示保持不变
type AssetUpdate struct {
	Name        *string
	Description *string
	Importance  *int
}

// NewAssetService 构造 AssetService
func NewAssetService(gdb *gorm.DB) *AssetService {
	return &AssetService{db: gdb}
}

// List returns the user's assets, most important first.
func (s *AssetService) List(userID uint) ([]db.Asset, error) {
	var assets []db.Asset
	if err := s.db.Where("user_id = ?", userID).
		Order("importance DESC").
		Order("name ASC").
		Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

// Get 根据 ID 获取资产
func (s *AssetService) Get(userID uint, id uuid.UUID) (*db.Asset, error) {
	return findAsset(s.db, userID, id)
}

// Create 新建资产
func (s *AssetService) Create(userID uint, input AssetInput) (*db.Asset, error) {
	name := cleanText(input.Name)
	if name == "" {
		return nil, ErrAssetNameRequired
	}

	asset := db.Asset{
		UserID:      userID,
		Name:        name,
		Description: cleanText(input.Description),
		Importance:  ClampImportance(input.Importance),
	}
	if err := s.db.Create(&asset).Error; err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return &asset, nil
}

// Update 更新资产，至少需要一个字段
func (s *AssetService) Update(userID uint, id uuid.UUID, input AssetUpdate) (*db.Asset, error) {
	updates := map[string]interface{}{}

	if input.Name != nil {
		name := cleanText(*input.Name)
		if name == "" {
			return nil, ErrAssetNameRequired
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = cleanText(*input.Description)
	}
	if input.Importance != nil {
		updates["importance"] = ClampImportance(*input.Importance)
	}

	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	asset, err := findAsset(s.db, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(asset).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update asset: %w", err)
	}
	return findAsset(s.db, userID, id)
}

// Delete removes the asset and every maintenance record attached to it.
func (s *AssetService) Delete(userID uint, id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findAsset(tx, userID, id); err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", id).Delete(&db.MaintenanceRecord{}).Error; err != nil {
			return fmt.Errorf("delete asset records: %w", err)
		}
		if err := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&db.Asset{}).Error; err != nil {
			return fmt.Errorf("delete asset: %w", err)
		}
		return nil
	})
}

// ClampImportance pins n into [MinImportance, MaxImportance].
func ClampImportance(n int) int {
	if n < MinImportance {
		return MinImportance
	}
	if n > MaxImportance {
		return MaxImportance
	}
	return n
}

func findAsset(gdb *gorm.DB, userID uint, id uuid.UUID) (*db.Asset, error) {
	var asset db.Asset
	if err := gdb.Where("id = ? AND user_id = ?", id, userID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return &asset, nil
}

// cleanText strips markup and surrounding whitespace from a plain-text field.
func cleanText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(plainTextPolicy.Sanitize(raw)))
}
