package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/assetlog/internal/config"
	"github.com/assetlog/internal/db"
	"github.com/assetlog/internal/maintenance"
	"github.com/assetlog/internal/service"
	"gorm.io/gorm"
)

const (
	demoName     = "Demo User"
	demoEmail    = "demo@assetlog.local"
	demoPassword = "demo1234"
)

type seedAsset struct {
	name        string
	description string
	importance  int
	records     []maintenance.Patch
}

// 演示数据生成器
func main() {
	cfg := config.Load()
	if err := db.Init(cfg); err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	created, err := seed(db.DB, time.Now().UTC())
	if err != nil {
		log.Fatal("failed to seed demo data: ", err)
	}

	if created == 0 {
		fmt.Println("demo assets already exist, skipping")
	} else {
		fmt.Printf("created %d demo assets\n", created)
	}
	fmt.Printf("login: %s / %s\n", demoEmail, demoPassword)
}

// seed creates the demo user and, when that user owns no assets yet, a set
// of assets covering date, usage and completed records. It returns the
// number of assets created.
func seed(gdb *gorm.DB, today time.Time) (int, error) {
	user, err := db.EnsureUser(gdb, demoName, demoEmail, demoPassword)
	if err != nil {
		return 0, fmt.Errorf("ensure demo user: %w", err)
	}
	if user == nil {
		return 0, errors.New("demo user not created")
	}

	assets := service.NewAssetService(gdb)
	records := service.NewMaintenanceService(gdb)

	existing, err := assets.List(user.ID)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, item := range demoAssets(today) {
		asset, err := assets.Create(user.ID, service.AssetInput{
			Name:        item.name,
			Description: item.description,
			Importance:  item.importance,
		})
		if err != nil {
			return 0, fmt.Errorf("create asset %q: %w", item.name, err)
		}
		for _, patch := range item.records {
			if _, err := records.Create(user.ID, asset.ID, patch); err != nil {
				return 0, fmt.Errorf("create record for %q: %w", item.name, err)
			}
		}
	}
	return len(demoAssets(today)), nil
}

func demoAssets(today time.Time) []seedAsset {
	day := func(offset int) string {
		return maintenance.DateOf(today).AddDate(0, 0, offset).Format(maintenance.DateLayout)
	}

	return []seedAsset{
		{
			name:        "Family car",
			description: "Hatchback, daily commute",
			importance:  5,
			records: []maintenance.Patch{
				{
					Service:     maintenance.Some("Annual inspection"),
					NextDueDate: maintenance.Some(day(-2)),
				},
				{
					Service:      maintenance.Some("Oil change"),
					Description:  maintenance.Some("Use **5W30** synthetic oil"),
					PerformedAt:  maintenance.Some(day(-120)),
					UsageLimit:   maintenance.Some(60000.0),
					UsageCurrent: maintenance.Some(58500.0),
					UsageUnit:    maintenance.Some(string(maintenance.UnitDistance)),
				},
			},
		},
		{
			name:        "Generator",
			description: "Backup power",
			importance:  4,
			records: []maintenance.Patch{
				{
					Service:      maintenance.Some("Spark plug"),
					UsageLimit:   maintenance.Some(200.0),
					UsageCurrent: maintenance.Some(165.0),
					UsageUnit:    maintenance.Some(string(maintenance.UnitHours)),
				},
				{
					Service:     maintenance.Some("Fuel filter"),
					PerformedAt: maintenance.Some(day(-30)),
					Status:      maintenance.Some(string(maintenance.StatusCompleted)),
				},
			},
		},
		{
			name:        "Espresso machine",
			description: "Office kitchen",
			importance:  2,
			records: []maintenance.Patch{
				{
					Service:     maintenance.Some("Descaling"),
					NextDueDate: maintenance.Some(day(5)),
				},
				{
					Service:      maintenance.Some("Gasket"),
					UsageLimit:   maintenance.Some(3000.0),
					UsageCurrent: maintenance.Some(3100.0),
					UsageUnit:    maintenance.Some(string(maintenance.UnitCycles)),
				},
			},
		},
	}
}
