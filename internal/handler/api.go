package handler

import (
	"time"

	"github.com/assetlog/internal/config"
	"github.com/assetlog/internal/logger"
	"github.com/assetlog/internal/service"
	"gorm.io/gorm"
)

const (
	maxWorklistLimit = 50
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db             *gorm.DB
	users          *service.UserService
	assets         *service.AssetService
	records        *service.MaintenanceService
	dashboard      *service.DashboardService
	log            *logger.Logger
	dashboardLimit int
	now            func() time.Time
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig, log *logger.Logger) *API {
	if log == nil {
		log = logger.Nop()
	}
	limit := cfg.DashboardLimit
	if limit <= 0 {
		limit = config.DefaultDashboardLimit
	}

	return &API{
		db:             gdb,
		users:          service.NewUserService(gdb),
		assets:         service.NewAssetService(gdb),
		records:        service.NewMaintenanceService(gdb),
		dashboard:      service.NewDashboardService(gdb),
		log:            log,
		dashboardLimit: limit,
		now:            time.Now,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
