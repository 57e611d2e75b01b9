package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/assetlog/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init 初始化数据库连接并执行自动迁移。
func Init(cfg config.AppConfig) error {
	gdb, err := Open(cfg)
	if err != nil {
		return err
	}
	if err := Migrate(gdb); err != nil {
		return err
	}
	DB = gdb
	return nil
}

// Open connects to postgres when configured, otherwise to a sqlite file.
func Open(cfg config.AppConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	if cfg.DatabaseDriver == config.DriverPostgres {
		dsn := strings.TrimSpace(cfg.DatabaseDSN)
		if dsn == "" {
			return nil, errors.New("DATABASE_DSN is required for the postgres driver")
		}
		return gorm.Open(postgres.Open(dsn), gormCfg)
	}

	path := strings.TrimSpace(cfg.DatabasePath)
	if path == "" {
		path = "assetlog.db"
	}
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	// sqlite only enforces ON DELETE CASCADE with foreign keys switched on
	return gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), gormCfg)
}

// Migrate creates or updates the schema for every model.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&User{},
		&Asset{},
		&MaintenanceRecord{},
	)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
