package service

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/assetlog/internal/db"
	"github.com/assetlog/internal/maintenance"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "open test db")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb), "migrate test db")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, email string) *db.User {
	t.Helper()
	user, err := db.EnsureUser(gdb, "Tester", email, "secret123")
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func seedAsset(t *testing.T, gdb *gorm.DB, userID uint, name string, importance int) *db.Asset {
	t.Helper()
	asset, err := NewAssetService(gdb).Create(userID, AssetInput{Name: name, Importance: importance})
	require.NoError(t, err)
	return asset
}

func patchOf(t *testing.T, raw string) maintenance.Patch {
	t.Helper()
	var patch maintenance.Patch
	require.NoError(t, json.Unmarshal([]byte(raw), &patch))
	return patch
}
