package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromLookupDefaults(t *testing.T) {
	cfg := FromLookup(func(string) string { return "" })

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "assetlog.db", cfg.DatabasePath)
	assert.Equal(t, 864000, cfg.SessionMaxAge)
	assert.Equal(t, 10, cfg.DashboardLimit)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSAllowOrigins)
}

func TestFromLookupOverrides(t *testing.T) {
	env := map[string]string{
		"PORT":               "9000",
		"DATABASE_DRIVER":    "Postgres",
		"DATABASE_DSN":       "host=db user=app",
		"DASHBOARD_LIMIT":    "25",
		"SESSION_MAX_AGE":    "-4",
		"CORS_ALLOW_ORIGINS": " https://a.example , ,https://b.example",
	}
	cfg := FromLookup(func(k string) string { return env[k] })

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "host=db user=app", cfg.DatabaseDSN)
	assert.Equal(t, 25, cfg.DashboardLimit)
	assert.Equal(t, 864000, cfg.SessionMaxAge, "invalid values fall back to the default")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestFromLookupUnknownDriverFallsBackToSQLite(t *testing.T) {
	cfg := FromLookup(func(k string) string {
		if k == "DATABASE_DRIVER" {
			return "oracle"
		}
		return ""
	})
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
}
