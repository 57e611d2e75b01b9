package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
// It is built once in main and handed to collaborators; nothing below main
// reads the process environment.
type AppConfig struct {
	ListenAddr       string
	Port             string
	DatabaseDriver   string
	DatabasePath     string
	DatabaseDSN      string
	SessionSecret    string
	SessionMaxAge    int
	GinMode          string
	LogMode          string
	CORSAllowOrigins []string
	DashboardLimit   int
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultDashboardLimit = 10
)

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func Load() AppConfig {
	_ = godotenv.Load()
	return FromLookup(os.Getenv)
}

// FromLookup builds the config from an arbitrary key lookup.
func FromLookup(getenv func(string) string) AppConfig {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	port := get("PORT", "8080")

	driver := strings.ToLower(get("DATABASE_DRIVER", DriverSQLite))
	if driver != DriverPostgres {
		driver = DriverSQLite
	}

	origins := splitList(get("CORS_ALLOW_ORIGINS", ""))
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	return AppConfig{
		ListenAddr:       get("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		Port:             port,
		DatabaseDriver:   driver,
		DatabasePath:     get("DATABASE_PATH", "assetlog.db"),
		DatabaseDSN:      get("DATABASE_DSN", ""),
		SessionSecret:    get("SESSION_SECRET", "assetlog-dev-secret"),
		SessionMaxAge:    positiveInt(get("SESSION_MAX_AGE", ""), 10*24*60*60),
		GinMode:          get("GIN_MODE", "release"),
		LogMode:          get("LOG_MODE", "development"),
		CORSAllowOrigins: origins,
		DashboardLimit:   positiveInt(get("DASHBOARD_LIMIT", ""), DefaultDashboardLimit),
	}
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
