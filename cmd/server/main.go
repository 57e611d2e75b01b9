package main

import (
	"log"

	"github.com/assetlog/internal/config"
	"github.com/assetlog/internal/db"
	"github.com/assetlog/internal/logger"
	"github.com/assetlog/internal/router"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg); err != nil {
		appLog.Fatal("failed to initialize database", "error", err, "driver", cfg.DatabaseDriver)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(cfg, db.DB, appLog)
	appLog.Info("server starting", "addr", cfg.ListenAddr, "driver", cfg.DatabaseDriver)
	if err := r.Run(cfg.ListenAddr); err != nil {
		appLog.Fatal("failed to run server", "error", err)
	}
}
