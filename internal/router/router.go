package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/assetlog/internal/config"
	"github.com/assetlog/internal/handler"
	"github.com/assetlog/internal/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const sessionName = "assetlog_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig, gdb *gorm.DB, log *logger.Logger) *gin.Engine {
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   strings.EqualFold(cfg.GinMode, gin.ReleaseMode),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := handler.NewAPI(gdb, cfg, log)

	public := r.Group("/api")
	{
		public.POST("/users", api.Register)
		public.POST("/login", api.Login)
	}

	auth := r.Group("/api")
	auth.Use(handler.AuthRequired())
	{
		auth.PUT("/users", api.UpdateAccount)
		auth.DELETE("/users", api.DeleteAccount)
		auth.GET("/login/check", api.LoginCheck)
		auth.POST("/logout", api.Logout)

		auth.GET("/assets", api.ListAssets)
		auth.POST("/assets", api.CreateAsset)
		auth.GET("/assets/:id", api.GetAsset)
		auth.PUT("/assets/:id", api.UpdateAsset)
		auth.DELETE("/assets/:id", api.DeleteAsset)

		auth.GET("/assets/:id/maintenances", api.ListMaintenances)
		auth.POST("/assets/:id/maintenances", api.CreateMaintenance)
		auth.GET("/assets/:id/maintenances/:maintenanceId", api.GetMaintenance)
		auth.PUT("/assets/:id/maintenances/:maintenanceId", api.UpdateMaintenance)
		auth.DELETE("/assets/:id/maintenances/:maintenanceId", api.DeleteMaintenance)

		auth.GET("/dashboard/worklist", api.Worklist)
	}

	return r
}
