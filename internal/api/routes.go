package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"github.com/playmatatu/chaospool/internal/api/handlers"
	"github.com/playmatatu/chaospool/internal/bestscore"
	"github.com/playmatatu/chaospool/internal/config"
	"github.com/playmatatu/chaospool/internal/middleware"
	"github.com/playmatatu/chaospool/internal/ws"
)

// SetupRoutes configures all API routes. db may be nil when no database is
// configured; the audit endpoints then report not found.
func SetupRoutes(router *gin.Engine, db *sqlx.DB, cfg *config.Config, keeper *bestscore.Keeper, tables *ws.Server) {
	if !cfg.IsProduction() {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Info("[DEV MODE] no-cache headers enabled for all routes")
	}

	router.GET("/health", handlers.HealthCheck(tables.Hub))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(tables.Hub))

		t := v1.Group("/tables")
		{
			t.POST("", handlers.CreateTable(cfg))
			t.GET("/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleTableWebSocket(cfg, tables))
		}

		score := v1.Group("/best-score")
		{
			score.GET("", handlers.GetBestScore(keeper))
			score.DELETE("", handlers.ResetBestScore(cfg, db, keeper, tables.Publisher))
			score.GET("/audit", handlers.GetScoreAudit(cfg, db))
		}
	}
}
