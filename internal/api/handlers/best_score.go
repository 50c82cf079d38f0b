package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"github.com/playmatatu/chaospool/internal/admin"
	"github.com/playmatatu/chaospool/internal/bestscore"
	"github.com/playmatatu/chaospool/internal/config"
	"github.com/playmatatu/chaospool/internal/models"
	"github.com/playmatatu/chaospool/internal/ws"
)

const adminTokenHeader = "X-Admin-Token"

// GetBestScore returns the stored best score.
func GetBestScore(keeper *bestscore.Keeper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"best": keeper.Refresh()})
	}
}

// ResetBestScore zeroes the best score. Requires the admin token; every
// attempt is audited when a database is configured. A successful reset is
// announced through publisher so other nodes drop their cached best.
func ResetBestScore(cfg *config.Config, db *sqlx.DB, keeper *bestscore.Keeper, publisher ws.Publisher) gin.HandlerFunc {
	if publisher == nil {
		publisher = ws.NopPublisher{}
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !admin.VerifyAdminToken(cfg.AdminTokenHash, c.GetHeader(adminTokenHeader)) {
			log.Warnf("[ADMIN] rejected best score reset from %s", ip)
			audit(db, cfg.BestScoreKey, ip, keeper.Best(), map[string]interface{}{"reason": "bad token"}, false)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		previous, err := keeper.Reset(c.Request.Context())
		if err != nil {
			log.Errorf("[ADMIN] best score reset failed: %v", err)
			audit(db, cfg.BestScoreKey, ip, previous, map[string]interface{}{"error": err.Error()}, false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset best score"})
			return
		}

		log.Infof("[ADMIN] best score reset by %s (was %d)", ip, previous)
		ev := models.TableEvent{Status: models.TableEventBestReset, Best: 0, EndedAt: time.Now().UTC()}
		if err := publisher.Publish(c.Request.Context(), ev); err != nil {
			log.Warnf("[ADMIN] best score reset not announced: %v", err)
		}
		audit(db, cfg.BestScoreKey, ip, previous, map[string]interface{}{"backend": cfg.BestScoreBackend}, true)
		c.JSON(http.StatusOK, gin.H{"best": 0, "previous": previous})
	}
}

// GetScoreAudit returns paginated audit entries.
func GetScoreAudit(cfg *config.Config, db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !admin.VerifyAdminToken(cfg.AdminTokenHash, c.GetHeader(adminTokenHeader)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if db == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "audit log not configured"})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if limit <= 0 || limit > 200 {
			limit = 25
		}
		if offset < 0 {
			offset = 0
		}

		logs, err := admin.GetScoreAuditLogs(db, limit, offset)
		if err != nil {
			log.Errorf("[ADMIN] Failed to fetch audit logs: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": logs, "limit": limit, "offset": offset})
	}
}

func audit(db *sqlx.DB, key, ip string, previous int, details map[string]interface{}, success bool) {
	if db == nil {
		return
	}
	admin.LogScoreAction(db, key, ip, admin.ActionResetBestScore, previous, details, success)
}
