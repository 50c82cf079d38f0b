package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/playmatatu/chaospool/internal/config"
	"github.com/playmatatu/chaospool/internal/ws"
)

// HandleTableWebSocket opens the real-time channel for the table named by the
// token query parameter.
func HandleTableWebSocket(cfg *config.Config, srv *ws.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		spec, err := ParseTableToken(cfg.JWTSecret, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		if err := srv.ServeTable(c.Writer, c.Request, spec); err != nil {
			// The upgrader has already written the HTTP error.
			log.Warnf("[WS] table %s: %v", spec.ID, err)
		}
	}
}
