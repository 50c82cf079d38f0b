package handlers

import (
	"crypto/rand"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/playmatatu/chaospool/internal/config"
	"github.com/playmatatu/chaospool/internal/game"
	"github.com/playmatatu/chaospool/internal/ws"
)

// maxSeed keeps seeds exact through the float64 JSON numbers in a token.
const maxSeed = 1 << 53

type createTableRequest struct {
	Zones   *bool  `json:"zones"`
	Portals *bool  `json:"portals"`
	Bumpers *bool  `json:"bumpers"`
	Seed    *int64 `json:"seed"`
}

// CreateTable allocates a table id and seed and returns the token needed to
// play it. Hazard families not named in the body use the server defaults.
func CreateTable(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTableRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
		}

		settings := game.Settings{
			Zones:   pick(req.Zones, cfg.EnableZones),
			Portals: pick(req.Portals, cfg.EnablePortals),
			Bumpers: pick(req.Bumpers, cfg.EnableBumpers),
		}

		var seed int64
		if req.Seed != nil {
			if *req.Seed < 0 || *req.Seed >= maxSeed {
				c.JSON(http.StatusBadRequest, gin.H{"error": "seed out of range"})
				return
			}
			seed = *req.Seed
		} else {
			n, err := rand.Int(rand.Reader, big.NewInt(maxSeed))
			if err != nil {
				log.Errorf("[TABLE] failed to generate seed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			seed = n.Int64()
		}

		spec := ws.TableSpec{ID: uuid.NewString(), Seed: seed, Settings: settings}
		ttl := time.Duration(cfg.TableTokenMinutes) * time.Minute
		token, expiresAt, err := IssueTableToken(cfg.JWTSecret, spec, ttl, time.Now())
		if err != nil {
			log.Errorf("[TABLE] failed to issue token for %s: %v", spec.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"table_id":   spec.ID,
			"seed":       spec.Seed,
			"settings":   settings,
			"token":      token,
			"expires_at": expiresAt.UTC().Format(time.RFC3339),
			"ws_path":    "/api/v1/tables/ws?token=" + token,
		})
	}
}

func pick(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
