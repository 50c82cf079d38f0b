package admin

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/playmatatu/chaospool/internal/models"
)

// Audit actions.
const (
	ActionResetBestScore = "reset_best_score"
)

// VerifyAdminToken checks if the provided token matches the stored hash
func VerifyAdminToken(hashedToken, plainToken string) bool {
	if hashedToken == "" || plainToken == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(plainToken))
	return err == nil
}

// HashAdminToken produces the value to put in ADMIN_TOKEN_HASH.
func HashAdminToken(plainToken string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hashed), nil
}

// LogScoreAction records an admin action on a best score in the audit log
func LogScoreAction(db *sqlx.DB, key, ip, action string, previous int, details map[string]interface{}, success bool) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		log.Warnf("[ADMIN] Failed to marshal audit details: %v", err)
		detailsJSON = []byte("{}")
	}

	_, err = db.Exec(`
		INSERT INTO score_audit (score_key, ip, action, previous_score, details, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, key, ip, action, previous, detailsJSON, success)

	if err != nil {
		log.Errorf("[ADMIN] Failed to log score action: %v", err)
	}

	return err
}

// GetScoreAuditLogs retrieves recent audit entries with pagination
func GetScoreAuditLogs(db *sqlx.DB, limit, offset int) ([]models.ScoreAudit, error) {
	var logs []models.ScoreAudit
	query := `
		SELECT id, score_key, ip, action, previous_score, details, success, created_at
		FROM score_audit
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	err := db.Select(&logs, query, limit, offset)
	return logs, err
}
