// Command seed-admin hashes the admin token used to reset the best score and
// prints the ADMIN_TOKEN_HASH line for the server environment.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/playmatatu/chaospool/internal/admin"
	"github.com/playmatatu/chaospool/internal/config"
)

func main() {
	cfg := config.Load()

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		adminToken = "change-me-in-production"
		log.Warn("Using default admin token. Set ADMIN_TOKEN env var in production!")
	}

	if cfg.AdminTokenHash != "" {
		if admin.VerifyAdminToken(cfg.AdminTokenHash, adminToken) {
			log.Info("ADMIN_TOKEN already matches the configured ADMIN_TOKEN_HASH")
			return
		}
		log.Warn("ADMIN_TOKEN does not match the configured ADMIN_TOKEN_HASH; printing a new hash")
	}

	hash, err := admin.HashAdminToken(adminToken)
	if err != nil {
		log.Fatalf("Failed to hash admin token: %v", err)
	}

	fmt.Printf("ADMIN_TOKEN_HASH=%s\n", hash)
	log.Info("Send it as the X-Admin-Token header to DELETE /api/v1/best-score")
}
