package bestscore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/playmatatu/chaospool/internal/models"
)

// PostgresStore keeps the best score as one row of best_scores.
type PostgresStore struct {
	db  *sqlx.DB
	key string
}

func NewPostgresStore(db *sqlx.DB, key string) *PostgresStore {
	return &PostgresStore{db: db, key: key}
}

func (s *PostgresStore) Load(ctx context.Context) (int, error) {
	var row models.BestScore
	err := s.db.GetContext(ctx, &row, `SELECT score_key, score, updated_at FROM best_scores WHERE score_key=$1`, s.key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, persistenceError("select best score", err)
	}
	return row.Score, nil
}

func (s *PostgresStore) Save(ctx context.Context, score int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO best_scores (score_key, score, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (score_key) DO UPDATE SET
			score = EXCLUDED.score,
			updated_at = NOW()
	`, s.key, score)
	if err != nil {
		return persistenceError("upsert best score", err)
	}
	return nil
}
