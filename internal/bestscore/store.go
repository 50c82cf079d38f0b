// Package bestscore persists the single best-score value shared by every
// table.
package bestscore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/playmatatu/chaospool/internal/config"
)

// ErrPersistence wraps every store read or write failure.
var ErrPersistence = errors.New("best score persistence failed")

// Store loads and saves one integer. A store with nothing saved yet loads 0.
type Store interface {
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, score int) error
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

// Open picks the store named by cfg.BestScoreBackend. db and rdb may be nil
// when their backend is not selected.
func Open(cfg *config.Config, db *sqlx.DB, rdb *redis.Client) (Store, error) {
	switch cfg.BestScoreBackend {
	case config.BackendFile, "":
		return NewFileStore(cfg.BestScorePath), nil
	case config.BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis backend selected without a redis client")
		}
		return NewRedisStore(rdb, cfg.BestScoreKey), nil
	case config.BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres backend selected without a database")
		}
		return NewPostgresStore(db, cfg.BestScoreKey), nil
	}
	return nil, fmt.Errorf("unknown best score backend %q", cfg.BestScoreBackend)
}
