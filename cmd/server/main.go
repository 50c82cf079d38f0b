package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/playmatatu/chaospool/internal/api"
	"github.com/playmatatu/chaospool/internal/bestscore"
	"github.com/playmatatu/chaospool/internal/config"
	"github.com/playmatatu/chaospool/internal/database"
	"github.com/playmatatu/chaospool/internal/middleware"
	"github.com/playmatatu/chaospool/internal/migrations"
	"github.com/playmatatu/chaospool/internal/redis"
	"github.com/playmatatu/chaospool/internal/ws"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)
	ctx := context.Background()

	// The database backs the postgres best-score store and the audit log.
	// Without the postgres backend it is optional.
	var db *sqlx.DB
	if cfg.MigrateOnStart {
		log.Info("[MIGRATE] Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}
	if conn, err := database.Connect(ctx, cfg.DatabaseURL); err != nil {
		if cfg.BestScoreBackend == config.BackendPostgres {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		log.Warnf("[DB] database unavailable, audit log disabled: %v", err)
	} else {
		db = conn
		defer db.Close()
	}

	// Redis backs the redis best-score store and cross-node table events.
	var rdb *goredis.Client
	if conn, err := redis.Connect(ctx, cfg.RedisURL); err != nil {
		if cfg.BestScoreBackend == config.BackendRedis {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Warnf("[REDIS] redis unavailable, table events stay local: %v", err)
	} else {
		rdb = conn
		defer rdb.Close()
	}

	store, err := bestscore.Open(cfg, db, rdb)
	if err != nil {
		log.Fatalf("Failed to open best score store: %v", err)
	}
	keeper := bestscore.NewKeeper(store)
	defer keeper.Close()
	log.Infof("[SCORE] best score backend=%s best=%d", cfg.BestScoreBackend, keeper.Best())

	tables := &ws.Server{
		Hub:       ws.NewHub(),
		Keeper:    keeper,
		Publisher: ws.NopPublisher{},
		FrameRate: cfg.FrameRate,
	}
	if rdb != nil {
		tables.Publisher = ws.NewRedisPublisher(rdb, cfg.TableEventsChannel)
		ws.StartTableEventSubscriber(ctx, rdb, cfg.TableEventsChannel, keeper.HandleTableEvent)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg))
	api.SetupRoutes(router, db, cfg, keeper, tables)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Infof("Starting Chaos Pool server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
