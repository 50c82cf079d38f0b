// Command simulate plays Chaos Pool tables headlessly with a seeded bot and
// records the best score through the configured backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/playmatatu/chaospool/internal/bestscore"
	"github.com/playmatatu/chaospool/internal/config"
	"github.com/playmatatu/chaospool/internal/database"
	"github.com/playmatatu/chaospool/internal/game"
	"github.com/playmatatu/chaospool/internal/physics"
	"github.com/playmatatu/chaospool/internal/redis"
)

const (
	solverIterations = 10
	// settleFrames bounds the wait for one shot to come to rest.
	settleFrames = 60 * 120
)

type options struct {
	seed     int64
	shots    int
	jitter   float64
	power    float64
	fast     bool
	settings game.Settings
}

type report struct {
	Seed    int64
	Shots   int
	Score   int
	Best    int
	Frames  uint64
	Elapsed float64
	Outcome game.Outcome
}

func main() {
	cfg := config.Load()

	var opts options
	var runs int
	flag.Int64Var(&opts.seed, "seed", 42, "RNG seed for run 1; later runs add 1")
	flag.IntVar(&runs, "runs", 1, "number of tables to play")
	flag.IntVar(&opts.shots, "shots", 40, "shot budget per table")
	flag.Float64Var(&opts.jitter, "jitter", 0.05, "aim noise in radians")
	flag.Float64Var(&opts.power, "power", 0.6, "base shot power in [0,1]")
	flag.BoolVar(&opts.fast, "fast", true, "run with fast-forward on")
	flag.BoolVar(&opts.settings.Zones, "zones", cfg.EnableZones, "enable mud and ice zones")
	flag.BoolVar(&opts.settings.Portals, "portals", cfg.EnablePortals, "enable portals")
	flag.BoolVar(&opts.settings.Bumpers, "bumpers", cfg.EnableBumpers, "enable bumpers")
	flag.Parse()

	if runs <= 0 || opts.shots <= 0 {
		fmt.Println("error: -runs and -shots must be > 0")
		os.Exit(2)
	}

	keeper, closeFn, err := openKeeper(cfg)
	if err != nil {
		log.Fatalf("Failed to open best score store: %v", err)
	}
	defer closeFn()

	fmt.Printf("=== Chaos Pool simulation ===\n")
	fmt.Printf("runs=%d shots=%d seed=%d zones=%t portals=%t bumpers=%t\n\n",
		runs, opts.shots, opts.seed, opts.settings.Zones, opts.settings.Portals, opts.settings.Bumpers)

	base := opts.seed
	for i := 0; i < runs; i++ {
		opts.seed = base + int64(i)
		r := run(physics.NewSpace(solverIterations), opts, keeper)
		fmt.Printf("run %d seed=%d shots=%d score=%d best=%d outcome=%s %s elapsed=%.1fs frames=%d\n",
			i+1, r.Seed, r.Shots, r.Score, r.Best, r.Outcome.Status, r.Outcome.Reason, r.Elapsed, r.Frames)
	}
}

// openKeeper connects only what cfg.BestScoreBackend needs.
func openKeeper(cfg *config.Config) (*bestscore.Keeper, func(), error) {
	ctx := context.Background()
	var db *sqlx.DB
	var rdb *goredis.Client
	closeFn := func() {
		if db != nil {
			db.Close()
		}
		if rdb != nil {
			rdb.Close()
		}
	}

	var err error
	switch cfg.BestScoreBackend {
	case config.BackendPostgres:
		db, err = database.Connect(ctx, cfg.DatabaseURL)
	case config.BackendRedis:
		rdb, err = redis.Connect(ctx, cfg.RedisURL)
	}
	if err != nil {
		return nil, closeFn, err
	}

	store, err := bestscore.Open(cfg, db, rdb)
	if err != nil {
		closeFn()
		return nil, func() {}, err
	}
	keeper := bestscore.NewKeeper(store)
	return keeper, func() {
		keeper.Close()
		closeFn()
	}, nil
}

// run plays one table until it ends or the shot budget is spent.
func run(engine physics.Engine, opts options, keeper game.BestScoreKeeper) report {
	s := game.NewSession(engine, opts.seed, opts.settings, keeper)
	rng := rand.New(rand.NewSource(opts.seed))

	if opts.fast {
		s.Frame([]game.Event{{Kind: game.EventFastForward, On: true}})
	}

	for s.Shots() < opts.shots && !s.Outcome().Over() {
		if !playShot(s, rng, opts) {
			break
		}
		for i := 0; i < settleFrames && s.Turn().Phase() != game.PhaseAimingFree && !s.Outcome().Over(); i++ {
			s.Frame(nil)
		}
		log.WithFields(log.Fields{
			"seed":  opts.seed,
			"shot":  s.Shots(),
			"score": s.Score(),
			"left":  s.Registry().Count(game.BallSolid, game.BallStripe, game.BallBlack),
		}).Debug("[SIM] shot settled")
	}

	return report{
		Seed:    opts.seed,
		Shots:   s.Shots(),
		Score:   s.Score(),
		Best:    s.Best(),
		Frames:  s.Frames(),
		Elapsed: s.Elapsed(),
		Outcome: s.Outcome(),
	}
}

// playShot aims at the nearest object ball, with noise, and fires. It
// reports false if the session refused the shot.
func playShot(s *game.Session, rng *rand.Rand, opts options) bool {
	reg := s.Registry()
	cue, ok := reg.Cue()
	if !ok {
		return false
	}
	from := reg.Position(cue)

	angle := rng.Float64() * 2 * math.Pi
	best := math.Inf(1)
	for _, b := range reg.Balls() {
		if b.Type == game.BallCue {
			continue
		}
		// Leave the black for last.
		if b.Type == game.BallBlack && reg.Count(game.BallSolid, game.BallStripe) > 0 {
			continue
		}
		d := reg.Position(b).Minus(from)
		if m := d.Magnitude(); m < best {
			best = m
			angle = d.Angle()
		}
	}
	angle += (rng.Float64()*2 - 1) * opts.jitter

	aim := from.Plus(physics.FromAngle(angle))
	power := math.Max(game.MinShotPower+0.05, math.Min(1, opts.power+(rng.Float64()-0.5)*0.3))
	powerPos := physics.NewVec2(game.PowerRegionX+game.PowerRegionW/2, game.PowerRegionY+power*game.PowerRegionH)

	s.Frame([]game.Event{{Kind: game.EventPointer, Pos: aim}})
	s.Frame([]game.Event{{Kind: game.EventPress, Pos: aim}})
	res := s.Frame([]game.Event{
		{Kind: game.EventPress, Pos: powerPos},
		{Kind: game.EventRelease},
	})
	return res.Shot != nil
}
