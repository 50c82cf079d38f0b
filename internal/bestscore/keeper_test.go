package bestscore

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmatatu/chaospool/internal/config"
	"github.com/playmatatu/chaospool/internal/game"
	"github.com/playmatatu/chaospool/internal/models"
	"github.com/playmatatu/chaospool/internal/physics"
)

type brokenStore struct{ saves atomic.Int32 }

func (s *brokenStore) Load(context.Context) (int, error) {
	return 0, persistenceError("load", errors.New("disk gone"))
}

func (s *brokenStore) Save(context.Context, int) error {
	s.saves.Add(1)
	return persistenceError("save", errors.New("disk gone"))
}

// slowStore answers every call after delay, like a backend over a bad link.
type slowStore struct {
	delay time.Duration
	mu    sync.Mutex
	score int
	saves int
}

func (s *slowStore) Load(ctx context.Context) (int, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score, nil
}

func (s *slowStore) Save(ctx context.Context, score int) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.score = score
	s.saves++
	return nil
}

func (s *slowStore) stored() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score, s.saves
}

func (s *slowStore) wait(ctx context.Context) error {
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return persistenceError("wait", ctx.Err())
	}
}

func TestKeeperSubmitOnlyRaises(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "best"))
	k := NewKeeper(store)
	defer k.Close()
	assert.Zero(t, k.Best())

	assert.Equal(t, 400, k.Submit(400))
	assert.Equal(t, 400, k.Submit(-50))
	assert.Equal(t, 400, k.Submit(400))
	k.Flush()

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 400, stored)
}

func TestKeeperSeesOtherWriters(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "best"))
	k := NewKeeper(store)
	defer k.Close()
	require.NoError(t, store.Save(context.Background(), 900))

	// The write is skipped because the store already holds more.
	assert.Equal(t, 500, k.Submit(500))
	k.Flush()
	assert.Equal(t, 900, k.Best())
	stored, _ := store.Load(context.Background())
	assert.Equal(t, 900, stored)
	assert.Equal(t, 900, k.Refresh())
}

func TestKeeperRefreshTrustsStore(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "best"))
	k := NewKeeper(store)
	defer k.Close()
	k.Submit(700)
	k.Flush()

	// Another node reset the shared best.
	require.NoError(t, store.Save(context.Background(), 0))

	assert.Zero(t, k.Refresh())
	assert.Equal(t, 300, k.Submit(300))
	k.Flush()
	stored, _ := store.Load(context.Background())
	assert.Equal(t, 300, stored)
}

func TestKeeperHandleTableEvent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "best"))
	k := NewKeeper(store)
	defer k.Close()
	k.Submit(1000)
	k.Flush()

	require.NoError(t, store.Save(context.Background(), 0))
	k.HandleTableEvent(models.TableEvent{TableID: "t-1", Status: "LOST", Best: 1000})
	assert.Equal(t, 1000, k.Best(), "a lower or equal best is ignored")

	k.HandleTableEvent(models.TableEvent{Status: models.TableEventBestReset})
	assert.Zero(t, k.Best())

	require.NoError(t, store.Save(context.Background(), 1500))
	k.HandleTableEvent(models.TableEvent{TableID: "t-2", Status: "WON", Best: 1500})
	assert.Equal(t, 1500, k.Best())
}

func TestKeeperDegradesOnStoreFailure(t *testing.T) {
	store := &brokenStore{}
	k := NewKeeper(store)
	defer k.Close()

	assert.Zero(t, k.Best())
	assert.Equal(t, 300, k.Submit(300))
	assert.Eventually(t, func() bool { return store.saves.Load() >= 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 300, k.Best())
	assert.Equal(t, 300, k.Refresh())
}

func TestKeeperSubmitDoesNotWaitForStore(t *testing.T) {
	store := &slowStore{delay: 200 * time.Millisecond}
	k := NewKeeper(store)
	defer k.Close()

	frame := time.Second / 60
	for _, score := range []int{100, 250, 600} {
		start := time.Now()
		assert.Equal(t, score, k.Submit(score))
		assert.Less(t, time.Since(start), frame)
	}

	k.Close()
	score, saves := store.stored()
	assert.Equal(t, 600, score)
	assert.LessOrEqual(t, saves, 3)
}

func TestSessionFrameDoesNotWaitForStore(t *testing.T) {
	store := &slowStore{delay: 300 * time.Millisecond}
	k := NewKeeper(store)
	defer k.Close()

	s := game.NewSession(physics.NewSpace(10), 1, game.Settings{}, k)
	reg := s.Registry()
	var black *game.Ball
	for _, b := range reg.Balls() {
		switch b.Type {
		case game.BallSolid, game.BallStripe:
			reg.RemoveBall(b.ID)
		case game.BallBlack:
			black = b
		}
	}
	require.NotNil(t, black)
	// Clear of both rails, inside the corner pocket capture radius.
	reg.SetPosition(black, game.StandardPockets()[2].Position.Plus(physics.NewVec2(-20, 20)))

	start := time.Now()
	res := s.Frame(nil)
	took := time.Since(start)

	require.True(t, res.Ended)
	assert.Less(t, took, time.Second/60)
	assert.Equal(t, game.ScoreBlackBall, s.Best())

	k.Flush()
	score, _ := store.stored()
	assert.Equal(t, game.ScoreBlackBall, score)
}

func TestKeeperReset(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "best"))
	k := NewKeeper(store)
	defer k.Close()
	k.Submit(1200)

	previous, err := k.Reset(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1200, previous)
	assert.Zero(t, k.Best())
	k.Flush()
	stored, _ := store.Load(context.Background())
	assert.Zero(t, stored)
}

func TestOpen(t *testing.T) {
	cfg := &config.Config{BestScoreBackend: config.BackendFile, BestScorePath: filepath.Join(t.TempDir(), "best")}
	store, err := Open(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	cfg.BestScoreBackend = config.BackendRedis
	_, err = Open(cfg, nil, nil)
	assert.Error(t, err)

	cfg.BestScoreBackend = config.BackendPostgres
	_, err = Open(cfg, nil, nil)
	assert.Error(t, err)

	cfg.BestScoreBackend = "s3"
	_, err = Open(cfg, nil, nil)
	assert.Error(t, err)
}
