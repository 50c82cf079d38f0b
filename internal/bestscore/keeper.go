package bestscore

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/playmatatu/chaospool/internal/models"
)

const storeTimeout = 2 * time.Second

// Keeper fronts a Store for the game core. Submit never touches the store: a
// new best is cached and handed to a background writer, so table loops never
// wait on I/O. Store failures are logged and never surface: a failed read
// counts as 0 and a failed write keeps the new best in memory. Safe for
// concurrent use by many tables.
type Keeper struct {
	mu    sync.Mutex
	store Store
	best  int
	// unsaved is a best not yet confirmed by the store, 0 when none.
	unsaved int

	// writeMu serializes store access by the writer, Refresh and Reset.
	writeMu sync.Mutex
	wake    chan struct{}
	quit    chan struct{}
	done    chan struct{}
	stop    sync.Once
}

// NewKeeper reads the stored best once up front and starts the writer.
func NewKeeper(store Store) *Keeper {
	k := &Keeper{
		store: store,
		wake:  make(chan struct{}, 1),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	if best, err := k.load(); err == nil {
		k.best = best
	}
	go k.run()
	return k
}

// Best returns the last known best score.
func (k *Keeper) Best() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.best
}

// Refresh re-reads the store and trusts it, so a reset or a higher best from
// another node shows up here. A best still waiting for the writer is kept. On
// a read failure the cached best stays.
func (k *Keeper) Refresh() int {
	k.writeMu.Lock()
	defer k.writeMu.Unlock()
	stored, err := k.load()

	k.mu.Lock()
	defer k.mu.Unlock()
	if err != nil {
		return k.best
	}
	k.best = stored
	if k.unsaved > k.best {
		k.best = k.unsaved
	}
	return k.best
}

// Submit records score if it beats the cached best and returns the best after
// the call. The store write happens later on the writer goroutine.
func (k *Keeper) Submit(score int) int {
	k.mu.Lock()
	defer k.mu.Unlock()

	if score <= k.best {
		return k.best
	}
	k.best = score
	k.unsaved = score
	select {
	case k.wake <- struct{}{}:
	default:
	}
	return k.best
}

// Flush writes any best still waiting for the store. It blocks on store I/O.
func (k *Keeper) Flush() {
	k.writeMu.Lock()
	defer k.writeMu.Unlock()

	k.mu.Lock()
	score := k.unsaved
	k.mu.Unlock()
	if score == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	// Another node may already hold a higher best.
	if stored, err := k.store.Load(ctx); err == nil && stored >= score {
		k.settle(score, stored)
		return
	}
	if err := k.store.Save(ctx, score); err != nil {
		log.Warnf("[SCORE] keeping best %d in memory: %v", score, err)
		return
	}
	log.Infof("[SCORE] new best score %d", score)
	k.settle(score, score)
}

// Close flushes the last pending best and stops the writer.
func (k *Keeper) Close() {
	k.stop.Do(func() { close(k.quit) })
	<-k.done
}

// Reset zeroes the stored best and returns the value it replaced. A best
// submitted while the reset was in flight survives it.
func (k *Keeper) Reset(ctx context.Context) (int, error) {
	k.writeMu.Lock()
	defer k.writeMu.Unlock()

	k.mu.Lock()
	previous, pending := k.best, k.unsaved
	k.mu.Unlock()

	if err := k.store.Save(ctx, 0); err != nil {
		return previous, err
	}

	k.mu.Lock()
	if k.unsaved == pending {
		k.unsaved = 0
	}
	k.best = k.unsaved
	k.mu.Unlock()
	return previous, nil
}

// HandleTableEvent keeps the cached best in step with other nodes: a higher
// best or a reset makes the keeper re-read the store.
func (k *Keeper) HandleTableEvent(ev models.TableEvent) {
	if ev.Status == models.TableEventBestReset || ev.Best > k.Best() {
		k.Refresh()
	}
}

func (k *Keeper) run() {
	defer close(k.done)
	for {
		select {
		case <-k.wake:
			k.Flush()
		case <-k.quit:
			k.Flush()
			return
		}
	}
}

// settle records that the store now holds stored, which covers saved.
func (k *Keeper) settle(saved, stored int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.unsaved == saved {
		k.unsaved = 0
	}
	if stored > k.best {
		k.best = stored
	}
}

func (k *Keeper) load() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	score, err := k.store.Load(ctx)
	if err != nil {
		log.Warnf("[SCORE] best score unavailable: %v", err)
		return 0, err
	}
	return score, nil
}
