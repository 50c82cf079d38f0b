package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/playmatatu/chaospool/internal/game"
	"github.com/playmatatu/chaospool/internal/models"
	"github.com/playmatatu/chaospool/internal/physics"
)

const (
	inputBuffer      = 128
	solverIterations = 10
)

// TableSpec describes the table a connection is allowed to play, as carried
// by its table token.
type TableSpec struct {
	ID       string
	Seed     int64
	Settings game.Settings
}

// TableRunner drives one game.Session on a fixed frame clock. Input events
// queue between frames and are applied in arrival order at the start of the
// next frame.
type TableRunner struct {
	spec      TableSpec
	session   *game.Session
	events    chan game.Event
	emit      func([]byte) bool
	publisher Publisher
	interval  time.Duration

	// pointer is the last pointer position seen; presses without a
	// position use it.
	pointer physics.Vec2
}

// NewTableRunner builds a runner for spec. emit receives every outgoing
// message; publisher may be nil.
func NewTableRunner(spec TableSpec, engine physics.Engine, keeper game.BestScoreKeeper, publisher Publisher, frameRate int, emit func([]byte) bool) *TableRunner {
	if frameRate <= 0 {
		frameRate = 60
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &TableRunner{
		spec:      spec,
		session:   game.NewSession(engine, spec.Seed, spec.Settings, keeper),
		events:    make(chan game.Event, inputBuffer),
		emit:      emit,
		publisher: publisher,
		interval:  time.Second / time.Duration(frameRate),
	}
}

// Session exposes the underlying session. Only safe to touch from the
// goroutine that calls Tick.
func (r *TableRunner) Session() *game.Session { return r.session }

// Submit queues ev for the next frame. It reports false when the queue is
// full.
func (r *TableRunner) Submit(ev game.Event) bool {
	select {
	case r.events <- ev:
		return true
	default:
		return false
	}
}

// Run ticks the table until ctx is cancelled.
func (r *TableRunner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.send("snapshot", r.session.Snapshot())
	for {
		select {
		case <-ctx.Done():
			log.Debugf("[TABLE] runner for %s stopped", r.spec.ID)
			return
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick advances the table by one frame and emits its snapshot.
func (r *TableRunner) Tick(ctx context.Context) game.FrameResult {
	res := r.session.Frame(r.drain())

	if res.Shot != nil {
		r.send("shot", res.Shot)
	}
	if len(res.Captures.Captures) > 0 {
		r.send("captures", res.Captures)
	}
	r.send("snapshot", r.session.Snapshot())

	if res.Ended {
		ev := r.tableEvent()
		r.send("game_over", ev)
		if err := r.publisher.Publish(ctx, ev); err != nil {
			log.Warnf("[TABLE] failed to publish outcome for %s: %v", r.spec.ID, err)
		}
	}
	return res
}

func (r *TableRunner) drain() []game.Event {
	var events []game.Event
	for {
		select {
		case ev := <-r.events:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func (r *TableRunner) tableEvent() models.TableEvent {
	out := r.session.Outcome()
	return models.TableEvent{
		TableID: r.spec.ID,
		Status:  string(out.Status),
		Reason:  out.Reason,
		Score:   r.session.Score(),
		Best:    r.session.Best(),
		Shots:   r.session.Shots(),
		Elapsed: r.session.Elapsed(),
		EndedAt: time.Now().UTC(),
	}
}

func (r *TableRunner) send(msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("[TABLE] failed to encode %s for %s: %v", msgType, r.spec.ID, err)
		return
	}
	out, _ := json.Marshal(WSMessage{Type: msgType, Data: data})
	r.emit(out)
}

type pointerData struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type fastForwardData struct {
	On bool `json:"on"`
}

var errUnknownMessage = errors.New("unknown message type")

// Decode converts a client message into a table event.
func (r *TableRunner) Decode(msg WSMessage) (game.Event, error) {
	switch game.EventKind(msg.Type) {
	case game.EventPointer, game.EventPress:
		ev := game.Event{Kind: game.EventKind(msg.Type), Pos: r.pointer}
		if len(msg.Data) > 0 {
			var p pointerData
			if err := json.Unmarshal(msg.Data, &p); err != nil {
				return game.Event{}, fmt.Errorf("invalid %s payload", msg.Type)
			}
			if p.X != nil && p.Y != nil {
				ev.Pos = physics.NewVec2(*p.X, *p.Y)
			} else if ev.Kind == game.EventPointer {
				return game.Event{}, errors.New("pointer requires x and y")
			}
		} else if ev.Kind == game.EventPointer {
			return game.Event{}, errors.New("pointer requires x and y")
		}
		r.pointer = ev.Pos
		return ev, nil

	case game.EventRelease:
		return game.Event{Kind: game.EventRelease}, nil

	case game.EventFastForward:
		var ff fastForwardData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &ff); err != nil {
				return game.Event{}, errors.New("invalid fast_forward payload")
			}
		}
		return game.Event{Kind: game.EventFastForward, On: ff.On}, nil

	case game.EventRestart:
		ev := game.Event{Kind: game.EventRestart}
		if len(msg.Data) > 0 {
			var s game.Settings
			if err := json.Unmarshal(msg.Data, &s); err != nil {
				return game.Event{}, errors.New("invalid restart payload")
			}
			ev.Settings = &s
		}
		return ev, nil
	}
	return game.Event{}, fmt.Errorf("%w: %q", errUnknownMessage, msg.Type)
}

// Server upgrades table connections and runs one TableRunner per connection.
type Server struct {
	Hub       *Hub
	Keeper    game.BestScoreKeeper
	Publisher Publisher
	FrameRate int
}

// ServeTable upgrades the request and starts playing spec on it. It returns
// once the connection's goroutines are running.
func (s *Server) ServeTable(w http.ResponseWriter, r *http.Request, spec TableSpec) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("websocket upgrade: %w", err)
	}

	client := &Client{
		conn:    conn,
		tableID: spec.ID,
		send:    make(chan []byte, sendBuffer),
		hub:     s.Hub,
		done:    make(chan struct{}),
	}
	client.runner = NewTableRunner(spec, physics.NewSpace(solverIterations), s.Keeper, s.Publisher, s.FrameRate, client.enqueue)
	s.Hub.Register(client)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-client.done
		cancel()
	}()

	log.Infof("[TABLE] table %s started (seed=%d zones=%t portals=%t bumpers=%t)",
		spec.ID, spec.Seed, spec.Settings.Zones, spec.Settings.Portals, spec.Settings.Bumpers)

	go client.writePump()
	go client.readPump()
	go client.runner.Run(ctx)
	return nil
}
