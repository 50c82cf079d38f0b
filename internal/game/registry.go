package game

import (
	"sort"

	"github.com/playmatatu/chaospool/internal/physics"
)

// BallType classifies a ball for scoring. It travels with the ball record,
// never inferred from the physics shape.
type BallType int

const (
	BallCue BallType = iota
	BallSolid
	BallStripe
	BallBlack
)

func (t BallType) String() string {
	switch t {
	case BallCue:
		return "CUE"
	case BallSolid:
		return "SOLID"
	case BallStripe:
		return "STRIPE"
	case BallBlack:
		return "BLACK"
	}
	return "UNKNOWN"
}

// IsObject reports whether t is a Solid or Stripe ball.
func (t BallType) IsObject() bool {
	return t == BallSolid || t == BallStripe
}

// BallID is a stable ball identity, independent of engine body handles.
type BallID int

// Color is an RGB ball color for presentation.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Ball is the side-table record for a dynamic body.
type Ball struct {
	ID     BallID         `json:"id"`
	Number int            `json:"number"`
	Type   BallType       `json:"type"`
	Color  Color          `json:"color"`
	Body   physics.BodyID `json:"-"`
}

// ObstacleKind distinguishes static geometry.
type ObstacleKind string

const (
	ObstacleRail   ObstacleKind = "RAIL"
	ObstacleBumper ObstacleKind = "BUMPER"
)

// Obstacle is static non-scoring geometry known to the engine.
type Obstacle struct {
	Kind ObstacleKind   `json:"kind"`
	Body physics.BodyID `json:"-"`
	// A and B are the segment ends for rails; A is the center for bumpers.
	A      physics.Vec2 `json:"a"`
	B      physics.Vec2 `json:"b"`
	Radius float64      `json:"radius"`
}

// Registry owns every ball and obstacle body in the engine. Spawning and
// removing mutate the engine immediately.
type Registry struct {
	engine    physics.Engine
	balls     map[BallID]*Ball
	obstacles []Obstacle
	nextID    BallID
}

func NewRegistry(engine physics.Engine) *Registry {
	return &Registry{
		engine: engine,
		balls:  make(map[BallID]*Ball),
	}
}

// Engine exposes the engine the registry writes to.
func (r *Registry) Engine() physics.Engine {
	return r.engine
}

// SpawnBall creates a dynamic ball body at pos and records its type.
func (r *Registry) SpawnBall(pos physics.Vec2, typ BallType, number int, color Color) *Ball {
	body := r.engine.AddCircle(physics.CircleDef{
		Position: pos,
		Radius:   BallRadius,
		Mass:     BallMass,
		Material: physics.Material{Elasticity: BallElasticity, Friction: BallFriction},
		Category: physics.CategoryBall,
	})
	r.nextID++
	b := &Ball{ID: r.nextID, Number: number, Type: typ, Color: color, Body: body}
	r.balls[b.ID] = b
	return b
}

// RemoveBall destroys the ball's body. Unknown ids are ignored.
func (r *Registry) RemoveBall(id BallID) {
	b, ok := r.balls[id]
	if !ok {
		return
	}
	r.engine.Remove(b.Body)
	delete(r.balls, id)
}

// Ball looks up a ball by id.
func (r *Registry) Ball(id BallID) (*Ball, bool) {
	b, ok := r.balls[id]
	return b, ok
}

// Balls returns all dynamic bodies in id order.
func (r *Registry) Balls() []*Ball {
	out := make([]*Ball, 0, len(r.balls))
	for _, b := range r.balls {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Cue returns the cue ball, if racked.
func (r *Registry) Cue() (*Ball, bool) {
	for _, b := range r.balls {
		if b.Type == BallCue {
			return b, true
		}
	}
	return nil, false
}

// Count returns how many balls of the given types are in play.
func (r *Registry) Count(types ...BallType) int {
	n := 0
	for _, b := range r.balls {
		for _, t := range types {
			if b.Type == t {
				n++
				break
			}
		}
	}
	return n
}

// AddRail creates a static rail segment.
func (r *Registry) AddRail(a, b physics.Vec2, radius float64) Obstacle {
	body := r.engine.AddSegment(physics.SegmentDef{
		A:        a,
		B:        b,
		Radius:   radius,
		Material: physics.Material{Elasticity: RailElasticity, Friction: RailFriction},
		Category: physics.CategoryRail,
	})
	o := Obstacle{Kind: ObstacleRail, Body: body, A: a, B: b, Radius: radius}
	r.obstacles = append(r.obstacles, o)
	return o
}

// AddBumper creates a static, energy-gaining circular bumper.
func (r *Registry) AddBumper(center physics.Vec2) Obstacle {
	body := r.engine.AddCircle(physics.CircleDef{
		Position: center,
		Radius:   BumperRadius,
		Static:   true,
		Material: physics.Material{Elasticity: BumperElasticity, Friction: BumperFriction},
		Category: physics.CategoryBumper,
	})
	o := Obstacle{Kind: ObstacleBumper, Body: body, A: center, Radius: BumperRadius}
	r.obstacles = append(r.obstacles, o)
	return o
}

// ClearBumpers removes every bumper, keeping rails.
func (r *Registry) ClearBumpers() {
	kept := r.obstacles[:0]
	for _, o := range r.obstacles {
		if o.Kind == ObstacleBumper {
			r.engine.Remove(o.Body)
			continue
		}
		kept = append(kept, o)
	}
	r.obstacles = kept
}

// Obstacles returns a copy of the static geometry list.
func (r *Registry) Obstacles() []Obstacle {
	out := make([]Obstacle, len(r.obstacles))
	copy(out, r.obstacles)
	return out
}

// Bumpers returns only the bumper obstacles.
func (r *Registry) Bumpers() []Obstacle {
	var out []Obstacle
	for _, o := range r.obstacles {
		if o.Kind == ObstacleBumper {
			out = append(out, o)
		}
	}
	return out
}

// Position, Velocity and friends read through to the engine by ball id.

func (r *Registry) Position(b *Ball) physics.Vec2 {
	return r.engine.Position(b.Body)
}

func (r *Registry) Velocity(b *Ball) physics.Vec2 {
	return r.engine.Velocity(b.Body)
}

func (r *Registry) SetPosition(b *Ball, p physics.Vec2) {
	r.engine.SetPosition(b.Body, p)
}

func (r *Registry) SetVelocity(b *Ball, v physics.Vec2) {
	r.engine.SetVelocity(b.Body, v)
}

func (r *Registry) AngularVelocity(b *Ball) float64 {
	return r.engine.AngularVelocity(b.Body)
}

func (r *Registry) SetAngularVelocity(b *Ball, w float64) {
	r.engine.SetAngularVelocity(b.Body, w)
}
