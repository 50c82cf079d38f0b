package game

import (
	"math"

	"github.com/playmatatu/chaospool/internal/physics"
)

type fakeBody struct {
	pos, vel physics.Vec2
	w        float64
	force    physics.Vec2
	mass     float64
	radius   float64
	static   bool
	segment  bool
	a, b     physics.Vec2
	category physics.Category
}

// fakeEngine integrates velocities and forces without contacts. It records
// every force so hazard tests can see what the stepper pushed.
type fakeEngine struct {
	bodies map[physics.BodyID]*fakeBody
	next   physics.BodyID
	steps  int
	forces []physics.Vec2
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{bodies: make(map[physics.BodyID]*fakeBody)}
}

func (f *fakeEngine) add(b *fakeBody) physics.BodyID {
	f.next++
	f.bodies[f.next] = b
	return f.next
}

func (f *fakeEngine) AddCircle(def physics.CircleDef) physics.BodyID {
	return f.add(&fakeBody{
		pos:      def.Position,
		mass:     def.Mass,
		radius:   def.Radius,
		static:   def.Static,
		category: def.Category,
	})
}

func (f *fakeEngine) AddSegment(def physics.SegmentDef) physics.BodyID {
	return f.add(&fakeBody{
		radius:   def.Radius,
		static:   true,
		segment:  true,
		a:        def.A,
		b:        def.B,
		category: def.Category,
	})
}

func (f *fakeEngine) Remove(id physics.BodyID) { delete(f.bodies, id) }

func (f *fakeEngine) Position(id physics.BodyID) physics.Vec2 { return f.bodies[id].pos }
func (f *fakeEngine) SetPosition(id physics.BodyID, p physics.Vec2) { f.bodies[id].pos = p }
func (f *fakeEngine) Velocity(id physics.BodyID) physics.Vec2 { return f.bodies[id].vel }
func (f *fakeEngine) SetVelocity(id physics.BodyID, v physics.Vec2) { f.bodies[id].vel = v }
func (f *fakeEngine) AngularVelocity(id physics.BodyID) float64 { return f.bodies[id].w }
func (f *fakeEngine) SetAngularVelocity(id physics.BodyID, w float64) { f.bodies[id].w = w }

func (f *fakeEngine) ApplyImpulse(id physics.BodyID, impulse, _ physics.Vec2) {
	b := f.bodies[id]
	b.vel = b.vel.Plus(impulse.Times(1 / b.mass))
}

func (f *fakeEngine) ApplyForce(id physics.BodyID, force, _ physics.Vec2) {
	b := f.bodies[id]
	b.force = b.force.Plus(force)
	f.forces = append(f.forces, force)
}

func (f *fakeEngine) Nearest(p physics.Vec2, maxDistance float64, mask physics.Category) (physics.BodyID, bool) {
	best, found := physics.BodyID(0), false
	bestDist := math.Inf(1)
	for id, b := range f.bodies {
		if b.category&mask == 0 {
			continue
		}
		var d float64
		if b.segment {
			d = segmentDistance(p, b.a, b.b) - b.radius
		} else {
			d = p.DistanceTo(b.pos) - b.radius
		}
		if d <= maxDistance && d < bestDist {
			best, bestDist, found = id, d, true
		}
	}
	return best, found
}

func (f *fakeEngine) RayFirst(start, end physics.Vec2, radius float64, mask physics.Category) (physics.RayHit, bool) {
	return physics.RayHit{}, false
}

func (f *fakeEngine) Step(dt float64) {
	f.steps++
	for _, b := range f.bodies {
		if b.static {
			continue
		}
		b.vel = b.vel.Plus(b.force.Times(dt / b.mass))
		b.pos = b.pos.Plus(b.vel.Times(dt))
		b.force = physics.Vec2{}
	}
}

func (f *fakeEngine) Reset() {
	f.bodies = make(map[physics.BodyID]*fakeBody)
	f.forces = nil
	f.steps = 0
}

func segmentDistance(p, a, b physics.Vec2) float64 {
	ab := b.Minus(a)
	t := 0.0
	if l := ab.MagnitudeSquared(); l > 0 {
		t = math.Max(0, math.Min(1, p.Minus(a).Dot(ab)/l))
	}
	return p.DistanceTo(a.Plus(ab.Times(t)))
}

// newFakeTable returns an empty registry with rails on a fake engine.
func newFakeTable() (*fakeEngine, *Registry) {
	eng := newFakeEngine()
	reg := NewRegistry(eng)
	for _, seg := range railSegments() {
		reg.AddRail(seg[0], seg[1], RailThickness)
	}
	return eng, reg
}

type memoryKeeper struct {
	best    int
	submits []int
}

func (k *memoryKeeper) Best() int { return k.best }

func (k *memoryKeeper) Submit(score int) int {
	k.submits = append(k.submits, score)
	if score > k.best {
		k.best = score
	}
	return k.best
}
