package physics

import (
	"github.com/jakecoffman/cp"
)

type entry struct {
	body  *cp.Body
	shape *cp.Shape
	// ownsBody is false for segments attached to the space's static body.
	ownsBody bool
}

// Space is an Engine backed by a Chipmunk2D space with zero gravity.
type Space struct {
	space      *cp.Space
	bodies     map[BodyID]*entry
	nextID     BodyID
	iterations uint
}

// NewSpace creates an empty top-down space. iterations controls the contact
// solver; zero selects the Chipmunk default.
func NewSpace(iterations uint) *Space {
	s := &Space{iterations: iterations}
	s.Reset()
	return s
}

func (s *Space) Reset() {
	space := cp.NewSpace()
	if s.iterations > 0 {
		space.Iterations = s.iterations
	}
	space.SetGravity(cp.Vector{})
	s.space = space
	s.bodies = make(map[BodyID]*entry)
}

func (s *Space) AddCircle(def CircleDef) BodyID {
	var body *cp.Body
	if def.Static {
		body = cp.NewStaticBody()
	} else {
		mass := def.Mass
		if mass <= 0 {
			mass = 1
		}
		body = cp.NewBody(mass, cp.MomentForCircle(mass, 0, def.Radius, cp.Vector{}))
	}
	body.SetPosition(toCP(def.Position))
	s.space.AddBody(body)

	shape := cp.NewCircle(body, def.Radius, cp.Vector{})
	applyMaterial(shape, def.Material, def.Category)
	s.space.AddShape(shape)

	return s.track(&entry{body: body, shape: shape, ownsBody: true})
}

func (s *Space) AddSegment(def SegmentDef) BodyID {
	shape := cp.NewSegment(s.space.StaticBody, toCP(def.A), toCP(def.B), def.Radius)
	applyMaterial(shape, def.Material, def.Category)
	s.space.AddShape(shape)

	return s.track(&entry{body: s.space.StaticBody, shape: shape})
}

func (s *Space) Remove(id BodyID) {
	e, ok := s.bodies[id]
	if !ok {
		return
	}
	s.space.RemoveShape(e.shape)
	if e.ownsBody {
		s.space.RemoveBody(e.body)
	}
	delete(s.bodies, id)
}

func (s *Space) Position(id BodyID) Vec2 {
	if e, ok := s.bodies[id]; ok {
		return fromCP(e.body.Position())
	}
	return Vec2{}
}

func (s *Space) SetPosition(id BodyID, p Vec2) {
	e, ok := s.bodies[id]
	if !ok || !e.ownsBody {
		return
	}
	// cp only refreshes a shape's cached bounds and index entry on Step.
	// Re-adding the shape makes queries see the new position right away.
	s.space.RemoveShape(e.shape)
	e.body.SetPosition(toCP(p))
	s.space.AddShape(e.shape)
}

func (s *Space) Velocity(id BodyID) Vec2 {
	if e, ok := s.bodies[id]; ok {
		return fromCP(e.body.Velocity())
	}
	return Vec2{}
}

func (s *Space) SetVelocity(id BodyID, v Vec2) {
	if e, ok := s.bodies[id]; ok && e.ownsBody {
		e.body.SetVelocity(v.X, v.Y)
	}
}

func (s *Space) AngularVelocity(id BodyID) float64 {
	if e, ok := s.bodies[id]; ok {
		return e.body.AngularVelocity()
	}
	return 0
}

func (s *Space) SetAngularVelocity(id BodyID, w float64) {
	if e, ok := s.bodies[id]; ok && e.ownsBody {
		e.body.SetAngularVelocity(w)
	}
}

func (s *Space) ApplyImpulse(id BodyID, impulse, point Vec2) {
	if e, ok := s.bodies[id]; ok && e.ownsBody {
		e.body.ApplyImpulseAtWorldPoint(toCP(impulse), toCP(point))
	}
}

func (s *Space) ApplyForce(id BodyID, force, point Vec2) {
	if e, ok := s.bodies[id]; ok && e.ownsBody {
		e.body.ApplyForceAtWorldPoint(toCP(force), toCP(point))
	}
}

func (s *Space) Nearest(p Vec2, maxDistance float64, mask Category) (BodyID, bool) {
	info := s.space.PointQueryNearest(toCP(p), maxDistance, queryFilter(mask))
	if info == nil || info.Shape == nil {
		return 0, false
	}
	id, ok := info.Shape.UserData.(BodyID)
	return id, ok
}

func (s *Space) RayFirst(start, end Vec2, radius float64, mask Category) (RayHit, bool) {
	info := s.space.SegmentQueryFirst(toCP(start), toCP(end), radius, queryFilter(mask))
	if info.Shape == nil {
		return RayHit{}, false
	}
	id, ok := info.Shape.UserData.(BodyID)
	if !ok {
		return RayHit{}, false
	}
	return RayHit{
		Body:    id,
		Point:   fromCP(info.Point),
		Normal:  fromCP(info.Normal),
		Alpha:   info.Alpha,
		Dynamic: info.Shape.Body().GetType() == cp.BODY_DYNAMIC,
	}, true
}

func (s *Space) Step(dt float64) {
	s.space.Step(dt)
}

func (s *Space) track(e *entry) BodyID {
	s.nextID++
	id := s.nextID
	e.shape.UserData = id
	if e.ownsBody {
		e.body.UserData = id
	}
	s.bodies[id] = e
	return id
}

func applyMaterial(shape *cp.Shape, m Material, cat Category) {
	shape.SetElasticity(m.Elasticity)
	shape.SetFriction(m.Friction)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(cat), cp.ALL_CATEGORIES))
}

func queryFilter(mask Category) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
}

func toCP(v Vec2) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func fromCP(v cp.Vector) Vec2 {
	return Vec2{X: v.X, Y: v.Y}
}
