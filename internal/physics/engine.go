// Package physics defines the narrow rigid-body contract the pool core consumes
// and a Chipmunk2D-backed implementation of it.
package physics

// BodyID identifies a body created by an Engine. Zero is never a valid id.
type BodyID uint64

// Category is a collision/query category bit set.
type Category uint

const (
	CategoryRail   Category = 0b001
	CategoryBall   Category = 0b010
	CategoryBumper Category = 0b100

	CategoryAll Category = ^Category(0)
)

// Material holds per-shape contact coefficients.
type Material struct {
	Elasticity float64
	Friction   float64
}

// CircleDef describes a circle body to create.
type CircleDef struct {
	Position Vec2
	Radius   float64
	Mass     float64 // ignored for static bodies
	Static   bool
	Material Material
	Category Category
}

// SegmentDef describes a static segment with rounded ends of the given radius.
type SegmentDef struct {
	A, B     Vec2
	Radius   float64
	Material Material
	Category Category
}

// RayHit is the first shape hit by a segment query.
type RayHit struct {
	Body   BodyID
	Point  Vec2
	Normal Vec2
	// Alpha is the normalized distance along the query segment.
	Alpha   float64
	Dynamic bool
}

// Engine is everything the simulation core needs from a 2D rigid-body solver:
// circle/segment bodies, impulse and force application, state access, spatial
// queries with category filtering and fixed-duration stepping.
//
// Implementations are not required to be safe for concurrent use.
type Engine interface {
	AddCircle(def CircleDef) BodyID
	AddSegment(def SegmentDef) BodyID
	Remove(id BodyID)

	Position(id BodyID) Vec2
	SetPosition(id BodyID, p Vec2)
	Velocity(id BodyID) Vec2
	SetVelocity(id BodyID, v Vec2)
	AngularVelocity(id BodyID) float64
	SetAngularVelocity(id BodyID, w float64)

	ApplyImpulse(id BodyID, impulse, point Vec2)
	ApplyForce(id BodyID, force, point Vec2)

	// Nearest returns the closest body whose shape lies within maxDistance of p
	// and whose category intersects mask.
	Nearest(p Vec2, maxDistance float64, mask Category) (BodyID, bool)
	// RayFirst returns the first shape hit by a segment from start to end swept
	// with the given radius.
	RayFirst(start, end Vec2, radius float64, mask Category) (RayHit, bool)

	Step(dt float64)
	// Reset destroys every body and starts from an empty world.
	Reset()
}
