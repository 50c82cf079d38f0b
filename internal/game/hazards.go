package game

import (
	"math/rand"

	log "github.com/sirupsen/logrus"

	"github.com/playmatatu/chaospool/internal/physics"
)

// Settings toggles each hazard family for a table session.
type Settings struct {
	Zones   bool `json:"zones"`
	Portals bool `json:"portals"`
	Bumpers bool `json:"bumpers"`
}

// AllHazards enables every hazard family.
func AllHazards() Settings {
	return Settings{Zones: true, Portals: true, Bumpers: true}
}

// Rect is an axis-aligned rectangle. The zero Rect contains nothing.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether p lies inside r, left/top edges inclusive.
func (r Rect) Contains(p physics.Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Overlaps reports whether r and o share interior area. Touching edges do not
// count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Portals is the warp pair. Inactive portals never capture.
type Portals struct {
	A      physics.Vec2 `json:"a"`
	B      physics.Vec2 `json:"b"`
	Active bool         `json:"active"`
}

// Hazards holds the procedurally placed table hazards and places them into
// free table space by bounded rejection sampling.
type Hazards struct {
	Settings Settings
	Mud      Rect
	Ice      Rect
	Portals  Portals

	reg     *Registry
	pockets []Pocket
	rng     *rand.Rand
}

func NewHazards(reg *Registry, pockets []Pocket, rng *rand.Rand, settings Settings) *Hazards {
	return &Hazards{
		Settings: settings,
		reg:      reg,
		pockets:  pockets,
		rng:      rng,
	}
}

// Regenerate re-rolls every enabled hazard for a new rest-cycle. Bumpers go
// first so portals can keep clear of them.
func (h *Hazards) Regenerate() {
	h.PlaceBumpers()
	h.PlacePortals()
	h.PlaceZones()
}

// PlaceBumpers replaces the bumpers and returns how many were placed. A bumper
// whose attempt budget runs out is skipped.
func (h *Hazards) PlaceBumpers() int {
	if !h.Settings.Bumpers {
		return 0
	}
	h.reg.ClearBumpers()

	engine := h.reg.Engine()
	placed := 0
	for i := 0; i < BumperCount; i++ {
		pos, err := sample(PlacementAttempts,
			func() physics.Vec2 {
				return physics.NewVec2(
					h.randBetween(TableLeft+BumperMargin, TableRight-BumperMargin),
					h.randBetween(TableTop+BumperMargin, TableBottom-BumperMargin),
				)
			},
			func(p physics.Vec2) bool {
				_, hit := engine.Nearest(p, BumperClearance, physics.CategoryAll)
				return !hit
			},
		)
		if err != nil {
			log.Debugf("[HAZARD] bumper %d skipped: %v", i, err)
			continue
		}
		h.reg.AddBumper(pos)
		placed++
	}
	return placed
}

// PlaceZones drops the ice and mud rectangles. If they overlap, mud is shifted
// once and the result is accepted as is.
func (h *Hazards) PlaceZones() {
	if !h.Settings.Zones {
		return
	}
	h.Ice = h.randomZone()
	h.Mud = h.randomZone()
	if h.Ice.Overlaps(h.Mud) {
		h.Mud.X += ZoneMudShift
	}
}

// PlacePortals positions both warp endpoints, falling back to the table center
// for an endpoint with no clear spot.
func (h *Hazards) PlacePortals() {
	if !h.Settings.Portals {
		return
	}
	h.Portals = Portals{A: h.portalPosition(), B: h.portalPosition(), Active: true}
}

// Clear removes every hazard from the table.
func (h *Hazards) Clear() {
	h.reg.ClearBumpers()
	h.Mud = Rect{}
	h.Ice = Rect{}
	h.Portals = Portals{}
}

func (h *Hazards) randomZone() Rect {
	return Rect{
		X: h.randBetween(TableLeft+ZoneInsetLeft, TableRight-ZoneInsetRight),
		Y: h.randBetween(TableTop+ZoneInsetTop, TableBottom-ZoneInsetBot),
		W: ZoneWidth,
		H: ZoneHeight,
	}
}

func (h *Hazards) portalPosition() physics.Vec2 {
	balls := h.reg.Balls()
	bumpers := h.reg.Bumpers()

	pos, err := sample(PlacementAttempts,
		func() physics.Vec2 {
			return physics.NewVec2(
				h.randBetween(TableLeft+PortalMargin, TableRight-PortalMargin),
				h.randBetween(TableTop+PortalMargin, TableBottom-PortalMargin),
			)
		},
		func(p physics.Vec2) bool {
			for _, b := range balls {
				if p.DistanceTo(h.reg.Position(b)) <= PortalBallClearance {
					return false
				}
			}
			for _, o := range bumpers {
				if p.DistanceTo(o.A) <= PortalHazardClearance {
					return false
				}
			}
			for _, pk := range h.pockets {
				if p.DistanceTo(pk.Position) <= PortalHazardClearance {
					return false
				}
			}
			return true
		},
	)
	if err != nil {
		log.Debugf("[HAZARD] portal falls back to table center: %v", err)
		return physics.NewVec2(TableCX, TableCY)
	}
	return pos
}

// randBetween draws an integer-valued coordinate in [lo, hi].
func (h *Hazards) randBetween(lo, hi float64) float64 {
	return lo + float64(h.rng.Intn(int(hi-lo)+1))
}

// sample draws up to attempts candidates from gen and returns the first one
// accepted by ok.
func sample(attempts int, gen func() physics.Vec2, ok func(physics.Vec2) bool) (physics.Vec2, error) {
	for i := 0; i < attempts; i++ {
		p := gen()
		if ok(p) {
			return p, nil
		}
	}
	return physics.Vec2{}, ErrPlacementExhausted
}
