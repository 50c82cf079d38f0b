package game

import (
	"math"

	"github.com/playmatatu/chaospool/internal/physics"
)

// Stepper advances the world in fixed sub-steps and injects hazard forces
// around each engine step.
type Stepper struct {
	reg     *Registry
	hazards *Hazards
	pockets []Pocket

	// cooldowns maps a ball to the sub-steps left before it may warp again.
	cooldowns map[BallID]int
}

func NewStepper(reg *Registry, hazards *Hazards, pockets []Pocket) *Stepper {
	return &Stepper{
		reg:       reg,
		hazards:   hazards,
		pockets:   pockets,
		cooldowns: make(map[BallID]int),
	}
}

// SubStepsFor returns the number of sub-steps in one rendered frame.
// Fast-forward adds sub-steps; it never changes their duration.
func SubStepsFor(fastForward bool) int {
	if fastForward {
		return FastForwardSubStep
	}
	return SubSteps
}

// Integrate runs one frame worth of sub-steps and returns how many ran.
func (s *Stepper) Integrate(fastForward bool) int {
	n := SubStepsFor(fastForward)
	for i := 0; i < n; i++ {
		s.SubStep()
	}
	return n
}

// SubStep is one engine step followed by portal, cooldown, zone and pocket
// suction handling, in that order.
func (s *Stepper) SubStep() {
	s.reg.Engine().Step(SubStepDt)

	balls := s.reg.Balls()
	s.warp(balls)
	s.decayCooldowns()
	s.applyZones(balls)
	s.applySuction(balls)
}

// FrameEnd clamps speeds and applies the per-frame decay after n sub-steps.
// The friction coefficient is applied twice: once spread over the sub-step
// count and once more at the fixed nominal rate.
func (s *Stepper) FrameEnd(n int) {
	perSubStep := math.Pow(Friction, 1/float64(n))
	perFrame := math.Pow(Friction, 1.0/SubSteps)

	for _, b := range s.reg.Balls() {
		v := s.reg.Velocity(b)
		if v.Magnitude() > MaxSpeed {
			v = v.Normalize().Times(MaxSpeed)
		}
		v = v.Times(perSubStep)

		v = v.Times(perFrame)
		w := s.reg.AngularVelocity(b) * AngularDecay
		if v.Magnitude() < HardStopSpeed {
			v = physics.Vec2{}
			w = 0
		}
		s.reg.SetVelocity(b, v)
		s.reg.SetAngularVelocity(b, w)
	}
}

// AtRest reports whether every ball is below the rest speed.
func (s *Stepper) AtRest() bool {
	for _, b := range s.reg.Balls() {
		if s.reg.Velocity(b).Magnitude() >= RestSpeed {
			return false
		}
	}
	return true
}

// ClearCooldowns drops every warp cooldown.
func (s *Stepper) ClearCooldowns() {
	s.cooldowns = make(map[BallID]int)
}

// Cooldown returns the remaining warp cooldown for a ball.
func (s *Stepper) Cooldown(id BallID) int {
	return s.cooldowns[id]
}

func (s *Stepper) warp(balls []*Ball) {
	portals := s.hazards.Portals
	if !portals.Active {
		return
	}
	ends := [2]physics.Vec2{portals.A, portals.B}

	for _, b := range balls {
		for i, end := range ends {
			if _, cooling := s.cooldowns[b.ID]; cooling {
				break
			}
			pos := s.reg.Position(b)
			if pos.DistanceTo(end) >= PortalCaptureRadius {
				continue
			}

			dir := physics.NewVec2(1, 0)
			if v := s.reg.Velocity(b); v.Magnitude() >= PortalStillSpeed {
				dir = v.Normalize()
			}
			s.reg.SetPosition(b, ends[1-i].Plus(dir.Times(PortalEjectOffset)))
			s.cooldowns[b.ID] = PortalCooldownSteps
		}
	}
}

func (s *Stepper) decayCooldowns() {
	for id, left := range s.cooldowns {
		left--
		if left <= 0 {
			delete(s.cooldowns, id)
			continue
		}
		s.cooldowns[id] = left
	}
}

// applyZones scales velocity for balls inside mud or ice. Mud wins when a ball
// is inside both.
func (s *Stepper) applyZones(balls []*Ball) {
	mud, ice := s.hazards.Mud, s.hazards.Ice
	if mud.Empty() && ice.Empty() {
		return
	}
	for _, b := range balls {
		pos := s.reg.Position(b)
		switch {
		case mud.Contains(pos):
			s.reg.SetVelocity(b, s.reg.Velocity(b).Times(MudDrag))
		case ice.Contains(pos):
			if v := s.reg.Velocity(b); v.Magnitude() > IceMinSpeed {
				s.reg.SetVelocity(b, v.Times(IceBoost))
			}
		}
	}
}

// applySuction pulls balls near a pocket toward its center. It runs every
// sub-step, independent of capture detection.
func (s *Stepper) applySuction(balls []*Ball) {
	engine := s.reg.Engine()
	for _, b := range balls {
		pos := s.reg.Position(b)
		for _, p := range s.pockets {
			d := p.Position.Minus(pos)
			if d.Magnitude() < PocketSuctionRadius {
				engine.ApplyForce(b.Body, d.Normalize().Times(PocketSuctionForce), pos)
			}
		}
	}
}
