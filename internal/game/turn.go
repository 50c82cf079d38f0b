package game

import (
	"math"

	"github.com/playmatatu/chaospool/internal/physics"
)

// Phase is the turn state.
type Phase string

const (
	PhaseAimingFree   Phase = "AIMING_FREE"
	PhaseAimingLocked Phase = "AIMING_LOCKED"
	PhaseCharging     Phase = "CHARGING"
	PhaseSettling     Phase = "SETTLING"
)

// PowerRegion is the power-control strip beside the table.
var PowerRegion = Rect{X: PowerRegionX, Y: PowerRegionY, W: PowerRegionW, H: PowerRegionH}

// OnTable reports whether a pointer position counts as a press on the table.
func OnTable(p physics.Vec2) bool {
	return p.X < TableInputWidth
}

// PowerAt maps a pointer to a power fraction by its height in the power
// region, clamped to [0, 1].
func PowerAt(p physics.Vec2) float64 {
	y := math.Max(PowerRegion.Y, math.Min(p.Y, PowerRegion.Y+PowerRegion.H))
	return (y - PowerRegion.Y) / PowerRegion.H
}

// Shot is a released stroke.
type Shot struct {
	Angle   float64      `json:"angle"`
	Power   float64      `json:"power"`
	Impulse physics.Vec2 `json:"impulse"`
}

// Turn gates player input: aim, lock, charge, release, settle.
type Turn struct {
	phase Phase
	angle float64
	power float64
}

func NewTurn() *Turn {
	return &Turn{phase: PhaseAimingFree}
}

func (t *Turn) Phase() Phase { return t.phase }
func (t *Turn) Angle() float64 { return t.angle }
func (t *Turn) Power() float64 { return t.power }
func (t *Turn) Locked() bool { return t.phase == PhaseAimingLocked || t.phase == PhaseCharging }
func (t *Turn) Settling() bool { return t.phase == PhaseSettling }
func (t *Turn) Charging() bool { return t.phase == PhaseCharging }

func (t *Turn) Reset() {
	*t = Turn{phase: PhaseAimingFree}
}

// Press handles a primary trigger at p. Presses only count while every ball
// is at rest. A table press toggles the aim lock; a power-region press starts
// charging from a locked aim.
func (t *Turn) Press(p physics.Vec2, atRest bool) error {
	if !atRest {
		return ErrInvalidTransition
	}

	switch {
	case PowerRegion.Contains(p):
		if t.phase != PhaseAimingLocked {
			return ErrInvalidTransition
		}
		t.phase = PhaseCharging
		t.power = PowerAt(p)
	case OnTable(p):
		switch t.phase {
		case PhaseAimingFree:
			t.phase = PhaseAimingLocked
		case PhaseAimingLocked:
			t.phase = PhaseAimingFree
		default:
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}
	return nil
}

// Release ends a charge. Above the minimum power it returns the shot to apply
// and moves to settling; otherwise the aim stays locked. Power resets to zero
// either way.
func (t *Turn) Release() (Shot, bool, error) {
	if t.phase != PhaseCharging {
		return Shot{}, false, ErrInvalidTransition
	}

	power := t.power
	t.power = 0
	if power <= MinShotPower {
		t.phase = PhaseAimingLocked
		return Shot{}, false, nil
	}

	t.phase = PhaseSettling
	return Shot{
		Angle:   t.angle,
		Power:   power,
		Impulse: physics.FromAngle(t.angle).Times(power * MaxShotImpulse),
	}, true, nil
}

// Track follows the pointer: power while charging, aim angle while unlocked.
// Both are frozen while balls move.
func (t *Turn) Track(pointer, cue physics.Vec2, atRest bool) {
	if !atRest {
		return
	}
	switch t.phase {
	case PhaseCharging:
		t.power = PowerAt(pointer)
	case PhaseAimingFree:
		t.angle = pointer.Minus(cue).Angle()
	}
}

// Settle returns control to free aiming once the balls have stopped after a
// shot. It reports whether a shot just settled.
func (t *Turn) Settle(atRest bool) bool {
	if t.phase != PhaseSettling || !atRest {
		return false
	}
	t.phase = PhaseAimingFree
	return true
}
