package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmatatu/chaospool/internal/physics"
)

var (
	onTable = physics.NewVec2(600, 300)
	offAll  = physics.NewVec2(1210, 620)
)

// powerPoint is the pointer position that yields power p.
func powerPoint(p float64) physics.Vec2 {
	return physics.NewVec2(PowerRegionX+PowerRegionW/2, PowerRegionY+p*PowerRegionH)
}

func TestPowerAtClamps(t *testing.T) {
	assert.InDelta(t, 0, PowerAt(physics.NewVec2(0, 0)), 1e-12)
	assert.InDelta(t, 1, PowerAt(physics.NewVec2(0, 5000)), 1e-12)
	assert.InDelta(t, 0.5, PowerAt(powerPoint(0.5)), 1e-12)
}

func TestTurnFullShot(t *testing.T) {
	turn := NewTurn()
	cue := CueStart()

	turn.Track(cue.Plus(physics.NewVec2(0, 100)), cue, true)
	assert.InDelta(t, math.Pi/2, turn.Angle(), 1e-12)

	require.NoError(t, turn.Press(onTable, true))
	assert.Equal(t, PhaseAimingLocked, turn.Phase())

	// Locked: pointer no longer moves the aim.
	turn.Track(cue.Plus(physics.NewVec2(100, 0)), cue, true)
	assert.InDelta(t, math.Pi/2, turn.Angle(), 1e-12)

	require.NoError(t, turn.Press(powerPoint(0.3), true))
	assert.Equal(t, PhaseCharging, turn.Phase())
	turn.Track(powerPoint(0.8), cue, true)
	assert.InDelta(t, 0.8, turn.Power(), 1e-12)

	shot, fired, err := turn.Release()
	require.NoError(t, err)
	require.True(t, fired)
	assert.Equal(t, PhaseSettling, turn.Phase())
	assert.Zero(t, turn.Power())
	assert.InDelta(t, 0, shot.Impulse.X, 1e-9)
	assert.InDelta(t, 0.8*MaxShotImpulse, shot.Impulse.Y, 1e-9)

	assert.False(t, turn.Settle(false))
	assert.True(t, turn.Settle(true))
	assert.Equal(t, PhaseAimingFree, turn.Phase())
}

func TestTurnWeakReleaseKeepsLock(t *testing.T) {
	turn := NewTurn()
	require.NoError(t, turn.Press(onTable, true))
	require.NoError(t, turn.Press(powerPoint(MinShotPower-0.01), true))

	_, fired, err := turn.Release()

	require.NoError(t, err)
	assert.False(t, fired)
	assert.Equal(t, PhaseAimingLocked, turn.Phase())
	assert.Zero(t, turn.Power())
}

func TestTurnTablePressTogglesLock(t *testing.T) {
	turn := NewTurn()
	require.NoError(t, turn.Press(onTable, true))
	require.NoError(t, turn.Press(onTable, true))
	assert.Equal(t, PhaseAimingFree, turn.Phase())
}

func TestTurnInvalidTransitions(t *testing.T) {
	turn := NewTurn()

	assert.ErrorIs(t, turn.Press(powerPoint(0.5), true), ErrInvalidTransition)
	assert.ErrorIs(t, turn.Press(offAll, true), ErrInvalidTransition)
	assert.ErrorIs(t, turn.Press(onTable, false), ErrInvalidTransition)
	_, _, err := turn.Release()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, PhaseAimingFree, turn.Phase())

	require.NoError(t, turn.Press(onTable, true))
	require.NoError(t, turn.Press(powerPoint(0.9), true))
	assert.ErrorIs(t, turn.Press(onTable, true), ErrInvalidTransition)
	assert.Equal(t, PhaseCharging, turn.Phase())
}

func TestTurnFreezesWhileMoving(t *testing.T) {
	turn := NewTurn()
	cue := CueStart()
	turn.Track(cue.Plus(physics.NewVec2(100, 0)), cue, true)

	turn.Track(cue.Plus(physics.NewVec2(0, -100)), cue, false)

	assert.InDelta(t, 0, turn.Angle(), 1e-12)
}
