package game

import (
	"github.com/playmatatu/chaospool/internal/physics"
)

// BallState is a ball's position and identity for serialization.
type BallState struct {
	ID       BallID  `json:"id"`
	Number   int     `json:"number"`
	Type     string  `json:"type"`
	Color    Color   `json:"color"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	Cooldown int     `json:"cooldown,omitempty"`
}

// AimGuide is the predicted first contact along the current aim.
type AimGuide struct {
	From physics.Vec2 `json:"from"`
	// Ghost is where the cue ball center will be on contact.
	Ghost physics.Vec2 `json:"ghost"`
	// Target and TargetDir are set when the first hit is a ball.
	Target    *physics.Vec2 `json:"target,omitempty"`
	TargetDir *physics.Vec2 `json:"target_dir,omitempty"`
	Locked    bool          `json:"locked"`
}

// Snapshot is the full table state after a frame.
type Snapshot struct {
	Frame    uint64      `json:"frame"`
	Balls    []BallState `json:"balls"`
	Bumpers  []Obstacle  `json:"bumpers"`
	Mud      Rect        `json:"mud"`
	Ice      Rect        `json:"ice"`
	Portals  Portals     `json:"portals"`
	Pockets  []Pocket    `json:"pockets"`
	Golden   int         `json:"golden"`
	Score    int         `json:"score"`
	Best     int         `json:"best"`
	Shots    int         `json:"shots"`
	Phase    Phase       `json:"phase"`
	Angle    float64     `json:"angle"`
	Power    float64     `json:"power"`
	Elapsed  float64     `json:"elapsed"`
	AtRest   bool        `json:"at_rest"`
	Settings Settings    `json:"settings"`
	Outcome  Outcome     `json:"outcome"`
	Aim      *AimGuide   `json:"aim,omitempty"`
}

// Snapshot captures the current table for presentation.
func (s *Session) Snapshot() Snapshot {
	balls := s.reg.Balls()
	states := make([]BallState, 0, len(balls))
	for _, b := range balls {
		pos := s.reg.Position(b)
		vel := s.reg.Velocity(b)
		states = append(states, BallState{
			ID:       b.ID,
			Number:   b.Number,
			Type:     b.Type.String(),
			Color:    b.Color,
			X:        pos.X,
			Y:        pos.Y,
			VX:       vel.X,
			VY:       vel.Y,
			Cooldown: s.stepper.Cooldown(b.ID),
		})
	}

	atRest := s.stepper.AtRest()
	snap := Snapshot{
		Frame:    s.frames,
		Balls:    states,
		Bumpers:  s.reg.Bumpers(),
		Mud:      s.hazards.Mud,
		Ice:      s.hazards.Ice,
		Portals:  s.hazards.Portals,
		Pockets:  s.pockets,
		Golden:   s.golden,
		Score:    s.score,
		Best:     s.best,
		Shots:    s.shots,
		Phase:    s.turn.Phase(),
		Angle:    s.turn.Angle(),
		Power:    s.turn.Power(),
		Elapsed:  s.elapsed,
		AtRest:   atRest,
		Settings: s.settings,
		Outcome:  s.eval.Outcome(),
	}
	if atRest && !snap.Outcome.Over() {
		if guide, ok := s.AimGuide(); ok {
			snap.Aim = &guide
		}
	}
	return snap
}

// AimGuide casts a ray from just outside the cue ball along the aim angle and
// reports the first contact.
func (s *Session) AimGuide() (AimGuide, bool) {
	cue, ok := s.reg.Cue()
	if !ok {
		return AimGuide{}, false
	}

	dir := physics.FromAngle(s.turn.Angle())
	from := s.reg.Position(cue)
	start := from.Plus(dir.Times(BallRadius + 0.1))
	hit, ok := s.engine.RayFirst(start, start.Plus(dir.Times(AimRayLength)), 0, physics.CategoryAll)
	if !ok {
		return AimGuide{}, false
	}

	guide := AimGuide{
		From:   from,
		Ghost:  hit.Point.Minus(dir.Times(BallRadius)),
		Locked: s.turn.Locked(),
	}
	if hit.Dynamic {
		target := s.engine.Position(hit.Body)
		impact := target.Minus(guide.Ghost).Normalize()
		guide.Target = &target
		guide.TargetDir = &impact
	}
	return guide, true
}
