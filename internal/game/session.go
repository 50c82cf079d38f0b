package game

import (
	"math/rand"

	log "github.com/sirupsen/logrus"

	"github.com/playmatatu/chaospool/internal/physics"
)

// EventKind names an input trigger.
type EventKind string

const (
	EventPointer     EventKind = "pointer"
	EventPress       EventKind = "press"
	EventRelease     EventKind = "release"
	EventFastForward EventKind = "fast_forward"
	EventRestart     EventKind = "restart"
)

// Event is one input trigger. Pos is set for pointer and press, On for
// fast-forward, Settings optionally for restart.
type Event struct {
	Kind     EventKind
	Pos      physics.Vec2
	On       bool
	Settings *Settings
}

// BestScoreKeeper persists the best score. Submit stores score if it beats the
// current best and returns the best after the call.
type BestScoreKeeper interface {
	Best() int
	Submit(score int) int
}

// FrameResult is what one call to Frame produced.
type FrameResult struct {
	SubSteps int
	Shot     *Shot
	Captures CaptureReport
	// Ended is set on the frame the outcome became terminal.
	Ended bool
	// RestCycle is set when the balls came to rest at the start of the frame.
	RestCycle bool
}

// Session owns every piece of state for one table: engine bodies, hazards,
// score, turn and outcome. It is not safe for concurrent use; one goroutine
// drives it frame by frame.
type Session struct {
	engine  physics.Engine
	rng     *rand.Rand
	keeper  BestScoreKeeper
	pockets []Pocket

	reg     *Registry
	hazards *Hazards
	stepper *Stepper
	scorer  *Scorer
	eval    *Evaluator
	turn    *Turn

	settings    Settings
	score       int
	best        int
	golden      int
	elapsed     float64
	frames      uint64
	shots       int
	firstShot   bool
	wasAtRest   bool
	fastForward bool
	pointer     physics.Vec2
}

// NewSession racks a fresh table on engine. A nil keeper keeps the best score
// in memory only.
func NewSession(engine physics.Engine, seed int64, settings Settings, keeper BestScoreKeeper) *Session {
	s := &Session{
		engine:  engine,
		rng:     rand.New(rand.NewSource(seed)),
		keeper:  keeper,
		pockets: StandardPockets(),
		eval:    NewEvaluator(),
		turn:    NewTurn(),
	}
	if keeper != nil {
		s.best = keeper.Best()
	}
	s.Reset(settings)
	return s
}

// Reset starts a new game: empty world, rails, full rack, hazards placed for
// the given settings, score and clock zeroed.
func (s *Session) Reset(settings Settings) {
	s.engine.Reset()
	s.settings = settings
	s.reg = NewRegistry(s.engine)
	SetupTable(s.reg, s.rng)

	s.hazards = NewHazards(s.reg, s.pockets, s.rng, settings)
	s.hazards.Regenerate()
	s.stepper = NewStepper(s.reg, s.hazards, s.pockets)
	s.scorer = NewScorer(s.reg, s.pockets)
	s.eval.Reset()
	s.turn.Reset()

	s.score = 0
	s.golden = 0
	s.elapsed = 0
	s.frames = 0
	s.shots = 0
	s.firstShot = true
	s.wasAtRest = true
	s.fastForward = false

	log.WithFields(log.Fields{
		"zones":   settings.Zones,
		"portals": settings.Portals,
		"bumpers": settings.Bumpers,
		"placed":  len(s.reg.Bumpers()),
	}).Info("[TABLE] table racked")
}

// Frame advances the table by one rendered frame: rest detection, input,
// aim and power tracking, sub-steps, capture, win/loss and frame-end decay.
func (s *Session) Frame(events []Event) FrameResult {
	var res FrameResult

	atRest := s.stepper.AtRest()
	if atRest && !s.wasAtRest {
		s.restCycle()
		res.RestCycle = true
	}
	s.wasAtRest = atRest
	s.turn.Settle(atRest)

	for _, ev := range events {
		if shot := s.handle(ev, atRest); shot != nil {
			res.Shot = shot
		}
		if ev.Kind == EventRestart {
			// The rest of the batch belongs to the old game.
			return res
		}
	}

	if cue, ok := s.reg.Cue(); ok {
		s.turn.Track(s.pointer, s.reg.Position(cue), atRest)
	}

	res.SubSteps = s.stepper.Integrate(s.fastForward)

	res.Captures = s.scorer.Capture(s.golden)
	s.score += res.Captures.Delta

	outcome, ended := s.eval.Evaluate(
		res.Captures,
		s.reg.Count(BallSolid, BallStripe),
		s.reg.Count(BallBlack),
	)
	if ended {
		res.Ended = true
		s.submitBest()
		log.WithFields(log.Fields{
			"status": outcome.Status,
			"reason": outcome.Reason,
			"score":  s.score,
			"shots":  s.shots,
		}).Info("[TABLE] game over")
	}

	s.stepper.FrameEnd(res.SubSteps)

	s.frames++
	if !s.eval.Outcome().Over() {
		s.elapsed += 1.0 / FrameRate
	}
	return res
}

// handle applies one input event. Every trigger but restart is ignored once
// the game is over.
func (s *Session) handle(ev Event, atRest bool) *Shot {
	if ev.Kind == EventRestart {
		settings := s.settings
		if ev.Settings != nil {
			settings = *ev.Settings
		}
		s.Reset(settings)
		return nil
	}

	switch ev.Kind {
	case EventPointer:
		s.pointer = ev.Pos
		return nil
	case EventFastForward:
		s.fastForward = ev.On
		return nil
	}

	if s.eval.Outcome().Over() {
		return nil
	}

	var err error
	switch ev.Kind {
	case EventPress:
		s.pointer = ev.Pos
		err = s.turn.Press(ev.Pos, atRest)
	case EventRelease:
		var (
			shot  Shot
			fired bool
		)
		shot, fired, err = s.turn.Release()
		if fired {
			s.strike(shot)
			return &shot
		}
	}
	if err != nil {
		log.Tracef("[TABLE] %s ignored in %s: %v", ev.Kind, s.turn.Phase(), err)
	}
	return nil
}

// strike applies the shot impulse to the cue ball at its center.
func (s *Session) strike(shot Shot) {
	cue, ok := s.reg.Cue()
	if !ok {
		return
	}
	pos := s.reg.Position(cue)
	s.engine.ApplyImpulse(cue.Body, shot.Impulse, pos)
	s.shots++
	log.WithFields(log.Fields{
		"angle": shot.Angle,
		"power": shot.Power,
		"shot":  s.shots,
	}).Debug("[TABLE] shot released")
}

// restCycle runs when every ball has just come to rest: best score check,
// golden pocket re-roll, hazard regeneration and cooldown reset. Cooldowns
// survive the first rest-cycle of a game.
func (s *Session) restCycle() {
	s.submitBest()
	s.golden = s.rng.Intn(len(s.pockets))
	s.hazards.Regenerate()

	if s.firstShot {
		s.firstShot = false
	} else {
		s.stepper.ClearCooldowns()
	}
	log.WithFields(log.Fields{
		"score":  s.score,
		"golden": s.golden,
	}).Debug("[TABLE] rest cycle")
}

func (s *Session) submitBest() {
	if s.keeper != nil {
		s.best = s.keeper.Submit(s.score)
		return
	}
	if s.score > s.best {
		s.best = s.score
	}
}

// Accessors.

func (s *Session) Registry() *Registry { return s.reg }
func (s *Session) Hazards() *Hazards { return s.hazards }
func (s *Session) Stepper() *Stepper { return s.stepper }
func (s *Session) Turn() *Turn { return s.turn }
func (s *Session) Pockets() []Pocket { return s.pockets }
func (s *Session) Settings() Settings { return s.settings }
func (s *Session) Score() int { return s.score }
func (s *Session) Best() int { return s.best }
func (s *Session) Golden() int { return s.golden }
func (s *Session) Elapsed() float64 { return s.elapsed }
func (s *Session) Shots() int { return s.shots }
func (s *Session) Frames() uint64 { return s.frames }
func (s *Session) Outcome() Outcome { return s.eval.Outcome() }
func (s *Session) FastForward() bool { return s.fastForward }
func (s *Session) AtRest() bool { return s.stepper.AtRest() }
