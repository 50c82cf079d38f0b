package game

import (
	log "github.com/sirupsen/logrus"

	"github.com/playmatatu/chaospool/internal/physics"
)

// Capture records one ball taken by a pocket in a frame.
type Capture struct {
	Ball   BallID   `json:"ball"`
	Number int      `json:"number"`
	Type   BallType `json:"type"`
	// Pocket is the reporting pocket index, -1 when none is within the
	// reporting radius.
	Pocket int  `json:"pocket"`
	Points int  `json:"points"`
	Golden bool `json:"golden"`
}

// CaptureReport is the outcome of one frame's capture pass.
type CaptureReport struct {
	Captures    []Capture `json:"captures"`
	CuePotted   bool      `json:"cue_potted"`
	BlackPotted bool      `json:"black_potted"`
	Delta       int       `json:"delta"`
}

// Scorer detects pocket captures and applies the scoring rules.
type Scorer struct {
	reg     *Registry
	pockets []Pocket
}

func NewScorer(reg *Registry, pockets []Pocket) *Scorer {
	return &Scorer{reg: reg, pockets: pockets}
}

// Capture scores every ball within capture radius of a pocket. Object and
// black balls leave the registry; the cue ball goes back to its start spot at
// rest. Contributions are independent, so processing order does not matter.
func (s *Scorer) Capture(golden int) CaptureReport {
	var report CaptureReport

	for _, b := range s.reg.Balls() {
		pos := s.reg.Position(b)
		if !s.within(pos, PocketCaptureRadius) {
			continue
		}

		c := Capture{
			Ball:   b.ID,
			Number: b.Number,
			Type:   b.Type,
			Pocket: s.pocketIndex(pos, PocketReportRadius),
		}

		switch b.Type {
		case BallCue:
			c.Points = ScoreScratch
			report.CuePotted = true
			s.reg.SetPosition(b, CueStart())
			s.reg.SetVelocity(b, physics.Vec2{})
			s.reg.SetAngularVelocity(b, 0)
		case BallSolid, BallStripe:
			c.Points = ScoreObjectBall
			if c.Pocket == golden {
				c.Points *= GoldenMultiplier
				c.Golden = true
			}
			s.reg.RemoveBall(b.ID)
		case BallBlack:
			c.Points = ScoreBlackBall
			report.BlackPotted = true
			s.reg.RemoveBall(b.ID)
		}

		report.Delta += c.Points
		report.Captures = append(report.Captures, c)
		log.WithFields(log.Fields{
			"ball":   c.Number,
			"type":   c.Type.String(),
			"pocket": c.Pocket,
			"points": c.Points,
		}).Debug("[POOL] ball captured")
	}

	return report
}

func (s *Scorer) within(pos physics.Vec2, radius float64) bool {
	return s.pocketIndex(pos, radius) >= 0
}

// pocketIndex returns the first pocket, in index order, closer than radius.
func (s *Scorer) pocketIndex(pos physics.Vec2, radius float64) int {
	for _, p := range s.pockets {
		if p.Position.DistanceTo(pos) < radius {
			return p.Index
		}
	}
	return -1
}
