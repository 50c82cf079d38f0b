package game

import "errors"

var (
	// ErrPlacementExhausted means a hazard found no valid position within its
	// attempt budget. Placement recovers with a fallback or by placing fewer
	// hazards; callers never see it.
	ErrPlacementExhausted = errors.New("placement attempts exhausted")

	// ErrInvalidTransition means an input trigger arrived in a phase that
	// defines no transition for it. The session ignores it.
	ErrInvalidTransition = errors.New("no transition for input in current phase")
)
