package game

// OutcomeStatus is the terminal state of a table session.
type OutcomeStatus string

const (
	StatusInProgress OutcomeStatus = "IN_PROGRESS"
	StatusWon        OutcomeStatus = "WON"
	StatusLost       OutcomeStatus = "LOST"
)

// Loss reasons.
const (
	ReasonScratchOnFinalBall   = "scratch on final ball"
	ReasonFinalBallTooEarly    = "final ball potted too early"
	ReasonScratchOnFinalTarget = "scratch on final target"
)

// Outcome is the game result. Reason is set only for losses.
type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

func (o Outcome) Over() bool {
	return o.Status != StatusInProgress && o.Status != ""
}

// Evaluator applies the win/loss rules after each capture pass. Once a
// terminal outcome is set it stays until Reset.
type Evaluator struct {
	outcome Outcome
}

func NewEvaluator() *Evaluator {
	return &Evaluator{outcome: Outcome{Status: StatusInProgress}}
}

func (e *Evaluator) Outcome() Outcome {
	return e.outcome
}

func (e *Evaluator) Reset() {
	e.outcome = Outcome{Status: StatusInProgress}
}

// Evaluate inspects one frame's capture flags and the post-removal ball
// counts. It returns the current outcome and whether it became terminal on
// this call.
func (e *Evaluator) Evaluate(report CaptureReport, objectsLeft, blackLeft int) (Outcome, bool) {
	if e.outcome.Over() {
		return e.outcome, false
	}

	switch {
	case report.BlackPotted && report.CuePotted:
		e.outcome = Outcome{Status: StatusLost, Reason: ReasonScratchOnFinalBall}
	case report.BlackPotted && objectsLeft > 0:
		e.outcome = Outcome{Status: StatusLost, Reason: ReasonFinalBallTooEarly}
	case report.BlackPotted:
		e.outcome = Outcome{Status: StatusWon}
	case report.CuePotted && objectsLeft == 0 && blackLeft == 0:
		e.outcome = Outcome{Status: StatusLost, Reason: ReasonScratchOnFinalTarget}
	default:
		return e.outcome, false
	}
	return e.outcome, true
}
