package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		report      CaptureReport
		objectsLeft int
		blackLeft   int
		want        Outcome
		ended       bool
	}{
		{
			name:        "black and cue together",
			report:      CaptureReport{BlackPotted: true, CuePotted: true},
			objectsLeft: 0,
			want:        Outcome{Status: StatusLost, Reason: ReasonScratchOnFinalBall},
			ended:       true,
		},
		{
			name:        "black and cue with objects left",
			report:      CaptureReport{BlackPotted: true, CuePotted: true},
			objectsLeft: 6,
			want:        Outcome{Status: StatusLost, Reason: ReasonScratchOnFinalBall},
			ended:       true,
		},
		{
			name:        "black too early",
			report:      CaptureReport{BlackPotted: true},
			objectsLeft: 1,
			want:        Outcome{Status: StatusLost, Reason: ReasonFinalBallTooEarly},
			ended:       true,
		},
		{
			name:   "black last",
			report: CaptureReport{BlackPotted: true},
			want:   Outcome{Status: StatusWon},
			ended:  true,
		},
		{
			name:   "scratch with nothing left",
			report: CaptureReport{CuePotted: true},
			want:   Outcome{Status: StatusLost, Reason: ReasonScratchOnFinalTarget},
			ended:  true,
		},
		{
			name:      "scratch with black still on the table",
			report:    CaptureReport{CuePotted: true},
			blackLeft: 1,
			want:      Outcome{Status: StatusInProgress},
		},
		{
			name:        "plain scratch",
			report:      CaptureReport{CuePotted: true},
			objectsLeft: 3,
			blackLeft:   1,
			want:        Outcome{Status: StatusInProgress},
		},
		{
			name:        "quiet frame",
			objectsLeft: 14,
			blackLeft:   1,
			want:        Outcome{Status: StatusInProgress},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator()
			got, ended := e.Evaluate(tt.report, tt.objectsLeft, tt.blackLeft)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ended, ended)
			assert.Equal(t, tt.ended, got.Over())
		})
	}
}

func TestOutcomeIsSticky(t *testing.T) {
	e := NewEvaluator()
	e.Evaluate(CaptureReport{BlackPotted: true}, 0, 0)

	got, ended := e.Evaluate(CaptureReport{BlackPotted: true, CuePotted: true}, 0, 0)

	assert.False(t, ended)
	assert.Equal(t, Outcome{Status: StatusWon}, got)

	e.Reset()
	assert.Equal(t, Outcome{Status: StatusInProgress}, e.Outcome())
}
