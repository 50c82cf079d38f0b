package game

import (
	"math/rand"

	"github.com/playmatatu/chaospool/internal/physics"
)

// Pocket is one of the six fixed capture points.
type Pocket struct {
	Index    int          `json:"index"`
	Position physics.Vec2 `json:"position"`
}

// StandardPockets returns the six pockets: top-left, top-middle, top-right,
// bottom-left, bottom-middle, bottom-right.
func StandardPockets() []Pocket {
	pos := []physics.Vec2{
		physics.NewVec2(TableLeft, TableTop),
		physics.NewVec2(TableCX, TableTop),
		physics.NewVec2(TableRight, TableTop),
		physics.NewVec2(TableLeft, TableBottom),
		physics.NewVec2(TableCX, TableBottom),
		physics.NewVec2(TableRight, TableBottom),
	}
	pockets := make([]Pocket, len(pos))
	for i, p := range pos {
		pockets[i] = Pocket{Index: i, Position: p}
	}
	return pockets
}

// railSegments returns the four rail center lines. Each sits half a thickness
// outside the playing surface so the rounded segment face lines the edge.
func railSegments() [][2]physics.Vec2 {
	off := RailThickness / 2
	return [][2]physics.Vec2{
		{physics.NewVec2(TableLeft, TableTop-off), physics.NewVec2(TableRight, TableTop-off)},
		{physics.NewVec2(TableRight+off, TableTop), physics.NewVec2(TableRight+off, TableBottom)},
		{physics.NewVec2(TableRight, TableBottom+off), physics.NewVec2(TableLeft, TableBottom+off)},
		{physics.NewVec2(TableLeft-off, TableBottom), physics.NewVec2(TableLeft-off, TableTop)},
	}
}

// RackSlot is where one ball starts.
type RackSlot struct {
	Number   int
	Type     BallType
	Color    Color
	Position physics.Vec2
}

var ballColors = map[int]Color{
	0:  {255, 255, 255},
	1:  {255, 215, 0},
	2:  {0, 0, 255},
	3:  {255, 0, 0},
	4:  {128, 0, 128},
	5:  {255, 165, 0},
	6:  {0, 128, 0},
	7:  {128, 0, 0},
	8:  {10, 10, 10},
	9:  {255, 215, 0},
	10: {0, 0, 255},
	11: {255, 0, 0},
	12: {128, 0, 128},
	13: {255, 165, 0},
	14: {0, 128, 0},
	15: {128, 0, 0},
}

// CueStart is the cue ball's rack position, also used after a scratch.
func CueStart() physics.Vec2 {
	return physics.NewVec2(CueStartX, TableCY)
}

// NumberType maps a ball number to its scoring type.
func NumberType(number int) BallType {
	switch {
	case number == 0:
		return BallCue
	case number == 8:
		return BallBlack
	case number <= 7:
		return BallSolid
	default:
		return BallStripe
	}
}

// StandardRack lays out the 15 object balls in a five-column triangle. Numbers
// 1-7 and 9-15 are shuffled with rng and the black ball is always fifth, which
// puts it in the middle of the third column.
func StandardRack(rng *rand.Rand) []RackSlot {
	numbers := []int{1, 2, 3, 4, 5, 6, 7, 9, 10, 11, 12, 13, 14, 15}
	rng.Shuffle(len(numbers), func(i, j int) { numbers[i], numbers[j] = numbers[j], numbers[i] })

	order := make([]int, 0, NumObjectBalls)
	order = append(order, numbers[:4]...)
	order = append(order, 8)
	order = append(order, numbers[4:]...)

	slots := make([]RackSlot, 0, NumObjectBalls)
	i := 0
	for col := 0; col < RackColumns; col++ {
		for row := 0; row <= col; row++ {
			x := RackStartX + float64(col)*(BallRadius*2-1)
			y := TableCY + float64(row)*(BallRadius*2+1) - float64(col)*BallRadius
			n := order[i]
			slots = append(slots, RackSlot{
				Number:   n,
				Type:     NumberType(n),
				Color:    ballColors[n],
				Position: physics.NewVec2(x, y),
			})
			i++
		}
	}
	return slots
}

// SetupTable creates the rails, the cue ball and the rack in reg.
func SetupTable(reg *Registry, rng *rand.Rand) {
	for _, seg := range railSegments() {
		reg.AddRail(seg[0], seg[1], RailThickness)
	}
	reg.SpawnBall(CueStart(), BallCue, 0, ballColors[0])
	for _, slot := range StandardRack(rng) {
		reg.SpawnBall(slot.Position, slot.Type, slot.Number, slot.Color)
	}
}
