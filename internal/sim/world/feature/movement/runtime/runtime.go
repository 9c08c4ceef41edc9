package runtime

import (
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
	"neondrift.city/internal/sim/world/logic/mathx"
)

type Pos struct {
	X int
	Y int
}

// ValidStep accepts exactly one unit step on one axis.
func ValidStep(dx, dy int) bool {
	return mathx.AbsInt(dx)+mathx.AbsInt(dy) == 1
}

func Step(cur Pos, dx, dy int) Pos {
	return Pos{X: cur.X + dx, Y: cur.Y + dy}
}

type Blocker uint8

const (
	Clear Blocker = iota
	OutOfGrid
	Door
	Wall
)

type GridEnv interface {
	At(x, y int) (*modelpkg.Tile, bool)
}

// Check classifies the destination of a step. Doors are reported before
// walkability so a locked door reads as a door, not a wall.
func Check(env GridEnv, to Pos) (*modelpkg.Tile, Blocker) {
	t, ok := env.At(to.X, to.Y)
	if !ok {
		return nil, OutOfGrid
	}
	if t.Interaction == modelpkg.InteractDoor {
		return t, Door
	}
	if !t.Walkable {
		return t, Wall
	}
	return t, Clear
}

// Adjacent is Manhattan distance <= 1.
func Adjacent(a, b Pos) bool {
	return mathx.Manhattan(a.X, a.Y, b.X, b.Y) <= 1
}
