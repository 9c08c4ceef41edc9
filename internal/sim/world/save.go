package world

import (
	"fmt"

	"go.uber.org/zap"

	modelpkg "neondrift.city/internal/sim/world/kernel/model"
	"neondrift.city/internal/sim/world/logic/mathx"
)

// Summary is the persisted slice of a session. Transient buffs, quests and
// the map are not saved.
type Summary struct {
	Pos      [2]int       `json:"pos"`
	Job      modelpkg.Job `json:"job"`
	Credits  int          `json:"credits"`
	HP       float64      `json:"hp"`
	Level    int          `json:"level"`
	XP       int          `json:"xp"`
	Hunger   float64      `json:"hunger"`
	Sleep    float64      `json:"sleep"`
	Wanted   int          `json:"wanted"`
	Emotions [4]float64   `json:"emotions"`
	SavedAt  string       `json:"saved_at,omitempty"`
}

func (w *World) Summary() Summary {
	p := w.player
	return Summary{
		Pos:     [2]int{p.X, p.Y},
		Job:     p.Job,
		Credits: p.Stats.Credits,
		HP:      p.Stats.HP,
		Level:   p.Stats.Level,
		XP:      p.Stats.XP,
		Hunger:  p.Stats.Hunger,
		Sleep:   p.Stats.Sleep,
		Wanted:  p.Reputation.Wanted,
		Emotions: [4]float64{
			p.Psyche.Fatigue,
			p.Psyche.Isolation,
			p.Psyche.Stability,
			p.Psyche.Anxiety,
		},
	}
}

// ApplySummary restores a saved player onto this world. Level-derived
// stats are rebuilt from the level (capped at LevelMax); everything is
// clamped afterwards. Doors are closed again on a regenerated map, so a
// save taken in a doorway reopens that door; any other blocked position
// moves the player to the nearest walkable tile.
func (w *World) ApplySummary(s Summary) error {
	if s.Job >= modelpkg.JobCount {
		return fmt.Errorf("summary: unknown job %d", s.Job)
	}
	if !w.grid.In(s.Pos[0], s.Pos[1]) {
		return fmt.Errorf("summary: position %v is outside the map", s.Pos)
	}
	if s.Level < 1 {
		return fmt.Errorf("summary: level %d", s.Level)
	}
	if w.mode == ModeCombat {
		return ErrModeBusy
	}

	x, y, err := w.resumePos(s.Pos[0], s.Pos[1])
	if err != nil {
		return err
	}

	p := w.player
	p.X, p.Y = x, y
	p.Job = s.Job

	st := modelpkg.NewStats()
	st.Skills = p.Stats.Skills
	st.RaiseTo(s.Level)
	st.XP = s.XP
	st.Credits = s.Credits
	st.HP = s.HP
	st.Hunger = s.Hunger
	st.Sleep = s.Sleep
	st.Stress = p.Stats.Stress
	st.Stamina = p.Stats.Stamina
	st.Clamp()
	p.Stats = st

	p.Reputation.Wanted = min(max(s.Wanted, 0), modelpkg.WantedMax)
	p.Reputation.CrimeTimer = 0
	p.Psyche = modelpkg.Psyche{
		Fatigue:   s.Emotions[0],
		Isolation: s.Emotions[1],
		Stability: s.Emotions[2],
		Anxiety:   s.Emotions[3],
	}
	p.Psyche.Clamp()
	w.mode = ModeWorld
	w.shopNPC = -1
	return nil
}

func (w *World) resumePos(x, y int) (int, int, error) {
	t, _ := w.grid.At(x, y)
	if t.Walkable {
		return x, y, nil
	}
	if t.Interaction == modelpkg.InteractDoor {
		t.Interaction = modelpkg.InteractNone
		t.Walkable = true
		t.Glyph = restingGlyph(t)
		return x, y, nil
	}
	nx, ny, ok := w.nearestWalkable(x, y)
	if !ok {
		return 0, 0, fmt.Errorf("summary: no walkable tile near %v", [2]int{x, y})
	}
	w.log.Warn("saved position blocked, moved",
		zap.Ints("from", []int{x, y}),
		zap.Ints("to", []int{nx, ny}),
	)
	return nx, ny, nil
}

// nearestWalkable searches square rings of growing radius around (x, y),
// row by row, so the result is stable for a given map.
func (w *World) nearestWalkable(x, y int) (int, int, bool) {
	for r := 1; r < max(w.grid.W, w.grid.H); r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(mathx.AbsInt(dx), mathx.AbsInt(dy)) != r {
					continue
				}
				if w.walkable(x+dx, y+dy) {
					return x + dx, y + dy, true
				}
			}
		}
	}
	return 0, 0, false
}
