package world

import (
	"go.uber.org/zap"

	"neondrift.city/internal/protocol"
	"neondrift.city/internal/sim/rng"
	movementruntimepkg "neondrift.city/internal/sim/world/feature/movement/runtime"
	psycheruntimepkg "neondrift.city/internal/sim/world/feature/psyche/runtime"
	"neondrift.city/internal/sim/world/feature/quests"
	survivalruntimepkg "neondrift.city/internal/sim/world/feature/survival/runtime"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

const scavengeXP = 5

// postMoveHook runs after the player has entered t. Hooks run in slice
// order on every successful move.
type postMoveHook struct {
	name string
	fn   func(w *World, t *modelpkg.Tile)
}

func defaultPostMove() []postMoveHook {
	return []postMoveHook{
		{"pickup", (*World).pickup},
		{"zone_entry", (*World).enterZone},
		{"event_roll", (*World).rollEvent},
		{"encounter", (*World).rollEncounter},
		{"buffs", (*World).tickBuffs},
		{"survival", (*World).moveCost},
		{"quests", (*World).questsOnMove},
	}
}

// Move steps the player one cell orthogonally.
func (w *World) Move(dx, dy int) error {
	if !movementruntimepkg.ValidStep(dx, dy) {
		return w.reject(protocol.ErrBadRequest, "invalid direction")
	}
	if w.mode != ModeWorld {
		return w.reject(protocol.ErrModeBusy, "busy: "+w.mode.String())
	}
	to := movementruntimepkg.Step(movementruntimepkg.Pos{X: w.player.X, Y: w.player.Y}, dx, dy)
	t, blocker := movementruntimepkg.Check(w.grid, to)
	switch blocker {
	case movementruntimepkg.Door:
		return w.reject(protocol.ErrDoorLocked, "the door is locked")
	case movementruntimepkg.Wall, movementruntimepkg.OutOfGrid:
		return w.reject(protocol.ErrBlocked, "blocked")
	case movementruntimepkg.Clear:
	}

	w.player.X, w.player.Y = to.X, to.Y
	t.Visits++
	w.player.VisitedZones[t.Zone]++
	for _, h := range w.postMove {
		h.fn(w, t)
	}
	return nil
}

func (w *World) pickup(t *modelpkg.Tile) {
	if t.Drop == "" {
		return
	}
	def, ok := w.cat.Items.Defs[t.Drop]
	if !ok {
		t.Drop = ""
		return
	}
	if !w.player.Inventory.Add(def) {
		w.notify("inventory full")
		return
	}
	t.Drop = ""
	t.Glyph = restingGlyph(t)
	w.player.Stats.SkillXP(modelpkg.SkillScavenging, scavengeXP)
	w.notify("picked up " + def.Name)
}

// restingGlyph is what a tile shows once its object is gone.
func restingGlyph(t *modelpkg.Tile) rune {
	switch {
	case t.Errored():
		return modelpkg.GlyphError
	case t.Neon:
		return modelpkg.GlyphNeon
	}
	return modelpkg.GlyphFloor
}

func (w *World) enterZone(t *modelpkg.Tile) {
	p := w.player
	psycheruntimepkg.ZoneEntry(&p.Psyche, psycheruntimepkg.EntryInput{
		Zone:              t.Zone.Props(),
		Neon:              t.Neon,
		Error:             t.Error,
		Weather:           w.weather,
		Stealthed:         p.Stealthed(),
		SurveillanceScale: surveillanceScale(p.Job),
	})
	if p.Job == modelpkg.JobNightClerk && survivalruntimepkg.IsNight(w.timeOfDay) {
		p.Psyche.Stability += 0.05
		p.Psyche.Clamp()
	}
}

func (w *World) rollEvent(t *modelpkg.Tile) {
	chance := movementruntimepkg.EventChance(movementruntimepkg.EventRollInput{
		Zone:      t.Zone,
		Job:       w.player.Job,
		TimeOfDay: w.timeOfDay,
	})
	if !rng.Chance(w.src, chance) {
		return
	}
	if line := w.cat.Lines.ZoneEvent(t.Zone, w.src.IntN); line != "" {
		w.notify(line)
	}
}

func (w *World) rollEncounter(t *modelpkg.Tile) {
	p := w.player
	if i, ok := movementruntimepkg.AdjacentEnemy(w.enemies, movementruntimepkg.Pos{X: p.X, Y: p.Y}); ok {
		w.startCombat(w.enemies[i].ID)
		return
	}
	chance := movementruntimepkg.EncounterChance(t.Zone.Props().Danger, p.Stealthed(), p.Reputation.Wanted)
	if !rng.Chance(w.src, chance) {
		return
	}
	tmpl, ok := w.cat.Enemies.ByKind[t.Zone.EncounterKind()]
	if !ok {
		return
	}
	id := w.nextEnemy
	w.nextEnemy++
	w.enemies = append(w.enemies, tmpl.Spawn(id, p.X, p.Y))
	w.startCombat(id)
}

func (w *World) tickBuffs(*modelpkg.Tile) {
	p := w.player
	if p.FOVBonusTurns > 0 {
		p.FOVBonusTurns--
	}
	if p.StealthTurns > 0 {
		p.StealthTurns--
	}
}

func (w *World) moveCost(*modelpkg.Tile) {
	survivalruntimepkg.MoveCost(&w.player.Stats)
	w.player.Stats.SkillXP(modelpkg.SkillEndurance, 1)
}

func (w *World) questsOnMove(t *modelpkg.Tile) {
	w.advanceQuests(quests.Event{Kind: quests.EvMove, Here: w.here(t)})
}

func (w *World) here(t *modelpkg.Tile) quests.Here {
	return quests.Here{
		Zone:    t.Zone,
		Tile:    w.grid.Index(w.player.X, w.player.Y),
		Errored: t.Errored(),
	}
}

func (w *World) questHooks() quests.Hooks {
	return quests.Hooks{
		Notify: w.notify,
		Grant: func(id string) bool {
			_, ok := w.grant(id)
			return ok
		},
	}
}

func (w *World) advanceQuests(ev quests.Event) {
	for _, id := range quests.Advance(w.player, ev, w.questHooks()) {
		w.log.Info("quest completed", zap.String("quest", id), zap.Uint64("tick", w.tick))
	}
}
