package world

import (
	"errors"

	"go.uber.org/zap"

	"neondrift.city/internal/protocol"
	combatpkg "neondrift.city/internal/sim/world/feature/combat"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

func (w *World) startCombat(id modelpkg.EnemyID) {
	e := w.enemyByID(id)
	if e == nil || !e.Alive() {
		return
	}
	w.shopNPC = -1
	w.combat.Start(e, w.cfg.FleeChance)
	w.combat.DropChance = w.cfg.DropChance
	w.mode = ModeCombat
	w.notify(e.Name + " blocks your way")
	w.log.Debug("combat started", zap.Uint32("enemy", uint32(id)), zap.String("kind", e.Kind))
}

// CombatAction resolves one player action and the enemy's reply.
func (w *World) CombatAction(a combatpkg.Action, slot int) error {
	if !w.combat.Active {
		return w.reject(protocol.ErrNoCombat, "not in combat")
	}
	rep, err := combatpkg.Act(&w.combat, w.player, w.enemyByID(w.combat.Enemy), w.src, a, slot, w.combatHooks())
	return w.afterCombat(rep, err)
}

// CombatCursor moves the action cursor by delta, wrapping.
func (w *World) CombatCursor(delta int) error {
	if !w.combat.Active {
		return w.reject(protocol.ErrNoCombat, "not in combat")
	}
	w.combat.MoveCursor(delta)
	return nil
}

// CombatConfirm resolves the action under the cursor.
func (w *World) CombatConfirm() error {
	if !w.combat.Active {
		return w.reject(protocol.ErrNoCombat, "not in combat")
	}
	rep, err := combatpkg.Confirm(&w.combat, w.player, w.enemyByID(w.combat.Enemy), w.src, w.combatHooks())
	return w.afterCombat(rep, err)
}

func (w *World) afterCombat(rep combatpkg.Report, err error) error {
	if err != nil {
		var ae *ActionError
		switch {
		case errors.As(err, &ae):
			return ae
		case errors.Is(err, combatpkg.ErrInsufficientSkill):
			return w.reject(protocol.ErrInsufficientSkill, "combat lv2 required")
		case errors.Is(err, combatpkg.ErrEmptySlot):
			return w.reject(protocol.ErrEmptySlot, "no item")
		case errors.Is(err, combatpkg.ErrNotActive):
			return w.reject(protocol.ErrNoCombat, "not in combat")
		}
		return &ActionError{Code: protocol.ErrInternal, Message: err.Error()}
	}
	if rep.LevelUps > 0 {
		w.notify("level up")
		w.log.Info("level up", zap.Int("level", w.player.Stats.Level))
	}
	return nil
}

func (w *World) combatHooks() combatpkg.Hooks {
	return combatpkg.Hooks{
		UseItem:   w.consume,
		GrantDrop: w.grant,
		Notify:    w.notify,
		Respawn: func() {
			w.player.X, w.player.Y = w.grid.Center()
		},
		Resolved: func(r combatpkg.Result) {
			w.removeDead()
			w.mode = ModeWorld
			w.log.Info("combat resolved",
				zap.Stringer("result", r),
				zap.Int("turns", w.combat.Turn),
				zap.Uint64("tick", w.tick))
		},
	}
}

func (w *World) removeDead() {
	alive := w.enemies[:0]
	for _, e := range w.enemies {
		if e.Alive() {
			alive = append(alive, e)
		}
	}
	w.enemies = alive
}
