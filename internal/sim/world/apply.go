package world

import (
	"fmt"

	"go.uber.org/zap"

	"neondrift.city/internal/protocol"
	combatpkg "neondrift.city/internal/sim/world/feature/combat"
)

// SaveRequest is what a save hands to the persistence layer.
type SaveRequest struct {
	Tick    uint64
	Ending  Direction
	Summary Summary
}

// SaveFunc persists a save request. Implemented by the persistence layer.
type SaveFunc func(SaveRequest) error

func WithSaver(fn SaveFunc) Option {
	return func(w *World) { w.save = fn }
}

// Apply dispatches one ACT and records it in the action log. The returned
// error is nil or an *ActionError.
func (w *World) Apply(act protocol.ActMsg) error {
	err := w.dispatch(act)
	if w.actionLog != nil {
		entry := ActionLogEntry{
			Tick:    w.tick,
			Elapsed: w.elapsed,
			Action:  act.Action,
			Args:    actArgs(act),
			Code:    Code(err),
			Pos:     [2]int{w.player.X, w.player.Y},
		}
		if lerr := w.actionLog.WriteAction(entry); lerr != nil {
			w.log.Warn("action log write failed", zap.Error(lerr))
		}
	}
	return err
}

func (w *World) dispatch(act protocol.ActMsg) error {
	switch act.Action {
	case protocol.ActMove:
		return w.Move(act.DX, act.DY)
	case protocol.ActInteract:
		return w.Interact()
	case protocol.ActCombat:
		a, err := combatpkg.ParseAction(act.Combat)
		if err != nil {
			return w.reject(protocol.ErrBadRequest, err.Error())
		}
		return w.CombatAction(a, act.Slot)
	case protocol.ActCursor:
		return w.CombatCursor(act.DY + act.DX)
	case protocol.ActConfirm:
		return w.CombatConfirm()
	case protocol.ActUse:
		return w.UseItem(act.Slot)
	case protocol.ActEquip:
		return w.Equip(act.Slot)
	case protocol.ActBuy:
		return w.Buy(act.Slot)
	case protocol.ActOpen:
		m, err := ParseMode(act.Mode)
		if err != nil {
			return w.reject(protocol.ErrBadRequest, err.Error())
		}
		return w.OpenMode(m)
	case protocol.ActClose:
		return w.CloseMode()
	case protocol.ActSave:
		return w.Save()
	}
	return w.reject(protocol.ErrBadRequest, fmt.Sprintf("unknown action %q", act.Action))
}

// Save hands the current summary to the configured saver. A failure is
// reported to the player and logged; the session carries on.
func (w *World) Save() error {
	if w.save == nil {
		return w.reject(protocol.ErrBadRequest, "saving is disabled")
	}
	req := SaveRequest{Tick: w.tick, Ending: w.Ending(), Summary: w.Summary()}
	if err := w.save(req); err != nil {
		w.log.Error("save failed", zap.Error(err))
		return w.reject(protocol.ErrInternal, "save failed")
	}
	w.log.Info("saved", zap.Uint64("tick", w.tick))
	w.notify("saved")
	return nil
}

func actArgs(act protocol.ActMsg) string {
	switch act.Action {
	case protocol.ActMove, protocol.ActCursor:
		return fmt.Sprintf("%d,%d", act.DX, act.DY)
	case protocol.ActCombat:
		return fmt.Sprintf("%s:%d", act.Combat, act.Slot)
	case protocol.ActUse, protocol.ActEquip, protocol.ActBuy:
		return fmt.Sprint(act.Slot)
	case protocol.ActOpen:
		return act.Mode
	}
	return ""
}
