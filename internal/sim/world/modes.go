package world

import (
	"fmt"

	"neondrift.city/internal/protocol"
)

// Mode is the UI mode the session is in. Only ModeWorld accepts movement.
type Mode uint8

const (
	ModeWorld Mode = iota
	ModeCombat
	ModeInventory
	ModeQuests
	ModeCharacter
	ModeShop
)

var modeNames = [...]string{"world", "combat", "inventory", "quests", "character", "shop"}

func (m Mode) String() string {
	if int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", m)
	}
	return modeNames[m]
}

func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// OpenMode switches from the world to a menu. Combat and shop are entered
// through play, not requested directly.
func (w *World) OpenMode(m Mode) error {
	switch m {
	case ModeInventory, ModeQuests, ModeCharacter:
	default:
		return w.reject(protocol.ErrBadRequest, "cannot open "+m.String())
	}
	if w.mode != ModeWorld {
		return w.reject(protocol.ErrModeBusy, "busy: "+w.mode.String())
	}
	w.mode = m
	return nil
}

// CloseMode returns to the world from any menu. Combat can only end by
// resolution.
func (w *World) CloseMode() error {
	switch w.mode {
	case ModeCombat:
		return w.reject(protocol.ErrModeBusy, "cannot leave a fight")
	case ModeShop:
		w.shopNPC = -1
	case ModeWorld, ModeInventory, ModeQuests, ModeCharacter:
	}
	w.mode = ModeWorld
	return nil
}
