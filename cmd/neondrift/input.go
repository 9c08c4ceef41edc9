package main

import (
	"github.com/gdamore/tcell/v2"

	"neondrift.city/internal/protocol"
)

// keyAct maps a key press in the given mode to an ACT. ok is false for keys
// with no meaning there.
func keyAct(mode string, ev *tcell.EventKey) (protocol.ActMsg, bool) {
	act := protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version}
	r := ev.Rune()
	if ev.Key() != tcell.KeyRune {
		r = 0
	}

	switch mode {
	case "combat":
		switch {
		case ev.Key() == tcell.KeyUp || r == 'k':
			act.Action, act.DY = protocol.ActCursor, -1
		case ev.Key() == tcell.KeyDown || r == 'j':
			act.Action, act.DY = protocol.ActCursor, 1
		case ev.Key() == tcell.KeyEnter:
			act.Action = protocol.ActConfirm
		case r == 'a':
			act.Action, act.Combat = protocol.ActCombat, "attack"
		case r == 's':
			act.Action, act.Combat = protocol.ActCombat, "skill"
		case r == 'f':
			act.Action, act.Combat = protocol.ActCombat, "flee"
		case r >= '1' && r <= '8':
			act.Action, act.Combat, act.Slot = protocol.ActCombat, "item", int(r-'1')
		default:
			return act, false
		}
		return act, true

	case "inventory":
		if r >= '1' && r <= '8' {
			act.Action, act.Slot = protocol.ActUse, int(r-'1')
			// Alt+digit equips instead.
			if ev.Modifiers()&tcell.ModAlt != 0 {
				act.Action = protocol.ActEquip
			}
			return act, true
		}
		return closeOrNothing(act, ev)

	case "shop":
		if r >= '1' && r <= '9' {
			act.Action, act.Slot = protocol.ActBuy, int(r-'1')
			return act, true
		}
		return closeOrNothing(act, ev)

	case "quests", "character":
		return closeOrNothing(act, ev)
	}

	switch {
	case ev.Key() == tcell.KeyUp || r == 'k':
		act.Action, act.DY = protocol.ActMove, -1
	case ev.Key() == tcell.KeyDown || r == 'j':
		act.Action, act.DY = protocol.ActMove, 1
	case ev.Key() == tcell.KeyLeft || r == 'h':
		act.Action, act.DX = protocol.ActMove, -1
	case ev.Key() == tcell.KeyRight || r == 'l':
		act.Action, act.DX = protocol.ActMove, 1
	case r == 'e':
		act.Action = protocol.ActInteract
	case r == 'i':
		act.Action, act.Mode = protocol.ActOpen, "inventory"
	case r == 'q':
		act.Action, act.Mode = protocol.ActOpen, "quests"
	case r == 'c':
		act.Action, act.Mode = protocol.ActOpen, "character"
	case r == 'S':
		act.Action = protocol.ActSave
	default:
		return act, false
	}
	return act, true
}

func closeOrNothing(act protocol.ActMsg, ev *tcell.EventKey) (protocol.ActMsg, bool) {
	if ev.Key() == tcell.KeyEscape || (ev.Key() == tcell.KeyRune && ev.Rune() == 'x') {
		act.Action = protocol.ActClose
		return act, true
	}
	return act, false
}
