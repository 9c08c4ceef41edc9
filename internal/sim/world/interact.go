package world

import (
	"fmt"

	"neondrift.city/internal/protocol"
	"neondrift.city/internal/sim/rng"
	movementruntimepkg "neondrift.city/internal/sim/world/feature/movement/runtime"
	psycheruntimepkg "neondrift.city/internal/sim/world/feature/psyche/runtime"
	"neondrift.city/internal/sim/world/feature/quests"
	"neondrift.city/internal/sim/world/feature/reputation"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

const (
	talkNegotiationXP = 8
	terminalXP        = 10
	cctvXP            = 15
	doorKey           = "battery"
)

// Interact talks to the first adjacent NPC, or failing that uses whatever
// object is on or next to the player's tile.
func (w *World) Interact() error {
	if w.mode != ModeWorld {
		return w.reject(protocol.ErrModeBusy, "busy: "+w.mode.String())
	}
	if i, ok := w.adjacentNPC(); ok {
		w.talk(i)
		return nil
	}
	return w.useObject()
}

func (w *World) adjacentNPC() (int, bool) {
	at := movementruntimepkg.Pos{X: w.player.X, Y: w.player.Y}
	for i := range w.npcs {
		if movementruntimepkg.Adjacent(at, movementruntimepkg.Pos{X: w.npcs[i].X, Y: w.npcs[i].Y}) {
			return i, true
		}
	}
	return -1, false
}

func (w *World) talk(i int) {
	p := w.player
	n := &w.npcs[i]
	n.Memory++
	p.Contacts.Put(n.ID)
	psycheruntimepkg.Contact(&p.Psyche)
	p.Endings.Network++
	p.Stats.SkillXP(modelpkg.SkillNegotiation, talkNegotiationXP)
	reputation.Modify(&p.Reputation, modelpkg.FactionCitizens, 1)
	n.Mood = min(1, n.Mood+0.05)

	switch n.Role {
	case modelpkg.RoleMerchant:
		w.mode = ModeShop
		w.shopNPC = i
		w.notify(fmt.Sprintf("%s: take a look.", n.Name))
	case modelpkg.RoleQuestGiver:
		w.offerQuest(n)
	case modelpkg.RoleFaction:
		if n.Mood > 0.5 {
			reputation.Modify(&p.Reputation, n.Faction, 5)
		} else {
			reputation.Modify(&p.Reputation, n.Faction, -2)
		}
		w.say(n)
	case modelpkg.RoleStranger:
		w.say(n)
	}
	w.advanceQuests(quests.Event{Kind: quests.EvTalk, Here: w.hereNow(), Faction: n.Faction})
}

func (w *World) say(n *modelpkg.NPC) {
	line := w.cat.Lines.Line(n.Role, n.Familiar(), w.src.IntN)
	w.notify(fmt.Sprintf("%s: %s", n.Name, line))
}

func (w *World) offerQuest(n *modelpkg.NPC) {
	def, ok := w.cat.Quests.ByID[n.QuestID]
	if !ok {
		w.say(n)
		return
	}
	switch quests.Offer(w.player, def, n.Name, w.questHooks()) {
	case quests.OfferAccepted:
		w.advanceQuests(quests.Event{Kind: quests.EvRefresh, Here: w.hereNow()})
	case quests.OfferAlreadyActive:
		w.notify(fmt.Sprintf("%s: still waiting on \"%s\".", n.Name, def.Title))
	case quests.OfferAlreadyDone:
		w.notify(fmt.Sprintf("%s: thanks again.", n.Name))
	}
}

func (w *World) hereNow() quests.Here {
	t, _ := w.grid.At(w.player.X, w.player.Y)
	return w.here(t)
}

var doorSearch = [5][2]int{{0, 0}, {0, -1}, {0, 1}, {-1, 0}, {1, 0}}

func (w *World) useObject() error {
	p := w.player
	t, _ := w.grid.At(p.X, p.Y)
	switch t.Interaction {
	case modelpkg.InteractTerminal:
		p.Stats.SkillXP(modelpkg.SkillDataResist, terminalXP)
		p.Endings.Sync++
		w.notify("terminal: the city's data flows through you")
		w.advanceQuests(quests.Event{Kind: quests.EvTerminal, Here: w.here(t)})
		return nil
	case modelpkg.InteractCCTV:
		p.Stats.SkillXP(modelpkg.SkillStealth, cctvXP)
		reputation.Modify(&p.Reputation, modelpkg.FactionCorp, -3)
		reputation.Modify(&p.Reputation, modelpkg.FactionCitizens, 2)
		t.Interaction = modelpkg.InteractNone
		t.Glyph = restingGlyph(t)
		w.notify("camera disabled")
		w.advanceQuests(quests.Event{Kind: quests.EvCCTV, Here: w.here(t)})
		return nil
	case modelpkg.InteractChest:
		return w.openChest(t)
	case modelpkg.InteractNone, modelpkg.InteractDoor:
	}

	for _, d := range doorSearch {
		door, ok := w.grid.At(p.X+d[0], p.Y+d[1])
		if ok && door.Interaction == modelpkg.InteractDoor {
			return w.openDoor(door)
		}
	}
	return w.reject(protocol.ErrNoTarget, "nobody around")
}

func (w *World) openDoor(t *modelpkg.Tile) error {
	slot := w.player.Inventory.Find(doorKey)
	if slot < 0 {
		return w.reject(protocol.ErrDoorLocked, "locked. a battery might power the lock")
	}
	w.player.Inventory.Take(slot)
	t.Interaction = modelpkg.InteractNone
	t.Walkable = true
	t.Glyph = restingGlyph(t)
	w.notify("the door slides open")
	return nil
}

func (w *World) openChest(t *modelpkg.Tile) error {
	if len(w.cat.Items.Order) == 0 {
		return w.reject(protocol.ErrNoTarget, "the chest is empty")
	}
	def := w.cat.Items.Defs[rng.Pick(w.src, w.cat.Items.Order)]
	if !w.player.Inventory.Add(def) {
		return w.reject(protocol.ErrInventoryFull, "inventory full")
	}
	t.Interaction = modelpkg.InteractNone
	t.Glyph = restingGlyph(t)
	w.notify("found " + def.Name)
	w.advanceQuests(quests.Event{Kind: quests.EvRefresh, Here: w.here(t)})
	return nil
}
