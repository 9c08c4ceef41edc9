package quests

import (
	"fmt"

	"neondrift.city/internal/sim/world/feature/reputation"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

const completionNetwork = 3

// citizensGiver quests end with the citizens vouching for the player, which
// clears any wanted level.
const citizensGiver = "citizens"

type EventKind uint8

const (
	// EvMove fires after every successful step.
	EvMove EventKind = iota
	EvTerminal
	EvCCTV
	EvTalk
	// EvRefresh re-evaluates state-based objectives without an action.
	EvRefresh
)

// Here is where the player stands when an event fires.
type Here struct {
	Zone    modelpkg.Zone
	Tile    int
	Errored bool
}

type Event struct {
	Kind    EventKind
	Here    Here
	Faction modelpkg.Faction
}

type Hooks struct {
	Notify func(msg string)
	// Grant adds one unit of an item by id.
	Grant func(id string) bool
}

type OfferStatus uint8

const (
	OfferAccepted OfferStatus = iota
	OfferAlreadyActive
	OfferAlreadyDone
)

// Offer accepts def unless it is already running or finished.
func Offer(p *modelpkg.Player, def modelpkg.QuestDef, giver string, h Hooks) OfferStatus {
	if p.Completed.Has(def.ID) {
		return OfferAlreadyDone
	}
	if p.ActiveQuest(def.ID) != nil {
		return OfferAlreadyActive
	}
	p.Active = append(p.Active, modelpkg.NewQuest(def, giver))
	notify(h, "quest accepted: "+def.Title)
	if def.GrantOnAccept != "" && h.Grant != nil {
		h.Grant(def.GrantOnAccept)
	}
	return OfferAccepted
}

// Advance feeds one event to every active quest and pays out any quest
// that became complete. It returns the ids completed by this event.
func Advance(p *modelpkg.Player, ev Event, h Hooks) []string {
	var done []*modelpkg.Quest
	for _, q := range p.Active {
		if q.Completed {
			continue
		}
		for i, o := range q.Def.Objectives {
			if q.Done[i] || !q.Ready(i) {
				continue
			}
			if matches(p, q, i, o, ev) && q.Complete(i) {
				notify(h, fmt.Sprintf("> %s: %s (%d/%d)", q.Def.Title, o.Label, q.DoneCount(), len(q.Done)))
			}
		}
		if q.Completed {
			done = append(done, q)
		}
	}
	ids := make([]string, 0, len(done))
	for _, q := range done {
		reward(p, q, h)
		ids = append(ids, q.Def.ID)
	}
	return ids
}

func matches(p *modelpkg.Player, q *modelpkg.Quest, i int, o modelpkg.Objective, ev Event) bool {
	switch o.Kind {
	case modelpkg.ObjEnterZone:
		return (ev.Kind == EvMove || ev.Kind == EvRefresh) && ev.Here.Zone == o.Zone
	case modelpkg.ObjContacts:
		q.Progress[i] = p.Contacts.Size()
		return q.Progress[i] >= o.Target()
	case modelpkg.ObjCarryItem:
		return p.Inventory.Has(o.Item)
	case modelpkg.ObjUseTerminal:
		return ev.Kind == EvTerminal && (o.AnyZone || ev.Here.Zone == o.Zone)
	case modelpkg.ObjTamperCCTV:
		if ev.Kind != EvCCTV {
			return false
		}
		q.Progress[i]++
		return q.Progress[i] >= o.Target()
	case modelpkg.ObjVisitErrorTiles:
		if ev.Kind != EvMove || !ev.Here.Errored {
			return false
		}
		q.Progress[i] = q.NoteErrorTile(ev.Here.Tile)
		return q.Progress[i] >= o.Target()
	case modelpkg.ObjErrorWithItem:
		return ev.Kind == EvMove && ev.Here.Errored && p.Inventory.EquippedHas(o.Item)
	case modelpkg.ObjTalkFaction:
		return ev.Kind == EvTalk && ev.Faction == o.Faction
	}
	return false
}

// reward pays out q and moves it from active to completed in one step.
func reward(p *modelpkg.Player, q *modelpkg.Quest, h Hooks) {
	d := q.Def
	p.Stats.Credits += d.RewardCredits
	p.Stats.GainXP(d.RewardXP)
	if d.RewardItem != "" && h.Grant != nil {
		h.Grant(d.RewardItem)
	}
	p.Endings.Network += completionNetwork
	for i, a := range p.Active {
		if a == q {
			p.Active = append(p.Active[:i], p.Active[i+1:]...)
			break
		}
	}
	p.Completed.Put(d.ID)
	p.CompletedOrder = append(p.CompletedOrder, d.ID)
	notify(h, fmt.Sprintf("quest complete: %s (+%dc)", d.Title, d.RewardCredits))
	if d.Giver == citizensGiver && p.Reputation.Wanted > 0 {
		reputation.ClearWanted(&p.Reputation)
		notify(h, "the citizens cover for you. wanted cleared")
	}
}

func notify(h Hooks, msg string) {
	if h.Notify != nil {
		h.Notify(msg)
	}
}
