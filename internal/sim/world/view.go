package world

import (
	"strings"

	"neondrift.city/internal/protocol"
	"neondrift.city/internal/sim/world/feature/reputation"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
	"neondrift.city/internal/sim/world/logic/mathx"
)

// View snapshots everything a client needs to draw the session. The result
// shares no memory with the world.
func (w *World) View() protocol.ViewMsg {
	p := w.player
	fov := p.FOVRadius(w.cfg.BaseFOV, w.weather)
	r := w.cfg.ViewRadius
	visible := func(x, y int) bool {
		return w.grid.In(x, y) && mathx.Euclid(x, y, p.X, p.Y) <= float64(fov)
	}

	v := protocol.ViewMsg{
		Type:            protocol.TypeView,
		ProtocolVersion: protocol.Version,
		Tick:            w.tick,
		Clock: protocol.ClockView{
			Elapsed:   w.elapsed,
			TimeOfDay: w.timeOfDay,
			Weather:   w.weather.String(),
		},
		Mode:      w.mode.String(),
		Player:    w.playerView(),
		Origin:    [2]int{p.X - r, p.Y - r},
		Radius:    r,
		Tiles:     make([]string, 0, 2*r+1),
		Entities:  []protocol.EntityView{},
		Distorted: p.Distorted(),
		Quests:    []protocol.QuestView{},
		Events:    w.events.Lines(),
		Ending:    &protocol.EndingView{Direction: w.Ending().String()},
	}

	var row strings.Builder
	for y := p.Y - r; y <= p.Y+r; y++ {
		row.Reset()
		for x := p.X - r; x <= p.X+r; x++ {
			if !visible(x, y) {
				row.WriteByte(' ')
				continue
			}
			t, _ := w.grid.At(x, y)
			row.WriteRune(t.Glyph)
		}
		v.Tiles = append(v.Tiles, row.String())
	}

	for _, n := range w.npcs {
		if visible(n.X, n.Y) {
			v.Entities = append(v.Entities, protocol.EntityView{
				Kind: "npc", ID: int(n.ID), Pos: [2]int{n.X, n.Y}, Name: n.Name, Role: n.Role.String(),
			})
		}
	}
	for _, e := range w.enemies {
		if e.Alive() && visible(e.X, e.Y) {
			v.Entities = append(v.Entities, protocol.EntityView{
				Kind: "enemy", ID: int(e.ID), Pos: [2]int{e.X, e.Y}, Name: e.Name,
			})
		}
	}
	if w.watcher.Placed && visible(w.watcher.X, w.watcher.Y) {
		v.Entities = append(v.Entities, protocol.EntityView{Kind: "watcher", Pos: [2]int{w.watcher.X, w.watcher.Y}})
	}

	if w.combat.Active {
		if e := w.enemyByID(w.combat.Enemy); e != nil {
			v.Combat = &protocol.CombatView{
				EnemyID:    int(e.ID),
				EnemyName:  e.Name,
				EnemyHP:    e.HP,
				EnemyMaxHP: e.MaxHP,
				Cursor:     w.combat.Cursor,
				Phase:      w.combat.Phase.String(),
				Result:     w.combat.Result.String(),
				Log:        append([]string(nil), w.combat.Log...),
			}
		}
	}
	if w.mode == ModeShop && w.shopNPC >= 0 {
		s := &protocol.ShopView{Merchant: w.npcs[w.shopNPC].Name, Items: []protocol.ShopItemView{}}
		for _, e := range w.ShopListing() {
			s.Items = append(s.Items, protocol.ShopItemView{ID: e.Def.ID, Name: e.Def.Name, Price: e.Price})
		}
		v.Shop = s
	}
	for _, q := range p.Active {
		qv := protocol.QuestView{ID: q.Def.ID, Title: q.Def.Title}
		for i, o := range q.Def.Objectives {
			qv.Objectives = append(qv.Objectives, protocol.ObjectiveView{Label: o.Label, Done: q.Done[i]})
		}
		v.Quests = append(v.Quests, qv)
	}
	if m, ok := w.events.Active(); ok {
		v.Active = m.Text
	}
	return v
}

func (w *World) playerView() protocol.PlayerView {
	p := w.player
	s := p.Stats
	zone := modelpkg.ZoneResidential
	if t, ok := w.grid.At(p.X, p.Y); ok {
		zone = t.Zone
	}
	pv := protocol.PlayerView{
		Pos:        [2]int{p.X, p.Y},
		Zone:       zone.String(),
		Job:        p.Job.String(),
		Level:      s.Level,
		XP:         s.XP,
		XPNext:     s.XPNext,
		Credits:    s.Credits,
		Attack:     p.TotalAttack(),
		Defense:    p.TotalDefense(),
		HP:         s.HP,
		MaxHP:      s.MaxHP,
		Stress:     s.Stress,
		Stamina:    s.Stamina,
		MaxStamina: s.MaxStamina,
		Hunger:     s.Hunger,
		Sleep:      s.Sleep,
		Fatigue:    p.Psyche.Fatigue,
		Isolation:  p.Psyche.Isolation,
		Stability:  p.Psyche.Stability,
		Anxiety:    p.Psyche.Anxiety,
		Wanted:     p.Reputation.Wanted,
		Reputation: make(map[string]int, len(modelpkg.Factions)),
		Sync:       p.Endings.Sync,
		Decay:      p.Endings.Decay,
		Network:    p.Endings.Network,

		FOVBonusTurns: p.FOVBonusTurns,
		StealthTurns:  p.StealthTurns,

		Skills:    make(map[string]protocol.SkillView, modelpkg.SkillCount),
		Inventory: []protocol.SlotView{},
		Equipped:  map[string]string{},
		Weight:    p.Inventory.Weight(),
	}
	for _, f := range modelpkg.Factions {
		pv.Reputation[f.String()] = p.Reputation.Score(f)
	}
	for k, sk := range s.Skills {
		pv.Skills[modelpkg.SkillKind(k).String()] = protocol.SkillView{Level: sk.Level, XP: sk.XP, XPNext: sk.XPNext}
	}
	for i, st := range p.Inventory.Slots {
		if st.Empty() {
			continue
		}
		pv.Inventory = append(pv.Inventory, protocol.SlotView{Slot: i, Item: st.Def.ID, Name: st.Def.Name, Qty: st.Qty})
	}
	for slot, d := range p.Inventory.Equipped {
		if d.ID != "" {
			pv.Equipped[modelpkg.EquipSlot(slot).String()] = d.ID
		}
	}
	return pv
}

// WantedLabel is the display name of the current wanted level.
func (w *World) WantedLabel() string {
	return reputation.WantedLabel(w.player.Reputation.Wanted)
}
