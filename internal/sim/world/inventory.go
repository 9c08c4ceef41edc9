package world

import (
	"errors"
	"fmt"

	"neondrift.city/internal/protocol"
	"neondrift.city/internal/sim/world/feature/quests"
	"neondrift.city/internal/sim/world/feature/shop"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

// UseItem consumes one unit from slot outside combat.
func (w *World) UseItem(slot int) error {
	if w.mode == ModeCombat {
		return w.reject(protocol.ErrModeBusy, "use items through the combat menu")
	}
	if _, err := w.consume(slot); err != nil {
		return err
	}
	w.advanceQuests(quests.Event{Kind: quests.EvRefresh, Here: w.hereNow()})
	return nil
}

// consume applies and removes one unit of the item in slot. Key items
// have no effect and stay in the inventory.
func (w *World) consume(slot int) (string, error) {
	p := w.player
	if slot < 0 || slot >= modelpkg.InventorySlots || p.Inventory.Slots[slot].Empty() {
		return "", w.reject(protocol.ErrEmptySlot, "no item")
	}
	def := p.Inventory.Slots[slot].Def
	if !def.Usable() {
		return "", w.reject(protocol.ErrNoEffect, def.Name+" has no effect")
	}
	p.Stats.HP += def.HPRestore
	p.Stats.Stress += def.StressDelta
	p.Stats.Hunger += def.HungerRestore
	if def.FOVBonus > 0 {
		p.FOVBonusTurns = max(p.FOVBonusTurns, def.Duration)
	}
	if def.StealthBonus > 0 {
		p.StealthTurns = max(p.StealthTurns, def.Duration)
	}
	p.Stats.Credits += def.CreditValue
	p.Stats.Clamp()
	p.Inventory.Take(slot)
	w.notify("used " + def.Name)
	return def.Name, nil
}

// Equip moves the item in slot to its equipment slot.
func (w *World) Equip(slot int) error {
	if w.mode == ModeCombat {
		return w.reject(protocol.ErrModeBusy, "cannot change gear in a fight")
	}
	inv := &w.player.Inventory
	if slot < 0 || slot >= modelpkg.InventorySlots || inv.Slots[slot].Empty() {
		return w.reject(protocol.ErrEmptySlot, "no item")
	}
	def := inv.Slots[slot].Def
	if !inv.Equip(slot) {
		return w.reject(protocol.ErrNotEquippable, def.Name+" cannot be equipped")
	}
	w.notify(fmt.Sprintf("equipped %s (%s)", def.Name, def.Slot))
	w.advanceQuests(quests.Event{Kind: quests.EvRefresh, Here: w.hereNow()})
	return nil
}

// Buy purchases the index-th listing of the open shop.
func (w *World) Buy(index int) error {
	if w.mode != ModeShop || w.shopNPC < 0 {
		return w.reject(protocol.ErrNoTarget, "no shop open")
	}
	listing := w.npcs[w.shopNPC].Shop
	if index < 0 || index >= len(listing) {
		return w.reject(protocol.ErrBadRequest, "no such item")
	}
	def, ok := w.cat.Items.Defs[listing[index]]
	if !ok {
		return w.reject(protocol.ErrBadRequest, "no such item")
	}
	price, err := shop.Buy(w.player, def)
	switch {
	case errors.Is(err, shop.ErrInsufficientFunds):
		return w.reject(protocol.ErrInsufficientFunds, fmt.Sprintf("not enough credits (%dc)", price))
	case errors.Is(err, shop.ErrInventoryFull):
		return w.reject(protocol.ErrInventoryFull, "inventory full")
	case err != nil:
		return &ActionError{Code: protocol.ErrInternal, Message: err.Error()}
	}
	w.notify(fmt.Sprintf("bought %s for %dc", def.Name, price))
	w.advanceQuests(quests.Event{Kind: quests.EvRefresh, Here: w.hereNow()})
	return nil
}

// ShopListing returns the open shop's items with discounted prices.
func (w *World) ShopListing() []ShopEntry {
	if w.mode != ModeShop || w.shopNPC < 0 {
		return nil
	}
	ids := w.npcs[w.shopNPC].Shop
	out := make([]ShopEntry, 0, len(ids))
	for _, id := range ids {
		def, ok := w.cat.Items.Defs[id]
		if !ok {
			continue
		}
		out = append(out, ShopEntry{Def: def, Price: shop.Price(def, &w.player.Reputation)})
	}
	return out
}

type ShopEntry struct {
	Def   modelpkg.ItemDef
	Price int
}
