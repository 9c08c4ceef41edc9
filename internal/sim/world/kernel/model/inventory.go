package model

const (
	InventorySlots     = 8
	InventoryMaxWeight = 20.0
)

// ItemDef is a read-only catalog entry.
type ItemDef struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Desc          string    `json:"desc"`
	Grade         string    `json:"grade"`
	Weight        float64   `json:"weight"`
	Stackable     bool      `json:"stackable"`
	Slot          EquipSlot `json:"slot"`
	HPRestore     float64   `json:"hp_restore"`
	StressDelta   float64   `json:"stress_delta"`
	HungerRestore float64   `json:"hunger_restore"`
	FOVBonus      int       `json:"fov_bonus"`
	StealthBonus  int       `json:"stealth_bonus"`
	AttackBonus   int       `json:"attack_bonus"`
	DefenseBonus  int       `json:"defense_bonus"`
	Duration      int       `json:"duration"`
	Price         int       `json:"price"`
	CreditValue   int       `json:"credit_value"`
}

func (d ItemDef) Equippable() bool { return d.Slot != SlotNone }

// Usable reports whether consuming the item changes anything.
// Key items (batteries, chips) are not usable.
func (d ItemDef) Usable() bool {
	return d.HPRestore != 0 || d.StressDelta != 0 || d.HungerRestore != 0 ||
		d.FOVBonus != 0 || d.StealthBonus != 0 || d.CreditValue != 0
}

// Stack is one inventory slot. Qty == 0 means empty.
type Stack struct {
	Def ItemDef
	Qty int
}

func (s Stack) Empty() bool { return s.Qty <= 0 }

type Inventory struct {
	Slots    [InventorySlots]Stack
	Equipped [SlotCount]ItemDef
}

// Weight sums carried (not equipped) items.
func (inv *Inventory) Weight() float64 {
	var w float64
	for _, s := range inv.Slots {
		if !s.Empty() {
			w += s.Def.Weight * float64(s.Qty)
		}
	}
	return w
}

// CanAdd reports whether one unit of def fits by weight and slot.
func (inv *Inventory) CanAdd(def ItemDef) bool {
	if inv.Weight()+def.Weight > InventoryMaxWeight {
		return false
	}
	if def.Stackable && inv.Find(def.ID) >= 0 {
		return true
	}
	return inv.freeSlot() >= 0
}

// Add stores one unit of def. It reports false and leaves the inventory
// untouched when weight or slots are exhausted.
func (inv *Inventory) Add(def ItemDef) bool {
	if !inv.CanAdd(def) {
		return false
	}
	if def.Stackable {
		if i := inv.Find(def.ID); i >= 0 {
			inv.Slots[i].Qty++
			return true
		}
	}
	i := inv.freeSlot()
	inv.Slots[i] = Stack{Def: def, Qty: 1}
	return true
}

// Find returns the first slot holding id, or -1.
func (inv *Inventory) Find(id string) int {
	for i, s := range inv.Slots {
		if !s.Empty() && s.Def.ID == id {
			return i
		}
	}
	return -1
}

func (inv *Inventory) Has(id string) bool { return inv.Find(id) >= 0 }

// Count returns how many units of id are carried.
func (inv *Inventory) Count(id string) int {
	n := 0
	for _, s := range inv.Slots {
		if !s.Empty() && s.Def.ID == id {
			n += s.Qty
		}
	}
	return n
}

// Take removes one unit from slot i.
func (inv *Inventory) Take(i int) {
	if i < 0 || i >= InventorySlots || inv.Slots[i].Empty() {
		return
	}
	inv.Slots[i].Qty--
	if inv.Slots[i].Qty <= 0 {
		inv.Slots[i] = Stack{}
	}
}

// Equip moves the item in slot i to its equipment slot; whatever was
// equipped there takes its place in the inventory.
func (inv *Inventory) Equip(i int) bool {
	if i < 0 || i >= InventorySlots {
		return false
	}
	s := inv.Slots[i]
	if s.Empty() || !s.Def.Equippable() {
		return false
	}
	old := inv.Equipped[s.Def.Slot]
	inv.Equipped[s.Def.Slot] = s.Def
	if s.Qty > 1 {
		inv.Slots[i].Qty--
		if old.ID != "" {
			if j := inv.freeSlot(); j >= 0 {
				inv.Slots[j] = Stack{Def: old, Qty: 1}
			}
		}
		return true
	}
	inv.Slots[i] = Stack{}
	if old.ID != "" {
		inv.Slots[i] = Stack{Def: old, Qty: 1}
	}
	return true
}

// EquippedHas reports whether id is equipped in any slot.
func (inv *Inventory) EquippedHas(id string) bool {
	if id == "" {
		return false
	}
	for _, d := range inv.Equipped {
		if d.ID == id {
			return true
		}
	}
	return false
}

func (inv *Inventory) AttackBonus() int {
	n := 0
	for _, d := range inv.Equipped {
		n += d.AttackBonus
	}
	return n
}

func (inv *Inventory) DefenseBonus() int {
	n := 0
	for _, d := range inv.Equipped {
		n += d.DefenseBonus
	}
	return n
}

func (inv *Inventory) freeSlot() int {
	for i, s := range inv.Slots {
		if s.Empty() {
			return i
		}
	}
	return -1
}
