package shop

import (
	"errors"

	"neondrift.city/internal/sim/world/feature/reputation"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

var (
	ErrInsufficientFunds = errors.New("not enough credits")
	ErrInventoryFull     = errors.New("inventory full")
)

// Price is def's cost after the citizens' discount, truncated.
func Price(def modelpkg.ItemDef, r *modelpkg.Reputation) int {
	return int(float64(def.Price) * reputation.Discount(r))
}

// Buy charges the player and adds one unit of def. On any error neither
// credits nor inventory change.
func Buy(p *modelpkg.Player, def modelpkg.ItemDef) (int, error) {
	price := Price(def, &p.Reputation)
	if p.Stats.Credits < price {
		return price, ErrInsufficientFunds
	}
	if !p.Inventory.Add(def) {
		return price, ErrInventoryFull
	}
	p.Stats.Credits -= price
	return price, nil
}
