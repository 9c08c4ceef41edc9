package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrProtoRole       = "E_PROTO_ROLE"

	// Rule/action layer.
	ErrBadRequest        = "E_BAD_REQUEST"
	ErrModeBusy          = "E_MODE_BUSY"
	ErrBlocked           = "E_BLOCKED"
	ErrDoorLocked        = "E_DOOR_LOCKED"
	ErrNoTarget          = "E_NO_TARGET"
	ErrInsufficientSkill = "E_INSUFFICIENT_SKILL"
	ErrEmptySlot         = "E_EMPTY_SLOT"
	ErrInsufficientFunds = "E_INSUFFICIENT_FUNDS"
	ErrInventoryFull     = "E_INVENTORY_FULL"
	ErrNotEquippable     = "E_NOT_EQUIPPABLE"
	ErrNoEffect          = "E_NO_EFFECT"
	ErrNoCombat          = "E_NO_COMBAT"
	ErrInternal          = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:   {},
	ErrProtoRole:         {},
	ErrBadRequest:        {},
	ErrModeBusy:          {},
	ErrBlocked:           {},
	ErrDoorLocked:        {},
	ErrNoTarget:          {},
	ErrInsufficientSkill: {},
	ErrEmptySlot:         {},
	ErrInsufficientFunds: {},
	ErrInventoryFull:     {},
	ErrNotEquippable:     {},
	ErrNoEffect:          {},
	ErrNoCombat:          {},
	ErrInternal:          {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
