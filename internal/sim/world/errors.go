package world

import (
	"errors"

	"neondrift.city/internal/protocol"
)

// ActionError rejects a player action. The world state is unchanged when
// one is returned.
type ActionError struct {
	Code    string
	Message string
}

func (e *ActionError) Error() string { return e.Code + ": " + e.Message }

// Is matches any ActionError with the same code, so callers can test
// errors.Is(err, world.ErrBlocked).
func (e *ActionError) Is(target error) bool {
	t, ok := target.(*ActionError)
	return ok && t.Code == e.Code
}

var (
	ErrBadRequest        = &ActionError{Code: protocol.ErrBadRequest, Message: "bad request"}
	ErrModeBusy          = &ActionError{Code: protocol.ErrModeBusy, Message: "busy"}
	ErrBlocked           = &ActionError{Code: protocol.ErrBlocked, Message: "blocked"}
	ErrDoorLocked        = &ActionError{Code: protocol.ErrDoorLocked, Message: "door locked"}
	ErrNoTarget          = &ActionError{Code: protocol.ErrNoTarget, Message: "nothing here"}
	ErrInsufficientSkill = &ActionError{Code: protocol.ErrInsufficientSkill, Message: "skill too low"}
	ErrEmptySlot         = &ActionError{Code: protocol.ErrEmptySlot, Message: "empty slot"}
	ErrInsufficientFunds = &ActionError{Code: protocol.ErrInsufficientFunds, Message: "not enough credits"}
	ErrInventoryFull     = &ActionError{Code: protocol.ErrInventoryFull, Message: "inventory full"}
	ErrNotEquippable     = &ActionError{Code: protocol.ErrNotEquippable, Message: "cannot equip"}
	ErrNoEffect          = &ActionError{Code: protocol.ErrNoEffect, Message: "no effect"}
	ErrNoCombat          = &ActionError{Code: protocol.ErrNoCombat, Message: "not in combat"}
)

// Code extracts the protocol code from err, or E_INTERNAL for foreign
// errors and "" for nil.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return protocol.ErrInternal
}

// reject logs msg for the player and returns an ActionError under code.
func (w *World) reject(code, msg string) error {
	w.notify(msg)
	return &ActionError{Code: code, Message: msg}
}
