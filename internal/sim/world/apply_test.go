package world

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neondrift.city/internal/protocol"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

type memLog struct{ entries []ActionLogEntry }

func (m *memLog) WriteAction(e ActionLogEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func act(action string) protocol.ActMsg {
	return protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version, ID: "a1", Action: action}
}

func TestApplyDispatchesAndLogs(t *testing.T) {
	log := &memLog{}
	w := newTestWorld(t, modelpkg.JobCourier, WithActionLogger(log))

	mv := act(protocol.ActMove)
	mv.DX = 1
	require.NoError(t, w.Apply(mv))
	assert.Equal(t, 11, w.Player().X)

	err := w.Apply(act(protocol.ActInteract))
	assert.Equal(t, protocol.ErrNoTarget, Code(err))

	open := act(protocol.ActOpen)
	open.Mode = "character"
	require.NoError(t, w.Apply(open))
	assert.Equal(t, ModeCharacter, w.Mode())
	require.NoError(t, w.Apply(act(protocol.ActClose)))

	require.Len(t, log.entries, 4)
	assert.Equal(t, ActionLogEntry{Action: "MOVE", Args: "1,0", Pos: [2]int{11, 10}}, log.entries[0])
	assert.Equal(t, protocol.ErrNoTarget, log.entries[1].Code)
	assert.Equal(t, "character", log.entries[2].Args)
}

func TestApplyRejectsUnknownInput(t *testing.T) {
	w := newTestWorld(t, modelpkg.JobCourier)
	assert.ErrorIs(t, w.Apply(act("TELEPORT")), ErrBadRequest)

	c := act(protocol.ActCombat)
	c.Combat = "dance"
	assert.ErrorIs(t, w.Apply(c), ErrBadRequest)

	o := act(protocol.ActOpen)
	o.Mode = "map"
	assert.ErrorIs(t, w.Apply(o), ErrBadRequest)
}

func TestSaveUsesSaver(t *testing.T) {
	var got []SaveRequest
	w := newTestWorld(t, modelpkg.JobCourier, WithSaver(func(r SaveRequest) error {
		got = append(got, r)
		return nil
	}))
	require.NoError(t, w.Apply(act(protocol.ActSave)))
	require.Len(t, got, 1)
	assert.Equal(t, w.Summary(), got[0].Summary)
	assert.Equal(t, EndingSync, got[0].Ending)

	failing := newTestWorld(t, modelpkg.JobCourier, WithSaver(func(SaveRequest) error { return errors.New("disk full") }))
	err := failing.Save()
	assert.Equal(t, protocol.ErrInternal, Code(err))
	assert.Equal(t, "save failed", failing.Events().Lines()[0])

	assert.ErrorIs(t, newTestWorld(t, modelpkg.JobCourier).Save(), ErrBadRequest)
}

func TestUseAndEquip(t *testing.T) {
	w := newTestWorld(t, modelpkg.JobUnemployed)
	p := w.Player()
	knife := p.Inventory.Find("knife")
	require.NoError(t, w.Equip(knife))
	assert.Equal(t, "knife", p.Inventory.Equipped[modelpkg.SlotWeapon].ID)
	assert.Greater(t, p.TotalAttack(), p.Stats.Attack)

	stim := p.Inventory.Find("stim_pack")
	assert.ErrorIs(t, w.Equip(stim), ErrNotEquippable)
	p.Stats.HP = 10
	require.NoError(t, w.UseItem(stim))
	assert.Equal(t, 40.0, p.Stats.HP)
	assert.ErrorIs(t, w.UseItem(stim), ErrEmptySlot)

	w.grant("battery")
	bat := p.Inventory.Find("battery")
	assert.ErrorIs(t, w.UseItem(bat), ErrNoEffect)
	assert.True(t, p.Inventory.Has("battery"))
}

func TestCreditCardPaysOut(t *testing.T) {
	w := newTestWorld(t, modelpkg.JobTaxiDriver)
	require.NoError(t, w.UseItem(w.Player().Inventory.Find("credits_50")))
	assert.Equal(t, 450, w.Player().Stats.Credits)
}

func TestErrorsMatchByCode(t *testing.T) {
	err := error(&ActionError{Code: protocol.ErrBlocked, Message: "wall"})
	assert.True(t, errors.Is(err, ErrBlocked))
	assert.False(t, errors.Is(err, ErrDoorLocked))
	assert.Equal(t, "", Code(nil))
	assert.Equal(t, protocol.ErrInternal, Code(errors.New("boom")))
}
