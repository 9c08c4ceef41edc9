package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"neondrift.city/internal/protocol"
)

func TestKeyAct(t *testing.T) {
	cases := []struct {
		name   string
		mode   string
		ev     *tcell.EventKey
		action string
		want   func(protocol.ActMsg) bool
	}{
		{"arrow moves", "world", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), protocol.ActMove,
			func(a protocol.ActMsg) bool { return a.DX == -1 && a.DY == 0 }},
		{"vi key moves", "world", tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), protocol.ActMove,
			func(a protocol.ActMsg) bool { return a.DY == 1 }},
		{"open quests", "world", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), protocol.ActOpen,
			func(a protocol.ActMsg) bool { return a.Mode == "quests" }},
		{"use slot", "inventory", tcell.NewEventKey(tcell.KeyRune, '3', tcell.ModNone), protocol.ActUse,
			func(a protocol.ActMsg) bool { return a.Slot == 2 }},
		{"equip slot", "inventory", tcell.NewEventKey(tcell.KeyRune, '1', tcell.ModAlt), protocol.ActEquip,
			func(a protocol.ActMsg) bool { return a.Slot == 0 }},
		{"escape closes", "character", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), protocol.ActClose, nil},
		{"buy", "shop", tcell.NewEventKey(tcell.KeyRune, '2', tcell.ModNone), protocol.ActBuy,
			func(a protocol.ActMsg) bool { return a.Slot == 1 }},
		{"combat item", "combat", tcell.NewEventKey(tcell.KeyRune, '4', tcell.ModNone), protocol.ActCombat,
			func(a protocol.ActMsg) bool { return a.Combat == "item" && a.Slot == 3 }},
		{"combat cursor", "combat", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), protocol.ActCursor,
			func(a protocol.ActMsg) bool { return a.DY == -1 }},
		{"confirm", "combat", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), protocol.ActConfirm, nil},
	}
	for _, tc := range cases {
		act, ok := keyAct(tc.mode, tc.ev)
		if !ok {
			t.Fatalf("%s: key ignored", tc.name)
		}
		if act.Action != tc.action {
			t.Fatalf("%s: action=%s want=%s", tc.name, act.Action, tc.action)
		}
		if act.Type != protocol.TypeAct || act.ProtocolVersion != protocol.Version {
			t.Fatalf("%s: envelope not filled: %+v", tc.name, act)
		}
		if tc.want != nil && !tc.want(act) {
			t.Fatalf("%s: unexpected act %+v", tc.name, act)
		}
	}
}

func TestKeyActIgnoresMovementOutsideWorld(t *testing.T) {
	for _, mode := range []string{"inventory", "quests", "character", "shop"} {
		if _, ok := keyAct(mode, tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)); ok {
			t.Fatalf("%s: arrow key should be ignored", mode)
		}
	}
}

func TestHUDShowsShopListing(t *testing.T) {
	v := protocol.ViewMsg{
		Mode: "shop",
		Shop: &protocol.ShopView{Merchant: "Vex", Items: []protocol.ShopItemView{{ID: "ration", Name: "Ration", Price: 20}}},
	}
	lines := hud(v)
	found := false
	for _, l := range lines {
		if l == "1 Ration 20c" {
			found = true
		}
	}
	if !found {
		t.Fatalf("shop line missing: %q", lines)
	}
}
