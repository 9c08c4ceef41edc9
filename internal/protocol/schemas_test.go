package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"neondrift.city/internal/protocol"
	"neondrift.city/schemas"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		s, err := schemas.Compile(name)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var doc any
		if err := json.Unmarshal(b, &doc); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if err := s.Validate(doc); err != nil {
			t.Fatalf("validate %s: %v", b, err)
		}
	}

	validate(compile(schemas.Hello), protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      "tty",
		Role:            protocol.RoleController,
	})

	validate(compile(schemas.Welcome), protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       "0b7f1a52-3c8e-4b0e-9a57-2e1f4f0f1d11",
		Role:            protocol.RoleObserver,
		WorldParams:     protocol.WorldParams{Width: 120, Height: 80, TickMS: 70, DaySeconds: 600, BaseFOV: 8, Seed: 7},
		Catalogs:        protocol.CatalogDigests{ItemsDigest: "aa", QuestsDigest: "bb", EnemiesDigest: "cc", LinesDigest: "dd"},
	})

	act := compile(schemas.Act)
	validate(act, protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version, ID: "A1", Action: protocol.ActMove, DX: 1})
	validate(act, protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version, ID: "A2", Action: protocol.ActCombat, Combat: "flee"})
	validate(act, protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version, ID: "A3", Action: protocol.ActOpen, Mode: "inventory"})

	ack := compile(schemas.Ack)
	validate(ack, protocol.AckMsg{Type: protocol.TypeAck, ProtocolVersion: protocol.Version, Ref: "A1", OK: true})
	validate(ack, protocol.AckMsg{Type: protocol.TypeAck, ProtocolVersion: protocol.Version, Ref: "A2", Code: protocol.ErrBlocked, Message: "a wall"})

	validate(compile(schemas.View), protocol.ViewMsg{
		Type:            protocol.TypeView,
		ProtocolVersion: protocol.Version,
		Tick:            3,
		Clock:           protocol.ClockView{Elapsed: 0.21, TimeOfDay: 0.0003, Weather: "rain"},
		Mode:            "world",
		Player: protocol.PlayerView{
			Pos: [2]int{60, 40}, Zone: "low_signal", Job: "courier", Level: 1, Credits: 200, HP: 100, MaxHP: 100,
			Reputation: map[string]int{"corp": 0, "citizens": 1, "ghosts": 0},
			Inventory:  []protocol.SlotView{{Slot: 0, Item: "ration", Name: "Ration", Qty: 1}},
		},
		Origin:   [2]int{52, 32},
		Radius:   8,
		Tiles:    []string{"..=..", ".#.#."},
		Entities: []protocol.EntityView{{Kind: "npc", ID: 4, Pos: [2]int{61, 40}, Name: "Kai", Role: "merchant"}},
		Quests:   []protocol.QuestView{},
		Events:   []string{"rain again"},
		Ending:   &protocol.EndingView{Direction: "network"},
	})
}

func TestSchemas_RejectMalformedAct(t *testing.T) {
	s, err := schemas.Compile(schemas.Act)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for _, raw := range []string{
		`{"type":"ACT","protocol_version":"1.0","id":"A1","action":"TELEPORT"}`,
		`{"type":"ACT","protocol_version":"1.0","id":"A1","action":"MOVE","dx":2}`,
		`{"type":"ACT","protocol_version":"1.0","id":"A1","action":"COMBAT"}`,
		`{"type":"ACT","protocol_version":"1.0","action":"MOVE"}`,
	} {
		var doc any
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if err := s.Validate(doc); err == nil {
			t.Fatalf("expected %s to be rejected", raw)
		}
	}
}

func TestSchemas_SaveSummary(t *testing.T) {
	s, err := schemas.Compile(schemas.Save)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var good, bad any
	_ = json.Unmarshal([]byte(`{"pos":[3,4],"job":"taxi_driver","credits":600,"hp":80,"level":2,"xp":12,
	  "hunger":70,"sleep":55,"wanted":1,"emotions":[20,30,60,20]}`), &good)
	if err := s.Validate(good); err != nil {
		t.Fatalf("valid summary rejected: %v", err)
	}
	_ = json.Unmarshal([]byte(`{"pos":[3,4],"job":"taxi_driver","credits":600,"hp":80,"level":2,"xp":12,
	  "hunger":70,"sleep":55,"wanted":9,"emotions":[20,30,60]}`), &bad)
	if err := s.Validate(bad); err == nil {
		t.Fatalf("out-of-range summary accepted")
	}
}
