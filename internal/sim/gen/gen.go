// Package gen builds the city: tile layout, interactive objects, the NPC
// roster and the initial enemy roster.
package gen

import (
	"fmt"
	"math"

	"neondrift.city/internal/sim/catalogs"
	"neondrift.city/internal/sim/rng"
	"neondrift.city/internal/sim/tuning"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
	"neondrift.city/internal/sim/world/logic/mathx"
)

type Config struct {
	W, H int

	Terminals int
	Doors     int
	CCTVs     int
	Drops     int
	Chests    int

	NPCs int
	// EnemyTries is the number of spawn attempts, not the enemy count.
	EnemyTries   int
	StartClear   int
	EnemyKeepOut int
}

func ConfigFrom(t tuning.Tuning) Config {
	return Config{
		W:            t.MapWidth,
		H:            t.MapHeight,
		Terminals:    t.Gen.Terminals,
		Doors:        t.Gen.Doors,
		CCTVs:        t.Gen.CCTVs,
		Drops:        t.Gen.Drops,
		Chests:       t.Gen.Chests,
		NPCs:         t.Gen.NPCs,
		EnemyTries:   t.Gen.EnemyTries,
		StartClear:   t.Gen.StartClear,
		EnemyKeepOut: t.Gen.EnemyKeepOut,
	}
}

type Result struct {
	Grid    *modelpkg.Grid
	NPCs    []modelpkg.NPC
	Enemies []modelpkg.Enemy
	// NextEnemyID is the first free roster handle.
	NextEnemyID modelpkg.EnemyID
}

// ZoneAt lays districts out by quadrant around a low-signal core.
func ZoneAt(x, y, w, h int) modelpkg.Zone {
	cx, cy := float64(x)/float64(w), float64(y)/float64(h)
	if math.Hypot(cx-0.5, cy-0.5) < 0.15 {
		return modelpkg.ZoneLowSignal
	}
	switch {
	case cx < 0.5 && cy < 0.5:
		return modelpkg.ZoneNeonCommercial
	case cx >= 0.5 && cy < 0.5:
		return modelpkg.ZoneRooftopNetwork
	case cx < 0.5:
		return modelpkg.ZoneResidential
	default:
		return modelpkg.ZoneIndustrial
	}
}

var enemyKinds = [modelpkg.ZoneCount][]string{
	modelpkg.ZoneNeonCommercial: {"drone"},
	modelpkg.ZoneResidential:    {"gang", "drone"},
	modelpkg.ZoneLowSignal:      {"gang", "error"},
	modelpkg.ZoneIndustrial:     {"drone", "error"},
	modelpkg.ZoneRooftopNetwork: {"drone", "gang"},
}

func Generate(src rng.Source, cfg Config, cat *catalogs.Catalogs) (*Result, error) {
	if cfg.W <= 0 || cfg.H <= 0 {
		return nil, fmt.Errorf("gen: bad map size %dx%d", cfg.W, cfg.H)
	}
	if cat == nil || len(cat.Items.Order) == 0 {
		return nil, fmt.Errorf("gen: item catalog is empty")
	}
	g := layout(src, cfg)
	place(g, src, cfg, cat)
	res := &Result{Grid: g}
	res.NPCs = npcs(g, src, cfg, cat)
	res.Enemies, res.NextEnemyID = enemies(g, src, cfg, cat)
	return res, nil
}

func layout(src rng.Source, cfg Config) *modelpkg.Grid {
	g := modelpkg.NewGrid(cfg.W, cfg.H)
	g.Each(func(x, y int, t *modelpkg.Tile) {
		z := ZoneAt(x, y, cfg.W, cfg.H)
		*t = modelpkg.Tile{Glyph: modelpkg.GlyphFloor, Zone: z, Walkable: true}

		r := src.Float64()
		switch {
		case r < 0.10:
			t.Glyph, t.Walkable = modelpkg.GlyphBuilding, false
		case r < 0.14:
			t.Glyph, t.Walkable = modelpkg.GlyphWall, false
		case r < 0.18:
			t.Glyph = modelpkg.GlyphRoad
		case r < 0.20 && z == modelpkg.ZoneNeonCommercial:
			t.Glyph, t.Neon = modelpkg.GlyphNeon, true
		case r < 0.22 && (z == modelpkg.ZoneIndustrial || z == modelpkg.ZoneLowSignal):
			t.Glyph = modelpkg.GlyphError
			t.Error = rng.Uniform(src, 0.3, 0.8)
		}
		if z == modelpkg.ZoneNeonCommercial && t.Walkable && rng.Chance(src, 0.04) {
			t.Glyph, t.Neon = modelpkg.GlyphNeon, true
		}
	})
	return g
}

func randomTile(g *modelpkg.Grid, src rng.Source) *modelpkg.Tile {
	t, _ := g.At(src.IntN(g.W), src.IntN(g.H))
	return t
}

// place scatters interactive objects and loose items, then clears the
// start area. Each count is a number of attempts.
func place(g *modelpkg.Grid, src rng.Source, cfg Config, cat *catalogs.Catalogs) {
	for range cfg.Terminals {
		if t := randomTile(g, src); t.Walkable {
			t.Interaction, t.Glyph = modelpkg.InteractTerminal, modelpkg.GlyphTerminal
		}
	}
	// Doors sit in walls and buildings; they block until opened.
	for range cfg.Doors {
		if t := randomTile(g, src); !t.Walkable {
			t.Interaction, t.Glyph = modelpkg.InteractDoor, modelpkg.GlyphDoor
		}
	}
	for range cfg.CCTVs {
		if t := randomTile(g, src); t.Walkable {
			t.Interaction, t.Glyph = modelpkg.InteractCCTV, modelpkg.GlyphCCTV
		}
	}
	for range cfg.Chests {
		if t := randomTile(g, src); t.Walkable && t.Interaction == modelpkg.InteractNone {
			t.Interaction, t.Glyph = modelpkg.InteractChest, modelpkg.GlyphChest
		}
	}
	for range cfg.Drops {
		if t := randomTile(g, src); t.Walkable {
			t.Drop = rng.Pick(src, cat.Items.Order)
			t.Glyph = modelpkg.GlyphItem
		}
	}

	cx, cy := g.Center()
	for dy := -cfg.StartClear; dy <= cfg.StartClear; dy++ {
		for dx := -cfg.StartClear; dx <= cfg.StartClear; dx++ {
			if t, ok := g.At(cx+dx, cy+dy); ok {
				t.Glyph, t.Walkable = modelpkg.GlyphFloor, true
				t.Interaction, t.Drop = modelpkg.InteractNone, ""
				t.Neon, t.Error = false, 0
			}
		}
	}
}

const npcPlacementBudget = 10000

func roleMix(n int) []modelpkg.Role {
	// 60% strangers, 15% merchants, 10% quest givers, 15% faction members.
	counts := [...]struct {
		role modelpkg.Role
		pct  int
	}{
		{modelpkg.RoleStranger, 60},
		{modelpkg.RoleMerchant, 15},
		{modelpkg.RoleQuestGiver, 10},
		{modelpkg.RoleFaction, 15},
	}
	roles := make([]modelpkg.Role, 0, n)
	for _, c := range counts[1:] {
		for range n * c.pct / 100 {
			roles = append(roles, c.role)
		}
	}
	for len(roles) < n {
		roles = append(roles, modelpkg.RoleStranger)
	}
	return roles
}

func npcs(g *modelpkg.Grid, src rng.Source, cfg Config, cat *catalogs.Catalogs) []modelpkg.NPC {
	roles := roleMix(cfg.NPCs)
	rng.Shuffle(src, roles)

	out := make([]modelpkg.NPC, 0, len(roles))
	attempts := 0
	for _, role := range roles {
		for attempts < npcPlacementBudget {
			attempts++
			x := rng.Between(src, 1, g.W-2)
			y := rng.Between(src, 1, g.H-2)
			t, ok := g.At(x, y)
			if !ok || !t.Walkable {
				continue
			}
			n := modelpkg.NPC{
				ID:   modelpkg.NPCID(len(out)),
				X:    x,
				Y:    y,
				Role: role,
				Zone: t.Zone,
				Mood: 0.5,
				Name: cat.Lines.RoleNames[role.String()],
			}
			switch role {
			case modelpkg.RoleMerchant:
				stock := append([]string(nil), cat.Items.Order...)
				rng.Shuffle(src, stock)
				n.Shop = stock[:min(4, len(stock))]
			case modelpkg.RoleQuestGiver:
				if len(cat.Quests.Order) > 0 {
					n.QuestID = rng.Pick(src, cat.Quests.Order)
				}
			case modelpkg.RoleFaction:
				n.Faction = rng.Pick(src, modelpkg.Factions[:])
				n.Name = cat.Lines.FactionNames[n.Faction.String()]
			case modelpkg.RoleStranger:
			}
			if n.Name == "" {
				n.Name = "Citizen"
			}
			out = append(out, n)
			break
		}
	}
	return out
}

func enemies(g *modelpkg.Grid, src rng.Source, cfg Config, cat *catalogs.Catalogs) ([]modelpkg.Enemy, modelpkg.EnemyID) {
	cx, cy := g.Center()
	var out []modelpkg.Enemy
	next := modelpkg.EnemyID(1)
	for range cfg.EnemyTries {
		x := rng.Between(src, 1, g.W-2)
		y := rng.Between(src, 1, g.H-2)
		if mathx.AbsInt(x-cx) < cfg.EnemyKeepOut && mathx.AbsInt(y-cy) < cfg.EnemyKeepOut {
			continue
		}
		t, ok := g.At(x, y)
		if !ok || !t.Walkable {
			continue
		}
		kind := rng.Pick(src, enemyKinds[t.Zone])
		tpl, ok := cat.Enemies.ByKind[kind]
		if !ok {
			continue
		}
		out = append(out, tpl.Spawn(next, x, y))
		next++
	}
	return out, next
}
