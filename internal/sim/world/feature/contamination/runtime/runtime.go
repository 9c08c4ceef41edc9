package runtime

import (
	"neondrift.city/internal/sim/rng"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

const (
	DefaultEligibleBelow = 0.3
	DefaultStep          = 0.2
	DefaultChance        = 0.25
)

type Config struct {
	// EligibleBelow is the error level under which a neighbour can be raised.
	EligibleBelow float64
	Step          float64
	Chance        float64
}

func (c Config) withDefaults() Config {
	if c.EligibleBelow <= 0 {
		c.EligibleBelow = DefaultEligibleBelow
	}
	if c.Step <= 0 {
		c.Step = DefaultStep
	}
	if c.Chance <= 0 {
		c.Chance = DefaultChance
	}
	return c
}

var neighbours = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// Spread picks a random error tile and bleeds contamination into its
// walkable orthogonal neighbours. It returns how many tiles crossed the
// error threshold.
func Spread(g *modelpkg.Grid, src rng.Source, cfg Config) int {
	var sources []int
	for i := range g.Tiles {
		if g.Tiles[i].Errored() {
			sources = append(sources, i)
		}
	}
	if len(sources) == 0 {
		return 0
	}
	o := rng.Pick(src, sources)
	return SpreadFrom(g, o%g.W, o/g.W, src, cfg)
}

// SpreadFrom runs one spread pass around (ox,oy).
func SpreadFrom(g *modelpkg.Grid, ox, oy int, src rng.Source, cfg Config) int {
	cfg = cfg.withDefaults()
	crossed := 0
	for _, d := range neighbours {
		t, ok := g.At(ox+d[0], oy+d[1])
		if !ok || !t.Walkable || t.Error >= cfg.EligibleBelow {
			continue
		}
		if !rng.Chance(src, cfg.Chance) {
			continue
		}
		if Raise(t, cfg.Step) {
			crossed++
		}
	}
	return crossed
}

// Raise adds contamination to t, capped at 1. It reports whether t crossed
// the error threshold, switching its glyph when it did.
func Raise(t *modelpkg.Tile, amount float64) bool {
	was := t.Errored()
	t.Error = min(1, t.Error+amount)
	if !was && t.Errored() {
		if t.Interaction == modelpkg.InteractNone && t.Drop == "" {
			t.Glyph = modelpkg.GlyphError
		}
		return true
	}
	return false
}
