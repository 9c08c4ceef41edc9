package runtime

import (
	"math"

	"neondrift.city/internal/sim/rng"
	"neondrift.city/internal/sim/world/logic/mathx"
)

// Config bounds the watcher's behaviour; zero values take defaults.
type Config struct {
	RelocateMinSec float64
	RelocateMaxSec float64
	DistMin        float64
	DistMax        float64
	NearDist       float64
	StepMinDist    float64
	StepChance     float64
}

func (c Config) withDefaults() Config {
	if c.RelocateMinSec <= 0 {
		c.RelocateMinSec = 20
	}
	if c.RelocateMaxSec < c.RelocateMinSec {
		c.RelocateMaxSec = max(50, c.RelocateMinSec)
	}
	if c.DistMin <= 0 {
		c.DistMin = 10
	}
	if c.DistMax < c.DistMin {
		c.DistMax = max(22, c.DistMin)
	}
	if c.NearDist <= 0 {
		c.NearDist = 5
	}
	if c.StepMinDist <= 0 {
		c.StepMinDist = 3
	}
	if c.StepChance <= 0 {
		c.StepChance = 0.04
	}
	return c
}

// State is the roaming presence. It has no position until first placed.
type State struct {
	Placed    bool
	X, Y      int
	Timer     float64
	Threshold float64
}

type TickInput struct {
	DT               float64
	PlayerX, PlayerY int
	W, H             int
	Config           Config
}

type TickHooks struct {
	Walkable func(x, y int) bool
	// Near fires every tick the watcher is within NearDist of the player.
	Near func(dist float64)
}

// Tick advances the timer, relocates when it expires, applies proximity
// and occasionally steps toward the player. The watcher never fights.
func Tick(s *State, src rng.Source, in TickInput, hooks TickHooks) {
	cfg := in.Config.withDefaults()
	if s.Threshold <= 0 {
		s.Threshold = rng.Uniform(src, cfg.RelocateMinSec, cfg.RelocateMaxSec)
	}
	s.Timer += in.DT
	if s.Timer > s.Threshold {
		s.Timer = 0
		s.Threshold = rng.Uniform(src, cfg.RelocateMinSec, cfg.RelocateMaxSec)
		angle := rng.Uniform(src, 0, 2*math.Pi)
		dist := rng.Uniform(src, cfg.DistMin, cfg.DistMax)
		s.X = mathx.ClampInt(in.PlayerX+int(dist*math.Cos(angle)), 0, in.W-1)
		s.Y = mathx.ClampInt(in.PlayerY+int(dist*math.Sin(angle)), 0, in.H-1)
		s.Placed = true
	}
	if !s.Placed {
		return
	}

	d := mathx.Euclid(s.X, s.Y, in.PlayerX, in.PlayerY)
	if d < cfg.NearDist && hooks.Near != nil {
		hooks.Near(d)
	}
	if d > cfg.StepMinDist && rng.Chance(src, cfg.StepChance) {
		nx := s.X + mathx.Sign(in.PlayerX-s.X)
		ny := s.Y + mathx.Sign(in.PlayerY-s.Y)
		if hooks.Walkable != nil && hooks.Walkable(nx, ny) {
			s.X, s.Y = nx, ny
		}
	}
}
