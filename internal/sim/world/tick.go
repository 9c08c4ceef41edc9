package world

import (
	"math"

	"go.uber.org/zap"

	"neondrift.city/internal/sim/rng"
	contaminationruntimepkg "neondrift.city/internal/sim/world/feature/contamination/runtime"
	psycheruntimepkg "neondrift.city/internal/sim/world/feature/psyche/runtime"
	"neondrift.city/internal/sim/world/feature/reputation"
	survivalruntimepkg "neondrift.city/internal/sim/world/feature/survival/runtime"
	watcherruntimepkg "neondrift.city/internal/sim/world/feature/watcher/runtime"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

const watcherWarning = "something is watching you"

// Tick advances the ambient simulation by dt seconds of sim time. It takes
// no player input and runs in every mode.
func (w *World) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	w.elapsed += dt
	w.timeOfDay = math.Mod(w.elapsed, w.cfg.DaySeconds) / w.cfg.DaySeconds

	if rng.Chance(w.src, w.cfg.WeatherChance) {
		w.weather = modelpkg.Weather(w.src.IntN(int(modelpkg.WeatherCount)))
	}
	if rng.Chance(w.src, w.cfg.SpreadChance) {
		if n := contaminationruntimepkg.Spread(w.grid, w.src, w.cfg.Spread); n > 0 {
			w.player.Endings.Decay += n
		}
	}

	p := w.player
	watcherruntimepkg.Tick(&w.watcher, w.src, watcherruntimepkg.TickInput{
		DT:      dt,
		PlayerX: p.X,
		PlayerY: p.Y,
		W:       w.grid.W,
		H:       w.grid.H,
		Config:  w.cfg.Watcher,
	}, watcherruntimepkg.TickHooks{
		Walkable: w.walkable,
		Near: func(float64) {
			psycheruntimepkg.Proximity(&p.Psyche)
			p.Endings.Sync++
			w.events.PushOnce(w.elapsed, watcherWarning)
		},
	})

	if reputation.Tick(&p.Reputation, dt) {
		w.log.Debug("wanted level decayed", zap.Int("wanted", p.Reputation.Wanted))
	}
	w.events.Expire(w.elapsed)

	psycheruntimepkg.Drift(&p.Psyche, w.timeOfDay)
	survivalruntimepkg.Tick(&p.Stats, &p.Psyche)
	w.tick++
}
