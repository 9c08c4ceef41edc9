package world

import (
	"fmt"

	"go.uber.org/zap"

	"neondrift.city/internal/sim/catalogs"
	"neondrift.city/internal/sim/gen"
	"neondrift.city/internal/sim/rng"
	"neondrift.city/internal/sim/tuning"
	combatpkg "neondrift.city/internal/sim/world/feature/combat"
	contaminationruntimepkg "neondrift.city/internal/sim/world/feature/contamination/runtime"
	watcherruntimepkg "neondrift.city/internal/sim/world/feature/watcher/runtime"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

type Config struct {
	Seed uint64
	Job  modelpkg.Job

	BaseFOV    int
	ViewRadius int
	DaySeconds float64

	WeatherChance float64
	SpreadChance  float64
	FleeChance    int
	DropChance    float64

	EventLogCap int
	MessageTTL  float64

	Watcher watcherruntimepkg.Config
	Spread  contaminationruntimepkg.Config
}

func ConfigFrom(t tuning.Tuning, seed uint64, job modelpkg.Job) Config {
	return Config{
		Seed:          seed,
		Job:           job,
		BaseFOV:       t.BaseFOV,
		ViewRadius:    t.ViewRadius,
		DaySeconds:    float64(t.DaySeconds),
		WeatherChance: t.Chances.WeatherChange,
		SpreadChance:  t.Chances.Spread,
		FleeChance:    t.Chances.Flee,
		DropChance:    t.Chances.DropRoll,
		EventLogCap:   t.EventLogCap,
		MessageTTL:    t.MessageTTL,
		Watcher: watcherruntimepkg.Config{
			RelocateMinSec: t.Watcher.RelocateMinSec,
			RelocateMaxSec: t.Watcher.RelocateMaxSec,
			DistMin:        t.Watcher.DistMin,
			DistMax:        t.Watcher.DistMax,
			NearDist:       t.Watcher.NearDist,
			StepMinDist:    t.Watcher.StepMinDist,
			StepChance:     t.Watcher.StepChance,
		},
		Spread: contaminationruntimepkg.Config{
			EligibleBelow: t.Spread.EligibleBelow,
			Step:          t.Spread.Step,
			Chance:        t.Spread.Chance,
		},
	}
}

func (c Config) withDefaults() Config {
	d := ConfigFrom(tuning.Defaults(), c.Seed, c.Job)
	if c.BaseFOV <= 0 {
		c.BaseFOV = d.BaseFOV
	}
	if c.ViewRadius <= 0 {
		c.ViewRadius = d.ViewRadius
	}
	if c.DaySeconds <= 0 {
		c.DaySeconds = d.DaySeconds
	}
	if c.WeatherChance <= 0 {
		c.WeatherChance = d.WeatherChance
	}
	if c.SpreadChance <= 0 {
		c.SpreadChance = d.SpreadChance
	}
	if c.FleeChance <= 0 {
		c.FleeChance = d.FleeChance
	}
	if c.DropChance <= 0 {
		c.DropChance = d.DropChance
	}
	if c.EventLogCap <= 0 {
		c.EventLogCap = d.EventLogCap
	}
	if c.MessageTTL <= 0 {
		c.MessageTTL = d.MessageTTL
	}
	return c
}

// ActionLogger records applied actions. Implemented in
// internal/persistence/log; may be nil.
type ActionLogger interface {
	WriteAction(entry ActionLogEntry) error
}

type ActionLogEntry struct {
	Tick    uint64  `json:"tick"`
	Elapsed float64 `json:"elapsed"`
	Action  string  `json:"action"`
	Args    string  `json:"args,omitempty"`
	Code    string  `json:"code,omitempty"`
	Pos     [2]int  `json:"pos"`
}

// World is the whole simulation for one session. It is not safe for
// concurrent use; Runner owns it when the session runs in real time.
type World struct {
	cfg Config
	cat *catalogs.Catalogs
	src rng.Source
	log *zap.Logger

	grid      *modelpkg.Grid
	player    *modelpkg.Player
	npcs      []modelpkg.NPC
	enemies   []modelpkg.Enemy
	nextEnemy modelpkg.EnemyID

	tick      uint64
	elapsed   float64
	timeOfDay float64
	weather   modelpkg.Weather

	events  *EventLog
	combat  combatpkg.State
	mode    Mode
	shopNPC int
	watcher watcherruntimepkg.State

	postMove  []postMoveHook
	actionLog ActionLogger
	save      SaveFunc
}

type Option func(*World)

func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithSource replaces the seeded source; tests pin outcomes with it.
func WithSource(src rng.Source) Option {
	return func(w *World) {
		if src != nil {
			w.src = src
		}
	}
}

func WithActionLogger(l ActionLogger) Option {
	return func(w *World) { w.actionLog = l }
}

// New builds a world around an already generated city. The player starts
// at the grid centre with the job's loadout.
func New(cfg Config, cat *catalogs.Catalogs, city *gen.Result, opts ...Option) (*World, error) {
	if cat == nil || city == nil || city.Grid == nil {
		return nil, fmt.Errorf("world: catalogs and city are required")
	}
	if cfg.Job >= modelpkg.JobCount {
		return nil, fmt.Errorf("world: unknown job %d", cfg.Job)
	}
	cfg = cfg.withDefaults()
	w := &World{
		cfg:       cfg,
		cat:       cat,
		src:       rng.New(cfg.Seed),
		log:       zap.NewNop(),
		grid:      city.Grid,
		npcs:      city.NPCs,
		enemies:   city.Enemies,
		nextEnemy: max(city.NextEnemyID, 1),
		weather:   modelpkg.WeatherRain,
		shopNPC:   -1,
	}
	for _, o := range opts {
		o(w)
	}
	for _, e := range w.enemies {
		if e.ID >= w.nextEnemy {
			w.nextEnemy = e.ID + 1
		}
	}
	w.events = NewEventLog(cfg.EventLogCap, cfg.MessageTTL, cfg.Seed)
	w.postMove = defaultPostMove()

	cx, cy := w.grid.Center()
	w.player = modelpkg.NewPlayer(cx, cy, cfg.Job)
	w.applyLoadout()
	w.log.Debug("world created",
		zap.Uint64("seed", cfg.Seed),
		zap.Stringer("job", cfg.Job),
		zap.Int("npcs", len(w.npcs)),
		zap.Int("enemies", len(w.enemies)))
	return w, nil
}

// Generate creates a city from cfg.Seed and wraps it in a world. The same
// seeded source drives generation and the session.
func Generate(cfg Config, gcfg gen.Config, cat *catalogs.Catalogs, opts ...Option) (*World, error) {
	src := rng.New(cfg.Seed)
	city, err := gen.Generate(src, gcfg, cat)
	if err != nil {
		return nil, err
	}
	return New(cfg, cat, city, append([]Option{WithSource(src)}, opts...)...)
}

func (w *World) Player() *modelpkg.Player     { return w.player }
func (w *World) Grid() *modelpkg.Grid         { return w.grid }
func (w *World) NPCs() []modelpkg.NPC         { return w.npcs }
func (w *World) Enemies() []modelpkg.Enemy    { return w.enemies }
func (w *World) Catalogs() *catalogs.Catalogs { return w.cat }
func (w *World) Events() *EventLog            { return w.events }
func (w *World) Combat() combatpkg.State      { return w.combat }
func (w *World) Mode() Mode                   { return w.mode }
func (w *World) Weather() modelpkg.Weather    { return w.weather }
func (w *World) TimeOfDay() float64           { return w.timeOfDay }
func (w *World) Elapsed() float64             { return w.elapsed }
func (w *World) TickCount() uint64            { return w.tick }
func (w *World) Config() Config               { return w.cfg }

// Watcher returns the roaming watcher's position, if it has been placed.
func (w *World) Watcher() (x, y int, ok bool) {
	return w.watcher.X, w.watcher.Y, w.watcher.Placed
}

func (w *World) notify(msg string) { w.events.Push(w.elapsed, msg) }

func (w *World) walkable(x, y int) bool {
	t, ok := w.grid.At(x, y)
	return ok && t.Walkable
}

func (w *World) enemyByID(id modelpkg.EnemyID) *modelpkg.Enemy {
	for i := range w.enemies {
		if w.enemies[i].ID == id {
			return &w.enemies[i]
		}
	}
	return nil
}

// grant adds one unit of a catalog item; it reports the display name.
func (w *World) grant(id string) (string, bool) {
	def, ok := w.cat.Items.Defs[id]
	if !ok {
		return "", false
	}
	if !w.player.Inventory.Add(def) {
		w.notify("inventory full: " + def.Name + " left behind")
		return def.Name, false
	}
	return def.Name, true
}
