package tuning

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	MapWidth   int `yaml:"map_width"`
	MapHeight  int `yaml:"map_height"`
	TickMS     int `yaml:"tick_ms"`
	DaySeconds int `yaml:"day_seconds"`
	BaseFOV    int `yaml:"base_fov"`
	// ViewRadius bounds the tile window sent in VIEW; it is never smaller
	// than the largest possible field of view.
	ViewRadius int `yaml:"view_radius"`

	Chances Chances `yaml:"chances"`
	Watcher Watcher `yaml:"watcher"`
	Spread  Spread  `yaml:"contamination"`
	Gen     Gen     `yaml:"generation"`

	EventLogCap  int     `yaml:"event_log_cap"`
	MessageTTL   float64 `yaml:"message_ttl_sec"`
	ViewQueueLen int     `yaml:"view_queue_len"`

	Save    Save    `yaml:"save"`
	Logging Logging `yaml:"logging"`
}

type Chances struct {
	WeatherChange float64 `yaml:"weather_change"`
	Spread        float64 `yaml:"spread"`
	Flee          int     `yaml:"flee"`
	DropRoll      float64 `yaml:"drop_roll"`
}

type Watcher struct {
	RelocateMinSec float64 `yaml:"relocate_min_sec"`
	RelocateMaxSec float64 `yaml:"relocate_max_sec"`
	DistMin        float64 `yaml:"dist_min"`
	DistMax        float64 `yaml:"dist_max"`
	NearDist       float64 `yaml:"near_dist"`
	StepMinDist    float64 `yaml:"step_min_dist"`
	StepChance     float64 `yaml:"step_chance"`
}

type Spread struct {
	EligibleBelow float64 `yaml:"eligible_below"`
	Step          float64 `yaml:"step"`
	Chance        float64 `yaml:"chance"`
}

type Gen struct {
	Terminals    int `yaml:"terminals"`
	Doors        int `yaml:"doors"`
	CCTVs        int `yaml:"cctvs"`
	Drops        int `yaml:"drops"`
	Chests       int `yaml:"chests"`
	NPCs         int `yaml:"npcs"`
	EnemyTries   int `yaml:"enemy_tries"`
	StartClear   int `yaml:"start_clear"`
	EnemyKeepOut int `yaml:"enemy_keep_out"`
}

type Save struct {
	Dir      string `yaml:"dir"`
	File     string `yaml:"file"`
	IndexDB  string `yaml:"index_db"`
	LogDir   string `yaml:"log_dir"`
	Compress bool   `yaml:"compress"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		MapWidth:        120,
		MapHeight:       80,
		TickMS:          70,
		DaySeconds:      600,
		BaseFOV:         8,
		ViewRadius:      13,
		Chances: Chances{
			WeatherChange: 0.0008,
			Spread:        0.004,
			Flee:          40,
			DropRoll:      0.5,
		},
		Watcher: Watcher{
			RelocateMinSec: 20,
			RelocateMaxSec: 50,
			DistMin:        10,
			DistMax:        22,
			NearDist:       5,
			StepMinDist:    3,
			StepChance:     0.04,
		},
		Spread: Spread{EligibleBelow: 0.3, Step: 0.2, Chance: 0.25},
		Gen: Gen{
			Terminals:    20,
			Doors:        15,
			CCTVs:        12,
			Drops:        25,
			Chests:       8,
			NPCs:         100,
			EnemyTries:   60,
			StartClear:   4,
			EnemyKeepOut: 15,
		},
		EventLogCap:  7,
		MessageTTL:   3.5,
		ViewQueueLen: 4,
		Save: Save{
			Dir:      "./data",
			File:     "neon_save.json.zst",
			IndexDB:  "saves.sqlite",
			LogDir:   "logs",
			Compress: true,
		},
		Logging: Logging{Level: "info", Format: "console"},
	}
}

// Load reads path on top of Defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	var errs []error
	if t.MapWidth < 16 || t.MapHeight < 16 {
		errs = append(errs, fmt.Errorf("map must be at least 16x16, got %dx%d", t.MapWidth, t.MapHeight))
	}
	if t.TickMS <= 0 {
		errs = append(errs, fmt.Errorf("tick_ms must be positive"))
	}
	if t.DaySeconds <= 0 {
		errs = append(errs, fmt.Errorf("day_seconds must be positive"))
	}
	if t.BaseFOV < 3 {
		errs = append(errs, fmt.Errorf("base_fov must be >= 3"))
	}
	if t.ViewRadius < t.BaseFOV+5 {
		errs = append(errs, fmt.Errorf("view_radius %d cannot show a buffed fov of %d", t.ViewRadius, t.BaseFOV+5))
	}
	for name, p := range map[string]float64{
		"chances.weather_change": t.Chances.WeatherChange,
		"chances.spread":         t.Chances.Spread,
		"chances.drop_roll":      t.Chances.DropRoll,
		"watcher.step_chance":    t.Watcher.StepChance,
		"contamination.chance":   t.Spread.Chance,
	} {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("%s must be in [0,1], got %v", name, p))
		}
	}
	if t.Chances.Flee < 0 || t.Chances.Flee > 100 {
		errs = append(errs, fmt.Errorf("chances.flee must be a percentage"))
	}
	if t.Watcher.RelocateMaxSec < t.Watcher.RelocateMinSec || t.Watcher.DistMax < t.Watcher.DistMin {
		errs = append(errs, fmt.Errorf("watcher ranges are inverted"))
	}
	if t.EventLogCap <= 0 || t.MessageTTL <= 0 {
		errs = append(errs, fmt.Errorf("event_log_cap and message_ttl_sec must be positive"))
	}
	if t.ViewQueueLen <= 0 {
		errs = append(errs, fmt.Errorf("view_queue_len must be positive"))
	}
	switch t.Logging.Format {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not json or console", t.Logging.Format))
	}
	return errors.Join(errs...)
}

// Digest fingerprints the effective values, so a client can tell two
// servers with different tuning apart.
func (t Tuning) Digest() string {
	b, _ := yaml.Marshal(t)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
