package catalogs

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

//go:embed data/*.json
var embedded embed.FS

type Catalogs struct {
	Items   ItemCatalog
	Quests  QuestCatalog
	Enemies EnemyCatalog
	Lines   LineCatalog
}

// ItemCatalog keeps file order in Order; generation and chests draw from it.
type ItemCatalog struct {
	Order  []string
	Defs   map[string]modelpkg.ItemDef
	Digest string
}

type QuestCatalog struct {
	Order  []string
	ByID   map[string]modelpkg.QuestDef
	Digest string
}

type EnemyCatalog struct {
	ByKind map[string]modelpkg.EnemyTemplate
	Digest string
}

type LineCatalog struct {
	NPC          map[string][]string `json:"npc"`
	Familiar     []string            `json:"familiar"`
	RoleNames    map[string]string   `json:"role_names"`
	FactionNames map[string]string   `json:"faction_names"`
	ZoneEvents   map[string][]string `json:"zone_events"`
	Digest       string              `json:"-"`
}

// Default loads the catalogs compiled into the binary.
func Default() (*Catalogs, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// Load reads items.json, quests.json, enemies.json and lines.json from
// configDir.
func Load(configDir string) (*Catalogs, error) {
	return LoadFS(os.DirFS(configDir))
}

func LoadFS(fsys fs.FS) (*Catalogs, error) {
	var c Catalogs
	if err := loadItems(fsys, &c.Items); err != nil {
		return nil, err
	}
	if err := loadEnemies(fsys, &c.Enemies); err != nil {
		return nil, err
	}
	if err := loadQuests(fsys, &c.Quests); err != nil {
		return nil, err
	}
	if err := loadLines(fsys, &c.Lines); err != nil {
		return nil, err
	}
	if err := c.crossCheck(); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadItems(fsys fs.FS, out *ItemCatalog) error {
	raw, err := fs.ReadFile(fsys, "items.json")
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []modelpkg.ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.Defs = make(map[string]modelpkg.ItemDef, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("items.json: empty id")
		}
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("items.json: duplicate id %s", d.ID)
		}
		if d.Weight < 0 || d.Price < 0 {
			return fmt.Errorf("items.json: %s has negative weight or price", d.ID)
		}
		out.Defs[d.ID] = d
		out.Order = append(out.Order, d.ID)
	}
	return nil
}

func loadEnemies(fsys fs.FS, out *EnemyCatalog) error {
	raw, err := fs.ReadFile(fsys, "enemies.json")
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []modelpkg.EnemyTemplate
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("enemies.json: %w", err)
	}
	out.ByKind = make(map[string]modelpkg.EnemyTemplate, len(defs))
	for _, d := range defs {
		if d.Kind == "" || d.HP <= 0 {
			return fmt.Errorf("enemies.json: %q needs a kind and positive hp", d.Kind)
		}
		out.ByKind[d.Kind] = d
	}
	return nil
}

func loadQuests(fsys fs.FS, out *QuestCatalog) error {
	raw, err := fs.ReadFile(fsys, "quests.json")
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []modelpkg.QuestDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("quests.json: %w", err)
	}
	out.ByID = make(map[string]modelpkg.QuestDef, len(defs))
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("quests.json: %w", err)
		}
		out.ByID[d.ID] = d
		out.Order = append(out.Order, d.ID)
	}
	return nil
}

func loadLines(fsys fs.FS, out *LineCatalog) error {
	raw, err := fs.ReadFile(fsys, "lines.json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("lines.json: %w", err)
	}
	out.Digest = sha256Hex(raw)
	if len(out.NPC[modelpkg.RoleStranger.String()]) == 0 {
		return fmt.Errorf("lines.json: stranger lines are required")
	}
	return nil
}

// crossCheck verifies that ids referenced between catalogs exist.
func (c *Catalogs) crossCheck() error {
	for _, e := range c.Enemies.ByKind {
		for _, d := range e.Drops {
			if _, ok := c.Items.Defs[d]; !ok {
				return fmt.Errorf("enemy %s drops unknown item %s", e.Kind, d)
			}
		}
	}
	for _, id := range c.Quests.Order {
		q := c.Quests.ByID[id]
		for _, ref := range []string{q.RewardItem, q.GrantOnAccept} {
			if ref == "" {
				continue
			}
			if _, ok := c.Items.Defs[ref]; !ok {
				return fmt.Errorf("quest %s references unknown item %s", id, ref)
			}
		}
	}
	return nil
}

// Line picks an NPC line for role; NPCs met more than a handful of times
// use the familiar pool.
func (l *LineCatalog) Line(role modelpkg.Role, familiar bool, pick func(n int) int) string {
	pool := l.NPC[role.String()]
	if familiar && len(l.Familiar) > 0 {
		pool = l.Familiar
	}
	if len(pool) == 0 {
		pool = l.NPC[modelpkg.RoleStranger.String()]
	}
	return pool[pick(len(pool))]
}

// ZoneEvent picks an ambient line for zone, or "" when the zone has none.
func (l *LineCatalog) ZoneEvent(z modelpkg.Zone, pick func(n int) int) string {
	pool := l.ZoneEvents[z.String()]
	if len(pool) == 0 {
		return ""
	}
	return pool[pick(len(pool))]
}
