package model

type EnemyID uint32

// EnemyTemplate is the catalog form of an enemy.
type EnemyTemplate struct {
	Kind         string   `json:"kind"`
	Name         string   `json:"name"`
	Glyph        string   `json:"glyph"`
	HP           int      `json:"hp"`
	Attack       int      `json:"attack"`
	Defense      int      `json:"defense"`
	Speed        int      `json:"speed"`
	XPReward     int      `json:"xp_reward"`
	CreditReward int      `json:"credit_reward"`
	Drops        []string `json:"drops"`
	Faction      Faction  `json:"faction"`
}

type Enemy struct {
	ID           EnemyID
	Kind         string
	Name         string
	X, Y         int
	HP           int
	MaxHP        int
	Attack       int
	Defense      int
	Speed        int
	XPReward     int
	CreditReward int
	Drops        []string
	Faction      Faction
}

func (t EnemyTemplate) Spawn(id EnemyID, x, y int) Enemy {
	return Enemy{
		ID: id, Kind: t.Kind, Name: t.Name, X: x, Y: y,
		HP: t.HP, MaxHP: t.HP,
		Attack: t.Attack, Defense: t.Defense, Speed: t.Speed,
		XPReward: t.XPReward, CreditReward: t.CreditReward,
		Drops:   append([]string(nil), t.Drops...),
		Faction: t.Faction,
	}
}

func (e *Enemy) Alive() bool { return e.HP > 0 }

// TakeDamage applies raw damage through defense (minimum 1) and returns
// what was dealt.
func (e *Enemy) TakeDamage(raw int) int {
	dealt := max(1, raw-e.Defense)
	e.HP = max(0, e.HP-dealt)
	return dealt
}

type NPCID int

type NPC struct {
	ID      NPCID
	X, Y    int
	Name    string
	Role    Role
	Zone    Zone
	Memory  int
	Mood    float64
	Faction Faction
	QuestID string
	Shop    []string
}

// Familiar reports whether the NPC greets the player as a regular.
func (n *NPC) Familiar() bool { return n.Memory > 5 }
