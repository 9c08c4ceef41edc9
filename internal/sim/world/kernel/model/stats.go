package model

import "neondrift.city/internal/sim/world/logic/mathx"

type SkillKind uint8

const (
	SkillEndurance SkillKind = iota
	SkillStealth
	SkillNegotiation
	SkillDataResist
	SkillCombat
	SkillScavenging
	SkillCount
)

var skillNames = []string{"endurance", "stealth", "negotiation", "data_resist", "combat", "scavenging"}

func (k SkillKind) String() string { return enumName(skillNames, int(k)) }

const (
	skillXPStart  = 100
	skillXPGrowth = 1.5
	levelXPStart  = 100
	levelXPGrowth = 1.6
)

type Skill struct {
	Level  int
	XP     int
	XPNext int
}

func newSkill() Skill { return Skill{Level: 1, XPNext: skillXPStart} }

// Gain adds xp and returns the number of levels gained.
func (s *Skill) Gain(n int) int {
	if n <= 0 {
		return 0
	}
	s.XP += n
	ups := 0
	for s.XPNext > 0 && s.XP >= s.XPNext {
		s.XP -= s.XPNext
		s.Level++
		s.XPNext = int(float64(s.XPNext) * skillXPGrowth)
		ups++
	}
	return ups
}

// Stats holds the vitals and progression of the player. Vitals are floats
// because passive drift applies fractional deltas every tick.
type Stats struct {
	HP         float64
	MaxHP      float64
	Stress     float64
	MaxStress  float64
	Stamina    float64
	MaxStamina float64
	Hunger     float64
	Sleep      float64

	Level   int
	XP      int
	XPNext  int
	Attack  int
	Defense int
	Speed   int
	Credits int

	Skills [SkillCount]Skill
}

func NewStats() Stats {
	s := Stats{
		HP: 100, MaxHP: 100,
		Stress: 20, MaxStress: 100,
		Stamina: 100, MaxStamina: 100,
		Hunger: 100, Sleep: 100,
		Level: 1, XPNext: levelXPStart,
		Attack: 10, Defense: 5, Speed: 5,
		Credits: 200,
	}
	for i := range s.Skills {
		s.Skills[i] = newSkill()
	}
	return s
}

// Clamp bounds every vital independently. It is idempotent.
func (s *Stats) Clamp() {
	s.HP = mathx.Clamp(s.HP, 0, s.MaxHP)
	s.Stress = mathx.Clamp(s.Stress, 0, s.MaxStress)
	s.Stamina = mathx.Clamp(s.Stamina, 0, s.MaxStamina)
	s.Hunger = mathx.Clamp(s.Hunger, 0, 100)
	s.Sleep = mathx.Clamp(s.Sleep, 0, 100)
	if s.Credits < 0 {
		s.Credits = 0
	}
}

func (s *Stats) Alive() bool { return s.HP > 0 }

// LevelMax caps the player level; XPNext stays well inside int range below it.
const LevelMax = 50

// GainXP adds player xp and returns levels gained. Each level raises max hp
// and hp by 5 and attack by 1.
func (s *Stats) GainXP(n int) int {
	if n <= 0 {
		return 0
	}
	s.XP += n
	ups := 0
	for s.Level < LevelMax && s.XP >= s.XPNext {
		s.XP -= s.XPNext
		s.levelUp()
		ups++
	}
	return ups
}

// RaiseTo levels up until level (capped at LevelMax) without touching XP.
func (s *Stats) RaiseTo(level int) {
	for s.Level < min(level, LevelMax) {
		s.levelUp()
	}
}

func (s *Stats) levelUp() {
	s.Level++
	s.XPNext = int(float64(s.XPNext) * levelXPGrowth)
	s.MaxHP += 5
	s.HP = min(s.HP+5, s.MaxHP)
	s.Attack++
}

// SkillXP adds xp to one track and returns levels gained.
func (s *Stats) SkillXP(k SkillKind, n int) int {
	if k >= SkillCount {
		return 0
	}
	return s.Skills[k].Gain(n)
}

func (s *Stats) SkillLevel(k SkillKind) int {
	if k >= SkillCount {
		return 0
	}
	return s.Skills[k].Level
}
