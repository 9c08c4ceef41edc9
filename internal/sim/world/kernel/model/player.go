package model

import (
	"github.com/zyedidia/generic/mapset"

	"neondrift.city/internal/sim/world/logic/mathx"
)

const (
	RepMin    = -100
	RepMax    = 100
	WantedMax = 5
)

// Reputation is the faction/wanted block. Scores are indexed by Faction;
// the FactionNone entry is unused.
type Reputation struct {
	Scores      [FactionCount]int
	Wanted      int
	CrimeTimer  float64
	TotalCrimes int
}

func (r *Reputation) Score(f Faction) int {
	if f == FactionNone || f >= FactionCount {
		return 0
	}
	return r.Scores[f]
}

// Psyche holds the four emotional scalars, each in [0,100].
type Psyche struct {
	Fatigue   float64
	Isolation float64
	Stability float64
	Anxiety   float64
}

func (p *Psyche) Clamp() {
	p.Fatigue = mathx.Clamp(p.Fatigue, 0, 100)
	p.Isolation = mathx.Clamp(p.Isolation, 0, 100)
	p.Stability = mathx.Clamp(p.Stability, 0, 100)
	p.Anxiety = mathx.Clamp(p.Anxiety, 0, 100)
}

// Endings are the accumulators that pick the ending direction.
type Endings struct {
	Sync    int
	Decay   int
	Network int
}

type Player struct {
	X, Y int
	Job  Job

	Stats      Stats
	Inventory  Inventory
	Reputation Reputation
	Psyche     Psyche
	Endings    Endings

	FOVBonusTurns int
	StealthTurns  int

	VisitedZones [ZoneCount]int
	Contacts     mapset.Set[NPCID]

	Active    []*Quest
	Completed mapset.Set[string]
	// CompletedOrder keeps completion order for reports.
	CompletedOrder []string
}

func NewPlayer(x, y int, job Job) *Player {
	return &Player{
		X: x, Y: y, Job: job,
		Stats:     NewStats(),
		Psyche:    Psyche{Fatigue: 20, Isolation: 30, Stability: 60, Anxiety: 20},
		Contacts:  mapset.New[NPCID](),
		Completed: mapset.New[string](),
	}
}

// Distorted is true while the player's perception is unreliable.
func (p *Player) Distorted() bool {
	return p.Psyche.Anxiety > 80 || p.Psyche.Isolation > 85 || p.Stats.Stress > 85
}

func (p *Player) Stealthed() bool { return p.StealthTurns > 0 }

func (p *Player) TotalAttack() int  { return p.Stats.Attack + p.Inventory.AttackBonus() }
func (p *Player) TotalDefense() int { return p.Stats.Defense + p.Inventory.DefenseBonus() }

// ActiveQuest returns the accepted, unfinished quest with id.
func (p *Player) ActiveQuest(id string) *Quest {
	for _, q := range p.Active {
		if q.Def.ID == id {
			return q
		}
	}
	return nil
}

// ZonesVisited counts districts entered at least once.
func (p *Player) ZonesVisited() int {
	n := 0
	for _, v := range p.VisitedZones {
		if v > 0 {
			n++
		}
	}
	return n
}

// FOVRadius derives the view radius from buffs, weather, distortion and
// endurance. It never drops below 3.
func (p *Player) FOVRadius(base int, w Weather) int {
	r := base
	if p.FOVBonusTurns > 0 {
		r += 4
	}
	switch w {
	case WeatherHeavy:
		r -= 3
	case WeatherRain:
		r--
	case WeatherClear:
	}
	if p.Distorted() {
		r -= 2
	}
	r += p.Stats.SkillLevel(SkillEndurance) / 3
	return max(3, r)
}
