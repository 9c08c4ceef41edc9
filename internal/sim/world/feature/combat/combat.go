// Package combat is the turn-based encounter state machine.
//
// A fight moves idle -> engaged -> resolving -> idle. The engaged enemy is
// held as a roster handle; callers resolve it to a live *model.Enemy for
// each action. Rewards and penalties are applied here; anything that needs
// catalogs or the event log goes through Hooks.
package combat

import (
	"errors"
	"fmt"

	"neondrift.city/internal/sim/rng"
	"neondrift.city/internal/sim/world/feature/reputation"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

const (
	LogCap            = 8
	DefaultFleeChance = 40
	dropChance        = 0.5
	lossCredits       = 50
	lossStress        = 30
	hitStress         = 10
	attackXP          = 8
)

var (
	ErrNotActive         = errors.New("not in combat")
	ErrInsufficientSkill = errors.New("combat skill too low")
	ErrEmptySlot         = errors.New("no item in that slot")
)

type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseEngaged
	PhaseResolving
)

var phaseNames = [...]string{"idle", "engaged", "resolving"}

func (p Phase) String() string { return phaseNames[p] }

type Result uint8

const (
	ResultNone Result = iota
	ResultWin
	ResultLose
	ResultFlee
)

var resultNames = [...]string{"", "win", "lose", "flee"}

func (r Result) String() string { return resultNames[r] }

type Action uint8

const (
	ActAttack Action = iota
	ActSkill
	ActItem
	ActFlee
	actionCount
)

var actionNames = [...]string{"attack", "skill", "item", "flee"}

func (a Action) String() string { return actionNames[a] }

func ParseAction(s string) (Action, error) {
	for i, n := range actionNames {
		if n == s {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown combat action %q", s)
}

type State struct {
	Active     bool
	Enemy      modelpkg.EnemyID
	Log        []string
	Turn       int
	Cursor     int
	Result     Result
	Phase      Phase
	FleeChance int
	// DropChance is the per-drop roll on a win; 0 means 0.5.
	DropChance float64
}

// Start engages e, clearing any previous fight.
func (s *State) Start(e *modelpkg.Enemy, fleeChance int) {
	if fleeChance <= 0 {
		fleeChance = DefaultFleeChance
	}
	*s = State{Active: true, Enemy: e.ID, Phase: PhaseEngaged, FleeChance: fleeChance}
	s.Push(fmt.Sprintf("! %s appears", e.Name))
}

// Push appends a line, keeping only the newest LogCap.
func (s *State) Push(line string) {
	s.Log = append(s.Log, line)
	if n := len(s.Log); n > LogCap {
		s.Log = append(s.Log[:0], s.Log[n-LogCap:]...)
	}
}

// MoveCursor shifts the action cursor, wrapping over the four actions.
func (s *State) MoveCursor(delta int) {
	n := int(actionCount)
	s.Cursor = ((s.Cursor+delta)%n + n) % n
}

func (s *State) CursorAction() Action { return Action(s.Cursor) }

// Hooks connect resolution to the rest of the world.
type Hooks struct {
	// UseItem applies and consumes the item in slot.
	UseItem func(slot int) (string, error)
	// GrantDrop adds one unit of item id; it returns the display name.
	GrantDrop func(id string) (string, bool)
	Notify    func(msg string)
	// Respawn relocates a defeated player.
	Respawn func()
	// Resolved runs once a fight ends, before the state returns to idle.
	Resolved func(r Result)
}

// Report summarizes one resolved action.
type Report struct {
	Dealt    int
	Taken    int
	Result   Result
	XP       int
	Credits  int
	Drops    []string
	LevelUps int
}

// Act resolves one player action followed by the enemy's reply. Rejected
// actions (insufficient skill, empty slot) leave state untouched and give
// the enemy no turn.
func Act(s *State, p *modelpkg.Player, e *modelpkg.Enemy, src rng.Source, a Action, slot int, h Hooks) (Report, error) {
	var rep Report
	if !s.Active || e == nil || s.Phase != PhaseEngaged {
		return rep, ErrNotActive
	}

	switch a {
	case ActAttack:
		raw := max(1, p.TotalAttack()+rng.Between(src, -3, 3)) + p.Stats.SkillLevel(modelpkg.SkillCombat)/2
		rep.Dealt = e.TakeDamage(raw)
		p.Stats.SkillXP(modelpkg.SkillCombat, attackXP)
		s.Push(fmt.Sprintf("> attack: %d damage", rep.Dealt))
	case ActSkill:
		switch lvl := p.Stats.SkillLevel(modelpkg.SkillCombat); {
		case lvl >= 3:
			rep.Dealt = e.TakeDamage(p.TotalAttack() * 2)
			s.Push(fmt.Sprintf("> power strike: %d damage", rep.Dealt))
		case lvl >= 2:
			p.Stats.Stress -= 20
			p.Stats.Clamp()
			s.Push("> focus: stress -20")
		default:
			s.Push("skill unavailable (combat lv2 required)")
			return rep, ErrInsufficientSkill
		}
	case ActItem:
		if slot < 0 || slot >= modelpkg.InventorySlots || p.Inventory.Slots[slot].Empty() {
			s.Push("no item")
			return rep, ErrEmptySlot
		}
		if h.UseItem == nil {
			return rep, ErrEmptySlot
		}
		name, err := h.UseItem(slot)
		if err != nil {
			s.Push(err.Error())
			return rep, err
		}
		s.Push("> used " + name)
	case ActFlee:
		if rng.Between(src, 1, 100) <= s.FleeChance {
			s.Push("> escaped")
			rep.Result = ResultFlee
			finish(s, ResultFlee, h)
			return rep, nil
		}
		s.Push("> escape failed")
	default:
		return rep, fmt.Errorf("unknown combat action %d", a)
	}
	s.Turn++

	if !e.Alive() {
		s.Push(fmt.Sprintf("+ %s down", e.Name))
		win(s, p, e, src, &rep, h)
		return rep, nil
	}

	rep.Taken = max(1, e.Attack+rng.Between(src, -2, 2)-p.TotalDefense())
	p.Stats.HP -= float64(rep.Taken)
	p.Stats.Stress += hitStress
	p.Stats.Clamp()
	s.Push(fmt.Sprintf("< %s hits: %d damage", e.Name, rep.Taken))

	if !p.Stats.Alive() {
		s.Push("x you collapse")
		lose(s, p, &rep, h)
	}
	return rep, nil
}

// Confirm resolves the action under the cursor. ITEM picks the first
// carried item that restores hp.
func Confirm(s *State, p *modelpkg.Player, e *modelpkg.Enemy, src rng.Source, h Hooks) (Report, error) {
	a := s.CursorAction()
	slot := -1
	if a == ActItem {
		for i, st := range p.Inventory.Slots {
			if !st.Empty() && st.Def.HPRestore > 0 {
				slot = i
				break
			}
		}
	}
	return Act(s, p, e, src, a, slot, h)
}

func win(s *State, p *modelpkg.Player, e *modelpkg.Enemy, src rng.Source, rep *Report, h Hooks) {
	rep.Result = ResultWin
	rep.XP = e.XPReward
	rep.Credits = e.CreditReward
	rep.LevelUps = p.Stats.GainXP(e.XPReward)
	p.Stats.Credits += e.CreditReward
	chance := s.DropChance
	if chance <= 0 {
		chance = dropChance
	}
	for _, id := range e.Drops {
		if !rng.Chance(src, chance) || h.GrantDrop == nil {
			continue
		}
		if name, ok := h.GrantDrop(id); ok {
			rep.Drops = append(rep.Drops, id)
			notify(h, "drop: "+name)
		}
	}
	switch e.Faction {
	case modelpkg.FactionCorp:
		reputation.Modify(&p.Reputation, modelpkg.FactionCitizens, 3)
		reputation.Modify(&p.Reputation, modelpkg.FactionGhosts, 2)
		reputation.Modify(&p.Reputation, modelpkg.FactionCorp, -5)
		reputation.AddCrime(&p.Reputation, 1)
	case modelpkg.FactionGhosts:
		reputation.Modify(&p.Reputation, modelpkg.FactionCorp, 2)
		reputation.Modify(&p.Reputation, modelpkg.FactionGhosts, -5)
	case modelpkg.FactionNone, modelpkg.FactionCitizens, modelpkg.FactionCount:
	}
	notify(h, fmt.Sprintf("+%dXP +%dc", e.XPReward, e.CreditReward))
	finish(s, ResultWin, h)
}

func lose(s *State, p *modelpkg.Player, rep *Report, h Hooks) {
	rep.Result = ResultLose
	p.Stats.HP = float64(int(p.Stats.MaxHP) / 3)
	p.Stats.Stress += lossStress
	p.Stats.Credits = max(0, p.Stats.Credits-lossCredits)
	p.Stats.Clamp()
	if h.Respawn != nil {
		h.Respawn()
	}
	notify(h, fmt.Sprintf("you wake up in a clinic. -%dc", lossCredits))
	finish(s, ResultLose, h)
}

func finish(s *State, r Result, h Hooks) {
	s.Result = r
	s.Phase = PhaseResolving
	if h.Resolved != nil {
		h.Resolved(r)
	}
	s.Active = false
	s.Phase = PhaseIdle
}

func notify(h Hooks, msg string) {
	if h.Notify != nil {
		h.Notify(msg)
	}
}
