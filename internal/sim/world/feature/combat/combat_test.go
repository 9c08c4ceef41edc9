package combat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neondrift.city/internal/sim/rng"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

var drone = modelpkg.EnemyTemplate{
	Kind: "drone", Name: "Patrol Drone", HP: 40, Attack: 8, Defense: 3, Speed: 4,
	XPReward: 30, CreditReward: 20, Drops: []string{"battery"}, Faction: modelpkg.FactionCorp,
}

func newFight(t *testing.T) (*State, *modelpkg.Player, *modelpkg.Enemy) {
	t.Helper()
	p := modelpkg.NewPlayer(50, 50, modelpkg.JobCourier)
	e := drone.Spawn(7, 51, 50)
	s := &State{}
	s.Start(&e, 0)
	require.True(t, s.Active)
	require.Equal(t, PhaseEngaged, s.Phase)
	return s, p, &e
}

// zero variance on both sides: IntN(7) -> 3 maps to 0 in [-3,3], IntN(5) -> 2 maps to 0 in [-2,2].
func noVariance() *rng.Fixed { return &rng.Fixed{Ints: []int{3, 2}} }

func TestAttackAgainstDefense(t *testing.T) {
	s, p, e := newFight(t)
	rep, err := Act(s, p, e, noVariance(), ActAttack, -1, Hooks{})
	require.NoError(t, err)
	assert.Equal(t, 7, rep.Dealt)
	assert.Equal(t, 33, e.HP)
	// drone hits 8 - defense 5 = 3
	assert.Equal(t, 3, rep.Taken)
	assert.Equal(t, 97.0, p.Stats.HP)
	assert.Equal(t, 30.0, p.Stats.Stress)
	assert.Equal(t, 8, p.Stats.Skills[modelpkg.SkillCombat].XP)
	assert.True(t, s.Active)
}

func TestDamageFloorIsOne(t *testing.T) {
	s, p, e := newFight(t)
	e.Defense = 100
	p.Stats.Defense = 100
	rep, err := Act(s, p, e, noVariance(), ActAttack, -1, Hooks{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Dealt)
	assert.Equal(t, 1, rep.Taken)
}

func TestSkillRequiresLevel(t *testing.T) {
	s, p, e := newFight(t)
	before := *p
	_, err := Act(s, p, e, noVariance(), ActSkill, -1, Hooks{})
	assert.True(t, errors.Is(err, ErrInsufficientSkill))
	assert.Equal(t, before.Stats, p.Stats, "no enemy turn")
	assert.Equal(t, 40, e.HP)

	p.Stats.Skills[modelpkg.SkillCombat].Level = 2
	_, err = Act(s, p, e, noVariance(), ActSkill, -1, Hooks{})
	require.NoError(t, err)
	// stress 20 - 20 focus + 10 hit
	assert.Equal(t, 10.0, p.Stats.Stress)

	p.Stats.Skills[modelpkg.SkillCombat].Level = 3
	rep, err := Act(s, p, e, noVariance(), ActSkill, -1, Hooks{})
	require.NoError(t, err)
	assert.Equal(t, 17, rep.Dealt)
}

func TestEmptyItemSlotGivesNoTurn(t *testing.T) {
	s, p, e := newFight(t)
	hp := p.Stats.HP
	_, err := Act(s, p, e, noVariance(), ActItem, 3, Hooks{})
	assert.ErrorIs(t, err, ErrEmptySlot)
	assert.Equal(t, hp, p.Stats.HP)
	assert.Equal(t, "no item", s.Log[len(s.Log)-1])
}

func TestFleeSuccessEndsWithoutRiposte(t *testing.T) {
	s, p, e := newFight(t)
	var resolved Result
	rep, err := Act(s, p, e, &rng.Fixed{Ints: []int{0}}, ActFlee, -1, Hooks{Resolved: func(r Result) { resolved = r }})
	require.NoError(t, err)
	assert.Equal(t, ResultFlee, rep.Result)
	assert.Equal(t, ResultFlee, resolved)
	assert.False(t, s.Active)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Equal(t, 100.0, p.Stats.HP)
}

func TestFleeRateNearForty(t *testing.T) {
	src := rng.New(99)
	wins := 0
	const trials = 10000
	for i := 0; i < trials; i++ {
		s, p, e := newFight(t)
		rep, _ := Act(s, p, e, src, ActFlee, -1, Hooks{})
		if rep.Result == ResultFlee {
			wins++
		}
	}
	rate := float64(wins) / trials
	assert.InDelta(t, 0.40, rate, 0.03)
}

func TestWinRewardsAndFactionShift(t *testing.T) {
	s, p, e := newFight(t)
	e.HP = 1
	var granted []string
	h := Hooks{GrantDrop: func(id string) (string, bool) { granted = append(granted, id); return id, true }}
	// variance 0 then drop roll 0.1 (< 0.5)
	src := &rng.Fixed{Ints: []int{3}, Floats: []float64{0.1}}
	rep, err := Act(s, p, e, src, ActAttack, -1, h)
	require.NoError(t, err)
	assert.Equal(t, ResultWin, rep.Result)
	assert.Equal(t, 220, p.Stats.Credits)
	assert.Equal(t, 30, p.Stats.XP)
	assert.Equal(t, []string{"battery"}, granted)
	assert.Equal(t, 3, p.Reputation.Scores[modelpkg.FactionCitizens])
	assert.Equal(t, 2, p.Reputation.Scores[modelpkg.FactionGhosts])
	assert.Equal(t, -5, p.Reputation.Scores[modelpkg.FactionCorp])
	assert.Equal(t, 1, p.Reputation.Wanted)
	assert.False(t, s.Active)
	assert.Equal(t, ResultWin, s.Result)
}

func TestLoseResolution(t *testing.T) {
	s, p, e := newFight(t)
	p.Stats.HP = 1
	p.Stats.Credits = 30
	respawned := false
	rep, err := Act(s, p, e, noVariance(), ActAttack, -1, Hooks{Respawn: func() { respawned = true }})
	require.NoError(t, err)
	assert.Equal(t, ResultLose, rep.Result)
	assert.Equal(t, 33.0, p.Stats.HP)
	assert.Equal(t, 0, p.Stats.Credits)
	assert.Equal(t, 60.0, p.Stats.Stress)
	assert.True(t, respawned)
	assert.False(t, s.Active)
}

func TestLogKeepsNewestEight(t *testing.T) {
	var s State
	for i := 0; i < 20; i++ {
		s.Push(string(rune('a' + i)))
	}
	require.Len(t, s.Log, LogCap)
	assert.Equal(t, "m", s.Log[0])
	assert.Equal(t, "t", s.Log[LogCap-1])
}

func TestCursorWrapsAndConfirmPicksHealingItem(t *testing.T) {
	s, p, e := newFight(t)
	s.MoveCursor(-1)
	assert.Equal(t, ActFlee, s.CursorAction())
	s.MoveCursor(-1)
	assert.Equal(t, ActItem, s.CursorAction())

	p.Inventory.Add(modelpkg.ItemDef{ID: "ration", HungerRestore: 40})
	p.Inventory.Add(modelpkg.ItemDef{ID: "stim_pack", HPRestore: 30})
	used := -1
	h := Hooks{UseItem: func(slot int) (string, error) { used = slot; p.Inventory.Take(slot); return "stim", nil }}
	_, err := Confirm(s, p, e, noVariance(), h)
	require.NoError(t, err)
	assert.Equal(t, 1, used)
}
