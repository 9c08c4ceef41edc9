package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"neondrift.city/internal/sim/catalogs"
	"neondrift.city/internal/sim/gen"
	"neondrift.city/internal/sim/rng"
	"neondrift.city/internal/sim/tuning"
	combatpkg "neondrift.city/internal/sim/world/feature/combat"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

// TestRandomPlayStaysInBounds drives a generated city with random input and
// checks every bounded scalar after each step.
func TestRandomPlayStaysInBounds(t *testing.T) {
	cat, err := catalogs.Default()
	require.NoError(t, err)
	tn := tuning.Defaults()
	for seed := uint64(1); seed <= 3; seed++ {
		w, err := Generate(ConfigFrom(tn, seed, modelpkg.Job(seed%uint64(modelpkg.JobCount))), gen.ConfigFrom(tn), cat)
		require.NoError(t, err)
		input := rng.New(seed * 1000)
		for step := 0; step < 3000; step++ {
			switch input.IntN(8) {
			case 0, 1, 2:
				d := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}[input.IntN(4)]
				_ = w.Move(d[0], d[1])
			case 3:
				_ = w.Interact()
			case 4:
				_ = w.CombatAction(combatpkg.Action(input.IntN(4)), input.IntN(modelpkg.InventorySlots))
			case 5:
				_ = w.UseItem(input.IntN(modelpkg.InventorySlots))
			case 6:
				_ = w.Buy(input.IntN(4))
				_ = w.CloseMode()
			case 7:
				w.Tick(0.07 * float64(1+input.IntN(20)))
			}
			checkBounds(t, w, seed, step)
		}
	}
}

func checkBounds(t *testing.T, w *World, seed uint64, step int) {
	t.Helper()
	p := w.Player()
	s := p.Stats
	in := func(name string, v, lo, hi float64) {
		if v < lo || v > hi {
			t.Fatalf("seed %d step %d: %s=%v outside [%v,%v]", seed, step, name, v, lo, hi)
		}
	}
	in("hp", s.HP, 0, s.MaxHP)
	in("stress", s.Stress, 0, s.MaxStress)
	in("stamina", s.Stamina, 0, s.MaxStamina)
	in("hunger", s.Hunger, 0, 100)
	in("sleep", s.Sleep, 0, 100)
	in("fatigue", p.Psyche.Fatigue, 0, 100)
	in("isolation", p.Psyche.Isolation, 0, 100)
	in("stability", p.Psyche.Stability, 0, 100)
	in("anxiety", p.Psyche.Anxiety, 0, 100)
	in("wanted", float64(p.Reputation.Wanted), 0, modelpkg.WantedMax)
	in("credits", float64(s.Credits), 0, 1e9)
	in("weight", p.Inventory.Weight(), 0, modelpkg.InventoryMaxWeight)
	for _, f := range modelpkg.Factions {
		in(f.String(), float64(p.Reputation.Score(f)), modelpkg.RepMin, modelpkg.RepMax)
	}
	for _, q := range p.Active {
		all := true
		for _, d := range q.Done {
			all = all && d
		}
		if q.Completed != all {
			t.Fatalf("seed %d step %d: quest %s completed=%v with flags %v", seed, step, q.Def.ID, q.Completed, q.Done)
		}
	}
	if !w.grid.In(p.X, p.Y) {
		t.Fatalf("seed %d step %d: player off grid at %d,%d", seed, step, p.X, p.Y)
	}
	if w.Mode() == ModeCombat && !w.Combat().Active {
		t.Fatalf("seed %d step %d: combat mode without a fight", seed, step)
	}
	if w.Events().Len() > w.Config().EventLogCap {
		t.Fatalf("seed %d step %d: event log over capacity", seed, step)
	}
}
