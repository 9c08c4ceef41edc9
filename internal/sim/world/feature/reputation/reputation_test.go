package reputation

import (
	"testing"

	"neondrift.city/internal/sim/rng"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

func TestModifyClamps(t *testing.T) {
	var r modelpkg.Reputation
	Modify(&r, modelpkg.FactionCorp, 250)
	if got := r.Scores[modelpkg.FactionCorp]; got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	Modify(&r, modelpkg.FactionCorp, -500)
	if got := r.Scores[modelpkg.FactionCorp]; got != -100 {
		t.Fatalf("expected -100, got %d", got)
	}
	Modify(&r, modelpkg.FactionNone, 5)
	if r.Scores[modelpkg.FactionNone] != 0 {
		t.Fatalf("none faction must not be scored")
	}
}

func TestRandomSequencesStayInBounds(t *testing.T) {
	var r modelpkg.Reputation
	src := rng.New(3)
	for i := 0; i < 5000; i++ {
		switch src.IntN(3) {
		case 0:
			Modify(&r, modelpkg.Factions[src.IntN(3)], rng.Between(src, -40, 40))
		case 1:
			AddCrime(&r, src.IntN(3))
		case 2:
			Tick(&r, src.Float64()*10)
		}
		for _, f := range modelpkg.Factions {
			if s := r.Scores[f]; s < -100 || s > 100 {
				t.Fatalf("score out of range: %d", s)
			}
		}
		if r.Wanted < 0 || r.Wanted > 5 {
			t.Fatalf("wanted out of range: %d", r.Wanted)
		}
	}
}

func TestAddCrimeCapsWantedButNotTotal(t *testing.T) {
	var r modelpkg.Reputation
	for i := 0; i < 4; i++ {
		AddCrime(&r, 2)
	}
	if r.Wanted != 5 || r.TotalCrimes != 8 {
		t.Fatalf("wanted=%d total=%d", r.Wanted, r.TotalCrimes)
	}
}

func TestDecayRespectsWindow(t *testing.T) {
	r := modelpkg.Reputation{Wanted: 3}
	// 60/3 = 20s window. 19.9s of ticks must not decay.
	for i := 0; i < 199; i++ {
		if Tick(&r, 0.1) {
			t.Fatalf("decayed early at step %d", i)
		}
	}
	if r.Wanted != 3 {
		t.Fatalf("expected 3, got %d", r.Wanted)
	}
	decayed := false
	for i := 0; i < 3 && !decayed; i++ {
		decayed = Tick(&r, 0.1)
	}
	if !decayed || r.Wanted != 2 || r.CrimeTimer != 0 {
		t.Fatalf("expected decay to 2 with reset timer, got %d/%v", r.Wanted, r.CrimeTimer)
	}
}

func TestDominantTieBreaksByDeclarationOrder(t *testing.T) {
	var r modelpkg.Reputation
	if _, ok := Dominant(&r); ok {
		t.Fatalf("no dominant faction at zero")
	}
	r.Scores[modelpkg.FactionGhosts] = 10
	r.Scores[modelpkg.FactionCitizens] = 10
	if f, _ := Dominant(&r); f != modelpkg.FactionCitizens {
		t.Fatalf("expected citizens, got %v", f)
	}
	r.Scores[modelpkg.FactionCorp] = 10
	if f, _ := Dominant(&r); f != modelpkg.FactionCorp {
		t.Fatalf("expected corp, got %v", f)
	}
}

func TestDiscountThreshold(t *testing.T) {
	var r modelpkg.Reputation
	r.Scores[modelpkg.FactionCitizens] = 30
	if Discount(&r) != 1.0 {
		t.Fatalf("30 is not above threshold")
	}
	r.Scores[modelpkg.FactionCitizens] = 31
	if Discount(&r) != 0.85 {
		t.Fatalf("expected discount above 30")
	}
}
