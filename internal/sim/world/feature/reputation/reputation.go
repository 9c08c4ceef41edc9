package reputation

import (
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
	"neondrift.city/internal/sim/world/logic/mathx"
)

// DecayWindow is the number of seconds one wanted level survives at
// wanted level 1; higher levels decay proportionally faster.
const DecayWindow = 60.0

func Modify(r *modelpkg.Reputation, f modelpkg.Faction, delta int) {
	if f == modelpkg.FactionNone || f >= modelpkg.FactionCount {
		return
	}
	r.Scores[f] = mathx.ClampInt(r.Scores[f]+delta, modelpkg.RepMin, modelpkg.RepMax)
}

// AddCrime raises the wanted level (capped) and the lifetime crime count.
func AddCrime(r *modelpkg.Reputation, severity int) {
	if severity < 0 {
		severity = 0
	}
	r.Wanted = min(modelpkg.WantedMax, r.Wanted+severity)
	r.TotalCrimes += severity
}

// Tick advances decay by dt seconds. Once the timer exceeds
// DecayWindow/wanted, wanted drops by one and the timer restarts.
func Tick(r *modelpkg.Reputation, dt float64) bool {
	if r.Wanted <= 0 {
		return false
	}
	r.CrimeTimer += dt
	if r.CrimeTimer > DecayWindow/float64(r.Wanted) {
		r.Wanted--
		r.CrimeTimer = 0
		return true
	}
	return false
}

func ClearWanted(r *modelpkg.Reputation) {
	r.Wanted = 0
	r.CrimeTimer = 0
}

// Dominant returns the faction with the highest positive score. Ties go
// to the earlier faction in declaration order.
func Dominant(r *modelpkg.Reputation) (modelpkg.Faction, bool) {
	best, bestScore := modelpkg.FactionNone, 0
	for _, f := range modelpkg.Factions {
		if s := r.Scores[f]; s > bestScore {
			best, bestScore = f, s
		}
	}
	return best, best != modelpkg.FactionNone
}

var wantedLabels = [...]string{"none", "caution", "wanted", "danger", "urgent", "maximum"}

func WantedLabel(level int) string {
	return wantedLabels[mathx.ClampInt(level, 0, len(wantedLabels)-1)]
}

// Discount is the shop price multiplier earned with the citizens.
func Discount(r *modelpkg.Reputation) float64 {
	if r.Scores[modelpkg.FactionCitizens] > 30 {
		return 0.85
	}
	return 1.0
}
