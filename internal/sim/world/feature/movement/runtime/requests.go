package runtime

import (
	survivalruntimepkg "neondrift.city/internal/sim/world/feature/survival/runtime"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

type EventRollInput struct {
	Zone      modelpkg.Zone
	Job       modelpkg.Job
	TimeOfDay float64
}

// EventChance is the probability that a step surfaces an ambient zone line.
func EventChance(in EventRollInput) float64 {
	chance := 0.04 + in.Zone.Props().ErrorRate*0.4
	chance += JobAffinity(in.Job, in.Zone)
	if survivalruntimepkg.IsNight(in.TimeOfDay) {
		chance += 0.04
	}
	return chance
}

// JobAffinity is the extra event chance a job earns in its home districts.
func JobAffinity(job modelpkg.Job, z modelpkg.Zone) float64 {
	switch job {
	case modelpkg.JobCourier:
		if z == modelpkg.ZoneNeonCommercial || z == modelpkg.ZoneResidential {
			return 0.06
		}
	case modelpkg.JobServerAssistant:
		if z == modelpkg.ZoneIndustrial || z == modelpkg.ZoneRooftopNetwork {
			return 0.06
		}
	case modelpkg.JobUnemployed:
		return 0.02
	case modelpkg.JobNightClerk, modelpkg.JobTaxiDriver, modelpkg.JobCount:
	}
	return 0
}

// EncounterChance is the chance a step spawns a random enemy.
func EncounterChance(danger float64, stealthed bool, wanted int) float64 {
	chance := danger * 0.015
	if stealthed {
		chance *= 0.2
	}
	return chance + float64(wanted)*0.01
}

// AdjacentEnemy returns the first living enemy (roster order) next to p.
func AdjacentEnemy(enemies []modelpkg.Enemy, p Pos) (int, bool) {
	for i := range enemies {
		e := &enemies[i]
		if e.Alive() && Adjacent(p, Pos{X: e.X, Y: e.Y}) {
			return i, true
		}
	}
	return -1, false
}
