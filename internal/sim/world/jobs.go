package world

import modelpkg "neondrift.city/internal/sim/world/kernel/model"

type loadout struct {
	items   []string
	credits int
}

var loadouts = [modelpkg.JobCount]loadout{
	modelpkg.JobCourier:         {items: []string{"ration", "stim_pack"}},
	modelpkg.JobNightClerk:      {items: []string{"ration", "ration", "coffee"}},
	modelpkg.JobServerAssistant: {items: []string{"sniffer", "battery"}},
	modelpkg.JobTaxiDriver:      {items: []string{"fake_id", "credits_50"}, credits: 400},
	modelpkg.JobUnemployed:      {items: []string{"knife", "stim_pack"}},
}

func (w *World) applyLoadout() {
	lo := loadouts[w.player.Job]
	for _, id := range lo.items {
		if def, ok := w.cat.Items.Defs[id]; ok {
			w.player.Inventory.Add(def)
		}
	}
	if lo.credits > 0 {
		w.player.Stats.Credits = lo.credits
	}
}

// surveillanceScale is how strongly cameras weigh on the job.
func surveillanceScale(j modelpkg.Job) float64 {
	if j == modelpkg.JobTaxiDriver {
		return 0.5
	}
	return 1
}
