package runtime

import modelpkg "neondrift.city/internal/sim/world/kernel/model"

const (
	sleepDeprived   = 20
	starving        = 15
	staminaRegen    = 0.3
	starvationFloor = 1
)

// IsNight is the window in which night-only effects apply.
func IsNight(timeOfDay float64) bool {
	return timeOfDay > 0.75 || timeOfDay < 0.1
}

// Tick applies the per-tick vital pressure: sleep loss feeds stress and
// anxiety, starvation bleeds hp (never lethal on its own), stamina recovers.
func Tick(s *modelpkg.Stats, p *modelpkg.Psyche) {
	if s.Sleep < sleepDeprived {
		s.Stress += 0.05
		p.Anxiety += 0.05
	}
	if s.Hunger < starving && s.HP > starvationFloor {
		s.HP = max(starvationFloor, s.HP-0.02)
	}
	s.Stamina = min(s.MaxStamina, s.Stamina+staminaRegen)
	s.Clamp()
	p.Clamp()
}

// MoveCost is what one step takes out of the player.
func MoveCost(s *modelpkg.Stats) {
	s.Hunger -= 0.3
	s.Sleep -= 0.15
	s.Stamina--
	s.Clamp()
}
