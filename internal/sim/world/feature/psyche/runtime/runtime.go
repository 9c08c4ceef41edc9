package runtime

import modelpkg "neondrift.city/internal/sim/world/kernel/model"

// EntryInput describes the tile the player just stepped onto.
type EntryInput struct {
	Zone      modelpkg.ZoneProps
	Neon      bool
	Error     float64
	Weather   modelpkg.Weather
	Stealthed bool
	// SurveillanceScale scales the surveillance anxiety; 0 means 1.
	SurveillanceScale float64
}

// ZoneEntry applies the per-step emotional response to a tile.
func ZoneEntry(p *modelpkg.Psyche, in EntryInput) {
	if in.Zone.Light < 0.4 {
		p.Anxiety += 0.4
		p.Isolation += 0.2
	} else {
		p.Anxiety -= 0.1
		p.Stability += 0.05
	}
	if in.Zone.Surveillance > 0.6 && !in.Stealthed {
		scale := in.SurveillanceScale
		if scale == 0 {
			scale = 1
		}
		p.Anxiety += 0.5 * scale
	}
	if in.Neon {
		p.Isolation -= 0.4
		p.Stability += 0.1
	}
	if in.Error > modelpkg.ErrorThreshold {
		p.Anxiety += 0.6
	}
	switch in.Weather {
	case modelpkg.WeatherHeavy:
		p.Fatigue += 0.4
		p.Isolation += 0.2
	case modelpkg.WeatherRain:
		p.Fatigue += 0.1
	case modelpkg.WeatherClear:
	}
	p.Fatigue += 0.05
	p.Clamp()
}

// Drift is the per-tick background pull on the psyche.
func Drift(p *modelpkg.Psyche, timeOfDay float64) {
	p.Fatigue -= 0.008
	p.Isolation += 0.003
	if timeOfDay > 0.25 && timeOfDay < 0.6 {
		p.Stability += 0.005
	}
	p.Clamp()
}

// Contact is the relief of talking to someone.
func Contact(p *modelpkg.Psyche) {
	p.Isolation -= 5
	p.Clamp()
}

// Proximity is the dread of the watcher closing in.
func Proximity(p *modelpkg.Psyche) {
	p.Anxiety += 4
	p.Clamp()
}
