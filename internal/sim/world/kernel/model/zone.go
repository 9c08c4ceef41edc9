package model

// ZoneProps is immutable per-district reference data.
type ZoneProps struct {
	Name         string
	Light        float64
	Surveillance float64
	ErrorRate    float64
	NPCDensity   float64
	Danger       float64
}

var zoneProps = [ZoneCount]ZoneProps{
	ZoneNeonCommercial: {Name: "Neon Commercial", Light: 0.9, Surveillance: 0.8, ErrorRate: 0.02, NPCDensity: 0.15, Danger: 0.2},
	ZoneResidential:    {Name: "Residential", Light: 0.6, Surveillance: 0.4, ErrorRate: 0.05, NPCDensity: 0.10, Danger: 0.3},
	ZoneLowSignal:      {Name: "Low Signal", Light: 0.3, Surveillance: 0.1, ErrorRate: 0.15, NPCDensity: 0.08, Danger: 0.6},
	ZoneIndustrial:     {Name: "Industrial", Light: 0.2, Surveillance: 0.5, ErrorRate: 0.20, NPCDensity: 0.03, Danger: 0.5},
	ZoneRooftopNetwork: {Name: "Rooftop Network", Light: 0.7, Surveillance: 0.3, ErrorRate: 0.08, NPCDensity: 0.05, Danger: 0.4},
}

func (z Zone) Props() ZoneProps {
	if z >= ZoneCount {
		return zoneProps[ZoneResidential]
	}
	return zoneProps[z]
}

// EncounterKind is the enemy template spawned by a random encounter in z.
func (z Zone) EncounterKind() string {
	switch z {
	case ZoneNeonCommercial, ZoneRooftopNetwork:
		return "drone"
	case ZoneIndustrial:
		return "error"
	case ZoneResidential, ZoneLowSignal:
		return "gang"
	}
	return "gang"
}
