package model

import "fmt"

// Closed enumerations shared by the world. Each one round-trips through its
// lower_snake name so catalogs and saves stay readable.

type Zone uint8

const (
	ZoneNeonCommercial Zone = iota
	ZoneResidential
	ZoneLowSignal
	ZoneIndustrial
	ZoneRooftopNetwork
	ZoneCount
)

var zoneNames = []string{"neon_commercial", "residential", "low_signal", "industrial", "rooftop_network"}

func (z Zone) String() string                 { return enumName(zoneNames, int(z)) }
func (z Zone) MarshalText() ([]byte, error)   { return []byte(z.String()), nil }
func (z *Zone) UnmarshalText(b []byte) error { return parseEnum(zoneNames, "zone", b, z) }

type Weather uint8

const (
	WeatherClear Weather = iota
	WeatherRain
	WeatherHeavy
	WeatherCount
)

var weatherNames = []string{"clear", "rain", "heavy_rain"}

func (w Weather) String() string                 { return enumName(weatherNames, int(w)) }
func (w Weather) MarshalText() ([]byte, error)   { return []byte(w.String()), nil }
func (w *Weather) UnmarshalText(b []byte) error { return parseEnum(weatherNames, "weather", b, w) }

// Faction order is significant: ties in dominance resolve to the earlier one.
type Faction uint8

const (
	FactionNone Faction = iota
	FactionCorp
	FactionCitizens
	FactionGhosts
	FactionCount
)

// Factions lists the scored factions in declaration order.
var Factions = [...]Faction{FactionCorp, FactionCitizens, FactionGhosts}

var factionNames = []string{"none", "corp", "citizens", "ghosts"}

func (f Faction) String() string                 { return enumName(factionNames, int(f)) }
func (f Faction) MarshalText() ([]byte, error)   { return []byte(f.String()), nil }
func (f *Faction) UnmarshalText(b []byte) error { return parseEnum(factionNames, "faction", b, f) }

type Role uint8

const (
	RoleStranger Role = iota
	RoleMerchant
	RoleQuestGiver
	RoleFaction
)

var roleNames = []string{"stranger", "merchant", "quest", "faction"}

func (r Role) String() string                 { return enumName(roleNames, int(r)) }
func (r Role) MarshalText() ([]byte, error)   { return []byte(r.String()), nil }
func (r *Role) UnmarshalText(b []byte) error { return parseEnum(roleNames, "role", b, r) }

type InteractionKind uint8

const (
	InteractNone InteractionKind = iota
	InteractDoor
	InteractTerminal
	InteractCCTV
	InteractChest
)

var interactNames = []string{"none", "door", "terminal", "cctv", "chest"}

func (k InteractionKind) String() string               { return enumName(interactNames, int(k)) }
func (k InteractionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *InteractionKind) UnmarshalText(b []byte) error {
	return parseEnum(interactNames, "interaction", b, k)
}

type Job uint8

const (
	JobCourier Job = iota
	JobNightClerk
	JobServerAssistant
	JobTaxiDriver
	JobUnemployed
	JobCount
)

var jobNames = []string{"courier", "night_clerk", "server_assistant", "taxi_driver", "unemployed"}

func (j Job) String() string                 { return enumName(jobNames, int(j)) }
func (j Job) MarshalText() ([]byte, error)   { return []byte(j.String()), nil }
func (j *Job) UnmarshalText(b []byte) error { return parseEnum(jobNames, "job", b, j) }

func ParseJob(s string) (Job, error) {
	var j Job
	err := j.UnmarshalText([]byte(s))
	return j, err
}

type EquipSlot uint8

const (
	SlotNone EquipSlot = iota
	SlotWeapon
	SlotArmor
	SlotAccessory
	SlotCount
)

var slotNames = []string{"", "weapon", "armor", "accessory"}

func (s EquipSlot) String() string                 { return enumName(slotNames, int(s)) }
func (s EquipSlot) MarshalText() ([]byte, error)   { return []byte(s.String()), nil }
func (s *EquipSlot) UnmarshalText(b []byte) error { return parseEnum(slotNames, "slot", b, s) }

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

func parseEnum[T ~uint8](names []string, what string, b []byte, dst *T) error {
	s := string(b)
	for i, n := range names {
		if n == s {
			*dst = T(i)
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", what, s)
}
