package world

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"neondrift.city/internal/sim/world/feature/reputation"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

type Direction uint8

const (
	EndingSync Direction = iota
	EndingDecay
	EndingNetwork
)

var directionNames = [...]string{"sync", "decay", "network"}

func (d Direction) String() string { return directionNames[d] }

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

var directionTitles = [...]string{
	EndingSync:    "You became part of the city's signal.",
	EndingDecay:   "You rotted along with the broken code.",
	EndingNetwork: "You wove yourself into the people of the city.",
}

// Ending is the direction with the highest accumulator; ties go to sync,
// then decay.
func (w *World) Ending() Direction {
	e := w.player.Endings
	d, best := EndingSync, e.Sync
	if e.Decay > best {
		d, best = EndingDecay, e.Decay
	}
	if e.Network > best {
		d = EndingNetwork
	}
	return d
}

type Report struct {
	Direction    Direction
	Job          modelpkg.Job
	Level        int
	ZonesVisited int
	Quests       []string
	Contacts     int
	Credits      int
	Dominant     modelpkg.Faction
	Elapsed      float64
}

func (w *World) Report() Report {
	p := w.player
	dom, _ := reputation.Dominant(&p.Reputation)
	quests := make([]string, 0, len(p.CompletedOrder))
	for _, id := range p.CompletedOrder {
		if def, ok := w.cat.Quests.ByID[id]; ok {
			quests = append(quests, def.Title)
			continue
		}
		quests = append(quests, id)
	}
	return Report{
		Direction:    w.Ending(),
		Job:          p.Job,
		Level:        p.Stats.Level,
		ZonesVisited: p.ZonesVisited(),
		Quests:       quests,
		Contacts:     p.Contacts.Size(),
		Credits:      p.Stats.Credits,
		Dominant:     dom,
		Elapsed:      w.elapsed,
	}
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ending: %s\n", r.Direction)
	fmt.Fprintf(&b, "%s\n\n", directionTitles[r.Direction])
	fmt.Fprintf(&b, "job        %s\n", r.Job)
	fmt.Fprintf(&b, "level      %d\n", r.Level)
	fmt.Fprintf(&b, "districts  %d/%d\n", r.ZonesVisited, modelpkg.ZoneCount)
	fmt.Fprintf(&b, "contacts   %s\n", humanize.Comma(int64(r.Contacts)))
	fmt.Fprintf(&b, "credits    %sc\n", humanize.Comma(int64(r.Credits)))
	fmt.Fprintf(&b, "time       %s of sim time\n", humanizeSeconds(r.Elapsed))
	if r.Dominant != modelpkg.FactionNone {
		fmt.Fprintf(&b, "allegiance %s\n", r.Dominant)
	}
	if len(r.Quests) > 0 {
		fmt.Fprintf(&b, "quests     %s\n", strings.Join(r.Quests, ", "))
	}
	return b.String()
}

func humanizeSeconds(s float64) string {
	m := int64(s) / 60
	if m == 0 {
		return humanize.FtoaWithDigits(s, 1) + "s"
	}
	return humanize.Comma(m) + "m"
}
