package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"neondrift.city/internal/protocol"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

var glyphStyles = map[rune]tcell.Style{
	modelpkg.GlyphFloor:    tcell.StyleDefault.Foreground(tcell.ColorGray),
	modelpkg.GlyphRoad:     tcell.StyleDefault.Foreground(tcell.ColorDarkGray),
	modelpkg.GlyphBuilding: tcell.StyleDefault.Foreground(tcell.ColorSlateGray),
	modelpkg.GlyphWall:     tcell.StyleDefault.Foreground(tcell.ColorWhite),
	modelpkg.GlyphNeon:     tcell.StyleDefault.Foreground(tcell.ColorFuchsia),
	modelpkg.GlyphError:    tcell.StyleDefault.Foreground(tcell.ColorRed),
	modelpkg.GlyphDoor:     tcell.StyleDefault.Foreground(tcell.ColorOrange),
	modelpkg.GlyphTerminal: tcell.StyleDefault.Foreground(tcell.ColorAqua),
	modelpkg.GlyphCCTV:     tcell.StyleDefault.Foreground(tcell.ColorYellow),
	modelpkg.GlyphItem:     tcell.StyleDefault.Foreground(tcell.ColorGreen),
	modelpkg.GlyphChest:    tcell.StyleDefault.Foreground(tcell.ColorGold),
}

var entityGlyphs = map[string]struct {
	r     rune
	style tcell.Style
}{
	"npc":     {'N', tcell.StyleDefault.Foreground(tcell.ColorLightCyan)},
	"enemy":   {'E', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)},
	"watcher": {'W', tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true)},
}

func draw(s tcell.Screen, v protocol.ViewMsg) {
	s.Clear()

	for dy, row := range v.Tiles {
		for dx, r := range []rune(row) {
			st, ok := glyphStyles[r]
			if !ok {
				st = tcell.StyleDefault
			}
			if v.Distorted && r != ' ' && (dx+dy+int(v.Tick))%7 == 0 {
				r = '?'
			}
			s.SetContent(dx, dy, r, nil, st)
		}
	}
	for _, e := range v.Entities {
		g, ok := entityGlyphs[e.Kind]
		if !ok {
			continue
		}
		s.SetContent(e.Pos[0]-v.Origin[0], e.Pos[1]-v.Origin[1], g.r, nil, g.style)
	}
	s.SetContent(v.Radius, v.Radius, '@', nil, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))

	x := 2*v.Radius + 3
	y := 0
	for _, line := range hud(v) {
		putString(s, x, y, line, tcell.StyleDefault)
		y++
	}

	y = 2*v.Radius + 2
	if v.Active != "" {
		putString(s, 0, y, v.Active, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}
	s.Show()
}

// hud renders the side panel for the current mode.
func hud(v protocol.ViewMsg) []string {
	p := v.Player
	lines := []string{
		fmt.Sprintf("%s  lv%d  %s", p.Job, p.Level, p.Zone),
		fmt.Sprintf("hp %.0f/%.0f  stress %.0f", p.HP, p.MaxHP, p.Stress),
		fmt.Sprintf("hunger %.0f  sleep %.0f", p.Hunger, p.Sleep),
		fmt.Sprintf("credits %sc  wanted %d", humanize.Comma(int64(p.Credits)), p.Wanted),
		fmt.Sprintf("sync %d  decay %d  net %d", p.Sync, p.Decay, p.Network),
		fmt.Sprintf("%s  %02.0f:00", v.Clock.Weather, v.Clock.TimeOfDay*24),
		"",
	}

	switch v.Mode {
	case "combat":
		if c := v.Combat; c != nil {
			lines = append(lines, fmt.Sprintf("vs %s  %d/%d", c.EnemyName, c.EnemyHP, c.EnemyMaxHP))
			for i, opt := range []string{"attack", "skill", "item", "flee"} {
				marker := "  "
				if i == c.Cursor {
					marker = "> "
				}
				lines = append(lines, marker+opt)
			}
			lines = append(lines, c.Log...)
		}
	case "inventory":
		lines = append(lines, fmt.Sprintf("inventory  %.1f/%.0f", p.Weight, modelpkg.InventoryMaxWeight))
		for _, sl := range p.Inventory {
			lines = append(lines, fmt.Sprintf("%d %s x%d", sl.Slot+1, sl.Name, sl.Qty))
		}
		for _, slot := range sortedKeys(p.Equipped) {
			lines = append(lines, fmt.Sprintf("[%s] %s", slot, p.Equipped[slot]))
		}
	case "quests":
		for _, q := range v.Quests {
			lines = append(lines, q.Title)
			for _, o := range q.Objectives {
				box := "[ ]"
				if o.Done {
					box = "[x]"
				}
				lines = append(lines, "  "+box+" "+o.Label)
			}
		}
	case "character":
		for _, name := range sortedKeys(p.Skills) {
			sk := p.Skills[name]
			lines = append(lines, fmt.Sprintf("%-12s lv%d %d/%d", name, sk.Level, sk.XP, sk.XPNext))
		}
		for _, f := range sortedKeys(p.Reputation) {
			lines = append(lines, fmt.Sprintf("%-12s %+d", f, p.Reputation[f]))
		}
	case "shop":
		if sh := v.Shop; sh != nil {
			lines = append(lines, sh.Merchant)
			for i, it := range sh.Items {
				lines = append(lines, fmt.Sprintf("%d %s %dc", i+1, it.Name, it.Price))
			}
		}
	default:
		lines = append(lines, v.Events...)
	}
	return lines
}

func putString(s tcell.Screen, x, y int, str string, st tcell.Style) {
	for i, r := range []rune(strings.TrimRight(str, "\n")) {
		s.SetContent(x+i, y, r, nil, st)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
