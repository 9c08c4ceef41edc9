package model

// Glyphs are presentation hints carried on tiles; the sim only switches
// between them when state changes what a tile shows.
const (
	GlyphFloor    = '.'
	GlyphRoad     = '='
	GlyphBuilding = '#'
	GlyphWall     = '|'
	GlyphNeon     = '*'
	GlyphError    = '%'
	GlyphDoor     = '+'
	GlyphTerminal = '$'
	GlyphCCTV     = '@'
	GlyphItem     = 'i'
	GlyphChest    = '&'
)

// ErrorThreshold is the contamination level above which a tile counts as
// an error tile.
const ErrorThreshold = 0.5

type Tile struct {
	Glyph       rune
	Zone        Zone
	Walkable    bool
	Neon        bool
	Visits      int
	Error       float64
	Interaction InteractionKind
	Drop        string
}

func (t *Tile) Errored() bool { return t.Error > ErrorThreshold }

// Grid is a row-major W*H tile map.
type Grid struct {
	W, H  int
	Tiles []Tile
}

func NewGrid(w, h int) *Grid {
	g := &Grid{W: w, H: h, Tiles: make([]Tile, w*h)}
	for i := range g.Tiles {
		g.Tiles[i] = Tile{Glyph: GlyphFloor, Zone: ZoneResidential, Walkable: true}
	}
	return g
}

func (g *Grid) In(x, y int) bool { return x >= 0 && y >= 0 && x < g.W && y < g.H }

func (g *Grid) Index(x, y int) int { return y*g.W + x }

// At returns the tile at (x,y), or false outside the grid.
func (g *Grid) At(x, y int) (*Tile, bool) {
	if !g.In(x, y) {
		return nil, false
	}
	return &g.Tiles[g.Index(x, y)], true
}

func (g *Grid) Center() (int, int) { return g.W / 2, g.H / 2 }

// Each visits tiles in row-major order.
func (g *Grid) Each(fn func(x, y int, t *Tile)) {
	for i := range g.Tiles {
		fn(i%g.W, i/g.W, &g.Tiles[i])
	}
}
