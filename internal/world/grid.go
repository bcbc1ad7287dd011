package world

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSize is returned when a grid is requested with a non-positive dimension.
var ErrInvalidSize = errors.New("world: width and height must be positive")

// Grid holds the tile classifications of a rectangular town.
// It is written only during generation and read-only afterwards.
type Grid struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	tiles  []Tile // row-major
}

// NewGrid creates a grid with every tile Buildable.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("new grid %dx%d: %w", width, height, ErrInvalidSize)
	}
	return &Grid{
		Width:  width,
		Height: height,
		tiles:  make([]Tile, width*height),
	}, nil
}

// ParseGrid builds a grid from glyph rows as produced by Rows.
func ParseGrid(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse grid: %w", ErrInvalidSize)
	}
	g, err := NewGrid(len(rows[0]), len(rows))
	if err != nil {
		return nil, fmt.Errorf("parse grid: %w", err)
	}
	for y, row := range rows {
		if len(row) != g.Width {
			return nil, fmt.Errorf("parse grid: row %d has %d tiles, want %d", y, len(row), g.Width)
		}
		for x := 0; x < len(row); x++ {
			t, ok := ParseGlyph(row[x])
			if !ok {
				return nil, fmt.Errorf("parse grid: unknown glyph %q at (%d,%d)", row[x], x, y)
			}
			g.tiles[y*g.Width+x] = t
		}
	}
	return g, nil
}

// InBounds returns true if p lies inside the grid.
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// At returns the tile at p. The second result is false when p is out of bounds.
func (g *Grid) At(p Point) (Tile, bool) {
	if !g.InBounds(p) {
		return Tile{}, false
	}
	return g.tiles[p.Y*g.Width+p.X], true
}

// KindAt returns the classification at p, and false when out of bounds.
func (g *Grid) KindAt(p Point) (Kind, bool) {
	t, ok := g.At(p)
	return t.Kind, ok
}

// Is reports whether p is in bounds and classified as k.
func (g *Grid) Is(p Point, k Kind) bool {
	t, ok := g.At(p)
	return ok && t.Kind == k
}

// set overwrites the tile at p. Out-of-bounds writes are dropped.
func (g *Grid) set(p Point, t Tile) {
	if g.InBounds(p) {
		g.tiles[p.Y*g.Width+p.X] = t
	}
}

// Tiles returns a copy of the row-major tile array.
func (g *Grid) Tiles() []Tile {
	out := make([]Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}

// Count returns how many tiles are classified as k.
func (g *Grid) Count(k Kind) int {
	n := 0
	for _, t := range g.tiles {
		if t.Kind == k {
			n++
		}
	}
	return n
}

// Each calls fn for every tile in row-major order.
func (g *Grid) Each(fn func(p Point, t Tile)) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			fn(Point{X: x, Y: y}, g.tiles[y*g.Width+x])
		}
	}
}

// Rows renders the grid as one glyph string per row.
func (g *Grid) Rows() []string {
	rows := make([]string, g.Height)
	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		b.Reset()
		for x := 0; x < g.Width; x++ {
			b.WriteByte(g.tiles[y*g.Width+x].Glyph())
		}
		rows[y] = b.String()
	}
	return rows
}

// WorldSize returns the extent of the grid in world pixels.
func (g *Grid) WorldSize() Vec {
	return Vec{X: float64(g.Width * TileSize), Y: float64(g.Height * TileSize)}
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, buildings=%d)", g.Width, g.Height, g.Count(KindBuilding))
}
