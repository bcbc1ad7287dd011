// Package world provides the town grid, tile classification, and the staged
// town generator. Tiles are addressed by integer Points; agents move in world
// pixels (Vec), with each tile TileSize pixels on a side.
package world

import "math"

// TileSize is the edge length of one tile in world pixels.
const TileSize = 32

// Point is a tile coordinate. X grows east, Y grows south.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p offset by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Center returns the world position of the tile centre.
func (p Point) Center() Vec {
	return Vec{
		X: float64(p.X*TileSize + TileSize/2),
		Y: float64(p.Y*TileSize + TileSize/2),
	}
}

// Manhattan returns the taxicab distance between two tiles.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Vec is a position or velocity in world pixels.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec { return Vec{X: v.X * k, Y: v.Y * k} }
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec) Distance(o Vec) float64 { return v.Sub(o).Len() }

// Tile returns the tile containing the world position.
func (v Vec) Tile() Point {
	return Point{
		X: int(math.Floor(v.X / TileSize)),
		Y: int(math.Floor(v.Y / TileSize)),
	}
}

// Toward returns the unit vector from v to target, or the zero vector when
// they coincide.
func (v Vec) Toward(target Vec) Vec {
	d := target.Sub(v)
	l := d.Len()
	if l == 0 {
		return Vec{}
	}
	return d.Scale(1 / l)
}

// Direction is one of the four cardinal movement directions.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Directions lists the cardinal directions in neighbour scan order.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Delta returns the tile offset for one step in direction d.
func (d Direction) Delta() Point {
	switch d {
	case DirUp:
		return Point{Y: -1}
	case DirDown:
		return Point{Y: 1}
	case DirLeft:
		return Point{X: -1}
	case DirRight:
		return Point{X: 1}
	default:
		return Point{}
	}
}

// Unit returns the world-space unit vector for d.
func (d Direction) Unit() Vec {
	p := d.Delta()
	return Vec{X: float64(p.X), Y: float64(p.Y)}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// Horizontal reports whether d moves along the X axis.
func (d Direction) Horizontal() bool {
	return d == DirLeft || d == DirRight
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// DirectionOf returns the cardinal direction of the dominant axis of v.
// Ties favour the vertical axis; the zero vector yields DirNone.
func DirectionOf(v Vec) Direction {
	if v.X == 0 && v.Y == 0 {
		return DirNone
	}
	if math.Abs(v.X) > math.Abs(v.Y) {
		if v.X > 0 {
			return DirRight
		}
		return DirLeft
	}
	if v.Y > 0 {
		return DirDown
	}
	return DirUp
}

// Rand is the random source consumed by generation, navigation and agents.
// *math/rand.Rand satisfies it; tests inject scripted sources.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
