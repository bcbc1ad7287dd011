// Building placement: greedy multi-pass footprint packing over open ground.
package world

import "sort"

// HouseVariants is the number of house sprite variants a placement may draw.
const HouseVariants = 3

// BuildingRole marks the handful of buildings with a gameplay function.
type BuildingRole uint8

const (
	RoleHouse BuildingRole = iota
	RoleTavern
	RoleBlacksmith
	RoleBlackMarket
)

// RoleName returns a human-readable name for a building role.
func RoleName(r BuildingRole) string {
	switch r {
	case RoleHouse:
		return "house"
	case RoleTavern:
		return "tavern"
	case RoleBlacksmith:
		return "blacksmith"
	case RoleBlackMarket:
		return "black_market"
	default:
		return "unknown"
	}
}

// BuildingPlacement records one placed footprint.
type BuildingPlacement struct {
	Origin  Point        `json:"origin"` // top-left tile
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Variant int          `json:"variant"` // house sprite variant, 0..HouseVariants-1
	Role    BuildingRole `json:"role"`
}

// Center returns the world position of the footprint centre.
func (b BuildingPlacement) Center() Vec {
	return Vec{
		X: (float64(b.Origin.X) + float64(b.Width)/2) * TileSize,
		Y: (float64(b.Origin.Y) + float64(b.Height)/2) * TileSize,
	}
}

// Contains reports whether p lies inside the footprint.
func (b BuildingPlacement) Contains(p Point) bool {
	return p.X >= b.Origin.X && p.X < b.Origin.X+b.Width &&
		p.Y >= b.Origin.Y && p.Y < b.Origin.Y+b.Height
}

// footprint is one size class in the placement schedule.
type footprint struct {
	w, h   int
	passes int
}

// placementSchedule lists footprint sizes in priority order.
var placementSchedule = []footprint{
	{w: 3, h: 3, passes: 2},
	{w: 2, h: 3, passes: 1},
	{w: 3, h: 2, passes: 1},
	{w: 2, h: 2, passes: 2},
}

// placeBuildings scans the grid row-major for every pass of every size and
// claims each qualifying footprint immediately. Nothing is undone.
func placeBuildings(g *Grid, rng Rand) []BuildingPlacement {
	var placed []BuildingPlacement

	for _, fp := range placementSchedule {
		for pass := 0; pass < fp.passes; pass++ {
			for y := 0; y+fp.h <= g.Height; y++ {
				for x := 0; x+fp.w <= g.Width; x++ {
					origin := Point{X: x, Y: y}
					if !canPlaceBuilding(g, origin, fp.w, fp.h) {
						continue
					}
					for py := 0; py < fp.h; py++ {
						for px := 0; px < fp.w; px++ {
							g.set(Point{X: x + px, Y: y + py}, Tile{Kind: KindBuilding})
						}
					}
					placed = append(placed, BuildingPlacement{
						Origin:  origin,
						Width:   fp.w,
						Height:  fp.h,
						Variant: rng.Intn(HouseVariants),
					})
				}
			}
		}
	}
	return placed
}

// canPlaceBuilding requires every footprint tile to be Buildable and at least
// one edge-adjacent tile outside the footprint to be accessible.
func canPlaceBuilding(g *Grid, origin Point, w, h int) bool {
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			if !g.Is(Point{X: origin.X + px, Y: origin.Y + py}, KindBuildable) {
				return false
			}
		}
	}
	return hasFrontage(g, origin, w, h)
}

func hasFrontage(g *Grid, origin Point, w, h int) bool {
	accessible := func(p Point) bool {
		k, ok := g.KindAt(p)
		return ok && k.Accessible()
	}
	for px := 0; px < w; px++ {
		if accessible(Point{X: origin.X + px, Y: origin.Y - 1}) ||
			accessible(Point{X: origin.X + px, Y: origin.Y + h}) {
			return true
		}
	}
	for py := 0; py < h; py++ {
		if accessible(Point{X: origin.X - 1, Y: origin.Y + py}) ||
			accessible(Point{X: origin.X + w, Y: origin.Y + py}) {
			return true
		}
	}
	return false
}

// designateSpecialBuildings assigns tavern, blacksmith and black market to
// the three buildings of at least 2x2 nearest the town centre. Towns with
// fewer than three candidates get no special buildings.
func designateSpecialBuildings(g *Grid, buildings []BuildingPlacement) {
	center := Vec{X: float64(g.Width) * TileSize / 2, Y: float64(g.Height) * TileSize / 2}
	dist := func(b BuildingPlacement) float64 {
		c := b.Center()
		dx, dy := c.X-center.X, c.Y-center.Y
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		return dx + dy
	}

	var candidates []int
	for i, b := range buildings {
		if b.Width >= 2 && b.Height >= 2 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) < 3 {
		return
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return dist(buildings[candidates[i]]) < dist(buildings[candidates[j]])
	})

	buildings[candidates[0]].Role = RoleTavern
	buildings[candidates[1]].Role = RoleBlacksmith
	buildings[candidates[2]].Role = RoleBlackMarket
}

// BuildingsByRole returns the placements carrying role r, in placement order.
func (t *Town) BuildingsByRole(r BuildingRole) []BuildingPlacement {
	var out []BuildingPlacement
	for _, b := range t.Buildings {
		if b.Role == r {
			out = append(out, b)
		}
	}
	return out
}
