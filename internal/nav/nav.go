// Package nav answers next-waypoint queries over a generated town grid.
// The service holds no mutable state; randomness is supplied per call.
// It never plans a full route, only the next tile.
package nav

import "github.com/talgya/mini-town/internal/world"

// SearchRadius bounds the nearest-tile searches.
const SearchRadius = 20

// Straight-ahead entries per turn entry in the intersection choice set.
const straightWeight = 3

// sidewalkKeepChance is the probability of keeping the preferred sidewalk direction.
const sidewalkKeepChance = 0.7

// Waypoint is the next position to steer toward.
type Waypoint struct {
	Pos          world.Vec       `json:"pos"`
	Tile         world.Point     `json:"tile"`
	Direction    world.Direction `json:"direction"`
	Intersection bool            `json:"intersection"`
}

// Neighbor is a reachable adjacent tile and the direction that enters it.
type Neighbor struct {
	Tile      world.Point
	Direction world.Direction
}

// Service is a read-only query layer over a grid.
type Service struct {
	grid *world.Grid
}

// New creates a navigation service for g.
func New(g *world.Grid) *Service {
	return &Service{grid: g}
}

// Grid returns the underlying grid.
func (s *Service) Grid() *world.Grid {
	return s.grid
}

// IsRoad reports whether p is a lane or intersection tile.
func (s *Service) IsRoad(p world.Point) bool {
	k, ok := s.grid.KindAt(p)
	return ok && k.IsRoad()
}

// IsWalkable reports whether pedestrians may walk on p: sidewalk or alley.
func (s *Service) IsWalkable(p world.Point) bool {
	k, ok := s.grid.KindAt(p)
	return ok && (k == world.KindSidewalk || k == world.KindAlley)
}

// IsIntersection reports whether p is an intersection tile.
func (s *Service) IsIntersection(p world.Point) bool {
	return s.grid.Is(p, world.KindIntersection)
}

// permits reports whether a mover heading dir may enter the road tile at p.
// Lanes admit only their own direction; intersections admit all.
func (s *Service) permits(p world.Point, dir world.Direction) bool {
	t, ok := s.grid.At(p)
	if !ok {
		return false
	}
	switch t.Kind {
	case world.KindIntersection:
		return true
	case world.KindRoad:
		return t.Lane == dir
	default:
		return false
	}
}

// AdjacentRoads returns the 4-neighbours of p that are road tiles whose lane
// direction admits entry from p.
func (s *Service) AdjacentRoads(p world.Point) []Neighbor {
	var out []Neighbor
	for _, d := range world.Directions {
		n := p.Add(d.Delta())
		if s.permits(n, d) {
			out = append(out, Neighbor{Tile: n, Direction: d})
		}
	}
	return out
}

// AdjacentWalkable returns the walkable 4-neighbours of p.
func (s *Service) AdjacentWalkable(p world.Point) []Neighbor {
	var out []Neighbor
	for _, d := range world.Directions {
		n := p.Add(d.Delta())
		if s.IsWalkable(n) {
			out = append(out, Neighbor{Tile: n, Direction: d})
		}
	}
	return out
}

// NextRoadWaypoint picks the next road tile for a vehicle at pos heading dir.
//
// At an intersection with canTurn set, the reverse direction is excluded and
// the remaining options are drawn from a set where straight ahead appears
// three times and each turn once. Otherwise the vehicle continues straight if
// the tile ahead is road, or is forced onto any other admissible neighbour.
// With no admissible neighbour the current tile centre is returned with dir
// unchanged.
func (s *Service) NextRoadWaypoint(rng world.Rand, pos world.Vec, dir world.Direction, canTurn bool) Waypoint {
	tile := pos.Tile()
	here := s.IsIntersection(tile)

	if here && canTurn {
		var weighted []Neighbor
		for _, n := range s.AdjacentRoads(tile) {
			if n.Direction == dir.Opposite() {
				continue
			}
			if n.Direction == dir {
				for i := 0; i < straightWeight; i++ {
					weighted = append(weighted, n)
				}
				continue
			}
			weighted = append(weighted, n)
		}
		if len(weighted) > 0 {
			chosen := weighted[rng.Intn(len(weighted))]
			return s.waypointAt(chosen.Tile, chosen.Direction)
		}
	}

	if dir != world.DirNone {
		if ahead := tile.Add(dir.Delta()); s.IsRoad(ahead) {
			return s.waypointAt(ahead, dir)
		}
	}

	// Dead end or grid edge: reroute onto any other admissible neighbour.
	var options []Neighbor
	for _, n := range s.AdjacentRoads(tile) {
		if n.Direction != dir {
			options = append(options, n)
		}
	}
	if len(options) > 0 {
		chosen := options[rng.Intn(len(options))]
		return s.waypointAt(chosen.Tile, chosen.Direction)
	}

	return Waypoint{
		Pos:          tile.Center(),
		Tile:         tile,
		Direction:    dir,
		Intersection: here,
	}
}

func (s *Service) waypointAt(p world.Point, dir world.Direction) Waypoint {
	return Waypoint{
		Pos:          p.Center(),
		Tile:         p,
		Direction:    dir,
		Intersection: s.IsIntersection(p),
	}
}

// NextSidewalkWaypoint picks the next walkable tile for a pedestrian.
// The reverse of dir is excluded unless it is the only way on. A neighbour in
// the preferred direction (dir when preferred is DirNone) is kept with 70%
// probability; otherwise the choice is uniform.
func (s *Service) NextSidewalkWaypoint(rng world.Rand, pos world.Vec, dir, preferred world.Direction) Waypoint {
	tile := pos.Tile()
	adjacent := s.AdjacentWalkable(tile)
	if len(adjacent) == 0 {
		return Waypoint{Pos: tile.Center(), Tile: tile, Direction: dir}
	}

	var valid []Neighbor
	for _, n := range adjacent {
		if n.Direction != dir.Opposite() || dir == world.DirNone {
			valid = append(valid, n)
		}
	}
	if len(valid) == 0 {
		valid = adjacent
	}

	if preferred == world.DirNone {
		preferred = dir
	}
	var chosen *Neighbor
	for i := range valid {
		if valid[i].Direction == preferred {
			chosen = &valid[i]
			break
		}
	}
	if chosen == nil || rng.Float64() >= sidewalkKeepChance {
		chosen = &valid[rng.Intn(len(valid))]
	}

	return Waypoint{Pos: chosen.Tile.Center(), Tile: chosen.Tile, Direction: chosen.Direction}
}

// FindNearestRoad returns the centre of the closest road tile to pos.
func (s *Service) FindNearestRoad(pos world.Vec) (world.Vec, bool) {
	return s.findNearest(pos, s.IsRoad)
}

// FindNearestSidewalk returns the centre of the closest walkable tile to pos.
func (s *Service) FindNearestSidewalk(pos world.Vec) (world.Vec, bool) {
	return s.findNearest(pos, s.IsWalkable)
}

// findNearest scans squares of growing radius around the tile under pos.
// The first radius with any match wins; within it the smallest Manhattan
// distance wins, ties going to the first tile in row-major scan order.
func (s *Service) findNearest(pos world.Vec, match func(world.Point) bool) (world.Vec, bool) {
	origin := pos.Tile()
	for radius := 1; radius <= SearchRadius; radius++ {
		best := -1
		var found world.Point
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				p := world.Point{X: origin.X + dx, Y: origin.Y + dy}
				if !match(p) {
					continue
				}
				if d := world.Manhattan(origin, p); best < 0 || d < best {
					best, found = d, p
				}
			}
		}
		if best >= 0 {
			return found.Center(), true
		}
	}
	return world.Vec{}, false
}
