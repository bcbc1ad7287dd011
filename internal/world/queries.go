package world

// SpawnDensity is the fraction of road tiles offered as spawn points.
const SpawnDensity = 0.02

// SpawnPoint is a candidate agent spawn on a road tile.
type SpawnPoint struct {
	Tile      Point     `json:"tile"`
	Pos       Vec       `json:"pos"`
	Direction Direction `json:"direction"`
}

// RoadTiles returns every lane and intersection tile in row-major order.
func (t *Town) RoadTiles() []Point {
	return t.tilesWhere(func(k Kind) bool { return k.IsRoad() })
}

// SidewalkTiles returns every sidewalk and alley tile in row-major order.
func (t *Town) SidewalkTiles() []Point {
	return t.tilesWhere(func(k Kind) bool { return k == KindSidewalk || k == KindAlley })
}

// NavigableTiles returns every road, sidewalk and alley tile.
func (t *Town) NavigableTiles() []Point {
	return t.tilesWhere(Kind.Accessible)
}

func (t *Town) tilesWhere(keep func(Kind) bool) []Point {
	var out []Point
	t.Grid.Each(func(p Point, tile Tile) {
		if keep(tile.Kind) {
			out = append(out, p)
		}
	})
	return out
}

// SpawnPoints samples road tiles at SpawnDensity. A lane spawn faces its
// lane direction; an intersection spawn faces a random direction.
func (t *Town) SpawnPoints(rng Rand) []SpawnPoint {
	var out []SpawnPoint
	for _, p := range t.RoadTiles() {
		if rng.Float64() >= SpawnDensity {
			continue
		}
		tile, _ := t.Grid.At(p)
		dir := tile.Lane
		if tile.Kind == KindIntersection {
			dir = Directions[rng.Intn(len(Directions))]
		}
		out = append(out, SpawnPoint{Tile: p, Pos: p.Center(), Direction: dir})
	}
	return out
}

// PlayerSpawnPoint returns the sidewalk or alley tile centre nearest the
// world centre, or the world centre when the town has no walkways.
func (t *Town) PlayerSpawnPoint() Vec {
	center := t.Grid.WorldSize().Scale(0.5)
	best := center
	bestDist := -1.0
	for _, p := range t.SidewalkTiles() {
		c := p.Center()
		d := abs64(c.X-center.X) + abs64(c.Y-center.Y)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func abs64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
