// Town generation in staged passes: roads, blocks with sidewalks, alleys,
// buildings, then points of interest. Road, block and alley geometry depend
// only on the grid size; the random source picks building sprites and NPC
// spots, and the seed drives the decorative ground layer.
package world

import (
	"fmt"
	"log/slog"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds town generation parameters.
type GenConfig struct {
	Width  int   // Grid width in tiles
	Height int   // Grid height in tiles
	Seed   int64 // Seeds the ground-variant noise layer
}

// DefaultGenConfig returns the standard town size.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:  40,
		Height: 30,
		Seed:   42,
	}
}

// SmallTestConfig returns a tiny town for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Width:  16,
		Height: 12,
		Seed:   7,
	}
}

// Road layout fractions shared by road carving and well anchors.
const (
	roadWidth       = 2
	quarterFraction = 0.25
	threeQuarters   = 0.75
)

// GroundVariants is the number of decorative variants for open ground.
const GroundVariants = 4

// Town is the immutable product of generation.
type Town struct {
	Grid      *Grid
	Blocks    []Block
	Buildings []BuildingPlacement
	POIs      map[POIType][]Spot
	Seed      int64

	ground []uint8
}

// Generate builds a complete town. The only error is an invalid size; a grid
// too small to hold any block simply yields no buildings.
func Generate(cfg GenConfig, rng Rand) (*Town, error) {
	g, err := NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("generate town: %w", err)
	}

	t := &Town{
		Grid: g,
		POIs: make(map[POIType][]Spot),
		Seed: cfg.Seed,
	}

	carveRoads(g)
	t.Blocks = findBlocks(g)
	for _, b := range t.Blocks {
		if b.Len() >= MinBlockTiles {
			addSidewalkBorder(g, b)
		}
	}
	carveAlleys(g)
	t.Buildings = placeBuildings(g, rng)
	designateSpecialBuildings(g, t.Buildings)
	t.POIs[POIWell] = placeWells(g)
	t.POIs[POINPCSpot] = placeNPCSpots(g, rng)
	t.ground = groundLayer(g, cfg.Seed)

	slog.Info("town generated",
		"width", g.Width,
		"height", g.Height,
		"blocks", len(t.Blocks),
		"buildings", len(t.Buildings),
		"wells", len(t.POIs[POIWell]),
		"npc_spots", len(t.POIs[POINPCSpot]),
	)
	return t, nil
}

// carveRoads lays the thoroughfares: a central cross, secondary horizontals
// at 1/4 and 3/4 height, a partial vertical at 1/4 width spanning only
// between the secondary horizontals, and a full vertical at 3/4 width.
func carveRoads(g *Grid) {
	w, h := g.Width, g.Height

	mainY := h/2 - roadWidth/2
	mainX := w/2 - roadWidth/2
	topY := int(float64(h) * quarterFraction)
	bottomY := int(float64(h) * threeQuarters)
	leftX := int(float64(w) * quarterFraction)
	rightX := int(float64(w) * threeQuarters)

	carveHorizontal(g, mainY, 0, w-1)
	carveVertical(g, mainX, 0, h-1)
	carveHorizontal(g, topY, 0, w-1)
	carveHorizontal(g, bottomY, 0, w-1)
	carveVertical(g, leftX, topY, bottomY+roadWidth-1)
	carveVertical(g, rightX, 0, h-1)
}

// carveHorizontal writes a two-lane road with its top row westbound and its
// bottom row eastbound.
func carveHorizontal(g *Grid, y0, x0, x1 int) {
	for dy := 0; dy < roadWidth; dy++ {
		lane := DirLeft
		if dy > 0 {
			lane = DirRight
		}
		for x := x0; x <= x1; x++ {
			writeRoad(g, Point{X: x, Y: y0 + dy}, lane)
		}
	}
}

// carveVertical writes a two-lane road with its left column southbound and
// its right column northbound.
func carveVertical(g *Grid, x0, y0, y1 int) {
	for dx := 0; dx < roadWidth; dx++ {
		lane := DirDown
		if dx > 0 {
			lane = DirUp
		}
		for y := y0; y <= y1; y++ {
			writeRoad(g, Point{X: x0 + dx, Y: y}, lane)
		}
	}
}

// writeRoad marks p as a lane. A tile already carved on the other axis
// becomes an intersection.
func writeRoad(g *Grid, p Point, lane Direction) {
	cur, ok := g.At(p)
	if !ok {
		return
	}
	switch {
	case cur.Kind == KindIntersection:
		return
	case cur.Kind == KindRoad && cur.Lane.Horizontal() != lane.Horizontal():
		g.set(p, Tile{Kind: KindIntersection})
	default:
		g.set(p, Tile{Kind: KindRoad, Lane: lane})
	}
}

// groundLayer samples fractal simplex noise into a per-tile decorative
// variant. It is cosmetic and never feeds back into classification.
func groundLayer(g *Grid, seed int64) []uint8 {
	noise := opensimplex.NewNormalized(seed)
	out := make([]uint8, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			n := octaveNoise(noise, float64(x), float64(y), 3, 0.12, 0.5)
			v := int(n * GroundVariants)
			if v >= GroundVariants {
				v = GroundVariants - 1
			}
			if v < 0 {
				v = 0
			}
			out[y*g.Width+x] = uint8(v)
		}
	}
	return out
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// GroundVariant returns the decorative variant for the tile at p, or 0 when
// p is out of bounds.
func (t *Town) GroundVariant(p Point) int {
	if !t.Grid.InBounds(p) {
		return 0
	}
	return int(t.ground[p.Y*t.Grid.Width+p.X])
}

// GroundRows renders the ground layer as one digit string per row, aligned
// with Grid.Rows.
func (t *Town) GroundRows() []string {
	rows := make([]string, t.Grid.Height)
	buf := make([]byte, t.Grid.Width)
	for y := range rows {
		for x := range buf {
			buf[x] = '0' + byte(t.GroundVariant(Point{X: x, Y: y}))
		}
		rows[y] = string(buf)
	}
	return rows
}

// KindCounts returns a summary of tile kind distribution.
func KindCounts(g *Grid) map[Kind]int {
	counts := make(map[Kind]int)
	g.Each(func(_ Point, t Tile) {
		counts[t.Kind]++
	})
	return counts
}
