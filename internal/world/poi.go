package world

// POIType enumerates point-of-interest kinds.
type POIType uint8

const (
	POIWell POIType = iota
	POINPCSpot
)

// POIName returns a human-readable name for a POI type.
func POIName(t POIType) string {
	switch t {
	case POIWell:
		return "well"
	case POINPCSpot:
		return "npc_spot"
	default:
		return "unknown"
	}
}

// Spot is a placed point of interest.
type Spot struct {
	Tile Point   `json:"tile"`
	Pos  Vec     `json:"pos"`
	Type POIType `json:"type"`
}

const (
	wellSearchRadius  = 3 // 7x7 window
	npcSpotTarget     = 5
	npcSpotMinimum    = 3
	npcSampleAttempts = 20
	npcSampleInset    = 3
)

// wellAnchors returns the canonical well anchors on the road fractions.
func wellAnchors(g *Grid) []Point {
	w, h := g.Width, g.Height
	return []Point{
		{X: w / 4, Y: h / 2},
		{X: w * 3 / 4, Y: h / 2},
		{X: w / 2, Y: h / 4},
		{X: w / 2, Y: h * 3 / 4},
	}
}

// placeWells converts the first sidewalk or road tile in the window around
// each anchor into a well.
func placeWells(g *Grid) []Spot {
	var wells []Spot
	for _, anchor := range wellAnchors(g) {
	search:
		for dy := -wellSearchRadius; dy <= wellSearchRadius; dy++ {
			for dx := -wellSearchRadius; dx <= wellSearchRadius; dx++ {
				p := Point{X: anchor.X + dx, Y: anchor.Y + dy}
				k, ok := g.KindAt(p)
				if !ok || (k != KindSidewalk && !k.IsRoad()) {
					continue
				}
				g.set(p, Tile{Kind: KindPointOfInterest})
				wells = append(wells, Spot{Tile: p, Pos: p.Center(), Type: POIWell})
				break search
			}
		}
	}
	return wells
}

// placeNPCSpots samples random tiles, keeping alley or sidewalk hits, until
// npcSpotTarget are found or the attempt budget runs out. If fewer than
// npcSpotMinimum were found, a row-major scan for sidewalk tops them up.
// NPC spots annotate walkways and leave the tile classification unchanged.
func placeNPCSpots(g *Grid, rng Rand) []Spot {
	var spots []Spot
	taken := make(map[Point]bool)

	x0, xn := sampleRange(g.Width)
	y0, yn := sampleRange(g.Height)
	for i := 0; i < npcSampleAttempts && len(spots) < npcSpotTarget; i++ {
		p := Point{X: x0 + rng.Intn(xn), Y: y0 + rng.Intn(yn)}
		if taken[p] || !(g.Is(p, KindAlley) || g.Is(p, KindSidewalk)) {
			continue
		}
		taken[p] = true
		spots = append(spots, Spot{Tile: p, Pos: p.Center(), Type: POINPCSpot})
	}

	if len(spots) >= npcSpotMinimum {
		return spots
	}
	g.Each(func(p Point, t Tile) {
		if len(spots) >= npcSpotMinimum || taken[p] || t.Kind != KindSidewalk {
			return
		}
		taken[p] = true
		spots = append(spots, Spot{Tile: p, Pos: p.Center(), Type: POINPCSpot})
	})
	return spots
}

// sampleRange returns the start and size of the inset sampling interval
// along one axis, falling back to the full axis on narrow grids.
func sampleRange(n int) (start, size int) {
	if n-2*npcSampleInset > 0 {
		return npcSampleInset, n - 2*npcSampleInset
	}
	return 0, n
}
