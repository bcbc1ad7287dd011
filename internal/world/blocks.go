package world

// MinBlockTiles is the smallest region that receives a sidewalk ring.
const MinBlockTiles = 9

// MinAlleySpan is the shortest run of open ground split by an alley.
const MinAlleySpan = 6

// Block is a maximal 4-connected region of Buildable tiles.
type Block struct {
	Min   Point   `json:"min"`
	Max   Point   `json:"max"` // inclusive
	Tiles []Point `json:"-"`
}

// Len returns the number of member tiles.
func (b Block) Len() int {
	return len(b.Tiles)
}

// Width returns the bounding rectangle width.
func (b Block) Width() int { return b.Max.X - b.Min.X + 1 }

// Height returns the bounding rectangle height.
func (b Block) Height() int { return b.Max.Y - b.Min.Y + 1 }

// findBlocks flood-fills every Buildable region once, in row-major order of
// each region's first tile.
func findBlocks(g *Grid) []Block {
	visited := make([]bool, g.Width*g.Height)
	var blocks []Block

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			start := Point{X: x, Y: y}
			if visited[y*g.Width+x] || !g.Is(start, KindBuildable) {
				continue
			}

			b := Block{Min: start, Max: start}
			visited[y*g.Width+x] = true
			queue := []Point{start}
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				b.Tiles = append(b.Tiles, cur)
				b.Min.X = min(b.Min.X, cur.X)
				b.Min.Y = min(b.Min.Y, cur.Y)
				b.Max.X = max(b.Max.X, cur.X)
				b.Max.Y = max(b.Max.Y, cur.Y)

				for _, d := range Directions {
					n := cur.Add(d.Delta())
					if !g.Is(n, KindBuildable) || visited[n.Y*g.Width+n.X] {
						continue
					}
					visited[n.Y*g.Width+n.X] = true
					queue = append(queue, n)
				}
			}
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// addSidewalkBorder converts the Buildable tiles on the edges of the block's
// bounding rectangle into sidewalk.
func addSidewalkBorder(g *Grid, b Block) {
	sidewalk := func(p Point) {
		if g.Is(p, KindBuildable) {
			g.set(p, Tile{Kind: KindSidewalk})
		}
	}
	for x := b.Min.X; x <= b.Max.X; x++ {
		sidewalk(Point{X: x, Y: b.Min.Y})
		sidewalk(Point{X: x, Y: b.Max.Y})
	}
	for y := b.Min.Y; y <= b.Max.Y; y++ {
		sidewalk(Point{X: b.Min.X, Y: y})
		sidewalk(Point{X: b.Max.X, Y: y})
	}
}

// carveAlleys splits long runs of open ground. Row and column runs are both
// measured on the grid as it stands before any alley is written, then the
// midpoint of every run of at least MinAlleySpan tiles becomes an alley.
func carveAlleys(g *Grid) {
	var alleys []Point

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; {
			run := 0
			for x+run < g.Width && g.Is(Point{X: x + run, Y: y}, KindBuildable) {
				run++
			}
			if run >= MinAlleySpan {
				alleys = append(alleys, Point{X: x + run/2, Y: y})
			}
			x += max(run, 1)
		}
	}

	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; {
			run := 0
			for y+run < g.Height && g.Is(Point{X: x, Y: y + run}, KindBuildable) {
				run++
			}
			if run >= MinAlleySpan {
				alleys = append(alleys, Point{X: x, Y: y + run/2})
			}
			y += max(run, 1)
		}
	}

	for _, p := range alleys {
		g.set(p, Tile{Kind: KindAlley})
	}
}
