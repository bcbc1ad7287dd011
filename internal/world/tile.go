package world

// Kind is the semantic classification of one grid cell.
type Kind uint8

const (
	KindBuildable    Kind = iota // Open ground, available for blocks and buildings
	KindRoad                     // One-way lane; see Tile.Lane
	KindIntersection             // Road tile where two carves cross; all directions allowed
	KindSidewalk
	KindAlley
	KindBuilding
	KindPointOfInterest
)

// Tile is one grid cell.
type Tile struct {
	Kind Kind      `json:"kind"`
	Lane Direction `json:"lane,omitempty"` // Permitted inbound direction, KindRoad only
}

// IsRoad reports whether vehicles may drive on the tile.
func (k Kind) IsRoad() bool {
	return k == KindRoad || k == KindIntersection
}

// Accessible reports whether the tile counts as a walkway for building
// frontage: any road, sidewalk or alley.
func (k Kind) Accessible() bool {
	return k.IsRoad() || k == KindSidewalk || k == KindAlley
}

// Glyph returns a single-character rendering used by debug dumps and the API.
func (t Tile) Glyph() byte {
	switch t.Kind {
	case KindBuildable:
		return '.'
	case KindRoad:
		switch t.Lane {
		case DirUp:
			return '^'
		case DirDown:
			return 'v'
		case DirLeft:
			return '<'
		case DirRight:
			return '>'
		}
		return '='
	case KindIntersection:
		return '+'
	case KindSidewalk:
		return ':'
	case KindAlley:
		return 'a'
	case KindBuilding:
		return '#'
	case KindPointOfInterest:
		return '*'
	default:
		return '?'
	}
}

// KindName returns a human-readable name for a tile kind.
func KindName(k Kind) string {
	switch k {
	case KindBuildable:
		return "Buildable"
	case KindRoad:
		return "Road"
	case KindIntersection:
		return "Intersection"
	case KindSidewalk:
		return "Sidewalk"
	case KindAlley:
		return "Alley"
	case KindBuilding:
		return "Building"
	case KindPointOfInterest:
		return "PointOfInterest"
	default:
		return "Unknown"
	}
}

// ParseGlyph is the inverse of Tile.Glyph.
func ParseGlyph(c byte) (Tile, bool) {
	switch c {
	case '.':
		return Tile{Kind: KindBuildable}, true
	case '^':
		return Tile{Kind: KindRoad, Lane: DirUp}, true
	case 'v':
		return Tile{Kind: KindRoad, Lane: DirDown}, true
	case '<':
		return Tile{Kind: KindRoad, Lane: DirLeft}, true
	case '>':
		return Tile{Kind: KindRoad, Lane: DirRight}, true
	case '=':
		return Tile{Kind: KindRoad}, true
	case '+':
		return Tile{Kind: KindIntersection}, true
	case ':':
		return Tile{Kind: KindSidewalk}, true
	case 'a':
		return Tile{Kind: KindAlley}, true
	case '#':
		return Tile{Kind: KindBuilding}, true
	case '*':
		return Tile{Kind: KindPointOfInterest}, true
	}
	return Tile{}, false
}
