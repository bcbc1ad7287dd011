package agents

import (
	"fmt"

	"github.com/talgya/mini-town/internal/nav"
	"github.com/talgya/mini-town/internal/world"
)

// PedestrianState is the sidewalk walker state.
type PedestrianState uint8

const (
	PedestrianWalk PedestrianState = iota
	PedestrianIdle
)

func (s PedestrianState) String() string {
	if s == PedestrianIdle {
		return "idle"
	}
	return "walk"
}

const (
	PedestrianMinSpeed = 35.0
	PedestrianMaxSpeed = 50.0

	idleChance  = 0.1
	idleMinTime = 2000.0
	idleSpread  = 3000.0
)

// Pedestrian is an ambient sidewalk walker.
type Pedestrian struct {
	ID        AgentID         `json:"id"`
	Pos       world.Vec       `json:"pos"`
	Vel       world.Vec       `json:"vel"`
	Direction world.Direction `json:"direction"`
	State     PedestrianState `json:"state"`
	Timer     float64         `json:"timer"`
	Dwell     float64         `json:"dwell"` // Idle duration, drawn on entering Idle
	Speed     float64         `json:"speed"`

	Waypoint *nav.Waypoint `json:"waypoint,omitempty"`
	straight bool          // Waypoint is a fallback target reached in a straight line
}

// NewPedestrian creates a walker at pos with a speed in [35,50).
func NewPedestrian(id AgentID, pos world.Vec, rng world.Rand) *Pedestrian {
	return &Pedestrian{
		ID:        id,
		Pos:       pos,
		Direction: world.DirDown,
		Speed:     PedestrianMinSpeed + rng.Float64()*(PedestrianMaxSpeed-PedestrianMinSpeed),
	}
}

// Name returns the display name used in logs.
func (p *Pedestrian) Name() string {
	return fmt.Sprintf("walker-%d", p.ID)
}

// Update advances the pedestrian by deltaMS.
func (p *Pedestrian) Update(ctx *Context, deltaMS float64) {
	p.Timer += deltaMS

	switch p.State {
	case PedestrianWalk:
		p.updateWalk(ctx, deltaMS)
	case PedestrianIdle:
		if p.Timer > p.Dwell {
			p.State = PedestrianWalk
			p.Timer = 0
			p.next(ctx)
		}
	}
}

// Sprite returns the pedestrian's current orientation.
func (p *Pedestrian) Sprite(t SpriteTable) Orientation {
	facing := p.Direction
	if p.straight {
		facing = world.DirectionOf(p.Vel)
	}
	return t.Resolve(SkinCivilian, facing)
}

func (p *Pedestrian) updateWalk(ctx *Context, deltaMS float64) {
	if p.Waypoint == nil {
		p.next(ctx)
		return
	}

	if p.Pos.Distance(p.Waypoint.Pos) < WaypointThreshold {
		p.Pos = p.Waypoint.Pos
		p.Vel = world.Vec{}
		if p.Waypoint.Direction != world.DirNone {
			p.Direction = p.Waypoint.Direction
		}
		if ctx.Rng.Float64() < idleChance {
			p.State = PedestrianIdle
			p.Timer = 0
			p.Dwell = idleMinTime + ctx.Rng.Float64()*idleSpread
			return
		}
		p.next(ctx)
		return
	}

	dir := p.Direction
	if p.straight {
		dir = world.DirNone
	}
	p.Pos, p.Vel = stepAlong(p.Pos, p.Waypoint.Pos, dir, p.Speed, deltaMS)
}

// next asks for the adjacent sidewalk tile; when the walker is boxed in it
// heads for a random sidewalk tile instead.
func (p *Pedestrian) next(ctx *Context) {
	wp := ctx.Nav.NextSidewalkWaypoint(ctx.Rng, p.Pos, p.Direction, world.DirNone)
	if wp.Pos != p.Pos {
		p.Waypoint = &wp
		p.Direction = wp.Direction
		p.straight = false
		return
	}

	tile, ok := pick(ctx.Rng, ctx.WalkTiles())
	if !ok {
		p.Waypoint = nil
		return
	}
	p.Waypoint = &nav.Waypoint{Pos: tile.Center(), Tile: tile}
	p.straight = true
}
