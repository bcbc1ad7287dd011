package engine

import (
	"log/slog"
	"math"

	"github.com/talgya/mini-town/internal/agents"
	"github.com/talgya/mini-town/internal/world"
)

// Player tuning.
const (
	PlayerMaxHealth = 100
	PlayerDownTime  = 3000.0 // Milliseconds out of play after health reaches zero
	impulseDecay    = 0.9    // Impulse retained per 16ms
	impulseRest     = 5.0    // Impulse below this speed is dropped
)

// Player is the tracked actor. It wanders the sidewalks like a pedestrian;
// knockback impulses override the walk until they decay.
type Player struct {
	walker  *agents.Pedestrian
	spawn   world.Vec
	Health  int       `json:"health"`
	Impulse world.Vec `json:"impulse"`
	Downed  bool      `json:"downed"`
	Downs   int       `json:"downs"`
	downFor float64
}

// NewPlayer creates a player at spawn.
func NewPlayer(spawn world.Vec, rng world.Rand) *Player {
	return &Player{
		walker: agents.NewPedestrian(0, spawn, rng),
		spawn:  spawn,
		Health: PlayerMaxHealth,
	}
}

// Position implements agents.Actor.
func (p *Player) Position() world.Vec {
	return p.walker.Pos
}

// TakeDamage implements agents.Actor.
func (p *Player) TakeDamage(amount int) {
	if p.Downed || amount <= 0 {
		return
	}
	p.Health = max(0, p.Health-amount)
	if p.Health == 0 {
		p.Downed = true
		p.Downs++
		p.downFor = 0
		p.Impulse = world.Vec{}
		slog.Info("player downed", "downs", p.Downs)
	}
}

// SetVelocity implements agents.Actor.
func (p *Player) SetVelocity(v world.Vec) {
	p.Impulse = v
}

// Available reports whether guards and vehicles can interact with the player.
func (p *Player) Available() bool {
	return !p.Downed
}

// Update advances the player by deltaMS.
func (p *Player) Update(ctx *agents.Context, deltaMS float64) {
	if p.Downed {
		p.downFor += deltaMS
		if p.downFor >= PlayerDownTime {
			p.respawn()
		}
		return
	}

	if p.Impulse.Len() > 0 {
		p.walker.Pos = clampToWorld(ctx.Town.Grid, p.walker.Pos.Add(p.Impulse.Scale(deltaMS/1000)))
		p.Impulse = p.Impulse.Scale(math.Pow(impulseDecay, deltaMS/16))
		if p.Impulse.Len() < impulseRest {
			p.Impulse = world.Vec{}
			p.recover(ctx)
		}
		return
	}

	p.walker.Update(ctx, deltaMS)
}

// recover puts the walker back on a sidewalk tile centre after knockback.
func (p *Player) recover(ctx *agents.Context) {
	p.walker.Waypoint = nil
	if ctx.Nav.IsWalkable(p.walker.Pos.Tile()) {
		p.walker.Pos = p.walker.Pos.Tile().Center()
		return
	}
	if pos, ok := ctx.Nav.FindNearestSidewalk(p.walker.Pos); ok {
		p.walker.Pos = pos
	}
}

func (p *Player) respawn() {
	p.Downed = false
	p.Health = PlayerMaxHealth
	p.walker.Pos = p.spawn
	p.walker.Waypoint = nil
	slog.Info("player respawned", "pos", p.spawn)
}

func clampToWorld(g *world.Grid, v world.Vec) world.Vec {
	size := g.WorldSize()
	return world.Vec{
		X: math.Max(0, math.Min(size.X-1, v.X)),
		Y: math.Max(0, math.Min(size.Y-1, v.Y)),
	}
}
