// Package agents provides the per-entity controllers that move through a
// generated town: guards on patrol, vehicles in traffic and pedestrians on
// the sidewalks. Every controller is a closed state machine advanced by an
// external driver with an elapsed-time delta in milliseconds.
package agents

import (
	"github.com/talgya/mini-town/internal/events"
	"github.com/talgya/mini-town/internal/nav"
	"github.com/talgya/mini-town/internal/world"
)

// AgentID is a unique identifier for an agent.
type AgentID uint64

// Actor is the tracked entity guards pursue and vehicles can hit.
type Actor interface {
	Position() world.Vec
	TakeDamage(amount int)
	SetVelocity(v world.Vec) // Replaces the actor's impulse velocity
}

// Reputation is the external reputation and bounty bookkeeping.
// Infamy is read in [0,100]; bounties and currency are non-negative.
type Reputation interface {
	Infamy() float64
	Bounty(location string) int
	SetBounty(location string, amount int)
	Currency() int
	SetCurrency(amount int)
}

// Heat is the external suspicion meter raised by enforcement vehicles.
type Heat interface {
	AddHeat(amount float64, source string)
}

// Context is the shared world state passed by reference into every update.
// The town and navigation service are read-only once generation finishes.
type Context struct {
	Town       *world.Town
	Nav        *nav.Service
	Rng        world.Rand
	Reputation Reputation
	Heat       Heat
	Events     *events.Queue
	Location   string // Bounty location of the current town
	Sprites    SpriteTable

	patrolTiles []world.Point
	walkTiles   []world.Point
}

// NewContext builds a context over a generated town.
func NewContext(town *world.Town, rng world.Rand, rep Reputation, heat Heat, q *events.Queue, location string) *Context {
	return &Context{
		Town:       town,
		Nav:        nav.New(town.Grid),
		Rng:        rng,
		Reputation: rep,
		Heat:       heat,
		Events:     q,
		Location:   location,
		Sprites:    DefaultSprites(),
	}
}

// PatrolTiles returns the navigable tiles guards draw patrol targets from.
func (c *Context) PatrolTiles() []world.Point {
	if c.patrolTiles == nil {
		c.patrolTiles = c.Town.NavigableTiles()
	}
	return c.patrolTiles
}

// WalkTiles returns the sidewalk and alley tiles used for pedestrian fallback targets.
func (c *Context) WalkTiles() []world.Point {
	if c.walkTiles == nil {
		c.walkTiles = c.Town.SidewalkTiles()
	}
	return c.walkTiles
}

func (c *Context) emit(e events.Event) {
	if c.Events != nil {
		c.Events.Emit(e)
	}
}

// infamy reads the reputation scalar clamped to [0,100].
func (c *Context) infamy() float64 {
	if c.Reputation == nil {
		return 0
	}
	v := c.Reputation.Infamy()
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
