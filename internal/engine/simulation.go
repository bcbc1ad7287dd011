// Simulation ties the town, the agents and the tracked actor together and
// advances them each frame.
package engine

import (
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/talgya/mini-town/internal/agents"
	"github.com/talgya/mini-town/internal/events"
	"github.com/talgya/mini-town/internal/ledger"
	"github.com/talgya/mini-town/internal/world"
)

const (
	// CollisionRadius is how close a vehicle must be to hit the player.
	CollisionRadius = 16.0
	// HitCooldown is the minimum time between two hits by the same vehicle.
	HitCooldown = 1000.0
	// SummaryEvery is how often, in frames, a summary line is logged.
	SummaryEvery = 600
	// maxRecentEvents bounds the in-memory event log.
	maxRecentEvents = 1000
)

// SimConfig controls simulation setup.
type SimConfig struct {
	Seed     int64
	Location string // Bounty location name for this town
	Bounty   int    // Bounty placed on Location at start
	Spawn    agents.SpawnConfig
}

// SimStats tracks aggregate counters.
type SimStats struct {
	Pursuits         int `json:"pursuits"`
	Captures         int `json:"captures"`
	BountiesResolved int `json:"bounties_resolved"`
	Collisions       int `json:"collisions"`
	PlayerDowns      int `json:"player_downs"`
}

// Simulation holds the complete town state.
//
// Step advances one frame in this order:
//  1. pedestrians;
//  2. the player;
//  3. vehicles, each followed by its collision check against the player;
//  4. guards, in spawn order;
//  5. event flush to observers, FIFO.
//
// Agents within a group are updated in slice order. The player is handed to
// guards as nil while it is downed.
type Simulation struct {
	mu sync.RWMutex

	Town        *world.Town
	Ctx         *agents.Context
	Ledger      *ledger.Ledger
	Guards      []*agents.Guard
	Vehicles    []*agents.Vehicle
	Pedestrians []*agents.Pedestrian
	Player      *Player

	Events []events.Event // Recent events, oldest first
	Frame  uint64
	Clock  float64 // Simulated milliseconds
	Stats  SimStats

	lastHit map[agents.AgentID]float64
}

// NewSimulation spawns agents on town and wires the event log.
func NewSimulation(town *world.Town, led *ledger.Ledger, rng world.Rand, cfg SimConfig) *Simulation {
	q := events.NewQueue()
	ctx := agents.NewContext(town, rng, led, led, q, cfg.Location)

	if cfg.Bounty > 0 {
		led.AddBounty(cfg.Location, cfg.Bounty)
	}

	guards, vehicles, walkers := agents.NewSpawner(cfg.Seed).Spawn(ctx, cfg.Spawn)

	s := &Simulation{
		Town:        town,
		Ctx:         ctx,
		Ledger:      led,
		Guards:      guards,
		Vehicles:    vehicles,
		Pedestrians: walkers,
		Player:      NewPlayer(town.PlayerSpawnPoint(), rng),
		lastHit:     make(map[agents.AgentID]float64),
	}
	q.Subscribe(s.record)
	return s
}

// Subscribe registers an observer for every flushed event. Observers run on
// the simulation goroutine while the write lock is held.
func (s *Simulation) Subscribe(o events.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ctx.Events.Subscribe(o)
}

// OnFrame adapts Step to Engine.OnFrame.
func (s *Simulation) OnFrame(frame uint64, deltaMS float64) {
	s.Step(deltaMS)
}

// Step advances the whole town by deltaMS. See the Simulation doc for order.
func (s *Simulation) Step(deltaMS float64) {
	if deltaMS < 0 {
		deltaMS = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Frame++
	s.Clock += deltaMS
	s.Ctx.Events.SetFrame(s.Frame)

	for _, p := range s.Pedestrians {
		p.Update(s.Ctx, deltaMS)
	}

	s.Player.Update(s.Ctx, deltaMS)

	for _, v := range s.Vehicles {
		v.Update(s.Ctx, deltaMS)
		s.checkCollision(v)
	}

	target := s.target()
	for _, g := range s.Guards {
		g.Update(s.Ctx, deltaMS, target)
		if target != nil && !s.Player.Available() {
			target = nil
		}
	}

	s.Ctx.Events.Flush()

	if s.Frame%SummaryEvery == 0 {
		snap := s.Ledger.Snapshot()
		slog.Debug("frame summary",
			"frame", s.Frame,
			"player_health", s.Player.Health,
			"currency", humanize.Comma(int64(snap.Currency)),
			"heat", snap.Heat,
			"pursuits", s.Stats.Pursuits,
			"captures", s.Stats.Captures,
			"collisions", s.Stats.Collisions,
		)
	}
}

// target returns the player as a tracked actor, or nil while unavailable.
func (s *Simulation) target() agents.Actor {
	if s.Player == nil || !s.Player.Available() {
		return nil
	}
	return s.Player
}

func (s *Simulation) checkCollision(v *agents.Vehicle) {
	if !s.Player.Available() {
		return
	}
	if v.Pos.Distance(s.Player.Position()) >= CollisionRadius {
		return
	}
	if last, ok := s.lastHit[v.ID]; ok && s.Clock-last < HitCooldown {
		return
	}
	s.lastHit[v.ID] = s.Clock
	v.HitActor(s.Ctx, s.Player)
}

// record is the built-in observer: it keeps the recent event log and stats.
func (s *Simulation) record(e events.Event) {
	switch e.Kind {
	case events.PursuitStarted:
		s.Stats.Pursuits++
	case events.PlayerCaptured:
		s.Stats.Captures++
	case events.BountyResolved:
		s.Stats.BountiesResolved++
	case events.VehicleCollision:
		s.Stats.Collisions++
	}
	s.Stats.PlayerDowns = s.Player.Downs

	switch e.Kind {
	case events.PursuitStarted, events.PlayerCaptured, events.BountyResolved:
		slog.Info("event", "kind", e.Kind, "frame", e.Frame, "description", e.Description)
	default:
		slog.Debug("event", "kind", e.Kind, "frame", e.Frame, "description", e.Description)
	}

	s.Events = append(s.Events, e)
	if len(s.Events) > maxRecentEvents {
		s.Events = s.Events[len(s.Events)-maxRecentEvents:]
	}
}

// View runs fn with the read lock held, so fn sees a whole frame.
func (s *Simulation) View(fn func(s *Simulation)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s)
}

// RecentEvents returns up to limit of the newest events, oldest first.
func (s *Simulation) RecentEvents(limit int) []events.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if limit > 0 && len(s.Events) > limit {
		start = len(s.Events) - limit
	}
	out := make([]events.Event, len(s.Events)-start)
	copy(out, s.Events[start:])
	return out
}

// CurrentFrame returns the most recently completed frame.
func (s *Simulation) CurrentFrame() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Frame
}
