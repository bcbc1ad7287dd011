// Agent spawning: places guards, vehicles and pedestrians on a generated town.
package agents

import (
	"log/slog"
	"math/rand"

	"github.com/talgya/mini-town/internal/world"
)

// SpawnConfig controls how many agents of each kind are created.
type SpawnConfig struct {
	Guards      int
	Enforcers   int // Guards flagged as bounty enforcers, taken from Guards
	Vehicles    int // Civilian cars
	PoliceCars  int
	Pedestrians int
}

// Spawner creates agents for the simulation.
type Spawner struct {
	rng    *rand.Rand
	nextID AgentID
}

// NewSpawner creates an agent spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		nextID: 1,
	}
}

func (s *Spawner) id() AgentID {
	id := s.nextID
	s.nextID++
	return id
}

// SpawnGuards places n guards on random navigable tiles. The first
// enforcers of them are bounty enforcers.
func (s *Spawner) SpawnGuards(ctx *Context, n, enforcers int) []*Guard {
	tiles := ctx.PatrolTiles()
	if len(tiles) == 0 {
		return nil
	}
	guards := make([]*Guard, 0, n)
	for i := 0; i < n; i++ {
		p, _ := pick(s.rng, tiles)
		g := NewGuard(s.id(), p.Center())
		g.Enforcer = i < enforcers
		guards = append(guards, g)
	}
	return guards
}

// SpawnVehicles places civilian cars and then police cars on the town's
// sampled spawn points, cycling through them when there are fewer points than
// vehicles. With no sampled points, random road tiles are used.
func (s *Spawner) SpawnVehicles(ctx *Context, civilians, police int) []*Vehicle {
	points := ctx.Town.SpawnPoints(s.rng)
	if len(points) == 0 {
		points = s.roadFallback(ctx, civilians+police)
	}
	if len(points) == 0 {
		return nil
	}
	s.rng.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })

	vehicles := make([]*Vehicle, 0, civilians+police)
	for i := 0; i < civilians+police; i++ {
		sp := points[i%len(points)]
		kind := Civilian
		if i >= civilians {
			kind = Police
		}
		vehicles = append(vehicles, NewVehicle(s.id(), kind, sp.Pos, sp.Direction, s.rng))
	}
	if len(points) < len(vehicles) {
		slog.Debug("vehicles share spawn points", "points", len(points), "vehicles", len(vehicles))
	}
	return vehicles
}

func (s *Spawner) roadFallback(ctx *Context, n int) []world.SpawnPoint {
	roads := ctx.Town.RoadTiles()
	var out []world.SpawnPoint
	for i := 0; i < n && len(roads) > 0; i++ {
		p, _ := pick(s.rng, roads)
		tile, _ := ctx.Town.Grid.At(p)
		dir := tile.Lane
		if dir == world.DirNone {
			dir = world.Directions[s.rng.Intn(len(world.Directions))]
		}
		out = append(out, world.SpawnPoint{Tile: p, Pos: p.Center(), Direction: dir})
	}
	return out
}

// SpawnPedestrians places n walkers on random sidewalk or alley tiles.
func (s *Spawner) SpawnPedestrians(ctx *Context, n int) []*Pedestrian {
	tiles := ctx.WalkTiles()
	if len(tiles) == 0 {
		return nil
	}
	out := make([]*Pedestrian, 0, n)
	for i := 0; i < n; i++ {
		p, _ := pick(s.rng, tiles)
		out = append(out, NewPedestrian(s.id(), p.Center(), s.rng))
	}
	return out
}

// Spawn creates every agent kind in cfg.
func (s *Spawner) Spawn(ctx *Context, cfg SpawnConfig) ([]*Guard, []*Vehicle, []*Pedestrian) {
	guards := s.SpawnGuards(ctx, cfg.Guards, cfg.Enforcers)
	vehicles := s.SpawnVehicles(ctx, cfg.Vehicles, cfg.PoliceCars)
	walkers := s.SpawnPedestrians(ctx, cfg.Pedestrians)
	slog.Info("agents spawned",
		"guards", len(guards),
		"enforcers", min(cfg.Enforcers, len(guards)),
		"vehicles", len(vehicles),
		"pedestrians", len(walkers),
	)
	return guards, vehicles, walkers
}
