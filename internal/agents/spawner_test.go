package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawn(t *testing.T) {
	ctx := generatedContext(t, 21)
	cfg := SpawnConfig{Guards: 4, Enforcers: 1, Vehicles: 6, PoliceCars: 2, Pedestrians: 5}

	guards, vehicles, walkers := NewSpawner(21).Spawn(ctx, cfg)
	require.Len(t, guards, 4)
	require.Len(t, vehicles, 8)
	require.Len(t, walkers, 5)

	enforcers := 0
	for _, g := range guards {
		if g.Enforcer {
			enforcers++
		}
		k, _ := ctx.Town.Grid.KindAt(g.Pos.Tile())
		assert.True(t, k.Accessible())
		assert.Equal(t, GuardPatrol, g.State)
	}
	assert.Equal(t, 1, enforcers)

	police := 0
	for _, v := range vehicles {
		assert.True(t, ctx.Nav.IsRoad(v.Pos.Tile()), "vehicle on %v", v.Pos.Tile())
		assert.True(t, v.Speed >= CivilianMinSpeed && v.Speed <= PoliceSpeed)
		if v.Kind == Police {
			police++
		}
	}
	assert.Equal(t, 2, police)
	assert.Equal(t, Police, vehicles[7].Kind)

	for _, w := range walkers {
		assert.True(t, ctx.Nav.IsWalkable(w.Pos.Tile()))
	}

	ids := map[AgentID]bool{}
	for _, g := range guards {
		ids[g.ID] = true
	}
	for _, v := range vehicles {
		ids[v.ID] = true
	}
	for _, w := range walkers {
		ids[w.ID] = true
	}
	assert.Len(t, ids, 17)
}

func TestSpawnDeterministic(t *testing.T) {
	cfg := SpawnConfig{Guards: 3, Vehicles: 4, PoliceCars: 1, Pedestrians: 3}
	g1, v1, w1 := NewSpawner(5).Spawn(generatedContext(t, 5), cfg)
	g2, v2, w2 := NewSpawner(5).Spawn(generatedContext(t, 5), cfg)
	assert.Equal(t, g1, g2)
	assert.Equal(t, v1, v2)
	assert.Equal(t, w1, w2)
}

func TestSpawnOnEmptyTown(t *testing.T) {
	ctx := parsedContext(t, []string{"...", "..."}, &scripted{})
	guards, vehicles, walkers := NewSpawner(1).Spawn(ctx, SpawnConfig{Guards: 2, Vehicles: 2, Pedestrians: 2})
	assert.Empty(t, guards)
	assert.Empty(t, vehicles)
	assert.Empty(t, walkers)
}
