package agents

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-town/internal/events"
	"github.com/talgya/mini-town/internal/world"
)

func TestDetectNeverFiresWithoutInfamy(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		d := rng.Float64() * GuardSightRange
		require.False(t, Detect(rng, d, GuardSightRange, 0), "trial %d at %.1f", i, d)
	}
}

func TestDetectHardCutoff(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 10000; i++ {
		require.True(t, Detect(rng, 0, GuardSightRange, 100))
	}
	// Rolls are never consulted above the cutoff.
	assert.True(t, Detect(&scripted{floats: []float64{0.999}}, 119, GuardSightRange, 51))
}

func TestDetectSoftBranch(t *testing.T) {
	tests := []struct {
		name   string
		d      float64
		infamy float64
		roll   float64
		want   bool
	}{
		{"roll under threshold", 0, 30, 0.005, true},
		{"roll over threshold", 0, 30, 0.007, false},
		{"halfway out", 60, 50, 0.0049, true},
		{"halfway out miss", 60, 50, 0.0051, false},
		{"at soft cutoff", 0, 20, 0, false},
		{"at hard cutoff rolls", 0, 50, 0.5, false},
		{"out of sight", GuardSightRange, 100, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(&scripted{floats: []float64{tt.roll}}, tt.d, GuardSightRange, tt.infamy)
			assert.Equal(t, tt.want, got)
		})
	}

	rng := rand.New(rand.NewSource(3))
	hits := 0
	const trials = 100000
	for i := 0; i < trials; i++ {
		if Detect(rng, 0, GuardSightRange, 50) {
			hits++
		}
	}
	assert.InDelta(t, 0.01, float64(hits)/trials, 0.002)
}

func TestCaptureTake(t *testing.T) {
	tests := []struct {
		bounty, currency, want int
	}{
		{100, 100, 60},
		{30, 100, 30},
		{200, 10, 10},
		{0, 100, 0},
		{50, 0, 0},
		{-5, 100, 0},
		{9, 1, 0},
		{9, 3, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CaptureTake(tt.bounty, tt.currency), "bounty=%d currency=%d", tt.bounty, tt.currency)
	}
}

func TestGuardChaseLosesSightPastOneAndAHalfRanges(t *testing.T) {
	ctx := generatedContext(t, 5)
	start := tile(10, 10)
	g := NewGuard(1, start)
	g.State = GuardChase
	actor := &fakeActor{}

	switchedAt := -1.0
	for d := 50.0; d <= 200; d += 0.5 {
		// Hold the guard still so the measured distance is exactly d.
		g.Pos = start
		actor.pos = start.Add(world.Vec{X: d})
		g.Update(ctx, 16, actor)
		if g.State != GuardChase {
			switchedAt = d
			break
		}
	}
	assert.Equal(t, 180.5, switchedAt)
	assert.Equal(t, GuardInvestigate, g.State)
	require.NotNil(t, g.LastKnown)
	assert.Equal(t, actor.pos, *g.LastKnown)
	assert.Zero(t, actor.hits)
}

func TestGuardChasePursuesAtChaseSpeed(t *testing.T) {
	ctx := generatedContext(t, 5)
	g := NewGuard(1, tile(10, 10))
	g.State = GuardChase
	start := g.Pos
	actor := &fakeActor{pos: start.Add(world.Vec{X: 100})}

	g.Update(ctx, 1000, actor)
	assert.InDelta(t, start.X+GuardChaseSpeed, g.Pos.X, 1e-9)
	assert.Equal(t, world.DirRight, g.Facing)
	assert.Equal(t, "guard_alert_right", g.Sprite(ctx.Sprites).Texture)
	assert.Equal(t, actor.pos, *g.LastKnown)
}

func TestGuardPatrolDetects(t *testing.T) {
	ctx := generatedContext(t, 6)
	ctx.Reputation = newReputation(60)
	g := NewGuard(1, tile(10, 10))

	far := &fakeActor{pos: g.Pos.Add(world.Vec{Y: 130})}
	g.Update(ctx, 16, far)
	assert.Equal(t, GuardPatrol, g.State)
	assert.NotNil(t, g.PatrolTarget)

	near := &fakeActor{pos: g.Pos.Add(world.Vec{Y: 100})}
	g.Update(ctx, 16, near)
	assert.Equal(t, GuardChase, g.State)
	assert.Zero(t, g.Timer)
	assert.Equal(t, []events.Kind{events.PursuitStarted}, kinds(ctx.Events))
	assert.Contains(t, g.Sprite(DefaultSprites()).Texture, "guard_alert_")
}

func TestGuardPatrolDwell(t *testing.T) {
	ctx := generatedContext(t, 7)
	g := NewGuard(1, world.Vec{X: 1, Y: 1})
	target := g.Pos
	g.PatrolTarget = &target

	for i := 0; i < 2; i++ {
		g.Update(ctx, 1000, nil)
		assert.Equal(t, world.Vec{X: 1, Y: 1}, *g.PatrolTarget)
	}
	g.Update(ctx, 1000, nil)
	assert.NotEqual(t, world.Vec{X: 1, Y: 1}, *g.PatrolTarget)
	assert.Zero(t, g.Timer)
	assert.Equal(t, GuardPatrol, g.State)
}

func TestGuardCaptureSettlesBounty(t *testing.T) {
	ctx := generatedContext(t, 8)
	rep := newReputation(0)
	rep.bounties["town"] = 100
	rep.currency = 100
	ctx.Reputation = rep

	g := NewGuard(1, tile(10, 10))
	g.Enforcer = true
	g.State = GuardChase
	actor := &fakeActor{pos: g.Pos.Add(world.Vec{X: 10})}

	g.Update(ctx, 16, actor)

	assert.Equal(t, GuardCatchDamage, actor.damage)
	assert.Equal(t, 40, rep.currency)
	assert.Zero(t, rep.bounties["town"])
	assert.Equal(t, GuardPatrol, g.State)
	assert.Equal(t, []events.Kind{
		events.BountyResolved, events.BountiesChanged, events.PlayerCaptured,
	}, kinds(ctx.Events))
	assert.Equal(t, 100, ctx.Events.Pending()[0].Amount)
	assert.Equal(t, "town", ctx.Events.Pending()[0].Location)
}

func TestGuardCaptureWithoutEnforcer(t *testing.T) {
	ctx := generatedContext(t, 8)
	rep := newReputation(0)
	rep.bounties["town"] = 100
	rep.currency = 100
	ctx.Reputation = rep

	g := NewGuard(1, tile(10, 10))
	g.State = GuardChase
	actor := &fakeActor{pos: g.Pos}

	g.Update(ctx, 16, actor)

	assert.Equal(t, 1, actor.hits)
	assert.Equal(t, 100, rep.currency)
	assert.Equal(t, 100, rep.bounties["town"])
	assert.Equal(t, []events.Kind{events.PlayerCaptured}, kinds(ctx.Events))
}

func TestGuardInvestigate(t *testing.T) {
	ctx := generatedContext(t, 9)

	t.Run("reacquires inside eight tenths of sight", func(t *testing.T) {
		g := NewGuard(1, tile(10, 10))
		g.State = GuardInvestigate
		lk := g.Pos.Add(world.Vec{X: 300})
		g.LastKnown = &lk

		g.Update(ctx, 16, &fakeActor{pos: g.Pos.Add(world.Vec{Y: 97})})
		assert.Equal(t, GuardInvestigate, g.State)

		g.Update(ctx, 16, &fakeActor{pos: g.Pos.Add(world.Vec{Y: 95})})
		assert.Equal(t, GuardChase, g.State)
	})

	t.Run("gives up after the dwell", func(t *testing.T) {
		g := NewGuard(1, tile(10, 10))
		g.State = GuardInvestigate
		lk := g.Pos
		g.LastKnown = &lk

		for i := 0; i < 5; i++ {
			g.Update(ctx, 1000, nil)
		}
		assert.Equal(t, GuardInvestigate, g.State)
		g.Update(ctx, 1000, nil)
		assert.Equal(t, GuardPatrol, g.State)
		assert.Nil(t, g.LastKnown)
	})

	t.Run("no last known position", func(t *testing.T) {
		g := NewGuard(1, tile(10, 10))
		g.State = GuardInvestigate
		g.Update(ctx, 16, nil)
		assert.Equal(t, GuardPatrol, g.State)
	})
}

func TestGuardChaseWithoutTarget(t *testing.T) {
	ctx := generatedContext(t, 10)
	g := NewGuard(1, tile(10, 10))
	g.State = GuardChase
	g.Update(ctx, 16, nil)
	assert.Equal(t, GuardPatrol, g.State)
	assert.Empty(t, kinds(ctx.Events))
}
