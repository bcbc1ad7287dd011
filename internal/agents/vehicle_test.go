package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-town/internal/events"
	"github.com/talgya/mini-town/internal/world"
)

func TestCollisionDamage(t *testing.T) {
	tests := []struct {
		speed  float64
		onRoad bool
		want   int
	}{
		{100, true, 60},
		{100, false, 20},
		{120, true, 72},
		{70, false, 14},
		{10, true, 10},
		{0, false, 10},
		{85, true, 51},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CollisionDamage(tt.speed, tt.onRoad), "speed=%v road=%v", tt.speed, tt.onRoad)
	}
}

func TestNewVehicle(t *testing.T) {
	v := NewVehicle(1, Civilian, tile(5, 2), world.DirDown, &scripted{ints: []int{3, 30}})
	assert.Equal(t, SkinCar3, v.Skin)
	assert.Equal(t, 100.0, v.Speed)
	assert.Equal(t, "car-1", v.Name())

	p := NewVehicle(2, Police, tile(5, 2), world.DirDown, &scripted{})
	assert.Equal(t, SkinPolice, p.Skin)
	assert.Equal(t, PoliceSpeed, p.Speed)
	assert.Equal(t, "police-2", p.Name())
}

// driveUntil steps v with a fixed delta until done reports true.
func driveUntil(t *testing.T, ctx *Context, v *Vehicle, delta float64, done func() bool) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if done() {
			return
		}
		v.Update(ctx, delta)
	}
	t.Fatalf("vehicle never reached the expected state; at %v heading %v state %v", v.Pos, v.Direction, v.State)
}

func TestVehicleStopDwell(t *testing.T) {
	for _, delta := range []float64{16, 33} {
		for _, offset := range []int{0, 1, 250, 499} {
			rng := &scripted{floats: []float64{0}, ints: []int{offset, 3}}
			ctx := parsedContext(t, junction, rng)
			v := NewVehicle(1, Police, tile(5, 2), world.DirDown, rng)

			driveUntil(t, ctx, v, delta, func() bool { return v.State == VehicleStopped })
			dwell := float64(StopMinDwell + offset)
			require.Equal(t, dwell, v.Dwell)
			assert.Equal(t, tile(5, 5), v.Pos)
			// The turn is chosen on stopping and held through the dwell.
			assert.Equal(t, world.DirLeft, v.Direction)

			elapsed := 0.0
			for v.State == VehicleStopped {
				v.Update(ctx, delta)
				elapsed += delta
				require.Less(t, elapsed, 1000.0)
			}
			assert.GreaterOrEqual(t, elapsed, dwell, "delta=%v offset=%d", delta, offset)
			assert.Less(t, elapsed, dwell+delta, "delta=%v offset=%d", delta, offset)
			assert.GreaterOrEqual(t, elapsed, float64(StopMinDwell))
			assert.Less(t, elapsed, float64(StopMaxDwell)+delta)

			assert.Less(t, v.Pos.X, tile(5, 5).X, "resumes along the committed turn")
		}
	}
}

func TestVehicleIntersectionCooldown(t *testing.T) {
	// No stop at the first junction tile, straight on; every later roll would stop.
	rng := &scripted{floats: []float64{0.9}, ints: []int{0}}
	ctx := parsedContext(t, junction, rng)
	v := NewVehicle(1, Police, tile(5, 2), world.DirDown, rng)

	driveUntil(t, ctx, v, 16, func() bool {
		require.Equal(t, VehicleDriving, v.State)
		return v.Pos.Tile() == (world.Point{X: 5, Y: 8})
	})
	assert.Equal(t, world.DirDown, v.Direction)
	assert.Equal(t, 5, v.Pos.Tile().X, "went straight through both junction rows")
}

func TestVehicleTurnsBackAtBoundary(t *testing.T) {
	ctx := parsedContext(t, junction, &scripted{})
	v := NewVehicle(1, Police, tile(3, 5), world.DirLeft, &scripted{})

	minX := v.Pos.X
	for i := 0; i < 60; i++ {
		v.Update(ctx, 16)
		minX = min(minX, v.Pos.X)
	}
	assert.Equal(t, world.DirRight, v.Direction)
	assert.Greater(t, minX, BoundaryMargin-4)
	assert.Greater(t, v.Pos.X, minX)
}

func TestVehicleHitActor(t *testing.T) {
	t.Run("civilian on road", func(t *testing.T) {
		ctx := parsedContext(t, junction, &scripted{})
		heat := ctx.Heat.(*fakeHeat)
		v := NewVehicle(1, Civilian, tile(5, 2), world.DirDown, &scripted{ints: []int{0, 30}})
		actor := &fakeActor{pos: tile(5, 3)}

		assert.Equal(t, 60, v.HitActor(ctx, actor))
		assert.Equal(t, 60, actor.damage)
		assert.InDelta(t, 0, actor.vel.X, 1e-9)
		assert.InDelta(t, KnockbackSpeed, actor.vel.Y, 1e-9)
		assert.Empty(t, heat.calls)
		assert.Equal(t, []events.Kind{events.VehicleCollision}, kinds(ctx.Events))
	})

	t.Run("civilian off road", func(t *testing.T) {
		ctx := parsedContext(t, junction, &scripted{})
		v := NewVehicle(1, Civilian, tile(4, 3), world.DirDown, &scripted{ints: []int{0, 30}})
		actor := &fakeActor{pos: tile(3, 3)}

		assert.Equal(t, 20, v.HitActor(ctx, actor))
		assert.InDelta(t, -KnockbackSpeed, actor.vel.X, 1e-9)
	})

	t.Run("police raises heat", func(t *testing.T) {
		ctx := parsedContext(t, junction, &scripted{})
		heat := ctx.Heat.(*fakeHeat)
		v := NewVehicle(1, Police, tile(5, 2), world.DirDown, &scripted{})
		actor := &fakeActor{pos: tile(5, 2)}

		assert.Equal(t, 72, v.HitActor(ctx, actor))
		assert.Equal(t, []heatCall{{PoliceHeat, PoliceHeatSource}}, heat.calls)
		// Coincident positions knock back along the heading.
		assert.Equal(t, world.Vec{Y: KnockbackSpeed}, actor.vel)
		assert.Equal(t, []events.Kind{events.HeatRaised, events.VehicleCollision}, kinds(ctx.Events))
	})
}

func TestVehicleOrientationEases(t *testing.T) {
	v := NewVehicle(1, Civilian, tile(5, 2), world.DirLeft, &scripted{ints: []int{2, 0}})
	sprites := DefaultSprites()

	v.orient(sprites, 16)
	assert.Equal(t, "car_2_up", v.Texture)
	assert.Equal(t, -90.0, v.TargetAngle)
	assert.InDelta(t, -10.8, v.Angle, 1e-9)

	for i := 0; i < 200; i++ {
		v.orient(sprites, 16)
	}
	assert.InDelta(t, -90, v.Angle, 0.01)

	v.Direction = world.DirDown
	v.orient(sprites, 16)
	assert.Equal(t, "car_2_down", v.Texture)
	assert.Zero(t, v.Angle)

	p := NewVehicle(2, Police, tile(5, 2), world.DirRight, &scripted{})
	p.orient(sprites, 16)
	assert.Equal(t, "car_police_right", p.Texture)
	assert.Zero(t, p.Angle)
}
