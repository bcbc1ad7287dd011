package agents

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/mini-town/internal/events"
	"github.com/talgya/mini-town/internal/nav"
	"github.com/talgya/mini-town/internal/world"
)

// VehicleState is the traffic controller state.
type VehicleState uint8

const (
	VehicleDriving VehicleState = iota
	VehicleStopped
)

func (s VehicleState) String() string {
	switch s {
	case VehicleDriving:
		return "driving"
	case VehicleStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// VehicleKind separates civilian traffic from enforcement cars.
type VehicleKind uint8

const (
	Civilian VehicleKind = iota
	Police
)

// Vehicle tuning, in world pixels, pixels per second and milliseconds.
const (
	PoliceSpeed          = 120.0
	CivilianMinSpeed     = 70
	CivilianMaxSpeed     = 100
	WaypointThreshold    = 4.0
	IntersectionCooldown = 500.0
	StopChance           = 0.15
	StopMinDwell         = 300
	StopMaxDwell         = 800 // exclusive
	BoundaryMargin       = 48.0
	KnockbackSpeed       = 200.0
	PoliceHeat           = 15.0
	PoliceHeatSource     = "hit_by_police_car"

	minCollisionDamage  = 10
	roadDamageFactor    = 0.6
	offRoadDamageFactor = 0.2
)

// Vehicle is the traffic agent.
type Vehicle struct {
	ID        AgentID         `json:"id"`
	Kind      VehicleKind     `json:"kind"`
	Skin      Skin            `json:"skin"`
	Speed     float64         `json:"speed"`
	Pos       world.Vec       `json:"pos"`
	Vel       world.Vec       `json:"vel"`
	Direction world.Direction `json:"direction"`
	State     VehicleState    `json:"state"`
	Timer     float64         `json:"timer"` // Milliseconds since the last state entry
	Dwell     float64         `json:"dwell"` // Stop duration drawn on entering Stopped

	Waypoint *nav.Waypoint `json:"waypoint,omitempty"`

	// Orientation: Angle eases toward TargetAngle each frame.
	Texture     string  `json:"texture"`
	Angle       float64 `json:"angle"`
	TargetAngle float64 `json:"target_angle"`

	clock        float64 // Total elapsed milliseconds
	lastDecision float64 // clock at the last intersection decision
}

// NewVehicle creates a driving vehicle. Civilian variants draw a skin and a
// speed in [70,100]; police cars drive at 120.
func NewVehicle(id AgentID, kind VehicleKind, pos world.Vec, dir world.Direction, rng world.Rand) *Vehicle {
	v := &Vehicle{
		ID:           id,
		Kind:         kind,
		Pos:          pos,
		Direction:    dir,
		State:        VehicleDriving,
		lastDecision: -IntersectionCooldown,
	}
	if kind == Police {
		v.Skin = SkinPolice
		v.Speed = PoliceSpeed
	} else {
		v.Skin = Skin(rng.Intn(CivilianCarSkins))
		v.Speed = float64(CivilianMinSpeed + rng.Intn(CivilianMaxSpeed-CivilianMinSpeed+1))
	}
	return v
}

// Name returns the display name used in events and logs.
func (v *Vehicle) Name() string {
	if v.Kind == Police {
		return fmt.Sprintf("police-%d", v.ID)
	}
	return fmt.Sprintf("car-%d", v.ID)
}

// Update advances the vehicle by deltaMS.
func (v *Vehicle) Update(ctx *Context, deltaMS float64) {
	v.clock += deltaMS
	v.Timer += deltaMS

	switch v.State {
	case VehicleDriving:
		v.updateDriving(ctx, deltaMS)
	case VehicleStopped:
		if v.Timer >= v.Dwell {
			v.State = VehicleDriving
			v.Timer = 0
			v.advance(ctx, deltaMS)
		}
	}

	v.orient(ctx.Sprites, deltaMS)
}

func (v *Vehicle) updateDriving(ctx *Context, deltaMS float64) {
	if v.Waypoint == nil {
		v.requery(ctx, false)
		return
	}

	if v.Pos.Distance(v.Waypoint.Pos) < WaypointThreshold {
		v.Pos = v.Waypoint.Pos
		v.Direction = v.Waypoint.Direction

		switch {
		case !v.Waypoint.Intersection:
			v.requery(ctx, false)
		case v.clock-v.lastDecision >= IntersectionCooldown:
			v.lastDecision = v.clock
			if ctx.Rng.Float64() < StopChance {
				v.State = VehicleStopped
				v.Dwell = float64(StopMinDwell + ctx.Rng.Intn(StopMaxDwell-StopMinDwell))
				v.Timer = 0
				v.Vel = world.Vec{}
				// Commit to the next direction now; it is taken on resume.
				v.requery(ctx, true)
				return
			}
			v.requery(ctx, true)
		default:
			v.requery(ctx, false)
		}
	}

	v.advance(ctx, deltaMS)
}

func (v *Vehicle) requery(ctx *Context, canTurn bool) {
	wp := ctx.Nav.NextRoadWaypoint(ctx.Rng, v.Pos, v.Direction, canTurn)
	v.Waypoint = &wp
	v.Direction = wp.Direction
}

// advance moves along the current direction toward the waypoint, then turns
// back at the world boundary.
func (v *Vehicle) advance(ctx *Context, deltaMS float64) {
	if v.Waypoint == nil {
		v.Vel = world.Vec{}
		return
	}
	v.Pos, v.Vel = stepAlong(v.Pos, v.Waypoint.Pos, v.Direction, v.Speed, deltaMS)
	v.checkBounds(ctx)
}

func (v *Vehicle) checkBounds(ctx *Context) {
	size := ctx.Town.Grid.WorldSize()
	outward := (v.Pos.X < BoundaryMargin && v.Direction == world.DirLeft) ||
		(v.Pos.X > size.X-BoundaryMargin && v.Direction == world.DirRight) ||
		(v.Pos.Y < BoundaryMargin && v.Direction == world.DirUp) ||
		(v.Pos.Y > size.Y-BoundaryMargin && v.Direction == world.DirDown)
	if !outward {
		return
	}
	v.Direction = v.Direction.Opposite()
	v.requery(ctx, false)
}

func (v *Vehicle) orient(t SpriteTable, deltaMS float64) {
	o := t.Resolve(v.Skin, v.Direction)
	v.Texture = o.Texture
	v.TargetAngle = o.Angle
	if o.Angle == 0 && !o.Missing {
		v.Angle = 0
		return
	}
	v.Angle = easeAngle(v.Angle, v.TargetAngle, deltaMS)
}

// CollisionDamage is max(10, round(speed × 0.6)) on a road tile and
// max(10, round(speed × 0.2)) elsewhere.
func CollisionDamage(speed float64, onRoad bool) int {
	factor := offRoadDamageFactor
	if onRoad {
		factor = roadDamageFactor
	}
	return max(minCollisionDamage, int(math.Round(speed*factor)))
}

// HitActor resolves a collision with the tracked actor: damage scaled by
// speed, a knockback impulse away from the vehicle and, for police, heat.
func (v *Vehicle) HitActor(ctx *Context, target Actor) int {
	if v.Kind == Police && ctx.Heat != nil {
		ctx.Heat.AddHeat(PoliceHeat, PoliceHeatSource)
		ctx.emit(events.Event{
			Kind:        events.HeatRaised,
			Source:      v.Name(),
			Amount:      int(PoliceHeat),
			Description: "struck by " + v.Name(),
		})
	}

	pos := target.Position()
	damage := CollisionDamage(v.Speed, ctx.Nav.IsRoad(pos.Tile()))
	target.TakeDamage(damage)

	away := v.Pos.Toward(pos)
	if away == (world.Vec{}) {
		away = v.Direction.Unit()
	}
	target.SetVelocity(away.Scale(KnockbackSpeed))

	slog.Debug("vehicle collision", "vehicle", v.Name(), "damage", damage)
	ctx.emit(events.Event{
		Kind:        events.VehicleCollision,
		Source:      v.Name(),
		Amount:      damage,
		Description: fmt.Sprintf("%s hit the player for %d", v.Name(), damage),
	})
	return damage
}
