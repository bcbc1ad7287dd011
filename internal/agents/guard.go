package agents

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/talgya/mini-town/internal/events"
	"github.com/talgya/mini-town/internal/world"
)

// GuardState is the guard controller state.
type GuardState uint8

const (
	GuardPatrol GuardState = iota
	GuardInvestigate
	GuardChase
)

func (s GuardState) String() string {
	switch s {
	case GuardPatrol:
		return "patrol"
	case GuardInvestigate:
		return "investigate"
	case GuardChase:
		return "chase"
	default:
		return "unknown"
	}
}

// Guard tuning, in world pixels, pixels per second and milliseconds.
const (
	GuardSpeed       = 70.0
	GuardChaseSpeed  = 95.0
	GuardSightRange  = 120.0
	GuardCatchRange  = 20.0
	GuardCatchDamage = 3

	patrolArrival       = 10.0
	patrolDwell         = 2000.0
	investigateArrival  = 20.0
	investigateDwell    = 5000.0
	reacquireFraction   = 0.8 // Fraction of sight range that re-triggers Chase from Investigate
	loseSightMultiplier = 1.5

	hardDetectInfamy = 50.0 // Above this, any actor in sight is chased
	softDetectInfamy = 20.0 // Above this, detection is a per-tick roll
	softDetectScale  = 0.02
)

// Guard is the patrol agent.
type Guard struct {
	ID       AgentID         `json:"id"`
	Pos      world.Vec       `json:"pos"`
	Vel      world.Vec       `json:"vel"`
	Facing   world.Direction `json:"facing"`
	State    GuardState      `json:"state"`
	Timer    float64         `json:"timer"`    // Milliseconds since the last state entry or patrol pick
	Enforcer bool            `json:"enforcer"` // Collects the location bounty on capture

	Speed       float64 `json:"speed"`
	ChaseSpeed  float64 `json:"chase_speed"`
	SightRange  float64 `json:"sight_range"`
	CatchRange  float64 `json:"catch_range"`
	CatchDamage int     `json:"catch_damage"`

	PatrolTarget *world.Vec `json:"patrol_target,omitempty"`
	LastKnown    *world.Vec `json:"last_known,omitempty"`
}

// NewGuard creates a patrolling guard at pos with stock tuning.
func NewGuard(id AgentID, pos world.Vec) *Guard {
	return &Guard{
		ID:          id,
		Pos:         pos,
		Facing:      world.DirDown,
		State:       GuardPatrol,
		Speed:       GuardSpeed,
		ChaseSpeed:  GuardChaseSpeed,
		SightRange:  GuardSightRange,
		CatchRange:  GuardCatchRange,
		CatchDamage: GuardCatchDamage,
	}
}

// Name returns the display name used in events and logs.
func (g *Guard) Name() string {
	return fmt.Sprintf("guard-%d", g.ID)
}

// Detect reports whether an actor at distance d is spotted this tick.
// Past the hard infamy cutoff every actor in sight is spotted; above the soft
// cutoff one roll is taken with p = (infamy/100)·(1-d/sight)·0.02; otherwise
// never. rng is drawn only in the soft branch.
func Detect(rng world.Rand, d, sight, infamy float64) bool {
	if d >= sight {
		return false
	}
	if infamy > hardDetectInfamy {
		return true
	}
	if infamy > softDetectInfamy {
		p := (infamy / 100) * (1 - d/sight) * softDetectScale
		return rng.Float64() < p
	}
	return false
}

// CaptureTake returns how much currency an enforcer seizes for a bounty:
// min(bounty, floor(currency/2) + floor(bounty/10)), never negative and never
// more than the actor holds.
func CaptureTake(bounty, currency int) int {
	if bounty <= 0 || currency <= 0 {
		return 0
	}
	take := currency/2 + bounty/10
	if take > bounty {
		take = bounty
	}
	if take > currency {
		take = currency
	}
	return take
}

// Update advances the guard by deltaMS. target is the tracked actor, or nil
// when it is unavailable.
func (g *Guard) Update(ctx *Context, deltaMS float64, target Actor) {
	g.Timer += deltaMS

	switch g.State {
	case GuardPatrol:
		g.updatePatrol(ctx, deltaMS)
		g.checkForTarget(ctx, target)
	case GuardInvestigate:
		g.updateInvestigate(ctx, deltaMS, target)
	case GuardChase:
		g.updateChase(ctx, deltaMS, target)
	}
}

// Sprite returns the guard's current orientation; the alert skin is used while chasing.
func (g *Guard) Sprite(t SpriteTable) Orientation {
	skin := SkinGuard
	if g.State == GuardChase {
		skin = SkinGuardAlert
	}
	return t.Resolve(skin, g.Facing)
}

func (g *Guard) updatePatrol(ctx *Context, deltaMS float64) {
	if g.PatrolTarget == nil {
		g.pickPatrolTarget(ctx)
		return
	}

	if g.Pos.Distance(*g.PatrolTarget) < patrolArrival {
		g.Vel = world.Vec{}
		if g.Timer > patrolDwell {
			g.pickPatrolTarget(ctx)
			g.Timer = 0
		}
		return
	}
	g.moveToward(*g.PatrolTarget, g.Speed, deltaMS)
}

func (g *Guard) pickPatrolTarget(ctx *Context) {
	if p, ok := pick(ctx.Rng, ctx.PatrolTiles()); ok {
		c := p.Center()
		g.PatrolTarget = &c
	}
}

func (g *Guard) checkForTarget(ctx *Context, target Actor) {
	if target == nil {
		return
	}
	d := g.Pos.Distance(target.Position())
	if Detect(ctx.Rng, d, g.SightRange, ctx.infamy()) {
		g.startChase(ctx)
	}
}

func (g *Guard) updateInvestigate(ctx *Context, deltaMS float64, target Actor) {
	if g.LastKnown == nil {
		g.enter(GuardPatrol)
		return
	}

	if g.Pos.Distance(*g.LastKnown) < investigateArrival {
		g.Vel = world.Vec{}
		if g.Timer > investigateDwell {
			g.LastKnown = nil
			g.enter(GuardPatrol)
			return
		}
	} else {
		g.moveToward(*g.LastKnown, g.Speed, deltaMS)
	}

	if target != nil && g.Pos.Distance(target.Position()) < g.SightRange*reacquireFraction {
		g.startChase(ctx)
	}
}

func (g *Guard) updateChase(ctx *Context, deltaMS float64, target Actor) {
	if target == nil {
		g.Vel = world.Vec{}
		g.enter(GuardPatrol)
		return
	}

	pos := target.Position()
	d := g.Pos.Distance(pos)

	if d < g.CatchRange {
		g.capture(ctx, target)
		return
	}

	if d > g.SightRange*loseSightMultiplier {
		g.LastKnown = &pos
		g.enter(GuardInvestigate)
		slog.Debug("guard lost sight", "guard", g.Name(), "distance", math.Round(d))
		return
	}

	g.moveToward(pos, g.ChaseSpeed, deltaMS)
	g.LastKnown = &pos
}

func (g *Guard) startChase(ctx *Context) {
	g.enter(GuardChase)
	ctx.emit(events.Event{
		Kind:        events.PursuitStarted,
		Source:      g.Name(),
		Location:    ctx.Location,
		Description: g.Name() + " gives chase",
	})
}

// capture damages the actor and, for enforcers, settles the location bounty.
func (g *Guard) capture(ctx *Context, target Actor) {
	target.TakeDamage(g.CatchDamage)
	g.Vel = world.Vec{}
	g.enter(GuardPatrol)

	if g.Enforcer && ctx.Reputation != nil {
		if bounty := ctx.Reputation.Bounty(ctx.Location); bounty > 0 {
			currency := ctx.Reputation.Currency()
			take := CaptureTake(bounty, currency)
			ctx.Reputation.SetCurrency(max(0, currency-take))
			ctx.Reputation.SetBounty(ctx.Location, 0)

			slog.Info("bounty resolved",
				"guard", g.Name(),
				"location", ctx.Location,
				"bounty", humanize.Comma(int64(bounty)),
				"seized", humanize.Comma(int64(take)),
			)
			ctx.emit(events.Event{
				Kind:        events.BountyResolved,
				Source:      g.Name(),
				Location:    ctx.Location,
				Amount:      bounty,
				Description: fmt.Sprintf("%s collected a %s bounty, seizing %s", g.Name(), humanize.Comma(int64(bounty)), humanize.Comma(int64(take))),
			})
			ctx.emit(events.Event{
				Kind:        events.BountiesChanged,
				Source:      g.Name(),
				Location:    ctx.Location,
				Description: "bounty in " + ctx.Location + " cleared",
			})
		}
	}

	ctx.emit(events.Event{
		Kind:        events.PlayerCaptured,
		Source:      g.Name(),
		Location:    ctx.Location,
		Amount:      g.CatchDamage,
		Description: g.Name() + " caught the player",
	})
}

func (g *Guard) enter(s GuardState) {
	g.State = s
	g.Timer = 0
}

func (g *Guard) moveToward(target world.Vec, speed, deltaMS float64) {
	g.Pos, g.Vel = stepToward(g.Pos, target, speed, deltaMS)
	if d := world.DirectionOf(g.Vel); d != world.DirNone {
		g.Facing = d
	}
}
