// Shared movement primitives. Positions are world pixels, speeds pixels per
// second and deltas milliseconds.
package agents

import "github.com/talgya/mini-town/internal/world"

// stepToward advances pos toward target at speed for deltaMS and returns the
// new position and the velocity used. It lands exactly on target instead of
// overshooting.
func stepToward(pos, target world.Vec, speed, deltaMS float64) (world.Vec, world.Vec) {
	dist := pos.Distance(target)
	if dist == 0 {
		return pos, world.Vec{}
	}
	vel := pos.Toward(target).Scale(speed)
	step := speed * deltaMS / 1000
	if step >= dist {
		return target, vel
	}
	return pos.Add(vel.Scale(deltaMS / 1000)), vel
}

// stepAlong advances pos along dir at speed, landing on target when the step
// reaches it. With DirNone it steers straight at target instead.
func stepAlong(pos, target world.Vec, dir world.Direction, speed, deltaMS float64) (world.Vec, world.Vec) {
	if dir == world.DirNone {
		return stepToward(pos, target, speed, deltaMS)
	}
	vel := dir.Unit().Scale(speed)
	step := speed * deltaMS / 1000
	if d := pos.Distance(target); d <= step && (d == 0 || world.DirectionOf(target.Sub(pos)) == dir) {
		return target, vel
	}
	return pos.Add(vel.Scale(deltaMS / 1000)), vel
}

// pick returns a uniformly chosen element, or false for an empty slice.
func pick[T any](rng world.Rand, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[rng.Intn(len(items))], true
}
