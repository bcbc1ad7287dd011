package agents

import (
	"fmt"

	"github.com/talgya/mini-town/internal/world"
)

// Skin is a sprite family: one per vehicle variant, plus guards and pedestrians.
type Skin uint8

const (
	SkinCar0 Skin = iota
	SkinCar1
	SkinCar2
	SkinCar3
	SkinCar4
	SkinPolice
	SkinGuard
	SkinGuardAlert
	SkinCivilian
)

// CivilianCarSkins is the number of civilian vehicle variants.
const CivilianCarSkins = 5

var skinNames = map[Skin]string{
	SkinCar0:       "car_0",
	SkinCar1:       "car_1",
	SkinCar2:       "car_2",
	SkinCar3:       "car_3",
	SkinCar4:       "car_4",
	SkinPolice:     "car_police",
	SkinGuard:      "guard",
	SkinGuardAlert: "guard_alert",
	SkinCivilian:   "civilian",
}

func (s Skin) String() string {
	if n, ok := skinNames[s]; ok {
		return n
	}
	return fmt.Sprintf("skin(%d)", uint8(s))
}

// SpriteKey addresses one texture.
type SpriteKey struct {
	Skin      Skin
	Direction world.Direction
}

// SpriteTable maps skin and facing to a texture name.
type SpriteTable map[SpriteKey]string

// Orientation is the resolved texture and the rotation in degrees the
// renderer should ease toward.
type Orientation struct {
	Texture string  `json:"texture"`
	Angle   float64 `json:"angle"`
	Missing bool    `json:"missing,omitempty"`
}

// DefaultSprites returns the stock texture set. Police cars, guards and
// pedestrians ship art for all four facings; civilian cars only up and down.
func DefaultSprites() SpriteTable {
	t := SpriteTable{}
	for s := SkinCar0; s <= SkinCivilian; s++ {
		dirs := world.Directions[:]
		if s < SkinPolice {
			dirs = []world.Direction{world.DirUp, world.DirDown}
		}
		for _, d := range dirs {
			t.Register(s, d)
		}
	}
	return t
}

// Register adds the conventional texture name "<skin>_<direction>".
func (t SpriteTable) Register(s Skin, d world.Direction) {
	t[SpriteKey{Skin: s, Direction: d}] = s.String() + "_" + d.String()
}

// Resolve picks the texture for a skin facing d:
//  1. the exact directional texture, unrotated;
//  2. for left/right, the up texture rotated -90 or +90 degrees;
//  3. for up, the down texture, unrotated;
//  4. none of the above: Missing is set and Texture carries the exact name.
//
// DirNone resolves as down.
func (t SpriteTable) Resolve(s Skin, d world.Direction) Orientation {
	if d == world.DirNone {
		d = world.DirDown
	}
	if tex, ok := t[SpriteKey{Skin: s, Direction: d}]; ok {
		return Orientation{Texture: tex}
	}

	base, angle := world.DirDown, 0.0
	switch d {
	case world.DirLeft:
		base, angle = world.DirUp, -90
	case world.DirRight:
		base, angle = world.DirUp, 90
	}
	if tex, ok := t[SpriteKey{Skin: s, Direction: base}]; ok {
		return Orientation{Texture: tex, Angle: angle}
	}
	return Orientation{Texture: s.String() + "_" + d.String(), Missing: true}
}

// easeAngle moves current toward target along the shortest arc with
// alpha = min(1, 0.12 * delta/16).
func easeAngle(current, target, deltaMS float64) float64 {
	alpha := 0.12 * deltaMS / 16
	if alpha > 1 {
		alpha = 1
	}
	return current + shortestAngle(current, target)*alpha
}

// shortestAngle returns the signed difference target-current wrapped to [-180,180).
func shortestAngle(current, target float64) float64 {
	diff := target - current
	for diff >= 180 {
		diff -= 360
	}
	for diff < -180 {
		diff += 360
	}
	return diff
}
