package object

import (
	"fmt"

	"github.com/tomz197/shooter/internal/physics"
)

// Tier is the archetype class of an enemy.
type Tier int

const (
	TierWeak Tier = iota
	TierMedium
	TierStrong
)

// Tiers lists every tier in draw order for uniform selection.
var Tiers = [...]Tier{TierWeak, TierMedium, TierStrong}

// TierStats are the fixed base stats of a tier.
type TierStats struct {
	Health int
	Speed  float64 // Descent per tick at level 1
	Radius float64
	Points int
}

// Base stats for each tier.
var tierStats = map[Tier]TierStats{
	TierWeak:   {Health: 1, Speed: 2.0, Radius: 15, Points: 10},
	TierMedium: {Health: 2, Speed: 1.5, Radius: 20, Points: 20},
	TierStrong: {Health: 3, Speed: 1.0, Radius: 25, Points: 30},
}

// Stats returns the base stats for the tier.
func (t Tier) Stats() TierStats {
	return tierStats[t]
}

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierWeak:
		return "weak"
	case TierMedium:
		return "medium"
	case TierStrong:
		return "strong"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name.
func (t *Tier) UnmarshalText(text []byte) error {
	for _, candidate := range Tiers {
		if candidate.String() == string(text) {
			*t = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", text)
}

// MaxRadius is the largest radius of any tier.
func MaxRadius() float64 {
	maxR := 0.0
	for _, s := range tierStats {
		if s.Radius > maxR {
			maxR = s.Radius
		}
	}
	return maxR
}

// Enemy descends from the top edge until destroyed or past the bottom edge.
type Enemy struct {
	Pos    Point   `json:"pos"`
	Tier   Tier    `json:"tier"`
	Health int     `json:"health"`
	Speed  float64 `json:"speed"` // Fixed at creation
	Radius float64 `json:"radius"`
	Points int     `json:"points"`
	Color  Color   `json:"color"`
}

// NewEnemy creates an enemy of the given tier at pos.
// speedScale multiplies the tier's base speed (level scaling is applied by the caller).
func NewEnemy(tier Tier, pos Point, speedScale float64, color Color) Enemy {
	stats := tier.Stats()
	return Enemy{
		Pos:    pos,
		Tier:   tier,
		Health: stats.Health,
		Speed:  stats.Speed * speedScale,
		Radius: stats.Radius,
		Points: stats.Points,
		Color:  color,
	}
}

// Update moves the enemy down by its speed.
func (e *Enemy) Update() {
	e.Pos.Y += e.Speed
}

// IsOffScreen reports whether the enemy has fully crossed the bottom boundary.
func (e *Enemy) IsOffScreen(bounds Bounds) bool {
	return e.Pos.Y-e.Radius > bounds.Height
}

// IsHit reports whether p lies within radius+margin of the enemy center.
// The margin makes larger enemies proportionally easier to hit.
func (e *Enemy) IsHit(p Point, margin float64) bool {
	return physics.PointInCircle(p, e.Pos, e.Radius+margin)
}

// Hit removes one point of health and reports whether the enemy is destroyed.
func (e *Enemy) Hit() bool {
	if e.Health > 0 {
		e.Health--
	}
	return e.Health == 0
}

// IsDestroyed returns true once health reaches zero.
func (e *Enemy) IsDestroyed() bool {
	return e.Health <= 0
}
