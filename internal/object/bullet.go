package object

import (
	"math"

	"github.com/tomz197/shooter/internal/physics"
)

// AngleUp is the firing angle of a straight-up shot (y grows downward).
const AngleUp = -math.Pi / 2

// Bullet is a projectile fired by the player.
// It travels in a straight line along the angle captured at fire time.
type Bullet struct {
	Pos   Point   `json:"pos"`
	Angle float64 `json:"angle"` // Direction of travel in radians
	Speed float64 `json:"speed"` // Distance per tick
	Color Color   `json:"color"`
}

// NewBullet creates a bullet at from traveling along angle.
func NewBullet(from Point, angle, speed float64, color Color) Bullet {
	return Bullet{
		Pos:   from,
		Angle: angle,
		Speed: speed,
		Color: color,
	}
}

// Update advances the bullet by its speed along its direction.
func (b *Bullet) Update() {
	b.Pos = b.Pos.Add(physics.FromAngle(b.Angle, b.Speed))
}

// IsOffScreen reports whether the bullet has left the play area.
func (b *Bullet) IsOffScreen(bounds Bounds) bool {
	return !bounds.Contains(b.Pos)
}
