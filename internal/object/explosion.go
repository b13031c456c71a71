package object

// Explosion tuning.
const (
	ExplosionLife       = 20  // Ticks an explosion stays visible
	ExplosionGrowth     = 1.5 // Radius increase per tick
	explosionStartScale = 0.5 // Initial radius as a fraction of the enemy radius
)

// Explosion is a short-lived expanding ring left by a hit.
// It is purely cosmetic and never affects the simulation outcome.
type Explosion struct {
	Pos    Point   `json:"pos"`
	Radius float64 `json:"radius"`
	Color  Color   `json:"color"`
	Life   int     `json:"life"` // Ticks remaining
}

// NewExplosion creates an explosion at the position of the enemy that was hit.
func NewExplosion(e Enemy) Explosion {
	return Explosion{
		Pos:    e.Pos,
		Radius: e.Radius * explosionStartScale,
		Color:  e.Color,
		Life:   ExplosionLife,
	}
}

// Update grows the ring and decrements its lifetime.
func (x *Explosion) Update() {
	x.Radius += ExplosionGrowth
	x.Life--
}

// Done reports whether the explosion has expired.
func (x *Explosion) Done() bool {
	return x.Life <= 0
}
