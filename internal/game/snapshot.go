package game

import (
	"github.com/tomz197/shooter/internal/object"
	"github.com/tomz197/shooter/internal/physics"
)

// Snapshot is an immutable copy of the world taken at a tick boundary.
// Renderers read snapshots, never the live world.
type Snapshot struct {
	Tick        uint64             `json:"tick"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	DangerLineY float64            `json:"dangerLine"`
	Policy      string             `json:"policy"`
	Player      physics.Point      `json:"player"`
	PlayerColor object.Color       `json:"playerColor"`
	GunAngle    float64            `json:"gunAngle"`
	GunLength   float64            `json:"gunLength"`
	Bullets     []object.Bullet    `json:"bullets"`
	Enemies     []object.Enemy     `json:"enemies"`
	Explosions  []object.Explosion `json:"explosions"`
	Score       int                `json:"score"`
	Level       int                `json:"level"`
	GameOver    bool               `json:"gameOver"`
}

// Snapshot copies the current world state.
func (w *World) Snapshot() *Snapshot {
	return &Snapshot{
		Tick:        w.Tick,
		Width:       w.cfg.Width,
		Height:      w.cfg.Height,
		DangerLineY: w.cfg.DangerLineY,
		Policy:      w.cfg.Policy.String(),
		Player:      w.Player,
		PlayerColor: w.PlayerColor,
		GunAngle:    w.GunAngle,
		GunLength:   w.cfg.GunLength,
		Bullets:     cloneSlice(w.Bullets),
		Enemies:     cloneSlice(w.Enemies),
		Explosions:  cloneSlice(w.Explosions),
		Score:       w.State.Score,
		Level:       w.State.Level,
		GameOver:    w.State.GameOver,
	}
}

// cloneSlice copies s into a new non-nil slice so snapshots encode empty
// collections as [] and never alias the world's backing arrays.
func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
