package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tomz197/shooter/internal/object"
	"github.com/tomz197/shooter/internal/physics"
)

// State is the scoring state of a session.
type State struct {
	Score    int
	Level    int // Always Score/PointsPerLevel + 1
	GameOver bool
}

// World owns all mutable simulation state of one session.
// It is not safe for concurrent use; a single goroutine drives it.
type World struct {
	cfg     Config
	bounds  object.Bounds
	rng     object.Rand
	spawner *object.EnemySpawner
	grid    *physics.SpatialGrid

	Player      physics.Point
	PlayerColor object.Color
	GunAngle    float64
	Bullets     []object.Bullet
	Enemies     []object.Enemy
	Explosions  []object.Explosion
	State       State
	Tick        uint64

	fireCooldown int

	// Per-tick scratch space reused between ticks
	bulletHit []bool
	enemyHit  []bool
	breaches  int
}

// NewWorld validates cfg and creates a world in its initial (reset) state.
// A nil rng creates a PCG source seeded from cfg.Seed, or the clock when Seed is 0.
func NewWorld(cfg Config, rng object.Rand) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(cfg.Seed)
	}

	w := &World{
		cfg:    cfg,
		bounds: object.Bounds{Width: cfg.Width, Height: cfg.Height},
		rng:    rng,
		spawner: object.NewEnemySpawner(object.SpawnConfig{
			BaseRate:         cfg.SpawnBaseRate,
			LevelCoefficient: cfg.SpawnLevelCoefficient,
			MaxConcurrent:    cfg.MaxConcurrentEnemies,
			SingleTier:       cfg.SingleTier,
			LevelSpeedScale:  cfg.LevelSpeedScale,
			Width:            cfg.Width,
		}, rng),
		// Largest hit distance is the biggest enemy radius plus the margin
		grid:        physics.NewSpatialGrid(cfg.Width, cfg.Height, object.MaxRadius()+cfg.HitMargin),
		PlayerColor: object.RandomColor(rng),
	}
	w.Reset()
	return w, nil
}

// NewRand returns a seeded PCG random source; seed 0 uses the current time.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Config returns the configuration the world was built with.
func (w *World) Config() Config {
	return w.cfg
}

// Reset clears every entity and restores score, level, flags and the player
// to their initial values. Calling it repeatedly yields the same state.
func (w *World) Reset() {
	w.Bullets = w.Bullets[:0]
	w.Enemies = w.Enemies[:0]
	w.Explosions = w.Explosions[:0]
	w.State = State{Score: 0, Level: 1, GameOver: false}
	w.Player = w.cfg.PlayerStart
	w.GunAngle = object.AngleUp
	w.Tick = 0
	w.fireCooldown = 0
	w.breaches = 0
}

// String summarizes the world for logs.
func (w *World) String() string {
	return fmt.Sprintf("tick=%d score=%d level=%d bullets=%d enemies=%d explosions=%d over=%v",
		w.Tick, w.State.Score, w.State.Level, len(w.Bullets), len(w.Enemies), len(w.Explosions), w.State.GameOver)
}
