package object

// SpawnConfig controls enemy generation.
type SpawnConfig struct {
	BaseRate         float64 // Spawn probability per tick at level 0
	LevelCoefficient float64 // Added probability per level
	MaxConcurrent    int     // Cap on live enemies; 0 means unlimited
	SingleTier       bool    // Always spawn weak enemies
	LevelSpeedScale  float64 // Fractional speed increase per level above 1
	Width            float64 // Horizontal extent of the top edge
}

// EnemySpawner generates enemies at the top edge with a level-scaled probability.
type EnemySpawner struct {
	cfg SpawnConfig
	rng Rand
}

// NewEnemySpawner creates a spawner drawing from rng.
func NewEnemySpawner(cfg SpawnConfig, rng Rand) *EnemySpawner {
	return &EnemySpawner{cfg: cfg, rng: rng}
}

// Probability returns the per-tick spawn chance at the given level.
func (s *EnemySpawner) Probability(level int) float64 {
	p := s.cfg.BaseRate + s.cfg.LevelCoefficient*float64(level)
	if p > 1 {
		return 1
	}
	return p
}

// MaybeSpawn rolls once for this tick and returns a new enemy on success.
// active is the number of enemies currently alive, checked against the cap.
func (s *EnemySpawner) MaybeSpawn(level, active int) (Enemy, bool) {
	if s.rng.Float64() >= s.Probability(level) {
		return Enemy{}, false
	}
	if s.cfg.MaxConcurrent > 0 && active >= s.cfg.MaxConcurrent {
		return Enemy{}, false
	}

	tier := TierWeak
	if !s.cfg.SingleTier {
		tier = Tiers[s.rng.IntN(len(Tiers))]
	}

	x := s.rng.Float64() * s.cfg.Width
	color := RandomColor(s.rng)

	speedScale := 1 + s.cfg.LevelSpeedScale*float64(level-1)
	if speedScale < 1 {
		speedScale = 1
	}

	// Start just above the top edge so the enemy slides into view
	pos := Point{X: x, Y: -tier.Stats().Radius}
	return NewEnemy(tier, pos, speedScale, color), true
}
