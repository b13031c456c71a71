package game

import "math"

// StepResult reports what happened during one tick.
type StepResult struct {
	Tick        uint64
	Spawned     bool
	Hits        int // Bullet-enemy hits
	Kills       int // Enemies destroyed by hits
	Culled      int // Entities removed for leaving the play area or expiring
	Breaches    int // Enemies that crossed the bottom edge
	ScoreGained int
	LevelUp     bool
	GameOver    bool // The session is over after this tick
}

// Step advances the simulation by one tick. Phases run in a fixed order:
// spawn, update, cull, collide, level, terminal check.
// It does nothing once the game is over.
func (w *World) Step() StepResult {
	if w.State.GameOver {
		return StepResult{Tick: w.Tick, GameOver: true}
	}

	w.Tick++
	res := StepResult{Tick: w.Tick}

	w.spawnPhase(&res)
	w.updatePhase()
	w.cullPhase(&res)
	w.resolveHits(&res)
	w.levelPhase(&res)
	w.terminalPhase(&res)

	return res
}

func (w *World) spawnPhase(res *StepResult) {
	enemy, ok := w.spawner.MaybeSpawn(w.State.Level, len(w.Enemies))
	if !ok {
		return
	}
	w.Enemies = append(w.Enemies, enemy)
	res.Spawned = true
}

func (w *World) updatePhase() {
	if w.fireCooldown > 0 {
		w.fireCooldown--
	}
	for i := range w.Bullets {
		w.Bullets[i].Update()
	}
	for i := range w.Enemies {
		w.Enemies[i].Update()
	}
	for i := range w.Explosions {
		w.Explosions[i].Update()
	}
}

// cullPhase drops off-screen bullets and enemies and expired explosions.
// Enemies leaving the play area are recorded as breaches for the terminal phase.
func (w *World) cullPhase(res *StepResult) {
	bullets := w.Bullets[:0] // reuse backing array
	for _, b := range w.Bullets {
		if b.IsOffScreen(w.bounds) {
			res.Culled++
			continue
		}
		bullets = append(bullets, b)
	}
	w.Bullets = bullets

	w.breaches = 0
	enemies := w.Enemies[:0]
	for _, e := range w.Enemies {
		if e.IsOffScreen(w.bounds) {
			w.breaches++
			res.Culled++
			continue
		}
		enemies = append(enemies, e)
	}
	w.Enemies = enemies
	res.Breaches = w.breaches

	explosions := w.Explosions[:0]
	for _, x := range w.Explosions {
		if x.Done() {
			res.Culled++
			continue
		}
		explosions = append(explosions, x)
	}
	w.Explosions = explosions
}

// levelPhase recomputes the level from the score.
func (w *World) levelPhase(res *StepResult) {
	level := w.State.Score/PointsPerLevel + 1
	if level != w.State.Level {
		res.LevelUp = level > w.State.Level
		w.State.Level = level
	}
}

// terminalPhase latches game over according to the configured policy.
func (w *World) terminalPhase(res *StepResult) {
	switch w.cfg.Policy {
	case PolicyBoundary:
		if w.breaches > 0 {
			w.State.GameOver = true
		}
	case PolicyProximity:
		for _, e := range w.Enemies {
			if e.Pos.Y >= w.cfg.DangerLineY && math.Abs(e.Pos.X-w.Player.X) < w.cfg.PlayerTolerance {
				w.State.GameOver = true
				break
			}
		}
	}
	res.GameOver = w.State.GameOver
}
