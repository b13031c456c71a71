package game

import "github.com/tomz197/shooter/internal/object"

// resolveHits matches bullets against enemies.
//
// Bullets are processed in insertion order and each resolves against the
// first enemy (lowest index) it hits, not the nearest one. An enemy takes at
// most one hit per tick; a bullet whose only candidates were already hit this
// tick survives. Removals are collected during the scan and compacted after.
func (w *World) resolveHits(res *StepResult) {
	if len(w.Bullets) == 0 || len(w.Enemies) == 0 {
		return
	}

	w.bulletHit = resetFlags(w.bulletHit, len(w.Bullets))
	w.enemyHit = resetFlags(w.enemyHit, len(w.Enemies))

	w.grid.Clear()
	for i := range w.Enemies {
		w.grid.Insert(w.Enemies[i].Pos, i)
	}

	margin := w.cfg.HitMargin
	for i := range w.Bullets {
		pos := w.Bullets[i].Pos

		// The grid visits cells, not insertion order, so keep the lowest index
		first := -1
		w.grid.QueryAround(pos, func(j int) bool {
			if w.enemyHit[j] || (first >= 0 && j > first) {
				return false
			}
			if w.Enemies[j].IsHit(pos, margin) {
				first = j
			}
			return false
		})
		if first < 0 {
			continue
		}

		enemy := &w.Enemies[first]
		w.bulletHit[i] = true
		w.enemyHit[first] = true
		res.Hits++

		w.Explosions = append(w.Explosions, object.NewExplosion(*enemy))
		if enemy.Hit() {
			w.State.Score += enemy.Points
			res.Kills++
			res.ScoreGained += enemy.Points
		}
	}

	if res.Hits == 0 {
		return
	}

	bullets := w.Bullets[:0]
	for i, b := range w.Bullets {
		if !w.bulletHit[i] {
			bullets = append(bullets, b)
		}
	}
	w.Bullets = bullets

	enemies := w.Enemies[:0]
	for _, e := range w.Enemies {
		if !e.IsDestroyed() {
			enemies = append(enemies, e)
		}
	}
	w.Enemies = enemies
}

// resetFlags returns a zeroed flag slice of length n, reusing buf when possible.
func resetFlags(buf []bool, n int) []bool {
	if cap(buf) < n {
		return make([]bool, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}
