package game

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/tomz197/shooter/internal/object"
	"github.com/tomz197/shooter/internal/physics"
)

// newTestWorld builds a world with spawning disabled so tests place enemies by hand.
func newTestWorld(t *testing.T, mutate func(*Config)) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SpawnBaseRate = 0
	cfg.SpawnLevelCoefficient = 0
	cfg.Seed = 1
	if mutate != nil {
		mutate(&cfg)
	}
	w, err := NewWorld(cfg, nil)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

// placeEnemy adds an enemy; speed 0 keeps it stationary.
func placeEnemy(w *World, tier object.Tier, x, y, speed float64) {
	e := object.NewEnemy(tier, physics.Point{X: x, Y: y}, 1, object.ColorWhite)
	e.Speed = speed
	w.Enemies = append(w.Enemies, e)
}

func assertLevelInvariant(t *testing.T, w *World) {
	t.Helper()
	if want := w.State.Score/100 + 1; w.State.Level != want {
		t.Fatalf("tick %d: level %d with score %d, want %d", w.Tick, w.State.Level, w.State.Score, want)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if err := DefaultConfig().WithPlayArea(120, 80).Validate(); err != nil {
		t.Fatalf("small play area invalid: %v", err)
	}
}

func TestInvalidConfigFailsConstruction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	cfg.SpawnBaseRate = -0.1
	cfg.TickInterval = 0

	_, err := NewWorld(cfg, nil)
	if err == nil {
		t.Fatal("NewWorld accepted an invalid config")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("error does not wrap ErrInvalidConfig: %v", err)
	}
	for _, fragment := range []string{"width", "spawn base rate", "tick interval"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error %q does not mention %q", err, fragment)
		}
	}
}

func TestNonFiniteConfigFailsConstruction(t *testing.T) {
	inf, nan := math.Inf(1), math.NaN()
	tests := []struct {
		name     string
		mutate   func(*Config)
		fragment string
	}{
		{"infinite play area", func(c *Config) { *c = c.WithPlayArea(inf, 1000) }, "width must be finite"},
		{"infinite height", func(c *Config) { c.Height = inf }, "height must be finite"},
		{"nan spawn rate", func(c *Config) { c.SpawnBaseRate = nan }, "spawn base rate must be finite"},
		{"infinite level coefficient", func(c *Config) { c.SpawnLevelCoefficient = inf }, "spawn level coefficient must be finite"},
		{"infinite hit margin", func(c *Config) { c.HitMargin = inf }, "hit margin must be finite"},
		{"infinite bullet speed", func(c *Config) { c.BulletSpeed = inf }, "bullet speed must be finite"},
		{"nan danger line", func(c *Config) { c.DangerLineY = nan }, "danger line must be finite"},
		{"infinite tolerance", func(c *Config) { c.PlayerTolerance = inf }, "player tolerance must be finite"},
		{"negative inset", func(c *Config) { c.PlayerBottomInset = -1 }, "bottom inset must not be negative"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			w, err := NewWorld(cfg, nil)
			if w != nil || !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("NewWorld = %v, %v; want ErrInvalidConfig", w, err)
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Errorf("error %q does not mention %q", err, tc.fragment)
			}
		})
	}
}

func TestHugePlayAreaStaysBounded(t *testing.T) {
	cfg := DefaultConfig().WithPlayArea(1e9, 1e9)
	cfg.SpawnBaseRate = 0
	cfg.SpawnLevelCoefficient = 0
	cfg.Seed = 1
	w, err := NewWorld(cfg, nil)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	placeEnemy(w, object.TierWeak, 5e8, 5e8, 0)
	w.Bullets = append(w.Bullets, object.NewBullet(physics.Point{X: 5e8 + 20, Y: 5e8 + 10}, object.AngleUp, 0, object.ColorWhite))
	if res := w.Step(); res.Kills != 1 || w.State.Score != 10 {
		t.Fatalf("hit not resolved in a huge play area: %+v", res)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want TerminalPolicy
		ok   bool
	}{
		{"boundary", PolicyBoundary, true},
		{"Proximity", PolicyProximity, true},
		{"", PolicyProximity, true},
		{"sideways", 0, false},
	}
	for _, tc := range tests {
		got, err := ParsePolicy(tc.in)
		if (err == nil) != tc.ok || (tc.ok && got != tc.want) {
			t.Errorf("ParsePolicy(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestNewWorldStartsReset(t *testing.T) {
	w := newTestWorld(t, nil)
	if w.State != (State{Score: 0, Level: 1}) {
		t.Fatalf("initial state = %+v", w.State)
	}
	if w.Player != w.Config().PlayerStart {
		t.Fatalf("player at %v, want %v", w.Player, w.Config().PlayerStart)
	}
}

func TestWeakEnemyKilledByOneBullet(t *testing.T) {
	w := newTestWorld(t, nil)
	placeEnemy(w, object.TierWeak, 100, 0, 2)

	if !w.Apply(FireAt(100)) {
		t.Fatal("fire rejected")
	}
	if len(w.Bullets) != 1 {
		t.Fatalf("bullets = %d, want 1", len(w.Bullets))
	}

	var hitTick uint64
	for i := 0; i < 200 && hitTick == 0; i++ {
		res := w.Step()
		assertLevelInvariant(t, w)
		if res.Hits > 0 {
			hitTick = res.Tick
			if res.Kills != 1 || res.ScoreGained != 10 {
				t.Fatalf("hit result = %+v", res)
			}
		}
	}
	if hitTick != 75 {
		t.Fatalf("hit on tick %d, want 75", hitTick)
	}
	if len(w.Enemies) != 0 || len(w.Bullets) != 0 {
		t.Fatalf("enemies=%d bullets=%d after kill", len(w.Enemies), len(w.Bullets))
	}
	if w.State.Score != 10 || w.State.Level != 1 {
		t.Fatalf("state = %+v, want score 10 level 1", w.State)
	}
	if len(w.Explosions) != 1 {
		t.Fatalf("explosions = %d, want 1", len(w.Explosions))
	}

	for i := 0; i < object.ExplosionLife; i++ {
		w.Step()
	}
	if len(w.Explosions) != 0 {
		t.Fatalf("explosions remaining after their life: %d", len(w.Explosions))
	}
	if w.State.GameOver {
		t.Fatal("game should still be running")
	}
}

func TestStrongEnemyNeedsOneHitPerHealth(t *testing.T) {
	w := newTestWorld(t, nil)
	placeEnemy(w, object.TierStrong, 100, 500, 0)

	// Three stacked bullets: the enemy takes at most one hit per tick
	for i := 0; i < 3; i++ {
		if !w.Apply(FireAt(100)) {
			t.Fatalf("fire %d rejected", i)
		}
	}

	var hitTicks []uint64
	for i := 0; i < 100 && len(w.Enemies) > 0; i++ {
		res := w.Step()
		assertLevelInvariant(t, w)
		if res.Hits > 1 {
			t.Fatalf("tick %d resolved %d hits on one enemy", res.Tick, res.Hits)
		}
		if res.Hits == 1 {
			hitTicks = append(hitTicks, res.Tick)
			if len(hitTicks) < 3 && (res.Kills != 0 || w.State.Score != 0) {
				t.Fatalf("intermediate hit credited score: %+v", res)
			}
		}
	}

	if len(hitTicks) != 3 || hitTicks[0] != 39 || hitTicks[1] != 40 || hitTicks[2] != 41 {
		t.Fatalf("hit ticks = %v, want [39 40 41]", hitTicks)
	}
	if w.State.Score != 30 || w.State.Level != 1 {
		t.Fatalf("state = %+v, want score 30 level 1", w.State)
	}
	if len(w.Explosions) != 3 {
		t.Fatalf("explosions = %d, want one per hit", len(w.Explosions))
	}
}

func TestFirstMatchNotNearest(t *testing.T) {
	w := newTestWorld(t, nil)
	placeEnemy(w, object.TierWeak, 110, 520, 0) // inserted first, farther from the bullet path
	placeEnemy(w, object.TierWeak, 100, 520, 0) // nearer

	w.Apply(FireAt(100))
	for i := 0; i < 100 && w.State.Score == 0; i++ {
		w.Step()
	}

	if len(w.Enemies) != 1 {
		t.Fatalf("enemies = %d, want 1", len(w.Enemies))
	}
	if w.Enemies[0].Pos.X != 100 {
		t.Fatalf("the nearer enemy was hit; survivor at %v", w.Enemies[0].Pos)
	}
}

func TestBulletWithoutMatchIsCulledOnly(t *testing.T) {
	w := newTestWorld(t, nil)
	placeEnemy(w, object.TierWeak, 400, 300, 0)

	w.Apply(FireAt(50))
	culled := 0
	for i := 0; i < 200 && len(w.Bullets) > 0; i++ {
		res := w.Step()
		culled += res.Culled
		if res.Hits != 0 {
			t.Fatalf("unexpected hit: %+v", res)
		}
	}
	if len(w.Bullets) != 0 {
		t.Fatal("bullet never left the play area")
	}
	if culled != 1 || w.State.Score != 0 || len(w.Enemies) != 1 {
		t.Fatalf("culled=%d score=%d enemies=%d", culled, w.State.Score, len(w.Enemies))
	}
}

func TestBoundaryPolicyEndsGame(t *testing.T) {
	w := newTestWorld(t, func(c *Config) { c.Policy = PolicyBoundary })
	placeEnemy(w, object.TierWeak, 100, 1010, 2)
	placeEnemy(w, object.TierWeak, 300, 200, 2)

	var res StepResult
	for i := 0; i < 3; i++ {
		res = w.Step()
	}
	if !res.GameOver || !w.State.GameOver || res.Breaches != 1 {
		t.Fatalf("result = %+v, state = %+v", res, w.State)
	}

	frozenTick := w.Tick
	frozenY := w.Enemies[0].Pos.Y
	for i := 0; i < 10; i++ {
		if res := w.Step(); !res.GameOver {
			t.Fatal("step after game over reported a running game")
		}
	}
	if w.Tick != frozenTick || w.Enemies[0].Pos.Y != frozenY || w.State.Score != 0 {
		t.Fatalf("world mutated after game over: %s", w)
	}
	if w.Apply(FireAt(100)) || w.Apply(Drag(10, 0)) {
		t.Fatal("commands accepted after game over")
	}

	w.Apply(Reset())
	if w.State.GameOver || len(w.Enemies) != 0 {
		t.Fatalf("reset did not restart: %s", w)
	}
}

func TestProximityPolicyIgnoresBoundary(t *testing.T) {
	w := newTestWorld(t, nil)
	placeEnemy(w, object.TierWeak, 10, 1010, 2)
	w.Apply(DragTo(400, 940))

	res := StepResult{}
	for i := 0; i < 3; i++ {
		res = w.Step()
	}
	if res.Breaches != 1 || w.State.GameOver || len(w.Enemies) != 0 {
		t.Fatalf("result=%+v state=%+v enemies=%d", res, w.State, len(w.Enemies))
	}
}

func TestProximityPolicyEndsGameNearPlayer(t *testing.T) {
	tests := []struct {
		name    string
		playerX float64
		want    bool
	}{
		{"enemy above player", 250, true},
		{"within tolerance", 275, true},
		{"outside tolerance", 290, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld(t, nil)
			w.Apply(MoveGun(tc.playerX))
			placeEnemy(w, object.TierWeak, 250, 895, 2)

			for i := 0; i < 2; i++ {
				if w.Step().GameOver {
					t.Fatalf("game over before the danger line at tick %d", w.Tick)
				}
			}
			if got := w.Step().GameOver; got != tc.want {
				t.Fatalf("game over = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResetIsIdempotent(t *testing.T) {
	w := newTestWorld(t, func(c *Config) { c.SpawnBaseRate = 0.5 })
	for i := 0; i < 50; i++ {
		w.Apply(Tap(float64(i*10), 100))
		w.Step()
	}
	w.Apply(Drag(-30, -30))

	w.Apply(Reset())
	once := w.Snapshot()
	w.Apply(Reset())
	twice := w.Snapshot()

	a, _ := json.Marshal(once)
	b, _ := json.Marshal(twice)
	if string(a) != string(b) {
		t.Fatalf("reset not idempotent:\n%s\n%s", a, b)
	}
	if once.Score != 0 || once.Level != 1 || once.GameOver {
		t.Fatalf("reset state = %+v", once)
	}
	if len(once.Bullets)+len(once.Enemies)+len(once.Explosions) != 0 {
		t.Fatal("reset left entities behind")
	}
	if once.Player != w.Config().PlayerStart {
		t.Fatalf("player at %v after reset", once.Player)
	}
}

func TestLevelInvariantUnderPlay(t *testing.T) {
	w := newTestWorld(t, func(c *Config) {
		c.SpawnBaseRate = 0.2
		c.SpawnLevelCoefficient = 0.01
		c.Policy = PolicyBoundary
	})

	levels := map[int]bool{}
	for i := 0; i < 20000 && !w.State.GameOver; i++ {
		// Sweep the gun across the screen, firing every tick
		x := float64((i * 37) % 500)
		w.Apply(FireAt(x))
		w.Step()
		assertLevelInvariant(t, w)
		levels[w.State.Level] = true
	}
	if w.State.Score == 0 {
		t.Fatal("expected some kills")
	}
	t.Logf("final %s, levels seen %d", w, len(levels))
}

func TestSameSeedSameGame(t *testing.T) {
	run := func() []object.Enemy {
		cfg := DefaultConfig()
		cfg.SpawnBaseRate = 0.3
		cfg.Seed = 99
		w, err := NewWorld(cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 30; i++ {
			w.Step()
		}
		return w.Snapshot().Enemies
	}
	a, b := run(), run()
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("enemy counts differ or zero: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("enemy %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestMaxConcurrentEnemies(t *testing.T) {
	w := newTestWorld(t, func(c *Config) {
		c.SpawnBaseRate = 1
		c.MaxConcurrentEnemies = 10
	})
	for i := 0; i < 50; i++ {
		w.Step()
		if len(w.Enemies) > 10 {
			t.Fatalf("tick %d: %d enemies exceed the cap", w.Tick, len(w.Enemies))
		}
	}
	if len(w.Enemies) != 10 {
		t.Fatalf("enemies = %d, want the cap of 10", len(w.Enemies))
	}
}

func TestCommandsClampToPlayArea(t *testing.T) {
	w := newTestWorld(t, nil)

	// The bottom inset keeps the player 50 units above the bottom edge
	w.Apply(Drag(-1000, 5000))
	if w.Player != (physics.Point{X: 0, Y: 950}) {
		t.Fatalf("drag not clamped: %v", w.Player)
	}
	w.Apply(DragTo(100, 980))
	if w.Player != (physics.Point{X: 100, Y: 950}) {
		t.Fatalf("dragTo not held above the bottom inset: %v", w.Player)
	}
	w.Apply(DragTo(250, -40))
	if w.Player != (physics.Point{X: 250, Y: 0}) {
		t.Fatalf("dragTo not clamped: %v", w.Player)
	}
	w.Apply(MoveGun(9000))
	if w.Player.X != 500 {
		t.Fatalf("move gun not clamped: %v", w.Player)
	}
}

func TestTapAimsAndFires(t *testing.T) {
	w := newTestWorld(t, nil)
	start := w.Player // (250, 940)

	w.Apply(Tap(start.X+100, start.Y))
	if len(w.Bullets) != 1 {
		t.Fatalf("bullets = %d", len(w.Bullets))
	}
	b := w.Bullets[0]
	if math.Abs(b.Angle) > 1e-9 || math.Abs(w.GunAngle) > 1e-9 {
		t.Fatalf("tap to the right gave angle %v", b.Angle)
	}
	if math.Abs(b.Pos.X-(start.X+20)) > 1e-9 || math.Abs(b.Pos.Y-start.Y) > 1e-9 {
		t.Fatalf("bullet not at gun tip: %v", b.Pos)
	}
}

func TestTapStraightUpWithoutAimedFire(t *testing.T) {
	w := newTestWorld(t, func(c *Config) { c.AimedFire = false })
	w.Apply(Tap(120, 300))
	if len(w.Bullets) != 1 {
		t.Fatalf("bullets = %d", len(w.Bullets))
	}
	if w.Bullets[0].Angle != object.AngleUp || w.Player.X != 120 {
		t.Fatalf("bullet %+v, player %v", w.Bullets[0], w.Player)
	}
}

func TestFireCooldown(t *testing.T) {
	w := newTestWorld(t, func(c *Config) { c.FireCooldownTicks = 2 })
	if !w.Apply(Fire()) {
		t.Fatal("first shot rejected")
	}
	if w.Apply(Fire()) {
		t.Fatal("shot accepted during cooldown")
	}
	w.Step()
	if w.Apply(Fire()) {
		t.Fatal("shot accepted one tick into a two tick cooldown")
	}
	w.Step()
	if !w.Apply(Fire()) {
		t.Fatal("shot rejected after cooldown")
	}
}

func TestAimAtPlayerKeepsAngle(t *testing.T) {
	w := newTestWorld(t, nil)
	w.Apply(Aim(w.Player.X, w.Player.Y))
	if w.GunAngle != object.AngleUp {
		t.Fatalf("gun angle changed to %v", w.GunAngle)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	w := newTestWorld(t, nil)
	placeEnemy(w, object.TierMedium, 100, 100, 1)
	snap := w.Snapshot()

	w.Step()
	w.Enemies[0].Health = 0
	if snap.Enemies[0].Pos.Y != 100 || snap.Enemies[0].Health != 2 {
		t.Fatalf("snapshot aliased live enemy: %+v", snap.Enemies[0])
	}

	data, err := json.Marshal(newTestWorld(t, nil).Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"bullets":[]`, `"enemies":[]`, `"explosions":[]`, `"level":1`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("snapshot json missing %s: %s", field, data)
		}
	}
}

func TestCommandKindNames(t *testing.T) {
	for kind := CmdTap; kind <= CmdReset; kind++ {
		parsed, err := ParseCommandKind(kind.String())
		if err != nil || parsed != kind {
			t.Fatalf("ParseCommandKind(%q) = %v, %v", kind.String(), parsed, err)
		}
	}
	if _, err := ParseCommandKind("jump"); err == nil {
		t.Fatal("unknown command accepted")
	}
}
