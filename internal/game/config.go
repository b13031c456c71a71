// Package game holds the arcade shooter simulation: the world aggregate,
// player commands and the ordered per-tick phases.
package game

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tomz197/shooter/internal/physics"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid game config")

// TerminalPolicy selects which enemy condition ends the session.
type TerminalPolicy int

const (
	// PolicyProximity ends the game when an enemy at or below the danger line
	// is horizontally within PlayerTolerance of the player.
	PolicyProximity TerminalPolicy = iota
	// PolicyBoundary ends the game whenever an enemy crosses the bottom edge.
	PolicyBoundary
)

// String returns the policy name used in configuration.
func (p TerminalPolicy) String() string {
	switch p {
	case PolicyProximity:
		return "proximity"
	case PolicyBoundary:
		return "boundary"
	default:
		return fmt.Sprintf("TerminalPolicy(%d)", int(p))
	}
}

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (TerminalPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "proximity", "":
		return PolicyProximity, nil
	case "boundary":
		return PolicyBoundary, nil
	default:
		return 0, fmt.Errorf("%w: unknown terminal policy %q", ErrInvalidConfig, s)
	}
}

// Config holds every tunable of a game session.
type Config struct {
	TickInterval time.Duration

	// Play area
	Width  float64
	Height float64

	// Spawning
	SpawnBaseRate         float64
	SpawnLevelCoefficient float64
	MaxConcurrentEnemies  int // 0 means unlimited
	SingleTier            bool
	LevelSpeedScale       float64

	// Combat
	HitMargin         float64
	BulletSpeed       float64
	GunLength         float64
	FireCooldownTicks int
	AimedFire         bool // Taps fire toward the tap point instead of straight up

	// Terminal condition
	Policy          TerminalPolicy
	DangerLineY     float64
	PlayerTolerance float64

	PlayerStart physics.Point
	// PlayerBottomInset keeps dragged players this far above the bottom edge
	PlayerBottomInset float64
	Seed        int64 // 0 seeds from the clock
}

// Defaults.
const (
	DefaultTickInterval    = 16 * time.Millisecond
	DefaultWidth           = 500
	DefaultHeight          = 1000
	DefaultSpawnBaseRate   = 0.02
	DefaultSpawnLevelCoef  = 0.005
	DefaultHitMargin       = 10
	DefaultBulletSpeed     = 10
	DefaultGunLength       = 20
	DefaultLevelSpeedScale = 0.1
	DefaultPlayerTolerance = 30
	DefaultPlayerInset     = 50
	dangerLineOffset       = 100 // Default danger line distance above the bottom edge
	playerStartOffset      = 60  // Default player distance above the bottom edge
	PointsPerLevel         = 100
)

// DefaultConfig returns a Config with the standard tuning.
func DefaultConfig() Config {
	return Config{
		TickInterval:          DefaultTickInterval,
		Width:                 DefaultWidth,
		Height:                DefaultHeight,
		SpawnBaseRate:         DefaultSpawnBaseRate,
		SpawnLevelCoefficient: DefaultSpawnLevelCoef,
		LevelSpeedScale:       DefaultLevelSpeedScale,
		HitMargin:             DefaultHitMargin,
		BulletSpeed:           DefaultBulletSpeed,
		GunLength:             DefaultGunLength,
		AimedFire:             true,
		Policy:                PolicyProximity,
		DangerLineY:           DefaultHeight - dangerLineOffset,
		PlayerTolerance:       DefaultPlayerTolerance,
		PlayerStart:           physics.Point{X: DefaultWidth / 2, Y: DefaultHeight - playerStartOffset},
		PlayerBottomInset:     DefaultPlayerInset,
	}
}

// WithPlayArea resizes the play area and moves the size-derived defaults
// (danger line, player start) along with it.
func (c Config) WithPlayArea(width, height float64) Config {
	c.Width = width
	c.Height = height
	c.DangerLineY = max(height-dangerLineOffset, 0)
	c.PlayerStart = physics.Point{X: width / 2, Y: max(height-playerStartOffset, height/2)}
	return c
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	finite := func(name string, v float64) {
		check(!math.IsNaN(v) && !math.IsInf(v, 0), "%s must be finite, got %v", name, v)
	}
	finite("play area width", c.Width)
	finite("play area height", c.Height)
	finite("spawn base rate", c.SpawnBaseRate)
	finite("spawn level coefficient", c.SpawnLevelCoefficient)
	finite("level speed scale", c.LevelSpeedScale)
	finite("hit margin", c.HitMargin)
	finite("bullet speed", c.BulletSpeed)
	finite("gun length", c.GunLength)
	finite("danger line", c.DangerLineY)
	finite("player tolerance", c.PlayerTolerance)
	finite("player bottom inset", c.PlayerBottomInset)
	finite("player start x", c.PlayerStart.X)
	finite("player start y", c.PlayerStart.Y)

	check(c.TickInterval > 0, "tick interval must be positive, got %v", c.TickInterval)
	check(c.Width > 0, "play area width must be positive, got %v", c.Width)
	check(c.Height > 0, "play area height must be positive, got %v", c.Height)
	check(c.SpawnBaseRate >= 0, "spawn base rate must not be negative, got %v", c.SpawnBaseRate)
	check(c.SpawnLevelCoefficient >= 0, "spawn level coefficient must not be negative, got %v", c.SpawnLevelCoefficient)
	check(c.MaxConcurrentEnemies >= 0, "max concurrent enemies must not be negative, got %d", c.MaxConcurrentEnemies)
	check(c.LevelSpeedScale >= 0, "level speed scale must not be negative, got %v", c.LevelSpeedScale)
	check(c.HitMargin >= 0, "hit margin must not be negative, got %v", c.HitMargin)
	check(c.BulletSpeed > 0, "bullet speed must be positive, got %v", c.BulletSpeed)
	check(c.GunLength >= 0, "gun length must not be negative, got %v", c.GunLength)
	check(c.FireCooldownTicks >= 0, "fire cooldown must not be negative, got %d", c.FireCooldownTicks)
	check(c.Policy == PolicyProximity || c.Policy == PolicyBoundary, "unknown terminal policy %v", c.Policy)
	check(c.PlayerTolerance >= 0, "player tolerance must not be negative, got %v", c.PlayerTolerance)
	check(c.PlayerBottomInset >= 0, "player bottom inset must not be negative, got %v", c.PlayerBottomInset)
	if c.Height > 0 {
		check(c.DangerLineY >= 0 && c.DangerLineY <= c.Height, "danger line %v outside play area height %v", c.DangerLineY, c.Height)
	}
	if c.Width > 0 && c.Height > 0 {
		inside := c.PlayerStart.X >= 0 && c.PlayerStart.X <= c.Width && c.PlayerStart.Y >= 0 && c.PlayerStart.Y <= c.Height
		check(inside, "player start %v outside play area", c.PlayerStart)
	}

	return errors.Join(errs...)
}
