// Package config centralizes the tunable game and client parameters.
package config

import (
	"errors"
	"time"

	envconfig "github.com/tomz197/shooter/internal/config"
	"github.com/tomz197/shooter/internal/game"
)

// Terminal controls
const (
	GunStep = 10.0 // Play-area units the gun moves per A/D or arrow key press
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server command inbox
const (
	CommandQueueSize = 64
)

// Environment variable names for game tuning.
const (
	EnvTickMillis      = "SHOOTER_TICK_MS"
	EnvWidth           = "SHOOTER_WIDTH"
	EnvHeight          = "SHOOTER_HEIGHT"
	EnvSpawnBaseRate   = "SHOOTER_SPAWN_BASE_RATE"
	EnvSpawnLevelCoef  = "SHOOTER_SPAWN_LEVEL_COEF"
	EnvMaxEnemies      = "SHOOTER_MAX_ENEMIES"
	EnvHitMargin       = "SHOOTER_HIT_MARGIN"
	EnvPolicy          = "SHOOTER_POLICY"
	EnvDangerLine      = "SHOOTER_DANGER_LINE"
	EnvPlayerTolerance = "SHOOTER_PLAYER_TOLERANCE"
	EnvPlayerInset     = "SHOOTER_PLAYER_INSET"
	EnvSingleTier      = "SHOOTER_SINGLE_TIER"
	EnvAimedFire       = "SHOOTER_AIMED_FIRE"
	EnvSeed            = "SHOOTER_SEED"
)

// GameConfigFromEnv builds a game configuration from SHOOTER_* variables,
// starting from game.DefaultConfig. Every malformed variable and every
// validation failure is reported in the returned error.
func GameConfigFromEnv() (game.Config, error) {
	def := game.DefaultConfig()
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	width, err := envconfig.GetEnvFloat(EnvWidth, def.Width)
	collect(err)
	height, err := envconfig.GetEnvFloat(EnvHeight, def.Height)
	collect(err)

	// Size-derived defaults follow the play area unless overridden below
	cfg := def.WithPlayArea(width, height)

	cfg.TickInterval, err = envconfig.GetEnvMillis(EnvTickMillis, def.TickInterval)
	collect(err)
	cfg.SpawnBaseRate, err = envconfig.GetEnvFloat(EnvSpawnBaseRate, def.SpawnBaseRate)
	collect(err)
	cfg.SpawnLevelCoefficient, err = envconfig.GetEnvFloat(EnvSpawnLevelCoef, def.SpawnLevelCoefficient)
	collect(err)
	cfg.MaxConcurrentEnemies, err = envconfig.GetEnvInt(EnvMaxEnemies, def.MaxConcurrentEnemies)
	collect(err)
	cfg.HitMargin, err = envconfig.GetEnvFloat(EnvHitMargin, def.HitMargin)
	collect(err)
	cfg.DangerLineY, err = envconfig.GetEnvFloat(EnvDangerLine, cfg.DangerLineY)
	collect(err)
	cfg.PlayerTolerance, err = envconfig.GetEnvFloat(EnvPlayerTolerance, def.PlayerTolerance)
	collect(err)
	cfg.PlayerBottomInset, err = envconfig.GetEnvFloat(EnvPlayerInset, def.PlayerBottomInset)
	collect(err)
	cfg.SingleTier, err = envconfig.GetEnvBool(EnvSingleTier, def.SingleTier)
	collect(err)
	cfg.AimedFire, err = envconfig.GetEnvBool(EnvAimedFire, def.AimedFire)
	collect(err)
	cfg.Seed, err = envconfig.GetEnvInt64(EnvSeed, def.Seed)
	collect(err)
	cfg.Policy, err = game.ParsePolicy(envconfig.GetEnv(EnvPolicy, def.Policy.String()))
	collect(err)

	if len(errs) > 0 {
		return cfg, errors.Join(append([]error{game.ErrInvalidConfig}, errs...)...)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
