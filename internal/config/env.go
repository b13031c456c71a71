// Package config provides shared configuration utilities.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvInt parses an integer environment variable.
// Returns fallback when the variable is unset or empty.
func GetEnvInt(key string, fallback int) (int, error) {
	value, ok := lookup(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return n, nil
}

// GetEnvInt64 parses a 64-bit integer environment variable.
func GetEnvInt64(key string, fallback int64) (int64, error) {
	value, ok := lookup(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return n, nil
}

// GetEnvFloat parses a floating point environment variable.
func GetEnvFloat(key string, fallback float64) (float64, error) {
	value, ok := lookup(key)
	if !ok {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: invalid number %q", key, value)
	}
	return f, nil
}

// GetEnvBool parses a boolean environment variable (1/0, true/false, ...).
func GetEnvBool(key string, fallback bool) (bool, error) {
	value, ok := lookup(key)
	if !ok {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: invalid boolean %q", key, value)
	}
	return b, nil
}

// GetEnvMillis parses a duration given in whole milliseconds.
func GetEnvMillis(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := lookup(key)
	if !ok {
		return fallback, nil
	}
	ms, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: invalid milliseconds %q", key, value)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// LoadDotEnv loads variables from the given .env files (".env" when none given).
// Missing files are skipped; variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
