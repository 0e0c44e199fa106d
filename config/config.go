// Package config resolves runtime settings from the environment, using a
// GetEnv(key, fallback)-with-typed-wrappers style throughout.
package config

import (
	"os"
	"strconv"
	"time"
)

// GetEnv returns the environment variable at key, or fallback if unset or
// empty.
func GetEnv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDurationMs(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// Settings bundles the engine's tunable knobs, sourced from the environment
// with fallback constants for local development.
type Settings struct {
	InflightLimit     int
	BeamWidth         int
	DeadlineGenerate  time.Duration
	DeadlineReplace   time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string

	SentryDSN string
	AsynqAddr string

	JWTSecret string
}

// Load reads Settings from the environment, defaulting anything unset to the
// values engine.DefaultConfig also uses.
func Load() Settings {
	return Settings{
		InflightLimit:    getEnvInt("ENGINE_INFLIGHT_LIMIT", 64),
		BeamWidth:        getEnvInt("ENGINE_BEAM_WIDTH", 8),
		DeadlineGenerate: getEnvDurationMs("ENGINE_DEADLINE_GENERATE_MS", 400*time.Millisecond),
		DeadlineReplace:  getEnvDurationMs("ENGINE_DEADLINE_REPLACE_MS", 600*time.Millisecond),

		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBUser:     GetEnv("DB_USERNAME", ""),
		DBPassword: GetEnv("DB_PASSWORD", ""),
		DBName:     GetEnv("DB_NAME", ""),

		R2AccountID:       GetEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     GetEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: GetEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      GetEnv("R2_BUCKET_NAME", "outfit-assets"),

		SentryDSN: GetEnv("SENTRY_DSN", ""),
		AsynqAddr: GetEnv("REDIS_ADDR", "localhost:6379"),

		JWTSecret: GetEnv("JWT_SECRET", ""),
	}
}
