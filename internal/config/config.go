// Package config loads server settings from the environment. A .env
// file in the working directory is merged in when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/vroslmend/check-the-card-game-v2-sub001/internal/game"
)

// Config holds everything the server binary needs at startup.
type Config struct {
	ListenAddr string
	LogLevel   string
	JWTSecret  string

	Game game.Config
}

// Load reads the environment, after merging an optional .env file.
// Unset variables fall back to defaults; malformed values are errors.
func Load() (Config, error) {
	// Missing .env is fine, the environment alone is enough.
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr: envString("CHECK_LISTEN_ADDR", ":8080"),
		LogLevel:   envString("CHECK_LOG_LEVEL", "info"),
		JWTSecret:  envString("CHECK_JWT_SECRET", ""),
		Game:       game.DefaultConfig(),
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("config: CHECK_JWT_SECRET is required")
	}

	var err error
	if cfg.Game.TurnTimeout, err = envDuration("CHECK_TURN_TIMEOUT_MS", cfg.Game.TurnTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Game.MatchingTimeout, err = envDuration("CHECK_MATCHING_TIMEOUT_MS", cfg.Game.MatchingTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Game.InitialPeekTimeout, err = envDuration("CHECK_INITIAL_PEEK_TIMEOUT_MS", cfg.Game.InitialPeekTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Game.DisconnectGrace, err = envDuration("CHECK_DISCONNECT_GRACE_MS", cfg.Game.DisconnectGrace); err != nil {
		return Config{}, err
	}
	if cfg.Game.PeekRevealDuration, err = envDuration("CHECK_PEEK_REVEAL_MS", cfg.Game.PeekRevealDuration); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer of milliseconds, got %q", key, v)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
