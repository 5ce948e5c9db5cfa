// internal/config/config.go
//
// Process configuration.
// Responsibilities:
//   - Read server settings from the environment (after godotenv has loaded .env).
//   - Load optional game tuning overrides from a YAML or TOML file.
//
// Notes:
//   - Tuning files only need the fields they change; everything else keeps
//     the value from the base config.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/lacey1998/FishMIner-Game/internal/game"
)

// ErrUnknownFormat is returned for tuning files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("unknown tuning file format")

type Env struct {
	Port              string
	LogLevel          string
	DBPath            string
	ClientOrigin      string
	JWTSecret         string
	AdminPasswordHash string
	DailySalt         string
	TuningPath        string
	CheckpointApp     string
}

func FromEnv() Env {
	return Env{
		Port:              getEnv("PORT", "5175"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DBPath:            getEnv("DB_PATH", "./data/scores.db"),
		ClientOrigin:      getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		JWTSecret:         getEnv("JWT_SECRET", "dev_secret_change_me"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		DailySalt:         getEnv("DAILY_SALT", "local_dev_salt"),
		TuningPath:        os.Getenv("GAME_TUNING"),
		CheckpointApp:     os.Getenv("CHECKPOINT_APP"),
	}
}

// LoadTuning overlays the file at path onto base and validates the result.
// An empty path returns base unchanged (after validation).
func LoadTuning(path string, base game.Config) (game.Config, error) {
	cfg := base
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return base, fmt.Errorf("read tuning %s: %w", path, err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, &cfg)
		case ".toml":
			err = toml.Unmarshal(data, &cfg)
		default:
			return base, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
		}
		if err != nil {
			return base, fmt.Errorf("parse tuning %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
