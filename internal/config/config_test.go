package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lacey1998/FishMIner-Game/internal/game"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("GAME_TUNING", "")
	env := FromEnv()
	if env.Port != "5175" || env.DBPath != "/tmp/x.db" || env.TuningPath != "" {
		t.Fatalf("env = %+v", env)
	}
}

func TestLoadTuningEmptyPath(t *testing.T) {
	cfg, err := LoadTuning("", game.DefaultConfig())
	if err != nil || cfg != game.DefaultConfig() {
		t.Fatalf("cfg = %+v err=%v", cfg, err)
	}
}

func TestLoadTuningYAML(t *testing.T) {
	p := writeFile(t, "tuning.yaml", `
duration: 30
targetScore: 250
extendDelay: 150ms
positive:
  min: 10
  max: 19
`)
	cfg, err := LoadTuning(p, game.DefaultConfig())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Duration != 30 || cfg.TargetScore != 250 || cfg.ExtendDelay != 150*time.Millisecond {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Positive != (game.PointRange{Min: 10, Max: 19}) {
		t.Fatalf("positive = %+v", cfg.Positive)
	}
	if cfg.HookMax != game.DefaultConfig().HookMax {
		t.Fatal("untouched field lost its default")
	}
}

func TestLoadTuningTOML(t *testing.T) {
	p := writeFile(t, "tuning.toml", `
duration = 45
sweep_interval = "10ms"

[mystery]
min = -10
max = 10
`)
	cfg, err := LoadTuning(p, game.DefaultConfig())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Duration != 45 || cfg.SweepInterval != 10*time.Millisecond || cfg.Mystery.Min != -10 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadTuningRejectsBadInput(t *testing.T) {
	base := game.DefaultConfig()

	if _, err := LoadTuning(writeFile(t, "t.json", "{}"), base); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("json: err = %v", err)
	}
	if _, err := LoadTuning(writeFile(t, "t.yml", "hookStart: 9999\n"), base); !errors.Is(err, game.ErrInvalidConfig) {
		t.Fatalf("invalid values: err = %v", err)
	}
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"), base); err == nil {
		t.Fatal("missing file accepted")
	}
}
