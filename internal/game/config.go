// internal/game/config.go
//
// Static tuning consumed by the engine. Every value is fixed for the life of
// an Engine; tuning files may override the defaults before construction.

package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// PointRange is an inclusive [Min, Max] range of point values.
type PointRange struct {
	Min int `json:"min" yaml:"min" toml:"min"`
	Max int `json:"max" yaml:"max" toml:"max"`
}

func (r PointRange) draw(rng *rand.Rand) int {
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

// Contains reports whether p lies within the range.
func (r PointRange) Contains(p int) bool { return p >= r.Min && p <= r.Max }

type Config struct {
	// Session
	Duration          int           `json:"duration" yaml:"duration" toml:"duration"`
	CountdownInterval time.Duration `json:"countdownInterval" yaml:"countdownInterval" toml:"countdown_interval"`
	TargetScore       int           `json:"targetScore" yaml:"targetScore" toml:"target_score"`

	// Play field
	FieldLeft   int `json:"fieldLeft" yaml:"fieldLeft" toml:"field_left"`
	FieldRight  int `json:"fieldRight" yaml:"fieldRight" toml:"field_right"`
	SpawnMargin int `json:"spawnMargin" yaml:"spawnMargin" toml:"spawn_margin"`
	FieldTop    int `json:"fieldTop" yaml:"fieldTop" toml:"field_top"`
	FieldBottom int `json:"fieldBottom" yaml:"fieldBottom" toml:"field_bottom"`

	// Hook sweep
	HookMin       int           `json:"hookMin" yaml:"hookMin" toml:"hook_min"`
	HookMax       int           `json:"hookMax" yaml:"hookMax" toml:"hook_max"`
	HookStart     int           `json:"hookStart" yaml:"hookStart" toml:"hook_start"`
	HookStep      int           `json:"hookStep" yaml:"hookStep" toml:"hook_step"`
	SweepInterval time.Duration `json:"sweepInterval" yaml:"sweepInterval" toml:"sweep_interval"`

	// Falling items
	FallStep      int           `json:"fallStep" yaml:"fallStep" toml:"fall_step"`
	FallInterval  time.Duration `json:"fallInterval" yaml:"fallInterval" toml:"fall_interval"`
	SpawnInterval time.Duration `json:"spawnInterval" yaml:"spawnInterval" toml:"spawn_interval"`

	// Catching
	CatchTolerance   int           `json:"catchTolerance" yaml:"catchTolerance" toml:"catch_tolerance"`
	CatchDepth       int           `json:"catchDepth" yaml:"catchDepth" toml:"catch_depth"`
	CatchBand        int           `json:"catchBand" yaml:"catchBand" toml:"catch_band"`
	ExtendDelay      time.Duration `json:"extendDelay" yaml:"extendDelay" toml:"extend_delay"`
	RetractDelay     time.Duration `json:"retractDelay" yaml:"retractDelay" toml:"retract_delay"`
	FeedbackDuration time.Duration `json:"feedbackDuration" yaml:"feedbackDuration" toml:"feedback_duration"`

	// Point values per kind
	Positive PointRange `json:"positive" yaml:"positive" toml:"positive"`
	Negative PointRange `json:"negative" yaml:"negative" toml:"negative"`
	Mystery  PointRange `json:"mystery" yaml:"mystery" toml:"mystery"`
}

// DefaultConfig returns the stock tuning: a 60 second round against a target
// of 500 on a 480 wide field.
func DefaultConfig() Config {
	return Config{
		Duration:          60,
		CountdownInterval: time.Second,
		TargetScore:       500,

		FieldLeft:   0,
		FieldRight:  480,
		SpawnMargin: 20,
		FieldTop:    0,
		FieldBottom: 400,

		HookMin:       20,
		HookMax:       460,
		HookStart:     250,
		HookStep:      1,
		SweepInterval: 16 * time.Millisecond,

		FallStep:      5,
		FallInterval:  50 * time.Millisecond,
		SpawnInterval: 2 * time.Second,

		CatchTolerance:   30,
		CatchDepth:       300,
		CatchBand:        40,
		ExtendDelay:      200 * time.Millisecond,
		RetractDelay:     300 * time.Millisecond,
		FeedbackDuration: 1500 * time.Millisecond,

		Positive: PointRange{Min: 20, Max: 59},
		Negative: PointRange{Min: -49, Max: -30},
		Mystery:  PointRange{Min: -50, Max: 50},
	}
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid game config")

// Validate checks the invariants the engine relies on.
func (c Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
	}
	if c.Duration <= 0 {
		return bad("duration must be > 0, got %d", c.Duration)
	}
	if c.TargetScore <= 0 {
		return bad("targetScore must be > 0, got %d", c.TargetScore)
	}
	for _, iv := range []struct {
		name string
		d    time.Duration
	}{
		{"countdownInterval", c.CountdownInterval},
		{"sweepInterval", c.SweepInterval},
		{"fallInterval", c.FallInterval},
		{"spawnInterval", c.SpawnInterval},
	} {
		if iv.d <= 0 {
			return bad("%s must be > 0, got %s", iv.name, iv.d)
		}
	}
	if c.ExtendDelay < 0 || c.RetractDelay < 0 || c.FeedbackDuration < 0 {
		return bad("animation delays must be >= 0")
	}
	if c.FieldLeft+c.SpawnMargin > c.FieldRight-c.SpawnMargin {
		return bad("spawn band [%d,%d] is empty", c.FieldLeft+c.SpawnMargin, c.FieldRight-c.SpawnMargin)
	}
	if c.FieldTop >= c.FieldBottom {
		return bad("fieldTop %d must be above fieldBottom %d", c.FieldTop, c.FieldBottom)
	}
	if c.HookMin > c.HookMax {
		return bad("hook bounds [%d,%d] are inverted", c.HookMin, c.HookMax)
	}
	if c.HookStart < c.HookMin || c.HookStart > c.HookMax {
		return bad("hookStart %d outside [%d,%d]", c.HookStart, c.HookMin, c.HookMax)
	}
	if c.HookStep <= 0 {
		return bad("hookStep must be > 0, got %d", c.HookStep)
	}
	if c.FallStep <= 0 {
		return bad("fallStep must be > 0, got %d", c.FallStep)
	}
	if c.CatchTolerance < 0 || c.CatchBand < 0 {
		return bad("catch window must be >= 0")
	}
	for _, k := range itemKinds {
		if r := c.pointsFor(k); r.Min > r.Max {
			return bad("%s points [%d,%d] are inverted", k, r.Min, r.Max)
		}
	}
	return nil
}

func (c Config) pointsFor(k ItemKind) PointRange {
	switch k {
	case KindPositive:
		return c.Positive
	case KindNegative:
		return c.Negative
	default:
		return c.Mystery
	}
}
