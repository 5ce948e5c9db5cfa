// internal/game/engine.go
//
// Game state machine for one player.
// Responsibilities:
//   - Own the current session and every timer driving it.
//   - Enforce idle -> active -> ended (and ended -> active on restart).
//   - End the session the instant time runs out or the target is reached.
//   - Drop callbacks that belong to a superseded session (generation check).
//
// Notes:
//   - Engine is not safe for concurrent use. Call it from the goroutine that
//     runs its Scheduler's callbacks (a clock.Loop, or the test driving a
//     clock.Virtual); the scheduler then serializes every tick.
//   - Invalid requests are no-ops and report false.
package game

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/lacey1998/FishMIner-Game/internal/clock"
)

type Engine struct {
	cfg       Config
	sched     clock.Scheduler
	rng       *rand.Rand
	seed      *uint64
	log       zerolog.Logger
	observers []Observer

	status Status
	gen    uint64
	nextID int64
	sess   *session
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithSeed makes item spawning reproducible: every session, restarts
// included, draws the same item stream.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.seed = &seed }
}

// WithObserver registers o for change and game-over notifications.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New validates cfg and returns an idle engine.
func New(cfg Config, sched clock.Scheduler, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		sched:  sched,
		rng:    newRand(uint64(time.Now().UnixNano())),
		log:    zerolog.Nop(),
		status: StatusIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.seed != nil {
		e.rng = newRand(*e.seed)
	}
	e.sess = newSession(0, cfg)
	return e, nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (e *Engine) Status() Status     { return e.status }
func (e *Engine) Generation() uint64 { return e.gen }

// Start begins the first session. Only valid while idle.
func (e *Engine) Start() bool {
	if e.status != StatusIdle {
		return false
	}
	e.begin()
	return true
}

// Restart begins a fresh session after the previous one ended.
func (e *Engine) Restart() bool {
	if e.status != StatusEnded {
		return false
	}
	e.begin()
	return true
}

// begin resets all session state and arms the periodic ticks.
func (e *Engine) begin() {
	e.sess.discard()
	e.gen++
	if e.seed != nil {
		e.rng = newRand(*e.seed)
	}
	s := newSession(e.gen, e.cfg)
	e.sess = s
	e.status = StatusActive

	// countdown is armed first so that at a shared instant it runs before the
	// other ticks and a time-up ending suppresses them
	s.tickers = []clock.Timer{
		e.sched.Every(e.cfg.CountdownInterval, e.whileActive(s.gen, e.countdownTick)),
		e.sched.Every(e.cfg.SpawnInterval, e.whileActive(s.gen, e.spawnTick)),
		e.sched.Every(e.cfg.FallInterval, e.whileActive(s.gen, e.fallTick)),
		e.sched.Every(e.cfg.SweepInterval, e.whileActive(s.gen, e.sweepTick)),
	}

	e.log.Info().Uint64("generation", s.gen).Int("duration", e.cfg.Duration).
		Int("target", e.cfg.TargetScore).Msg("session started")
	e.notify()
}

// whileActive wraps a tick so it only runs for the live, active session.
func (e *Engine) whileActive(gen uint64, fn func()) func() {
	return func() {
		if !e.live(gen) {
			return
		}
		fn()
	}
}

func (e *Engine) live(gen uint64) bool {
	return e.status == StatusActive && e.gen == gen
}

func (e *Engine) countdownTick() {
	s := e.sess
	s.timeLeft--
	if s.timeLeft <= 0 {
		s.timeLeft = 0
		e.end(ReasonTimeUp)
		return
	}
	e.notify()
}

// checkTarget ends the session if the score has reached the target.
func (e *Engine) checkTarget() bool {
	if e.sess.score >= e.cfg.TargetScore {
		e.end(ReasonTarget)
		return true
	}
	return false
}

// end moves active -> ended and abandons any catch in flight. The feedback
// timer is left running so the last catch still clears on schedule.
func (e *Engine) end(reason EndReason) {
	s := e.sess
	s.halt()
	s.hook.Phase = PhaseIdle
	s.reason = reason
	e.status = StatusEnded

	e.log.Info().Uint64("generation", s.gen).Int("score", s.score).
		Int("timeLeft", s.timeLeft).Str("reason", string(reason)).Msg("session ended")

	e.notify()
	res := Result{Generation: s.gen, Score: s.score, TimeLeft: s.timeLeft, Reason: reason}
	for _, o := range e.observers {
		o.SessionEnded(res)
	}
}

// View returns a detached snapshot of the current session.
func (e *Engine) View() View {
	s := e.sess
	v := View{
		Status:     e.status,
		Generation: s.gen,
		Score:      s.score,
		Target:     e.cfg.TargetScore,
		TimeLeft:   s.timeLeft,
		Items:      make([]Item, len(s.items)),
		Hook:       s.hook,
		Reason:     s.reason,
	}
	copy(v.Items, s.items)
	if s.lastCaught != nil {
		c := *s.lastCaught
		v.LastCaught = &c
	}
	return v
}

func (e *Engine) notify() {
	if len(e.observers) == 0 {
		return
	}
	v := e.View()
	for _, o := range e.observers {
		o.SessionChanged(v)
	}
}
