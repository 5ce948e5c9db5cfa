// internal/arcade/match.go
//
// A Match is one player's game: a game.Engine living on its own clock.Loop.
// Responsibilities:
//   - Run every engine call (start, restart, catch, view) on the loop so the
//     engine never sees concurrent access.
//   - Fan session views out to stream subscribers, latest value wins.
//   - Submit the final score when a session ends, off the loop.
//
// Notes:
//   - Engine observers run on the loop goroutine; nothing here blocks it.
//   - After Close every operation returns ErrClosed.

package arcade

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lacey1998/FishMIner-Game/internal/clock"
	"github.com/lacey1998/FishMIner-Game/internal/daily"
	"github.com/lacey1998/FishMIner-Game/internal/game"
	"github.com/lacey1998/FishMIner-Game/internal/scores"
)

type Mode string

const (
	ModeClassic Mode = "classic"
	ModeDaily   Mode = "daily"
)

// ParseMode accepts "", "classic" and "daily".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeClassic:
		return ModeClassic, nil
	case ModeDaily:
		return ModeDaily, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

var (
	ErrClosed      = errors.New("match closed")
	ErrInvalidMode = errors.New("invalid mode")
)

// ScoreWriter receives final scores. scores.Store satisfies it.
type ScoreWriter interface {
	Create(ctx context.Context, r scores.Record) (scores.Record, error)
}

type Options struct {
	// ID defaults to NewID().
	ID     string
	Name   string
	Mode   Mode
	Config game.Config

	// Seed fixes the item stream of a classic match; zero means random.
	// Daily matches always derive theirs from the date and DailySalt.
	Seed      uint64
	DailySalt string

	Scores        ScoreWriter
	SubmitTimeout time.Duration
	Observers     []game.Observer

	// StreamEvery publishes one in every N cosmetic changes (hook sweep);
	// changes to score, time, items or phase always publish.
	StreamEvery int

	Logger zerolog.Logger
	Now    func() time.Time
}

type Match struct {
	ID        string
	Name      string
	Mode      Mode
	CreatedAt time.Time

	loop    *clock.Loop
	engine  *game.Engine
	scores  ScoreWriter
	timeout time.Duration
	every   int
	log     zerolog.Logger
	once    sync.Once
	wg      sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	last    game.View
	skipped int
	subs    map[int]chan game.View
	nextSub int
	record  *scores.Record
}

// New creates an idle match on a fresh loop.
func New(opts Options) (*Match, error) {
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = 5 * time.Second
	}
	if opts.StreamEvery <= 0 {
		opts.StreamEvery = 4
	}

	id := opts.ID
	if id == "" {
		id = NewID()
	}
	m := &Match{
		ID:        id,
		Name:      scores.NormalizeName(opts.Name),
		Mode:      mode,
		CreatedAt: now().UTC(),
		loop:      clock.NewLoop(0),
		scores:    opts.Scores,
		timeout:   opts.SubmitTimeout,
		every:     opts.StreamEvery,
		subs:      make(map[int]chan game.View),
	}
	m.log = opts.Logger.With().Str("match", m.ID).Logger()

	engOpts := []game.Option{game.WithLogger(m.log), game.WithObserver(m)}
	for _, o := range opts.Observers {
		engOpts = append(engOpts, game.WithObserver(o))
	}
	switch {
	case mode == ModeDaily:
		engOpts = append(engOpts, game.WithSeed(daily.Seed(m.CreatedAt, opts.DailySalt)))
	case opts.Seed != 0:
		engOpts = append(engOpts, game.WithSeed(opts.Seed))
	}

	eng, err := game.New(opts.Config, m.loop, engOpts...)
	if err != nil {
		m.loop.Close()
		return nil, err
	}
	m.engine = eng
	m.last = eng.View()
	return m, nil
}

func (m *Match) do(fn func()) error {
	if !m.loop.Do(fn) {
		return ErrClosed
	}
	return nil
}

// Start begins the first session. accepted is false when not idle.
func (m *Match) Start() (accepted bool, v game.View, err error) {
	err = m.do(func() {
		accepted = m.engine.Start()
		v = m.engine.View()
	})
	return
}

// Restart begins a new session after the previous one ended.
func (m *Match) Restart() (accepted bool, v game.View, err error) {
	err = m.do(func() {
		accepted = m.engine.Restart()
		v = m.engine.View()
	})
	return
}

// Catch requests a catch. accepted is false when none can start.
func (m *Match) Catch() (accepted bool, v game.View, err error) {
	err = m.do(func() {
		accepted = m.engine.Catch()
		v = m.engine.View()
	})
	return
}

func (m *Match) View() (v game.View, err error) {
	err = m.do(func() { v = m.engine.View() })
	return
}

// Summary is a cheap listing entry built from the last published view.
type Summary struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Mode      Mode        `json:"mode"`
	CreatedAt time.Time   `json:"createdAt"`
	Status    game.Status `json:"status"`
	Score     int         `json:"score"`
	TimeLeft  int         `json:"timeLeft"`
}

func (m *Match) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Summary{
		ID:        m.ID,
		Name:      m.Name,
		Mode:      m.Mode,
		CreatedAt: m.CreatedAt,
		Status:    m.last.Status,
		Score:     m.last.Score,
		TimeLeft:  m.last.TimeLeft,
	}
}

// LastRecord returns the most recently stored final score, if any.
func (m *Match) LastRecord() (scores.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record == nil {
		return scores.Record{}, false
	}
	return *m.record, true
}

// Subscribe returns a channel carrying the current view and then later ones.
// A slow reader only ever misses intermediate views. The channel is closed by
// cancel or Close.
func (m *Match) Subscribe() (<-chan game.View, func()) {
	ch := make(chan game.View, 1)
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- m.last
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if c, ok := m.subs[id]; ok {
				delete(m.subs, id)
				close(c)
			}
		})
	}
}

// Close stops the loop and every timer, closes subscriber channels and
// waits for a pending score submission.
func (m *Match) Close() {
	m.once.Do(func() {
		m.loop.Close()
		m.mu.Lock()
		m.closed = true
		for id, c := range m.subs {
			delete(m.subs, id)
			close(c)
		}
		m.mu.Unlock()
		m.wg.Wait()
	})
}

// SessionChanged implements game.Observer.
func (m *Match) SessionChanged(v game.View) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.last
	m.last = v
	if !significant(prev, v) {
		m.skipped++
		if m.skipped < m.every {
			return
		}
	}
	m.skipped = 0
	for _, c := range m.subs {
		offer(c, v)
	}
}

// SessionEnded implements game.Observer.
func (m *Match) SessionEnded(res game.Result) {
	if m.scores == nil {
		return
	}
	rec := scores.Record{
		MatchID: m.ID,
		Name:    m.Name,
		Score:   res.Score,
		Reason:  string(res.Reason),
		Mode:    string(m.Mode),
	}
	if m.Mode == ModeDaily {
		rec.Day = daily.DateKey(m.CreatedAt)
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		saved, err := m.scores.Create(ctx, rec)
		if err != nil {
			m.log.Warn().Err(err).Int("score", rec.Score).Msg("score submit failed")
			return
		}
		m.log.Info().Str("record", saved.ID).Int("score", saved.Score).Msg("score submitted")
		m.mu.Lock()
		m.record = &saved
		m.mu.Unlock()
	}()
}

func significant(a, b game.View) bool {
	if a.Status != b.Status || a.Generation != b.Generation || a.Score != b.Score ||
		a.TimeLeft != b.TimeLeft || a.Hook.Phase != b.Hook.Phase || a.Reason != b.Reason {
		return true
	}
	if len(a.Items) != len(b.Items) {
		return true
	}
	for i := range a.Items {
		if a.Items[i] != b.Items[i] {
			return true
		}
	}
	if (a.LastCaught == nil) != (b.LastCaught == nil) {
		return true
	}
	return a.LastCaught != nil && *a.LastCaught != *b.LastCaught
}

// offer replaces any unread view in c with v.
func offer(c chan game.View, v game.View) {
	select {
	case c <- v:
		return
	default:
	}
	select {
	case <-c:
	default:
	}
	select {
	case c <- v:
	default:
	}
}

// NewID returns a random 16 character hex match ID.
func NewID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
