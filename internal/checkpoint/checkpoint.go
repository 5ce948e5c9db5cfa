// internal/checkpoint/checkpoint.go
//
// Best-effort local snapshot of a match's score and clock, kept so a player
// can see where a crashed match stood. It only observes sessions; nothing in
// the game reads it back.
//
// Storage is a gdata object ("checkpoint") with one YAML property per match.
// A Store without a gdata manager silently does nothing.
//
// Recorders run on a match loop and never touch the disk there: they queue
// snapshots for the store's writer goroutine, which keeps only the newest
// pending snapshot per match.

package checkpoint

import (
	"fmt"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/lacey1998/FishMIner-Game/internal/game"
)

const objectKey = "checkpoint"

// Snapshot is what gets written for a match.
type Snapshot struct {
	Match      string      `yaml:"match" json:"match"`
	Generation uint64      `yaml:"generation" json:"generation"`
	Score      int         `yaml:"score" json:"score"`
	TimeLeft   int         `yaml:"timeLeft" json:"timeLeft"`
	Status     game.Status `yaml:"status" json:"status"`
	SavedAt    time.Time   `yaml:"savedAt" json:"savedAt"`
}

type Store struct {
	mgr *gdata.Manager
	log zerolog.Logger
	now func() time.Time

	mu      sync.Mutex
	pending map[string]Snapshot
	closed  bool

	wake  chan struct{}
	flush chan chan struct{}
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// Open creates a gdata-backed store under the given application name.
func Open(appName string, log zerolog.Logger) (*Store, error) {
	mgr, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open gdata %q: %w", appName, err)
	}
	return NewStore(mgr, log), nil
}

// NewStore wraps mgr and starts its writer. A nil mgr yields a no-op store.
func NewStore(mgr *gdata.Manager, log zerolog.Logger) *Store {
	s := &Store{
		mgr:     mgr,
		log:     log,
		now:     time.Now,
		pending: make(map[string]Snapshot),
		wake:    make(chan struct{}, 1),
		flush:   make(chan chan struct{}),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if mgr == nil {
		close(s.done)
		return s
	}
	go s.run()
	return s
}

func (s *Store) enabled() bool { return s != nil && s.mgr != nil }

func (s *Store) run() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.drain()
		case ack := <-s.flush:
			s.drain()
			close(ack)
		case <-s.quit:
			s.drain()
			return
		}
	}
}

func (s *Store) drain() {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[string]Snapshot)
	s.mu.Unlock()
	for _, snap := range batch {
		if err := s.Save(snap); err != nil {
			s.log.Warn().Err(err).Str("match", snap.Match).Msg("checkpoint write failed")
		}
	}
}

// enqueue hands snap to the writer, replacing any unwritten one for the
// same match. After Close it writes synchronously.
func (s *Store) enqueue(snap Snapshot) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if err := s.Save(snap); err != nil {
			s.log.Warn().Err(err).Str("match", snap.Match).Msg("checkpoint write failed")
		}
		return
	}
	s.pending[snap.Match] = snap
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every queued snapshot has been written.
func (s *Store) Flush() {
	if !s.enabled() {
		return
	}
	ack := make(chan struct{})
	select {
	case s.flush <- ack:
		<-ack
	case <-s.done:
	}
}

// Close writes what is queued and stops the writer.
func (s *Store) Close() {
	if !s.enabled() {
		return
	}
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.quit)
		<-s.done
	})
}

// Save writes snap under its match ID immediately.
func (s *Store) Save(snap Snapshot) error {
	if !s.enabled() {
		return nil
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	if err := s.mgr.SaveObjectProp(objectKey, snap.Match, data); err != nil {
		return fmt.Errorf("save checkpoint %s: %w", snap.Match, err)
	}
	return nil
}

// Load returns the last written snapshot for matchID, if any.
func (s *Store) Load(matchID string) (Snapshot, bool, error) {
	if !s.enabled() || !s.mgr.ObjectPropExists(objectKey, matchID) {
		return Snapshot{}, false, nil
	}
	data, err := s.mgr.LoadObjectProp(objectKey, matchID)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("load checkpoint %s: %w", matchID, err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("unmarshal checkpoint %s: %w", matchID, err)
	}
	return snap, true, nil
}

// Recorder returns a game.Observer that checkpoints matchID.
func (s *Store) Recorder(matchID string) *Recorder {
	return &Recorder{store: s, match: matchID}
}

// Recorder queues a snapshot whenever score, time left or status changes.
// Write failures are logged by the store and otherwise ignored.
type Recorder struct {
	store *Store
	match string
	last  Snapshot
	saved bool
}

func (r *Recorder) SessionChanged(v game.View) {
	r.record(v.Generation, v.Score, v.TimeLeft, v.Status)
}

func (r *Recorder) SessionEnded(res game.Result) {
	r.record(res.Generation, res.Score, res.TimeLeft, game.StatusEnded)
}

func (r *Recorder) record(gen uint64, score, timeLeft int, status game.Status) {
	if !r.store.enabled() {
		return
	}
	if r.saved && r.last.Generation == gen && r.last.Score == score &&
		r.last.TimeLeft == timeLeft && r.last.Status == status {
		return
	}
	snap := Snapshot{
		Match:      r.match,
		Generation: gen,
		Score:      score,
		TimeLeft:   timeLeft,
		Status:     status,
		SavedAt:    r.store.now().UTC(),
	}
	r.store.enqueue(snap)
	r.last, r.saved = snap, true
}
