package checkpoint

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lacey1998/FishMIner-Game/internal/game"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	s, err := Open(fmt.Sprintf("fishminer_test_%d", time.Now().UnixNano()), zerolog.Nop())
	if err != nil {
		t.Skipf("gdata unavailable: %v", err)
	}
	s.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(s.Close)
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.Load("m1"); err != nil || ok {
		t.Fatalf("load before save: ok=%v err=%v", ok, err)
	}

	want := Snapshot{Match: "m1", Generation: 3, Score: 145, TimeLeft: 12, Status: game.StatusActive,
		SavedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := s.Load("m1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.Score != want.Score || got.TimeLeft != want.TimeLeft || got.Status != want.Status ||
		got.Generation != want.Generation || !got.SavedAt.Equal(want.SavedAt) {
		t.Fatalf("loaded %+v, want %+v", got, want)
	}
}

func TestRecorderTracksSessionUntilEnd(t *testing.T) {
	s := openTestStore(t)
	rec := s.Recorder("m2")

	rec.SessionChanged(game.View{Status: game.StatusActive, Generation: 1, Score: 0, TimeLeft: 60})
	rec.SessionChanged(game.View{Status: game.StatusActive, Generation: 1, Score: 40, TimeLeft: 58})
	s.Flush()

	snap, ok, _ := s.Load("m2")
	if !ok || snap.Score != 40 || snap.TimeLeft != 58 || snap.Status != game.StatusActive {
		t.Fatalf("mid-session snapshot = %+v ok=%v", snap, ok)
	}

	rec.SessionEnded(game.Result{Generation: 1, Score: 510, TimeLeft: 20, Reason: game.ReasonTarget})
	s.Flush()
	snap, _, _ = s.Load("m2")
	if snap.Status != game.StatusEnded || snap.Score != 510 {
		t.Fatalf("final snapshot = %+v", snap)
	}
}

func TestQueuedSnapshotsKeepNewestPerMatch(t *testing.T) {
	s := openTestStore(t)
	a, b := s.Recorder("a"), s.Recorder("b")
	for i := 1; i <= 50; i++ {
		a.SessionChanged(game.View{Status: game.StatusActive, Generation: 1, Score: i, TimeLeft: 60})
	}
	b.SessionChanged(game.View{Status: game.StatusActive, Generation: 3, Score: 7, TimeLeft: 9})
	s.Flush()

	if snap, ok, _ := s.Load("a"); !ok || snap.Score != 50 {
		t.Fatalf("a = %+v ok=%v, want score 50", snap, ok)
	}
	if snap, ok, _ := s.Load("b"); !ok || snap.Generation != 3 || snap.Score != 7 {
		t.Fatalf("b = %+v ok=%v", snap, ok)
	}
}

func TestCloseWritesQueuedAndLaterSnapshots(t *testing.T) {
	s := openTestStore(t)
	rec := s.Recorder("c")
	rec.SessionChanged(game.View{Status: game.StatusActive, Generation: 1, Score: 10, TimeLeft: 30})
	s.Close()
	if snap, ok, _ := s.Load("c"); !ok || snap.Score != 10 {
		t.Fatalf("after close = %+v ok=%v", snap, ok)
	}

	rec.SessionEnded(game.Result{Generation: 1, Score: 10, TimeLeft: 29, Reason: game.ReasonTimeUp})
	if snap, _, _ := s.Load("c"); snap.Status != game.StatusEnded {
		t.Fatalf("late snapshot not written: %+v", snap)
	}
	s.Flush()
}

func TestNilManagerIsNoop(t *testing.T) {
	s := NewStore(nil, zerolog.Nop())
	defer s.Close()
	s.Flush()
	if err := s.Save(Snapshot{Match: "x"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Recorder("x").SessionChanged(game.View{Score: 1})
	if _, ok, err := s.Load("x"); ok || err != nil {
		t.Fatalf("load on no-op store: ok=%v err=%v", ok, err)
	}
}
