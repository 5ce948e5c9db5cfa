package scores

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lacey1998/FishMIner-Game/assets"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "scores.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(context.Background(), db, assets.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s := NewSQLStore(db)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := Migrate(context.Background(), s.db, assets.Migrations); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 2 {
		t.Fatalf("recorded migrations = %d, want 2", n)
	}
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r, err := s.Create(ctx, Record{ID: "ignored", Name: "  Nemo  ", Score: 120, Reason: "time_up", MatchID: "m1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.ID == "" || r.ID == "ignored" || len(r.ID) != 22 {
		t.Fatalf("id = %q, want a fresh 22-char id", r.ID)
	}
	if r.Name != "Nemo" || r.Mode != "classic" {
		t.Fatalf("normalized record = %+v", r)
	}
	if r.CreatedAt.IsZero() || !r.CreatedAt.Equal(r.UpdatedAt) {
		t.Fatalf("timestamps = %v / %v", r.CreatedAt, r.UpdatedAt)
	}

	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Nemo" || got.Score != 120 || got.MatchID != "m1" || got.Reason != "time_up" {
		t.Fatalf("stored record = %+v", got)
	}
	if !got.CreatedAt.Equal(r.CreatedAt) {
		t.Fatalf("created_at round trip: %v != %v", got.CreatedAt, r.CreatedAt)
	}
}

func TestTopOrdersByScoreThenAge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, in := range []Record{
		{Name: "low", Score: 10},
		{Name: "early", Score: 50},
		{Name: "late", Score: 50},
		{Name: "neg", Score: -5},
	} {
		if _, err := s.Create(ctx, in); err != nil {
			t.Fatalf("create %s: %v", in.Name, err)
		}
	}

	top, err := s.Top(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []string{"early", "late", "low"}
	if len(top) != len(want) {
		t.Fatalf("top = %+v", top)
	}
	for i, name := range want {
		if top[i].Name != name {
			t.Fatalf("top[%d] = %s, want %s", i, top[i].Name, name)
		}
	}

	all, err := s.Top(ctx, 0)
	if err != nil || len(all) != 4 {
		t.Fatalf("default limit returned %d records, err=%v", len(all), err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r, _ := s.Create(ctx, Record{Name: "a", Score: 1})

	name, score := "renamed", 77
	up, err := s.Update(ctx, r.ID, Patch{Name: &name, Score: &score})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.Name != "renamed" || up.Score != 77 {
		t.Fatalf("updated = %+v", up)
	}
	if !up.UpdatedAt.After(up.CreatedAt) {
		t.Fatalf("updated_at %v not after created_at %v", up.UpdatedAt, up.CreatedAt)
	}

	if _, err := s.Update(ctx, "missing", Patch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: err = %v", err)
	}

	if err := s.Delete(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted: err = %v", err)
	}
	if err := s.Delete(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete twice: err = %v", err)
	}
}

func TestDailyBoardFiltersModeAndDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.Create(ctx, Record{Name: "classic", Score: 900})
	s.Create(ctx, Record{Name: "d1", Score: 40, Mode: "daily"})
	s.Create(ctx, Record{Name: "d2", Score: 80, Mode: "daily"})

	board, err := s.Daily(ctx, "2024-03-01", 10)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(board) != 2 || board[0].Name != "d2" || board[1].Name != "d1" {
		t.Fatalf("daily board = %+v", board)
	}

	other, err := s.Daily(ctx, "2024-03-02", 10)
	if err != nil || len(other) != 0 {
		t.Fatalf("other day board = %+v, err=%v", other, err)
	}
}

func TestDailyBoardUsesStreamDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// played on the 29th's stream, stored after midnight
	late, err := s.Create(ctx, Record{Name: "owl", Score: 70, Mode: "daily", Day: "2024-02-29"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if late.Day != "2024-02-29" {
		t.Fatalf("day = %q", late.Day)
	}
	classic, _ := s.Create(ctx, Record{Name: "c", Score: 5, Day: "2024-02-29"})
	if classic.Day != "" {
		t.Fatalf("classic record kept day %q", classic.Day)
	}

	prev, err := s.Daily(ctx, "2024-02-29", 10)
	if err != nil || len(prev) != 1 || prev[0].ID != late.ID || prev[0].Day != "2024-02-29" {
		t.Fatalf("board for 29th = %+v, err=%v", prev, err)
	}
	today, err := s.Daily(ctx, "2024-03-01", 10)
	if err != nil || len(today) != 0 {
		t.Fatalf("board for 1st = %+v, err=%v", today, err)
	}
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"":                               "anonymous",
		"   ":                            "anonymous",
		" angler ":                       "angler",
		"abcdefghijklmnopqrstuvwxyz0123": "abcdefghijklmnopqrstuvwx",
		"ñandú":                          "ñandú",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
