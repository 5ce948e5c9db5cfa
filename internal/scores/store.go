// internal/scores/store.go
//
// Persistent high-score records.
// Responsibilities:
//   - Create records with a server-assigned ID and timestamps.
//   - Read the top-N by score, one record by ID, or a day's daily-mode board.
//   - Update and delete records by ID.
//
// The game core never calls this synchronously; matches submit a final score
// from a separate goroutine once their session has ended.

package scores

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrNotFound is returned for unknown record IDs.
var ErrNotFound = errors.New("score not found")

const (
	defaultLimit = 10
	maxLimit     = 100
	maxNameLen   = 24

	// fixed-width so lexical order matches time order
	timeLayout = "2006-01-02T15:04:05.000000Z"
)

// Record is one stored score.
type Record struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"matchId,omitempty"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	Reason    string    `json:"reason,omitempty"`
	Mode      string    `json:"mode"`
	Day       string    `json:"day,omitempty"` // daily mode: date of the seeded stream, YYYY-MM-DD
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch lists the fields Update may change; nil fields are left alone.
type Patch struct {
	Name  *string `json:"name,omitempty"`
	Score *int    `json:"score,omitempty"`
}

// Store is the score persistence service.
type Store interface {
	Create(ctx context.Context, r Record) (Record, error)
	Top(ctx context.Context, n int) ([]Record, error)
	Daily(ctx context.Context, date string, n int) ([]Record, error)
	Get(ctx context.Context, id string) (Record, error)
	Update(ctx context.Context, id string, p Patch) (Record, error)
	Delete(ctx context.Context, id string) error
}

// SQLStore implements Store on a migrated SQLite database.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts r, ignoring any ID or timestamps it carries.
func (s *SQLStore) Create(ctx context.Context, r Record) (Record, error) {
	now := s.now().Truncate(time.Microsecond)
	r.ID = genID()
	r.Name = NormalizeName(r.Name)
	if r.Mode == "" {
		r.Mode = "classic"
	}
	if r.Mode != "daily" {
		r.Day = ""
	} else if r.Day == "" {
		r.Day = now.Format("2006-01-02")
	}
	r.CreatedAt, r.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO scores (id, match_id, name, score, reason, mode, day, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.MatchID, r.Name, r.Score, r.Reason, r.Mode, r.Day, now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

// Top returns the n best scores; ties go to the earlier record.
func (s *SQLStore) Top(ctx context.Context, n int) ([]Record, error) {
	return s.query(ctx, `
        SELECT id, match_id, name, score, reason, mode, day, created_at, updated_at
        FROM scores
        ORDER BY score DESC, created_at ASC, rowid ASC
        LIMIT ?`, clampLimit(n))
}

// Daily returns the best daily-mode scores played on date's stream (YYYY-MM-DD, UTC).
func (s *SQLStore) Daily(ctx context.Context, date string, n int) ([]Record, error) {
	return s.query(ctx, `
        SELECT id, match_id, name, score, reason, mode, day, created_at, updated_at
        FROM scores
        WHERE mode='daily' AND day=?
        ORDER BY score DESC, created_at ASC, rowid ASC
        LIMIT ?`, date, clampLimit(n))
}

func (s *SQLStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, match_id, name, score, reason, mode, day, created_at, updated_at
        FROM scores WHERE id=?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

func (s *SQLStore) Update(ctx context.Context, id string, p Patch) (Record, error) {
	sets := []string{"updated_at=?"}
	args := []any{s.now().Format(timeLayout)}
	if p.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, NormalizeName(*p.Name))
	}
	if p.Score != nil {
		sets = append(sets, "score=?")
		args = append(args, *p.Score)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, `UPDATE scores SET `+strings.Join(sets, ", ")+` WHERE id=?`, args...)
	if err != nil {
		return Record{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Record{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scores WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var r Record
	var created, updated string
	if err := sc.Scan(&r.ID, &r.MatchID, &r.Name, &r.Score, &r.Reason, &r.Mode, &r.Day, &created, &updated); err != nil {
		return Record{}, err
	}
	r.CreatedAt = mustParse(created)
	r.UpdatedAt = mustParse(updated)
	return r, nil
}

// NormalizeName trims whitespace, caps the length and falls back to "anonymous".
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "anonymous"
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		name = string([]rune(name)[:maxNameLen])
	}
	return name
}

func clampLimit(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

// mustParse parses stored timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
}
