// internal/daily/daily.go
//
// Deterministic daily seeds. Every daily match started on the same UTC day
// draws the same item stream, so the daily leaderboard compares like with like.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed derives the RNG seed for the day containing t from HMAC(salt, YYYY-MM-DD).
func Seed(t time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}
