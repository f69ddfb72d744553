// internal/daily/daily.go
//
// Deterministic daily board selection.
// Every player gets the same board on a given UTC date: the generator seed is
// HMAC(salt, YYYY-MM-DD), so the board cannot be predicted without the salt.

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

// Seed returns the generator seed for date. It is never zero, since a zero
// seed asks the generator for a time-based one.
func Seed(date time.Time, salt string) int64 {
	return SeedForKey(DateKey(date), salt)
}

// SeedForKey is Seed for an already formatted date key.
func SeedForKey(dateKey, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dateKey))
	sum := h.Sum(nil)
	// first 8 bytes, top bit cleared to keep the seed positive
	n := int64(binary.BigEndian.Uint64(sum[:8]) >> 1)
	if n == 0 {
		return 1
	}
	return n
}
