// internal/daily/daily.go
//
// Deterministic "word of the day" selection.
// Everyone who starts a daily session on the same UTC date gets the same root
// word, without any shared state: the index is HMAC(salt, YYYY-MM-DD) mod n.

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

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Picker selects the day's root word. It satisfies game.Picker.
type Picker struct {
	Salt string
	Now  func() time.Time // defaults to time.Now
}

// Pick returns the index of today's word in a pool of n.
func (p Picker) Pick(n int) int {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return WordIndex(now(), p.Salt, n)
}

// Date returns the date key Pick would use right now.
func (p Picker) Date() string {
	if p.Now != nil {
		return DateKey(p.Now())
	}
	return DateKey(time.Now())
}
