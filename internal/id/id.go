package id

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// UUID generates a UUID v4 (random).
func UUID() string {
	return uuid.NewString()
}

// Short generates a short random hex ID (16 characters).
func Short() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Digits generates a random decimal id of exactly n digits with no leading
// zero. n <= 0 returns an empty string.
func Digits(n int) string {
	if n <= 0 {
		return ""
	}
	lo := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n-1)), nil)
	span := new(big.Int).Sub(new(big.Int).Mul(lo, big.NewInt(10)), lo)
	v, err := rand.Int(rand.Reader, span)
	if err != nil {
		return lo.String()
	}
	return v.Add(v, lo).String()
}

// Sequence hands out increasing decimal ids starting at 1.
// The zero value is ready to use and safe for concurrent use.
type Sequence struct {
	n atomic.Int64
}

// Next returns the next id.
func (s *Sequence) Next() string {
	return strconv.FormatInt(s.n.Add(1), 10)
}

// Reset restarts the sequence so the next id is "1".
func (s *Sequence) Reset() {
	s.n.Store(0)
}

// Observe advances the sequence past id when id is numeric, so ids supplied
// by callers are never handed out again.
func (s *Sequence) Observe(id string) {
	v, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	for {
		cur := s.n.Load()
		if v <= cur || s.n.CompareAndSwap(cur, v) {
			return
		}
	}
}
