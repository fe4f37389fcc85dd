package usecase

import (
	"crypto/rand"
	"math/big"
)

// Picker returns an index in [0, n).
type Picker interface {
	Intn(n int) int
}

// SafeRand picks uniformly using crypto/rand, so it needs no seeding and is
// safe for concurrent use.
type SafeRand struct{}

func NewSafeRand() *SafeRand {
	return &SafeRand{}
}

func (s *SafeRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	value, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(value.Int64())
}
