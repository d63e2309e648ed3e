// Package chance provides the injectable random source used wherever the
// companion rolls dice: template choice, mood fluctuation, pattern firing
// and tie-break selection.
package chance

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the subset of *rand.Rand the core depends on.
type Source interface {
	Float64() float64
	Intn(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a goroutine-safe source seeded with seed. A zero seed picks
// one from the wall clock.
func New(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Between returns a uniform float in [lo, hi).
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Roll reports whether a Bernoulli draw at probability p succeeds.
func Roll(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// Pick returns a uniformly chosen element of items, or the zero value
// when items is empty.
func Pick[T any](src Source, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[src.Intn(len(items))]
}
