package sim

import (
	mathrand "math/rand"
	"sync"
	"time"
)

// Source supplies every draw of entropy the engine makes. Passing it
// explicitly keeps the calculators deterministic under test and makes
// preview mode a first-class input instead of a hidden branch.
type Source interface {
	Float64() float64
}

type lockedSource struct {
	mu   sync.Mutex
	rand *mathrand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Float64()
}

// NewSource returns a seeded random source safe for use from the orchestrator
// and any caller sharing it.
func NewSource(seed int64) Source {
	return &lockedSource{rand: mathrand.New(mathrand.NewSource(seed))}
}

// NewTimeSource seeds from the wall clock, for live games.
func NewTimeSource() Source {
	return NewSource(time.Now().UnixNano())
}

// FixedSource always yields the same value. FixedSource(0.5) pins uniform
// perturbations to their midpoint and suppresses probability-gated events,
// which is what preview mode wants.
type FixedSource float64

func (f FixedSource) Float64() float64 { return float64(f) }
