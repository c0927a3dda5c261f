package provider

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Random simulates live detection with a weighted coin flip.
type Random struct {
	probability float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom(probability float64) *Random {
	return NewRandomWithSource(probability, rand.NewSource(time.Now().UnixNano()))
}

func NewRandomWithSource(probability float64, src rand.Source) *Random {
	return &Random{probability: probability, rng: rand.New(src)}
}

func (r *Random) Probe(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() < r.probability, nil
}
