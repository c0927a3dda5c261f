package provider

import (
	"context"
	"sync/atomic"
)

// Manual reports whatever was last set through the admin API.
type Manual struct {
	live atomic.Bool
}

func (m *Manual) Set(live bool) { m.live.Store(live) }

func (m *Manual) Probe(ctx context.Context) (bool, error) {
	return m.live.Load(), nil
}
