package scheduler

import (
	"context"
	"fmt"
	"time"
)

// LiveProvider reports whether the streamer is currently broadcasting.
type LiveProvider interface {
	Probe(ctx context.Context) (bool, error)
}

// VideoSink renders whatever video the scheduler selects. Present is called
// with the scheduler lock held, so it must hand slow work (uploads, database
// writes) to its own goroutine.
type VideoSink interface {
	Present(v Video)
}

// Cause explains why a Video was presented.
type Cause string

const (
	CauseInitial  Cause = "initial"
	CauseLive     Cause = "live"
	CauseOffline  Cause = "offline"
	CauseRotation Cause = "rotation"
)

// Video is the selection handed to a VideoSink.
type Video struct {
	Source  string    `json:"source"`
	Live    bool      `json:"live"`
	Overlay bool      `json:"overlay"` // the "watch highlights" overlay over the player
	Index   int       `json:"index"`
	Cause   Cause     `json:"cause"`
	At      time.Time `json:"at"`
}

// State is a read-only copy of the scheduler state.
type State struct {
	Live   bool   `json:"live"`
	Index  int    `json:"index"`
	Source string `json:"source"`
}

// ProviderError is the only failure a LiveProvider reports.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s live check failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// SinkFunc adapts a plain function to VideoSink.
type SinkFunc func(v Video)

func (f SinkFunc) Present(v Video) { f(v) }

// ProviderFunc adapts a plain function to LiveProvider.
type ProviderFunc func(ctx context.Context) (bool, error)

func (f ProviderFunc) Probe(ctx context.Context) (bool, error) { return f(ctx) }
