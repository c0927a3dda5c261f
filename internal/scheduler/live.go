package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultCheckInterval  = 30 * time.Second
	DefaultRotateInterval = 2 * time.Minute
	DefaultProbeTimeout   = 5 * time.Second
)

type Options struct {
	Provider LiveProvider
	Sink     VideoSink
	Clock    Clock

	// LiveSource is the embed shown while live.
	LiveSource string
	// Fallbacks are the highlight clips rotated while offline.
	Fallbacks []string

	CheckInterval  time.Duration
	RotateInterval time.Duration
	ProbeTimeout   time.Duration
}

// Scheduler owns the live/offline flag and decides which video is shown.
// Every mutation happens under mu, so the two recurring tasks never run
// inside each other.
type Scheduler struct {
	provider LiveProvider
	sink     VideoSink
	clock    Clock

	liveSource     string
	fallbacks      []string
	checkInterval  time.Duration
	rotateInterval time.Duration
	probeTimeout   time.Duration

	mu      sync.Mutex
	isLive  bool
	index   int
	started bool
	stopped bool
	check   Stopper
	rotate  Stopper

	// issued numbers each live check; applied is the newest one whose
	// result made it into isLive. Older results landing late are dropped.
	issued  uint64
	applied uint64
}

func New(opts Options) *Scheduler {
	s := &Scheduler{
		provider:       opts.Provider,
		sink:           opts.Sink,
		clock:          opts.Clock,
		liveSource:     opts.LiveSource,
		fallbacks:      append([]string(nil), opts.Fallbacks...),
		checkInterval:  opts.CheckInterval,
		rotateInterval: opts.RotateInterval,
		probeTimeout:   opts.ProbeTimeout,
	}
	if s.clock == nil {
		s.clock = RealClock{}
	}
	if s.sink == nil {
		s.sink = SinkFunc(func(Video) {})
	}
	if s.checkInterval <= 0 {
		s.checkInterval = DefaultCheckInterval
	}
	if s.rotateInterval <= 0 {
		s.rotateInterval = DefaultRotateInterval
	}
	if s.probeTimeout <= 0 {
		s.probeTimeout = DefaultProbeTimeout
	}
	return s
}

// CheckLiveStatus asks the provider whether the streamer is live and applies
// the answer. Provider failures count as offline and are never returned.
// A result is discarded when a newer check or SetLiveState got there first.
func (s *Scheduler) CheckLiveStatus(ctx context.Context) bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return s.IsLive()
	}
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	result := "offline"
	live, err := s.probe(ctx)
	if err != nil {
		log.Printf("⚠️ Live check failed, assuming offline: %v", err)
		result, live = "error", false
	} else if live {
		result = "live"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		log.Printf("⏭️ Dropping stale live check #%d (newest applied #%d)", seq, s.applied)
		liveChecks.WithLabelValues("stale").Inc()
		return s.isLive
	}
	liveChecks.WithLabelValues(result).Inc()
	s.applied = seq
	s.setLiveState(live)
	return s.isLive
}

func (s *Scheduler) probe(ctx context.Context) (live bool, err error) {
	if s.provider == nil {
		return false, &ProviderError{Provider: "none", Err: fmt.Errorf("no provider configured")}
	}

	defer func() {
		if r := recover(); r != nil {
			live, err = false, &ProviderError{Provider: "panic", Err: fmt.Errorf("%v", r)}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	timer := prometheus.NewTimer(probeDuration)
	defer timer.ObserveDuration()

	return s.provider.Probe(ctx)
}

// SetLiveState switches between the live embed and the highlight rotation.
// Setting the current value again does nothing. Checks still in flight are
// superseded.
func (s *Scheduler) SetLiveState(live bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied = s.issued
	s.setLiveState(live)
}

// setLiveState requires mu.
func (s *Scheduler) setLiveState(live bool) {
	if s.stopped || live == s.isLive {
		return
	}
	s.isLive = live

	if live {
		log.Println("🔴 Streamer is LIVE")
		liveGauge.Set(1)
		transitions.WithLabelValues("live").Inc()
		s.sink.Present(Video{
			Source: s.liveSource,
			Live:   true,
			Index:  s.index,
			Cause:  CauseLive,
			At:     s.clock.Now(),
		})
		return
	}

	log.Println("⚫ Streamer is offline, back to highlights")
	liveGauge.Set(0)
	transitions.WithLabelValues("offline").Inc()
	s.advance()
	s.sink.Present(s.fallback(CauseOffline))
}

// RotateFallbackVideo moves to the next highlight clip and returns it.
// While live the cursor moves but the live embed stays on screen.
func (s *Scheduler) RotateFallbackVideo() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || len(s.fallbacks) == 0 {
		return ""
	}
	s.advance()
	rotations.Inc()
	if !s.isLive {
		s.sink.Present(s.fallback(CauseRotation))
	}
	return s.fallbacks[s.index]
}

// advance requires mu.
func (s *Scheduler) advance() {
	if n := len(s.fallbacks); n > 0 {
		s.index = (s.index + 1) % n
	}
}

// fallback requires mu.
func (s *Scheduler) fallback(cause Cause) Video {
	v := Video{Overlay: true, Index: s.index, Cause: cause, At: s.clock.Now()}
	if len(s.fallbacks) > 0 {
		v.Source = s.fallbacks[s.index]
	}
	return v
}

// Start shows the current clip, checks the live status right away and then
// schedules the recurring check and rotation. Calling it again is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.sink.Present(s.fallback(CauseInitial))
	s.mu.Unlock()

	s.CheckLiveStatus(ctx)

	check := s.clock.Every(s.checkInterval, func() { s.CheckLiveStatus(ctx) })
	rotate := s.clock.Every(s.rotateInterval, s.rotateTick)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		check.Stop()
		rotate.Stop()
		return
	}
	s.check, s.rotate = check, rotate
	log.Printf("⏱️ Live check every %s, clip rotation every %s", s.checkInterval, s.rotateInterval)
}

func (s *Scheduler) rotateTick() {
	if s.IsLive() {
		return
	}
	s.RotateFallbackVideo()
}

// Stop cancels both recurring tasks. Nothing changes state afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	if s.check != nil {
		s.check.Stop()
	}
	if s.rotate != nil {
		s.rotate.Stop()
	}
	s.check, s.rotate = nil, nil
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	s.Start(ctx)
	<-ctx.Done()
	s.Stop()
}

func (s *Scheduler) IsLive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLive
}

func (s *Scheduler) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{Live: s.isLive, Index: s.index}
	switch {
	case s.isLive:
		st.Source = s.liveSource
	case len(s.fallbacks) > 0:
		st.Source = s.fallbacks[s.index]
	}
	return st
}
