package scheduler

import (
	"sync"
	"time"
)

// Clock defines an interface for getting the current time and running
// recurring tasks. This allows us to inject a fake time during unit tests.
type Clock interface {
	Now() time.Time
	Every(d time.Duration, fn func()) Stopper
}

// Stopper cancels a recurring task. Stop may be called more than once.
type Stopper interface {
	Stop()
}

// RealClock implements Clock using the actual server system time.
type RealClock struct{}

func (c RealClock) Now() time.Time {
	return time.Now()
}

// Every runs fn on its own goroutine every d until stopped.
func (c RealClock) Every(d time.Duration, fn func()) Stopper {
	t := &realTicker{ticker: time.NewTicker(d), done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				fn()
			}
		}
	}()
	return t
}

type realTicker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *realTicker) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

// FakeClock implements Clock for tests. Time only moves on Advance, which
// fires every due task synchronously in time order.
type FakeClock struct {
	mu    sync.Mutex
	now   time.Time
	tasks []*fakeTask
}

type fakeTask struct {
	next    time.Time
	period  time.Duration
	fn      func()
	stopped bool
	clock   *FakeClock
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (f *FakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *FakeClock) Every(d time.Duration, fn func()) Stopper {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTask{next: f.now.Add(d), period: d, fn: fn, clock: f}
	f.tasks = append(f.tasks, t)
	return t
}

// Advance moves the clock forward by d.
// Tasks due at the same instant fire in registration order.
func (f *FakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		var due *fakeTask
		for _, t := range f.tasks {
			if t.stopped || t.next.After(target) {
				continue
			}
			if due == nil || t.next.Before(due.next) {
				due = t
			}
		}
		if due == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = due.next
		due.next = due.next.Add(due.period)
		fn := due.fn
		f.mu.Unlock()

		fn()
	}
}

// Active reports how many tasks have not been stopped.
func (f *FakeClock) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (t *fakeTask) Stop() {
	t.clock.mu.Lock()
	t.stopped = true
	t.clock.mu.Unlock()
}
