package display

import (
	"log"
	"sync"

	database "linktree/internal/db"
	"linktree/internal/models"
	"linktree/internal/scheduler"
)

// Recorder appends every presentation to the status history table.
// Inserts run on one worker in presentation order, so a slow database never
// holds up the scheduler.
type Recorder struct {
	db    *database.Client
	runID string

	mu     sync.Mutex
	queue  []models.StatusEvent
	kick   chan struct{}
	done   chan struct{}
	closed bool
}

func NewRecorder(db *database.Client, runID string) *Recorder {
	r := &Recorder{
		db:    db,
		runID: runID,
		kick:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Recorder) Present(v scheduler.Video) {
	ev := models.StatusEvent{
		RunID:     r.runID,
		Live:      v.Live,
		Cause:     string(v.Cause),
		Source:    v.Source,
		ClipIndex: v.Index,
		At:        v.At,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.queue = append(r.queue, ev)
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

func (r *Recorder) loop() {
	defer close(r.done)
	for range r.kick {
		r.flush()
	}
	r.flush()
}

func (r *Recorder) flush() {
	r.mu.Lock()
	batch := r.queue
	r.queue = nil
	r.mu.Unlock()

	for i := range batch {
		if err := r.db.RecordEvent(&batch[i]); err != nil {
			log.Printf("⚠️ Failed to record status event: %v", err)
		}
	}
}

// Close writes whatever is still queued and stops the worker.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.kick)
	r.mu.Unlock()

	<-r.done
}
