package display

import (
	"bytes"
	"encoding/json"
	"log"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"linktree/internal/scheduler"
	"linktree/internal/storage"
)

const (
	StatusKey          = "status.json"
	StatusCacheControl = "max-age=0, no-cache"
)

var publishes = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "linktree_status_uploads_total", Help: "status.json uploads"},
	[]string{"result"},
)

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(publishes)
}

// Publisher uploads status.json to storage so a static copy of the page
// (or a CDN edge) can follow the live status. Uploads run on one worker and
// only the newest pending snapshot is sent.
type Publisher struct {
	store    *storage.Client
	streamer string

	mu      sync.Mutex
	pending *Snapshot
	kick    chan struct{}
	done    chan struct{}
	closed  bool
}

func NewPublisher(store *storage.Client, streamer string) *Publisher {
	p := &Publisher{
		store:    store,
		streamer: streamer,
		kick:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *Publisher) Present(v scheduler.Video) {
	snap := snapshotOf(p.streamer, v)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.pending = &snap
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Publisher) loop() {
	defer close(p.done)
	for range p.kick {
		p.mu.Lock()
		snap := p.pending
		p.pending = nil
		p.mu.Unlock()

		if snap != nil {
			p.upload(*snap)
		}
	}
}

func (p *Publisher) upload(snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("❌ Encode status: %v", err)
		return
	}
	err = p.store.UploadStatusFile(StatusKey,
		bytes.NewReader(data),
		"application/json",
		StatusCacheControl)
	if err != nil {
		publishes.WithLabelValues("error").Inc()
		log.Printf("⚠️ status.json upload failed: %v", err)
		return
	}
	publishes.WithLabelValues("ok").Inc()
	log.Printf("📝 status.json updated (live=%v)", snap.Live)
}

// Close uploads whatever is still pending and stops the worker.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.kick)
	p.mu.Unlock()

	<-p.done
}
