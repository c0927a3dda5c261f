package display

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"linktree/internal/scheduler"
)

// Indicator labels shown next to the live dot.
const (
	LiveLabel    = "AO VIVO AGORA!"
	OfflineLabel = "OFFLINE - ASSISTINDO CORTES"
	liveColor    = "#00ff00"
	offlineColor = "#ff4444"
)

// Snapshot is what the page renders: the player source and the indicator.
type Snapshot struct {
	Streamer    string          `json:"streamer"`
	Live        bool            `json:"live"`
	StatusText  string          `json:"status_text"`
	StatusColor string          `json:"status_color"`
	Video       scheduler.Video `json:"video"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Board keeps the current presentation and pushes every change to its
// subscribers (one per open websocket).
type Board struct {
	streamer string

	mu      sync.RWMutex
	current Snapshot
	subs    map[string]chan Snapshot
}

func NewBoard(streamer string) *Board {
	b := &Board{streamer: streamer, subs: make(map[string]chan Snapshot)}
	b.current = snapshotOf(streamer, scheduler.Video{Overlay: true})
	return b
}

func snapshotOf(streamer string, v scheduler.Video) Snapshot {
	s := Snapshot{
		Streamer:    streamer,
		Live:        v.Live,
		StatusText:  OfflineLabel,
		StatusColor: offlineColor,
		Video:       v,
		UpdatedAt:   v.At,
	}
	if v.Live {
		s.StatusText = LiveLabel
		s.StatusColor = liveColor
	}
	return s
}

// Present implements scheduler.VideoSink. It never blocks on slow readers:
// a subscriber that has not consumed the previous update gets only the newest.
func (b *Board) Present(v scheduler.Video) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = snapshotOf(b.streamer, v)
	for _, ch := range b.subs {
		select {
		case ch <- b.current:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- b.current
		}
	}
}

func (b *Board) Current() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Subscribe returns a channel primed with the current snapshot and a cancel
// function that must be called when the reader goes away.
func (b *Board) Subscribe() (string, <-chan Snapshot, func()) {
	id := uuid.NewString()
	ch := make(chan Snapshot, 1)

	b.mu.Lock()
	ch <- b.current
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
	return id, ch, cancel
}

func (b *Board) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
