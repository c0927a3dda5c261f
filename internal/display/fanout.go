package display

import "linktree/internal/scheduler"

// Fanout forwards every presentation to each sink in order.
type Fanout []scheduler.VideoSink

func (f Fanout) Present(v scheduler.Video) {
	for _, s := range f {
		s.Present(v)
	}
}
