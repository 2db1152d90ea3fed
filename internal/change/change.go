// Package change remembers the last item count per category and reports when
// it moves.
package change

import (
	"sync"
	"time"
)

type Event struct {
	URL      string
	Previous int
	Current  int
	At       time.Time
}

type State struct {
	Total int
	Seen  time.Time
}

type Option func(*Detector)

func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		d.now = now
	}
}

type Detector struct {
	mu    sync.Mutex
	state map[string]State
	now   func() time.Time
}

func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		state: make(map[string]State),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Observe records total for url. The first observation of a url only sets the
// baseline. Later observations return an event when the total differs from the
// stored one.
func (d *Detector) Observe(url string, total int) (Event, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	prev, ok := d.state[url]
	d.state[url] = State{Total: total, Seen: now}
	if !ok || prev.Total == total {
		return Event{}, false
	}

	return Event{
		URL:      url,
		Previous: prev.Total,
		Current:  total,
		At:       now,
	}, true
}

func (d *Detector) Last(url string) (State, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.state[url]
	return s, ok
}
