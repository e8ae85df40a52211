package host

import (
	"sync"

	"github.com/justyntemme/picosine/pkg/clap"
)

// EventQueue collects events posted from control goroutines until the audio
// side drains them into the next block. Event times are offsets from the start
// of the next block.
type EventQueue struct {
	mu     sync.Mutex
	events clap.EventList
	sorted bool
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{
		events: make(clap.EventList, 0, 128),
		sorted: true,
	}
}

// Add posts an event.
func (q *EventQueue) Add(ev clap.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.events)
	q.events = append(q.events, ev)
	if n > 0 && q.events[n-1].Time > ev.Time {
		q.sorted = false
	}
}

// SetParam posts a param value event at the start of the next block.
func (q *EventQueue) SetParam(id clap.ID, value float64) {
	q.Add(clap.NewParamValue(0, id, value))
}

// Drain appends the events due in a block of frames to dst, sorted by time, and
// keeps later events for following blocks with their times shifted.
func (q *EventQueue) Drain(dst clap.EventList, frames uint32) clap.EventList {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return dst
	}
	if !q.sorted {
		q.events.Sort()
		q.sorted = true
	}

	due := 0
	for due < len(q.events) && q.events[due].Time < frames {
		due++
	}
	dst = append(dst, q.events[:due]...)

	rest := copy(q.events, q.events[due:])
	q.events = q.events[:rest]
	for i := range q.events {
		q.events[i].Time -= frames
	}
	return dst
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Clear drops all pending events.
func (q *EventQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = q.events[:0]
	q.sorted = true
}
