package host

import (
	"sync"
	"testing"

	"github.com/justyntemme/picosine/pkg/clap"
)

func TestEventQueueDrain(t *testing.T) {
	q := NewEventQueue()
	q.Add(clap.NewParamValue(300, 1, 3))
	q.Add(clap.NewParamValue(10, 1, 1))
	q.Add(clap.NewParamValue(100, 1, 2))

	got := q.Drain(nil, 128)
	if len(got) != 2 {
		t.Fatalf("Expected 2 due events, got %d", len(got))
	}
	if got[0].Time != 10 || got[1].Time != 100 {
		t.Errorf("Events not sorted: %v", got)
	}
	if q.Len() != 1 {
		t.Fatalf("Expected 1 pending event, got %d", q.Len())
	}

	got = q.Drain(got[:0], 128)
	if len(got) != 0 {
		t.Errorf("Event at 172 should not be due yet, got %v", got)
	}

	got = q.Drain(got[:0], 128)
	if len(got) != 1 || got[0].Time != 44 || got[0].Value != 3 {
		t.Errorf("Expected shifted event at 44, got %v", got)
	}
	if q.Len() != 0 {
		t.Errorf("Queue should be empty, got %d", q.Len())
	}
}

func TestEventQueueSetParamAndClear(t *testing.T) {
	q := NewEventQueue()
	q.SetParam(0, 440)

	if q.Len() != 1 {
		t.Fatalf("Expected 1 event, got %d", q.Len())
	}
	q.Clear()
	if got := q.Drain(nil, 64); len(got) != 0 {
		t.Errorf("Cleared queue should drain nothing, got %v", got)
	}
}

func TestEventQueueConcurrentPosts(t *testing.T) {
	q := NewEventQueue()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.SetParam(clap.ID(g), float64(i))
			}
		}(g)
	}

	drained := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var buf clap.EventList
	for {
		select {
		case <-done:
			drained += len(q.Drain(buf[:0], 64))
			if drained != 800 {
				t.Errorf("Expected 800 events, got %d", drained)
			}
			return
		default:
			buf = q.Drain(buf[:0], 64)
			drained += len(buf)
		}
	}
}
