package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shandysiswandi/bankocr/internal/ocr/entity"
)

// ErrBusClosed is returned by Publish once the consumer has been stopped.
var ErrBusClosed = errors.New("review bus is closed")

// Bus is a buffered in-process queue of review events. Publish blocks while
// the buffer is full.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	queue  chan entity.IllegibleEntryEvent
}

func NewBus(buffer int) *Bus {
	return &Bus{
		queue: make(chan entity.IllegibleEntryEvent, max(buffer, 1)),
	}
}

func (b *Bus) Publish(ctx context.Context, ev entity.IllegibleEntryEvent) error {
	// The read lock keeps Close from closing the queue under a blocked send.
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.queue <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of events waiting for a worker.
func (b *Bus) Pending() int {
	return len(b.queue)
}

// Close stops accepting events. Workers still drain what is queued.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.queue)
	}
}
