package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/bankocr/internal/ocr/entity"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkglog"
)

// DefaultDedupWindow is how many recently reviewed entries a consumer
// remembers when ConsumerConfig.DedupWindow is not set.
const DefaultDedupWindow = 4096

type Handler interface {
	Handle(ctx context.Context, event entity.IllegibleEntryEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
	DedupWindow int
}

// ReviewConsumer drains the bus and hands every illegible entry to a
// reviewer, retrying failed hand-offs with exponential backoff. An entry
// already handed off, keyed by scan and entry index, is skipped while it is
// still inside the dedup window.
type ReviewConsumer struct {
	bus         *Bus
	handler     Handler
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	recent      *recentKeys
	wg          sync.WaitGroup
}

func NewReviewConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *ReviewConsumer {
	c := &ReviewConsumer{
		bus:         bus,
		handler:     handler,
		workers:     cfg.Workers,
		maxRetries:  max(cfg.MaxRetries, 0),
		baseBackoff: cfg.BaseBackoff,
	}
	if c.workers < 1 {
		c.workers = 4
	}
	if c.baseBackoff <= 0 {
		c.baseBackoff = 100 * time.Millisecond
	}
	if cfg.DedupWindow < 1 {
		cfg.DedupWindow = DefaultDedupWindow
	}
	c.recent = newRecentKeys(cfg.DedupWindow)

	return c
}

func (c *ReviewConsumer) Start() {
	for range c.workers {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			for ev := range c.bus.queue {
				c.review(ev)
			}
		}()
	}
}

// Stop closes the bus and waits until queued events are handed off or ctx
// expires.
func (c *ReviewConsumer) Stop(ctx context.Context) error {
	c.bus.Close()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "review consumer stopped with events pending", "pending", c.bus.Pending())
		return ctx.Err()
	}
}

func (c *ReviewConsumer) review(ev entity.IllegibleEntryEvent) {
	if c.handler == nil {
		return
	}

	ctx := pkglog.SetScanID(context.Background(), ev.ScanID)
	if !c.recent.add(ev.ReviewKey()) {
		slog.InfoContext(ctx, "entry already queued for review", "event_id", ev.EventID, "entry", ev.Entry.Index)
		return
	}

	backoff := c.baseBackoff
	for attempt := 1; ; attempt++ {
		err := c.handler.Handle(ctx, ev)
		if err == nil {
			return
		}

		if attempt > c.maxRetries {
			slog.ErrorContext(ctx, "gave up queueing entry for review",
				"event_id", ev.EventID,
				"entry", ev.Entry.Index,
				"line", ev.Entry.Line,
				"attempts", attempt,
				"error", err,
			)
			return
		}

		slog.WarnContext(ctx, "retrying review hand-off",
			"event_id", ev.EventID,
			"entry", ev.Entry.Index,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)
		time.Sleep(backoff)
		backoff *= 2
	}
}

// recentKeys is a fixed-size set that forgets its oldest key when full.
type recentKeys struct {
	mu   sync.Mutex
	set  map[string]struct{}
	ring []string
	next int
}

func newRecentKeys(size int) *recentKeys {
	return &recentKeys{
		set:  make(map[string]struct{}, size),
		ring: make([]string, size),
	}
}

// add reports whether key was not already present.
func (r *recentKeys) add(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.set[key]; ok {
		return false
	}

	if old := r.ring[r.next]; old != "" {
		delete(r.set, old)
	}
	r.ring[r.next] = key
	r.next = (r.next + 1) % len(r.ring)
	r.set[key] = struct{}{}

	return true
}

func (r *recentKeys) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.set)
}

// LogReviewer records illegible entries in the application log.
type LogReviewer struct{}

func (LogReviewer) Handle(ctx context.Context, event entity.IllegibleEntryEvent) error {
	if event.EventID == "" {
		return errors.New("missing event id")
	}

	slog.InfoContext(ctx, "entry queued for manual review",
		"event_id", event.EventID,
		"entry", event.Entry.Index,
		"line", event.Entry.Line,
		"token", event.Entry.Token,
		"illegible", event.Entry.Illegible,
	)
	return nil
}
