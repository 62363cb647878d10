package listing

import (
	"context"
	"sync"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// DocumentFetch looks up a single item by key.
type DocumentFetch[T any] func(ctx context.Context, key string) (T, error)

// DocumentSnapshot is an immutable copy of a document controller's view state.
type DocumentSnapshot[T any] struct {
	State      State
	Key        string
	Item       T
	Err        error
	Generation uint64
}

// Found reports whether Item holds a resolved document.
func (s DocumentSnapshot[T]) Found() bool { return s.State == StateSuccess }

func (s DocumentSnapshot[T]) Loading() bool { return s.State == StateLoading }

// DocumentController drives a single-item page such as a content page by slug.
type DocumentController[T any] struct {
	mu         sync.Mutex
	operation  string
	logger     interfaces.Logger
	notFound   func(error) bool
	mounted    bool
	generation uint64
	state      State
	key        string
	item       T
	err        error
}

// DocumentOption customises a DocumentController.
type DocumentOption[T any] func(*DocumentController[T])

// WithNotFound classifies fetch errors that mean "no such document" rather than a store failure.
func WithNotFound[T any](classify func(error) bool) DocumentOption[T] {
	return func(c *DocumentController[T]) {
		if classify != nil {
			c.notFound = classify
		}
	}
}

func NewDocumentController[T any](operation string, logger interfaces.Logger, opts ...DocumentOption[T]) *DocumentController[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	c := &DocumentController[T]{
		operation: operation,
		logger:    logging.WithOperation(logger, operation, ""),
		notFound:  func(error) bool { return false },
		state:     StateIdle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *DocumentController[T]) Mount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.mounted = true
	c.generation++
	c.state = StateIdle
	c.key = ""
	c.item = zero
	c.err = nil
}

func (c *DocumentController[T]) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = false
	c.generation++
}

// Load resolves key. Stale results are discarded under the same rules as
// ListController.Load. Not-found and failed both clear the item.
func (c *DocumentController[T]) Load(ctx context.Context, key string, fetch DocumentFetch[T]) DocumentSnapshot[T] {
	var zero T

	c.mu.Lock()
	if !c.mounted {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.generation++
	gen := c.generation
	c.state = StateLoading
	c.key = key
	c.item = zero
	c.err = nil
	c.mu.Unlock()

	item, err := fetch(ctx, key)

	c.mu.Lock()
	defer c.mu.Unlock()

	logger := logging.WithFields(c.logger.WithContext(ctx), map[string]any{"key": key})
	if gen != c.generation || !c.mounted || ctx.Err() != nil {
		logger.Debug("listing.document.discarded", "generation", gen, "current", c.generation)
		return c.snapshotLocked()
	}

	switch {
	case err != nil && c.notFound(err):
		c.state = StateNotFound
		c.err = err
		logger.Info("listing.document.not_found", "state", StateNotFound)
	case err != nil:
		c.state = StateFailed
		c.err = err
		logger.Error("listing.document.failed", "state", StateFailed, "error", err)
	default:
		c.state = StateSuccess
		c.item = item
	}
	return c.snapshotLocked()
}

func (c *DocumentController[T]) Snapshot() DocumentSnapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *DocumentController[T]) snapshotLocked() DocumentSnapshot[T] {
	return DocumentSnapshot[T]{
		State:      c.state,
		Key:        c.key,
		Item:       c.item,
		Err:        c.err,
		Generation: c.generation,
	}
}
