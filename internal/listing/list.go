package listing

import (
	"context"
	"sync"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// ListFetch performs one listing query.
type ListFetch[T any] func(ctx context.Context) ([]T, error)

// ListSnapshot is an immutable copy of a list controller's view state.
type ListSnapshot[T any] struct {
	State      State
	Items      []T
	Err        error
	Generation uint64
}

// Loading reports whether a fetch is in flight.
func (s ListSnapshot[T]) Loading() bool { return s.State == StateLoading }

// ListController drives the mount/load/unmount lifecycle of a listing page.
// Only the result of the most recent Load on a mounted controller is applied.
type ListController[T any] struct {
	mu         sync.Mutex
	operation  string
	logger     interfaces.Logger
	mounted    bool
	generation uint64
	state      State
	items      []T
	err        error
}

// NewListController returns an unmounted controller in the idle state.
func NewListController[T any](operation string, logger interfaces.Logger) *ListController[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &ListController[T]{
		operation: operation,
		logger:    logging.WithOperation(logger, operation, ""),
		state:     StateIdle,
	}
}

// Mount starts a fresh visit: previous items are dropped and the state returns to idle.
func (c *ListController[T]) Mount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = true
	c.generation++
	c.state = StateIdle
	c.items = nil
	c.err = nil
}

// Unmount invalidates any fetch still in flight.
func (c *ListController[T]) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = false
	c.generation++
}

// Load runs fetch and applies its result if it is still current when it
// returns. A result is dropped when a newer Load started, the controller was
// unmounted, or ctx is done. Failures keep the previous items.
func (c *ListController[T]) Load(ctx context.Context, fetch ListFetch[T]) ListSnapshot[T] {
	c.mu.Lock()
	if !c.mounted {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.generation++
	gen := c.generation
	c.state = StateLoading
	c.mu.Unlock()

	items, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	logger := c.logger.WithContext(ctx)
	if gen != c.generation || !c.mounted || ctx.Err() != nil {
		logger.Debug("listing.load.discarded", "generation", gen, "current", c.generation)
		return c.snapshotLocked()
	}

	switch {
	case err != nil:
		c.state = StateFailed
		c.err = err
		logger.Error("listing.load.failed", "state", StateFailed, "error", err)
	case len(items) == 0:
		c.state = StateEmpty
		c.items = nil
		c.err = nil
	default:
		c.state = StateSuccess
		c.items = append([]T(nil), items...)
		c.err = nil
	}
	return c.snapshotLocked()
}

// Snapshot returns the current view state.
func (c *ListController[T]) Snapshot() ListSnapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *ListController[T]) snapshotLocked() ListSnapshot[T] {
	return ListSnapshot[T]{
		State:      c.state,
		Items:      append([]T(nil), c.items...),
		Err:        c.err,
		Generation: c.generation,
	}
}
