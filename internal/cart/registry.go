package cart

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

var (
	ErrUnknownInstance = errors.New("cart: page instance not found")
	ErrNotAddable      = errors.New("cart: product was not offered on this page")
)

const (
	defaultShards   = 10
	evictionPercent = 10
)

// instance is the counter of one rendered page.
type instance struct {
	mu      sync.Mutex
	addable map[uuid.UUID]bool
	count   int
}

// Registry holds page-instance cart counters in memory. Nothing here is
// written to the DataStore and entries expire after the configured TTL.
type Registry struct {
	cache  *sturdyc.Client[*instance]
	logger interfaces.Logger
}

// NewRegistry sizes the registry. Non-positive values fall back to small defaults.
func NewRegistry(capacity int, ttl time.Duration, logger interfaces.Logger) *Registry {
	if capacity <= 0 {
		capacity = 1000
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	shards := min(defaultShards, capacity)
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Registry{
		cache:  sturdyc.New[*instance](capacity, shards, ttl, evictionPercent),
		logger: logger,
	}
}

// Open starts a page instance. addable records, per product, whether its
// add-to-cart control rendered enabled.
func (r *Registry) Open(addable map[uuid.UUID]bool) string {
	id := uuid.NewString()
	r.cache.Set(id, &instance{addable: copyAddable(addable)})
	return id
}

// Resume continues an existing instance with the products of a fresh render,
// keeping its count. Unknown or expired ids open a new instance.
func (r *Registry) Resume(id string, addable map[uuid.UUID]bool) (string, int) {
	if inst, ok := r.cache.Get(id); ok && id != "" {
		inst.mu.Lock()
		defer inst.mu.Unlock()
		inst.addable = copyAddable(addable)
		return id, inst.count
	}
	return r.Open(addable), 0
}

// Add increments the counter by exactly one when the product was rendered
// with an enabled control on that instance.
func (r *Registry) Add(id string, productID uuid.UUID) (int, error) {
	inst, ok := r.cache.Get(id)
	if !ok {
		return 0, ErrUnknownInstance
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if !inst.addable[productID] {
		r.logger.Debug("cart.add.rejected", "instance", id, "product_id", productID.String())
		return inst.count, ErrNotAddable
	}
	inst.count++
	return inst.count, nil
}

// Count returns the counter for id, or zero when the instance is unknown.
func (r *Registry) Count(id string) int {
	inst, ok := r.cache.Get(id)
	if !ok {
		return 0
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.count
}

func copyAddable(src map[uuid.UUID]bool) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(src))
	for id, ok := range src {
		if ok {
			out[id] = true
		}
	}
	return out
}
