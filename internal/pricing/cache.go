package pricing

import (
	"sync"
	"time"

	"github.com/restobar/pricing-service/internal/models"
)

// cacheKey is a coarse discretization of one resolution: registry
// generation, product, minute-rounded wall-clock time, weekday, location,
// membership flag and whole-unit subtotal. Time is deliberately coarse (a
// stale hit across a window boundary is tolerated within the TTL); the
// subtotal is not, since min-order eligibility differences are not
// time-bounded.
type cacheKey struct {
	generation    uint64
	productID     int64
	minuteOfDay   int
	day           models.Weekday
	locationID    int64
	membership    bool
	subtotalUnits int64
}

type cacheEntry struct {
	price     models.ResolvedPrice
	expiresAt time.Time
}

// Cache memoizes resolution results for a short TTL. Embedding the registry
// generation in the key makes every snapshot swap an implicit full
// invalidation with no cross-component locking.
type Cache struct {
	resolver *Resolver
	ttl      time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	entries  map[cacheKey]cacheEntry
	storedAt uint64
}

// pruneEvery bounds how often the store path sweeps expired and
// stale-generation entries.
const pruneEvery = 256

// NewCache wraps a resolver with a TTL memo. A non-positive ttl disables
// memoization and every call falls through to the resolver.
func NewCache(resolver *Resolver, ttl time.Duration) *Cache {
	return &Cache{
		resolver: resolver,
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[cacheKey]cacheEntry),
	}
}

// Resolve returns a cached result when a fresh entry exists for the
// discretized context, computing and storing one otherwise.
func (c *Cache) Resolve(product *models.Product, ctx models.ResolutionContext) (models.ResolvedPrice, error) {
	if product == nil {
		return models.ResolvedPrice{}, ErrNilProduct
	}
	if c.ttl <= 0 {
		return c.resolver.Resolve(product, ctx)
	}

	key := cacheKey{
		generation:    c.resolver.registry.Snapshot().Generation(),
		productID:     product.ID,
		minuteOfDay:   ctx.TimeOfDay.Minute(),
		day:           ctx.DayOfWeek,
		locationID:    ctx.LocationID,
		membership:    ctx.IsMembershipOrder,
		subtotalUnits: ctx.OrderSubtotal.IntPart(),
	}

	now := c.now()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && now.Before(entry.expiresAt) {
		return entry.price, nil
	}

	price, err := c.resolver.Resolve(product, ctx)
	if err != nil {
		return models.ResolvedPrice{}, err
	}

	c.mu.Lock()
	c.storedAt++
	if c.storedAt%pruneEvery == 0 {
		c.pruneLocked(now, key.generation)
	}
	c.entries[key] = cacheEntry{price: price, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()

	return price, nil
}

// Len returns the number of live entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// pruneLocked drops expired entries and entries from superseded snapshot
// generations, bounding cache cardinality. Caller holds the write lock.
func (c *Cache) pruneLocked(now time.Time, generation uint64) {
	for k, e := range c.entries {
		if k.generation != generation || !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
