package pricing

import (
	"sort"
	"sync/atomic"

	"github.com/restobar/pricing-service/internal/models"
)

// Snapshot is one immutable, point-in-time view of all configured price
// lists and active overrides. Readers resolve against a snapshot without
// locking; it is never mutated after construction.
type Snapshot struct {
	generation         uint64
	lists              map[int64]models.PriceList
	overridesByProduct map[int64][]models.ProductPriceOverride
}

// Generation identifies this snapshot. It increases with every swap and is
// embedded in resolution-cache keys, so a swap implicitly invalidates every
// cached result.
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// PriceList looks up a list by id.
func (s *Snapshot) PriceList(id int64) (models.PriceList, bool) {
	l, ok := s.lists[id]
	return l, ok
}

// OverridesFor returns the active overrides on a product ordered by price
// list id. The returned slice is shared and must not be modified.
func (s *Snapshot) OverridesFor(productID int64) []models.ProductPriceOverride {
	return s.overridesByProduct[productID]
}

// NumPriceLists returns the number of lists in the snapshot.
func (s *Snapshot) NumPriceLists() int {
	return len(s.lists)
}

// Registry holds the current snapshot behind a single atomic pointer.
// Admin mutations build a complete new snapshot and swap it in one step,
// so a resolution in flight sees either the old or the new registry state,
// never a partial update.
type Registry struct {
	current atomic.Pointer[Snapshot]
	gen     atomic.Uint64
}

// NewRegistry creates a registry holding an empty snapshot.
func NewRegistry() *Registry {
	r := &Registry{}
	r.current.Store(&Snapshot{
		lists:              map[int64]models.PriceList{},
		overridesByProduct: map[int64][]models.ProductPriceOverride{},
	})
	return r
}

// Snapshot returns the current snapshot. Lock-free.
func (r *Registry) Snapshot() *Snapshot {
	return r.current.Load()
}

// Swap builds a new snapshot from the given registry state and atomically
// replaces the current one. Inactive overrides are dropped at build time;
// inactive lists stay indexed and are rejected by eligibility instead, so a
// dangling override and a disabled list degrade the same way.
func (r *Registry) Swap(lists []models.PriceList, overrides []models.ProductPriceOverride) {
	snap := &Snapshot{
		generation:         r.gen.Add(1),
		lists:              make(map[int64]models.PriceList, len(lists)),
		overridesByProduct: make(map[int64][]models.ProductPriceOverride),
	}
	for _, l := range lists {
		snap.lists[l.ID] = l
	}
	for _, ov := range overrides {
		if !ov.IsActive {
			continue
		}
		snap.overridesByProduct[ov.ProductID] = append(snap.overridesByProduct[ov.ProductID], ov)
	}
	for _, ovs := range snap.overridesByProduct {
		sort.Slice(ovs, func(i, j int) bool {
			return ovs[i].PriceListID < ovs[j].PriceListID
		})
	}
	r.current.Store(snap)
}
