package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/restobar/pricing-service/internal/models"
)

var (
	ErrPriceListNotFound = errors.New("price list not found")
	ErrOverrideNotFound  = errors.New("price override not found")
	ErrDuplicateCode     = errors.New("price list code already exists")
)

// PriceListRepository defines data access for price lists and their
// per-product overrides. Services rebuild the in-memory registry snapshot
// from GetAll/GetAllOverrides after every mutation.
type PriceListRepository interface {
	GetAll(ctx context.Context) ([]models.PriceList, error)
	GetByID(ctx context.Context, id int64) (*models.PriceList, error)
	Create(ctx context.Context, list models.PriceList) (*models.PriceList, error)
	Update(ctx context.Context, list models.PriceList) (*models.PriceList, error)
	Delete(ctx context.Context, id int64) error

	GetAllOverrides(ctx context.Context) ([]models.ProductPriceOverride, error)
	ListOverrides(ctx context.Context, priceListID int64) ([]models.ProductPriceOverride, error)
	UpsertOverride(ctx context.Context, override models.ProductPriceOverride) (*models.ProductPriceOverride, error)
	DeleteOverride(ctx context.Context, priceListID, productID int64) error
}

type overrideKey struct {
	priceListID int64
	productID   int64
}

// InMemoryPriceListRepository implements PriceListRepository with in-memory
// storage. The default backend when no database is configured, and the
// backend handler and service tests run against.
type InMemoryPriceListRepository struct {
	mu        sync.RWMutex
	nextID    int64
	lists     map[int64]models.PriceList
	overrides map[overrideKey]models.ProductPriceOverride
}

// NewInMemoryPriceListRepository creates an empty in-memory repository
func NewInMemoryPriceListRepository() *InMemoryPriceListRepository {
	return &InMemoryPriceListRepository{
		nextID:    1,
		lists:     make(map[int64]models.PriceList),
		overrides: make(map[overrideKey]models.ProductPriceOverride),
	}
}

// GetAll returns all price lists ordered by id
func (r *InMemoryPriceListRepository) GetAll(ctx context.Context) ([]models.PriceList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lists := make([]models.PriceList, 0, len(r.lists))
	for _, l := range r.lists {
		lists = append(lists, l)
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].ID < lists[j].ID })
	return lists, nil
}

// GetByID returns a price list by its ID
func (r *InMemoryPriceListRepository) GetByID(ctx context.Context, id int64) (*models.PriceList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list, exists := r.lists[id]
	if !exists {
		return nil, ErrPriceListNotFound
	}
	return &list, nil
}

// Create stores a new price list, assigning its id
func (r *InMemoryPriceListRepository) Create(ctx context.Context, list models.PriceList) (*models.PriceList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.lists {
		if existing.Code == list.Code {
			return nil, ErrDuplicateCode
		}
	}

	list.ID = r.nextID
	r.nextID++
	r.lists[list.ID] = list
	return &list, nil
}

// Update replaces an existing price list
func (r *InMemoryPriceListRepository) Update(ctx context.Context, list models.PriceList) (*models.PriceList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lists[list.ID]; !exists {
		return nil, ErrPriceListNotFound
	}
	for _, existing := range r.lists {
		if existing.ID != list.ID && existing.Code == list.Code {
			return nil, ErrDuplicateCode
		}
	}

	r.lists[list.ID] = list
	return &list, nil
}

// Delete removes a price list and its overrides
func (r *InMemoryPriceListRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lists[id]; !exists {
		return ErrPriceListNotFound
	}
	delete(r.lists, id)
	for key := range r.overrides {
		if key.priceListID == id {
			delete(r.overrides, key)
		}
	}
	return nil
}

// GetAllOverrides returns every stored override
func (r *InMemoryPriceListRepository) GetAllOverrides(ctx context.Context) ([]models.ProductPriceOverride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	overrides := make([]models.ProductPriceOverride, 0, len(r.overrides))
	for _, ov := range r.overrides {
		overrides = append(overrides, ov)
	}
	sortOverrides(overrides)
	return overrides, nil
}

// ListOverrides returns the overrides belonging to one price list
func (r *InMemoryPriceListRepository) ListOverrides(ctx context.Context, priceListID int64) ([]models.ProductPriceOverride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.lists[priceListID]; !exists {
		return nil, ErrPriceListNotFound
	}

	overrides := make([]models.ProductPriceOverride, 0)
	for key, ov := range r.overrides {
		if key.priceListID == priceListID {
			overrides = append(overrides, ov)
		}
	}
	sortOverrides(overrides)
	return overrides, nil
}

// UpsertOverride creates or replaces the override for one (list, product)
// pair. Each pair holds at most one override.
func (r *InMemoryPriceListRepository) UpsertOverride(ctx context.Context, override models.ProductPriceOverride) (*models.ProductPriceOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lists[override.PriceListID]; !exists {
		return nil, ErrPriceListNotFound
	}

	key := overrideKey{priceListID: override.PriceListID, productID: override.ProductID}
	r.overrides[key] = override
	return &override, nil
}

// DeleteOverride removes the override for one (list, product) pair
func (r *InMemoryPriceListRepository) DeleteOverride(ctx context.Context, priceListID, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := overrideKey{priceListID: priceListID, productID: productID}
	if _, exists := r.overrides[key]; !exists {
		return ErrOverrideNotFound
	}
	delete(r.overrides, key)
	return nil
}

func sortOverrides(overrides []models.ProductPriceOverride) {
	sort.Slice(overrides, func(i, j int) bool {
		if overrides[i].PriceListID != overrides[j].PriceListID {
			return overrides[i].PriceListID < overrides[j].PriceListID
		}
		return overrides[i].ProductID < overrides[j].ProductID
	})
}
