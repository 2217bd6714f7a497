package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/restobar/pricing-service/internal/models"
	"github.com/restobar/pricing-service/internal/pricing"
	"github.com/restobar/pricing-service/internal/repository"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPriceList = errors.New("invalid price list")
	ErrInvalidOverride  = errors.New("invalid price override")
)

// PriceListService orchestrates price-list and override mutations.
// Configuration errors are rejected here, at write time, so resolution
// never has to deal with malformed lists. Every successful mutation
// rebuilds the registry snapshot from repository state and swaps it in
// atomically, which also invalidates the resolution cache via the
// generation counter.
type PriceListService struct {
	repo     repository.PriceListRepository
	registry *pricing.Registry
	log      *slog.Logger
}

// NewPriceListService creates a new price list service
func NewPriceListService(repo repository.PriceListRepository, registry *pricing.Registry, log *slog.Logger) *PriceListService {
	return &PriceListService{
		repo:     repo,
		registry: registry,
		log:      log,
	}
}

// Bootstrap loads current repository state into the registry. Called once
// at startup before the server accepts traffic.
func (s *PriceListService) Bootstrap(ctx context.Context) error {
	return s.reload(ctx)
}

// ListPriceLists returns all configured price lists
func (s *PriceListService) ListPriceLists(ctx context.Context) ([]models.PriceList, error) {
	return s.repo.GetAll(ctx)
}

// GetPriceList returns one price list by id
func (s *PriceListService) GetPriceList(ctx context.Context, id int64) (*models.PriceList, error) {
	return s.repo.GetByID(ctx, id)
}

// CreatePriceList validates and stores a new price list, then swaps the
// registry snapshot.
func (s *PriceListService) CreatePriceList(ctx context.Context, list models.PriceList) (*models.PriceList, error) {
	if err := validatePriceList(list); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, list)
	if err != nil {
		return nil, err
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}

	s.log.Info("price list created", "price_list_id", created.ID, "code", created.Code)
	return created, nil
}

// UpdatePriceList validates and replaces an existing price list, then swaps
// the registry snapshot.
func (s *PriceListService) UpdatePriceList(ctx context.Context, list models.PriceList) (*models.PriceList, error) {
	if err := validatePriceList(list); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, list)
	if err != nil {
		return nil, err
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}

	s.log.Info("price list updated", "price_list_id", updated.ID, "code", updated.Code)
	return updated, nil
}

// DeletePriceList removes a price list and its overrides, then swaps the
// registry snapshot.
func (s *PriceListService) DeletePriceList(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.reload(ctx); err != nil {
		return err
	}

	s.log.Info("price list deleted", "price_list_id", id)
	return nil
}

// ListOverrides returns the overrides configured on one price list
func (s *PriceListService) ListOverrides(ctx context.Context, priceListID int64) ([]models.ProductPriceOverride, error) {
	return s.repo.ListOverrides(ctx, priceListID)
}

// UpsertOverride validates and stores the override for one (list, product)
// pair, then swaps the registry snapshot.
func (s *PriceListService) UpsertOverride(ctx context.Context, override models.ProductPriceOverride) (*models.ProductPriceOverride, error) {
	if err := validateOverride(override); err != nil {
		return nil, err
	}

	stored, err := s.repo.UpsertOverride(ctx, override)
	if err != nil {
		return nil, err
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}

	s.log.Info("price override stored",
		"price_list_id", stored.PriceListID,
		"product_id", stored.ProductID,
	)
	return stored, nil
}

// DeleteOverride removes the override for one (list, product) pair, then
// swaps the registry snapshot.
func (s *PriceListService) DeleteOverride(ctx context.Context, priceListID, productID int64) error {
	if err := s.repo.DeleteOverride(ctx, priceListID, productID); err != nil {
		return err
	}
	if err := s.reload(ctx); err != nil {
		return err
	}

	s.log.Info("price override deleted", "price_list_id", priceListID, "product_id", productID)
	return nil
}

// reload rebuilds the registry snapshot from full repository state. The
// swap is the single writer step of the copy-on-write discipline: readers
// see the old snapshot until the new one is complete.
func (s *PriceListService) reload(ctx context.Context) error {
	lists, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("reload price lists: %w", err)
	}
	overrides, err := s.repo.GetAllOverrides(ctx)
	if err != nil {
		return fmt.Errorf("reload overrides: %w", err)
	}
	s.registry.Swap(lists, overrides)
	return nil
}

func validatePriceList(list models.PriceList) error {
	if list.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidPriceList)
	}
	if list.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPriceList)
	}
	if (list.StartTime == nil) != (list.EndTime == nil) {
		return fmt.Errorf("%w: start_time and end_time must be set together", ErrInvalidPriceList)
	}
	if list.MinOrderAmount != nil && list.MinOrderAmount.IsNegative() {
		return fmt.Errorf("%w: min_order_amount must not be negative", ErrInvalidPriceList)
	}
	return nil
}

func validateOverride(override models.ProductPriceOverride) error {
	if override.ProductID <= 0 {
		return fmt.Errorf("%w: product_id is required", ErrInvalidOverride)
	}
	if override.Price == nil && override.AdjustmentValue == nil {
		return fmt.Errorf("%w: either price or adjustment_value is required", ErrInvalidOverride)
	}
	if override.Price != nil && override.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidOverride)
	}
	if override.AdjustmentValue != nil {
		if override.AdjustmentType == "" {
			return fmt.Errorf("%w: adjustment_type is required with adjustment_value", ErrInvalidOverride)
		}
		if !override.AdjustmentType.Valid() {
			return fmt.Errorf("%w: unknown adjustment_type %q", ErrInvalidOverride, override.AdjustmentType)
		}
		if override.AdjustmentValue.IsNegative() {
			return fmt.Errorf("%w: adjustment_value must not be negative", ErrInvalidOverride)
		}
		if override.AdjustmentType == models.AdjustmentPercentDiscount &&
			override.AdjustmentValue.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: percent_discount adjustment_value must be in [0,100]", ErrInvalidOverride)
		}
	}
	return nil
}
