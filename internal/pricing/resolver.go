package pricing

import (
	"errors"
	"sort"

	"github.com/restobar/pricing-service/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrNilProduct means the caller violated the resolver contract by
	// passing no product. It is a programming error, not a runtime
	// condition to retry.
	ErrNilProduct = errors.New("pricing: nil product")
)

var hundred = decimal.NewFromInt(100)

// Candidate pairs an eligible price list with its override for one product.
type Candidate struct {
	List     models.PriceList
	Override models.ProductPriceOverride
}

// Resolver computes final unit prices against the registry's current
// snapshot. It is stateless apart from the registry reference and safe for
// concurrent use.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a resolver bound to a registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Candidates returns the eligible (list, override) pairs for a product,
// sorted descending by priority with ties broken by ascending list id.
// Overrides whose price list is missing from the snapshot are skipped:
// a dangling reference degrades to the next candidate, never an error.
// An empty result is the normal fallback outcome, not a failure.
func Candidates(snap *Snapshot, productID int64, ctx models.ResolutionContext) []Candidate {
	overrides := snap.OverridesFor(productID)
	if len(overrides) == 0 {
		return nil
	}

	candidates := make([]Candidate, 0, len(overrides))
	for _, ov := range overrides {
		list, ok := snap.PriceList(ov.PriceListID)
		if !ok {
			continue
		}
		if !IsEligible(list, ctx) {
			continue
		}
		candidates = append(candidates, Candidate{List: list, Override: ov})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].List.Priority != candidates[j].List.Priority {
			return candidates[i].List.Priority > candidates[j].List.Priority
		}
		return candidates[i].List.ID < candidates[j].List.ID
	})

	return candidates
}

// Resolve computes the final unit price for a product under the given
// context. When no override is eligible the product's base price applies
// and the returned PriceListID is nil.
func (r *Resolver) Resolve(product *models.Product, ctx models.ResolutionContext) (models.ResolvedPrice, error) {
	if product == nil {
		return models.ResolvedPrice{}, ErrNilProduct
	}

	snap := r.registry.Snapshot()
	candidates := Candidates(snap, product.ID, ctx)
	if len(candidates) == 0 {
		return models.ResolvedPrice{Price: roundPrice(product.BasePrice)}, nil
	}

	winner := candidates[0]
	price := applyOverride(product.BasePrice, winner.Override)

	listID := winner.List.ID
	return models.ResolvedPrice{
		Price:       roundPrice(price),
		PriceListID: &listID,
	}, nil
}

// applyOverride derives the unit price from an override. An absolute price
// wins over an adjustment pair when both are present; a fixed adjustment
// with no absolute price treats the adjustment value as the price itself.
func applyOverride(basePrice decimal.Decimal, ov models.ProductPriceOverride) decimal.Decimal {
	if ov.Price != nil {
		return *ov.Price
	}

	value := decimal.Zero
	if ov.AdjustmentValue != nil {
		value = *ov.AdjustmentValue
	}

	switch ov.AdjustmentType {
	case models.AdjustmentPercentMarkup:
		return basePrice.Add(basePrice.Mul(value).Div(hundred))
	case models.AdjustmentPercentDiscount:
		price := basePrice.Sub(basePrice.Mul(value).Div(hundred))
		if price.IsNegative() {
			return decimal.Zero
		}
		return price
	default:
		// fixed
		return value
	}
}

// roundPrice rounds to the smallest currency unit, half up.
func roundPrice(p decimal.Decimal) decimal.Decimal {
	return p.Round(2)
}
