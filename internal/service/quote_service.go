package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/restobar/pricing-service/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrEmptyQuote      = errors.New("quote must contain at least one item")
)

// PriceResolver is the pricing core's library-level contract, satisfied by
// both pricing.Resolver and pricing.Cache.
type PriceResolver interface {
	Resolve(product *models.Product, ctx models.ResolutionContext) (models.ResolvedPrice, error)
}

// ProductRepository interface for product data access
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// QuoteService prices carts for the order/checkout flow. It is the wiring
// point between the REST surface and the resolution engine: one quote
// builds one ResolutionContext and resolves every line against it.
type QuoteService struct {
	productRepo       ProductRepository
	resolver          PriceResolver
	defaultLocationID int64
	now               func() time.Time
}

// NewQuoteService creates a new quote service. defaultLocationID applies to
// requests that do not name a location (single-venue deployments).
func NewQuoteService(productRepo ProductRepository, resolver PriceResolver, defaultLocationID int64) *QuoteService {
	return &QuoteService{
		productRepo:       productRepo,
		resolver:          resolver,
		defaultLocationID: defaultLocationID,
		now:               time.Now,
	}
}

// CreateQuote validates the cart and prices every line.
//
// The subtotal that min-order eligibility runs against is the base-price
// subtotal of the whole cart, computed before any line is resolved, so
// eligibility is identical for every line of one quote.
func (s *QuoteService) CreateQuote(ctx context.Context, req models.QuoteRequest) (*models.Quote, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyQuote
	}

	type cartLine struct {
		product  models.Product
		quantity int
	}
	lines := make([]cartLine, 0, len(req.Items))
	subtotal := decimal.Zero

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		productID, err := strconv.ParseInt(item.ProductID, 10, 64)
		if err != nil {
			return nil, ErrInvalidProduct
		}
		product, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, ErrInvalidProduct
		}

		lines = append(lines, cartLine{product: *product, quantity: item.Quantity})
		subtotal = subtotal.Add(product.BasePrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	quotedAt := s.now()
	if req.Timestamp != nil {
		quotedAt = *req.Timestamp
	}
	locationID := req.LocationID
	if locationID == 0 {
		locationID = s.defaultLocationID
	}

	rctx := models.NewResolutionContext(quotedAt, locationID, subtotal, req.MembershipOrder)

	quoteLines := make([]models.QuoteLine, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		product := line.product
		resolved, err := s.resolver.Resolve(&product, rctx)
		if err != nil {
			return nil, err
		}

		lineTotal := resolved.Price.Mul(decimal.NewFromInt(int64(line.quantity)))
		total = total.Add(lineTotal)
		quoteLines = append(quoteLines, models.QuoteLine{
			ProductID:     product.ID,
			Name:          product.Name,
			Quantity:      line.quantity,
			BaseUnitPrice: product.BasePrice,
			UnitPrice:     resolved.Price,
			LineTotal:     lineTotal,
			PriceListID:   resolved.PriceListID,
		})
	}

	return &models.Quote{
		ID:       uuid.New().String(),
		Lines:    quoteLines,
		Subtotal: subtotal,
		Total:    total,
		QuotedAt: quotedAt,
	}, nil
}
