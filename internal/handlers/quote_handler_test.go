package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/restobar/pricing-service/internal/models"
	"github.com/restobar/pricing-service/internal/pricing"
	"github.com/restobar/pricing-service/internal/repository"
	"github.com/restobar/pricing-service/internal/service"
	"github.com/restobar/pricing-service/pkg/logger"
	"github.com/shopspring/decimal"
)

func newQuoteRouter(t *testing.T) (chi.Router, *service.PriceListService) {
	t.Helper()
	log := logger.New("error")

	registry := pricing.NewRegistry()
	plRepo := repository.NewInMemoryPriceListRepository()
	plService := service.NewPriceListService(plRepo, registry, log)
	productRepo := repository.NewInMemoryProductRepository()
	quoteService := service.NewQuoteService(productRepo, pricing.NewResolver(registry), 0)

	r := chi.NewRouter()
	r.Post("/api/quote", NewQuoteHandler(quoteService, log).CreateQuote)
	return r, plService
}

func TestCreateQuote_Success(t *testing.T) {
	r, _ := newQuoteRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/quote",
		`{"items": [{"productId": "1", "quantity": 2}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var quote models.Quote
	if err := json.NewDecoder(w.Body).Decode(&quote); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if quote.ID == "" {
		t.Error("expected quote id")
	}
	if len(quote.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(quote.Lines))
	}
	if !quote.Total.Equal(decimal.RequireFromString("18.00")) {
		t.Errorf("total = %s, want 18.00", quote.Total)
	}
}

func TestCreateQuote_UsesPriceList(t *testing.T) {
	r, plService := newQuoteRouter(t)
	ctx := context.Background()

	created, err := plService.CreatePriceList(ctx, models.PriceList{
		Code: "ten-off", Name: "Ten Percent Off", Priority: 10, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create list failed: %v", err)
	}
	adjustment := decimal.RequireFromString("10")
	if _, err := plService.UpsertOverride(ctx, models.ProductPriceOverride{
		ProductID:       1,
		PriceListID:     created.ID,
		AdjustmentType:  models.AdjustmentPercentDiscount,
		AdjustmentValue: &adjustment,
		IsActive:        true,
	}); err != nil {
		t.Fatalf("upsert override failed: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/quote",
		`{"items": [{"productId": "1", "quantity": 1}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var quote models.Quote
	if err := json.NewDecoder(w.Body).Decode(&quote); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	line := quote.Lines[0]
	if !line.UnitPrice.Equal(decimal.RequireFromString("8.10")) {
		t.Errorf("unit price = %s, want 8.10", line.UnitPrice)
	}
	if line.PriceListID == nil || *line.PriceListID != created.ID {
		t.Errorf("price list = %v, want %d", line.PriceListID, created.ID)
	}
}

func TestCreateQuote_Errors(t *testing.T) {
	r, _ := newQuoteRouter(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "malformed json", body: `{`, want: http.StatusBadRequest},
		{name: "empty cart", body: `{"items": []}`, want: http.StatusBadRequest},
		{name: "zero quantity", body: `{"items": [{"productId": "1", "quantity": 0}]}`, want: http.StatusBadRequest},
		{name: "unknown product", body: `{"items": [{"productId": "999", "quantity": 1}]}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/quote", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}
