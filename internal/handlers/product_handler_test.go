package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/restobar/pricing-service/internal/models"
	"github.com/restobar/pricing-service/internal/repository"
	"github.com/restobar/pricing-service/pkg/logger"
	"github.com/shopspring/decimal"
)

func newProductRouter(t *testing.T) chi.Router {
	t.Helper()
	handler := NewProductHandler(repository.NewInMemoryProductRepository(), logger.New("error"))

	r := chi.NewRouter()
	r.Get("/api/product", handler.ListProducts)
	r.Get("/api/product/{productId}", handler.GetProduct)
	return r
}

func TestListProducts(t *testing.T) {
	r := newProductRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/product", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var products []models.Product
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(products) != 10 {
		t.Errorf("products = %d, want 10", len(products))
	}
}

func TestGetProduct(t *testing.T) {
	r := newProductRouter(t)

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/product/1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var product models.Product
		if err := json.NewDecoder(w.Body).Decode(&product); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if product.Name != "Classic Burger" {
			t.Errorf("name = %s, want Classic Burger", product.Name)
		}
		if !product.BasePrice.Equal(decimal.RequireFromString("9.00")) {
			t.Errorf("base price = %s, want 9.00", product.BasePrice)
		}
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/product/999", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/product/abc", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}
