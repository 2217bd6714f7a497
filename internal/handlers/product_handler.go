package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/restobar/pricing-service/internal/repository"
)

// ProductHandler handles the read-only menu product surface
type ProductHandler struct {
	repo   repository.ProductRepository
	logger *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(repo repository.ProductRepository, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		repo:   repo,
		logger: logger,
	}
}

// ListProducts handles GET /api/product
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.GetAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/product/{productId}
// Returns 400 for a malformed id and 404 for an unknown product.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "productId")

	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid product ID format", "productId", raw, "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid ID supplied")
		return
	}

	product, err := h.repo.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			h.logger.Info("product not found", "productId", productID)
			h.writeError(w, http.StatusNotFound, "Product not found")
			return
		}

		h.logger.Error("failed to get product", "productId", productID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

// writeJSON writes a JSON response
func (h *ProductHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response
func (h *ProductHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}
