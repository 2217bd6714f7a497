package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/restobar/pricing-service/internal/models"
	"github.com/restobar/pricing-service/internal/repository"
	"github.com/restobar/pricing-service/internal/service"
	"github.com/shopspring/decimal"
)

// PriceListHandler handles the price-list admin surface
type PriceListHandler struct {
	service *service.PriceListService
	logger  *slog.Logger
}

// NewPriceListHandler creates a new price list handler
func NewPriceListHandler(service *service.PriceListService, logger *slog.Logger) *PriceListHandler {
	return &PriceListHandler{
		service: service,
		logger:  logger,
	}
}

// ListPriceLists handles GET /api/price-lists
func (h *PriceListHandler) ListPriceLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.service.ListPriceLists(r.Context())
	if err != nil {
		h.logger.Error("failed to list price lists", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// GetPriceList handles GET /api/price-lists/{priceListId}
func (h *PriceListHandler) GetPriceList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.priceListID(w, r)
	if !ok {
		return
	}

	list, err := h.service.GetPriceList(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "get price list")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// CreatePriceList handles POST /api/price-lists
func (h *PriceListHandler) CreatePriceList(w http.ResponseWriter, r *http.Request) {
	var list models.PriceList
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		h.logger.Warn("failed to decode price list", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.CreatePriceList(r.Context(), list)
	if err != nil {
		h.writeServiceError(w, err, "create price list")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdatePriceList handles PUT /api/price-lists/{priceListId}
func (h *PriceListHandler) UpdatePriceList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.priceListID(w, r)
	if !ok {
		return
	}

	var list models.PriceList
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		h.logger.Warn("failed to decode price list", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	list.ID = id

	updated, err := h.service.UpdatePriceList(r.Context(), list)
	if err != nil {
		h.writeServiceError(w, err, "update price list")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeletePriceList handles DELETE /api/price-lists/{priceListId}
func (h *PriceListHandler) DeletePriceList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.priceListID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePriceList(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "delete price list")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListOverrides handles GET /api/price-lists/{priceListId}/products
func (h *PriceListHandler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	id, ok := h.priceListID(w, r)
	if !ok {
		return
	}

	overrides, err := h.service.ListOverrides(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "list overrides")
		return
	}

	writeJSON(w, http.StatusOK, overrides)
}

// overrideRequest is the body of an override upsert.
type overrideRequest struct {
	Price           *decimal.Decimal      `json:"price,omitempty"`
	AdjustmentType  models.AdjustmentType `json:"adjustment_type,omitempty"`
	AdjustmentValue *decimal.Decimal      `json:"adjustment_value,omitempty"`
	IsActive        *bool                 `json:"is_active,omitempty"`
}

// UpsertOverride handles POST /api/price-lists/{priceListId}/products/{productId}
func (h *PriceListHandler) UpsertOverride(w http.ResponseWriter, r *http.Request) {
	listID, ok := h.priceListID(w, r)
	if !ok {
		return
	}
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode override", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	override := models.ProductPriceOverride{
		ProductID:       productID,
		PriceListID:     listID,
		Price:           req.Price,
		AdjustmentType:  req.AdjustmentType,
		AdjustmentValue: req.AdjustmentValue,
		IsActive:        true,
	}
	if req.IsActive != nil {
		override.IsActive = *req.IsActive
	}

	stored, err := h.service.UpsertOverride(r.Context(), override)
	if err != nil {
		h.writeServiceError(w, err, "upsert override")
		return
	}

	writeJSON(w, http.StatusOK, stored)
}

// DeleteOverride handles DELETE /api/price-lists/{priceListId}/products/{productId}
func (h *PriceListHandler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	listID, ok := h.priceListID(w, r)
	if !ok {
		return
	}
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteOverride(r.Context(), listID, productID); err != nil {
		h.writeServiceError(w, err, "delete override")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PriceListHandler) priceListID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "priceListId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid price list ID", "priceListId", raw)
		writeError(w, http.StatusBadRequest, "Invalid ID supplied")
		return 0, false
	}
	return id, true
}

func (h *PriceListHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "productId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid product ID", "productId", raw)
		writeError(w, http.StatusBadRequest, "Invalid ID supplied")
		return 0, false
	}
	return id, true
}

func (h *PriceListHandler) writeServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, repository.ErrPriceListNotFound):
		writeError(w, http.StatusNotFound, "Price list not found")
	case errors.Is(err, repository.ErrOverrideNotFound):
		writeError(w, http.StatusNotFound, "Price override not found")
	case errors.Is(err, repository.ErrDuplicateCode):
		writeError(w, http.StatusConflict, "Price list code already exists")
	case errors.Is(err, service.ErrInvalidPriceList), errors.Is(err, service.ErrInvalidOverride):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("failed to "+op, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
