package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/restobar/pricing-service/internal/models"
	"github.com/restobar/pricing-service/internal/service"
)

// QuoteHandler handles cart-pricing requests from the order flow
type QuoteHandler struct {
	quoteService *service.QuoteService
	log          *slog.Logger
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService *service.QuoteService, log *slog.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		log:          log,
	}
}

// CreateQuote handles POST /api/quote
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req models.QuoteRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode quote request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	quote, err := h.quoteService.CreateQuote(r.Context(), req)
	if err != nil {
		h.log.Error("failed to create quote", "error", err)

		switch err {
		case service.ErrEmptyQuote:
			WriteError(w, http.StatusBadRequest, "Quote must contain at least one item", h.log)
		case service.ErrInvalidQuantity:
			WriteError(w, http.StatusBadRequest, "Quantity must be positive", h.log)
		case service.ErrInvalidProduct:
			WriteError(w, http.StatusBadRequest, "Invalid product", h.log)
		default:
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, quote, h.log)
	h.log.Info("quote created", "quote_id", quote.ID, "lines", len(quote.Lines), "total", quote.Total)
}
