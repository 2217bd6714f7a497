package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteRequest is an incoming cart-pricing request from the order flow.
// Timestamp is optional; when absent the quote is priced at "now".
type QuoteRequest struct {
	LocationID      int64       `json:"locationId,omitempty"`
	MembershipOrder bool        `json:"membershipOrder,omitempty"`
	Timestamp       *time.Time  `json:"timestamp,omitempty"`
	Items           []QuoteItem `json:"items"`
}

// QuoteItem is a single cart line to be priced.
type QuoteItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// QuoteLine is one priced cart line.
type QuoteLine struct {
	ProductID     int64           `json:"productId"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	BaseUnitPrice decimal.Decimal `json:"baseUnitPrice"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
	PriceListID   *int64          `json:"priceListId"`
}

// Quote is a fully priced cart. Subtotal is the base-price subtotal the
// min-order eligibility checks ran against; Total sums the resolved lines.
type Quote struct {
	ID       string          `json:"id"`
	Lines    []QuoteLine     `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
	QuotedAt time.Time       `json:"quotedAt"`
}
