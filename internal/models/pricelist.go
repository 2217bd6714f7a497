package models

import (
	"github.com/shopspring/decimal"
)

// PriceList is a named, scoped pricing policy (e.g. "Happy Hour").
// Lists are immutable value types: edits flow through the registry's
// copy-on-write swap, never through in-place mutation.
type PriceList struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// StartTime/EndTime bound the list to a daily window. Both must be set
	// together. EndTime before StartTime means the window crosses midnight
	// (e.g. 22:00-02:00) and is valid configuration, not an error.
	StartTime *TimeOfDay `json:"start_time,omitempty"`
	EndTime   *TimeOfDay `json:"end_time,omitempty"`

	DaysOfWeek DaySet `json:"days_of_week,omitempty"`

	// Priority orders competing lists; higher wins. Ties break on lower ID.
	Priority int `json:"priority"`

	MinOrderAmount     *decimal.Decimal `json:"min_order_amount,omitempty"`
	RequiresMembership bool             `json:"requires_membership"`
	LocationID         *int64           `json:"location_id,omitempty"`
	IsActive           bool             `json:"is_active"`
}

// HasTimeWindow reports whether the list is restricted to a daily window.
func (l *PriceList) HasTimeWindow() bool {
	return l.StartTime != nil && l.EndTime != nil
}

// AdjustmentType selects how an override derives the final price from the
// product's base price.
type AdjustmentType string

const (
	AdjustmentFixed           AdjustmentType = "fixed"
	AdjustmentPercentMarkup   AdjustmentType = "percent_markup"
	AdjustmentPercentDiscount AdjustmentType = "percent_discount"
)

// Valid reports whether t is a known adjustment type.
func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentFixed, AdjustmentPercentMarkup, AdjustmentPercentDiscount:
		return true
	}
	return false
}

// ProductPriceOverride ties a per-product price or adjustment to one price
// list. At most one active override exists per (product, list) pair.
// When both Price and an adjustment are present, the absolute Price wins.
type ProductPriceOverride struct {
	ProductID       int64            `json:"product_id"`
	PriceListID     int64            `json:"price_list_id"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	AdjustmentType  AdjustmentType   `json:"adjustment_type,omitempty"`
	AdjustmentValue *decimal.Decimal `json:"adjustment_value,omitempty"`
	IsActive        bool             `json:"is_active"`
}
