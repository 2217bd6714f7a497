package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResolutionContext carries the ordering-time facts one resolution is
// evaluated against. It is constructed per pricing request and never
// persisted; the timestamp is assumed already location-correct.
type ResolutionContext struct {
	Timestamp         time.Time
	DayOfWeek         Weekday
	TimeOfDay         TimeOfDay
	LocationID        int64
	OrderSubtotal     decimal.Decimal
	IsMembershipOrder bool
}

// NewResolutionContext derives the weekday and wall-clock fields from the
// timestamp. Callers pass everything explicitly; the engine never reads
// ambient time or location state.
func NewResolutionContext(ts time.Time, locationID int64, subtotal decimal.Decimal, membership bool) ResolutionContext {
	return ResolutionContext{
		Timestamp:         ts,
		DayOfWeek:         WeekdayFromTime(ts.Weekday()),
		TimeOfDay:         TimeOfDayFromClock(ts),
		LocationID:        locationID,
		OrderSubtotal:     subtotal,
		IsMembershipOrder: membership,
	}
}

// ResolvedPrice is the outcome of one resolution: the final unit price and
// the winning price list, or a nil list id when the base price applied.
type ResolvedPrice struct {
	Price       decimal.Decimal `json:"price"`
	PriceListID *int64          `json:"price_list_id"`
}
