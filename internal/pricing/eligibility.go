package pricing

import (
	"github.com/restobar/pricing-service/internal/models"
)

// IsEligible reports whether a price list applies under the given context.
// Pure predicate: no side effects, safe to call concurrently. All checks
// must pass:
//
//  1. the list is active
//  2. location scope matches (unset means all locations)
//  3. the context's weekday is in the day set (empty means every day)
//  4. the context's wall-clock time falls in the window, bounds inclusive
//  5. the order subtotal reaches the minimum (unset means no minimum)
//  6. membership requirement is satisfied
func IsEligible(list models.PriceList, ctx models.ResolutionContext) bool {
	if !list.IsActive {
		return false
	}

	if list.LocationID != nil && *list.LocationID != ctx.LocationID {
		return false
	}

	if !list.DaysOfWeek.IsZero() && !list.DaysOfWeek.Has(ctx.DayOfWeek) {
		return false
	}

	if list.HasTimeWindow() && !inWindow(ctx.TimeOfDay, *list.StartTime, *list.EndTime) {
		return false
	}

	if list.MinOrderAmount != nil && ctx.OrderSubtotal.LessThan(*list.MinOrderAmount) {
		return false
	}

	if list.RequiresMembership && !ctx.IsMembershipOrder {
		return false
	}

	return true
}

// inWindow checks t against a daily window with inclusive bounds. A window
// whose end precedes its start crosses midnight: it covers [start, 24:00)
// plus [00:00, end].
func inWindow(t, start, end models.TimeOfDay) bool {
	if end < start {
		return t >= start || t <= end
	}
	return t >= start && t <= end
}
