package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/restobar/pricing-service/internal/models"
	"github.com/shopspring/decimal"
)

func burger(t *testing.T) *models.Product {
	t.Helper()
	return &models.Product{ID: 1, Name: "Classic Burger", BasePrice: dec(t, "9.00"), Category: "Burger"}
}

// scenarioRegistry builds the happy-hour scenario: List A (priority 10,
// all day, 10% discount) and List B (priority 20, Fri-Sat 18:00-23:00,
// fixed 7.50), both overriding the burger.
func scenarioRegistry(t *testing.T) *Registry {
	t.Helper()

	listA := activeList(1)
	listA.Code = "all-day"
	listA.Priority = 10

	listB := activeList(2)
	listB.Code = "happy-hour"
	listB.Priority = 20
	listB.DaysOfWeek = models.NewDaySet(models.Friday, models.Saturday)
	listB.StartTime = todPtr(t, "18:00")
	listB.EndTime = todPtr(t, "23:00")

	registry := NewRegistry()
	registry.Swap(
		[]models.PriceList{listA, listB},
		[]models.ProductPriceOverride{
			{ProductID: 1, PriceListID: 1, AdjustmentType: models.AdjustmentPercentDiscount, AdjustmentValue: decPtr(t, "10"), IsActive: true},
			{ProductID: 1, PriceListID: 2, Price: decPtr(t, "7.50"), IsActive: true},
		},
	)
	return registry
}

func TestResolve_FallbackToBasePrice(t *testing.T) {
	resolver := NewResolver(NewRegistry())

	resolved, err := resolver.Resolve(burger(t), contextAt(t, friday))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if !resolved.Price.Equal(dec(t, "9.00")) {
		t.Errorf("price = %s, want 9.00", resolved.Price)
	}
	if resolved.PriceListID != nil {
		t.Errorf("price_list_id = %d, want nil", *resolved.PriceListID)
	}
}

func TestResolve_NilProduct(t *testing.T) {
	resolver := NewResolver(NewRegistry())

	_, err := resolver.Resolve(nil, contextAt(t, friday))
	if !errors.Is(err, ErrNilProduct) {
		t.Errorf("err = %v, want ErrNilProduct", err)
	}
}

func TestResolve_HappyHourScenario(t *testing.T) {
	resolver := NewResolver(scenarioRegistry(t))

	tests := []struct {
		name       string
		ts         time.Time
		wantPrice  string
		wantListID int64
	}{
		{name: "friday during happy hour", ts: at(friday, "19:00", 0), wantPrice: "7.50", wantListID: 2},
		{name: "friday morning", ts: at(friday, "10:00", 0), wantPrice: "8.10", wantListID: 1},
		{name: "monday evening", ts: at(monday, "19:00", 0), wantPrice: "8.10", wantListID: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := resolver.Resolve(burger(t), contextAt(t, tt.ts))
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if !resolved.Price.Equal(dec(t, tt.wantPrice)) {
				t.Errorf("price = %s, want %s", resolved.Price, tt.wantPrice)
			}
			if resolved.PriceListID == nil || *resolved.PriceListID != tt.wantListID {
				t.Errorf("price_list_id = %v, want %d", resolved.PriceListID, tt.wantListID)
			}
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	resolver := NewResolver(scenarioRegistry(t))
	ctx := contextAt(t, at(friday, "19:00", 0))

	first, err := resolver.Resolve(burger(t), ctx)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := resolver.Resolve(burger(t), ctx)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if !again.Price.Equal(first.Price) || *again.PriceListID != *first.PriceListID {
			t.Fatalf("resolution not deterministic: %v vs %v", again, first)
		}
	}
}

func TestResolve_PriorityOrdering(t *testing.T) {
	low := activeList(1)
	low.Priority = 10
	high := activeList(2)
	high.Priority = 20

	registry := NewRegistry()
	// Insertion order deliberately puts the low-priority override first.
	registry.Swap(
		[]models.PriceList{low, high},
		[]models.ProductPriceOverride{
			{ProductID: 1, PriceListID: 1, Price: decPtr(t, "5.00"), IsActive: true},
			{ProductID: 1, PriceListID: 2, Price: decPtr(t, "6.00"), IsActive: true},
		},
	)

	resolved, err := NewResolver(registry).Resolve(burger(t), contextAt(t, friday))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.PriceListID == nil || *resolved.PriceListID != 2 {
		t.Errorf("winner = %v, want list 2 (higher priority)", resolved.PriceListID)
	}
	if !resolved.Price.Equal(dec(t, "6.00")) {
		t.Errorf("price = %s, want 6.00", resolved.Price)
	}
}

func TestResolve_TieBreakOnLowerListID(t *testing.T) {
	first := activeList(3)
	first.Priority = 10
	second := activeList(8)
	second.Priority = 10

	registry := NewRegistry()
	registry.Swap(
		[]models.PriceList{second, first},
		[]models.ProductPriceOverride{
			{ProductID: 1, PriceListID: 8, Price: decPtr(t, "5.00"), IsActive: true},
			{ProductID: 1, PriceListID: 3, Price: decPtr(t, "6.00"), IsActive: true},
		},
	)

	resolved, err := NewResolver(registry).Resolve(burger(t), contextAt(t, friday))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.PriceListID == nil || *resolved.PriceListID != 3 {
		t.Errorf("winner = %v, want list 3 (lower id on tie)", resolved.PriceListID)
	}
}

func TestResolve_AdjustmentMath(t *testing.T) {
	tests := []struct {
		name     string
		override models.ProductPriceOverride
		base     string
		want     string
	}{
		{
			name:     "percent discount",
			override: models.ProductPriceOverride{AdjustmentType: models.AdjustmentPercentDiscount, AdjustmentValue: decPtr(t, "15")},
			base:     "10.00",
			want:     "8.50",
		},
		{
			name:     "percent markup",
			override: models.ProductPriceOverride{AdjustmentType: models.AdjustmentPercentMarkup, AdjustmentValue: decPtr(t, "20")},
			base:     "10.00",
			want:     "12.00",
		},
		{
			name:     "fixed adjustment value used as price",
			override: models.ProductPriceOverride{AdjustmentType: models.AdjustmentFixed, AdjustmentValue: decPtr(t, "4.25")},
			base:     "10.00",
			want:     "4.25",
		},
		{
			name:     "absolute price wins over adjustment pair",
			override: models.ProductPriceOverride{Price: decPtr(t, "3.00"), AdjustmentType: models.AdjustmentPercentDiscount, AdjustmentValue: decPtr(t, "15")},
			base:     "10.00",
			want:     "3.00",
		},
		{
			name:     "rounding half up",
			override: models.ProductPriceOverride{AdjustmentType: models.AdjustmentPercentDiscount, AdjustmentValue: decPtr(t, "15")},
			base:     "10.03",
			want:     "8.53", // 8.5255 rounds up
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := activeList(1)
			ov := tt.override
			ov.ProductID = 1
			ov.PriceListID = 1
			ov.IsActive = true

			registry := NewRegistry()
			registry.Swap([]models.PriceList{list}, []models.ProductPriceOverride{ov})

			product := &models.Product{ID: 1, Name: "Test", BasePrice: dec(t, tt.base)}
			resolved, err := NewResolver(registry).Resolve(product, contextAt(t, friday))
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if !resolved.Price.Equal(dec(t, tt.want)) {
				t.Errorf("price = %s, want %s", resolved.Price, tt.want)
			}
		})
	}
}

func TestResolve_DiscountFlooredAtZero(t *testing.T) {
	list := activeList(1)
	registry := NewRegistry()
	registry.Swap(
		[]models.PriceList{list},
		[]models.ProductPriceOverride{
			{ProductID: 1, PriceListID: 1, AdjustmentType: models.AdjustmentPercentDiscount, AdjustmentValue: decPtr(t, "100"), IsActive: true},
		},
	)

	resolved, err := NewResolver(registry).Resolve(burger(t), contextAt(t, friday))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !resolved.Price.Equal(decimal.Zero) {
		t.Errorf("price = %s, want 0", resolved.Price)
	}
}

func TestResolve_DanglingListReferenceSkipped(t *testing.T) {
	list := activeList(1)
	list.Priority = 10

	registry := NewRegistry()
	registry.Swap(
		[]models.PriceList{list},
		[]models.ProductPriceOverride{
			// References list 99, which does not exist in the snapshot.
			{ProductID: 1, PriceListID: 99, Price: decPtr(t, "1.00"), IsActive: true},
			{ProductID: 1, PriceListID: 1, Price: decPtr(t, "6.00"), IsActive: true},
		},
	)

	resolved, err := NewResolver(registry).Resolve(burger(t), contextAt(t, friday))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.PriceListID == nil || *resolved.PriceListID != 1 {
		t.Errorf("winner = %v, want list 1 (dangling reference skipped)", resolved.PriceListID)
	}
}

func TestResolve_OnlyDanglingReferenceFallsBack(t *testing.T) {
	registry := NewRegistry()
	registry.Swap(
		nil,
		[]models.ProductPriceOverride{
			{ProductID: 1, PriceListID: 99, Price: decPtr(t, "1.00"), IsActive: true},
		},
	)

	resolved, err := NewResolver(registry).Resolve(burger(t), contextAt(t, friday))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.PriceListID != nil {
		t.Errorf("price_list_id = %v, want nil fallback", resolved.PriceListID)
	}
	if !resolved.Price.Equal(dec(t, "9.00")) {
		t.Errorf("price = %s, want base 9.00", resolved.Price)
	}
}

func TestCandidates_InactiveOverrideDropped(t *testing.T) {
	list := activeList(1)
	registry := NewRegistry()
	registry.Swap(
		[]models.PriceList{list},
		[]models.ProductPriceOverride{
			{ProductID: 1, PriceListID: 1, Price: decPtr(t, "5.00"), IsActive: false},
		},
	)

	candidates := Candidates(registry.Snapshot(), 1, contextAt(t, friday))
	if len(candidates) != 0 {
		t.Errorf("candidates = %d, want 0 for inactive override", len(candidates))
	}
}
