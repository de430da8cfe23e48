package domain

import (
	"testing"
	"time"
)

func TestTypesExist(t *testing.T) {
	// Verify Product can be instantiated with zero values.
	p := Product{}
	if p.ID != 0 || p.SKU != "" || p.Name != "" {
		t.Error("expected zero identity fields for zero-value Product")
	}
	if p.Price != 0 || p.Stock != 0 {
		t.Error("expected zero Price/Stock for zero-value Product")
	}
	if !p.CreatedAt.IsZero() || !p.UpdatedAt.IsZero() {
		t.Error("expected zero timestamps for zero-value Product")
	}

	// Verify SalesOrder can be instantiated with zero values.
	so := SalesOrder{}
	if so.ID != 0 || so.ProductID != 0 {
		t.Error("expected zero IDs for zero-value SalesOrder")
	}
	if so.Quantity != 0 || so.TotalPrice != 0 {
		t.Error("expected zero Quantity/TotalPrice for zero-value SalesOrder")
	}

	// Verify PurchaseOrder can be instantiated with zero values.
	po := PurchaseOrder{}
	if po.SupplierID != 0 || po.UnitPrice != 0 || po.TotalPrice != 0 {
		t.Error("expected zero supplier/price fields for zero-value PurchaseOrder")
	}

	// Verify Session can be instantiated with zero values.
	s := Session{}
	if s.Token != "" || s.Username != "" || s.Role != "" {
		t.Error("expected empty fields for zero-value Session")
	}
}

func TestDateRangeContains(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
	r := DateRange{From: from, To: to}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"inside", time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC), true},
		{"lower boundary", from, true},
		{"upper boundary", to, true},
		{"before", from.Add(-time.Second), false},
		{"after", to.Add(time.Second), false},
	}
	for _, tc := range cases {
		if got := r.Contains(tc.at); got != tc.want {
			t.Errorf("%s: Contains(%v) = %v, want %v", tc.name, tc.at, got, tc.want)
		}
	}
}
