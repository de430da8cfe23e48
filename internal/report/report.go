// Package report aggregates the committed order ledger into summaries.
// Every call re-scans current data; there is no caching, so results always
// reflect the latest committed orders.
package report

import (
	"context"

	"invtrack/internal/domain"
	"invtrack/internal/store"
)

// Reporter computes read-only reports over products and the order ledger.
type Reporter struct {
	orders   store.OrderStore
	products store.ProductStore
}

// New creates a Reporter.
func New(orders store.OrderStore, products store.ProductStore) *Reporter {
	return &Reporter{orders: orders, products: products}
}

// InventorySummary returns current catalog totals: product count, stock
// units, and inventory value with a per-category breakdown.
func (r *Reporter) InventorySummary(ctx context.Context) (*domain.InventorySummary, error) {
	return r.products.InventorySummary(ctx)
}

// SalesReport totals sales orders, optionally restricted to an inclusive
// date range. A nil range covers all time.
func (r *Reporter) SalesReport(ctx context.Context, rng *domain.DateRange) (*domain.SalesReport, error) {
	orders, err := r.orders.SalesOrders(ctx, rng)
	if err != nil {
		return nil, err
	}

	rep := &domain.SalesReport{Orders: orders}
	for _, o := range orders {
		rep.TotalOrders++
		rep.TotalUnits += o.Quantity
		rep.TotalRevenue += o.TotalPrice
	}
	return rep, nil
}

// PurchaseReport totals purchase orders, optionally restricted to an
// inclusive date range. A nil range covers all time.
func (r *Reporter) PurchaseReport(ctx context.Context, rng *domain.DateRange) (*domain.PurchaseReport, error) {
	orders, err := r.orders.PurchaseOrders(ctx, rng)
	if err != nil {
		return nil, err
	}

	rep := &domain.PurchaseReport{Orders: orders}
	for _, o := range orders {
		rep.TotalOrders++
		rep.TotalUnits += o.Quantity
		rep.TotalCost += o.TotalPrice
	}
	return rep, nil
}

// SalesOrders lists committed sales orders, newest first.
func (r *Reporter) SalesOrders(ctx context.Context, rng *domain.DateRange) ([]domain.SalesOrder, error) {
	return r.orders.SalesOrders(ctx, rng)
}

// PurchaseOrders lists committed purchase orders, newest first.
func (r *Reporter) PurchaseOrders(ctx context.Context, rng *domain.DateRange) ([]domain.PurchaseOrder, error) {
	return r.orders.PurchaseOrders(ctx, rng)
}
