// Package engine is the sole entry point for stock-affecting mutations. It
// validates order requests and delegates the commit to the storage gateway,
// which writes the ledger row, the stock delta, and the audit record in one
// transaction.
package engine

import (
	"context"
	"errors"
	"log/slog"

	"invtrack/internal/domain"
	"invtrack/internal/store"
)

// Engine processes sales and purchase orders. It is role-agnostic: callers
// perform capability checks before invoking it, and the acting user arrives
// as an explicit actor value rather than ambient state.
type Engine struct {
	orders store.OrderStore
	log    *slog.Logger
}

// New creates an Engine over the given order store.
func New(orders store.OrderStore, log *slog.Logger) *Engine {
	return &Engine{orders: orders, log: log}
}

// CreateSalesOrder validates the request and commits a sales order together
// with its stock decrement. It fails with ErrInsufficientStock when the
// product holds fewer units than requested; in that case nothing is written
// and repeating the call yields the identical result.
func (e *Engine) CreateSalesOrder(ctx context.Context, actor string, productID, quantity int64) (*domain.SalesOrder, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	order, err := e.orders.CreateSalesOrder(ctx, productID, quantity, actor)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) || errors.Is(err, store.ErrInsufficientStock) {
			return nil, err
		}
		return nil, &StorageError{Op: "create sales order", Err: err}
	}

	e.log.Info("sales order committed",
		"order_id", order.ID,
		"product_id", order.ProductID,
		"quantity", order.Quantity,
		"total", order.TotalPrice,
		"actor", actor)
	return order, nil
}

// CreatePurchaseOrder validates the request and commits a purchase order
// together with its stock increment. There is no upper bound on stock, so it
// succeeds unless a reference is unknown or the commit fails.
func (e *Engine) CreatePurchaseOrder(ctx context.Context, actor string, productID, supplierID, quantity int64, unitPrice float64) (*domain.PurchaseOrder, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitPrice < 0 {
		return nil, ErrInvalidUnitPrice
	}

	order, err := e.orders.CreatePurchaseOrder(ctx, productID, supplierID, quantity, unitPrice, actor)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) || errors.Is(err, store.ErrSupplierNotFound) {
			return nil, err
		}
		return nil, &StorageError{Op: "create purchase order", Err: err}
	}

	e.log.Info("purchase order committed",
		"order_id", order.ID,
		"product_id", order.ProductID,
		"supplier_id", order.SupplierID,
		"quantity", order.Quantity,
		"total", order.TotalPrice,
		"actor", actor)
	return order, nil
}
