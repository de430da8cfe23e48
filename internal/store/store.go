// Package store defines storage interfaces for persisting and retrieving
// domain objects such as products, suppliers, order-ledger rows, audit
// records, and users, and enforces the cross-entity invariants of the stock
// ledger.
package store

import (
	"context"
	"errors"

	"invtrack/internal/domain"
)

// Sentinel errors surfaced by storage implementations.
var (
	// ErrProductNotFound means the referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrSupplierNotFound means the referenced supplier does not exist.
	ErrSupplierNotFound = errors.New("supplier not found")

	// ErrUserNotFound means no account exists for the given username.
	ErrUserNotFound = errors.New("user not found")

	// ErrInsufficientStock means a sales order asked for more units than the
	// product currently holds. Nothing is written when this is returned.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrSKUExists means a product with the same SKU already exists.
	ErrSKUExists = errors.New("sku already exists")

	// ErrUsernameExists means an account with the same username already exists.
	ErrUsernameExists = errors.New("username already exists")

	// ErrProductReferenced means the product cannot be deleted because
	// order-ledger rows reference it.
	ErrProductReferenced = errors.New("product is referenced by orders")
)

// ProductStore persists and retrieves product catalog rows.
type ProductStore interface {
	// AddProduct inserts a new product and fills in its assigned ID and
	// timestamps. Returns ErrSKUExists when the SKU is taken.
	AddProduct(ctx context.Context, p *domain.Product) error

	// Product retrieves a single product by its ID.
	Product(ctx context.Context, id int64) (*domain.Product, error)

	// ProductBySKU retrieves a single product by its SKU.
	ProductBySKU(ctx context.Context, sku string) (*domain.Product, error)

	// Products returns all products ordered by name.
	Products(ctx context.Context) ([]domain.Product, error)

	// SearchProducts returns products whose name, SKU, or category contains
	// the given term.
	SearchProducts(ctx context.Context, term string) ([]domain.Product, error)

	// UpdateProduct applies a partial edit and returns the updated row.
	// Stock is not an editable field; it moves only through orders.
	UpdateProduct(ctx context.Context, id int64, upd domain.ProductUpdate) (*domain.Product, error)

	// DeleteProduct removes a product. Returns ErrProductReferenced when any
	// order-ledger row references it (blocking-delete policy).
	DeleteProduct(ctx context.Context, id int64) error

	// LowStock returns products with stock at or below the threshold,
	// lowest stock first.
	LowStock(ctx context.Context, threshold int64) ([]domain.Product, error)

	// InventorySummary aggregates current catalog state.
	InventorySummary(ctx context.Context) (*domain.InventorySummary, error)
}

// SupplierStore persists and retrieves supplier rows.
type SupplierStore interface {
	// AddSupplier inserts a new supplier and fills in its assigned ID.
	AddSupplier(ctx context.Context, s *domain.Supplier) error

	// Supplier retrieves a single supplier by its ID.
	Supplier(ctx context.Context, id int64) (*domain.Supplier, error)

	// Suppliers returns all suppliers ordered by name.
	Suppliers(ctx context.Context) ([]domain.Supplier, error)

	// SearchSuppliers returns suppliers whose name, contact person, or email
	// contains the given term.
	SearchSuppliers(ctx context.Context, term string) ([]domain.Supplier, error)

	// UpdateSupplier applies a partial edit and returns the updated row.
	UpdateSupplier(ctx context.Context, id int64, upd domain.SupplierUpdate) (*domain.Supplier, error)
}

// OrderStore owns the append-only order ledger. Order creation commits the
// ledger row, the stock delta, and the audit record in one transaction;
// no partial state is ever visible to other readers.
type OrderStore interface {
	// CreateSalesOrder atomically inserts a sales order and decrements the
	// product's stock by the same quantity. The stock check and the decrement
	// are a single conditional update; ErrInsufficientStock is returned with
	// nothing written when stock is short.
	CreateSalesOrder(ctx context.Context, productID, quantity int64, actor string) (*domain.SalesOrder, error)

	// CreatePurchaseOrder atomically inserts a purchase order and increments
	// the product's stock by the same quantity.
	CreatePurchaseOrder(ctx context.Context, productID, supplierID, quantity int64, unitPrice float64, actor string) (*domain.PurchaseOrder, error)

	// SalesOrders returns committed sales orders, optionally restricted to an
	// inclusive date range, newest first.
	SalesOrders(ctx context.Context, r *domain.DateRange) ([]domain.SalesOrder, error)

	// PurchaseOrders returns committed purchase orders, optionally restricted
	// to an inclusive date range, newest first.
	PurchaseOrders(ctx context.Context, r *domain.DateRange) ([]domain.PurchaseOrder, error)
}

// AuditStore persists the append-only audit log.
type AuditStore interface {
	// AppendAudit appends one audit record.
	AppendAudit(ctx context.Context, e *domain.AuditEntry) error

	// RecentAudit returns the most recent audit records, up to limit.
	RecentAudit(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

// UserStore persists and retrieves user accounts.
type UserStore interface {
	// UserByUsername retrieves an account by username.
	UserByUsername(ctx context.Context, username string) (*domain.User, error)

	// AddUser inserts a new account. Returns ErrUsernameExists when taken.
	AddUser(ctx context.Context, u *domain.User) error

	// CountUsers returns the number of accounts.
	CountUsers(ctx context.Context) (int64, error)
}
