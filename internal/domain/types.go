// Package domain defines the core entity types shared across the inventory
// tracker: products, suppliers, the order ledger, audit records, and users.
package domain

import "time"

// Role is the access level assigned to a user account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Audit action names. Every mutating operation records exactly one of these.
const (
	ActionCreateSalesOrder    = "CREATE_SALES_ORDER"
	ActionCreatePurchaseOrder = "CREATE_PURCHASE_ORDER"
	ActionAddProduct          = "ADD_PRODUCT"
	ActionUpdateProduct       = "UPDATE_PRODUCT"
	ActionDeleteProduct       = "DELETE_PRODUCT"
	ActionAddSupplier         = "ADD_SUPPLIER"
	ActionUpdateSupplier      = "UPDATE_SUPPLIER"
	ActionRegisterUser        = "REGISTER_USER"
	ActionExportLedger        = "EXPORT_LEDGER"
)

// Product is a catalog entry. Stock is only ever adjusted through the order
// engine; every other field may be edited directly in the catalog.
type Product struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int64     `json:"stock"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductUpdate carries a partial product edit. Nil fields are left
// unchanged. Stock is deliberately absent: stock moves only through orders.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// Supplier is a purchase-order counterparty. Suppliers carry no
// stock-affecting invariants.
type Supplier struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// SupplierUpdate carries a partial supplier edit. Nil fields are unchanged.
type SupplierUpdate struct {
	Name          *string `json:"name,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
}

// SalesOrder is one committed row of the outbound stock ledger. Rows are
// immutable once committed.
type SalesOrder struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	SKU         string    `json:"sku,omitempty"`
	Quantity    int64     `json:"quantity"`
	TotalPrice  float64   `json:"total_price"`
	OrderDate   time.Time `json:"order_date"`
}

// PurchaseOrder is one committed row of the inbound stock ledger. Rows are
// immutable once committed.
type PurchaseOrder struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	ProductName  string    `json:"product_name,omitempty"`
	SKU          string    `json:"sku,omitempty"`
	SupplierID   int64     `json:"supplier_id"`
	SupplierName string    `json:"supplier_name,omitempty"`
	Quantity     int64     `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	TotalPrice   float64   `json:"total_price"`
	OrderDate    time.Time `json:"order_date"`
}

// DateRange is an inclusive [From, To] filter on order timestamps.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls within the range, boundaries included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// AuditEntry is one append-only audit record.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
}

// User is a stored account. PasswordHash is a salted SHA-256 digest and is
// never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session identifies an authenticated caller. It is passed explicitly into
// operations instead of living in process-global state.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// InventorySummary aggregates current catalog state.
type InventorySummary struct {
	TotalProducts int64             `json:"total_products"`
	TotalUnits    int64             `json:"total_units"`
	TotalValue    float64           `json:"total_value"`
	ByCategory    []CategorySummary `json:"by_category"`
}

// CategorySummary is the per-category slice of an inventory summary.
type CategorySummary struct {
	Category string `json:"category"`
	Products int64  `json:"products"`
	Units    int64  `json:"units"`
}

// SalesReport summarizes sales-ledger rows, optionally date-filtered.
type SalesReport struct {
	TotalOrders  int64        `json:"total_orders"`
	TotalUnits   int64        `json:"total_units"`
	TotalRevenue float64      `json:"total_revenue"`
	Orders       []SalesOrder `json:"orders"`
}

// PurchaseReport summarizes purchase-ledger rows, optionally date-filtered.
type PurchaseReport struct {
	TotalOrders int64           `json:"total_orders"`
	TotalUnits  int64           `json:"total_units"`
	TotalCost   float64         `json:"total_cost"`
	Orders      []PurchaseOrder `json:"orders"`
}
