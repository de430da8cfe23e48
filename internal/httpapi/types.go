package httpapi

import "invtrack/internal/domain"

// LoginRequest is the POST /api/login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the session token and its expiry.
type LoginResponse struct {
	Token     string      `json:"token"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	ExpiresAt string      `json:"expires_at"`
}

// RegisterUserRequest is the POST /api/users body.
type RegisterUserRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// CreateSalesOrderRequest is the POST /api/orders/sales body.
type CreateSalesOrderRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// CreatePurchaseOrderRequest is the POST /api/orders/purchases body.
type CreatePurchaseOrderRequest struct {
	ProductID  int64   `json:"product_id"`
	SupplierID int64   `json:"supplier_id"`
	Quantity   int64   `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// ProductsResponse wraps a product listing.
type ProductsResponse struct {
	Products []domain.Product `json:"products"`
}

// SuppliersResponse wraps a supplier listing.
type SuppliersResponse struct {
	Suppliers []domain.Supplier `json:"suppliers"`
}

// SalesOrdersResponse wraps a sales-ledger listing.
type SalesOrdersResponse struct {
	Orders []domain.SalesOrder `json:"orders"`
}

// PurchaseOrdersResponse wraps a purchase-ledger listing.
type PurchaseOrdersResponse struct {
	Orders []domain.PurchaseOrder `json:"orders"`
}

// AuditResponse wraps an audit-log listing.
type AuditResponse struct {
	Entries []domain.AuditEntry `json:"entries"`
}
