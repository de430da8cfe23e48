package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"invtrack/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface checks.
var _ ProductStore = (*SQLiteStore)(nil)
var _ SupplierStore = (*SQLiteStore)(nil)
var _ OrderStore = (*SQLiteStore)(nil)
var _ AuditStore = (*SQLiteStore)(nil)
var _ UserStore = (*SQLiteStore)(nil)

// timeFormat is the fixed-width UTC layout used for every stored timestamp.
// Lexicographic order equals chronological order, so BETWEEN-style range
// filters work directly on the TEXT column.
const timeFormat = "2006-01-02T15:04:05.000Z"

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	sku         TEXT UNIQUE NOT NULL,
	name        TEXT NOT NULL,
	price       REAL NOT NULL CHECK (price >= 0),
	category    TEXT NOT NULL DEFAULT '',
	stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
	description TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS suppliers (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	name           TEXT NOT NULL,
	contact_person TEXT NOT NULL DEFAULT '',
	email          TEXT NOT NULL DEFAULT '',
	phone          TEXT NOT NULL DEFAULT '',
	address        TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sales_orders (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id  INTEGER NOT NULL REFERENCES products (id),
	quantity    INTEGER NOT NULL CHECK (quantity > 0),
	total_price REAL NOT NULL,
	order_date  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS purchase_orders (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id  INTEGER NOT NULL REFERENCES products (id),
	supplier_id INTEGER NOT NULL REFERENCES suppliers (id),
	quantity    INTEGER NOT NULL CHECK (quantity > 0),
	unit_price  REAL NOT NULL,
	total_price REAL NOT NULL,
	order_date  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	actor     TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	action    TEXT NOT NULL,
	details   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'user',
	created_at    TEXT NOT NULL
);
`

// SQLiteStore implements ProductStore, SupplierStore, OrderStore, AuditStore,
// and UserStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// now is the clock used for stored timestamps; overridable in tests.
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies
// pragmas, creates tables, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A single connection serializes all transactions, so the conditional
	// stock decrement can never interleave with a concurrent order on the
	// same product. SQLite permits one writer at a time regardless.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(timeFormat, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ---------------------------------------------------------------------------
// ProductStore implementation
// ---------------------------------------------------------------------------

// AddProduct inserts a new product row and fills in its assigned ID and
// timestamps.
func (s *SQLiteStore) AddProduct(ctx context.Context, p *domain.Product) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE sku = ?`, p.SKU).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return ErrSKUExists
	}

	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (sku, name, price, category, stock, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SKU, p.Name, p.Price, p.Category, p.Stock, p.Description, fmtTime(now), fmtTime(now))
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

const productColumns = `id, sku, name, price, category, stock, description, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	var created, updated string
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.Category, &p.Stock,
		&p.Description, &created, &updated)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return &p, nil
}

// Product retrieves a single product by its ID.
func (s *SQLiteStore) Product(ctx context.Context, id int64) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// ProductBySKU retrieves a single product by its SKU.
func (s *SQLiteStore) ProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE sku = ?`, sku)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// Products returns all products ordered by name.
func (s *SQLiteStore) Products(ctx context.Context) ([]domain.Product, error) {
	return s.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name`)
}

// SearchProducts returns products whose name, SKU, or category matches the
// given term.
func (s *SQLiteStore) SearchProducts(ctx context.Context, term string) ([]domain.Product, error) {
	pattern := "%" + term + "%"
	return s.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE name LIKE ? OR sku LIKE ? OR category LIKE ?
		ORDER BY name`,
		pattern, pattern, pattern)
}

// LowStock returns products with stock at or below the threshold.
func (s *SQLiteStore) LowStock(ctx context.Context, threshold int64) ([]domain.Product, error) {
	return s.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE stock <= ? ORDER BY stock ASC`,
		threshold)
}

func (s *SQLiteStore) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// UpdateProduct applies a partial edit to the allowed fields and returns the
// updated row. Stock is deliberately not editable here.
func (s *SQLiteStore) UpdateProduct(ctx context.Context, id int64, upd domain.ProductUpdate) (*domain.Product, error) {
	var sets []string
	var args []any

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *upd.Price)
	}
	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *upd.Category)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if len(sets) == 0 {
		return s.Product(ctx, id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, fmtTime(s.now()), id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrProductNotFound
	}
	return s.Product(ctx, id)
}

// DeleteProduct removes a product unless order-ledger rows reference it.
func (s *SQLiteStore) DeleteProduct(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var refs int
	err = tx.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM sales_orders WHERE product_id = ?)
		     + (SELECT COUNT(*) FROM purchase_orders WHERE product_id = ?)`,
		id, id).Scan(&refs)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrProductReferenced
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return tx.Commit()
}

// InventorySummary aggregates current catalog state.
func (s *SQLiteStore) InventorySummary(ctx context.Context) (*domain.InventorySummary, error) {
	var sum domain.InventorySummary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(stock), 0),
		       COALESCE(SUM(price * stock), 0)
		FROM products`).Scan(&sum.TotalProducts, &sum.TotalUnits, &sum.TotalValue)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*), COALESCE(SUM(stock), 0)
		FROM products GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.CategorySummary
		if err := rows.Scan(&c.Category, &c.Products, &c.Units); err != nil {
			return nil, err
		}
		sum.ByCategory = append(sum.ByCategory, c)
	}
	return &sum, rows.Err()
}

// ---------------------------------------------------------------------------
// SupplierStore implementation
// ---------------------------------------------------------------------------

// AddSupplier inserts a new supplier row and fills in its assigned ID.
func (s *SQLiteStore) AddSupplier(ctx context.Context, sup *domain.Supplier) error {
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (name, contact_person, email, phone, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sup.Name, sup.ContactPerson, sup.Email, sup.Phone, sup.Address, fmtTime(now))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sup.ID = id
	sup.CreatedAt = now
	return nil
}

const supplierColumns = `id, name, contact_person, email, phone, address, created_at`

func scanSupplier(row interface{ Scan(...any) error }) (*domain.Supplier, error) {
	var sup domain.Supplier
	var created string
	err := row.Scan(&sup.ID, &sup.Name, &sup.ContactPerson, &sup.Email,
		&sup.Phone, &sup.Address, &created)
	if err != nil {
		return nil, err
	}
	sup.CreatedAt = parseTime(created)
	return &sup, nil
}

// Supplier retrieves a single supplier by its ID.
func (s *SQLiteStore) Supplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE id = ?`, id)
	sup, err := scanSupplier(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSupplierNotFound
	}
	return sup, err
}

// Suppliers returns all suppliers ordered by name.
func (s *SQLiteStore) Suppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.querySuppliers(ctx,
		`SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
}

// SearchSuppliers returns suppliers whose name, contact person, or email
// matches the given term.
func (s *SQLiteStore) SearchSuppliers(ctx context.Context, term string) ([]domain.Supplier, error) {
	pattern := "%" + term + "%"
	return s.querySuppliers(ctx, `
		SELECT `+supplierColumns+` FROM suppliers
		WHERE name LIKE ? OR contact_person LIKE ? OR email LIKE ?
		ORDER BY name`,
		pattern, pattern, pattern)
}

func (s *SQLiteStore) querySuppliers(ctx context.Context, query string, args ...any) ([]domain.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, *sup)
	}
	return suppliers, rows.Err()
}

// UpdateSupplier applies a partial edit and returns the updated row.
func (s *SQLiteStore) UpdateSupplier(ctx context.Context, id int64, upd domain.SupplierUpdate) (*domain.Supplier, error) {
	var sets []string
	var args []any

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.ContactPerson != nil {
		sets = append(sets, "contact_person = ?")
		args = append(args, *upd.ContactPerson)
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *upd.Phone)
	}
	if upd.Address != nil {
		sets = append(sets, "address = ?")
		args = append(args, *upd.Address)
	}
	if len(sets) == 0 {
		return s.Supplier(ctx, id)
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		`UPDATE suppliers SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrSupplierNotFound
	}
	return s.Supplier(ctx, id)
}

// ---------------------------------------------------------------------------
// OrderStore implementation
// ---------------------------------------------------------------------------

// CreateSalesOrder commits one sales-ledger row and the matching stock
// decrement in a single transaction. The availability check and the decrement
// are one conditional UPDATE, so two concurrent orders on the same product
// can never both pass the check.
func (s *SQLiteStore) CreateSalesOrder(ctx context.Context, productID, quantity int64, actor string) (*domain.SalesOrder, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var name, sku string
	var price float64
	err = tx.QueryRowContext(ctx,
		`SELECT name, sku, price FROM products WHERE id = ?`, productID).
		Scan(&name, &sku, &price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	res, err := tx.ExecContext(ctx, `
		UPDATE products SET stock = stock - ?, updated_at = ?
		WHERE id = ? AND stock >= ?`,
		quantity, fmtTime(now), productID, quantity)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// The product exists, so the conditional update can only have missed
		// on the stock check.
		return nil, ErrInsufficientStock
	}

	total := price * float64(quantity)
	res, err = tx.ExecContext(ctx, `
		INSERT INTO sales_orders (product_id, quantity, total_price, order_date)
		VALUES (?, ?, ?, ?)`,
		productID, quantity, total, fmtTime(now))
	if err != nil {
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Sold %d units of %s (Order ID: %d, Total: $%.2f)",
		quantity, name, orderID, total)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_log (actor, timestamp, action, details)
		VALUES (?, ?, ?, ?)`,
		actor, fmtTime(now), domain.ActionCreateSalesOrder, details)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.SalesOrder{
		ID:          orderID,
		ProductID:   productID,
		ProductName: name,
		SKU:         sku,
		Quantity:    quantity,
		TotalPrice:  total,
		OrderDate:   now,
	}, nil
}

// CreatePurchaseOrder commits one purchase-ledger row and the matching stock
// increment in a single transaction.
func (s *SQLiteStore) CreatePurchaseOrder(ctx context.Context, productID, supplierID, quantity int64, unitPrice float64, actor string) (*domain.PurchaseOrder, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var name, sku string
	err = tx.QueryRowContext(ctx,
		`SELECT name, sku FROM products WHERE id = ?`, productID).Scan(&name, &sku)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	var supplierName string
	err = tx.QueryRowContext(ctx,
		`SELECT name FROM suppliers WHERE id = ?`, supplierID).Scan(&supplierName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSupplierNotFound
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE products SET stock = stock + ?, updated_at = ? WHERE id = ?`,
		quantity, fmtTime(now), productID)
	if err != nil {
		return nil, err
	}

	total := unitPrice * float64(quantity)
	res, err := tx.ExecContext(ctx, `
		INSERT INTO purchase_orders (product_id, supplier_id, quantity, unit_price, total_price, order_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		productID, supplierID, quantity, unitPrice, total, fmtTime(now))
	if err != nil {
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Purchased %d units of %s (Order ID: %d, Total: $%.2f)",
		quantity, name, orderID, total)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_log (actor, timestamp, action, details)
		VALUES (?, ?, ?, ?)`,
		actor, fmtTime(now), domain.ActionCreatePurchaseOrder, details)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.PurchaseOrder{
		ID:           orderID,
		ProductID:    productID,
		ProductName:  name,
		SKU:          sku,
		SupplierID:   supplierID,
		SupplierName: supplierName,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		TotalPrice:   total,
		OrderDate:    now,
	}, nil
}

// SalesOrders returns committed sales orders with product names joined,
// optionally restricted to an inclusive date range.
func (s *SQLiteStore) SalesOrders(ctx context.Context, r *domain.DateRange) ([]domain.SalesOrder, error) {
	query := `
		SELECT so.id, so.product_id, p.name, p.sku, so.quantity, so.total_price, so.order_date
		FROM sales_orders so
		JOIN products p ON so.product_id = p.id`
	var args []any
	if r != nil {
		query += ` WHERE so.order_date >= ? AND so.order_date <= ?`
		args = append(args, fmtTime(r.From), fmtTime(r.To))
	}
	query += ` ORDER BY so.order_date DESC, so.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.SalesOrder
	for rows.Next() {
		var o domain.SalesOrder
		var date string
		err := rows.Scan(&o.ID, &o.ProductID, &o.ProductName, &o.SKU,
			&o.Quantity, &o.TotalPrice, &date)
		if err != nil {
			return nil, err
		}
		o.OrderDate = parseTime(date)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// PurchaseOrders returns committed purchase orders with product and supplier
// names joined, optionally restricted to an inclusive date range.
func (s *SQLiteStore) PurchaseOrders(ctx context.Context, r *domain.DateRange) ([]domain.PurchaseOrder, error) {
	query := `
		SELECT po.id, po.product_id, p.name, p.sku, po.supplier_id, sup.name,
		       po.quantity, po.unit_price, po.total_price, po.order_date
		FROM purchase_orders po
		JOIN products p ON po.product_id = p.id
		JOIN suppliers sup ON po.supplier_id = sup.id`
	var args []any
	if r != nil {
		query += ` WHERE po.order_date >= ? AND po.order_date <= ?`
		args = append(args, fmtTime(r.From), fmtTime(r.To))
	}
	query += ` ORDER BY po.order_date DESC, po.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.PurchaseOrder
	for rows.Next() {
		var o domain.PurchaseOrder
		var date string
		err := rows.Scan(&o.ID, &o.ProductID, &o.ProductName, &o.SKU,
			&o.SupplierID, &o.SupplierName, &o.Quantity, &o.UnitPrice,
			&o.TotalPrice, &date)
		if err != nil {
			return nil, err
		}
		o.OrderDate = parseTime(date)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ---------------------------------------------------------------------------
// AuditStore implementation
// ---------------------------------------------------------------------------

// AppendAudit appends one audit record, stamping it if the caller left the
// timestamp zero.
func (s *SQLiteStore) AppendAudit(ctx context.Context, e *domain.AuditEntry) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = s.now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (actor, timestamp, action, details)
		VALUES (?, ?, ?, ?)`,
		e.Actor, fmtTime(ts), e.Action, e.Details)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	e.Timestamp = ts.UTC()
	return nil
}

// RecentAudit returns the most recent audit records, newest first.
func (s *SQLiteStore) RecentAudit(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, timestamp, action, details
		FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var ts string
		if err := rows.Scan(&e.ID, &e.Actor, &ts, &e.Action, &e.Details); err != nil {
			return nil, err
		}
		e.Timestamp = parseTime(ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ---------------------------------------------------------------------------
// UserStore implementation
// ---------------------------------------------------------------------------

// UserByUsername retrieves an account by username.
func (s *SQLiteStore) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	var created string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}

// AddUser inserts a new account.
func (s *SQLiteStore) AddUser(ctx context.Context, u *domain.User) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, u.Username).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return ErrUsernameExists
	}

	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role, created_at)
		VALUES (?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.Role, fmtTime(now))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	u.CreatedAt = now
	return nil
}

// CountUsers returns the number of accounts.
func (s *SQLiteStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
