// Package catalog manages product records: creation, edits, search, and
// low-stock listings. Stock quantities are read here but never written;
// every stock delta goes through the order engine.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"invtrack/internal/audit"
	"invtrack/internal/domain"
	"invtrack/internal/store"
)

// Validation errors. These are rejected before any mutation is attempted.
var (
	ErrMissingSKU   = errors.New("sku is required")
	ErrMissingName  = errors.New("product name is required")
	ErrInvalidPrice = errors.New("price cannot be negative")
	ErrInvalidStock = errors.New("stock cannot be negative")
)

// Catalog is the product catalog service.
type Catalog struct {
	products  store.ProductStore
	audit     *audit.Recorder
	log       *slog.Logger
	threshold int64
}

// New creates a Catalog. lowStockThreshold is the default cutoff for
// LowStock when the caller does not supply one.
func New(products store.ProductStore, rec *audit.Recorder, log *slog.Logger, lowStockThreshold int64) *Catalog {
	return &Catalog{
		products:  products,
		audit:     rec,
		log:       log,
		threshold: lowStockThreshold,
	}
}

// Add validates and inserts a new product. The initial stock set here is the
// only stock write outside the order engine.
func (c *Catalog) Add(ctx context.Context, actor string, p *domain.Product) error {
	if strings.TrimSpace(p.SKU) == "" {
		return ErrMissingSKU
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}

	if err := c.products.AddProduct(ctx, p); err != nil {
		return err
	}

	// The product row is committed; a failed audit append is logged inside
	// the recorder and does not undo the mutation.
	c.audit.Record(ctx, actor, domain.ActionAddProduct,
		fmt.Sprintf("Added product: %s (SKU: %s)", p.Name, p.SKU))
	return nil
}

// Get retrieves a product by ID.
func (c *Catalog) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return c.products.Product(ctx, id)
}

// BySKU retrieves a product by SKU.
func (c *Catalog) BySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return c.products.ProductBySKU(ctx, sku)
}

// List returns all products ordered by name.
func (c *Catalog) List(ctx context.Context) ([]domain.Product, error) {
	return c.products.Products(ctx)
}

// Search returns products matching the term by name, SKU, or category.
// An empty term lists everything.
func (c *Catalog) Search(ctx context.Context, term string) ([]domain.Product, error) {
	if strings.TrimSpace(term) == "" {
		return c.products.Products(ctx)
	}
	return c.products.SearchProducts(ctx, term)
}

// Update applies a partial edit to a product's editable fields.
func (c *Catalog) Update(ctx context.Context, actor string, id int64, upd domain.ProductUpdate) (*domain.Product, error) {
	if upd.Price != nil && *upd.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, ErrMissingName
	}

	p, err := c.products.UpdateProduct(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	c.audit.Record(ctx, actor, domain.ActionUpdateProduct,
		fmt.Sprintf("Updated product %s (ID: %d)", p.Name, p.ID))
	return p, nil
}

// Delete removes a product. Deletion is blocked while any order-ledger row
// references the product.
func (c *Catalog) Delete(ctx context.Context, actor string, id int64) error {
	p, err := c.products.Product(ctx, id)
	if err != nil {
		return err
	}

	if err := c.products.DeleteProduct(ctx, id); err != nil {
		return err
	}

	c.audit.Record(ctx, actor, domain.ActionDeleteProduct,
		fmt.Sprintf("Deleted product %s (SKU: %s)", p.Name, p.SKU))
	return nil
}

// LowStock returns products at or below the threshold. A non-positive
// threshold selects the configured default.
func (c *Catalog) LowStock(ctx context.Context, threshold int64) ([]domain.Product, error) {
	if threshold <= 0 {
		threshold = c.threshold
	}
	return c.products.LowStock(ctx, threshold)
}
