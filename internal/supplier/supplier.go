// Package supplier manages the supplier directory referenced by purchase
// orders. Suppliers carry no stock-affecting invariants.
package supplier

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

// ErrMissingName is returned when a supplier is created without a name.
var ErrMissingName = errors.New("supplier name is required")

// Directory is the supplier directory service.
type Directory struct {
	suppliers store.SupplierStore
	audit     *audit.Recorder
	log       *slog.Logger
}

// New creates a Directory.
func New(suppliers store.SupplierStore, rec *audit.Recorder, log *slog.Logger) *Directory {
	return &Directory{suppliers: suppliers, audit: rec, log: log}
}

// Add validates and inserts a new supplier.
func (d *Directory) Add(ctx context.Context, actor string, s *domain.Supplier) error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrMissingName
	}

	if err := d.suppliers.AddSupplier(ctx, s); err != nil {
		return err
	}

	d.audit.Record(ctx, actor, domain.ActionAddSupplier,
		fmt.Sprintf("Added supplier: %s", s.Name))
	return nil
}

// Get retrieves a supplier by ID.
func (d *Directory) Get(ctx context.Context, id int64) (*domain.Supplier, error) {
	return d.suppliers.Supplier(ctx, id)
}

// List returns all suppliers ordered by name.
func (d *Directory) List(ctx context.Context) ([]domain.Supplier, error) {
	return d.suppliers.Suppliers(ctx)
}

// Search returns suppliers matching the term by name, contact person, or
// email. An empty term lists everything.
func (d *Directory) Search(ctx context.Context, term string) ([]domain.Supplier, error) {
	if strings.TrimSpace(term) == "" {
		return d.suppliers.Suppliers(ctx)
	}
	return d.suppliers.SearchSuppliers(ctx, term)
}

// Update applies a partial edit to a supplier.
func (d *Directory) Update(ctx context.Context, actor string, id int64, upd domain.SupplierUpdate) (*domain.Supplier, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, ErrMissingName
	}

	s, err := d.suppliers.UpdateSupplier(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	d.audit.Record(ctx, actor, domain.ActionUpdateSupplier,
		fmt.Sprintf("Updated supplier %s (ID: %d)", s.Name, s.ID))
	return s, nil
}
