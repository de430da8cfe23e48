package supplier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"invtrack/internal/audit"
	"invtrack/internal/domain"
	"invtrack/internal/store"
)

func newTestDirectory(t *testing.T) (*Directory, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "supplier-test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(s, audit.NewRecorder(s, log), log), s
}

func TestAddSupplier(t *testing.T) {
	d, s := newTestDirectory(t)
	ctx := context.Background()

	sup := &domain.Supplier{Name: "Acme Supply", ContactPerson: "Jo Smith", Email: "jo@acme.test"}
	if err := d.Add(ctx, "alice", sup); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sup.ID == 0 {
		t.Error("Add did not assign an ID")
	}

	entries, err := s.RecentAudit(ctx, 10)
	if err != nil {
		t.Fatalf("RecentAudit: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != domain.ActionAddSupplier {
		t.Errorf("audit = %+v, want one ADD_SUPPLIER entry", entries)
	}
}

func TestAddSupplierRequiresName(t *testing.T) {
	d, _ := newTestDirectory(t)

	sup := &domain.Supplier{Name: "   "}
	if err := d.Add(context.Background(), "alice", sup); !errors.Is(err, ErrMissingName) {
		t.Errorf("Add error = %v, want ErrMissingName", err)
	}
}

func TestUpdateSupplier(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	sup := &domain.Supplier{Name: "Acme Supply"}
	if err := d.Add(ctx, "alice", sup); err != nil {
		t.Fatalf("Add: %v", err)
	}

	email := "orders@acme.test"
	got, err := d.Update(ctx, "alice", sup.ID, domain.SupplierUpdate{Email: &email})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Email != email {
		t.Errorf("Email = %q, want %q", got.Email, email)
	}

	blank := " "
	if _, err := d.Update(ctx, "alice", sup.ID, domain.SupplierUpdate{Name: &blank}); !errors.Is(err, ErrMissingName) {
		t.Errorf("blank name error = %v, want ErrMissingName", err)
	}

	if _, err := d.Update(ctx, "alice", 9999, domain.SupplierUpdate{Email: &email}); !errors.Is(err, store.ErrSupplierNotFound) {
		t.Errorf("unknown supplier error = %v, want ErrSupplierNotFound", err)
	}
}

func TestSearchSuppliers(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	for _, name := range []string{"Acme Supply", "Blue Box Traders"} {
		if err := d.Add(ctx, "alice", &domain.Supplier{Name: name}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, err := d.Search(ctx, "Acme")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Acme Supply" {
		t.Errorf("Search(Acme) = %+v, want single Acme Supply", got)
	}

	all, err := d.Search(ctx, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Search with blank term returned %d suppliers, want 2", len(all))
	}
}
