package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"invtrack/internal/domain"
	"invtrack/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "engine-test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(s, log), s
}

func seedProduct(t *testing.T, s *store.SQLiteStore, price float64, stock int64) *domain.Product {
	t.Helper()
	p := &domain.Product{SKU: "WID-001", Name: "Widget", Price: price, Category: "widgets", Stock: stock}
	if err := s.AddProduct(context.Background(), p); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	return p
}

func seedSupplier(t *testing.T, s *store.SQLiteStore) *domain.Supplier {
	t.Helper()
	sup := &domain.Supplier{Name: "Acme Supply"}
	if err := s.AddSupplier(context.Background(), sup); err != nil {
		t.Fatalf("AddSupplier: %v", err)
	}
	return sup
}

func TestCreateSalesOrder(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	p := seedProduct(t, s, 5.00, 10)

	order, err := e.CreateSalesOrder(ctx, "alice", p.ID, 4)
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}
	if order.TotalPrice != 20.00 {
		t.Errorf("TotalPrice = %v, want 20.00", order.TotalPrice)
	}

	got, err := s.Product(ctx, p.ID)
	if err != nil {
		t.Fatalf("Product: %v", err)
	}
	if got.Stock != 6 {
		t.Errorf("stock = %d, want 6", got.Stock)
	}
}

func TestCreateSalesOrderValidation(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	p := seedProduct(t, s, 5.00, 10)

	for _, qty := range []int64{0, -3} {
		_, err := e.CreateSalesOrder(ctx, "alice", p.ID, qty)
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("quantity %d: error = %v, want ErrInvalidQuantity", qty, err)
		}
	}

	// Validation rejects before touching storage.
	got, _ := s.Product(ctx, p.ID)
	if got.Stock != 10 {
		t.Errorf("stock after rejected orders = %d, want 10", got.Stock)
	}

	if _, err := e.CreateSalesOrder(ctx, "alice", 9999, 1); !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("unknown product error = %v, want ErrUnknownProduct", err)
	}
}

func TestCreateSalesOrderInsufficientStock(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	p := seedProduct(t, s, 5.00, 3)

	_, err := e.CreateSalesOrder(ctx, "alice", p.ID, 5)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("error = %v, want ErrInsufficientStock", err)
	}
	// Business rejections are not retryable commit failures.
	if IsRetryable(err) {
		t.Error("IsRetryable(ErrInsufficientStock) = true, want false")
	}

	got, _ := s.Product(ctx, p.ID)
	if got.Stock != 3 {
		t.Errorf("stock = %d, want 3 (unchanged)", got.Stock)
	}
	orders, _ := s.SalesOrders(ctx, nil)
	if len(orders) != 0 {
		t.Errorf("ledger holds %d rows, want 0", len(orders))
	}
}

func TestCreatePurchaseOrder(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	p := seedProduct(t, s, 5.00, 0)
	sup := seedSupplier(t, s)

	order, err := e.CreatePurchaseOrder(ctx, "bob", p.ID, sup.ID, 20, 2.50)
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}
	if order.TotalPrice != 50.00 {
		t.Errorf("TotalPrice = %v, want 50.00", order.TotalPrice)
	}

	got, _ := s.Product(ctx, p.ID)
	if got.Stock != 20 {
		t.Errorf("stock = %d, want 20", got.Stock)
	}
}

func TestCreatePurchaseOrderValidation(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	p := seedProduct(t, s, 5.00, 0)
	sup := seedSupplier(t, s)

	if _, err := e.CreatePurchaseOrder(ctx, "bob", p.ID, sup.ID, 0, 1.0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity error = %v, want ErrInvalidQuantity", err)
	}
	if _, err := e.CreatePurchaseOrder(ctx, "bob", p.ID, sup.ID, 5, -0.01); !errors.Is(err, ErrInvalidUnitPrice) {
		t.Errorf("negative price error = %v, want ErrInvalidUnitPrice", err)
	}
	if _, err := e.CreatePurchaseOrder(ctx, "bob", 9999, sup.ID, 5, 1.0); !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("unknown product error = %v, want ErrUnknownProduct", err)
	}
	if _, err := e.CreatePurchaseOrder(ctx, "bob", p.ID, 9999, 5, 1.0); !errors.Is(err, ErrUnknownSupplier) {
		t.Errorf("unknown supplier error = %v, want ErrUnknownSupplier", err)
	}

	got, _ := s.Product(ctx, p.ID)
	if got.Stock != 0 {
		t.Errorf("stock after rejected purchases = %d, want 0", got.Stock)
	}
}

func TestConcurrentSalesOrders(t *testing.T) {
	e, s := newTestEngine(t)
	ctx := context.Background()

	p := seedProduct(t, s, 1.00, 10)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = e.CreateSalesOrder(ctx, "alice", p.ID, 6)
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || rejected != 1 {
		t.Fatalf("got %d successes and %d rejections, want exactly 1 of each", ok, rejected)
	}

	got, _ := s.Product(ctx, p.ID)
	if got.Stock != 4 {
		t.Errorf("stock = %d, want 4", got.Stock)
	}
}

func TestStorageErrorRetryable(t *testing.T) {
	err := &StorageError{Op: "create sales order", Err: errors.New("disk full")}
	if !IsRetryable(err) {
		t.Error("IsRetryable(StorageError) = false, want true")
	}
	if IsRetryable(ErrInvalidQuantity) {
		t.Error("IsRetryable(ErrInvalidQuantity) = true, want false")
	}
	if IsRetryable(ErrUnknownProduct) {
		t.Error("IsRetryable(ErrUnknownProduct) = true, want false")
	}
}
