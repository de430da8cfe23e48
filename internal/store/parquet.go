package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"

	"invtrack/internal/domain"
)

// ParquetExporter writes snapshots of the committed order ledger to Parquet
// files on disk. Exports are additive: re-running an export on the same day
// merges by order ID instead of duplicating rows.
type ParquetExporter struct {
	ExportDir string

	// now names the snapshot file; overridable in tests.
	now func() time.Time
}

// NewParquetExporter creates a ParquetExporter rooted at the given directory.
func NewParquetExporter(exportDir string) *ParquetExporter {
	return &ParquetExporter{ExportDir: exportDir, now: time.Now}
}

// ---------------------------------------------------------------------------
// Parquet record types (on-disk schema)
// ---------------------------------------------------------------------------

// SalesRecord is the Parquet schema for exported sales-ledger rows.
type SalesRecord struct {
	OrderID     int64   `parquet:"order_id"`
	ProductID   int64   `parquet:"product_id"`
	ProductName string  `parquet:"product_name"`
	SKU         string  `parquet:"sku"`
	Quantity    int64   `parquet:"quantity"`
	TotalPrice  float64 `parquet:"total_price"`
	OrderDate   int64   `parquet:"order_date,timestamp(millisecond)"` // Unix ms
}

// PurchaseRecord is the Parquet schema for exported purchase-ledger rows.
type PurchaseRecord struct {
	OrderID      int64   `parquet:"order_id"`
	ProductID    int64   `parquet:"product_id"`
	ProductName  string  `parquet:"product_name"`
	SKU          string  `parquet:"sku"`
	SupplierID   int64   `parquet:"supplier_id"`
	SupplierName string  `parquet:"supplier_name"`
	Quantity     int64   `parquet:"quantity"`
	UnitPrice    float64 `parquet:"unit_price"`
	TotalPrice   float64 `parquet:"total_price"`
	OrderDate    int64   `parquet:"order_date,timestamp(millisecond)"` // Unix ms
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// ExportSalesOrders writes the given sales orders to the day's snapshot file
// and returns its path. Layout: <ExportDir>/sales_orders/<YYYY-MM-DD>.parquet
func (e *ParquetExporter) ExportSalesOrders(_ context.Context, orders []domain.SalesOrder) (string, error) {
	records := make([]SalesRecord, 0, len(orders))
	for _, o := range orders {
		records = append(records, SalesRecord{
			OrderID:     o.ID,
			ProductID:   o.ProductID,
			ProductName: o.ProductName,
			SKU:         o.SKU,
			Quantity:    o.Quantity,
			TotalPrice:  o.TotalPrice,
			OrderDate:   o.OrderDate.UnixMilli(),
		})
	}

	path := e.snapshotPath("sales_orders")
	existing, _ := readParquetFile[SalesRecord](path)
	merged := mergeByOrderID(existing, records, func(r SalesRecord) int64 { return r.OrderID })

	if err := writeParquetFile(path, merged); err != nil {
		return "", fmt.Errorf("writing sales export: %w", err)
	}
	return path, nil
}

// ExportPurchaseOrders writes the given purchase orders to the day's snapshot
// file and returns its path.
func (e *ParquetExporter) ExportPurchaseOrders(_ context.Context, orders []domain.PurchaseOrder) (string, error) {
	records := make([]PurchaseRecord, 0, len(orders))
	for _, o := range orders {
		records = append(records, PurchaseRecord{
			OrderID:      o.ID,
			ProductID:    o.ProductID,
			ProductName:  o.ProductName,
			SKU:          o.SKU,
			SupplierID:   o.SupplierID,
			SupplierName: o.SupplierName,
			Quantity:     o.Quantity,
			UnitPrice:    o.UnitPrice,
			TotalPrice:   o.TotalPrice,
			OrderDate:    o.OrderDate.UnixMilli(),
		})
	}

	path := e.snapshotPath("purchase_orders")
	existing, _ := readParquetFile[PurchaseRecord](path)
	merged := mergeByOrderID(existing, records, func(r PurchaseRecord) int64 { return r.OrderID })

	if err := writeParquetFile(path, merged); err != nil {
		return "", fmt.Errorf("writing purchase export: %w", err)
	}
	return path, nil
}

// ReadSalesExport reads back an exported sales snapshot.
func ReadSalesExport(path string) ([]SalesRecord, error) {
	return readParquetFile[SalesRecord](path)
}

// ReadPurchaseExport reads back an exported purchase snapshot.
func ReadPurchaseExport(path string) ([]PurchaseRecord, error) {
	return readParquetFile[PurchaseRecord](path)
}

// snapshotPath returns the path of the ledger snapshot for today.
func (e *ParquetExporter) snapshotPath(ledger string) string {
	date := e.now().UTC().Format("2006-01-02")
	return filepath.Join(e.ExportDir, ledger, date+".parquet")
}

// ---------------------------------------------------------------------------
// Parquet file helpers
// ---------------------------------------------------------------------------

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mergeByOrderID deduplicates records by order ID, preferring incoming
// records over existing ones. Results are sorted by order ID.
func mergeByOrderID[T any](existing, incoming []T, id func(T) int64) []T {
	seen := make(map[int64]T, len(existing)+len(incoming))
	for _, r := range existing {
		seen[id(r)] = r
	}
	for _, r := range incoming {
		seen[id(r)] = r
	}

	merged := make([]T, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return id(merged[i]) < id(merged[j])
	})
	return merged
}
