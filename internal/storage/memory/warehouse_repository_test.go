package memory

import (
	"testing"

	"github.com/vladislavdragonenkov/shopster/domain"
)

func TestApplyReservedDelta(t *testing.T) {
	storage := NewStorage()

	if _, err := storage.Warehouse().Insert(domain.WarehouseItem{ProductID: 1, InStock: 10}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	item, err := storage.Warehouse().ApplyReservedDelta(1, 4)
	if err != nil {
		t.Fatalf("apply delta: %v", err)
	}
	if item.Reserved != 4 {
		t.Fatalf("expected reserved=4, got %d", item.Reserved)
	}
	if item.Available() != 6 {
		t.Fatalf("expected available=6, got %d", item.Available())
	}

	// Резерв выше остатка допустим: овербукинг представим.
	item, err = storage.Warehouse().ApplyReservedDelta(1, 10)
	if err != nil {
		t.Fatalf("apply overbooking delta: %v", err)
	}
	if item.Reserved != 14 || item.Available() != -4 {
		t.Fatalf("expected reserved=14 available=-4, got %+v", item)
	}
}

func TestApplyReservedDeltaRejectsNegativeTotal(t *testing.T) {
	storage := NewStorage()

	if _, err := storage.Warehouse().Insert(domain.WarehouseItem{ProductID: 1, InStock: 10, Reserved: 0}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := storage.Warehouse().ApplyReservedDelta(1, 3); err != nil {
		t.Fatalf("apply delta: %v", err)
	}

	if _, err := storage.Warehouse().ApplyReservedDelta(1, -4); !domain.IsInvalidOperation(err) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}

	item, err := storage.Warehouse().Get(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item.Reserved != 3 {
		t.Fatalf("rejected delta must leave the row untouched, reserved=%d", item.Reserved)
	}
}

func TestApplyReservedDeltaCreatesMissingRow(t *testing.T) {
	storage := NewStorage()

	item, err := storage.Warehouse().ApplyReservedDelta(42, 5)
	if err != nil {
		t.Fatalf("apply delta: %v", err)
	}
	if item.InStock != 0 || item.Reserved != 5 {
		t.Fatalf("expected {in_stock:0 reserved:5}, got %+v", item)
	}

	if _, err := storage.Warehouse().ApplyReservedDelta(43, -1); !domain.IsInvalidOperation(err) {
		t.Fatalf("negative delta on missing row should fail, got %v", err)
	}
	if _, err := storage.Warehouse().Get(43); !domain.IsNotFound(err) {
		t.Fatalf("failed delta must not create a row, got %v", err)
	}
}

func TestGetAllWithDetailsSkipsUnknownProducts(t *testing.T) {
	storage := NewStorage()

	product, err := storage.Products().Insert(domain.Product{Title: "Widget", ArticleNumber: "W-1"})
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	if _, err := storage.Warehouse().Insert(domain.WarehouseItem{ProductID: product.ID, InStock: 7, Reserved: 2}); err != nil {
		t.Fatalf("insert warehouse row: %v", err)
	}
	// Строка без товара в отчёт не попадает.
	if _, err := storage.Warehouse().Insert(domain.WarehouseItem{ProductID: 999, InStock: 1}); err != nil {
		t.Fatalf("insert orphan warehouse row: %v", err)
	}

	details, err := storage.Warehouse().GetAllWithDetails()
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 detail row, got %d", len(details))
	}
	d := details[0]
	if d.Title != "Widget" || d.ArticleNumber != "W-1" || d.Available != 5 {
		t.Fatalf("unexpected detail row: %+v", d)
	}
}
