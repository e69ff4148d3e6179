package warehouse

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopster/domain"
	"github.com/vladislavdragonenkov/shopster/internal/storage/memory"
)

func newTestService(t *testing.T) (Service, domain.TenantStorage, uuid.UUID) {
	t.Helper()

	router := memory.NewRouter()
	tenantID := uuid.New()
	storage := router.RegisterTenant(tenantID)
	return NewServiceWithoutMetrics(router, nil), storage, tenantID
}

// Товар без складской записи: дельта создаёт строку, симметричная дельта
// обнуляет резерв, уход ниже нуля отклоняется без изменения строки.
func TestApplyReservedDeltaMissingRowLifecycle(t *testing.T) {
	svc, _, tenantID := newTestService(t)
	ctx := context.Background()

	item, err := svc.ApplyReservedDelta(ctx, tenantID, 1, 5)
	if err != nil {
		t.Fatalf("apply delta: %v", err)
	}
	if item.InStock != 0 || item.Reserved != 5 {
		t.Fatalf("expected {in_stock:0 reserved:5}, got %+v", item)
	}

	item, err = svc.ApplyReservedDelta(ctx, tenantID, 1, -5)
	if err != nil {
		t.Fatalf("apply symmetric delta: %v", err)
	}
	if item.Reserved != 0 {
		t.Fatalf("expected reserved=0, got %d", item.Reserved)
	}

	if _, err := svc.ApplyReservedDelta(ctx, tenantID, 1, -1); !domain.IsInvalidOperation(err) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	item, err = svc.GetByProductID(ctx, tenantID, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item.Reserved != 0 {
		t.Fatalf("rejected delta must not change the row, reserved=%d", item.Reserved)
	}
}

func TestWarehouseCRUD(t *testing.T) {
	svc, _, tenantID := newTestService(t)
	ctx := context.Background()

	inserted, err := svc.Insert(ctx, tenantID, domain.WarehouseItem{ProductID: 3, InStock: 20, Reserved: 1})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if inserted.ID == 0 {
		t.Fatal("inserted item should have an id")
	}

	updated, err := svc.UpdateByProductID(ctx, tenantID, 3, domain.WarehouseItem{InStock: 15, Reserved: 2})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.InStock != 15 || updated.Reserved != 2 {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	all, err := svc.GetAll(ctx, tenantID)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 row, got %d", len(all))
	}

	removed, err := svc.RemoveByProductID(ctx, tenantID, 3)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !removed {
		t.Fatal("remove should report true")
	}
	if _, err := svc.GetByProductID(ctx, tenantID, 3); !domain.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetAllWithDetails(t *testing.T) {
	svc, storage, tenantID := newTestService(t)
	ctx := context.Background()

	product, err := storage.Products().Insert(domain.Product{Title: "Widget", ArticleNumber: "W-1"})
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	if _, err := svc.Insert(ctx, tenantID, domain.WarehouseItem{ProductID: product.ID, InStock: 8, Reserved: 3}); err != nil {
		t.Fatalf("insert warehouse row: %v", err)
	}

	details, err := svc.GetAllWithDetails(ctx, tenantID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 row, got %d", len(details))
	}
	d := details[0]
	if d.Title != "Widget" || d.ArticleNumber != "W-1" || d.Available != 5 {
		t.Fatalf("unexpected detail row: %+v", d)
	}
}

func TestUnknownTenant(t *testing.T) {
	router := memory.NewRouter()
	svc := NewServiceWithoutMetrics(router, nil)

	if _, err := svc.GetAll(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for unknown tenant")
	}
}
