package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopster/domain"
)

func TestWithinTxRollsBackOnError(t *testing.T) {
	storage := NewStorage()

	sentinel := errors.New("boom")
	err := storage.WithinTx(func(tx domain.TenantStorage) error {
		if _, err := tx.Orders().Insert(domain.Order{Status: domain.OrderStatusNew}); err != nil {
			return err
		}
		if _, err := tx.Warehouse().ApplyReservedDelta(1, 5); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	orders, err := storage.Orders().GetAll()
	if err != nil {
		t.Fatalf("get all orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("order insert should be rolled back, got %d orders", len(orders))
	}
	if _, err := storage.Warehouse().Get(1); !domain.IsNotFound(err) {
		t.Fatalf("warehouse row should be rolled back, got %v", err)
	}
}

func TestWithinTxCommitsOnSuccess(t *testing.T) {
	storage := NewStorage()

	err := storage.WithinTx(func(tx domain.TenantStorage) error {
		_, err := tx.Orders().Insert(domain.Order{Status: domain.OrderStatusNew})
		return err
	})
	if err != nil {
		t.Fatalf("within tx: %v", err)
	}

	orders, err := storage.Orders().GetAll()
	if err != nil {
		t.Fatalf("get all orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
}

func TestRouterIsolatesTenants(t *testing.T) {
	router := NewRouter()
	firstTenant := uuid.New()
	secondTenant := uuid.New()
	router.RegisterTenant(firstTenant)
	router.RegisterTenant(secondTenant)

	ctx := context.Background()
	first, err := router.Storage(ctx, firstTenant)
	if err != nil {
		t.Fatalf("first tenant storage: %v", err)
	}
	second, err := router.Storage(ctx, secondTenant)
	if err != nil {
		t.Fatalf("second tenant storage: %v", err)
	}

	if _, err := first.Products().Insert(domain.Product{Title: "only in first"}); err != nil {
		t.Fatalf("insert product: %v", err)
	}

	firstProducts, err := first.Products().GetAll()
	if err != nil {
		t.Fatalf("first products: %v", err)
	}
	secondProducts, err := second.Products().GetAll()
	if err != nil {
		t.Fatalf("second products: %v", err)
	}
	if len(firstProducts) != 1 || len(secondProducts) != 0 {
		t.Fatalf("tenants must not share data: first=%d second=%d", len(firstProducts), len(secondProducts))
	}
}

func TestRouterUnknownTenant(t *testing.T) {
	router := NewRouter()

	_, err := router.Storage(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestRouterRegisterTenantIsIdempotent(t *testing.T) {
	router := NewRouter()
	tenantID := uuid.New()

	first := router.RegisterTenant(tenantID)
	if _, err := first.Settings().Insert(domain.Setting{Title: "currency", Datatype: "string", Value: "EUR"}); err != nil {
		t.Fatalf("insert setting: %v", err)
	}

	second := router.RegisterTenant(tenantID)
	setting, err := second.Settings().GetByTitle("currency")
	if err != nil {
		t.Fatalf("re-registration must return the same storage: %v", err)
	}
	if setting.Value != "EUR" {
		t.Fatalf("unexpected setting value: %q", setting.Value)
	}
}
