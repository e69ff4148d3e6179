package postgres

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopster/domain"
)

func TestOrderRoundTripIntegration(t *testing.T) {
	storage := openStorageForIntegrationTest(t)

	customer, err := storage.Customers().Insert(domain.Customer{
		Email:    "buyer@example.com",
		FullName: "Test Buyer",
	})
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}

	order := domain.Order{
		CustomerID:      &customer.ID,
		Status:          domain.OrderStatusNew,
		DeliveryAddress: "Delivery St. 1",
		BillingAddress:  "Billing St. 2",
		Items: []domain.OrderItemSnapshot{
			{
				ProductID:        101,
				Quantity:         2,
				ArticleNumber:    "ART-101",
				Title:            "Widget",
				Tags:             []string{"tools", "sale"},
				AdditionalImages: []string{"a.png", "b.png"},
				Price:            1500,
				Currency:         "EUR",
				Weight:           250,
			},
		},
	}

	inserted, err := storage.Orders().Insert(order)
	if err != nil {
		t.Fatalf("insert order: %v", err)
	}
	if inserted.ID == 0 {
		t.Fatal("inserted order should have an id")
	}
	if len(inserted.Items) != 1 || inserted.Items[0].ID == 0 {
		t.Fatalf("inserted order items should have ids: %+v", inserted.Items)
	}

	loaded, err := storage.Orders().Get(inserted.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if loaded.Status != domain.OrderStatusNew {
		t.Fatalf("unexpected status: %s", loaded.Status)
	}
	if len(loaded.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(loaded.Items))
	}
	item := loaded.Items[0]
	if item.Quantity != 2 || item.Price != 1500 || item.Currency != "EUR" {
		t.Fatalf("item snapshot mismatch: %+v", item)
	}
	if len(item.Tags) != 2 || item.Tags[0] != "tools" {
		t.Fatalf("tags round trip failed: %v", item.Tags)
	}

	deleted, err := storage.Orders().Delete(inserted.ID)
	if err != nil {
		t.Fatalf("delete order: %v", err)
	}
	if !deleted {
		t.Fatal("delete should report true for existing order")
	}
	if _, err := storage.Orders().Get(inserted.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestApplyReservedDeltaIntegration(t *testing.T) {
	storage := openStorageForIntegrationTest(t)

	if _, err := storage.Warehouse().Insert(domain.WarehouseItem{
		ProductID: 7,
		InStock:   10,
		Reserved:  0,
	}); err != nil {
		t.Fatalf("insert warehouse row: %v", err)
	}

	item, err := storage.Warehouse().ApplyReservedDelta(7, 4)
	if err != nil {
		t.Fatalf("apply positive delta: %v", err)
	}
	if item.Reserved != 4 {
		t.Fatalf("expected reserved=4, got %d", item.Reserved)
	}

	// Уход ниже нуля отклоняется, строка не меняется.
	if _, err := storage.Warehouse().ApplyReservedDelta(7, -5); !domain.IsInvalidOperation(err) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	current, err := storage.Warehouse().Get(7)
	if err != nil {
		t.Fatalf("get warehouse row: %v", err)
	}
	if current.Reserved != 4 {
		t.Fatalf("rejected delta must not change the row, reserved=%d", current.Reserved)
	}

	// Отсутствующая строка создаётся с нулевым остатком.
	created, err := storage.Warehouse().ApplyReservedDelta(9999, 3)
	if err != nil {
		t.Fatalf("apply delta to missing row: %v", err)
	}
	if created.InStock != 0 || created.Reserved != 3 {
		t.Fatalf("expected {in_stock:0 reserved:3}, got %+v", created)
	}
}

func TestWithinTxRollbackIntegration(t *testing.T) {
	storage := openStorageForIntegrationTest(t)

	sentinel := errors.New("boom")
	err := storage.WithinTx(func(tx domain.TenantStorage) error {
		if _, err := tx.Warehouse().Insert(domain.WarehouseItem{ProductID: 11, InStock: 5}); err != nil {
			return err
		}
		if _, err := tx.Orders().Insert(domain.Order{Status: domain.OrderStatusNew}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	if _, err := storage.Warehouse().Get(11); !domain.IsNotFound(err) {
		t.Fatalf("warehouse insert should be rolled back, got %v", err)
	}
	orders, err := storage.Orders().GetAll()
	if err != nil {
		t.Fatalf("get all orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("order insert should be rolled back, got %d orders", len(orders))
	}
}

func TestBasketFlowIntegration(t *testing.T) {
	storage := openStorageForIntegrationTest(t)

	basketID, err := storage.Baskets().Add()
	if err != nil {
		t.Fatalf("add basket: %v", err)
	}
	if basketID == uuid.Nil {
		t.Fatal("basket id should not be nil")
	}

	if err := storage.Baskets().AddProduct(basketID, 5, 2); err != nil {
		t.Fatalf("add product: %v", err)
	}
	if err := storage.Baskets().AddProduct(basketID, 5, 1); err != nil {
		t.Fatalf("add product again: %v", err)
	}

	products, err := storage.Baskets().Products(basketID)
	if err != nil {
		t.Fatalf("basket products: %v", err)
	}
	if len(products) != 1 || products[0].Quantity != 3 {
		t.Fatalf("expected one merged line with quantity 3, got %+v", products)
	}

	// Снятие без количества уменьшает на единицу.
	if err := storage.Baskets().RemoveProduct(basketID, 5, nil); err != nil {
		t.Fatalf("remove product: %v", err)
	}
	products, err = storage.Baskets().Products(basketID)
	if err != nil {
		t.Fatalf("basket products after remove: %v", err)
	}
	if len(products) != 1 || products[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %+v", products)
	}

	if err := storage.Baskets().Clear(basketID); err != nil {
		t.Fatalf("clear basket: %v", err)
	}
	products, err = storage.Baskets().Products(basketID)
	if err != nil {
		t.Fatalf("basket products after clear: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("cleared basket should be empty, got %+v", products)
	}
}
