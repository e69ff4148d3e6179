package memory

import (
	"testing"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopster/domain"
)

func TestBasketAddProductMergesLines(t *testing.T) {
	storage := NewStorage()

	basketID, err := storage.Baskets().Add()
	if err != nil {
		t.Fatalf("add basket: %v", err)
	}

	if err := storage.Baskets().AddProduct(basketID, 1, 2); err != nil {
		t.Fatalf("add product: %v", err)
	}
	if err := storage.Baskets().AddProduct(basketID, 1, 3); err != nil {
		t.Fatalf("add product again: %v", err)
	}

	products, err := storage.Baskets().Products(basketID)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 1 || products[0].Quantity != 5 {
		t.Fatalf("expected one merged line with quantity 5, got %+v", products)
	}
}

func TestBasketAddProductRejectsNonPositiveQuantity(t *testing.T) {
	storage := NewStorage()

	basketID, err := storage.Baskets().Add()
	if err != nil {
		t.Fatalf("add basket: %v", err)
	}

	if err := storage.Baskets().AddProduct(basketID, 1, 0); !domain.IsInvalidOperation(err) {
		t.Fatalf("expected ErrInvalidOperation for zero quantity, got %v", err)
	}
	if err := storage.Baskets().AddProduct(basketID, 1, -1); !domain.IsInvalidOperation(err) {
		t.Fatalf("expected ErrInvalidOperation for negative quantity, got %v", err)
	}
}

func TestBasketRemoveProduct(t *testing.T) {
	storage := NewStorage()

	basketID, err := storage.Baskets().Add()
	if err != nil {
		t.Fatalf("add basket: %v", err)
	}
	if err := storage.Baskets().AddProduct(basketID, 1, 3); err != nil {
		t.Fatalf("add product: %v", err)
	}

	// nil quantity снимает одну единицу.
	if err := storage.Baskets().RemoveProduct(basketID, 1, nil); err != nil {
		t.Fatalf("remove one: %v", err)
	}
	products, err := storage.Baskets().Products(basketID)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 1 || products[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %+v", products)
	}

	// Снятие больше остатка удаляет позицию.
	five := int64(5)
	if err := storage.Baskets().RemoveProduct(basketID, 1, &five); err != nil {
		t.Fatalf("remove five: %v", err)
	}
	products, err = storage.Baskets().Products(basketID)
	if err != nil {
		t.Fatalf("products after drain: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("drained line must be removed, got %+v", products)
	}
}

func TestBasketUnknown(t *testing.T) {
	storage := NewStorage()

	if _, err := storage.Baskets().Get(uuid.New()); !domain.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := storage.Baskets().AddProduct(uuid.New(), 1, 1); !domain.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
