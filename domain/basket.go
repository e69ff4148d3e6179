package domain

import (
	"time"

	"github.com/google/uuid"
)

// BasketProduct — позиция корзины: ссылка на товар и количество.
// В отличие от позиции заказа здесь нет снапшота — корзина всегда
// смотрит на живой товар.
type BasketProduct struct {
	ID        int64
	ProductID int64
	Quantity  int64
}

// Basket — корзина покупателя.
type Basket struct {
	ID        uuid.UUID
	Products  []BasketProduct
	CreatedAt time.Time
	UpdatedAt *time.Time
}
