package domain

import "time"

// WarehouseItem — складская запись по товару: одна строка на product_id.
// Инвариант: Reserved >= 0. Reserved может временно превышать InStock
// (овербукинг представим и не корректируется молча) — пол равен нулю, а не InStock.
type WarehouseItem struct {
	ID        int64
	ProductID int64
	// InStock — сколько единиц физически есть на складе.
	InStock int64
	// Reserved — сколько единиц удержано под открытые заказы.
	Reserved  int64
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Available возвращает количество, доступное к продаже.
func (w *WarehouseItem) Available() int64 {
	return w.InStock - w.Reserved
}

// WarehouseItemDetails — складская запись, обогащённая данными товара для отчётов.
type WarehouseItemDetails struct {
	WarehouseID   int64
	ProductID     int64
	ArticleNumber string
	Title         string
	InStock       int64
	Reserved      int64
	Available     int64
}
