package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus описывает жизненный цикл заказа в магазине.
type OrderStatus string

const (
	// OrderStatusNew — заказ создан, ещё не взят в работу.
	OrderStatusNew OrderStatus = "New"
	// OrderStatusInProgress — заказ собирается.
	OrderStatusInProgress OrderStatus = "InProgress"
	// OrderStatusReadyToShip — заказ собран и ждёт передачи в доставку.
	OrderStatusReadyToShip OrderStatus = "ReadyToShip"
	// OrderStatusShipping — заказ передан в доставку, товар покинул склад.
	OrderStatusShipping OrderStatus = "Shipping"
	// OrderStatusDone — заказ доставлен.
	OrderStatusDone OrderStatus = "Done"
)

// orderStatuses — закрытая таблица соответствий статус ↔ строковое представление в БД.
// Никаких числовых кодов: кодировка строковая и версионируется схемой.
var orderStatuses = map[string]OrderStatus{
	"New":         OrderStatusNew,
	"InProgress":  OrderStatusInProgress,
	"ReadyToShip": OrderStatusReadyToShip,
	"Shipping":    OrderStatusShipping,
	"Done":        OrderStatusDone,
}

// ParseOrderStatus преобразует строковое представление из БД в статус.
// Неизвестное значение — ошибка, а не паника и не молчаливый дефолт.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status, ok := orderStatuses[raw]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOrderStatus, raw)
	}
	return status, nil
}

// Valid сообщает, входит ли статус в закрытый набор значений.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatuses[string(s)]
	return ok
}

// Reserving сообщает, удерживает ли статус складской резерв.
// Резервирующие статусы: New, InProgress, ReadyToShip.
func (s OrderStatus) Reserving() bool {
	switch s {
	case OrderStatusNew, OrderStatusInProgress, OrderStatusReadyToShip:
		return true
	default:
		return false
	}
}

// ReservationDirection возвращает знак дельты резерва при смене статуса:
// +1 — заказ начал резервировать, -1 — перестал, 0 — членство в резервирующем
// наборе не поменялось (даже если конкретный статус сменился).
func ReservationDirection(prev, next OrderStatus) int {
	switch {
	case !prev.Reserving() && next.Reserving():
		return 1
	case prev.Reserving() && !next.Reserving():
		return -1
	default:
		return 0
	}
}

// OrderItemSnapshot — неизменяемая копия товара, снятая в момент оформления заказа.
// Последующие правки товара не меняют исторические заказы.
type OrderItemSnapshot struct {
	ID               int64
	OrderID          int64
	ProductID        int64
	Quantity         int64
	ArticleNumber    string
	GTIN             string
	Title            string
	ShortDescription string
	Description      string
	Tags             []string
	TitleImage       string
	AdditionalImages []string
	// Price — цена за единицу в минимальных денежных единицах на момент заказа.
	Price     int64
	Currency  string
	Weight    int32
	CreatedAt time.Time
}

// Order агрегирует заказ и его позиции-снапшоты.
type Order struct {
	ID              int64
	CustomerID      *uuid.UUID
	Status          OrderStatus
	DeliveryAddress string
	BillingAddress  string
	Items           []OrderItemSnapshot
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if !o.Status.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownOrderStatus, string(o.Status)))
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, fmt.Errorf("%w: item quantity must be greater than zero", ErrInvalidOperation))
		}
		if item.Price < 0 {
			errs = append(errs, fmt.Errorf("%w: item price must be non-negative", ErrInvalidOperation))
		}
	}

	return errs
}
