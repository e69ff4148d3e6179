package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/vladislavdragonenkov/shopster/domain"
)

// orderRepository — in-memory реализация OrderRepository.
type orderRepository struct {
	s *Storage
}

func (r *orderRepository) Get(id int64) (domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	return order, nil
}

// Lock в памяти эквивалентен Get: сериализацию даёт WithinTx.
func (r *orderRepository) Lock(id int64) (domain.Order, error) {
	return r.Get(id)
}

func (r *orderRepository) GetAll() ([]domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	orders := make([]domain.Order, 0, len(r.s.orders))
	for _, order := range r.s.orders {
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (r *orderRepository) Insert(order domain.Order) (domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.orderSeq++
	order.ID = r.s.orderSeq
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = nil

	items := make([]domain.OrderItemSnapshot, len(order.Items))
	for i, item := range order.Items {
		r.s.orderItemSeq++
		item.ID = r.s.orderItemSeq
		item.OrderID = order.ID
		item.CreatedAt = order.CreatedAt
		items[i] = item
	}
	order.Items = items

	r.s.orders[order.ID] = order
	return order, nil
}

func (r *orderRepository) Update(id int64, order domain.Order) (domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}

	now := time.Now().UTC()
	existing.CustomerID = order.CustomerID
	existing.Status = order.Status
	existing.DeliveryAddress = order.DeliveryAddress
	existing.BillingAddress = order.BillingAddress
	existing.UpdatedAt = &now
	// Позиции — неизменяемые снапшоты, они не обновляются.
	r.s.orders[id] = existing
	return existing, nil
}

func (r *orderRepository) Delete(id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[id]; !ok {
		return false, nil
	}
	delete(r.s.orders, id)
	return true, nil
}
