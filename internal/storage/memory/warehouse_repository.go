package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/vladislavdragonenkov/shopster/domain"
)

type warehouseRepository struct {
	s *Storage
}

func (r *warehouseRepository) Get(productID int64) (domain.WarehouseItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.locked(productID)
}

func (r *warehouseRepository) locked(productID int64) (domain.WarehouseItem, error) {
	item, ok := r.s.warehouse[productID]
	if !ok {
		return domain.WarehouseItem{}, fmt.Errorf("warehouse row for product %d: %w", productID, domain.ErrNotFound)
	}
	return item, nil
}

func (r *warehouseRepository) GetAll() ([]domain.WarehouseItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	items := make([]domain.WarehouseItem, 0, len(r.s.warehouse))
	for _, item := range r.s.warehouse {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items, nil
}

func (r *warehouseRepository) GetAllWithDetails() ([]domain.WarehouseItemDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var details []domain.WarehouseItemDetails
	for productID, item := range r.s.warehouse {
		product, ok := r.s.products[productID]
		if !ok {
			// Как и JOIN в PostgreSQL-реализации: строка без товара не попадает в отчёт.
			continue
		}
		details = append(details, domain.WarehouseItemDetails{
			WarehouseID:   item.ID,
			ProductID:     productID,
			ArticleNumber: product.ArticleNumber,
			Title:         product.Title,
			InStock:       item.InStock,
			Reserved:      item.Reserved,
			Available:     item.InStock - item.Reserved,
		})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].ProductID < details[j].ProductID })
	return details, nil
}

func (r *warehouseRepository) Insert(item domain.WarehouseItem) (domain.WarehouseItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.insertLocked(item), nil
}

func (r *warehouseRepository) insertLocked(item domain.WarehouseItem) domain.WarehouseItem {
	r.s.warehouseSeq++
	item.ID = r.s.warehouseSeq
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = nil
	r.s.warehouse[item.ProductID] = item
	return item
}

func (r *warehouseRepository) UpdateByProductID(productID int64, item domain.WarehouseItem) (domain.WarehouseItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, err := r.locked(productID)
	if err != nil {
		return domain.WarehouseItem{}, err
	}

	now := time.Now().UTC()
	existing.InStock = item.InStock
	existing.Reserved = item.Reserved
	existing.UpdatedAt = &now
	r.s.warehouse[productID] = existing
	return existing, nil
}

func (r *warehouseRepository) DeleteByProductID(productID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.warehouse[productID]; !ok {
		return false, nil
	}
	delete(r.s.warehouse, productID)
	return true, nil
}

func (r *warehouseRepository) ApplyReservedDelta(productID int64, delta int64) (domain.WarehouseItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.warehouse[productID]
	if !ok {
		// Строки нет: in_stock подразумевается нулевым.
		if delta < 0 {
			return domain.WarehouseItem{}, fmt.Errorf("%w: reserved stock cannot be negative", domain.ErrInvalidOperation)
		}
		return r.insertLocked(domain.WarehouseItem{ProductID: productID, InStock: 0, Reserved: delta}), nil
	}

	newReserved := existing.Reserved + delta
	if newReserved < 0 {
		return domain.WarehouseItem{}, fmt.Errorf("%w: reserved stock cannot be negative", domain.ErrInvalidOperation)
	}

	now := time.Now().UTC()
	existing.Reserved = newReserved
	existing.UpdatedAt = &now
	r.s.warehouse[productID] = existing
	return existing, nil
}
