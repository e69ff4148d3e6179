package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/vladislavdragonenkov/shopster/domain"
)

type productRepository struct {
	s *Storage
}

func (r *productRepository) Get(id int64) (domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product, ok := r.s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return product, nil
}

func (r *productRepository) GetAll() ([]domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	products := make([]domain.Product, 0, len(r.s.products))
	for _, product := range r.s.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (r *productRepository) Insert(product domain.Product) (domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.productSeq++
	product.ID = r.s.productSeq
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = nil
	r.s.products[product.ID] = product
	return product, nil
}

func (r *productRepository) Update(id int64, product domain.Product) (domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}

	now := time.Now().UTC()
	product.ID = id
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = &now
	r.s.products[id] = product
	return product, nil
}

func (r *productRepository) Delete(id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return false, nil
	}
	delete(r.s.products, id)
	return true, nil
}
