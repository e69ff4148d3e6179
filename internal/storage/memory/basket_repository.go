package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopster/domain"
)

type basketRepository struct {
	s *Storage
}

func (r *basketRepository) Get(basketID uuid.UUID) (domain.Basket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.locked(basketID)
}

func (r *basketRepository) locked(basketID uuid.UUID) (domain.Basket, error) {
	basket, ok := r.s.baskets[basketID]
	if !ok {
		return domain.Basket{}, fmt.Errorf("basket %s: %w", basketID, domain.ErrNotFound)
	}
	basket.Products = append([]domain.BasketProduct(nil), basket.Products...)
	return basket, nil
}

func (r *basketRepository) Add() (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	basketID := uuid.New()
	r.s.baskets[basketID] = domain.Basket{ID: basketID, CreatedAt: time.Now().UTC()}
	return basketID, nil
}

func (r *basketRepository) Delete(basketID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.baskets[basketID]; !ok {
		return false, nil
	}
	delete(r.s.baskets, basketID)
	return true, nil
}

func (r *basketRepository) Products(basketID uuid.UUID) ([]domain.BasketProduct, error) {
	basket, err := r.Get(basketID)
	if err != nil {
		return nil, err
	}
	return basket.Products, nil
}

func (r *basketRepository) AddProduct(basketID uuid.UUID, productID int64, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: basket quantity must be greater than zero", domain.ErrInvalidOperation)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	basket, err := r.locked(basketID)
	if err != nil {
		return err
	}

	found := false
	for i := range basket.Products {
		if basket.Products[i].ProductID == productID {
			basket.Products[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		r.s.basketItemSeq++
		basket.Products = append(basket.Products, domain.BasketProduct{
			ID:        r.s.basketItemSeq,
			ProductID: productID,
			Quantity:  quantity,
		})
	}

	r.touchLocked(&basket)
	return nil
}

func (r *basketRepository) RemoveProduct(basketID uuid.UUID, productID int64, quantity *int64) error {
	amount := int64(1)
	if quantity != nil {
		amount = *quantity
	}
	if amount <= 0 {
		return fmt.Errorf("%w: basket quantity must be greater than zero", domain.ErrInvalidOperation)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	basket, err := r.locked(basketID)
	if err != nil {
		return err
	}

	remaining := basket.Products[:0]
	for _, p := range basket.Products {
		if p.ProductID == productID {
			p.Quantity -= amount
			if p.Quantity <= 0 {
				continue
			}
		}
		remaining = append(remaining, p)
	}
	basket.Products = remaining

	r.touchLocked(&basket)
	return nil
}

func (r *basketRepository) Clear(basketID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	basket, err := r.locked(basketID)
	if err != nil {
		return err
	}
	basket.Products = nil

	r.touchLocked(&basket)
	return nil
}

func (r *basketRepository) touchLocked(basket *domain.Basket) {
	now := time.Now().UTC()
	basket.UpdatedAt = &now
	r.s.baskets[basket.ID] = *basket
}
