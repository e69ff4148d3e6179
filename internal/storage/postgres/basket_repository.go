package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopster/domain"
)

type basketRepository struct {
	storage *Storage
}

func (r *basketRepository) Get(basketID uuid.UUID) (domain.Basket, error) {
	ctx, cancel := opContext()
	defer cancel()

	var (
		basket    domain.Basket
		updatedAt sql.NullTime
	)
	err := r.storage.q.QueryRowContext(ctx,
		"SELECT id, created_at, updated_at FROM baskets WHERE id = $1", basketID,
	).Scan(&basket.ID, &basket.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Basket{}, fmt.Errorf("basket %s: %w", basketID, domain.ErrNotFound)
		}
		return domain.Basket{}, fmt.Errorf("select basket: %w", err)
	}
	if updatedAt.Valid {
		basket.UpdatedAt = &updatedAt.Time
	}

	products, err := r.Products(basketID)
	if err != nil {
		return domain.Basket{}, err
	}
	basket.Products = products
	return basket, nil
}

func (r *basketRepository) Add() (uuid.UUID, error) {
	ctx, cancel := opContext()
	defer cancel()

	basketID := uuid.New()
	if _, err := r.storage.q.ExecContext(ctx,
		"INSERT INTO baskets (id, created_at, updated_at) VALUES ($1, NOW(), NULL)", basketID,
	); err != nil {
		return uuid.Nil, fmt.Errorf("insert basket: %w", err)
	}
	return basketID, nil
}

func (r *basketRepository) Delete(basketID uuid.UUID) (bool, error) {
	ctx, cancel := opContext()
	defer cancel()

	// Позиции удаляются каскадом.
	result, err := r.storage.q.ExecContext(ctx, "DELETE FROM baskets WHERE id = $1", basketID)
	if err != nil {
		return false, fmt.Errorf("delete basket: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete basket affected: %w", err)
	}
	return affected > 0, nil
}

func (r *basketRepository) Products(basketID uuid.UUID) ([]domain.BasketProduct, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.storage.q.QueryContext(ctx,
		"SELECT id, product_id, quantity FROM basketproducts WHERE basket_id = $1 ORDER BY id", basketID)
	if err != nil {
		return nil, fmt.Errorf("select basket products: %w", err)
	}
	defer rows.Close()

	var products []domain.BasketProduct
	for rows.Next() {
		var p domain.BasketProduct
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan basket product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate basket products: %w", err)
	}
	return products, nil
}

// AddProduct добавляет товар в корзину; существующая позиция увеличивается.
func (r *basketRepository) AddProduct(basketID uuid.UUID, productID int64, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: basket quantity must be greater than zero", domain.ErrInvalidOperation)
	}

	return r.storage.WithinTx(func(tx domain.TenantStorage) error {
		repo := tx.(*Storage)
		ctx, cancel := opContext()
		defer cancel()

		result, err := repo.q.ExecContext(ctx, `
			UPDATE basketproducts SET quantity = quantity + $3
			WHERE basket_id = $1 AND product_id = $2
		`, basketID, productID, quantity)
		if err != nil {
			return fmt.Errorf("update basket product: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update basket product affected: %w", err)
		}
		if affected > 0 {
			return r.touch(repo, basketID)
		}

		if _, err := repo.q.ExecContext(ctx, `
			INSERT INTO basketproducts (basket_id, product_id, quantity)
			VALUES ($1, $2, $3)
		`, basketID, productID, quantity); err != nil {
			return fmt.Errorf("insert basket product: %w", err)
		}
		return r.touch(repo, basketID)
	})
}

// RemoveProduct уменьшает количество товара (nil — на единицу);
// позиция с неположительным остатком удаляется целиком.
func (r *basketRepository) RemoveProduct(basketID uuid.UUID, productID int64, quantity *int64) error {
	amount := int64(1)
	if quantity != nil {
		amount = *quantity
	}
	if amount <= 0 {
		return fmt.Errorf("%w: basket quantity must be greater than zero", domain.ErrInvalidOperation)
	}

	return r.storage.WithinTx(func(tx domain.TenantStorage) error {
		repo := tx.(*Storage)
		ctx, cancel := opContext()
		defer cancel()

		if _, err := repo.q.ExecContext(ctx, `
			UPDATE basketproducts SET quantity = quantity - $3
			WHERE basket_id = $1 AND product_id = $2
		`, basketID, productID, amount); err != nil {
			return fmt.Errorf("decrement basket product: %w", err)
		}
		if _, err := repo.q.ExecContext(ctx, `
			DELETE FROM basketproducts
			WHERE basket_id = $1 AND product_id = $2 AND quantity <= 0
		`, basketID, productID); err != nil {
			return fmt.Errorf("delete drained basket product: %w", err)
		}
		return r.touch(repo, basketID)
	})
}

func (r *basketRepository) Clear(basketID uuid.UUID) error {
	return r.storage.WithinTx(func(tx domain.TenantStorage) error {
		repo := tx.(*Storage)
		ctx, cancel := opContext()
		defer cancel()

		if _, err := repo.q.ExecContext(ctx,
			"DELETE FROM basketproducts WHERE basket_id = $1", basketID); err != nil {
			return fmt.Errorf("clear basket: %w", err)
		}
		return r.touch(repo, basketID)
	})
}

func (r *basketRepository) touch(repo *Storage, basketID uuid.UUID) error {
	ctx, cancel := opContext()
	defer cancel()

	if _, err := repo.q.ExecContext(ctx,
		"UPDATE baskets SET updated_at = NOW() WHERE id = $1", basketID); err != nil {
		return fmt.Errorf("touch basket: %w", err)
	}
	return nil
}
