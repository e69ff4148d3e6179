package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/shopster/domain"
)

type warehouseRepository struct {
	storage *Storage
}

const warehouseColumns = "id, product_id, in_stock, reserved, created_at, updated_at"

func (r *warehouseRepository) Get(productID int64) (domain.WarehouseItem, error) {
	ctx, cancel := opContext()
	defer cancel()
	return r.get(ctx, productID, false)
}

func (r *warehouseRepository) get(ctx context.Context, productID int64, forUpdate bool) (domain.WarehouseItem, error) {
	query := "SELECT " + warehouseColumns + " FROM warehouse WHERE product_id = $1"
	if forUpdate {
		query += " FOR UPDATE"
	}

	item, err := scanWarehouseItem(r.storage.q.QueryRowContext(ctx, query, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WarehouseItem{}, fmt.Errorf("warehouse row for product %d: %w", productID, domain.ErrNotFound)
		}
		return domain.WarehouseItem{}, fmt.Errorf("select warehouse row: %w", err)
	}
	return item, nil
}

func (r *warehouseRepository) GetAll() ([]domain.WarehouseItem, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.storage.q.QueryContext(ctx, "SELECT "+warehouseColumns+" FROM warehouse ORDER BY product_id")
	if err != nil {
		return nil, fmt.Errorf("select warehouse rows: %w", err)
	}
	defer rows.Close()

	var items []domain.WarehouseItem
	for rows.Next() {
		item, err := scanWarehouseItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warehouse rows: %w", err)
	}
	return items, nil
}

// GetAllWithDetails объединяет склад с каталогом для отчётов; товары без
// складской строки и складские строки без товара не попадают в выборку.
func (r *warehouseRepository) GetAllWithDetails() ([]domain.WarehouseItemDetails, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.storage.q.QueryContext(ctx, `
		SELECT w.id, w.product_id, p.article_number, p.title, w.in_stock, w.reserved
		FROM warehouse w
		JOIN products p ON p.id = w.product_id
		ORDER BY w.product_id
	`)
	if err != nil {
		return nil, fmt.Errorf("select warehouse details: %w", err)
	}
	defer rows.Close()

	var details []domain.WarehouseItemDetails
	for rows.Next() {
		var d domain.WarehouseItemDetails
		if err := rows.Scan(&d.WarehouseID, &d.ProductID, &d.ArticleNumber, &d.Title, &d.InStock, &d.Reserved); err != nil {
			return nil, fmt.Errorf("scan warehouse details: %w", err)
		}
		d.Available = d.InStock - d.Reserved
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warehouse details: %w", err)
	}
	return details, nil
}

func (r *warehouseRepository) Insert(item domain.WarehouseItem) (domain.WarehouseItem, error) {
	ctx, cancel := opContext()
	defer cancel()
	return r.insert(ctx, item)
}

func (r *warehouseRepository) insert(ctx context.Context, item domain.WarehouseItem) (domain.WarehouseItem, error) {
	created, err := scanWarehouseItem(r.storage.q.QueryRowContext(ctx, `
		INSERT INTO warehouse (product_id, in_stock, reserved, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NULL)
		RETURNING `+warehouseColumns,
		item.ProductID, item.InStock, item.Reserved,
	))
	if err != nil {
		return domain.WarehouseItem{}, fmt.Errorf("insert warehouse row: %w", err)
	}
	return created, nil
}

func (r *warehouseRepository) UpdateByProductID(productID int64, item domain.WarehouseItem) (domain.WarehouseItem, error) {
	ctx, cancel := opContext()
	defer cancel()

	updated, err := scanWarehouseItem(r.storage.q.QueryRowContext(ctx, `
		UPDATE warehouse
		SET in_stock = $2, reserved = $3, updated_at = NOW()
		WHERE product_id = $1
		RETURNING `+warehouseColumns,
		productID, item.InStock, item.Reserved,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WarehouseItem{}, fmt.Errorf("warehouse row for product %d: %w", productID, domain.ErrNotFound)
		}
		return domain.WarehouseItem{}, fmt.Errorf("update warehouse row: %w", err)
	}
	return updated, nil
}

func (r *warehouseRepository) DeleteByProductID(productID int64) (bool, error) {
	ctx, cancel := opContext()
	defer cancel()

	result, err := r.storage.q.ExecContext(ctx, "DELETE FROM warehouse WHERE product_id = $1", productID)
	if err != nil {
		return false, fmt.Errorf("delete warehouse row: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete warehouse row affected: %w", err)
	}
	return affected > 0, nil
}

// ApplyReservedDelta применяет знаковую дельту к reserved под блокировкой строки.
// Вне транзакции операция заворачивается в собственную; внутри WithinTx
// становится частью общей транзакции заказа.
func (r *warehouseRepository) ApplyReservedDelta(productID int64, delta int64) (domain.WarehouseItem, error) {
	if !r.storage.inTx {
		var item domain.WarehouseItem
		err := r.storage.WithinTx(func(tx domain.TenantStorage) error {
			var txErr error
			item, txErr = tx.Warehouse().ApplyReservedDelta(productID, delta)
			return txErr
		})
		return item, err
	}

	ctx, cancel := opContext()
	defer cancel()

	existing, err := r.get(ctx, productID, true)
	if domain.IsNotFound(err) {
		// Строки ещё нет: in_stock подразумевается нулевым.
		if delta < 0 {
			return domain.WarehouseItem{}, fmt.Errorf("%w: reserved stock cannot be negative", domain.ErrInvalidOperation)
		}
		return r.insert(ctx, domain.WarehouseItem{ProductID: productID, InStock: 0, Reserved: delta})
	}
	if err != nil {
		return domain.WarehouseItem{}, err
	}

	newReserved := existing.Reserved + delta
	if newReserved < 0 {
		return domain.WarehouseItem{}, fmt.Errorf("%w: reserved stock cannot be negative", domain.ErrInvalidOperation)
	}

	updated, err := scanWarehouseItem(r.storage.q.QueryRowContext(ctx, `
		UPDATE warehouse
		SET reserved = $2, updated_at = NOW()
		WHERE product_id = $1
		RETURNING `+warehouseColumns,
		productID, newReserved,
	))
	if err != nil {
		return domain.WarehouseItem{}, fmt.Errorf("update reserved stock: %w", err)
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWarehouseItem(row rowScanner) (domain.WarehouseItem, error) {
	var (
		item      domain.WarehouseItem
		updatedAt sql.NullTime
	)
	if err := row.Scan(&item.ID, &item.ProductID, &item.InStock, &item.Reserved, &item.CreatedAt, &updatedAt); err != nil {
		return domain.WarehouseItem{}, err
	}
	if updatedAt.Valid {
		item.UpdatedAt = &updatedAt.Time
	}
	return item, nil
}
