package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopster/domain"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = "id, customer_id, status, delivery_address, billing_address, created_at, updated_at"

func (r *orderRepository) Get(id int64) (domain.Order, error) {
	ctx, cancel := opContext()
	defer cancel()
	return r.get(ctx, id, false)
}

// Lock читает заказ с блокировкой строки. Вне транзакции FOR UPDATE
// бессмыслен (блокировка отпустится сразу), поэтому откатываемся к Get.
func (r *orderRepository) Lock(id int64) (domain.Order, error) {
	ctx, cancel := opContext()
	defer cancel()
	return r.get(ctx, id, r.storage.inTx)
}

func (r *orderRepository) get(ctx context.Context, id int64, forUpdate bool) (domain.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE id = $1"
	if forUpdate {
		query += " FOR UPDATE"
	}

	order, err := scanOrder(r.storage.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items
	return order, nil
}

func (r *orderRepository) GetAll() ([]domain.Order, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.storage.q.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// Insert сохраняет заказ и его позиции. Вне WithinTx операция выполняется
// в собственной транзакции, чтобы заказ не появился без позиций.
func (r *orderRepository) Insert(order domain.Order) (domain.Order, error) {
	if !r.storage.inTx {
		var created domain.Order
		err := r.storage.WithinTx(func(tx domain.TenantStorage) error {
			var txErr error
			created, txErr = tx.Orders().Insert(order)
			return txErr
		})
		return created, err
	}

	ctx, cancel := opContext()
	defer cancel()

	created := order
	err := r.storage.q.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, status, delivery_address, billing_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NULL)
		RETURNING id, created_at
	`,
		nullableUUID(order.CustomerID), string(order.Status), order.DeliveryAddress, order.BillingAddress,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}
	created.UpdatedAt = nil

	created.Items = make([]domain.OrderItemSnapshot, 0, len(order.Items))
	for _, item := range order.Items {
		stored, err := r.insertItem(ctx, created.ID, item)
		if err != nil {
			return domain.Order{}, err
		}
		created.Items = append(created.Items, stored)
	}

	return created, nil
}

func (r *orderRepository) insertItem(ctx context.Context, orderID int64, item domain.OrderItemSnapshot) (domain.OrderItemSnapshot, error) {
	tags, err := encodeList(item.Tags)
	if err != nil {
		return domain.OrderItemSnapshot{}, err
	}
	images, err := encodeList(item.AdditionalImages)
	if err != nil {
		return domain.OrderItemSnapshot{}, err
	}

	stored := item
	stored.OrderID = orderID
	err = r.storage.q.QueryRowContext(ctx, `
		INSERT INTO order_items (
			order_id, product_id, quantity, article_number, gtin, title,
			short_description, description, tags, title_image, additional_images,
			price, currency, weight, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW())
		RETURNING id, created_at
	`,
		orderID, item.ProductID, item.Quantity, item.ArticleNumber, item.GTIN, item.Title,
		item.ShortDescription, item.Description, tags, item.TitleImage, images,
		item.Price, item.Currency, item.Weight,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return domain.OrderItemSnapshot{}, fmt.Errorf("insert order item: %w", err)
	}
	return stored, nil
}

// Update меняет заголовок заказа (статус, адреса, покупателя).
// Позиции — неизменяемые снапшоты, они не трогаются.
func (r *orderRepository) Update(id int64, order domain.Order) (domain.Order, error) {
	ctx, cancel := opContext()
	defer cancel()

	updated, err := scanOrder(r.storage.q.QueryRowContext(ctx, `
		UPDATE orders
		SET customer_id = $2, status = $3, delivery_address = $4, billing_address = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		id, nullableUUID(order.CustomerID), string(order.Status), order.DeliveryAddress, order.BillingAddress,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	updated.Items = items
	return updated, nil
}

func (r *orderRepository) Delete(id int64) (bool, error) {
	ctx, cancel := opContext()
	defer cancel()

	// Позиции удаляются каскадом (FK order_items.order_id).
	result, err := r.storage.q.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete order affected: %w", err)
	}
	return affected > 0, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID int64) ([]domain.OrderItemSnapshot, error) {
	rows, err := r.storage.q.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, article_number, gtin, title,
		       short_description, description, tags, title_image, additional_images,
		       price, currency, weight, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItemSnapshot
	for rows.Next() {
		var (
			item   domain.OrderItemSnapshot
			tags   string
			images string
		)
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.ArticleNumber, &item.GTIN, &item.Title,
			&item.ShortDescription, &item.Description, &tags, &item.TitleImage, &images,
			&item.Price, &item.Currency, &item.Weight, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.Tags = decodeList(tags)
		item.AdditionalImages = decodeList(images)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order      domain.Order
		customerID uuid.NullUUID
		status     string
		updatedAt  sql.NullTime
	)
	if err := row.Scan(&order.ID, &customerID, &status, &order.DeliveryAddress, &order.BillingAddress, &order.CreatedAt, &updatedAt); err != nil {
		return domain.Order{}, err
	}

	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return domain.Order{}, err
	}
	order.Status = parsed

	if customerID.Valid {
		id := customerID.UUID
		order.CustomerID = &id
	}
	if updatedAt.Valid {
		order.UpdatedAt = &updatedAt.Time
	}
	return order, nil
}

func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
