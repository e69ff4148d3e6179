package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/shopster/domain"
)

type productRepository struct {
	storage *Storage
}

const productColumns = `id, article_number, gtin, title, short_description, description,
	tags, title_image, additional_images, price, currency, weight, created_at, updated_at`

func (r *productRepository) Get(id int64) (domain.Product, error) {
	ctx, cancel := opContext()
	defer cancel()

	product, err := scanProduct(r.storage.q.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return product, nil
}

func (r *productRepository) GetAll() ([]domain.Product, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.storage.q.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Insert(product domain.Product) (domain.Product, error) {
	ctx, cancel := opContext()
	defer cancel()

	tags, images, price, currency, err := encodeProductFields(product)
	if err != nil {
		return domain.Product{}, err
	}

	created, err := scanProduct(r.storage.q.QueryRowContext(ctx, `
		INSERT INTO products (
			article_number, gtin, title, short_description, description,
			tags, title_image, additional_images, price, currency, weight, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW(),NULL)
		RETURNING `+productColumns,
		product.ArticleNumber, product.GTIN, product.Title, product.ShortDescription, product.Description,
		tags, product.TitleImage, images, price, currency, product.Weight,
	))
	if err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return created, nil
}

func (r *productRepository) Update(id int64, product domain.Product) (domain.Product, error) {
	ctx, cancel := opContext()
	defer cancel()

	tags, images, price, currency, err := encodeProductFields(product)
	if err != nil {
		return domain.Product{}, err
	}

	updated, err := scanProduct(r.storage.q.QueryRowContext(ctx, `
		UPDATE products
		SET article_number = $2, gtin = $3, title = $4, short_description = $5, description = $6,
		    tags = $7, title_image = $8, additional_images = $9, price = $10, currency = $11,
		    weight = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		id, product.ArticleNumber, product.GTIN, product.Title, product.ShortDescription, product.Description,
		tags, product.TitleImage, images, price, currency, product.Weight,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

func (r *productRepository) Delete(id int64) (bool, error) {
	ctx, cancel := opContext()
	defer cancel()

	result, err := r.storage.q.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product affected: %w", err)
	}
	return affected > 0, nil
}

func encodeProductFields(product domain.Product) (tags, images string, price sql.NullInt64, currency sql.NullString, err error) {
	tags, err = encodeList(product.Tags)
	if err != nil {
		return "", "", price, currency, err
	}
	images, err = encodeList(product.AdditionalImages)
	if err != nil {
		return "", "", price, currency, err
	}
	if product.Price != nil {
		price = sql.NullInt64{Int64: product.Price.Amount, Valid: true}
		currency = sql.NullString{String: product.Price.Currency, Valid: true}
	}
	return tags, images, price, currency, nil
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		product   domain.Product
		tags      string
		images    string
		price     sql.NullInt64
		currency  sql.NullString
		updatedAt sql.NullTime
	)
	if err := row.Scan(
		&product.ID, &product.ArticleNumber, &product.GTIN, &product.Title,
		&product.ShortDescription, &product.Description, &tags, &product.TitleImage,
		&images, &price, &currency, &product.Weight, &product.CreatedAt, &updatedAt,
	); err != nil {
		return domain.Product{}, err
	}

	product.Tags = decodeList(tags)
	product.AdditionalImages = decodeList(images)
	if price.Valid {
		product.Price = &domain.Price{Amount: price.Int64, Currency: currency.String}
	}
	if updatedAt.Valid {
		product.UpdatedAt = &updatedAt.Time
	}
	return product, nil
}
