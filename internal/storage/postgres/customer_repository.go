package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopster/domain"
)

type customerRepository struct {
	storage *Storage
}

const customerColumns = "id, email, email_verified, algorithm, password, full_name, created_at, updated_at"

func (r *customerRepository) Get(id uuid.UUID) (domain.Customer, error) {
	ctx, cancel := opContext()
	defer cancel()

	customer, err := scanCustomer(r.storage.q.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}
	return customer, nil
}

func (r *customerRepository) GetAll() ([]domain.Customer, error) {
	return r.query("SELECT " + customerColumns + " FROM customers ORDER BY created_at, id")
}

func (r *customerRepository) FindByEmail(email string) (domain.Customer, error) {
	ctx, cancel := opContext()
	defer cancel()

	customer, err := scanCustomer(r.storage.q.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE email = $1", email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, fmt.Errorf("customer with email %s: %w", email, domain.ErrNotFound)
		}
		return domain.Customer{}, fmt.Errorf("select customer by email: %w", err)
	}
	return customer, nil
}

func (r *customerRepository) Insert(customer domain.Customer) (domain.Customer, error) {
	ctx, cancel := opContext()
	defer cancel()

	id := customer.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	created, err := scanCustomer(r.storage.q.QueryRowContext(ctx, `
		INSERT INTO customers (id, email, email_verified, algorithm, password, full_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NULL)
		RETURNING `+customerColumns,
		id, customer.Email, customer.EmailVerified, customer.Algorithm, customer.Password, customer.FullName,
	))
	if err != nil {
		return domain.Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return created, nil
}

func (r *customerRepository) Update(id uuid.UUID, customer domain.Customer) (domain.Customer, error) {
	ctx, cancel := opContext()
	defer cancel()

	updated, err := scanCustomer(r.storage.q.QueryRowContext(ctx, `
		UPDATE customers
		SET email = $2, email_verified = $3, algorithm = $4, password = $5, full_name = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING `+customerColumns,
		id, customer.Email, customer.EmailVerified, customer.Algorithm, customer.Password, customer.FullName,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
		}
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return updated, nil
}

func (r *customerRepository) Delete(id uuid.UUID) (bool, error) {
	ctx, cancel := opContext()
	defer cancel()

	result, err := r.storage.q.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete customer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete customer affected: %w", err)
	}
	return affected > 0, nil
}

func (r *customerRepository) Count() (int64, error) {
	ctx, cancel := opContext()
	defer cancel()

	var count int64
	if err := r.storage.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&count); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return count, nil
}

func (r *customerRepository) Search(term string) ([]domain.Customer, error) {
	return r.query(`
		SELECT `+customerColumns+` FROM customers
		WHERE email ILIKE '%' || $1 || '%' OR full_name ILIKE '%' || $1 || '%'
		ORDER BY created_at, id
	`, term)
}

func (r *customerRepository) GetPage(page, perPage int64) ([]domain.Customer, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	return r.query(`
		SELECT `+customerColumns+` FROM customers
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, perPage, (page-1)*perPage)
}

func (r *customerRepository) query(query string, args ...any) ([]domain.Customer, error) {
	ctx, cancel := opContext()
	defer cancel()

	rows, err := r.storage.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var (
		customer  domain.Customer
		updatedAt sql.NullTime
	)
	if err := row.Scan(
		&customer.ID, &customer.Email, &customer.EmailVerified, &customer.Algorithm,
		&customer.Password, &customer.FullName, &customer.CreatedAt, &updatedAt,
	); err != nil {
		return domain.Customer{}, err
	}
	if updatedAt.Valid {
		customer.UpdatedAt = &updatedAt.Time
	}
	return customer, nil
}
