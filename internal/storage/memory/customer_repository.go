package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopster/domain"
)

type customerRepository struct {
	s *Storage
}

func (r *customerRepository) Get(id uuid.UUID) (domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	customer, ok := r.s.customers[id]
	if !ok {
		return domain.Customer{}, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	return customer, nil
}

func (r *customerRepository) GetAll() ([]domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sortedLocked(nil), nil
}

func (r *customerRepository) FindByEmail(email string) (domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, customer := range r.s.customers {
		if customer.Email == email {
			return customer, nil
		}
	}
	return domain.Customer{}, fmt.Errorf("customer with email %s: %w", email, domain.ErrNotFound)
}

func (r *customerRepository) Insert(customer domain.Customer) (domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.CreatedAt = time.Now().UTC()
	customer.UpdatedAt = nil
	r.s.customers[customer.ID] = customer
	return customer, nil
}

func (r *customerRepository) Update(id uuid.UUID, customer domain.Customer) (domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.customers[id]
	if !ok {
		return domain.Customer{}, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}

	now := time.Now().UTC()
	customer.ID = id
	customer.CreatedAt = existing.CreatedAt
	customer.UpdatedAt = &now
	r.s.customers[id] = customer
	return customer, nil
}

func (r *customerRepository) Delete(id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.customers[id]; !ok {
		return false, nil
	}
	delete(r.s.customers, id)
	return true, nil
}

func (r *customerRepository) Count() (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.customers)), nil
}

func (r *customerRepository) Search(term string) ([]domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	needle := strings.ToLower(term)
	match := func(c domain.Customer) bool {
		return strings.Contains(strings.ToLower(c.Email), needle) ||
			strings.Contains(strings.ToLower(c.FullName), needle)
	}
	return r.sortedLocked(match), nil
}

func (r *customerRepository) GetPage(page, perPage int64) ([]domain.Customer, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	r.s.mu.Lock()
	all := r.sortedLocked(nil)
	r.s.mu.Unlock()

	offset := (page - 1) * perPage
	if offset >= int64(len(all)) {
		return nil, nil
	}
	end := offset + perPage
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[offset:end], nil
}

func (r *customerRepository) sortedLocked(match func(domain.Customer) bool) []domain.Customer {
	customers := make([]domain.Customer, 0, len(r.s.customers))
	for _, customer := range r.s.customers {
		if match != nil && !match(customer) {
			continue
		}
		customers = append(customers, customer)
	}
	sort.Slice(customers, func(i, j int) bool {
		if !customers[i].CreatedAt.Equal(customers[j].CreatedAt) {
			return customers[i].CreatedAt.Before(customers[j].CreatedAt)
		}
		return customers[i].ID.String() < customers[j].ID.String()
	})
	return customers
}
