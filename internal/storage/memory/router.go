package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopster/domain"
)

// Router — in-memory реализация domain.StorageRouter. Каждому
// зарегистрированному тенанту соответствует отдельное хранилище,
// поэтому изоляция данных между тенантами сохраняется и в тестах.
type Router struct {
	mu       sync.Mutex
	storages map[uuid.UUID]*Storage
}

// NewRouter создаёт роутер без зарегистрированных тенантов.
func NewRouter() *Router {
	return &Router{storages: make(map[uuid.UUID]*Storage)}
}

// RegisterTenant создаёт пустое хранилище для тенанта и возвращает его.
// Повторная регистрация возвращает уже существующее хранилище.
func (r *Router) RegisterTenant(tenantID uuid.UUID) *Storage {
	r.mu.Lock()
	defer r.mu.Unlock()

	if storage, ok := r.storages[tenantID]; ok {
		return storage
	}
	storage := NewStorage()
	r.storages[tenantID] = storage
	return storage
}

// Storage возвращает хранилище тенанта или ErrTenantNotFound.
func (r *Router) Storage(_ context.Context, tenantID uuid.UUID) (domain.TenantStorage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	storage, ok := r.storages[tenantID]
	if !ok {
		return nil, fmt.Errorf("tenant %s: %w", tenantID, domain.ErrTenantNotFound)
	}
	return storage, nil
}
