package tenant

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopster/domain"
)

// StorageDescriptor описывает одно хранилище тенанта из справочника.
type StorageDescriptor struct {
	// ConnectionString — DSN базы тенанта. Пустая строка — дескриптор непригоден.
	ConnectionString string
	// Kind — тип хранилища (сейчас поддерживается только "postgresql").
	Kind string
}

// Directory — внешний справочник тенантов. Маршрутизатор только читает его.
type Directory interface {
	// ResolveTenant возвращает дескрипторы хранилищ тенанта.
	// Неизвестный тенант — ErrTenantNotFound.
	ResolveTenant(ctx context.Context, tenantID uuid.UUID) ([]StorageDescriptor, error)
}

// StaticDirectory — потокобезопасный справочник в памяти для bootstrap и тестов.
type StaticDirectory struct {
	mu      sync.RWMutex
	tenants map[uuid.UUID][]StorageDescriptor
}

// NewStaticDirectory создаёт пустой справочник.
func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{tenants: make(map[uuid.UUID][]StorageDescriptor)}
}

// AddTenant регистрирует тенанта с его дескрипторами (перезаписывает существующего).
func (d *StaticDirectory) AddTenant(tenantID uuid.UUID, descriptors ...StorageDescriptor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tenants[tenantID] = append([]StorageDescriptor(nil), descriptors...)
}

// ResolveTenant возвращает дескрипторы тенанта или ErrTenantNotFound.
func (d *StaticDirectory) ResolveTenant(_ context.Context, tenantID uuid.UUID) ([]StorageDescriptor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	descriptors, ok := d.tenants[tenantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTenantNotFound, tenantID)
	}
	return append([]StorageDescriptor(nil), descriptors...), nil
}
