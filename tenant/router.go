package tenant

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopster/domain"
	"github.com/vladislavdragonenkov/shopster/internal/metrics"
	"github.com/vladislavdragonenkov/shopster/internal/storage/postgres"
)

// Opener открывает готовое к работе хранилище тенанта по строке подключения,
// включая provisioning базы и применение миграций.
type Opener func(ctx context.Context, connectionString string) (domain.TenantStorage, error)

// Router сопоставляет тенанту его хранилище, лениво выполняя provisioning
// при первом обращении и кэшируя результат на всё время жизни процесса.
// Создаётся конструктором и не держит глобального состояния.
type Router struct {
	directory Directory
	open      Opener
	logger    *log.Entry
	metrics   *metrics.RouterMetrics

	// mu защищает только карту записей; provisioning конкретного тенанта
	// сериализуется мьютексом его записи, чтобы первый доступ к одному
	// тенанту не блокировал остальных.
	mu      sync.Mutex
	entries map[uuid.UUID]*tenantEntry
}

type tenantEntry struct {
	mu      sync.Mutex
	storage domain.TenantStorage
}

// NewRouter создаёт маршрутизатор с PostgreSQL-хранилищами.
func NewRouter(directory Directory, logger *log.Entry) *Router {
	if logger == nil {
		logger = log.WithField("component", "tenant-router")
	}
	open := func(ctx context.Context, connectionString string) (domain.TenantStorage, error) {
		return postgres.Provision(ctx, connectionString, logger)
	}
	return NewRouterWithOpener(directory, open, logger)
}

// NewRouterWithOpener создаёт маршрутизатор с внешним Opener.
// Используется тестами, чтобы наблюдать provisioning без реальной базы.
func NewRouterWithOpener(directory Directory, open Opener, logger *log.Entry) *Router {
	if logger == nil {
		logger = log.WithField("component", "tenant-router")
	}
	return &Router{
		directory: directory,
		open:      open,
		logger:    logger,
		metrics:   metrics.NewRouterMetrics(),
		entries:   make(map[uuid.UUID]*tenantEntry),
	}
}

// Storage возвращает хранилище тенанта. Первый вызов для тенанта выполняет
// provisioning ровно один раз даже при конкурентных обращениях; повторные
// вызовы отдают кэшированное хранилище без какой-либо дополнительной работы.
func (r *Router) Storage(ctx context.Context, tenantID uuid.UUID) (domain.TenantStorage, error) {
	entry := r.entry(tenantID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.storage != nil {
		return entry.storage, nil
	}

	storage, err := r.provision(ctx, tenantID)
	if err != nil {
		// Запись остаётся пустой: следующий вызов повторит provisioning.
		return nil, err
	}

	entry.storage = storage
	r.metrics.RecordProvisioned()
	return storage, nil
}

func (r *Router) provision(ctx context.Context, tenantID uuid.UUID) (domain.TenantStorage, error) {
	logger := r.logger.WithField("tenant_id", tenantID.String())
	logger.Info("provisioning tenant storage")

	descriptors, err := r.directory.ResolveTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("resolve tenant %s: %w", tenantID, err)
	}
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("%w: tenant %s has no storage descriptors", domain.ErrTenantStorageNotFound, tenantID)
	}

	// Используется только первый дескриптор.
	descriptor := descriptors[0]
	if descriptor.ConnectionString == "" {
		return nil, fmt.Errorf("%w: tenant %s storage has empty connection string", domain.ErrTenantStorageNotFound, tenantID)
	}

	storage, err := r.open(ctx, descriptor.ConnectionString)
	if err != nil {
		if domain.IsMigrationFailed(err) {
			r.metrics.RecordMigrationFailure()
		}
		r.metrics.RecordProvisioningFailure()
		logger.WithError(err).Error("tenant storage provisioning failed")
		return nil, err
	}

	logger.Info("tenant storage provisioned")
	return storage, nil
}

// RegisterDefault регистрирует хранилище по строке подключения в обход
// справочника: генерирует новый tenant_id, открывает и мигрирует базу,
// кэширует её. Применяется для bootstrap-сценариев и тестов.
func (r *Router) RegisterDefault(ctx context.Context, connectionString string) (uuid.UUID, error) {
	tenantID := uuid.New()

	storage, err := r.open(ctx, connectionString)
	if err != nil {
		if domain.IsMigrationFailed(err) {
			r.metrics.RecordMigrationFailure()
		}
		r.metrics.RecordProvisioningFailure()
		return uuid.Nil, fmt.Errorf("register default storage: %w", err)
	}

	entry := r.entry(tenantID)
	entry.mu.Lock()
	entry.storage = storage
	entry.mu.Unlock()

	r.metrics.RecordProvisioned()
	r.logger.WithField("tenant_id", tenantID.String()).Info("default tenant storage registered")
	return tenantID, nil
}

// Ping проверяет доступность всех кэшированных хранилищ.
func (r *Router) Ping(ctx context.Context) error {
	for tenantID, storage := range r.cached() {
		if err := storage.Ping(ctx); err != nil {
			return fmt.Errorf("ping tenant %s: %w", tenantID, err)
		}
	}
	return nil
}

// Close закрывает все кэшированные хранилища. Маршрутизатор после этого
// непригоден к использованию.
func (r *Router) Close() error {
	var firstErr error
	for tenantID, storage := range r.cached() {
		if err := storage.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close tenant %s storage: %w", tenantID, err)
		}
		r.metrics.RecordClosed()
	}

	r.mu.Lock()
	r.entries = make(map[uuid.UUID]*tenantEntry)
	r.mu.Unlock()

	return firstErr
}

func (r *Router) entry(tenantID uuid.UUID) *tenantEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[tenantID]
	if !ok {
		entry = &tenantEntry{}
		r.entries[tenantID] = entry
	}
	return entry
}

func (r *Router) cached() map[uuid.UUID]domain.TenantStorage {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make(map[uuid.UUID]domain.TenantStorage, len(r.entries))
	for tenantID, entry := range r.entries {
		entry.mu.Lock()
		if entry.storage != nil {
			result[tenantID] = entry.storage
		}
		entry.mu.Unlock()
	}
	return result
}
