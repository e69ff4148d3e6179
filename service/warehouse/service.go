package warehouse

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopster/domain"
	"github.com/vladislavdragonenkov/shopster/internal/metrics"
)

// Service описывает операции над складским учётом тенанта.
type Service interface {
	GetAll(ctx context.Context, tenantID uuid.UUID) ([]domain.WarehouseItem, error)
	// GetAllWithDetails дополняет складские записи артикулом и названием товара.
	GetAllWithDetails(ctx context.Context, tenantID uuid.UUID) ([]domain.WarehouseItemDetails, error)
	GetByProductID(ctx context.Context, tenantID uuid.UUID, productID int64) (domain.WarehouseItem, error)
	Insert(ctx context.Context, tenantID uuid.UUID, item domain.WarehouseItem) (domain.WarehouseItem, error)
	UpdateByProductID(ctx context.Context, tenantID uuid.UUID, productID int64, item domain.WarehouseItem) (domain.WarehouseItem, error)
	RemoveByProductID(ctx context.Context, tenantID uuid.UUID, productID int64) (bool, error)
	// ApplyReservedDelta применяет знаковую дельту к резерву товара.
	// Итоговый резерв не может быть отрицательным.
	ApplyReservedDelta(ctx context.Context, tenantID uuid.UUID, productID int64, delta int64) (domain.WarehouseItem, error)
}

type service struct {
	router  domain.StorageRouter
	logger  *log.Entry
	metrics *metrics.LedgerMetrics
}

// NewService создаёт сервис складского учёта.
func NewService(router domain.StorageRouter, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "warehouse")
	}
	return &service{
		router:  router,
		logger:  logger,
		metrics: metrics.NewLedgerMetrics(),
	}
}

// NewServiceWithoutMetrics создаёт сервис складского учёта без метрик (для тестов).
func NewServiceWithoutMetrics(router domain.StorageRouter, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "warehouse")
	}
	return &service{router: router, logger: logger}
}

func (s *service) GetAll(ctx context.Context, tenantID uuid.UUID) ([]domain.WarehouseItem, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return storage.Warehouse().GetAll()
}

func (s *service) GetAllWithDetails(ctx context.Context, tenantID uuid.UUID) ([]domain.WarehouseItemDetails, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return storage.Warehouse().GetAllWithDetails()
}

func (s *service) GetByProductID(ctx context.Context, tenantID uuid.UUID, productID int64) (domain.WarehouseItem, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.WarehouseItem{}, err
	}
	return storage.Warehouse().Get(productID)
}

func (s *service) Insert(ctx context.Context, tenantID uuid.UUID, item domain.WarehouseItem) (domain.WarehouseItem, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.WarehouseItem{}, err
	}
	return storage.Warehouse().Insert(item)
}

func (s *service) UpdateByProductID(ctx context.Context, tenantID uuid.UUID, productID int64, item domain.WarehouseItem) (domain.WarehouseItem, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.WarehouseItem{}, err
	}
	return storage.Warehouse().UpdateByProductID(productID, item)
}

func (s *service) RemoveByProductID(ctx context.Context, tenantID uuid.UUID, productID int64) (bool, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return storage.Warehouse().DeleteByProductID(productID)
}

func (s *service) ApplyReservedDelta(ctx context.Context, tenantID uuid.UUID, productID int64, delta int64) (domain.WarehouseItem, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.WarehouseItem{}, err
	}

	item, err := storage.Warehouse().ApplyReservedDelta(productID, delta)
	if err != nil {
		if s.metrics != nil && domain.IsInvalidOperation(err) {
			s.metrics.RecordDeltaRejected()
		}
		return domain.WarehouseItem{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordDeltaApplied()
	}
	s.logger.WithFields(log.Fields{
		"product_id": productID,
		"delta":      delta,
		"reserved":   item.Reserved,
	}).Debug("reserved delta applied")
	return item, nil
}
