package products

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopster/domain"
)

// Service описывает операции над каталогом товаров тенанта.
type Service interface {
	Get(ctx context.Context, tenantID uuid.UUID, id int64) (domain.Product, error)
	GetAll(ctx context.Context, tenantID uuid.UUID) ([]domain.Product, error)
	Insert(ctx context.Context, tenantID uuid.UUID, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, tenantID uuid.UUID, id int64, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, tenantID uuid.UUID, id int64) (bool, error)
}

type service struct {
	router domain.StorageRouter
	logger *log.Entry
}

// NewService создаёт сервис каталога.
func NewService(router domain.StorageRouter, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "products")
	}
	return &service{router: router, logger: logger}
}

func (s *service) Get(ctx context.Context, tenantID uuid.UUID, id int64) (domain.Product, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Product{}, err
	}
	return storage.Products().Get(id)
}

func (s *service) GetAll(ctx context.Context, tenantID uuid.UUID) ([]domain.Product, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return storage.Products().GetAll()
}

func (s *service) Insert(ctx context.Context, tenantID uuid.UUID, product domain.Product) (domain.Product, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Product{}, err
	}
	return storage.Products().Insert(product)
}

func (s *service) Update(ctx context.Context, tenantID uuid.UUID, id int64, product domain.Product) (domain.Product, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Product{}, err
	}
	return storage.Products().Update(id, product)
}

func (s *service) Delete(ctx context.Context, tenantID uuid.UUID, id int64) (bool, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return storage.Products().Delete(id)
}
