package settings

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopster/domain"
)

// Service описывает операции над настройками магазина тенанта.
type Service interface {
	Get(ctx context.Context, tenantID uuid.UUID, id int32) (domain.Setting, error)
	GetAll(ctx context.Context, tenantID uuid.UUID) ([]domain.Setting, error)
	GetByTitle(ctx context.Context, tenantID uuid.UUID, title string) (domain.Setting, error)
	Insert(ctx context.Context, tenantID uuid.UUID, setting domain.Setting) (domain.Setting, error)
	UpdateValue(ctx context.Context, tenantID uuid.UUID, id int32, value string) (domain.Setting, error)
	Delete(ctx context.Context, tenantID uuid.UUID, id int32) (bool, error)
}

type service struct {
	router domain.StorageRouter
	logger *log.Entry
}

// NewService создаёт сервис настроек.
func NewService(router domain.StorageRouter, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "settings")
	}
	return &service{router: router, logger: logger}
}

func (s *service) Get(ctx context.Context, tenantID uuid.UUID, id int32) (domain.Setting, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Setting{}, err
	}
	return storage.Settings().Get(id)
}

func (s *service) GetAll(ctx context.Context, tenantID uuid.UUID) ([]domain.Setting, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return storage.Settings().GetAll()
}

func (s *service) GetByTitle(ctx context.Context, tenantID uuid.UUID, title string) (domain.Setting, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Setting{}, err
	}
	return storage.Settings().GetByTitle(title)
}

func (s *service) Insert(ctx context.Context, tenantID uuid.UUID, setting domain.Setting) (domain.Setting, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Setting{}, err
	}
	return storage.Settings().Insert(setting)
}

func (s *service) UpdateValue(ctx context.Context, tenantID uuid.UUID, id int32, value string) (domain.Setting, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Setting{}, err
	}
	return storage.Settings().UpdateValue(id, value)
}

func (s *service) Delete(ctx context.Context, tenantID uuid.UUID, id int32) (bool, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return storage.Settings().Delete(id)
}
