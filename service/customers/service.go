package customers

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopster/domain"
)

// Service описывает операции над покупателями тенанта.
type Service interface {
	Get(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (domain.Customer, error)
	GetAll(ctx context.Context, tenantID uuid.UUID) ([]domain.Customer, error)
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (domain.Customer, error)
	Insert(ctx context.Context, tenantID uuid.UUID, customer domain.Customer) (domain.Customer, error)
	Update(ctx context.Context, tenantID uuid.UUID, id uuid.UUID, customer domain.Customer) (domain.Customer, error)
	Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (bool, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int64, error)
	// Search ищет по подстроке в email и полном имени.
	Search(ctx context.Context, tenantID uuid.UUID, term string) ([]domain.Customer, error)
	// GetPage возвращает страницу покупателей; нумерация страниц с единицы.
	GetPage(ctx context.Context, tenantID uuid.UUID, page, perPage int64) ([]domain.Customer, error)
}

type service struct {
	router domain.StorageRouter
	logger *log.Entry
}

// NewService создаёт сервис покупателей.
func NewService(router domain.StorageRouter, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "customers")
	}
	return &service{router: router, logger: logger}
}

func (s *service) Get(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (domain.Customer, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Customer{}, err
	}
	return storage.Customers().Get(id)
}

func (s *service) GetAll(ctx context.Context, tenantID uuid.UUID) ([]domain.Customer, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return storage.Customers().GetAll()
}

func (s *service) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (domain.Customer, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Customer{}, err
	}
	return storage.Customers().FindByEmail(email)
}

func (s *service) Insert(ctx context.Context, tenantID uuid.UUID, customer domain.Customer) (domain.Customer, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Customer{}, err
	}
	return storage.Customers().Insert(customer)
}

func (s *service) Update(ctx context.Context, tenantID uuid.UUID, id uuid.UUID, customer domain.Customer) (domain.Customer, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Customer{}, err
	}
	return storage.Customers().Update(id, customer)
}

func (s *service) Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (bool, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return storage.Customers().Delete(id)
}

func (s *service) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return storage.Customers().Count()
}

func (s *service) Search(ctx context.Context, tenantID uuid.UUID, term string) ([]domain.Customer, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return storage.Customers().Search(term)
}

func (s *service) GetPage(ctx context.Context, tenantID uuid.UUID, page, perPage int64) ([]domain.Customer, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return storage.Customers().GetPage(page, perPage)
}
