package baskets

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopster/domain"
)

// Service описывает операции над корзинами тенанта.
type Service interface {
	Get(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID) (domain.Basket, error)
	// Add создаёт пустую корзину и возвращает её идентификатор.
	Add(ctx context.Context, tenantID uuid.UUID) (uuid.UUID, error)
	Delete(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID) (bool, error)
	Products(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID) ([]domain.BasketProduct, error)
	AddProduct(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID, productID int64, quantity int64) error
	// RemoveProduct уменьшает количество товара; nil quantity снимает одну единицу.
	RemoveProduct(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID, productID int64, quantity *int64) error
	Clear(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID) error
}

type service struct {
	router domain.StorageRouter
	logger *log.Entry
}

// NewService создаёт сервис корзин.
func NewService(router domain.StorageRouter, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "baskets")
	}
	return &service{router: router, logger: logger}
}

func (s *service) Get(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID) (domain.Basket, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Basket{}, err
	}
	return storage.Baskets().Get(basketID)
}

func (s *service) Add(ctx context.Context, tenantID uuid.UUID) (uuid.UUID, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return uuid.Nil, err
	}
	return storage.Baskets().Add()
}

func (s *service) Delete(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID) (bool, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return storage.Baskets().Delete(basketID)
}

func (s *service) Products(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID) ([]domain.BasketProduct, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return storage.Baskets().Products(basketID)
}

func (s *service) AddProduct(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID, productID int64, quantity int64) error {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return err
	}
	return storage.Baskets().AddProduct(basketID, productID, quantity)
}

func (s *service) RemoveProduct(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID, productID int64, quantity *int64) error {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return err
	}
	return storage.Baskets().RemoveProduct(basketID, productID, quantity)
}

func (s *service) Clear(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID) error {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return err
	}
	return storage.Baskets().Clear(basketID)
}
