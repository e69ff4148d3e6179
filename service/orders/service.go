package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopster/domain"
	"github.com/vladislavdragonenkov/shopster/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shopster/internal/metrics"
)

// Service описывает операции над заказами тенанта.
type Service interface {
	Get(ctx context.Context, tenantID uuid.UUID, id int64) (domain.Order, error)
	GetAll(ctx context.Context, tenantID uuid.UUID) ([]domain.Order, error)
	// Insert сохраняет заказ; резервирующий статус удерживает склад по каждой позиции.
	Insert(ctx context.Context, tenantID uuid.UUID, order domain.Order) (domain.Order, error)
	// Update меняет шапку заказа; смена статуса проходит через машину состояний.
	Update(ctx context.Context, tenantID uuid.UUID, id int64, order domain.Order) (domain.Order, error)
	// UpdateStatus переводит заказ в новый статус и применяет складские дельты
	// только при смене членства в резервирующем наборе.
	UpdateStatus(ctx context.Context, tenantID uuid.UUID, id int64, status domain.OrderStatus) (domain.Order, error)
	// Delete снимает резерв (если заказ резервировал) и удаляет заказ с позициями.
	Delete(ctx context.Context, tenantID uuid.UUID, id int64) (bool, error)
	// CreateFromBasket собирает заказ из корзины, снимая снапшоты товаров.
	CreateFromBasket(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID, deliveryAddress, billingAddress string) (domain.Order, error)
}

type service struct {
	router   domain.StorageRouter
	producer *kafka.Producer // опциональный producer событий жизненного цикла
	logger   *log.Entry
	metrics  *metrics.LedgerMetrics
}

// NewService создаёт сервис заказов.
func NewService(router domain.StorageRouter, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &service{
		router:  router,
		logger:  logger,
		metrics: metrics.NewLedgerMetrics(),
	}
}

// NewServiceWithKafka создаёт сервис заказов, публикующий события в Kafka.
func NewServiceWithKafka(router domain.StorageRouter, producer *kafka.Producer, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &service{
		router:   router,
		producer: producer,
		logger:   logger,
		metrics:  metrics.NewLedgerMetrics(),
	}
}

// NewServiceWithoutMetrics создаёт сервис заказов без метрик (для тестов).
func NewServiceWithoutMetrics(router domain.StorageRouter, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &service{router: router, logger: logger}
}

func (s *service) Get(ctx context.Context, tenantID uuid.UUID, id int64) (domain.Order, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Order{}, err
	}
	return storage.Orders().Get(id)
}

func (s *service) GetAll(ctx context.Context, tenantID uuid.UUID) ([]domain.Order, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return storage.Orders().GetAll()
}

func (s *service) Insert(ctx context.Context, tenantID uuid.UUID, order domain.Order) (domain.Order, error) {
	if order.Status == "" {
		order.Status = domain.OrderStatusNew
	}
	if err := validate(&order); err != nil {
		return domain.Order{}, err
	}

	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Order{}, err
	}

	var inserted domain.Order
	err = storage.WithinTx(func(tx domain.TenantStorage) error {
		var txErr error
		inserted, txErr = tx.Orders().Insert(order)
		if txErr != nil {
			return txErr
		}
		if inserted.Status.Reserving() {
			return s.applyDeltas(tx, inserted.Items, +1)
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.publishEvent(kafka.EventTypeOrderCreated, tenantID, inserted, nil)
	return inserted, nil
}

func (s *service) Update(ctx context.Context, tenantID uuid.UUID, id int64, order domain.Order) (domain.Order, error) {
	if !order.Status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", domain.ErrUnknownOrderStatus, string(order.Status))
	}

	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Order{}, err
	}

	var updated domain.Order
	var prevStatus domain.OrderStatus
	err = storage.WithinTx(func(tx domain.TenantStorage) error {
		prev, txErr := tx.Orders().Lock(id)
		if txErr != nil {
			return txErr
		}
		prevStatus = prev.Status

		updated, txErr = tx.Orders().Update(id, order)
		if txErr != nil {
			return txErr
		}
		return s.applyDirection(tx, prev.Status, order.Status, prev.Items)
	})
	if err != nil {
		return domain.Order{}, err
	}

	if prevStatus != updated.Status {
		s.publishEvent(kafka.EventTypeOrderStatusChanged, tenantID, updated, map[string]interface{}{
			"previous_status": string(prevStatus),
		})
	}
	return updated, nil
}

func (s *service) UpdateStatus(ctx context.Context, tenantID uuid.UUID, id int64, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", domain.ErrUnknownOrderStatus, string(status))
	}

	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Order{}, err
	}

	var updated domain.Order
	var prevStatus domain.OrderStatus
	err = storage.WithinTx(func(tx domain.TenantStorage) error {
		prev, txErr := tx.Orders().Lock(id)
		if txErr != nil {
			return txErr
		}
		prevStatus = prev.Status

		next := prev
		next.Status = status
		updated, txErr = tx.Orders().Update(id, next)
		if txErr != nil {
			return txErr
		}
		return s.applyDirection(tx, prev.Status, status, prev.Items)
	})
	if err != nil {
		return domain.Order{}, err
	}

	if prevStatus != updated.Status {
		s.publishEvent(kafka.EventTypeOrderStatusChanged, tenantID, updated, map[string]interface{}{
			"previous_status": string(prevStatus),
		})
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, tenantID uuid.UUID, id int64) (bool, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return false, err
	}

	var deleted bool
	var removed domain.Order
	err = storage.WithinTx(func(tx domain.TenantStorage) error {
		prev, txErr := tx.Orders().Lock(id)
		if txErr != nil {
			if errors.Is(txErr, domain.ErrNotFound) {
				return nil
			}
			return txErr
		}
		removed = prev

		if prev.Status.Reserving() {
			if txErr = s.applyDeltas(tx, prev.Items, -1); txErr != nil {
				return txErr
			}
		}
		deleted, txErr = tx.Orders().Delete(id)
		return txErr
	})
	if err != nil {
		return false, err
	}

	if deleted {
		s.publishEvent(kafka.EventTypeOrderDeleted, tenantID, removed, nil)
	}
	return deleted, nil
}

func (s *service) CreateFromBasket(ctx context.Context, tenantID uuid.UUID, basketID uuid.UUID, deliveryAddress, billingAddress string) (domain.Order, error) {
	storage, err := s.router.Storage(ctx, tenantID)
	if err != nil {
		return domain.Order{}, err
	}

	lines, err := storage.Baskets().Products(basketID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(lines) == 0 {
		return domain.Order{}, fmt.Errorf("%w: basket %s is empty", domain.ErrInvalidOperation, basketID)
	}

	items := make([]domain.OrderItemSnapshot, 0, len(lines))
	for _, line := range lines {
		product, err := storage.Products().Get(line.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		if product.Price == nil {
			return domain.Order{}, fmt.Errorf("%w: basket product %d has no price", domain.ErrInvalidOperation, product.ID)
		}
		items = append(items, snapshotProduct(product, line.Quantity))
	}

	order := domain.Order{
		Status:          domain.OrderStatusNew,
		DeliveryAddress: deliveryAddress,
		BillingAddress:  billingAddress,
		Items:           items,
	}

	var inserted domain.Order
	err = storage.WithinTx(func(tx domain.TenantStorage) error {
		var txErr error
		inserted, txErr = tx.Orders().Insert(order)
		if txErr != nil {
			return txErr
		}
		return s.applyDeltas(tx, inserted.Items, +1)
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.publishEvent(kafka.EventTypeOrderCreated, tenantID, inserted, map[string]interface{}{
		"basket_id": basketID.String(),
	})
	return inserted, nil
}

// snapshotProduct снимает неизменяемую копию товара для позиции заказа.
func snapshotProduct(product domain.Product, quantity int64) domain.OrderItemSnapshot {
	return domain.OrderItemSnapshot{
		ProductID:        product.ID,
		Quantity:         quantity,
		ArticleNumber:    product.ArticleNumber,
		GTIN:             product.GTIN,
		Title:            product.Title,
		ShortDescription: product.ShortDescription,
		Description:      product.Description,
		Tags:             append([]string(nil), product.Tags...),
		TitleImage:       product.TitleImage,
		AdditionalImages: append([]string(nil), product.AdditionalImages...),
		Price:            product.Price.Amount,
		Currency:         product.Price.Currency,
		Weight:           product.Weight,
	}
}

// applyDirection применяет складские дельты по направлению смены статуса.
// Переход внутри резервирующего набора (или вне его) дельт не порождает.
func (s *service) applyDirection(tx domain.TenantStorage, prev, next domain.OrderStatus, items []domain.OrderItemSnapshot) error {
	direction := domain.ReservationDirection(prev, next)
	if direction == 0 {
		return nil
	}
	return s.applyDeltas(tx, items, int64(direction))
}

// applyDeltas применяет по одной дельте на позицию заказа; дубликаты
// товара в позициях складываются естественным образом.
func (s *service) applyDeltas(tx domain.TenantStorage, items []domain.OrderItemSnapshot, sign int64) error {
	for _, item := range items {
		if _, err := tx.Warehouse().ApplyReservedDelta(item.ProductID, sign*item.Quantity); err != nil {
			if s.metrics != nil {
				s.metrics.RecordDeltaRejected()
			}
			return fmt.Errorf("apply reserved delta for product %d: %w", item.ProductID, err)
		}
		if s.metrics != nil {
			s.metrics.RecordDeltaApplied()
		}
	}
	return nil
}

func validate(order *domain.Order) error {
	if !order.Status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownOrderStatus, string(order.Status))
	}
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// publishEvent отправляет событие жизненного цикла заказа, если producer подключён.
// Ошибка публикации логируется и не откатывает уже зафиксированную операцию.
func (s *service) publishEvent(eventType kafka.EventType, tenantID uuid.UUID, order domain.Order, metadata map[string]interface{}) {
	if s.producer == nil {
		return
	}

	customerID := ""
	if order.CustomerID != nil {
		customerID = order.CustomerID.String()
	}
	event := kafka.NewOrderEvent(eventType, tenantID.String(), order.ID, customerID, string(order.Status), metadata)
	if err := s.producer.PublishOrderEvent(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   order.ID,
			"event_type": string(eventType),
		}).Warn("failed to publish order event")
	}
}
