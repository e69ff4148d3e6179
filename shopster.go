// Package shopster предоставляет мультитенантный слой доступа к данным
// интернет-магазина: корзины, покупатели, заказы, товары, настройки и склад.
// Каждый тенант живёт в собственной базе PostgreSQL, которую маршрутизатор
// лениво создаёт и мигрирует при первом обращении.
package shopster

import (
	"context"
	"errors"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopster/domain"
	"github.com/vladislavdragonenkov/shopster/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shopster/service/baskets"
	"github.com/vladislavdragonenkov/shopster/service/customers"
	"github.com/vladislavdragonenkov/shopster/service/orders"
	"github.com/vladislavdragonenkov/shopster/service/products"
	"github.com/vladislavdragonenkov/shopster/service/settings"
	"github.com/vladislavdragonenkov/shopster/service/warehouse"
)

// Shopster — фасад слоя доступа к данным: по одному сервису на предметную область.
type Shopster struct {
	router domain.StorageRouter

	orders    orders.Service
	baskets   baskets.Service
	customers customers.Service
	products  products.Service
	settings  settings.Service
	warehouse warehouse.Service
}

// Option настраивает фасад при создании.
type Option func(*options)

type options struct {
	logger   *log.Entry
	producer *kafka.Producer
}

// WithLogger задаёт корневой logger; сервисы получают от него поля component.
func WithLogger(logger *log.Entry) Option {
	return func(o *options) { o.logger = logger }
}

// WithKafkaProducer подключает публикацию событий жизненного цикла заказов.
func WithKafkaProducer(producer *kafka.Producer) Option {
	return func(o *options) { o.producer = producer }
}

// New создаёт фасад поверх маршрутизатора хранилищ.
func New(router domain.StorageRouter, opts ...Option) *Shopster {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = log.WithField("component", "shopster")
	}

	var orderService orders.Service
	if o.producer != nil {
		orderService = orders.NewServiceWithKafka(router, o.producer, logger.WithField("component", "orders"))
	} else {
		orderService = orders.NewService(router, logger.WithField("component", "orders"))
	}

	return &Shopster{
		router:    router,
		orders:    orderService,
		baskets:   baskets.NewService(router, logger.WithField("component", "baskets")),
		customers: customers.NewService(router, logger.WithField("component", "customers")),
		products:  products.NewService(router, logger.WithField("component", "products")),
		settings:  settings.NewService(router, logger.WithField("component", "settings")),
		warehouse: warehouse.NewService(router, logger.WithField("component", "warehouse")),
	}
}

func (s *Shopster) Orders() orders.Service       { return s.orders }
func (s *Shopster) Baskets() baskets.Service     { return s.baskets }
func (s *Shopster) Customers() customers.Service { return s.customers }
func (s *Shopster) Products() products.Service   { return s.products }
func (s *Shopster) Settings() settings.Service   { return s.settings }
func (s *Shopster) Warehouse() warehouse.Service { return s.warehouse }

// defaultRegistrar реализуется маршрутизаторами, умеющими регистрировать
// хранилище в обход справочника тенантов (tenant.Router).
type defaultRegistrar interface {
	RegisterDefault(ctx context.Context, connectionString string) (uuid.UUID, error)
}

// RegisterDefaultTenant регистрирует хранилище по строке подключения,
// возвращая свежий tenant_id. Работает только с маршрутизаторами,
// поддерживающими регистрацию по умолчанию.
func (s *Shopster) RegisterDefaultTenant(ctx context.Context, connectionString string) (uuid.UUID, error) {
	registrar, ok := s.router.(defaultRegistrar)
	if !ok {
		return uuid.Nil, errors.New("storage router does not support default tenant registration")
	}
	return registrar.RegisterDefault(ctx, connectionString)
}
