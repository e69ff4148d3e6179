package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopster/domain"
)

// Storage — in-memory реализация domain.TenantStorage для локальной
// разработки и тестов. Все данные живут в защищённых мьютексом картах.
type Storage struct {
	mu sync.Mutex
	// txMu сериализует WithinTx-сценарии между собой.
	txMu sync.Mutex

	baskets        map[uuid.UUID]domain.Basket
	basketItemSeq  int64
	customers      map[uuid.UUID]domain.Customer
	orders         map[int64]domain.Order
	orderSeq       int64
	orderItemSeq   int64
	products       map[int64]domain.Product
	productSeq     int64
	settings       map[int32]domain.Setting
	settingSeq     int32
	warehouse      map[int64]domain.WarehouseItem
	warehouseSeq   int64
}

// NewStorage создаёт пустое in-memory хранилище тенанта.
func NewStorage() *Storage {
	return &Storage{
		baskets:   make(map[uuid.UUID]domain.Basket),
		customers: make(map[uuid.UUID]domain.Customer),
		orders:    make(map[int64]domain.Order),
		products:  make(map[int64]domain.Product),
		settings:  make(map[int32]domain.Setting),
		warehouse: make(map[int64]domain.WarehouseItem),
	}
}

func (s *Storage) Baskets() domain.BasketRepository     { return &basketRepository{s: s} }
func (s *Storage) Customers() domain.CustomerRepository { return &customerRepository{s: s} }
func (s *Storage) Orders() domain.OrderRepository       { return &orderRepository{s: s} }
func (s *Storage) Products() domain.ProductRepository   { return &productRepository{s: s} }
func (s *Storage) Settings() domain.SettingsRepository  { return &settingsRepository{s: s} }
func (s *Storage) Warehouse() domain.WarehouseRepository {
	return &warehouseRepository{s: s}
}

// WithinTx сериализует сценарий и откатывает состояние при ошибке fn,
// имитируя транзакционную семантику PostgreSQL-реализации.
func (s *Storage) WithinTx(fn func(tx domain.TenantStorage) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

// Ping всегда успешен: хранилище живёт в памяти процесса.
func (s *Storage) Ping(_ context.Context) error { return nil }

// Close очищает состояние.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.baskets = make(map[uuid.UUID]domain.Basket)
	s.customers = make(map[uuid.UUID]domain.Customer)
	s.orders = make(map[int64]domain.Order)
	s.products = make(map[int64]domain.Product)
	s.settings = make(map[int32]domain.Setting)
	s.warehouse = make(map[int64]domain.WarehouseItem)
	return nil
}

type storageSnapshot struct {
	baskets   map[uuid.UUID]domain.Basket
	customers map[uuid.UUID]domain.Customer
	orders    map[int64]domain.Order
	products  map[int64]domain.Product
	settings  map[int32]domain.Setting
	warehouse map[int64]domain.WarehouseItem

	basketItemSeq int64
	orderSeq      int64
	orderItemSeq  int64
	productSeq    int64
	settingSeq    int32
	warehouseSeq  int64
}

func (s *Storage) snapshot() storageSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return storageSnapshot{
		baskets:       copyMap(s.baskets),
		customers:     copyMap(s.customers),
		orders:        copyMap(s.orders),
		products:      copyMap(s.products),
		settings:      copyMap(s.settings),
		warehouse:     copyMap(s.warehouse),
		basketItemSeq: s.basketItemSeq,
		orderSeq:      s.orderSeq,
		orderItemSeq:  s.orderItemSeq,
		productSeq:    s.productSeq,
		settingSeq:    s.settingSeq,
		warehouseSeq:  s.warehouseSeq,
	}
}

func (s *Storage) restore(snap storageSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.baskets = snap.baskets
	s.customers = snap.customers
	s.orders = snap.orders
	s.products = snap.products
	s.settings = snap.settings
	s.warehouse = snap.warehouse
	s.basketItemSeq = snap.basketItemSeq
	s.orderSeq = snap.orderSeq
	s.orderItemSeq = snap.orderItemSeq
	s.productSeq = snap.productSeq
	s.settingSeq = snap.settingSeq
	s.warehouseSeq = snap.warehouseSeq
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
