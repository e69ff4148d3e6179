package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/shopster/domain"
)

const (
	opTimeout = 5 * time.Second
	txTimeout = 15 * time.Second
)

// querier покрывает общую поверхность *sql.DB и *sql.Tx, чтобы репозитории
// одинаково работали вне и внутри транзакции.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Storage — PostgreSQL-реализация domain.TenantStorage: набор репозиториев
// поверх пула одного тенанта плюс транзакционная обёртка WithinTx.
type Storage struct {
	store *Store
	q     querier
	inTx  bool
}

// NewStorage создаёт хранилище тенанта поверх открытого Store.
func NewStorage(store *Store) *Storage {
	return &Storage{store: store, q: store.DB()}
}

func (s *Storage) Baskets() domain.BasketRepository {
	return &basketRepository{storage: s}
}

func (s *Storage) Customers() domain.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) Orders() domain.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Products() domain.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Settings() domain.SettingsRepository {
	return &settingsRepository{storage: s}
}

func (s *Storage) Warehouse() domain.WarehouseRepository {
	return &warehouseRepository{storage: s}
}

// WithinTx выполняет fn против транзакционного набора репозиториев.
// Вложенный вызов присоединяется к уже открытой транзакции.
func (s *Storage) WithinTx(fn func(tx domain.TenantStorage) error) error {
	if s.inTx {
		return fn(s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), txTimeout)
	defer cancel()

	tx, err := s.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	scoped := &Storage{store: s.store, q: tx, inTx: true}
	if err := fn(scoped); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping проверяет доступность базы тенанта.
func (s *Storage) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close закрывает пул тенанта.
func (s *Storage) Close() error {
	return s.store.Close()
}

// opContext возвращает контекст со стандартным таймаутом операции.
func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
