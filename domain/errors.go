package domain

import "errors"

var (
	// ErrTenantNotFound возвращается, если справочник тенантов не знает такой tenant_id.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrTenantStorageNotFound — тенант существует, но у него нет пригодного хранилища
	// (пустой список storage-дескрипторов или пустая строка подключения).
	ErrTenantStorageNotFound = errors.New("tenant storage not found")
	// ErrDatabaseConnection — не удалось открыть пул или достучаться до базы.
	ErrDatabaseConnection = errors.New("database connection error")
	// ErrMigrationFailed — миграции схемы не применились при provisioning тенанта.
	// Пул в этом случае не кэшируется, следующий вызов повторит provisioning.
	ErrMigrationFailed = errors.New("schema migration failed")
	// ErrNotFound возвращается репозиториями, если строка не найдена.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOperation — нарушение доменного инварианта: отрицательный резерв,
	// позиция корзины без цены, значение со служебным разделителем и т.п.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrUnknownOrderStatus возвращается при чтении статуса, которого нет в таблице соответствий.
	ErrUnknownOrderStatus = errors.New("unknown order status")
)

// IsNotFound проверяет, является ли ошибка отсутствием строки.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidOperation проверяет, является ли ошибка нарушением доменного инварианта.
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsMigrationFailed проверяет, является ли ошибка неудачной миграцией схемы.
func IsMigrationFailed(err error) bool {
	return errors.Is(err, ErrMigrationFailed)
}
