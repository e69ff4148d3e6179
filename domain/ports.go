package domain

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository описывает требования к хранилищу заказов.
// Методы не принимают context: реализации сами ограничивают время операции.
type OrderRepository interface {
	// Get возвращает заказ с позициями или ErrNotFound.
	Get(id int64) (Order, error)
	// Lock читает заказ с блокировкой строки. Имеет смысл только внутри
	// WithinTx; вне транзакции ведёт себя как Get.
	Lock(id int64) (Order, error)
	GetAll() ([]Order, error)
	// Insert сохраняет заказ и его позиции, возвращает заказ с присвоенными ID.
	Insert(order Order) (Order, error)
	Update(id int64, order Order) (Order, error)
	// Delete удаляет заказ вместе с позициями. false — заказа не было.
	Delete(id int64) (bool, error)
}

// WarehouseRepository описывает требования к складскому хранилищу.
type WarehouseRepository interface {
	// Get возвращает запись по товару или ErrNotFound.
	Get(productID int64) (WarehouseItem, error)
	GetAll() ([]WarehouseItem, error)
	// GetAllWithDetails объединяет складские записи с артикулом и названием товара.
	GetAllWithDetails() ([]WarehouseItemDetails, error)
	Insert(item WarehouseItem) (WarehouseItem, error)
	UpdateByProductID(productID int64, item WarehouseItem) (WarehouseItem, error)
	DeleteByProductID(productID int64) (bool, error)
	// ApplyReservedDelta применяет знаковую дельту к reserved.
	// Отрицательный итог — ErrInvalidOperation, строка не меняется.
	// Отсутствующая строка при delta >= 0 создаётся с in_stock = 0.
	ApplyReservedDelta(productID int64, delta int64) (WarehouseItem, error)
}

// BasketRepository описывает требования к хранилищу корзин.
type BasketRepository interface {
	Get(basketID uuid.UUID) (Basket, error)
	// Add создаёт пустую корзину и возвращает её идентификатор.
	Add() (uuid.UUID, error)
	Delete(basketID uuid.UUID) (bool, error)
	// Products возвращает позиции корзины.
	Products(basketID uuid.UUID) ([]BasketProduct, error)
	AddProduct(basketID uuid.UUID, productID int64, quantity int64) error
	// RemoveProduct уменьшает количество на quantity (nil — на единицу);
	// позиция с неположительным остатком удаляется.
	RemoveProduct(basketID uuid.UUID, productID int64, quantity *int64) error
	Clear(basketID uuid.UUID) error
}

// ProductRepository описывает требования к каталогу товаров.
type ProductRepository interface {
	Get(id int64) (Product, error)
	GetAll() ([]Product, error)
	Insert(product Product) (Product, error)
	Update(id int64, product Product) (Product, error)
	Delete(id int64) (bool, error)
}

// CustomerRepository описывает требования к хранилищу покупателей.
type CustomerRepository interface {
	Get(id uuid.UUID) (Customer, error)
	GetAll() ([]Customer, error)
	FindByEmail(email string) (Customer, error)
	Insert(customer Customer) (Customer, error)
	Update(id uuid.UUID, customer Customer) (Customer, error)
	Delete(id uuid.UUID) (bool, error)
	Count() (int64, error)
	// Search ищет по подстроке в email и полном имени.
	Search(term string) ([]Customer, error)
	// GetPage возвращает страницу покупателей; нумерация страниц с единицы.
	GetPage(page, perPage int64) ([]Customer, error)
}

// SettingsRepository описывает требования к хранилищу настроек.
type SettingsRepository interface {
	Get(id int32) (Setting, error)
	GetAll() ([]Setting, error)
	GetByTitle(title string) (Setting, error)
	Insert(setting Setting) (Setting, error)
	UpdateValue(id int32, value string) (Setting, error)
	Delete(id int32) (bool, error)
}

// TenantStorage — набор репозиториев одного тенанта поверх его базы.
type TenantStorage interface {
	Baskets() BasketRepository
	Customers() CustomerRepository
	Orders() OrderRepository
	Products() ProductRepository
	Settings() SettingsRepository
	Warehouse() WarehouseRepository

	// WithinTx выполняет fn против транзакционного набора репозиториев:
	// все операции внутри fn либо фиксируются вместе, либо откатываются.
	WithinTx(fn func(tx TenantStorage) error) error

	Ping(ctx context.Context) error
	Close() error
}

// StorageRouter выдаёт хранилище тенанта, при первом обращении выполняя provisioning.
type StorageRouter interface {
	Storage(ctx context.Context, tenantID uuid.UUID) (TenantStorage, error)
}
