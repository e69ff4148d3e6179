package postgres

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopster/domain"
)

// Provision приводит базу тенанта в готовое состояние: проверяет существование,
// при необходимости создаёт базу, открывает пул и применяет миграции.
// При неудачной миграции пул закрывается и ничего не кэшируется —
// вызывающая сторона получает ErrMigrationFailed и может повторить provisioning.
func Provision(ctx context.Context, dsn string, logger *log.Entry) (*Storage, error) {
	if logger == nil {
		logger = log.WithField("component", "postgres-provision")
	}

	if !DatabaseExists(ctx, dsn) {
		logger.Info("tenant database missing, creating")
		if err := CreateDatabase(ctx, dsn); err != nil {
			// Создание могло проиграть гонку другому процессу или упереться
			// в права; настоящая ошибка всплывёт при открытии пула ниже.
			logger.WithError(err).Warn("create database failed, continuing")
		}
	}

	store, err := Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDatabaseConnection, err)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrMigrationFailed, err)
	}

	return NewStorage(store), nil
}

// IsConnectionError проверяет, является ли ошибка ошибкой подключения к базе.
func IsConnectionError(err error) bool {
	return errors.Is(err, domain.ErrDatabaseConnection)
}
