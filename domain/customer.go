package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer — покупатель тенанта.
// Algorithm и Password хранятся как есть: хэширование и проверка паролей
// выполняются вне этого слоя.
type Customer struct {
	ID            uuid.UUID
	Email         string
	EmailVerified bool
	Algorithm     string
	Password      string
	FullName      string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
