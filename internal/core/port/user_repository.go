package port

import (
	"context"
	"flats-service/internal/core/domain"

	"github.com/google/uuid"
)

// UserRepositoryPort определяет, что мы хотим делать с хранилищем пользователей.
type UserRepositoryPort interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// UpdateDisplayName - отдельный шаг после регистрации (updateProfile
	// в терминах провайдера идентичности).
	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error
}
