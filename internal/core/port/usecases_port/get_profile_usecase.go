package usecases_port

import (
	"context"
	"flats-service/internal/core/domain"

	"github.com/google/uuid"
)

type GetProfileUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}
