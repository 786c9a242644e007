package usecases_port

import (
	"context"
	"flats-service/internal/core/domain"

	"github.com/google/uuid"
)

type SearchFlatsUseCasePort interface {
	Execute(ctx context.Context, sessionID uuid.UUID, query domain.FlatQuery) ([]domain.Flat, error)
}
