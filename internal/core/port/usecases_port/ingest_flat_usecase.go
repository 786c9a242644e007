package usecases_port

import (
	"context"
	"flats-service/internal/core/domain"
)

type IngestFlatUseCasePort interface {
	Execute(ctx context.Context, flat domain.Flat) error
}
