package usecases_port

import (
	"context"
	"flats-service/internal/core/domain"
)

type LogoutUserUseCasePort interface {
	Execute(ctx context.Context, claims *domain.Claims) error
}
