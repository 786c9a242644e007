package usecases_port

import (
	"context"
	"flats-service/internal/core/domain"
)

type RegisterUserUseCasePort interface {
	Execute(ctx context.Context, email, fullName, password, repeatPassword string) (*domain.User, string, error)
}
