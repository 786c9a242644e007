package usecases_port

import (
	"context"
	"flats-service/internal/core/domain"
)

type ResolveSessionUseCasePort interface {
	// Execute переводит сессию из Unresolved в Present или Absent.
	Execute(ctx context.Context, tokenString string) domain.Session
}
