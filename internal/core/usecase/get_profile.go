package usecase

import (
	"context"
	"flats-service/internal/contextkeys"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
	"fmt"

	"github.com/google/uuid"
)

type GetProfileUseCase struct {
	userRepo port.UserRepositoryPort
}

func NewGetProfileUseCase(userRepo port.UserRepositoryPort) *GetProfileUseCase {
	return &GetProfileUseCase{userRepo: userRepo}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetProfile",
		"user_id":  userID.String(),
	})

	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		ucLogger.Error("Repository failed to find user by id", err, nil)
		return nil, fmt.Errorf("internal server error: %w", err)
	}
	if user == nil {
		// Токен валиден, но пользователя уже нет (удален между запросами).
		ucLogger.Warn("Profile requested for a missing user", nil)
		return nil, domain.ErrUserNotFound
	}

	ucLogger.Debug("Profile loaded.", nil)
	return user, nil
}
