package usecase

import (
	"context"
	"flats-service/internal/contextkeys"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
	"fmt"
	"time"
)

type LoginUserUseCase struct {
	userRepo       port.UserRepositoryPort
	tokenSvc       port.TokenServicePort
	notifier       port.NotifierPort
	accessTokenTTL time.Duration
}

func NewLoginUserUseCase(userRepo port.UserRepositoryPort, tokenSvc port.TokenServicePort,
	notifier port.NotifierPort, accessTokenTTL time.Duration) *LoginUserUseCase {
	return &LoginUserUseCase{
		userRepo:       userRepo,
		tokenSvc:       tokenSvc,
		notifier:       notifier,
		accessTokenTTL: accessTokenTTL,
	}
}

func (uc *LoginUserUseCase) Execute(ctx context.Context, email, password string) (*domain.User, string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "LoginUser",
		"email":    email,
	})
	ucLogger.Info("Use case started: attempting to login user", nil)

	// Локальная валидация формы входа (email + минимальная длина пароля).
	if fieldErrs := domain.ValidateLoginForm(email, password); fieldErrs != nil {
		ucLogger.Warn("Login blocked by form validation", port.Fields{"invalid_fields": len(fieldErrs)})
		return nil, "", &domain.ValidationError{Fields: fieldErrs}
	}

	// Находим пользователя по email
	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		// ошибка БД
		ucLogger.Error("Repository failed to find user by email", err, nil)
		return nil, "", fmt.Errorf("internal server error: %w", err)
	}
	if user == nil {
		// пользователь не найден
		ucLogger.Warn("Login failed: user not found", nil)
		return nil, "", domain.ErrUserNotFound
	}

	ucLogger = ucLogger.WithFields(port.Fields{"user_id": user.ID.String()})

	// Проверяем пароль
	if !user.CheckPassword(password) {
		ucLogger.Warn("Login failed: invalid credentials", nil)
		return nil, "", domain.ErrInvalidCredentials
	}

	// Генерируем токен
	token, err := uc.tokenSvc.GenerateToken(ctx, user, uc.accessTokenTTL)
	if err != nil {
		ucLogger.Error("Failed to generate token after successful login", err, nil)
		return nil, "", err
	}

	uc.notifier.Set(ctx, user.ID, domain.NewNotification(domain.SeveritySuccess, "Login success"))

	ucLogger.Info("Use case finished: user logged in successfully", nil)
	return user, token, nil
}
