package usecase

import (
	"context"
	"flats-service/internal/contextkeys"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
	"fmt"
	"time"
)

type RegisterUserUseCase struct {
	userRepo       port.UserRepositoryPort
	tokenSvc       port.TokenServicePort
	notifier       port.NotifierPort
	accessTokenTTL time.Duration
}

func NewRegisterUserUseCase(userRepo port.UserRepositoryPort, tokenSvc port.TokenServicePort,
	notifier port.NotifierPort, accessTokenTTL time.Duration) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		userRepo:       userRepo,
		tokenSvc:       tokenSvc,
		notifier:       notifier,
		accessTokenTTL: accessTokenTTL,
	}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, email, fullName, password, repeatPassword string) (*domain.User, string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RegisterUser",
		"email":    email,
	})

	ucLogger.Info("Use case started: attempting to register user", nil)

	// Валидация всегда завершается синхронно до обращения к провайдеру.
	// Любая ошибка поля блокирует сабмит.
	if fieldErrs := domain.ValidateRegisterForm(email, fullName, password, repeatPassword); fieldErrs != nil {
		ucLogger.Warn("Registration blocked by form validation", port.Fields{"invalid_fields": len(fieldErrs)})
		return nil, "", &domain.ValidationError{Fields: fieldErrs}
	}

	existingUser, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		ucLogger.Error("Repository failed while checking for existing email", err, nil)
		return nil, "", fmt.Errorf("internal server error: %w", err)
	}
	if existingUser != nil {
		ucLogger.Warn("Registration failed: email already in use", nil)
		return nil, "", domain.ErrEmailInUse
	}

	// Создаем нового пользователя (хэширование пароля происходит внутри NewUser)
	user, err := domain.NewUser(email, password)
	if err != nil {
		ucLogger.Error("Failed to create new user domain object", err, nil)
		return nil, "", err
	}

	ucLogger = ucLogger.WithFields(port.Fields{"user_id": user.ID.String()})

	if err := uc.userRepo.Create(ctx, user); err != nil {
		ucLogger.Error("Repository failed to create user", err, nil)
		return nil, "", err
	}

	// Отдельный шаг updateProfile: выставляем display name уже после создания,
	// как это делал исходный клиент.
	if err := uc.userRepo.UpdateDisplayName(ctx, user.ID, fullName); err != nil {
		ucLogger.Error("Failed to update display name after registration", err, nil)
		return nil, "", err
	}
	user.DisplayName = fullName

	token, err := uc.tokenSvc.GenerateToken(ctx, user, uc.accessTokenTTL)
	if err != nil {
		ucLogger.Error("Failed to generate token after successful registration", err, nil)
		return nil, "", err
	}

	// Приветственное уведомление показывается внизу по центру -
	// единственный случай с нестандартной позицией.
	welcome := domain.NewNotification(domain.SeveritySuccess, "Welcome on board 🚀")
	welcome.Placement = domain.PlacementBottomCenter
	uc.notifier.Set(ctx, user.ID, welcome)

	ucLogger.Info("Use case finished: user registered successfully", nil)
	return user, token, nil
}
