package usecase

import (
	"context"
	"flats-service/internal/contextkeys"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
)

type LogoutUserUseCase struct {
	flatCache port.FlatCachePort
	notifier  port.NotifierPort
}

func NewLogoutUserUseCase(flatCache port.FlatCachePort, notifier port.NotifierPort) *LogoutUserUseCase {
	return &LogoutUserUseCase{
		flatCache: flatCache,
		notifier:  notifier,
	}
}

func (uc *LogoutUserUseCase) Execute(ctx context.Context, claims *domain.Claims) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "LogoutUser",
		"user_id":  claims.UserID.String(),
	})
	ucLogger.Info("Use case started: logging out user", nil)

	// Выход обязан инвалидировать кэш выдачи этой сессии: следующий вход
	// не должен увидеть закэшированные квартиры предыдущего пользователя.
	uc.flatCache.InvalidateSession(claims.SessionID)

	uc.notifier.Set(ctx, claims.UserID, domain.NewNotification(domain.SeveritySuccess, "You successfully logged out."))

	ucLogger.Info("Use case finished: user logged out, session cache invalidated", nil)
	return nil
}
