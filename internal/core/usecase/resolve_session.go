package usecase

import (
	"context"
	"flats-service/internal/contextkeys"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
)

// ResolveSessionUseCase переводит сессию из Unresolved в стабильное
// состояние Present или Absent. Гейтинг роутов принимает решение
// только по результату этого use case, никакого "мерцания" между
// гостевым и аутентифицированным деревом быть не может.
type ResolveSessionUseCase struct {
	tokenSvc port.TokenServicePort
}

func NewResolveSessionUseCase(tokenSvc port.TokenServicePort) *ResolveSessionUseCase {
	return &ResolveSessionUseCase{tokenSvc: tokenSvc}
}

func (uc *ResolveSessionUseCase) Execute(ctx context.Context, tokenString string) domain.Session {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "ResolveSession"})

	if tokenString == "" {
		ucLogger.Debug("No token supplied, session resolved as absent", nil)
		return domain.Session{State: domain.SessionAbsent}
	}

	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		// Невалидный или истекший токен - это не ошибка запроса,
		// а просто отсутствие сессии.
		ucLogger.Warn("Token validation failed, session resolved as absent", port.Fields{"error": err.Error()})
		return domain.Session{State: domain.SessionAbsent}
	}

	ucLogger.Debug("Session resolved as present", port.Fields{
		"user_id": claims.UserID.String(),
	})
	return domain.Session{State: domain.SessionPresent, Claims: claims}
}
