package port

import (
	"flats-service/internal/core/domain"

	"github.com/google/uuid"
)

// FlatCachePort - кэш последних выдач по запросам, ключ - сессия.
// Инвалидация по сессии вызывается при выходе пользователя, чтобы
// следующий вход не увидел чужую закэшированную выдачу.
type FlatCachePort interface {
	Get(sessionID uuid.UUID, queryKey string) ([]domain.Flat, bool)
	Put(sessionID uuid.UUID, queryKey string, flats []domain.Flat)
	// InvalidateSession удаляет все записи сессии.
	InvalidateSession(sessionID uuid.UUID)
}
