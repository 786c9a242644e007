package port

import (
	"context"
	"flats-service/internal/core/domain"

	"github.com/google/uuid"
)

// NotifierPort - контракт односекционного канала уведомлений.
// У каждого пользователя есть единственный слот: последний Set побеждает,
// очереди нет, отображается не более одного уведомления одновременно.
type NotifierPort interface {
	// Set безусловно заменяет текущее уведомление пользователя и
	// перезапускает таймер автоскрытия.
	Set(ctx context.Context, userID uuid.UUID, notification domain.Notification)
	// Dismiss немедленно скрывает текущее уведомление.
	Dismiss(ctx context.Context, userID uuid.UUID)
	// Current возвращает текущее содержимое слота.
	Current(userID uuid.UUID) (domain.Notification, bool)
}
