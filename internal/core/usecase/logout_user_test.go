package usecase

import (
	"context"
	"testing"

	"flats-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoutUserUseCase_InvalidatesSessionCache(t *testing.T) {
	flatCache := newFakeFlatCache()
	notifier := &fakeNotifier{}
	uc := NewLogoutUserUseCase(flatCache, notifier)

	sessionID := uuid.New()
	userID := uuid.New()
	flatCache.Put(sessionID, "all", []domain.Flat{{ID: "flat-1"}})

	err := uc.Execute(context.Background(), &domain.Claims{UserID: userID, SessionID: sessionID})
	require.NoError(t, err)

	// Кэш сессии очищен: следующий вход не увидит старую выдачу.
	_, ok := flatCache.Get(sessionID, "all")
	assert.False(t, ok)
	assert.Equal(t, []uuid.UUID{sessionID}, flatCache.invalidated)

	require.Len(t, notifier.setCalls, 1)
	assert.Equal(t, userID, notifier.setCalls[0].userID)
	assert.Equal(t, "You successfully logged out.", notifier.setCalls[0].notification.Message)
	assert.Equal(t, domain.SeveritySuccess, notifier.setCalls[0].notification.Severity)
}
