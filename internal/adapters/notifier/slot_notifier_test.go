package notifier

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	logger_adapter "flats-service/internal/adapters/logger"
	"flats-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier() *SlotNotifier {
	baseLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer: io.Discard,
		Level:  slog.LevelError,
	})
	return NewSlotNotifier(0, baseLogger)
}

func TestSlotNotifier_LastWriteWins(t *testing.T) {
	n := newTestNotifier()
	userID := uuid.New()

	n.Set(context.Background(), userID, domain.NewNotification(domain.SeverityError, "Network error"))
	n.Set(context.Background(), userID, domain.NewNotification(domain.SeveritySuccess, "Login success"))

	// Очереди нет: виден только последний Set.
	current, ok := n.Current(userID)
	require.True(t, ok)
	assert.True(t, current.Visible)
	assert.Equal(t, "Login success", current.Message)
	assert.Equal(t, domain.SeveritySuccess, current.Severity)
}

func TestSlotNotifier_Dismiss(t *testing.T) {
	n := newTestNotifier()
	userID := uuid.New()

	n.Set(context.Background(), userID, domain.NewNotification(domain.SeverityInfo, "Hello"))
	n.Dismiss(context.Background(), userID)

	current, ok := n.Current(userID)
	require.True(t, ok)
	assert.False(t, current.Visible)
	// Содержимое слота сохраняется, скрывается только видимость.
	assert.Equal(t, "Hello", current.Message)
}

func TestSlotNotifier_DismissUnknownUserIsNoop(t *testing.T) {
	n := newTestNotifier()

	n.Dismiss(context.Background(), uuid.New())

	_, ok := n.Current(uuid.New())
	assert.False(t, ok)
}

func TestSlotNotifier_AutoHide(t *testing.T) {
	baseLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer: io.Discard,
		Level:  slog.LevelError,
	})
	n := NewSlotNotifier(30*time.Millisecond, baseLogger)
	userID := uuid.New()

	n.Set(context.Background(), userID, domain.NewNotification(domain.SeverityInfo, "Hello"))

	require.Eventually(t, func() bool {
		current, ok := n.Current(userID)
		return ok && !current.Visible
	}, time.Second, 5*time.Millisecond)
}

func TestSlotNotifier_NewSetRestartsAutoHideTimer(t *testing.T) {
	baseLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer: io.Discard,
		Level:  slog.LevelError,
	})
	n := NewSlotNotifier(60*time.Millisecond, baseLogger)
	userID := uuid.New()

	n.Set(context.Background(), userID, domain.NewNotification(domain.SeverityError, "First"))
	time.Sleep(30 * time.Millisecond)
	n.Set(context.Background(), userID, domain.NewNotification(domain.SeveritySuccess, "Second"))

	// Таймер первого уведомления истекает, но слот уже перезаписан:
	// второе уведомление остается видимым на свой полный интервал.
	time.Sleep(40 * time.Millisecond)
	current, ok := n.Current(userID)
	require.True(t, ok)
	assert.True(t, current.Visible)
	assert.Equal(t, "Second", current.Message)

	require.Eventually(t, func() bool {
		current, ok := n.Current(userID)
		return ok && !current.Visible
	}, time.Second, 5*time.Millisecond)
}

func TestSlotNotifier_ClientReceivesBroadcasts(t *testing.T) {
	n := newTestNotifier()
	userID := uuid.New()

	ch := n.AddClient(userID)
	defer n.RemoveClient(userID, ch)

	n.Set(context.Background(), userID, domain.NewNotification(domain.SeveritySuccess, "Login success"))

	select {
	case notification := <-ch:
		assert.True(t, notification.Visible)
		assert.Equal(t, "Login success", notification.Message)
	case <-time.After(time.Second):
		t.Fatal("expected a notification broadcast")
	}
}

func TestSlotNotifier_NewClientReplaysVisibleSlot(t *testing.T) {
	n := newTestNotifier()
	userID := uuid.New()

	n.Set(context.Background(), userID, domain.NewNotification(domain.SeverityInfo, "Hello"))

	ch := n.AddClient(userID)
	defer n.RemoveClient(userID, ch)

	select {
	case notification := <-ch:
		assert.Equal(t, "Hello", notification.Message)
	case <-time.After(time.Second):
		t.Fatal("expected the current slot to be replayed")
	}
}

func TestSlotNotifier_NotificationsArePerUser(t *testing.T) {
	n := newTestNotifier()
	first := uuid.New()
	second := uuid.New()

	n.Set(context.Background(), first, domain.NewNotification(domain.SeverityInfo, "Hello"))

	_, ok := n.Current(second)
	assert.False(t, ok)
}
