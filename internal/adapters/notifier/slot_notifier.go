package notifier

import (
	"context"
	"flats-service/internal/contextkeys"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
	"sync"
	"time"

	"github.com/google/uuid"
)

// clientChannel - канал, через который мы отправляем уведомления одному
// конкретному клиенту (одной открытой вкладке).
type clientChannel chan domain.Notification

// slot - единственная ячейка уведомления пользователя.
// version растет на каждом Set/Dismiss и позволяет отменять
// устаревшие таймеры автоскрытия: каждый новый Set перезапускает отсчет.
type slot struct {
	notification domain.Notification
	version      uint64
}

// SlotNotifier - реализация NotifierPort: по одному слоту на пользователя,
// последний Set побеждает, автоскрытие через фиксированный интервал.
// Это разделяемое состояние процесса, но оно создается явно в app.go
// и передается по ссылке, а не живет глобальной переменной.
type SlotNotifier struct {
	mu sync.Mutex
	// slots хранит текущее уведомление каждого пользователя.
	slots map[uuid.UUID]*slot
	// clients хранит активные подписки. Ключ - ID пользователя,
	// значение - срез каналов (один пользователь может открыть несколько вкладок).
	clients map[uuid.UUID][]clientChannel

	autoHide time.Duration
	logger   port.LoggerPort
}

// NewSlotNotifier создает нотификатор. autoHide <= 0 отключает автоскрытие
// (удобно в тестах, где таймер дергается вручную).
func NewSlotNotifier(autoHide time.Duration, baseLogger port.LoggerPort) *SlotNotifier {
	return &SlotNotifier{
		slots:    make(map[uuid.UUID]*slot),
		clients:  make(map[uuid.UUID][]clientChannel),
		autoHide: autoHide,
		logger:   baseLogger.WithFields(port.Fields{"component": "SlotNotifier"}),
	}
}

// Set безусловно заменяет текущее уведомление пользователя (last-write-wins)
// и перезапускает таймер автоскрытия.
func (n *SlotNotifier) Set(ctx context.Context, userID uuid.UUID, notification domain.Notification) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SlotNotifier",
		"user_id":   userID.String(),
		"severity":  string(notification.Severity),
	})

	n.mu.Lock()
	s, ok := n.slots[userID]
	if !ok {
		s = &slot{}
		n.slots[userID] = s
	}
	s.version++
	version := s.version
	notification.Visible = true
	s.notification = notification
	n.broadcastLocked(userID, notification)
	n.mu.Unlock()

	logger.Debug("Notification slot replaced.", port.Fields{"version": version})

	if n.autoHide > 0 {
		// Таймер скрывает уведомление, только если за время ожидания
		// слот не был перезаписан более свежим Set.
		time.AfterFunc(n.autoHide, func() {
			n.hide(userID, version)
		})
	}
}

// Dismiss немедленно скрывает текущее уведомление (явное закрытие).
func (n *SlotNotifier) Dismiss(ctx context.Context, userID uuid.UUID) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SlotNotifier",
		"user_id":   userID.String(),
	})

	n.mu.Lock()
	s, ok := n.slots[userID]
	if ok {
		s.version++
		s.notification.Visible = false
		n.broadcastLocked(userID, s.notification)
	}
	n.mu.Unlock()

	if ok {
		logger.Debug("Notification dismissed by user.", nil)
	}
}

// Current возвращает текущее содержимое слота пользователя.
func (n *SlotNotifier) Current(userID uuid.UUID) (domain.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	s, ok := n.slots[userID]
	if !ok {
		return domain.Notification{}, false
	}
	return s.notification, true
}

// hide выполняет автоскрытие, если слот не был перезаписан.
func (n *SlotNotifier) hide(userID uuid.UUID, version uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	s, ok := n.slots[userID]
	if !ok || s.version != version || !s.notification.Visible {
		// Слот уже перезаписан более свежим Set или скрыт - таймер устарел.
		return
	}
	s.notification.Visible = false
	n.broadcastLocked(userID, s.notification)
}

// AddClient добавляет нового клиента (новое SSE-соединение).
// Этот метод вызывается из HTTP-хендлера.
func (n *SlotNotifier) AddClient(userID uuid.UUID) clientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(clientChannel, 8)
	n.clients[userID] = append(n.clients[userID], ch)

	// Новая вкладка сразу получает текущее состояние слота, если оно есть.
	if s, ok := n.slots[userID]; ok && s.notification.Visible {
		ch <- s.notification
	}

	n.logger.Debug("Notification client added.", port.Fields{
		"user_id":        userID.String(),
		"channels_count": len(n.clients[userID]),
	})
	return ch
}

// RemoveClient отключает клиента и освобождает его канал.
func (n *SlotNotifier) RemoveClient(userID uuid.UUID, ch clientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels := n.clients[userID]
	for i, existing := range channels {
		if existing == ch {
			n.clients[userID] = append(channels[:i], channels[i+1:]...)
			close(ch)
			break
		}
	}
	if len(n.clients[userID]) == 0 {
		delete(n.clients, userID)
	}

	n.logger.Debug("Notification client removed.", port.Fields{"user_id": userID.String()})
}

// broadcastLocked рассылает состояние слота всем вкладкам пользователя.
// Вызывается только под n.mu.
func (n *SlotNotifier) broadcastLocked(userID uuid.UUID, notification domain.Notification) {
	for _, ch := range n.clients[userID] {
		// select с default, чтобы не заблокироваться,
		// если канал клиента переполнен.
		select {
		case ch <- notification:
		default:
			n.logger.Warn("Client channel is full, skipping.", port.Fields{"user_id": userID.String()})
		}
	}
}
