package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"flats-service/internal/adapters/notifier"
	"flats-service/internal/contextkeys"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
)

// NotificationHandlers обрабатывает запросы канала уведомлений.
type NotificationHandlers struct {
	notifier *notifier.SlotNotifier
}

// NewNotificationHandlers - конструктор.
func NewNotificationHandlers(slotNotifier *notifier.SlotNotifier) *NotificationHandlers {
	return &NotificationHandlers{notifier: slotNotifier}
}

// Current обрабатывает GET /api/v1/notifications/current
func (h *NotificationHandlers) Current(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if session.State != domain.SessionPresent || session.Claims == nil {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	notification, ok := h.notifier.Current(session.Claims.UserID)
	if !ok {
		notification = domain.Notification{Placement: domain.PlacementBottomLeft}
	}
	RespondWithJSON(w, http.StatusOK, notification)
}

// Dismiss обрабатывает DELETE /api/v1/notifications/current
// Явное закрытие уведомления пользователем до истечения таймера.
func (h *NotificationHandlers) Dismiss(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if session.State != domain.SessionPresent || session.Claims == nil {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	h.notifier.Dismiss(r.Context(), session.Claims.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// Subscribe обрабатывает GET /api/v1/notifications/subscribe (SSE).
// Каждая открытая вкладка держит свое соединение и получает
// все смены состояния единственного слота пользователя.
func (h *NotificationHandlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubscribeNotifications"})

	session := SessionFromContext(r.Context())
	if session.State != domain.SessionPresent || session.Claims == nil {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	userID := session.Claims.UserID
	ch := h.notifier.AddClient(userID)
	defer h.notifier.RemoveClient(userID, ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	logger.Info("Notification subscription opened", port.Fields{"user_id": userID.String()})

	for {
		select {
		case <-r.Context().Done():
			logger.Info("Notification subscription closed", port.Fields{"user_id": userID.String()})
			return
		case notification, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(notification)
			if err != nil {
				logger.Error("Failed to marshal notification", err, nil)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
