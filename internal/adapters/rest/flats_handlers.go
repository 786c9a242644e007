package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"flats-service/internal/adapters/feed"
	"flats-service/internal/contextkeys"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
	"flats-service/internal/core/port/usecases_port"
)

// FlatsHandlers обрабатывает запросы выдачи объявлений.
type FlatsHandlers struct {
	searchUC usecases_port.SearchFlatsUseCasePort
	feed     *feed.FlatFeed
}

// NewFlatsHandlers - конструктор.
func NewFlatsHandlers(searchUC usecases_port.SearchFlatsUseCasePort, flatFeed *feed.FlatFeed) *FlatsHandlers {
	return &FlatsHandlers{
		searchUC: searchUC,
		feed:     flatFeed,
	}
}

// List обрабатывает GET /api/v1/flats?city=<город>
func (h *FlatsHandlers) List(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListFlats"})

	session := SessionFromContext(r.Context())
	if session.State != domain.SessionPresent || session.Claims == nil {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	// Важно различать отсутствующий параметр и параметр с пустым значением:
	// "?city=" дает отфильтрованный запрос по пустому городу.
	values, present := r.URL.Query()["city"]
	cityParam := ""
	if present && len(values) > 0 {
		cityParam = values[0]
	}
	query := domain.NewFlatQuery(cityParam, present)

	handlerLogger := logger.WithFields(port.Fields{
		"city":     query.City,
		"filtered": query.Filtered,
	})
	handlerLogger.Info("Processing flats request", nil)

	flats, err := h.searchUC.Execute(r.Context(), session.Claims.SessionID, query)
	if err != nil {
		handlerLogger.Error("Search flats use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	handlerLogger.Info("Flats request processed", port.Fields{"count": len(flats)})

	RespondWithJSON(w, http.StatusOK, toFlatsResponse(flats))
}

// Subscribe обрабатывает GET /api/v1/flats/subscribe?city=<город> (SSE).
// Соединение живет, пока открыта вкладка; при уходе со страницы
// клиент закрывает соединение, и подписка освобождается.
func (h *FlatsHandlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubscribeFlats"})

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

	values, present := r.URL.Query()["city"]
	cityParam := ""
	if present && len(values) > 0 {
		cityParam = values[0]
	}
	query := domain.NewFlatQuery(cityParam, present)

	frames, unsubscribe := h.feed.Subscribe(r.Context(), query)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	logger.Info("Flats subscription opened", port.Fields{"query": query.Key()})

	for {
		select {
		case <-r.Context().Done():
			logger.Info("Flats subscription closed", port.Fields{"query": query.Key()})
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			payload, err := json.Marshal(frame)
			if err != nil {
				logger.Error("Failed to marshal feed frame", err, nil)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
