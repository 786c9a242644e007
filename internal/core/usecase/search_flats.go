package usecase

import (
	"context"
	"flats-service/internal/contextkeys"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"

	"github.com/google/uuid"
)

type SearchFlatsUseCase struct {
	storage   port.FlatStoragePort
	flatCache port.FlatCachePort
}

func NewSearchFlatsUseCase(storage port.FlatStoragePort, flatCache port.FlatCachePort) *SearchFlatsUseCase {
	return &SearchFlatsUseCase{
		storage:   storage,
		flatCache: flatCache,
	}
}

// Execute выполняет активный запрос выдачи для сессии. Повторный вызов
// с теми же параметрами при неизменных данных возвращает тот же
// упорядоченный набор (детерминированный ORDER BY в хранилище).
func (uc *SearchFlatsUseCase) Execute(ctx context.Context, sessionID uuid.UUID, query domain.FlatQuery) ([]domain.Flat, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SearchFlats",
		"query":    query.Key(),
		"filtered": query.Filtered,
	})

	ucLogger.Info("Use case started", nil)

	if cached, ok := uc.flatCache.Get(sessionID, query.Key()); ok {
		ucLogger.Debug("Serving result from session cache", port.Fields{"items": len(cached)})
		return cached, nil
	}

	flats, err := uc.storage.Find(ctx, query)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	uc.flatCache.Put(sessionID, query.Key(), flats)

	ucLogger.Info("Use case finished successfully", port.Fields{"items": len(flats)})
	return flats, nil
}
