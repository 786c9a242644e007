package usecase

import (
	"context"
	"flats-service/internal/contextkeys"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
)

// IngestFlatUseCase сохраняет объявление, пришедшее из события об
// изменении данных, и оповещает живые подписки, чтобы они перечитали
// свои запросы.
type IngestFlatUseCase struct {
	storage port.FlatStoragePort
	feed    port.FlatFeedPort
}

func NewIngestFlatUseCase(storage port.FlatStoragePort, feed port.FlatFeedPort) *IngestFlatUseCase {
	return &IngestFlatUseCase{
		storage: storage,
		feed:    feed,
	}
}

func (uc *IngestFlatUseCase) Execute(ctx context.Context, flat domain.Flat) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "IngestFlat",
		"flat_id":  flat.ID,
		"city":     flat.City,
	})
	ucLogger.Info("Use case started: ingesting flat record", nil)

	if err := uc.storage.Upsert(ctx, flat); err != nil {
		ucLogger.Error("Storage failed to upsert flat", err, nil)
		return err
	}

	// Данные коллекции изменились - подписки должны перечитать выдачу.
	uc.feed.Refresh(ctx)

	ucLogger.Info("Use case finished: flat ingested, feed refreshed", nil)
	return nil
}
