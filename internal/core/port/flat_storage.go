package port

import (
	"context"
	"flats-service/internal/core/domain"
)

// FlatStoragePort определяет контракт хранилища объявлений.
type FlatStoragePort interface {
	// Find выполняет один из двух вариантов запроса (см. domain.NewFlatQuery)
	// и возвращает упорядоченную выдачу.
	Find(ctx context.Context, query domain.FlatQuery) ([]domain.Flat, error)
	// Upsert сохраняет объявление, пришедшее из события об изменении данных.
	Upsert(ctx context.Context, flat domain.Flat) error
}
