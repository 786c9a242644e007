package postgres_adapter

import (
	"context"
	"flats-service/internal/contextkeys"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FlatStorageAdapter реализует FlatStoragePort для PostgreSQL.
type FlatStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewFlatStorageAdapter(pool *pgxpool.Pool) (*FlatStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &FlatStorageAdapter{
		pool: pool,
	}, nil
}

// Два варианта запроса выдачи. Сортировка в запросе без фильтра
// детерминирована (publication_time, затем id как tie-breaker),
// чтобы одинаковые вызовы возвращали одинаково упорядоченный набор.
const (
	sqlFindAll = `
		SELECT id, price, address, description, cover_image, city, publication_time
		FROM flats
		ORDER BY publication_time ASC, id ASC
		LIMIT $1`

	sqlFindByCity = `
		SELECT id, price, address, description, cover_image, city, publication_time
		FROM flats
		WHERE city = $1
		ORDER BY publication_time ASC, id ASC
		LIMIT $2`
)

// Find выполняет активный запрос и возвращает упорядоченную выдачу.
func (a *FlatStorageAdapter) Find(ctx context.Context, query domain.FlatQuery) ([]domain.Flat, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	storageLogger := logger.WithFields(port.Fields{
		"component": "FlatStorageAdapter",
		"method":    "Find",
		"query":     query.Key(),
	})

	limit := query.Limit
	if limit <= 0 {
		limit = domain.FlatQueryLimit
	}

	storageLogger.Debug("Executing flats query.", port.Fields{"filtered": query.Filtered, "limit": limit})

	var rows pgx.Rows
	var err error
	if query.Filtered {
		// Точное, регистрозависимое совпадение города.
		rows, err = a.pool.Query(ctx, sqlFindByCity, query.City, limit)
	} else {
		rows, err = a.pool.Query(ctx, sqlFindAll, limit)
	}
	if err != nil {
		storageLogger.Error("Failed to query flats", err, nil)
		return nil, fmt.Errorf("failed to query flats: %w", err)
	}
	defer rows.Close()

	flats := make([]domain.Flat, 0, limit)
	for rows.Next() {
		var flat domain.Flat
		if err := rows.Scan(
			&flat.ID,
			&flat.Price,
			&flat.Address,
			&flat.Description,
			&flat.CoverImage,
			&flat.City,
			&flat.PublicationTime,
		); err != nil {
			storageLogger.Error("Failed to scan flat row", err, nil)
			return nil, fmt.Errorf("failed to scan flat row: %w", err)
		}
		flats = append(flats, flat)
	}
	if err := rows.Err(); err != nil {
		storageLogger.Error("Rows iteration failed", err, nil)
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	storageLogger.Debug("Flats query finished.", port.Fields{"items": len(flats)})
	return flats, nil
}

// Upsert сохраняет объявление, пришедшее из события об изменении данных.
func (a *FlatStorageAdapter) Upsert(ctx context.Context, flat domain.Flat) error {
	logger := contextkeys.LoggerFromContext(ctx)
	storageLogger := logger.WithFields(port.Fields{
		"component": "FlatStorageAdapter",
		"method":    "Upsert",
		"flat_id":   flat.ID,
	})

	query := `
		INSERT INTO flats (id, price, address, description, cover_image, city, publication_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			price = EXCLUDED.price,
			address = EXCLUDED.address,
			description = EXCLUDED.description,
			cover_image = EXCLUDED.cover_image,
			city = EXCLUDED.city,
			publication_time = EXCLUDED.publication_time`

	storageLogger.Debug("Executing query to upsert flat.", nil)
	_, err := a.pool.Exec(ctx, query,
		flat.ID, flat.Price, flat.Address, flat.Description, flat.CoverImage, flat.City, flat.PublicationTime)
	if err != nil {
		storageLogger.Error("Failed to upsert flat", err, nil)
		return fmt.Errorf("failed to upsert flat: %w", err)
	}

	storageLogger.Debug("Flat upserted successfully.", nil)
	return nil
}
