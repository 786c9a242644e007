package rabbitmq

import (
	"flats-service/internal/core/domain"
	"fmt"
	"time"
)

// FlatUpsertedDTO - тело события об изменении объявления.
// Поля соответствуют схеме FlatUpsertedEvent/1.0.0.
type FlatUpsertedDTO struct {
	ID              string  `json:"id"`
	Price           float64 `json:"price"`
	Address         string  `json:"address"`
	Description     string  `json:"description"`
	CoverImage      string  `json:"coverImage"`
	City            string  `json:"city"`
	PublicationTime string  `json:"publicationTime"`
}

// toDomainFlat маппит DTO события в доменную модель.
func toDomainFlat(dto *FlatUpsertedDTO) (domain.Flat, error) {
	publicationTime, err := time.Parse(time.RFC3339, dto.PublicationTime)
	if err != nil {
		return domain.Flat{}, fmt.Errorf("invalid publicationTime %q: %w", dto.PublicationTime, err)
	}

	return domain.Flat{
		ID:              dto.ID,
		Price:           dto.Price,
		Address:         dto.Address,
		Description:     dto.Description,
		CoverImage:      dto.CoverImage,
		City:            dto.City,
		PublicationTime: publicationTime,
	}, nil
}
