package constants

// Имена сущностей RabbitMQ
const (
	QueueFlatEvents    = "flat_events"
	ExchangeFlatEvents = "flats"
)

// Ключи маршрутизации
const (
	RoutingKeyFlatUpserted = "flats.flat.upserted"
)

// Метаданные событий
const (
	HeaderEventType    = "event_type"
	HeaderEventVersion = "event_version"

	EventFlatUpserted        = "FlatUpsertedEvent"
	EventFlatUpsertedVersion = "1.0.0"
)
