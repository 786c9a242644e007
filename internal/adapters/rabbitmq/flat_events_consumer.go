package rabbitmq

import (
	"context"
	"encoding/json"
	"flats-service/internal/constants"
	"flats-service/internal/contextkeys"
	"flats-service/internal/contracts"
	"flats-service/internal/core/port"
	"flats-service/internal/core/port/usecases_port"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// FlatEventsConsumerAdapter - входящий адаптер, который слушает очередь
// с событиями об изменении объявлений и вызывает use case ингеста.
type FlatEventsConsumerAdapter struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	useCase    usecases_port.IngestFlatUseCasePort
	logger     port.LoggerPort
}

// NewFlatEventsConsumerAdapter подключается к RabbitMQ и настраивает
// обменник, очередь и привязку.
func NewFlatEventsConsumerAdapter(url string, useCase usecases_port.IngestFlatUseCasePort,
	baseLogger port.LoggerPort) (*FlatEventsConsumerAdapter, error) {

	logger := baseLogger.WithFields(port.Fields{"component": "FlatEventsConsumer"})

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := ch.ExchangeDeclare(constants.ExchangeFlatEvents, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	queue, err := ch.QueueDeclare(constants.QueueFlatEvents, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(queue.Name, constants.RoutingKeyFlatUpserted, constants.ExchangeFlatEvents, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	// Обрабатываем по одному сообщению за раз, ингест не требует батчей.
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &FlatEventsConsumerAdapter{
		connection: conn,
		channel:    ch,
		useCase:    useCase,
		logger:     logger,
	}, nil
}

// Start запускает цикл потребления. Блокируется до отмены контекста
// или закрытия канала, поэтому вызывается в отдельной горутине.
func (a *FlatEventsConsumerAdapter) Start(ctx context.Context) error {
	deliveries, err := a.channel.Consume(constants.QueueFlatEvents, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	a.logger.Info("Flat events consumer started.", port.Fields{"queue": constants.QueueFlatEvents})

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Flat events consumer stopping: context cancelled.", nil)
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				a.logger.Warn("Delivery channel closed, consumer stopping.", nil)
				return nil
			}
			a.handleDelivery(ctx, delivery)
		}
	}
}

// handleDelivery валидирует и обрабатывает одно сообщение.
func (a *FlatEventsConsumerAdapter) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	eventType, _ := delivery.Headers[constants.HeaderEventType].(string)
	eventVersion, _ := delivery.Headers[constants.HeaderEventVersion].(string)

	msgLogger := a.logger.WithFields(port.Fields{
		"event_type":    eventType,
		"event_version": eventVersion,
		"routing_key":   delivery.RoutingKey,
	})

	// Граница доверия: запись коллаборатора сначала проверяется по схеме.
	// Невалидное сообщение логируется и отбрасывается без повторной доставки.
	if err := contracts.ValidateEvent(eventType, eventVersion, delivery.Body); err != nil {
		msgLogger.Error("Malformed flat event rejected", err, nil)
		_ = delivery.Nack(false, false)
		return
	}

	var dto FlatUpsertedDTO
	if err := json.Unmarshal(delivery.Body, &dto); err != nil {
		msgLogger.Error("Failed to unmarshal flat event", err, nil)
		_ = delivery.Nack(false, false)
		return
	}

	flat, err := toDomainFlat(&dto)
	if err != nil {
		msgLogger.Error("Failed to map flat event to domain", err, nil)
		_ = delivery.Nack(false, false)
		return
	}

	msgCtx := contextkeys.ContextWithLogger(ctx, msgLogger)
	if err := a.useCase.Execute(msgCtx, flat); err != nil {
		msgLogger.Error("Ingest use case failed, requeueing message", err, nil)
		_ = delivery.Nack(false, true)
		return
	}

	_ = delivery.Ack(false)
	msgLogger.Debug("Flat event processed.", port.Fields{"flat_id": flat.ID})
}

// Close освобождает канал и соединение.
func (a *FlatEventsConsumerAdapter) Close() error {
	if err := a.channel.Close(); err != nil {
		a.logger.Error("Failed to close channel", err, nil)
	}
	return a.connection.Close()
}
