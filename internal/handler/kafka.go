package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/config"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"
)

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID int64, status entities.OrderStatus) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaHandler применяет события сервиса доставки о смене статуса заказа.
type kafkaHandler struct {
	dlq      messageWriter
	reader   messageReader
	logger   *slog.Logger
	validate *validator.Validate
	updater  StatusUpdater
}

func NewKafkaHandler(logger *slog.Logger, cfg config.Kafka, updater StatusUpdater) *kafkaHandler {
	return &kafkaHandler{
		logger: logger.With(slog.String("handler", "kafka")),
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			GroupID: cfg.GroupID,
			Topic:   cfg.Topic,
			MaxWait: cfg.ReaderMaxWait,
		}),
		dlq: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
		validate: newValidator(),
		updater:  updater,
	}
}

func (h *kafkaHandler) Consume(ctx context.Context) {
	for {
		m, err := h.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				break
			}
			h.logger.Error("failed to fetch message", slog.Any("error", err))
			continue
		}

		if err := h.handleStatusEvent(ctx, m); err != nil {
			statusEventsFailed.Inc()
			h.logger.Error("failed to handle message", slog.Any("error", err), slog.Int64("offset", m.Offset))

			// В библиотеке уже есть retry
			if err := h.WriteToDLQ(ctx, m); err != nil {
				h.logger.Error("failed to write message to DLQ", slog.Any("error", err))
				continue
			}
			statusEventsDLQ.Inc()
		} else {
			statusEventsProcessed.Inc()
		}

		if err := h.reader.CommitMessages(ctx, m); err != nil {
			commitErrors.Inc()
			h.logger.Error("failed to commit message", slog.Any("error", err))
		}
	}
}

func (h *kafkaHandler) handleStatusEvent(ctx context.Context, m kafka.Message) error {
	statusEventsInProgress.Inc()
	defer statusEventsInProgress.Dec()
	start := time.Now()
	defer func() { statusEventDuration.Observe(time.Since(start).Seconds()) }()

	var event StatusEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal status event: %w", err)
	}

	if err := h.validate.Struct(event); err != nil {
		return fmt.Errorf("invalid status event: %w", err)
	}

	return h.updater.UpdateStatus(ctx, event.OrderID, entities.OrderStatus(event.Status))
}

func (h *kafkaHandler) WriteToDLQ(ctx context.Context, m kafka.Message) error {
	return h.dlq.WriteMessages(ctx, kafka.Message{
		Topic:   fmt.Sprintf("%s-dlq", m.Topic),
		Key:     m.Key,
		Value:   m.Value,
		Headers: m.Headers,
	})
}

func (h *kafkaHandler) Close() error {
	return errors.Join(h.reader.Close(), h.dlq.Close())
}
