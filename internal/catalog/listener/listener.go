package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/catalog"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventProductUpserted = "ProductUpserted"
	EventProductDeleted  = "ProductDeleted"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// CatalogListener drops the cached listings whenever the back office reports a product change.
type CatalogListener struct {
	reader  messageReader
	uc      catalog.UseCase
	logger  logger.ZapLogger
	backoff time.Duration
}

func NewCatalogListener(reader messageReader, uc catalog.UseCase, logger logger.ZapLogger) *CatalogListener {
	return &CatalogListener{
		reader:  reader,
		uc:      uc,
		logger:  logger,
		backoff: time.Second,
	}
}

// NewKafkaReader builds a consumer-group reader for the catalog events topic.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
}

func (l *CatalogListener) Start(ctx context.Context) {
	l.logger.Info("Starting Catalog Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Catalog Kafka Listener")
			return
		default:
			msg, err := l.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *CatalogListener) Close() error {
	return l.reader.Close()
}

type ProductChangedEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Payload   ProductPayload `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type ProductPayload struct {
	ID string `json:"id"`
}

func (l *CatalogListener) processMessage(ctx context.Context, value []byte) {
	var event ProductChangedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	switch event.EventType {
	case EventProductUpserted, EventProductDeleted:
	default:
		return
	}

	l.logger.Info("Processing catalog event",
		zap.String("event_type", event.EventType),
		zap.String("product_id", event.Payload.ID),
	)

	if err := l.uc.InvalidateCache(ctx); err != nil {
		l.logger.Error("Failed to invalidate catalog cache",
			zap.String("product_id", event.Payload.ID),
			zap.Error(err),
		)
	}
}
