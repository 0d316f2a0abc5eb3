package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/stock"
	"github.com/avelars/eventmerch-service/internal/stock/dto"
	"github.com/avelars/eventmerch-service/pkg/broker"
	"github.com/avelars/eventmerch-service/pkg/logger"
	"go.uber.org/zap"
)

// StockListener consumes OrderCreated events from the online shop and
// applies the stock deduction. Order creation inside this service never
// touches stock; this is the one place online sales reduce quantities.
type StockListener struct {
	consumer *broker.KafkaConsumer
	uc       stock.UseCase
	logger   logger.ZapLogger
}

func NewStockListener(consumer *broker.KafkaConsumer, uc stock.UseCase, logger logger.ZapLogger) *StockListener {
	return &StockListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *StockListener) Start(ctx context.Context) {
	l.logger.Info("Starting stock kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping stock kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID    string             `json:"id"`
	Items []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" {
		return
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	for _, item := range event.Payload.Items {
		if item.Quantity <= 0 {
			continue
		}
		input := &dto.AdjustStockInput{
			VariantID:     item.VariantID,
			Delta:         -item.Quantity,
			MovementType:  model.MovementReduce,
			Reason:        "online order sale",
			ReferenceID:   event.Payload.ID,
			ReferenceType: "sale",
			UserID:        "shop",
		}

		if _, err := l.uc.Adjust(ctx, input); err != nil {
			l.logger.Error("Failed to adjust stock for order item",
				zap.String("order_id", event.Payload.ID),
				zap.String("variant_id", item.VariantID),
				zap.Error(err),
			)
		}
	}
}
