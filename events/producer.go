// Package events publishes order lifecycle events to Kafka for downstream
// consumers (notifications, analytics). Publishing is best-effort: a broker
// outage is logged, never surfaced to the request that triggered it.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kimsinwoo/lupl-backend/models"
)

const (
	TypeOrderCreated     = "order.created"
	TypeOrderCancelled   = "order.cancelled"
	TypePaymentConfirmed = "payment.confirmed"
	TypePaymentFailed    = "payment.failed"
)

type OrderEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	UserID        string    `json:"user_id"`
	Total         float64   `json:"total"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Timestamp     time.Time `json:"timestamp"`
}

type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer returns nil when no brokers are configured; all methods are
// nil-safe so callers need no guard.
func NewProducer(brokers, topic string, logger *zap.Logger) *Producer {
	if strings.TrimSpace(brokers) == "" {
		return nil
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
	}
	return &Producer{writer: w, logger: logger}
}

func (p *Producer) Publish(ctx context.Context, eventType string, order *models.Order) {
	if p == nil || order == nil {
		return
	}
	evt := OrderEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Total:         order.Total,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		Timestamp:     time.Now().UTC(),
	}
	data, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("marshal order event", zap.Error(err))
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID),
		Value: data,
	})
	if err != nil {
		p.logger.Warn("publish order event",
			zap.String("type", eventType),
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
