package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/WeedGo-Platform/checkout-service/models"

	"github.com/segmentio/kafka-go"
)

// ProducerAPI is the publishing surface consumed by the checkout service.
type ProducerAPI interface {
	SendCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// SendCheckoutEvent publishes a terminal checkout event keyed by user so all
// events for one customer stay ordered.
func (p *Producer) SendCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("failed to send Kafka message: %v", err)
		return err
	}
	return nil
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}
