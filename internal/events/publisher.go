// Package events publishes confirmed fills for the reconciliation monitor.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type FillEvent struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	ChainID   int64     `json:"chain_id"`
	Market    string    `json:"market"`
	Side      string    `json:"side"`
	Size      string    `json:"size"`
	FillPrice string    `json:"fill_price"`
	TxHash    string    `json:"tx_hash"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	PublishFill(ctx context.Context, event FillEvent) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) PublishFill(ctx context.Context, event FillEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when no brokers are configured
type NopPublisher struct{}

func (NopPublisher) PublishFill(ctx context.Context, event FillEvent) error { return nil }
func (NopPublisher) Close() error                                           { return nil }
