package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaWriter is the part of kafka.Writer the publisher uses, so tests can fake it
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EnquiryCreated is published once per stored enquiry
type EnquiryCreated struct {
	EnquiryID       string    `json:"enquiryId"`
	EnquiryType     string    `json:"enquiryType"`
	SellerID        string    `json:"sellerId,omitempty"`
	StakeholderType string    `json:"stakeholderType,omitempty"`
	VisitorLocation string    `json:"visitorLocation"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Publisher writes domain events to one Kafka topic
type Publisher struct {
	writer KafkaWriter
	topic  string
	log    *zap.SugaredLogger
}

// NewKafkaPublisher creates a publisher for topic on brokers
func NewKafkaPublisher(brokers []string, topic string, log *zap.SugaredLogger) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return NewPublisher(w, topic, log)
}

// NewPublisher wraps an existing writer
func NewPublisher(w KafkaWriter, topic string, log *zap.SugaredLogger) *Publisher {
	return &Publisher{writer: w, topic: topic, log: log}
}

// PublishEnquiryCreated keys the message by enquiry id
func (p *Publisher) PublishEnquiryCreated(ctx context.Context, evt EnquiryCreated) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode enquiry event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.EnquiryID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("enquiry.created")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}

	p.log.Debugf("Published enquiry.created for %s", evt.EnquiryID)
	return nil
}

// Close flushes pending messages
func (p *Publisher) Close() error {
	return p.writer.Close()
}
