package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	sdk "github.com/segmentio/kafka-go"

	"github.com/yungbote/catalog-backend/internal/config"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

const (
	EventVisitCreated = "visit.created"
	EventVisitDeleted = "visit.deleted"
)

var ErrNoBrokers = errors.New("kafka brokers missing")

// Event is a change notification. Payload is encoded with the entity's own
// MarshalJSON so hidden fields never reach the topic.
type Event struct {
	Type       string    `json:"type"`
	EntityID   uuid.UUID `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...sdk.Message) error
	Close() error
}

type publisher struct {
	log    *logger.Logger
	writer messageWriter
	topic  string
}

func NewPublisher(cfg config.EventsConfig, log *logger.Logger) (Publisher, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		return nil, config.ErrTopicEmpty
	}
	w := &sdk.Writer{
		Addr:                   sdk.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &sdk.Hash{},
		RequiredAcks:           sdk.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(w, topic, log), nil
}

func newPublisher(w messageWriter, topic string, log *logger.Logger) *publisher {
	return &publisher{
		log:    log.With("service", "KafkaPublisher", "topic", topic),
		writer: w,
		topic:  topic,
	}
}

func (p *publisher) Publish(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]sdk.Message, 0, len(events))
	for _, ev := range events {
		if ev.OccurredAt.IsZero() {
			ev.OccurredAt = time.Now().UTC()
		}
		value, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", ev.Type, err)
		}
		msgs = append(msgs, sdk.Message{
			Key:   []byte(ev.EntityID.String()),
			Value: value,
			Headers: []sdk.Header{
				{Key: "type", Value: []byte(ev.Type)},
			},
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	p.log.Debug("events published", "count", len(msgs))
	return nil
}

func (p *publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Nop returns a Publisher that drops every event.
func Nop() Publisher { return nopPublisher{} }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...Event) error { return nil }
func (nopPublisher) Close() error                            { return nil }
