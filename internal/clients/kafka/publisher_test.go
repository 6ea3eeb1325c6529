package kafka

import (
	"context"
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	sdk "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/catalog-backend/internal/config"
	types "github.com/yungbote/catalog-backend/internal/domain"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

type recordingWriter struct {
	msgs   []sdk.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...sdk.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishEncodesProjectedPayload(t *testing.T) {
	w := &recordingWriter{}
	p := newPublisher(w, "catalog.visits", logger.Nop())

	pet := &types.Pet{ID: uuid.New(), Name: "Rex"}
	v := &types.Visit{ID: uuid.New(), PetID: pet.ID, Pet: pet, Description: "checkup"}
	require.NoError(t, p.Publish(context.Background(), Event{Type: EventVisitCreated, EntityID: v.ID, Payload: v}))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, v.ID.String(), string(msg.Key))
	assert.Equal(t, []sdk.Header{{Key: "type", Value: []byte(EventVisitCreated)}}, msg.Headers)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, EventVisitCreated, decoded["type"])
	assert.NotEmpty(t, decoded["occurred_at"])
	payload, ok := decoded["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "checkup", payload["description"])
	assert.NotContains(t, payload, "pet")
	assert.Equal(t, pet.ID.String(), payload["pet_id"])
}

func TestPublishWriteError(t *testing.T) {
	boom := errors.New("leader not available")
	p := newPublisher(&recordingWriter{err: boom}, "t", logger.Nop())
	err := p.Publish(context.Background(), Event{Type: EventVisitDeleted, EntityID: uuid.New()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestPublishNothing(t *testing.T) {
	w := &recordingWriter{}
	p := newPublisher(w, "t", logger.Nop())
	require.NoError(t, p.Publish(context.Background()))
	assert.Empty(t, w.msgs)
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewPublisherConfig(t *testing.T) {
	_, err := NewPublisher(config.EventsConfig{Brokers: []string{" "}}, logger.Nop())
	assert.True(t, errors.Is(err, ErrNoBrokers))

	_, err = NewPublisher(config.EventsConfig{Brokers: []string{"localhost:9092"}}, logger.Nop())
	assert.True(t, errors.Is(err, config.ErrTopicEmpty))

	p, err := NewPublisher(config.EventsConfig{Brokers: []string{"localhost:9092"}, Topic: "catalog.visits"}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
