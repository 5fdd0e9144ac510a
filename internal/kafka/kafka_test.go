package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

type queueReader struct {
	messages []kafka.Message
}

func (r *queueReader) ReadMessage(_ context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *queueReader) Close() error { return nil }

func discardLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	return log
}

func TestProducer_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter([]string{"localhost:9092"}, w, discardLogger())

	event := domain.Event{Type: domain.EventBookingCommitted, BookingID: "bk-1", Fare: 85}
	require.NoError(t, p.Publish(context.Background(), "booking-events", "bk-1", event))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "booking-events", msg.Topic)
	assert.Equal(t, []byte("bk-1"), msg.Key)

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.Type, decoded.Type)
	assert.Equal(t, int64(85), decoded.Fare)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(nil, w, discardLogger())

	err := p.Publish(context.Background(), "t", "k", map[string]string{"a": "b"})
	assert.ErrorContains(t, err, "failed to write message to Kafka")
}

func TestProducer_MarshalError(t *testing.T) {
	p := NewProducerWithWriter(nil, &recordingWriter{}, discardLogger())

	err := p.Publish(context.Background(), "t", "k", make(chan int))
	assert.ErrorContains(t, err, "failed to marshal payload")
}

func TestProducer_CheckConnectionWithoutBrokers(t *testing.T) {
	p := NewProducerWithWriter(nil, &recordingWriter{}, discardLogger())
	assert.Error(t, p.CheckConnection(context.Background()))
}

func TestConsumer_Consume(t *testing.T) {
	good, err := json.Marshal(domain.Event{Type: domain.EventBookingCancelled, BookingID: "bk-2", Refund: 51, OccurredAt: time.Now()})
	require.NoError(t, err)

	reader := &queueReader{messages: []kafka.Message{
		{Value: []byte("not json")},
		{Value: good},
	}}
	log, hook := test.NewNullLogger()
	c := NewConsumerWithReader(reader, log)

	var got []domain.Event
	err = c.Consume(context.Background(), func(_ context.Context, e domain.Event) error {
		got = append(got, e)
		return nil
	})

	assert.ErrorIs(t, err, io.EOF)
	require.Len(t, got, 1)
	assert.Equal(t, "bk-2", got[0].BookingID)
	assert.Equal(t, int64(51), got[0].Refund)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestConsumer_HandlerErrorStops(t *testing.T) {
	good, _ := json.Marshal(domain.Event{BookingID: "bk"})
	reader := &queueReader{messages: []kafka.Message{{Value: good}, {Value: good}}}
	c := NewConsumerWithReader(reader, discardLogger())

	calls := 0
	stop := errors.New("stop")
	err := c.Consume(context.Background(), func(context.Context, domain.Event) error {
		calls++
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
