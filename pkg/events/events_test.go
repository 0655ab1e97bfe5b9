package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaProducer_Publish(t *testing.T) {
	fw := &fakeWriter{}
	p := &KafkaProducer{w: fw}

	ev := New(OrderPlaced, map[string]any{"orderId": "o-1", "items": 2})
	require.NoError(t, p.Publish(context.Background(), TopicOrders, "u-1", ev))

	require.Len(t, fw.msgs, 1)
	msg := fw.msgs[0]
	assert.Equal(t, TopicOrders, msg.Topic)
	assert.Equal(t, "u-1", string(msg.Key))
	assert.Equal(t, "event-type", msg.Headers[0].Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, OrderPlaced, decoded["type"])
	assert.Equal(t, "o-1", decoded["payload"].(map[string]any)["orderId"])
}

func TestKafkaProducer_WriteError(t *testing.T) {
	p := &KafkaProducer{w: &fakeWriter{err: errors.New("broker down")}}
	err := p.Publish(context.Background(), TopicCart, "k", New(CartItemAdded, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestKafkaProducer_EncodeError(t *testing.T) {
	p := &KafkaProducer{w: &fakeWriter{}}
	err := p.Publish(context.Background(), TopicCart, "k", New(CartItemAdded, make(chan int)))
	require.Error(t, err)
}

func TestNewKafkaProducer_NoBrokers(t *testing.T) {
	_, err := NewKafkaProducer(nil)
	require.Error(t, err)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_ = r.Publish(context.Background(), TopicAccounts, "a", New(AccountRegistered, nil))
	_ = r.Publish(context.Background(), TopicOrders, "b", New(OrderPlaced, nil))

	assert.Len(t, r.Events(), 2)
	assert.Len(t, r.OfType(OrderPlaced), 1)
	assert.NoError(t, Nop{}.Publish(context.Background(), "t", "k", Event{}))
}
