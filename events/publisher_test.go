package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent   []sent
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRabbitPublish(t *testing.T) {
	ch := &fakeChannel{}
	r := &Rabbit{ch: ch, exchange: "marketplace.events"}

	payload := map[string]interface{}{"type": "cart.updated", "memberID": 7}
	require.NoError(t, r.Publish(context.Background(), "cart.updated", payload))

	require.Len(t, ch.sent, 1)
	got := ch.sent[0]
	assert.Equal(t, "marketplace.events", got.exchange)
	assert.Equal(t, "cart.updated", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, "cart.updated", body["type"])
	assert.Equal(t, float64(7), body["memberID"])
}

func TestRabbitPublishErrors(t *testing.T) {
	boom := errors.New("channel closed")
	ch := &fakeChannel{err: boom}
	r := &Rabbit{ch: ch, exchange: "marketplace.events"}

	assert.ErrorIs(t, r.Publish(context.Background(), "cart.updated", map[string]string{}), boom)

	// 無法序列化的內容不會送出
	ch.err = nil
	assert.Error(t, r.Publish(context.Background(), "cart.updated", make(chan int)))
	assert.Empty(t, ch.sent)

	r.Close()
	assert.True(t, ch.closed)
}
