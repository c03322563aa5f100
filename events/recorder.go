package events

import (
	"context"
	"sync"
)

type Message struct {
	RoutingKey string
	Payload    interface{}
}

// Recorder 把事件留在記憶體，測試及本機除錯使用
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Publish(_ context.Context, routingKey string, v interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{RoutingKey: routingKey, Payload: v})
	return nil
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
