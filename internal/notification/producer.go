package notification

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer wraps an async kafka writer behind a buffered inbox so the
// request path never blocks on the broker. Remaining messages are flushed on
// shutdown.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
	name    string
	log     *zap.Logger

	mu     sync.Mutex
	closed bool
}

func NewProducer(brokers []string, topic, name string, buf int, log *zap.Logger) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		name:    name,
		log:     log.With(zap.String("component", "notification_producer")),
	}
}

// Start drains the inbox until Close. Shutdown is driven by Close, not a
// context: the loop has to outlive the HTTP server so requests still being
// drained can publish.
func (p *Producer) Start() {
	go func() {
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.log.Error("Failed to publish notification", zap.Error(err))
			}
		}
		_ = p.w.Close()
		close(p.closeCh)
	}()
}

// Publish wraps the payload in an envelope and drops it into the inbox. The
// key keeps events for one subject on one partition, preserving their order.
func (p *Producer) Publish(eventType string, key string, payload any) {
	env := Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Producer:   p.name,
		Payload:    json.RawMessage(MustMarshal(payload)),
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: MustMarshal(env),
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(eventType)},
		},
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.log.Warn("Notification published after close, dropping",
			zap.String("event_type", eventType),
			zap.String("key", key),
		)
		return
	}
	p.inbox <- msg
}

// Close stops accepting publishes and lets the loop flush what is queued.
// Call it only after every publisher has stopped, i.e. after the HTTP server
// has drained its in-flight requests. Safe to call more than once.
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.inbox)
}

// WaitClosed blocks until the flush is done.
func (p *Producer) WaitClosed() { <-p.closeCh }
