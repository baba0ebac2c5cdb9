package notification

import (
	"context"
	"sync"
	"testing"

	"shopline/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []struct {
		eventType string
		key       string
		payload   any
	}
}

func (f *fakePublisher) Publish(eventType string, key string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, struct {
		eventType string
		key       string
		payload   any
	}{eventType, key, payload})
}

func TestSchedulerPublishesDueOrders(t *testing.T) {
	orders := &fakeOrderRepo{
		due: []*repository.DeliveryDueOrder{
			{ID: uuid.New(), OrderID: "ORD-1", Email: "a@example.com", Address: "1 Main St"},
			{ID: uuid.New(), OrderID: "ORD-2", Email: "b@example.com", Address: "2 Side St"},
		},
	}
	pub := &fakePublisher{}

	s := NewDeliveryScheduler(orders, pub, 0, zap.NewNop())
	s.Tick(context.Background())

	require.Len(t, pub.events, 2)
	assert.Equal(t, EventDeliveryDue, pub.events[0].eventType)
	assert.Equal(t, "ORD-1", pub.events[0].key)

	payload := pub.events[1].payload.(DeliveryDuePayload)
	assert.Equal(t, "ORD-2", payload.OrderID)
	assert.Equal(t, "b@example.com", payload.Email)
}

func TestSchedulerNoDueOrders(t *testing.T) {
	pub := &fakePublisher{}
	s := NewDeliveryScheduler(&fakeOrderRepo{}, pub, 0, zap.NewNop())

	s.Tick(context.Background())
	assert.Empty(t, pub.events)
}
