package notification

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"shopline/internal/data/entity"
	"shopline/internal/data/repository"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- fakes ---

type fakeSender struct {
	mu    sync.Mutex
	sent  []sentMail
	fail  bool
	calls int
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	due       []*repository.DeliveryDueOrder
	delivered []uuid.UUID
}

func (f *fakeOrderRepo) PlaceOrder(ctx context.Context, order *entity.Order) ([]*entity.OrderItem, error) {
	return nil, nil
}
func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) FindByOrderID(ctx context.Context, orderID string) (*entity.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}
func (f *fakeOrderRepo) FindItems(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error) {
	return nil, nil
}
func (f *fakeOrderRepo) SetPaid(ctx context.Context, id uuid.UUID, method entity.PaymentMethod) (bool, error) {
	return false, nil
}
func (f *fakeOrderRepo) FindDeliveryDue(ctx context.Context) ([]*repository.DeliveryDueOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.due, nil
}
func (f *fakeOrderRepo) MarkDelivered(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = append(f.delivered, id)
	return true, nil
}
func (f *fakeOrderRepo) FindAll(ctx context.Context, limit, offset int, status *string, search *string) ([]*entity.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) CountAll(ctx context.Context, status *string, search *string) (int64, error) {
	return 0, nil
}

func envelopeMessage(t *testing.T, eventType string, payload any) kafka.Message {
	t.Helper()
	env := Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Producer:   "test",
		Payload:    json.RawMessage(MustMarshal(payload)),
	}
	return kafka.Message{Value: MustMarshal(env)}
}

// --- tests ---

func TestDispatchUserRegistered(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(&fakeOrderRepo{}, sender, zap.NewNop())

	msg := envelopeMessage(t, EventUserRegistered, UserRegisteredPayload{
		UserID:     uuid.NewString(),
		Username:   "alice",
		Email:      "alice@example.com",
		VerifyLink: "http://localhost:8080/api/verify-email?token=abc",
	})

	require.NoError(t, d.Handle(context.Background(), msg))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "alice@example.com", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].body, "token=abc")
}

func TestDispatchDeliveryDueMarksDelivered(t *testing.T) {
	sender := &fakeSender{}
	orders := &fakeOrderRepo{}
	d := NewDispatcher(orders, sender, zap.NewNop())

	orderID := uuid.New()
	msg := envelopeMessage(t, EventDeliveryDue, DeliveryDuePayload{
		ID:      orderID.String(),
		OrderID: "ORD-1",
		Email:   "alice@example.com",
		Address: "1 Main St, Mumbai, India",
	})

	require.NoError(t, d.Handle(context.Background(), msg))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].body, "ORD-1")
	require.Len(t, orders.delivered, 1)
	assert.Equal(t, orderID, orders.delivered[0])
}

func TestDispatchDeliveryDueFailedSendStaysDue(t *testing.T) {
	sender := &fakeSender{fail: true}
	orders := &fakeOrderRepo{}
	d := NewDispatcher(orders, sender, zap.NewNop())

	msg := envelopeMessage(t, EventDeliveryDue, DeliveryDuePayload{
		ID:      uuid.NewString(),
		OrderID: "ORD-1",
		Email:   "alice@example.com",
		Address: "1 Main St",
	})

	// A failed send surfaces as an error and must not stamp the order
	err := d.Handle(context.Background(), msg)
	require.Error(t, err)
	assert.Empty(t, orders.delivered)
	assert.Greater(t, sender.calls, 1) // retried before giving up
}

func TestDispatchUnknownEventCommitted(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(&fakeOrderRepo{}, sender, zap.NewNop())

	msg := envelopeMessage(t, "something.else", struct{}{})

	// Unknown types are dropped, not retried
	require.NoError(t, d.Handle(context.Background(), msg))
	assert.Empty(t, sender.sent)
}

func TestDispatchMalformedMessageCommitted(t *testing.T) {
	d := NewDispatcher(&fakeOrderRepo{}, &fakeSender{}, zap.NewNop())

	require.NoError(t, d.Handle(context.Background(), kafka.Message{Value: []byte("not json")}))
}
