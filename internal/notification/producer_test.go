package notification

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProducerPublishAfterCloseIsDropped(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "notifications", "test-app", 8, zap.NewNop())
	p.Start()

	p.Close()
	p.WaitClosed()

	// A request still draining when shutdown began must not crash the process
	require.NotPanics(t, func() {
		p.Publish(EventOrderPaid, "ORD-1", OrderPaidPayload{OrderID: "ORD-1"})
	})
}

func TestProducerCloseIsIdempotent(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "notifications", "test-app", 8, zap.NewNop())
	p.Start()

	require.NotPanics(t, func() {
		p.Close()
		p.Close()
	})
	p.WaitClosed()
}

func TestProducerQueuesEnvelope(t *testing.T) {
	// Not started: the message stays in the inbox where we can inspect it
	p := NewProducer([]string{"127.0.0.1:1"}, "notifications", "test-app", 8, zap.NewNop())

	p.Publish(EventOTPIssued, "login-1", OTPIssuedPayload{Purpose: "login"})

	require.Len(t, p.inbox, 1)
	msg := <-p.inbox

	assert.Equal(t, []byte("login-1"), msg.Key)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, EventOTPIssued, env.EventType)
	assert.Equal(t, "test-app", env.Producer)
	assert.NotEmpty(t, env.EventID)
}
