package notification

import (
	"context"
	"time"

	"shopline/internal/data/repository"

	"go.uber.org/zap"
)

// Publisher is what the scheduler and the services need from the producer.
type Publisher interface {
	Publish(eventType string, key string, payload any)
}

// DeliveryScheduler polls for paid orders whose preferred delivery time has
// passed and publishes a delivery event for each. Because due orders stay
// due until the dispatcher marks them delivered, a scheduler that runs late
// delays the notification instead of dropping it.
type DeliveryScheduler struct {
	orders   repository.OrderRepository
	producer Publisher
	interval time.Duration
	log      *zap.Logger
}

func NewDeliveryScheduler(orders repository.OrderRepository, producer Publisher, interval time.Duration, log *zap.Logger) *DeliveryScheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &DeliveryScheduler{
		orders:   orders,
		producer: producer,
		interval: interval,
		log:      log.With(zap.String("component", "delivery_scheduler")),
	}
}

func (s *DeliveryScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick publishes one delivery event per due order.
func (s *DeliveryScheduler) Tick(ctx context.Context) {
	due, err := s.orders.FindDeliveryDue(ctx)
	if err != nil {
		s.log.Error("Failed to poll delivery-due orders", zap.Error(err))
		return
	}

	for _, d := range due {
		s.producer.Publish(EventDeliveryDue, d.OrderID, DeliveryDuePayload{
			ID:      d.ID.String(),
			OrderID: d.OrderID,
			Email:   d.Email,
			Address: d.Address,
		})
	}

	if len(due) > 0 {
		s.log.Info("Delivery notifications scheduled", zap.Int("count", len(due)))
	}
}
