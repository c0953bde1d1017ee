package email

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Domenick1991/skytrack/internal/kafka"
)

// Sender delivers reminder events. Delivery is a structured log line.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReminderEvent) error {
	if event.Type != kafka.ReminderDueType {
		return fmt.Errorf("unsupported event type %q", event.Type)
	}
	s.log.Info("send reminder",
		zap.String("trip_id", event.TripID),
		zap.String("booking_number", event.BookingNumber),
		zap.String("subject", event.Title),
		zap.String("body", event.Body),
		zap.String("date", event.Date),
		zap.String("time", event.Time),
	)
	return nil
}
