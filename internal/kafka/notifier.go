package kafka

import (
	"context"
	"time"

	"github.com/Domenick1991/skytrack/internal/service/reminders"
)

const publishRetries = 3

// Notifier hands reminder notifications to the worker over Kafka.
// Delivery is always permitted.
type Notifier struct {
	producer *Producer
	topic    string
	now      func() time.Time
}

func NewNotifier(producer *Producer, topic string) *Notifier {
	return &Notifier{producer: producer, topic: topic, now: time.Now}
}

func (n *Notifier) Permission() reminders.Permission {
	return reminders.PermissionGranted
}

func (n *Notifier) RequestPermission(context.Context) (reminders.Permission, error) {
	return reminders.PermissionGranted, nil
}

func (n *Notifier) Notify(ctx context.Context, notification reminders.Notification) error {
	event := ReminderEvent{
		Type:          ReminderDueType,
		TripID:        notification.TripID,
		BookingNumber: notification.BookingNumber,
		Title:         notification.Title,
		Body:          notification.Body,
		Date:          notification.Date,
		Time:          notification.Time,
		PublishedAt:   n.now().UTC(),
	}
	return n.producer.PublishWithRetry(ctx, n.topic, notification.TripID, event, publishRetries)
}

var _ reminders.Notifier = (*Notifier)(nil)
