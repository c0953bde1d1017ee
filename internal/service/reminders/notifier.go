package reminders

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

type Notification struct {
	TripID        string `json:"trip_id"`
	BookingNumber string `json:"booking_number"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

// Notifier delivers reminder notifications to the user.
type Notifier interface {
	Permission() Permission
	RequestPermission(ctx context.Context) (Permission, error)
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log. Permission starts as
// default and is granted on request.
type LogNotifier struct {
	log *zap.Logger

	mu         sync.Mutex
	permission Permission
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log, permission: PermissionDefault}
}

func (n *LogNotifier) Permission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

func (n *LogNotifier) RequestPermission(context.Context) (Permission, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.permission == PermissionDefault {
		n.permission = PermissionGranted
	}
	return n.permission, nil
}

func (n *LogNotifier) Notify(_ context.Context, notification Notification) error {
	n.log.Info(notification.Title,
		zap.String("trip_id", notification.TripID),
		zap.String("booking_number", notification.BookingNumber),
		zap.String("body", notification.Body),
	)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
