package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Domenick1991/skytrack/internal/domain"
)

// TripSource is the part of the saved-trip store the scheduler reads.
type TripSource interface {
	DueReminders(now time.Time) []domain.SavedTrip
	Subscribe(fn func([]domain.SavedTrip)) (unsubscribe func())
}

// Scheduler notifies due reminders, each (trip, date, time) at most once.
type Scheduler struct {
	trips    TripSource
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	notified map[string]struct{}
}

func NewScheduler(trips TripSource, notifier Notifier, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		trips:    trips,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		notified: make(map[string]struct{}),
	}
}

// RequestPermission asks the notifier for permission if it has not been
// decided yet.
func (s *Scheduler) RequestPermission(ctx context.Context) (Permission, error) {
	if p := s.notifier.Permission(); p != PermissionDefault {
		return p, nil
	}
	return s.notifier.RequestPermission(ctx)
}

// Sweep sends a notification for every reminder due at now that has not
// been sent yet. It returns how many were sent. Concurrent sweeps never
// send the same reminder twice; a failed send is retried by a later sweep.
func (s *Scheduler) Sweep(ctx context.Context, now time.Time) (int, error) {
	if s.notifier.Permission() != PermissionGranted {
		return 0, nil
	}

	sent := 0
	for _, trip := range s.trips.DueReminders(now) {
		key := reminderKey(trip)
		if !s.claim(key) {
			continue
		}

		if err := s.notifier.Notify(ctx, Build(trip)); err != nil {
			s.release(key)
			return sent, fmt.Errorf("notify trip %s: %w", trip.ID, err)
		}
		sent++
	}
	return sent, nil
}

// Watch sweeps after store changes until ctx is done. Store writers only
// signal; sweeps run on a single goroutine owned by Watch.
func (s *Scheduler) Watch(ctx context.Context) {
	changed := make(chan struct{}, 1)
	unsubscribe := s.trips.Subscribe(func([]domain.SavedTrip) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case <-changed:
				if _, err := s.Sweep(ctx, s.now()); err != nil && ctx.Err() == nil {
					s.log.Error("reminder sweep failed", zap.Error(err))
				}
			}
		}
	}()
}

func (s *Scheduler) claim(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, done := s.notified[key]; done {
		return false
	}
	s.notified[key] = struct{}{}
	return true
}

func (s *Scheduler) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notified, key)
}

// Build renders the notification for a trip's reminder.
func Build(trip domain.SavedTrip) Notification {
	n := Notification{
		TripID:        trip.ID,
		BookingNumber: trip.BookingNumber,
		Title:         "Flight Reminder",
		Body:          "Reminder for your trip: " + reminderName(trip),
	}
	if trip.Reminder != nil {
		n.Date = trip.Reminder.Date
		n.Time = trip.Reminder.Time
	}
	return n
}

// reminderName is the nickname, or "ORIGIN to DESTINATION".
func reminderName(trip domain.SavedTrip) string {
	if trip.Nickname != "" {
		return trip.Nickname
	}
	return trip.Origin + " to " + trip.Destination
}

func reminderKey(trip domain.SavedTrip) string {
	if trip.Reminder == nil {
		return trip.ID
	}
	return trip.ID + "|" + trip.Reminder.Date + "|" + trip.Reminder.Time
}
