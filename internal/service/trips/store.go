package trips

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Domenick1991/skytrack/internal/domain"
)

const DefaultKey = "skytrack_saved_trips"

// KeyValueStore is the persistence layer: one string value per key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// UseCase is the saved-trip surface used by the HTTP layer.
type UseCase interface {
	List() []domain.SavedTrip
	Get(id string) (domain.SavedTrip, bool)
	GetByBookingNumber(bookingNumber string) (domain.SavedTrip, bool)
	IsSaved(bookingNumber string) bool
	SaveTrip(ctx context.Context, snapshot domain.TripSnapshot) (domain.SavedTrip, error)
	RemoveTrip(ctx context.Context, id string) error
	UpdateNickname(ctx context.Context, id, nickname string) error
	SetReminder(ctx context.Context, id string, reminder domain.Reminder) error
	ClearReminder(ctx context.Context, id string) error
	DueReminders(now time.Time) []domain.SavedTrip
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithIDGenerator(fn func(time.Time) string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// Store is the saved-trip list, most recent first, persisted as a single
// JSON array under one key. Nothing is written back before Load succeeds.
type Store struct {
	kv    KeyValueStore
	key   string
	log   *zap.Logger
	now   func() time.Time
	newID func(time.Time) string

	mu     sync.RWMutex
	trips  []domain.SavedTrip
	loaded bool

	subMu   sync.Mutex
	subs    map[int]func([]domain.SavedTrip)
	nextSub int
}

func NewStore(kv KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		key:   DefaultKey,
		log:   zap.NewNop(),
		now:   time.Now,
		newID: NewTripID,
		trips: []domain.SavedTrip{},
		subs:  make(map[int]func([]domain.SavedTrip)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTripID returns trip_<unix millis>_<9 random hex chars>.
func NewTripID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("trip_%d_%s", now.UnixMilli(), suffix)
}

// Load replaces the in-memory list with the persisted one. Malformed data is
// logged and treated as an empty list; only a failing read is returned.
func (s *Store) Load(ctx context.Context) error {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load saved trips: %w", err)
	}

	trips := []domain.SavedTrip{}
	if found && raw != "" {
		var parsed []domain.SavedTrip
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			s.log.Error("failed to parse saved trips", zap.String("key", s.key), zap.Error(err))
		} else if parsed != nil {
			trips = parsed
		}
	}

	s.mu.Lock()
	s.trips = trips
	s.loaded = true
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Debug("saved trips loaded", zap.Int("count", len(snapshot)))
	s.publish(snapshot)
	return nil
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// SaveTrip inserts a new record or, when the booking number is already
// saved, merges the snapshot into it and refreshes savedAt.
func (s *Store) SaveTrip(ctx context.Context, snapshot domain.TripSnapshot) (domain.SavedTrip, error) {
	var result domain.SavedTrip
	err := s.mutate(ctx, func() bool {
		now := s.now()
		if i := s.indexByBookingLocked(snapshot.BookingNumber); i >= 0 {
			s.trips[i].Apply(snapshot)
			s.trips[i].SavedAt = domain.FormatSavedAt(now)
			result = s.trips[i].Clone()
			return true
		}

		trip := domain.SavedTrip{ID: s.newID(now), SavedAt: domain.FormatSavedAt(now)}
		trip.Apply(snapshot)
		s.trips = append([]domain.SavedTrip{trip}, s.trips...)
		result = trip.Clone()
		return true
	})
	return result, err
}

func (s *Store) RemoveTrip(ctx context.Context, id string) error {
	return s.mutate(ctx, func() bool {
		i := s.indexByIDLocked(id)
		if i < 0 {
			return false
		}
		s.trips = append(s.trips[:i:i], s.trips[i+1:]...)
		return true
	})
}

func (s *Store) UpdateNickname(ctx context.Context, id, nickname string) error {
	return s.update(ctx, id, func(t *domain.SavedTrip) {
		t.Nickname = nickname
	})
}

// SetReminder replaces the reminder of the trip. Invalid reminders are
// rejected before anything changes.
func (s *Store) SetReminder(ctx context.Context, id string, reminder domain.Reminder) error {
	if err := reminder.Validate(); err != nil {
		return err
	}
	return s.update(ctx, id, func(t *domain.SavedTrip) {
		r := reminder
		t.Reminder = &r
	})
}

func (s *Store) ClearReminder(ctx context.Context, id string) error {
	return s.update(ctx, id, func(t *domain.SavedTrip) {
		t.Reminder = nil
	})
}

func (s *Store) Get(id string) (domain.SavedTrip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexByIDLocked(id); i >= 0 {
		return s.trips[i].Clone(), true
	}
	return domain.SavedTrip{}, false
}

func (s *Store) GetByBookingNumber(bookingNumber string) (domain.SavedTrip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexByBookingLocked(bookingNumber); i >= 0 {
		return s.trips[i].Clone(), true
	}
	return domain.SavedTrip{}, false
}

func (s *Store) IsSaved(bookingNumber string) bool {
	_, ok := s.GetByBookingNumber(bookingNumber)
	return ok
}

func (s *Store) List() []domain.SavedTrip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trips)
}

// DueReminders returns the trips whose enabled reminder is at or before now.
func (s *Store) DueReminders(now time.Time) []domain.SavedTrip {
	s.mu.RLock()
	defer s.mu.RUnlock()

	due := make([]domain.SavedTrip, 0)
	for _, t := range s.trips {
		if t.Reminder.DueAt(now) {
			due = append(due, t.Clone())
		}
	}
	return due
}

// Subscribe registers fn to receive the full list after every change.
// fn runs on the mutating goroutine, outside the store lock.
func (s *Store) Subscribe(fn func([]domain.SavedTrip)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) update(ctx context.Context, id string, fn func(*domain.SavedTrip)) error {
	return s.mutate(ctx, func() bool {
		i := s.indexByIDLocked(id)
		if i < 0 {
			return false
		}
		fn(&s.trips[i])
		return true
	})
}

// mutate applies fn under the lock and, if it changed the list, flushes the
// whole list and notifies subscribers. A failed flush keeps the change.
func (s *Store) mutate(ctx context.Context, fn func() bool) error {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.snapshotLocked()
	var err error
	if s.loaded {
		err = s.flushLocked(ctx)
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("failed to persist saved trips", zap.String("key", s.key), zap.Error(err))
	}
	s.publish(snapshot)
	return err
}

func (s *Store) flushLocked(ctx context.Context) error {
	payload, err := json.Marshal(s.trips)
	if err != nil {
		return fmt.Errorf("marshal saved trips: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(payload)); err != nil {
		return fmt.Errorf("persist saved trips: %w", err)
	}
	return nil
}

func (s *Store) publish(trips []domain.SavedTrip) {
	s.subMu.Lock()
	fns := make([]func([]domain.SavedTrip), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(trips)
	}
}

func (s *Store) snapshotLocked() []domain.SavedTrip {
	out := make([]domain.SavedTrip, len(s.trips))
	for i, t := range s.trips {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) indexByIDLocked(id string) int {
	for i, t := range s.trips {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexByBookingLocked(bookingNumber string) int {
	for i, t := range s.trips {
		if t.BookingNumber == bookingNumber {
			return i
		}
	}
	return -1
}

var _ UseCase = (*Store)(nil)
