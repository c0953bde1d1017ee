package trips

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/skytrack/internal/cache"
	"github.com/Domenick1991/skytrack/internal/domain"
)

type MockKeyValueStore struct {
	mock.Mock
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockKeyValueStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func snapshot(booking string) domain.TripSnapshot {
	return domain.TripSnapshot{
		BookingNumber: booking,
		PassengerName: "Cynthia Rose",
		Origin:        "AUS",
		Destination:   "MDT",
		DepartureDate: "2025-02-04",
		DepartureTime: "5:10 PM",
		TotalPrice:    "$720",
		Status:        "CONFIRMED",
	}
}

func newLoadedStore(t *testing.T) (*Store, *cache.MemoryStore, *fakeClock) {
	t.Helper()
	kv := cache.NewMemoryStore()
	clock := &fakeClock{now: time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)}
	store := NewStore(kv, WithClock(clock.Now))
	require.NoError(t, store.Load(context.Background()))
	return store, kv, clock
}

func TestStore_SaveTrip_New(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newLoadedStore(t)

	first, err := store.SaveTrip(ctx, snapshot("02GHUY"))
	require.NoError(t, err)
	second, err := store.SaveTrip(ctx, snapshot("ABC123"))
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	assert.NotEqual(t, first.ID, second.ID)
	assert.Regexp(t, `^trip_\d+_[0-9a-f]{9}$`, first.ID)
	assert.Equal(t, "2025-01-10T12:00:00.000Z", first.SavedAt)

	list := store.List()
	assert.Equal(t, "ABC123", list[0].BookingNumber, "most recent first")
	assert.Equal(t, "02GHUY", list[1].BookingNumber)
}

func TestStore_SaveTrip_ExistingBookingUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	store, _, clock := newLoadedStore(t)

	original, err := store.SaveTrip(ctx, snapshot("02GHUY"))
	require.NoError(t, err)
	require.NoError(t, store.SetReminder(ctx, original.ID, domain.Reminder{Enabled: true, Date: "2025-02-03", Time: "09:00"}))

	clock.Advance(time.Hour)
	updated := snapshot("02GHUY")
	updated.TotalPrice = "$800"
	result, err := store.SaveTrip(ctx, updated)
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, original.ID, result.ID)
	assert.Equal(t, "$800", result.TotalPrice)
	assert.Equal(t, "2025-01-10T13:00:00.000Z", result.SavedAt)
	require.NotNil(t, result.Reminder, "reminder survives a re-save")
}

func TestStore_IsSavedAndRemove(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newLoadedStore(t)

	assert.False(t, store.IsSaved("02GHUY"))
	trip, err := store.SaveTrip(ctx, snapshot("02GHUY"))
	require.NoError(t, err)
	assert.True(t, store.IsSaved("02GHUY"))

	found, ok := store.GetByBookingNumber("02GHUY")
	assert.True(t, ok)
	assert.Equal(t, trip.ID, found.ID)

	require.NoError(t, store.RemoveTrip(ctx, trip.ID))
	assert.False(t, store.IsSaved("02GHUY"))
	assert.Equal(t, 0, store.Len())

	// removing an unknown id is a no-op
	assert.NoError(t, store.RemoveTrip(ctx, "trip_missing"))
}

func TestStore_UpdateNickname(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newLoadedStore(t)

	trip, err := store.SaveTrip(ctx, snapshot("02GHUY"))
	require.NoError(t, err)
	require.NoError(t, store.UpdateNickname(ctx, trip.ID, "Visit Harrisburg"))

	got, ok := store.Get(trip.ID)
	require.True(t, ok)
	assert.Equal(t, "Visit Harrisburg", got.Nickname)
	assert.Equal(t, "Visit Harrisburg", got.Label())

	assert.NoError(t, store.UpdateNickname(ctx, "trip_missing", "x"))
}

func TestStore_SetAndClearReminder(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newLoadedStore(t)

	trip, err := store.SaveTrip(ctx, snapshot("02GHUY"))
	require.NoError(t, err)

	reminder := domain.Reminder{Enabled: true, Date: "2025-02-03", Time: "09:00"}
	require.NoError(t, store.SetReminder(ctx, trip.ID, reminder))
	got, _ := store.Get(trip.ID)
	require.NotNil(t, got.Reminder)
	assert.Equal(t, reminder, *got.Reminder)

	require.NoError(t, store.ClearReminder(ctx, trip.ID))
	got, _ = store.Get(trip.ID)
	assert.Nil(t, got.Reminder)
}

func TestStore_SetReminder_Invalid(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newLoadedStore(t)

	trip, err := store.SaveTrip(ctx, snapshot("02GHUY"))
	require.NoError(t, err)

	err = store.SetReminder(ctx, trip.ID, domain.Reminder{Enabled: true, Date: "2025-02-03"})
	assert.ErrorIs(t, err, domain.ReminderInvalid)
	got, _ := store.Get(trip.ID)
	assert.Nil(t, got.Reminder)
}

func TestStore_ReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newLoadedStore(t)

	trip, err := store.SaveTrip(ctx, snapshot("02GHUY"))
	require.NoError(t, err)
	require.NoError(t, store.SetReminder(ctx, trip.ID, domain.Reminder{Enabled: true, Date: "2025-02-03", Time: "09:00"}))

	list := store.List()
	list[0].Nickname = "changed"
	list[0].Reminder.Time = "23:59"

	got, _ := store.Get(trip.ID)
	assert.Empty(t, got.Nickname)
	assert.Equal(t, "09:00", got.Reminder.Time)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, kv, _ := newLoadedStore(t)

	a, err := store.SaveTrip(ctx, snapshot("02GHUY"))
	require.NoError(t, err)
	_, err = store.SaveTrip(ctx, snapshot("ABC123"))
	require.NoError(t, err)
	require.NoError(t, store.UpdateNickname(ctx, a.ID, "Home"))
	require.NoError(t, store.SetReminder(ctx, a.ID, domain.Reminder{Enabled: true, Date: "2025-02-03", Time: "09:00"}))

	reloaded := NewStore(kv)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, store.List(), reloaded.List())
}

func TestStore_Load_MalformedDataYieldsEmptyList(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, DefaultKey, "{not json"))

	store := NewStore(kv)
	require.NoError(t, store.Load(ctx))
	assert.True(t, store.Loaded())
	assert.Equal(t, 0, store.Len())
	assert.NotNil(t, store.List())
}

func TestStore_Load_NullAndMissing(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemoryStore()

	store := NewStore(kv, WithKey("custom"))
	require.NoError(t, store.Load(ctx))
	assert.Equal(t, 0, store.Len())

	require.NoError(t, kv.Set(ctx, "custom", "null"))
	require.NoError(t, store.Load(ctx))
	assert.Equal(t, 0, store.Len())
}

func TestStore_Load_ReadError(t *testing.T) {
	kv := &MockKeyValueStore{}
	ctx := context.Background()
	kv.On("Get", ctx, DefaultKey).Return("", false, errors.New("connection refused")).Once()

	store := NewStore(kv)
	err := store.Load(ctx)
	assert.ErrorContains(t, err, "connection refused")
	assert.False(t, store.Loaded())
	kv.AssertExpectations(t)
}

func TestStore_NoWritesBeforeLoad(t *testing.T) {
	kv := &MockKeyValueStore{}
	ctx := context.Background()
	store := NewStore(kv)

	_, err := store.SaveTrip(ctx, snapshot("02GHUY"))
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	kv.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestStore_FlushesOnEveryMutation(t *testing.T) {
	kv := &MockKeyValueStore{}
	ctx := context.Background()
	kv.On("Get", ctx, DefaultKey).Return("[]", true, nil).Once()
	kv.On("Set", ctx, DefaultKey, mock.AnythingOfType("string")).Return(nil).Times(3)

	store := NewStore(kv)
	require.NoError(t, store.Load(ctx))

	trip, err := store.SaveTrip(ctx, snapshot("02GHUY"))
	require.NoError(t, err)
	require.NoError(t, store.UpdateNickname(ctx, trip.ID, "x"))
	require.NoError(t, store.RemoveTrip(ctx, trip.ID))
	// no-ops do not write
	require.NoError(t, store.RemoveTrip(ctx, trip.ID))

	kv.AssertExpectations(t)
	last := kv.Calls[len(kv.Calls)-1]
	assert.Equal(t, "[]", last.Arguments.String(2))
}

func TestStore_WriteErrorKeepsInMemoryChange(t *testing.T) {
	kv := &MockKeyValueStore{}
	ctx := context.Background()
	kv.On("Get", ctx, DefaultKey).Return("", false, nil).Once()
	kv.On("Set", ctx, DefaultKey, mock.Anything).Return(errors.New("disk full")).Once()

	store := NewStore(kv)
	require.NoError(t, store.Load(ctx))

	_, err := store.SaveTrip(ctx, snapshot("02GHUY"))
	assert.ErrorContains(t, err, "disk full")
	assert.True(t, store.IsSaved("02GHUY"))
}

func TestStore_DueReminders(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newLoadedStore(t)

	due, err := store.SaveTrip(ctx, snapshot("02GHUY"))
	require.NoError(t, err)
	later, err := store.SaveTrip(ctx, snapshot("ABC123"))
	require.NoError(t, err)
	_, err = store.SaveTrip(ctx, snapshot("NOREM1"))
	require.NoError(t, err)

	require.NoError(t, store.SetReminder(ctx, due.ID, domain.Reminder{Enabled: true, Date: "2025-02-03", Time: "09:00"}))
	require.NoError(t, store.SetReminder(ctx, later.ID, domain.Reminder{Enabled: true, Date: "2025-02-03", Time: "18:00"}))

	now := time.Date(2025, 2, 3, 12, 0, 0, 0, time.UTC)
	result := store.DueReminders(now)
	require.Len(t, result, 1)
	assert.Equal(t, due.ID, result[0].ID)
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newLoadedStore(t)

	var seen []int
	unsubscribe := store.Subscribe(func(trips []domain.SavedTrip) {
		seen = append(seen, len(trips))
	})

	trip, err := store.SaveTrip(ctx, snapshot("02GHUY"))
	require.NoError(t, err)
	_, err = store.SaveTrip(ctx, snapshot("ABC123"))
	require.NoError(t, err)
	require.NoError(t, store.RemoveTrip(ctx, trip.ID))
	assert.Equal(t, []int{1, 2, 1}, seen)

	unsubscribe()
	_, err = store.SaveTrip(ctx, snapshot("XYZ789"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 1}, seen)
}

func TestStore_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newLoadedStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = store.SaveTrip(ctx, snapshot(fmt.Sprintf("REF%03d", i%5)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, store.Len())
}

func TestNewTripID(t *testing.T) {
	now := time.UnixMilli(1738000000000)
	a := NewTripID(now)
	b := NewTripID(now)
	assert.Regexp(t, `^trip_1738000000000_[0-9a-f]{9}$`, a)
	assert.NotEqual(t, a, b)
}
