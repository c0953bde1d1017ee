package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/Domenick1991/skytrack/internal/domain"
	"github.com/Domenick1991/skytrack/internal/service/reminders"
)

const testSession = "0b6f5f0e-6a53-4a8e-9d3c-0d0f2f8f8a11"

type MockLookupUseCase struct {
	mock.Mock
}

func (m *MockLookupUseCase) Search(sessionID, input string) (domain.View, error) {
	args := m.Called(sessionID, input)
	return args.Get(0).(domain.View), args.Error(1)
}

func (m *MockLookupUseCase) BackToSearch(sessionID string) domain.View {
	args := m.Called(sessionID)
	return args.Get(0).(domain.View)
}

func (m *MockLookupUseCase) View(sessionID string) domain.View {
	args := m.Called(sessionID)
	return args.Get(0).(domain.View)
}

type MockTripsUseCase struct {
	mock.Mock
}

func (m *MockTripsUseCase) List() []domain.SavedTrip {
	args := m.Called()
	return args.Get(0).([]domain.SavedTrip)
}

func (m *MockTripsUseCase) Get(id string) (domain.SavedTrip, bool) {
	args := m.Called(id)
	return args.Get(0).(domain.SavedTrip), args.Bool(1)
}

func (m *MockTripsUseCase) GetByBookingNumber(bookingNumber string) (domain.SavedTrip, bool) {
	args := m.Called(bookingNumber)
	return args.Get(0).(domain.SavedTrip), args.Bool(1)
}

func (m *MockTripsUseCase) IsSaved(bookingNumber string) bool {
	args := m.Called(bookingNumber)
	return args.Bool(0)
}

func (m *MockTripsUseCase) SaveTrip(ctx context.Context, snapshot domain.TripSnapshot) (domain.SavedTrip, error) {
	args := m.Called(ctx, snapshot)
	return args.Get(0).(domain.SavedTrip), args.Error(1)
}

func (m *MockTripsUseCase) RemoveTrip(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTripsUseCase) UpdateNickname(ctx context.Context, id, nickname string) error {
	args := m.Called(ctx, id, nickname)
	return args.Error(0)
}

func (m *MockTripsUseCase) SetReminder(ctx context.Context, id string, reminder domain.Reminder) error {
	args := m.Called(ctx, id, reminder)
	return args.Error(0)
}

func (m *MockTripsUseCase) ClearReminder(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTripsUseCase) DueReminders(now time.Time) []domain.SavedTrip {
	args := m.Called(now)
	return args.Get(0).([]domain.SavedTrip)
}

type MockPermissionRequester struct {
	mock.Mock
}

func (m *MockPermissionRequester) RequestPermission(ctx context.Context) (reminders.Permission, error) {
	args := m.Called(ctx)
	return args.Get(0).(reminders.Permission), args.Error(1)
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, target, nil)
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Set(sessionKey, testSession)
	return c, w
}
