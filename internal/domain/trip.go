package domain

import "time"

// TripSnapshot holds the descriptive fields copied into a saved trip.
type TripSnapshot struct {
	BookingNumber string    `json:"bookingNumber"`
	Nickname      string    `json:"nickname"`
	PassengerName string    `json:"passengerName"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureDate string    `json:"departureDate"`
	DepartureTime string    `json:"departureTime"`
	TotalPrice    string    `json:"totalPrice"`
	Status        string    `json:"status"`
	Reminder      *Reminder `json:"reminder,omitempty"`
}

// SavedTrip is the persisted record. The JSON layout is the storage format.
type SavedTrip struct {
	ID            string    `json:"id"`
	BookingNumber string    `json:"bookingNumber"`
	Nickname      string    `json:"nickname"`
	PassengerName string    `json:"passengerName"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureDate string    `json:"departureDate"`
	DepartureTime string    `json:"departureTime"`
	TotalPrice    string    `json:"totalPrice"`
	Status        string    `json:"status"`
	SavedAt       string    `json:"savedAt"`
	Reminder      *Reminder `json:"reminder,omitempty"`
}

// SavedAtLayout matches JavaScript's Date.toISOString output.
const SavedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatSavedAt renders t the way savedAt is stored.
func FormatSavedAt(t time.Time) string {
	return t.UTC().Format(SavedAtLayout)
}

// Label is the display name of the trip: the nickname, or the route.
func (t SavedTrip) Label() string {
	if t.Nickname != "" {
		return t.Nickname
	}
	return t.Origin + " → " + t.Destination
}

// Apply merges the snapshot into the record. A nil snapshot reminder keeps
// the existing one.
func (t *SavedTrip) Apply(s TripSnapshot) {
	t.BookingNumber = s.BookingNumber
	t.Nickname = s.Nickname
	t.PassengerName = s.PassengerName
	t.Origin = s.Origin
	t.Destination = s.Destination
	t.DepartureDate = s.DepartureDate
	t.DepartureTime = s.DepartureTime
	t.TotalPrice = s.TotalPrice
	t.Status = s.Status
	if s.Reminder != nil {
		r := *s.Reminder
		t.Reminder = &r
	}
}

// Clone returns a deep copy.
func (t SavedTrip) Clone() SavedTrip {
	if t.Reminder != nil {
		r := *t.Reminder
		t.Reminder = &r
	}
	return t
}
