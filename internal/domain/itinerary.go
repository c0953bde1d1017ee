package domain

type FlightSegment struct {
	Number        int      `json:"number"`
	FlightNumber  string   `json:"flight_number"`
	Aircraft      string   `json:"aircraft"`
	DepartureCode string   `json:"departure_code"`
	DepartureCity string   `json:"departure_city"`
	DepartureTime string   `json:"departure_time"`
	ArrivalCode   string   `json:"arrival_code"`
	ArrivalCity   string   `json:"arrival_city"`
	ArrivalTime   string   `json:"arrival_time"`
	Terminal      string   `json:"terminal,omitempty"`
	Duration      string   `json:"duration"`
	Amenities     []string `json:"amenities,omitempty"`
}

type Layover struct {
	Duration    string `json:"duration"`
	AirportCode string `json:"airport_code"`
	City        string `json:"city"`
}

type Itinerary struct {
	Reference     string          `json:"booking_number"`
	Status        string          `json:"status"`
	PassengerName string          `json:"passenger_name"`
	TripType      string          `json:"trip_type"`
	JourneyDate   string          `json:"journey_date"`
	DepartureDate string          `json:"departure_date"`
	CabinClass    string          `json:"cabin_class"`
	TotalDuration string          `json:"total_duration"`
	Stops         string          `json:"stops"`
	Segments      []FlightSegment `json:"segments"`
	Layovers      []Layover       `json:"layovers"`
	TotalPrice    string          `json:"total_price"`
	PaymentStatus string          `json:"payment_status"`
}

func (it Itinerary) Origin() string {
	if len(it.Segments) == 0 {
		return ""
	}
	return it.Segments[0].DepartureCode
}

func (it Itinerary) Destination() string {
	if len(it.Segments) == 0 {
		return ""
	}
	return it.Segments[len(it.Segments)-1].ArrivalCode
}
