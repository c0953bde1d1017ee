// Package itinerary holds the demo booking shown for the valid reference and
// its plain-text export.
package itinerary

import "github.com/Domenick1991/skytrack/internal/domain"

// Demo returns the single known itinerary under the given reference.
func Demo(reference string) domain.Itinerary {
	return domain.Itinerary{
		Reference:     reference,
		Status:        "PAID - CONFIRMED",
		PassengerName: "Cynthia Rose",
		TripType:      "One Way",
		JourneyDate:   "Wednesday, February 4, 2025",
		DepartureDate: "2025-02-04",
		CabinClass:    "Main Classic (Q)",
		TotalDuration: "5h 16m",
		Stops:         "1 Stop (Connecting Flight)",
		Segments: []domain.FlightSegment{
			{
				Number:        1,
				FlightNumber:  "DL1397",
				Aircraft:      "Airbus A321",
				DepartureCode: "AUS",
				DepartureCity: "Austin, TX",
				DepartureTime: "5:10 PM",
				ArrivalCode:   "ATL",
				ArrivalCity:   "Atlanta, GA",
				ArrivalTime:   "8:38 PM",
				Terminal:      "Terminal S",
				Duration:      "2h 28m",
				Amenities:     []string{"Snacks"},
			},
			{
				Number:        2,
				FlightNumber:  "DL1283",
				Aircraft:      "Boeing 717-200",
				DepartureCode: "ATL",
				DepartureCity: "Atlanta, GA",
				DepartureTime: "9:42 PM",
				ArrivalCode:   "MDT",
				ArrivalCity:   "Harrisburg, PA",
				ArrivalTime:   "11:26 PM",
				Terminal:      "Terminal S",
				Duration:      "1h 44m",
			},
		},
		Layovers: []domain.Layover{
			{Duration: "1h 4m", AirportCode: "ATL", City: "Atlanta, GA"},
		},
		TotalPrice:    "$720.00",
		PaymentStatus: "Paid in Full",
	}
}

// Snapshot is what "save trip" copies out of an itinerary.
func Snapshot(it domain.Itinerary) domain.TripSnapshot {
	var departureTime string
	if len(it.Segments) > 0 {
		departureTime = it.Segments[0].DepartureTime
	}
	return domain.TripSnapshot{
		BookingNumber: it.Reference,
		PassengerName: it.PassengerName,
		Origin:        it.Origin(),
		Destination:   it.Destination(),
		DepartureDate: it.DepartureDate,
		DepartureTime: departureTime,
		TotalPrice:    "$720",
		Status:        "CONFIRMED",
	}
}
