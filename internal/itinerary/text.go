package itinerary

import (
	"fmt"
	"strings"

	"github.com/Domenick1991/skytrack/internal/domain"
)

// Filename is the download name of the text export.
func Filename(reference string) string {
	return "itinerary-" + reference + ".txt"
}

// RenderText produces the plain-text itinerary document.
func RenderText(it domain.Itinerary) string {
	var b strings.Builder

	heading(&b, "FLIGHT ITINERARY", '=')
	fmt.Fprintf(&b, "Booking Reference: %s\n", it.Reference)
	fmt.Fprintf(&b, "Status: %s\n\n", it.Status)

	heading(&b, "PASSENGER INFORMATION", '-')
	fmt.Fprintf(&b, "Name: %s\n", it.PassengerName)
	fmt.Fprintf(&b, "Trip Type: %s\n", it.TripType)
	fmt.Fprintf(&b, "Journey Date: %s\n", it.JourneyDate)
	fmt.Fprintf(&b, "Cabin Class: %s\n", it.CabinClass)
	fmt.Fprintf(&b, "Total Duration: %s\n", it.TotalDuration)
	fmt.Fprintf(&b, "Stops: %s\n", it.Stops)

	for i, seg := range it.Segments {
		b.WriteString("\n")
		heading(&b, fmt.Sprintf("FLIGHT SEGMENT %d", seg.Number), '-')
		fmt.Fprintf(&b, "Flight: %s\n", seg.FlightNumber)
		fmt.Fprintf(&b, "Aircraft: %s\n", seg.Aircraft)
		// A connecting segment names its terminal on the departure line.
		connecting := i > 0 && seg.Terminal != ""
		if connecting {
			fmt.Fprintf(&b, "Departure: %s - %s at %s (%s)\n", seg.DepartureCode, seg.DepartureCity, seg.DepartureTime, seg.Terminal)
		} else {
			fmt.Fprintf(&b, "Departure: %s - %s at %s\n", seg.DepartureCode, seg.DepartureCity, seg.DepartureTime)
		}
		fmt.Fprintf(&b, "Arrival: %s - %s at %s\n", seg.ArrivalCode, seg.ArrivalCity, seg.ArrivalTime)
		if seg.Terminal != "" && !connecting {
			fmt.Fprintf(&b, "Terminal: %s\n", seg.Terminal)
		}
		fmt.Fprintf(&b, "Duration: %s\n", seg.Duration)
		if len(seg.Amenities) > 0 {
			fmt.Fprintf(&b, "Amenities: %s\n", strings.Join(seg.Amenities, ", "))
		}

		if i < len(it.Layovers) && i < len(it.Segments)-1 {
			l := it.Layovers[i]
			b.WriteString("\n")
			heading(&b, "LAYOVER", '-')
			fmt.Fprintf(&b, "%s in %s (%s)\n", l.Duration, l.City, l.AirportCode)
		}
	}

	b.WriteString("\n")
	heading(&b, "PAYMENT INFORMATION", '-')
	fmt.Fprintf(&b, "Total Price: %s\n", it.TotalPrice)
	fmt.Fprintf(&b, "Payment Status: %s\n\n", it.PaymentStatus)
	b.WriteString("Thank you for flying with us!\n")

	return b.String()
}

func heading(b *strings.Builder, title string, rule rune) {
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(string(rule), len(title)))
	b.WriteString("\n")
}
