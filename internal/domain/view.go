package domain

import "strings"

type ViewState string

const (
	ViewSearch   ViewState = "search"
	ViewLoading  ViewState = "loading"
	ViewResults  ViewState = "results"
	ViewNotFound ViewState = "not-found"
)

// View is what a session currently shows.
type View struct {
	State     ViewState  `json:"state"`
	Reference string     `json:"booking_number,omitempty"`
	Itinerary *Itinerary `json:"itinerary,omitempty"`
	Saved     bool       `json:"saved"`
}

const (
	MinReferenceLength = 6
	MaxReferenceLength = 10
)

// NormalizeReference uppercases input and keeps only A-Z and 0-9, capped
// at MaxReferenceLength characters.
func NormalizeReference(input string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(input) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == MaxReferenceLength {
				break
			}
		}
	}
	return b.String()
}

// ValidateReference normalizes input and rejects empty or short references.
func ValidateReference(input string) (string, error) {
	ref := NormalizeReference(input)
	if ref == "" {
		return "", BookingReferenceRequired
	}
	if len(ref) < MinReferenceLength {
		return "", BookingReferenceTooShort
	}
	return ref, nil
}
