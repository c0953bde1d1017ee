package lookup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Domenick1991/skytrack/internal/domain"
	"github.com/Domenick1991/skytrack/internal/itinerary"
)

// ErrNotFound means the reference does not match any booking.
var ErrNotFound = errors.New("booking not found")

// Resolver finds the itinerary for a normalized booking reference.
type Resolver interface {
	Resolve(ctx context.Context, reference string) (*domain.Itinerary, error)
}

// DemoResolver simulates a backend call: it waits for delay and then knows
// exactly one booking.
type DemoResolver struct {
	validReference string
	delay          time.Duration
}

func NewDemoResolver(validReference string, delay time.Duration) *DemoResolver {
	return &DemoResolver{validReference: validReference, delay: delay}
}

func (r *DemoResolver) Resolve(ctx context.Context, reference string) (*domain.Itinerary, error) {
	if r.delay > 0 {
		timer := time.NewTimer(r.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if !strings.EqualFold(reference, r.validReference) {
		return nil, ErrNotFound
	}
	it := itinerary.Demo(strings.ToUpper(reference))
	return &it, nil
}

var _ Resolver = (*DemoResolver)(nil)
