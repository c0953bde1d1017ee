package lookup

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Domenick1991/skytrack/internal/domain"
)

// Controller drives one session through search, loading, results and
// not-found. Each search owns a cancellable context and a generation
// number; a lookup result is applied only if its generation is still the
// current one.
type Controller struct {
	resolver Resolver
	log      *zap.Logger

	mu         sync.Mutex
	state      domain.ViewState
	reference  string
	itinerary  *domain.Itinerary
	generation uint64
	cancel     context.CancelFunc
	settled    chan struct{}
}

func NewController(resolver Resolver, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	settled := make(chan struct{})
	close(settled)
	return &Controller{
		resolver: resolver,
		log:      log,
		state:    domain.ViewSearch,
		settled:  settled,
	}
}

// Search validates input and starts an asynchronous lookup. On a
// validation error nothing changes. It returns the normalized reference.
func (c *Controller) Search(input string) (string, error) {
	ref, err := domain.ValidateReference(input)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithCancel(context.Background())
	settled := make(chan struct{})

	c.mu.Lock()
	c.abortLocked()
	c.generation++
	gen := c.generation
	c.cancel = cancel
	c.settled = settled
	c.state = domain.ViewLoading
	c.reference = ref
	c.itinerary = nil
	c.mu.Unlock()

	go c.run(ctx, gen, ref, settled)
	return ref, nil
}

// BackToSearch abandons any pending lookup and returns to the search form.
func (c *Controller) BackToSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.abortLocked()
	c.generation++
	c.state = domain.ViewSearch
	c.reference = ""
	c.itinerary = nil
}

// View returns the current state. Itinerary is set only in results.
func (c *Controller) View() domain.View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := domain.View{State: c.state, Reference: c.reference}
	if c.itinerary != nil {
		it := *c.itinerary
		v.Itinerary = &it
	}
	return v
}

// Wait blocks until the current lookup has settled or ctx is done, then
// returns the view.
func (c *Controller) Wait(ctx context.Context) (domain.View, error) {
	c.mu.Lock()
	settled := c.settled
	c.mu.Unlock()

	select {
	case <-settled:
		return c.View(), nil
	case <-ctx.Done():
		return c.View(), ctx.Err()
	}
}

// Close cancels a pending lookup.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abortLocked()
}

func (c *Controller) run(ctx context.Context, gen uint64, ref string, settled chan struct{}) {
	defer close(settled)

	it, err := c.resolver.Resolve(ctx, ref)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || ctx.Err() != nil {
		c.log.Debug("discarding stale lookup", zap.String("booking_number", ref))
		return
	}
	c.cancel()
	c.cancel = nil

	switch {
	case err == nil && it != nil:
		c.state = domain.ViewResults
		c.itinerary = it
	case err == nil || errors.Is(err, ErrNotFound):
		c.state = domain.ViewNotFound
	default:
		c.log.Warn("lookup failed", zap.String("booking_number", ref), zap.Error(err))
		c.state = domain.ViewNotFound
	}
}

// abortLocked cancels the in-flight lookup. The stale goroutine still
// closes its own settled channel.
func (c *Controller) abortLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
