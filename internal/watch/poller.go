package watch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mav.press/pressroom/internal/globaltime"
)

// DefaultPollInterval matches the alert viewer's refresh cadence.
const DefaultPollInterval = 15 * time.Second

// AlertFetcher is the subset of Upstream the poller needs.
type AlertFetcher interface {
	FetchAlerts(ctx context.Context, limit int) ([]Alert, error)
}

// Poller keeps a snapshot of the upstream alert list. It polls once
// immediately, then on a fixed interval. Successful non-empty fetches
// replace the snapshot wholesale; failures keep the previous snapshot.
type Poller struct {
	fetcher  AlertFetcher
	logger   zerolog.Logger
	interval time.Duration
	limit    int

	mu          sync.RWMutex
	alerts      []Alert
	lastPolled  time.Time
	lastSuccess time.Time
	stopped     bool
}

func NewPoller(fetcher AlertFetcher, logger zerolog.Logger, interval time.Duration, limit int) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if limit <= 0 {
		limit = 50
	}
	return &Poller{
		fetcher:  fetcher,
		logger:   logger,
		interval: interval,
		limit:    limit,
	}
}

// Alerts returns the current snapshot.
func (p *Poller) Alerts() []Alert {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Alert, len(p.alerts))
	copy(out, p.alerts)
	return out
}

// LastSuccess returns when the snapshot was last replaced.
func (p *Poller) LastSuccess() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSuccess
}

// Run polls until ctx is cancelled. A fetch resolving after cancellation
// is discarded rather than applied to a torn-down consumer.
func (p *Poller) Run(ctx context.Context) {
	p.pollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			p.stopped = true
			p.mu.Unlock()
			p.logger.Info().Msg("alert poller stopped")
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	alerts, err := p.fetcher.FetchAlerts(ctx, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastPolled = globaltime.UTC()

	// Liveness check: never apply a result that resolved after teardown.
	if p.stopped || ctx.Err() != nil {
		return
	}
	if err != nil {
		p.logger.Warn().Err(err).Msg("alert poll failed; keeping previous snapshot")
		return
	}
	if len(alerts) == 0 {
		// An empty list is not treated as a wipe; the upstream resets its
		// store on reconfiguration and the stale view is preferable.
		return
	}

	p.alerts = alerts
	p.lastSuccess = p.lastPolled
}
