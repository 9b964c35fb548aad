package feed

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

const defaultRefreshInterval = 15 * time.Minute

// CatalogFetcher produces a fresh catalog snapshot
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context) (*domain.Catalog, error)
}

// CatalogSink receives refreshed snapshots
type CatalogSink interface {
	SetCatalog(catalog *domain.Catalog)
}

// Status describes the recent health of the refresh loop
type Status struct {
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastError           string    `json:"lastError,omitempty"`
	LastAttempt         time.Time `json:"lastAttempt"`
	LastSuccess         time.Time `json:"lastSuccess"`
}

// IsReady reports whether a catalog has been loaded and the feed is not failing repeatedly
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// Refresher loads the feed into the catalog store on start and then on an interval.
// A failed refresh keeps the previous catalog.
type Refresher struct {
	fetcher  CatalogFetcher
	sink     CatalogSink
	logger   zerolog.Logger
	interval time.Duration

	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
	wg       sync.WaitGroup

	statusMu sync.RWMutex
	status   Status
}

// NewRefresher constructs a Refresher; a non-positive interval uses 15 minutes
func NewRefresher(fetcher CatalogFetcher, sink CatalogSink, logger zerolog.Logger, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &Refresher{
		fetcher:  fetcher,
		sink:     sink,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start refreshes once in the background, then every interval until ctx ends or Stop is called
func (r *Refresher) Start(ctx context.Context) {
	r.startMu.Lock()
	if r.started {
		r.startMu.Unlock()
		return
	}
	r.started = true
	r.startMu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.logger.Info().Dur("interval", r.interval).Msg("Feed refresher started")
		_ = r.Refresh(ctx)

		for {
			select {
			case <-ctx.Done():
				r.logger.Info().Msg("Feed refresher stopped")
				return
			case <-r.done:
				r.logger.Info().Msg("Feed refresher stopped")
				return
			case <-ticker.C:
				_ = r.Refresh(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight refresh to finish
func (r *Refresher) Stop(ctx context.Context) error {
	r.stopOnce.Do(func() {
		close(r.done)
	})

	waited := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refresh fetches the feed once and publishes the snapshot on success
func (r *Refresher) Refresh(ctx context.Context) error {
	start := time.Now()
	r.recordAttempt(start)

	catalog, err := r.fetcher.FetchCatalog(ctx)
	if err != nil {
		r.recordFailure(err, start)
		r.logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("Feed refresh failed, keeping previous catalog")
		return err
	}

	r.sink.SetCatalog(catalog)
	r.recordSuccess(start)
	r.logger.Info().
		Int("players", catalog.Len()).
		Int("clubs", len(catalog.Clubs)).
		Dur("elapsed", time.Since(start)).
		Msg("Feed refreshed")
	return nil
}

// Status returns a snapshot of the loop's recent health
func (r *Refresher) Status() Status {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.status
}

func (r *Refresher) recordAttempt(at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.LastAttempt = at
}

func (r *Refresher) recordSuccess(at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.ConsecutiveFailures = 0
	r.status.LastError = ""
	r.status.LastSuccess = at
}

func (r *Refresher) recordFailure(err error, at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.ConsecutiveFailures++
	r.status.LastError = err.Error()
	r.status.LastAttempt = at
}
