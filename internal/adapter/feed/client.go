package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/metrics"
)

const (
	bootstrapPath = "/bootstrap-static/"
	fixturesPath  = "/fixtures/"
)

// ClientConfig holds the feed endpoint and retry policy
type ClientConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
}

// StatusError is a non-200 feed response
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed error: %s returned %d", e.URL, e.Code)
}

// retryable reports whether the request may succeed if sent again
func (e *StatusError) retryable() bool {
	return e.Code == fasthttp.StatusTooManyRequests || e.Code >= fasthttp.StatusInternalServerError
}

// Client fetches the feed documents over HTTP
type Client struct {
	cfg     ClientConfig
	client  *fasthttp.Client
	metrics *metrics.Recorder
	logger  zerolog.Logger
	now     func() time.Time
}

// NewClient constructs a Client. Zero config values fall back to one attempt and a 10s timeout.
func NewClient(cfg ClientConfig, rec *metrics.Recorder, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 1
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg: cfg,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: time.Minute,
		},
		metrics: rec,
		logger:  logger,
		now:     time.Now,
	}
}

// FetchBootstrap returns the raw bootstrap-static document
func (c *Client) FetchBootstrap(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.cfg.BaseURL+bootstrapPath)
}

// FetchFixtures returns the raw fixtures document
func (c *Client) FetchFixtures(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.cfg.BaseURL+fixturesPath)
}

// FetchCatalog downloads both documents in parallel and parses them into a catalog.
// A failed fixtures download is logged and leaves the catalog without fixtures;
// a failed bootstrap download fails the whole fetch.
func (c *Client) FetchCatalog(ctx context.Context) (*domain.Catalog, error) {
	catalog, err := c.fetchCatalog(ctx)
	c.metrics.RecordFeedFetch(err)
	return catalog, err
}

func (c *Client) fetchCatalog(ctx context.Context) (*domain.Catalog, error) {
	var bootstrapData, fixturesData []byte

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := c.FetchBootstrap(gCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch bootstrap: %w", err)
		}
		bootstrapData = data
		return nil
	})
	g.Go(func() error {
		data, err := c.FetchFixtures(gCtx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Fixtures fetch failed, continuing without fixtures")
			return nil
		}
		fixturesData = data
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bootstrap, err := ParseBootstrap(bootstrapData)
	if err != nil {
		return nil, err
	}
	var fixtures []domain.Fixture
	if fixturesData != nil {
		if fixtures, err = ParseFixtures(fixturesData); err != nil {
			c.logger.Warn().Err(err).Msg("Fixtures document could not be parsed")
			fixtures = nil
		}
	}

	if len(bootstrap.Clubs) != domain.ActiveClubCount {
		c.logger.Warn().
			Int("expected", domain.ActiveClubCount).
			Int("active_clubs", len(bootstrap.Clubs)).
			Msg("Unexpected number of active clubs in feed")
	}
	c.logger.Debug().
		Int("players", len(bootstrap.Players)).
		Int("dropped_players", bootstrap.DroppedPlayers).
		Int("dropped_clubs", bootstrap.DroppedClubs).
		Int("fixtures", len(fixtures)).
		Msg("Feed parsed")

	return NewCatalog(bootstrap, fixtures, c.now()), nil
}

// get performs a GET with retries. Transport errors, 429 and 5xx responses are retried
// with exponential backoff; other statuses fail immediately.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			wait := c.cfg.RetryBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := c.do(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Debug().Err(err).Str("url", url).Int("attempt", attempt+1).Msg("Feed request failed")
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &StatusError{URL: url, Code: resp.StatusCode()}
	}
	// the response body is reused after release
	return append([]byte(nil), resp.Body()...), nil
}
