package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"

	"github.com/simaogato/squad-architect-backend/internal/adapter/feed"
	"github.com/simaogato/squad-architect-backend/internal/config"
	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/logger"
	"github.com/simaogato/squad-architect-backend/internal/metrics"
	"github.com/simaogato/squad-architect-backend/internal/usecase/scout"
	"github.com/simaogato/squad-architect-backend/internal/usecase/wildcard"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type scoutRequest struct {
	Roster   *domain.RosterState `json:"roster"`
	Depth    int                 `json:"depth"`
	Wildcard bool                `json:"wildcard"`
	// Bootstrap is an inline bootstrap-static document; the live feed is fetched when absent
	Bootstrap json.RawMessage `json:"bootstrap"`
}

type scoutResponse struct {
	Curve          *scout.Curve            `json:"curve,omitempty"`
	Recommended    *domain.TransferPackage `json:"recommended,omitempty"`
	Wildcard       *domain.TransferPackage `json:"wildcard,omitempty"`
	MissingPlayers []int                   `json:"missingPlayers,omitempty"`
	Warnings       []domain.Warning        `json:"warnings,omitempty"`
	TimeMs         int64                   `json:"timeMs"`
}

// handler answers one stateless search per invocation; nothing is persisted
type handler struct {
	fetcher feed.CatalogFetcher
	search  *scout.Scout
	logger  zerolog.Logger
	now     func() time.Time
}

func (h *handler) handle(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	start := h.now()

	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req scoutRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(http.StatusBadRequest, "invalid JSON: "+err.Error())
	}
	if req.Roster == nil {
		return errResp(http.StatusBadRequest, "missing roster field")
	}

	catalog, err := h.catalog(ctx, req.Bootstrap)
	if err != nil {
		if errors.Is(err, feed.ErrMalformedFeed) {
			return errResp(http.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("Feed fetch failed")
		return errResp(http.StatusBadGateway, "player feed unavailable")
	}

	roster, missing, err := domain.Hydrate(req.Roster, catalog)
	if err != nil {
		return errResp(http.StatusBadRequest, err.Error())
	}

	resp := scoutResponse{MissingPlayers: missing, Warnings: domain.BudgetWarnings(roster.Budget)}
	if len(missing) > 0 {
		resp.Warnings = append(resp.Warnings, domain.WarningUnknownPlayers)
	}

	pool := catalog.ActivePlayers()
	if req.Wildcard {
		resp.Wildcard = wildcard.Rebuild(wildcard.Input{Roster: roster, Pool: pool})
		if resp.Wildcard != nil && resp.Wildcard.OverBudget {
			resp.Warnings = append(resp.Warnings, domain.WarningWildcardOverBudget)
		}
	} else {
		depth := req.Depth
		if depth == 0 {
			depth = 1
		}
		curve, err := h.search.Run(ctx, scout.Input{Roster: roster, Pool: pool, Depth: depth})
		switch {
		case errors.Is(err, domain.ErrInvalidDepth):
			return errResp(http.StatusBadRequest, err.Error())
		case err != nil:
			h.logger.Error().Err(err).Int("depth", depth).Msg("Transfer scout failed")
			return errResp(http.StatusInternalServerError, "search failed")
		}
		resp.Curve = curve
		resp.Recommended = curve.RecommendedPackage()
	}

	resp.TimeMs = h.now().Sub(start).Milliseconds()
	respJSON, err := json.Marshal(resp)
	if err != nil {
		return errResp(http.StatusInternalServerError, "failed to encode response")
	}
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func (h *handler) catalog(ctx context.Context, bootstrap json.RawMessage) (*domain.Catalog, error) {
	if len(bootstrap) > 0 {
		return feed.ParseCatalog(bootstrap, nil, h.now())
	}
	return h.fetcher.FetchCatalog(ctx)
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	cfg := config.FromEnv()
	log := logger.FromString(cfg.LogLevel)

	h := &handler{
		fetcher: feed.NewClient(feed.ClientConfig{
			BaseURL:       cfg.FeedBaseURL,
			Timeout:       cfg.FeedTimeout,
			RetryAttempts: cfg.FeedRetryAttempts,
			RetryBackoff:  cfg.FeedRetryBackoff,
		}, metrics.NewRecorder(), log),
		search: scout.New(scout.DefaultConfig()),
		logger: log,
		now:    time.Now,
	}
	lambda.Start(h.handle)
}
