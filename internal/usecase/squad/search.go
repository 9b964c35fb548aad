package squad

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/metrics"
	"github.com/simaogato/squad-architect-backend/internal/usecase/scout"
	"github.com/simaogato/squad-architect-backend/internal/usecase/transfer"
	"github.com/simaogato/squad-architect-backend/internal/usecase/wildcard"
)

// ScoutResult is a stored value curve. Each package carries the ID to execute it with.
type ScoutResult struct {
	Curve    *scout.Curve     `json:"curve"`
	Warnings []domain.Warning `json:"warnings,omitempty"`
}

// WildcardResult is a stored wildcard proposal; Package is nil when the pool cannot fill a squad
type WildcardResult struct {
	Package  *domain.TransferPackage `json:"package,omitempty"`
	Warnings []domain.Warning        `json:"warnings,omitempty"`
}

// Scout searches for transfer packages up to depth transfers and stores them for execution.
// A depth of 0 uses the service default. A new search (or a manual edit) for the same
// roster cancels this one.
func (s *Service) Scout(ctx context.Context, rosterID uuid.UUID, depth int) (*ScoutResult, error) {
	if depth == 0 {
		depth = s.DefaultDepth
	}

	sctx, done := s.beginSearch(ctx, rosterID)
	defer done()

	roster, _, err := transfer.LoadRoster(sctx, s.RosterRepo, s.Catalog, rosterID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	curve, err := s.Search.Run(sctx, scout.Input{
		Roster: roster,
		Pool:   s.Catalog.Catalog().ActivePlayers(),
		Depth:  depth,
	})
	elapsed := time.Since(start)
	if err != nil {
		s.recordSearch(metrics.ModeScout, err, false, elapsed, 0)
		return nil, err
	}
	s.recordSearch(metrics.ModeScout, nil, !curve.Empty(), elapsed, curve.Explored)

	s.Packages.DiscardRoster(rosterID)
	for _, pkg := range curve.Packages {
		if err := s.Packages.Put(pkg); err != nil {
			return nil, err
		}
	}

	s.Logger.Info().
		Str("roster_id", rosterID.String()).
		Int("depth", depth).
		Int("depths_tried", curve.DepthsTried).
		Int("packages", len(curve.Packages)).
		Int64("explored", curve.Explored).
		Dur("elapsed", elapsed).
		Msg("Transfer scout finished")

	return &ScoutResult{Curve: curve, Warnings: domain.BudgetWarnings(roster.Budget)}, nil
}

// Wildcard rebuilds the whole squad and stores the proposal for execution.
// An over-budget proposal is still stored, with a warning.
func (s *Service) Wildcard(ctx context.Context, rosterID uuid.UUID) (*WildcardResult, error) {
	sctx, done := s.beginSearch(ctx, rosterID)
	defer done()

	roster, _, err := transfer.LoadRoster(sctx, s.RosterRepo, s.Catalog, rosterID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := sctx.Err(); err != nil {
		s.recordSearch(metrics.ModeWildcard, err, false, time.Since(start), 0)
		return nil, err
	}
	pkg := wildcard.Rebuild(wildcard.Input{Roster: roster, Pool: s.Catalog.Catalog().ActivePlayers()})
	s.recordSearch(metrics.ModeWildcard, nil, pkg != nil, time.Since(start), 0)

	result := &WildcardResult{Package: pkg}
	if pkg == nil {
		return result, nil
	}

	s.Packages.DiscardRoster(rosterID)
	if err := s.Packages.Put(pkg); err != nil {
		return nil, err
	}
	if pkg.OverBudget {
		result.Warnings = append(result.Warnings, domain.WarningWildcardOverBudget)
		s.Logger.Warn().
			Str("roster_id", rosterID.String()).
			Int("shortfall", pkg.Shortfall).
			Msg("Wildcard squad is over budget")
	}
	return result, nil
}

// ExecutePackage applies a stored package and stops any search still running for its roster
func (s *Service) ExecutePackage(ctx context.Context, packageID string) (*transfer.ExecuteResult, error) {
	result, err := s.Executor.Execute(ctx, packageID)
	if err != nil {
		return nil, err
	}
	s.cancelSearch(result.Roster.ID)
	return result, nil
}

func (s *Service) recordSearch(mode string, err error, found bool, elapsed time.Duration, explored int64) {
	outcome := metrics.OutcomeEmpty
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = metrics.OutcomeCancelled
	case err != nil:
		outcome = metrics.OutcomeError
	case found:
		outcome = metrics.OutcomeFound
	}
	s.Metrics.RecordSearch(mode, outcome, elapsed, explored)
}
