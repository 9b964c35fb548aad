package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/metrics"
)

// ExecuteResult is the outcome of executing a package
type ExecuteResult struct {
	Roster   *domain.Roster          `json:"roster"`
	Package  *domain.TransferPackage `json:"package"`
	Record   *domain.TransferRecord  `json:"record,omitempty"`
	Warnings []domain.Warning        `json:"warnings,omitempty"`
}

// ExecutorService applies proposed packages to persisted rosters
type ExecutorService struct {
	RosterRepo domain.RosterRepository
	RecordRepo domain.TransferRecordRepository
	Packages   domain.PackageRepository
	Catalog    domain.CatalogSource
	Metrics    *metrics.Recorder
	Logger     zerolog.Logger
	Now        func() time.Time
}

// NewExecutorService creates a new ExecutorService instance
func NewExecutorService(
	rosterRepo domain.RosterRepository,
	recordRepo domain.TransferRecordRepository,
	packages domain.PackageRepository,
	catalog domain.CatalogSource,
	rec *metrics.Recorder,
	logger zerolog.Logger,
) *ExecutorService {
	return &ExecutorService{
		RosterRepo: rosterRepo,
		RecordRepo: recordRepo,
		Packages:   packages,
		Catalog:    catalog,
		Metrics:    rec,
		Logger:     logger,
		Now:        time.Now,
	}
}

// Execute applies the pending package with the given ID.
// Logic:
//  1. Take the package from the store; it cannot be executed twice, even if applying fails
//  2. Load the roster it was computed for and apply it
//  3. Save the new roster as a whole value
//  4. Drop the roster's other pending packages, which were computed against the old squad
//  5. Append a history record
func (s *ExecutorService) Execute(ctx context.Context, packageID string) (*ExecuteResult, error) {
	pkg, err := s.Packages.Take(packageID)
	if err != nil {
		return nil, err
	}

	roster, _, err := LoadRoster(ctx, s.RosterRepo, s.Catalog, pkg.RosterID)
	if err != nil {
		return nil, err
	}

	next, err := Apply(roster, pkg)
	if err != nil {
		return nil, err
	}

	if err := s.RosterRepo.Save(ctx, next.State()); err != nil {
		return nil, err
	}
	s.Packages.DiscardRoster(roster.ID)

	kind := domain.TransferKindPackage
	if pkg.IsWildcard {
		kind = domain.TransferKindWildcard
	}
	record := s.Record(ctx, kind, roster, next)

	result := &ExecuteResult{
		Roster:   next,
		Package:  pkg,
		Record:   record,
		Warnings: domain.RosterWarnings(next),
	}
	if pkg.OverBudget {
		result.Warnings = append(result.Warnings, domain.WarningWildcardOverBudget)
	}

	s.Logger.Info().
		Str("roster_id", roster.ID.String()).
		Str("package_id", pkg.ID).
		Str("kind", string(kind)).
		Int("transfers", pkg.TransferCount).
		Float64("gain", pkg.Gain).
		Int("budget", next.Budget).
		Msg("Transfer package executed")

	return result, nil
}

// Record stores the history entry for a roster change that has already been saved.
// A failure here is logged, not returned: the roster is the source of truth.
func (s *ExecutorService) Record(ctx context.Context, kind domain.TransferKind, before, after *domain.Roster) *domain.TransferRecord {
	record := NewRecord(kind, before, after, s.Now())
	if record == nil {
		return nil
	}
	s.Metrics.RecordTransfer(string(kind))

	if s.RecordRepo == nil {
		return record
	}
	if err := s.RecordRepo.Create(ctx, record); err != nil {
		s.Logger.Error().Err(err).
			Str("roster_id", after.ID.String()).
			Str("kind", string(kind)).
			Msg("Failed to store transfer record")
	}
	return record
}

// LoadRoster reads a roster's persisted state and resolves its players against the current catalog.
// Players missing from the catalog are dropped from their slots and returned in missing.
func LoadRoster(
	ctx context.Context,
	repo domain.RosterRepository,
	catalog domain.CatalogSource,
	id uuid.UUID,
) (roster *domain.Roster, missing []int, err error) {
	state, err := repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	var snapshot *domain.Catalog
	if catalog != nil {
		snapshot = catalog.Catalog()
	}
	if snapshot == nil {
		return nil, nil, domain.ErrCatalogNotLoaded
	}

	roster, missing, err = domain.Hydrate(state, snapshot)
	if err != nil {
		return nil, missing, fmt.Errorf("failed to load roster %s: %w", id, err)
	}
	return roster, missing, nil
}
