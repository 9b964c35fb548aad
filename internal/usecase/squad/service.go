package squad

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/metrics"
	"github.com/simaogato/squad-architect-backend/internal/usecase/scout"
	"github.com/simaogato/squad-architect-backend/internal/usecase/transfer"
)

// View is a roster together with the conditions the caller should surface
type View struct {
	Roster   *domain.Roster   `json:"roster"`
	Warnings []domain.Warning `json:"warnings,omitempty"`
	// MissingPlayers lists persisted player IDs the current feed no longer has
	MissingPlayers []int `json:"missingPlayers,omitempty"`
}

// Service is the session object around a persisted roster: manual edits, the optimizer,
// transfer searches and package execution.
// Every change is computed on a copy and saved as a whole value.
type Service struct {
	RosterRepo   domain.RosterRepository
	RecordRepo   domain.TransferRecordRepository
	Catalog      domain.CatalogSource
	Packages     domain.PackageRepository
	Executor     *transfer.ExecutorService
	Search       *scout.Scout
	Metrics      *metrics.Recorder
	Logger       zerolog.Logger
	DefaultDepth int

	mu       sync.Mutex
	searches map[uuid.UUID]*runningSearch
}

// runningSearch is the cancel handle of the search in flight for a roster
type runningSearch struct {
	cancel context.CancelFunc
}

// NewService creates a new Service instance
func NewService(
	rosterRepo domain.RosterRepository,
	recordRepo domain.TransferRecordRepository,
	catalog domain.CatalogSource,
	packages domain.PackageRepository,
	executor *transfer.ExecutorService,
	sc *scout.Scout,
	rec *metrics.Recorder,
	logger zerolog.Logger,
	defaultDepth int,
) *Service {
	return &Service{
		RosterRepo:   rosterRepo,
		RecordRepo:   recordRepo,
		Catalog:      catalog,
		Packages:     packages,
		Executor:     executor,
		Search:       sc,
		Metrics:      rec,
		Logger:       logger,
		DefaultDepth: defaultDepth,
		searches:     make(map[uuid.UUID]*runningSearch),
	}
}

// GetSquad loads a roster with its warnings
func (s *Service) GetSquad(ctx context.Context, rosterID uuid.UUID) (*View, error) {
	roster, missing, err := transfer.LoadRoster(ctx, s.RosterRepo, s.Catalog, rosterID)
	if err != nil {
		return nil, err
	}
	return newView(roster, missing), nil
}

// ListTransfers returns a roster's transfer history, newest first
func (s *Service) ListTransfers(ctx context.Context, rosterID uuid.UUID, limit, offset int) ([]*domain.TransferRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.RecordRepo.List(ctx, rosterID, limit, offset)
}

func newView(roster *domain.Roster, missing []int) *View {
	v := &View{
		Roster:         roster,
		Warnings:       domain.RosterWarnings(roster),
		MissingPlayers: missing,
	}
	if len(missing) > 0 {
		v.Warnings = append(v.Warnings, domain.WarningUnknownPlayers)
	}
	return v
}

// beginSearch cancels the roster's running search and registers a new one.
// The returned done func must be called when the search ends.
func (s *Service) beginSearch(ctx context.Context, rosterID uuid.UUID) (context.Context, func()) {
	sctx, cancel := context.WithCancel(ctx)
	entry := &runningSearch{cancel: cancel}

	s.mu.Lock()
	if prev := s.searches[rosterID]; prev != nil {
		prev.cancel()
	}
	s.searches[rosterID] = entry
	s.mu.Unlock()

	return sctx, func() {
		s.mu.Lock()
		if s.searches[rosterID] == entry {
			delete(s.searches, rosterID)
		}
		s.mu.Unlock()
		cancel()
	}
}

// cancelSearch aborts the roster's running search, if any
func (s *Service) cancelSearch(rosterID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev := s.searches[rosterID]; prev != nil {
		prev.cancel()
		delete(s.searches, rosterID)
	}
}
