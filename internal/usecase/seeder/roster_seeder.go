package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// DefaultRosterID is the fixed ID of the single local roster
var DefaultRosterID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// RosterSeeder handles seeding of the default roster
type RosterSeeder struct {
	repo domain.RosterRepository
	bank int
}

// NewRosterSeeder creates a new RosterSeeder instance.
// bank is the budget a freshly created roster starts with.
func NewRosterSeeder(repo domain.RosterRepository, bank int) *RosterSeeder {
	return &RosterSeeder{
		repo: repo,
		bank: bank,
	}
}

// Seed ensures the default roster exists in the database.
// If it doesn't exist, an empty roster (s1..s11 starters in a 4-4-2, b1..b4 bench) is created.
// Returns true when a roster was created.
func (s *RosterSeeder) Seed(ctx context.Context) (bool, error) {
	_, err := s.repo.Get(ctx, DefaultRosterID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrRosterNotFound) {
		return false, fmt.Errorf("failed to look up default roster: %w", err)
	}

	roster := domain.NewEmptyRoster(DefaultRosterID, s.bank)
	if err := roster.Validate(); err != nil {
		return false, err
	}
	if err := s.repo.Save(ctx, roster.State()); err != nil {
		return false, fmt.Errorf("failed to create default roster: %w", err)
	}
	return true, nil
}

// Reset replaces the default roster with an empty one
func (s *RosterSeeder) Reset(ctx context.Context) error {
	roster := domain.NewEmptyRoster(DefaultRosterID, s.bank)
	if err := s.repo.Save(ctx, roster.State()); err != nil {
		return fmt.Errorf("failed to reset default roster: %w", err)
	}
	return nil
}
