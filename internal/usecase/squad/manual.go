package squad

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/usecase/optimizer"
	"github.com/simaogato/squad-architect-backend/internal/usecase/transfer"
)

// Substitute exchanges starter status between a starter slot and a bench slot.
// The new starter set must be a legal formation.
func (s *Service) Substitute(ctx context.Context, rosterID uuid.UUID, slotA, slotB string) (*View, error) {
	return s.mutate(ctx, rosterID, "", func(r *domain.Roster) error {
		a, b := r.SlotIndex(slotA), r.SlotIndex(slotB)
		if a < 0 {
			return fmt.Errorf("%w: %s", domain.ErrSlotNotFound, slotA)
		}
		if b < 0 {
			return fmt.Errorf("%w: %s", domain.ErrSlotNotFound, slotB)
		}
		if r.Slots[a].IsStarter == r.Slots[b].IsStarter {
			return domain.ErrInvalidSubstitution
		}

		r.Slots[a].IsStarter, r.Slots[b].IsStarter = r.Slots[b].IsStarter, r.Slots[a].IsStarter
		if res := domain.ValidateFormation(r.Slots); !res.Valid {
			return &domain.FormationError{Reason: res.Reason}
		}
		return nil
	})
}

// TransferIn puts a catalog player into a slot, selling the current occupant if there is one.
// Logic:
//  1. The player must exist, be available, match the slot type and not already be in the squad
//  2. The club cap is checked after the outgoing player has left
//  3. Bank moves by outgoing cost minus incoming cost
func (s *Service) TransferIn(ctx context.Context, rosterID uuid.UUID, slotID string, playerID int) (*View, error) {
	return s.mutate(ctx, rosterID, domain.TransferKindManual, func(r *domain.Roster) error {
		idx := r.SlotIndex(slotID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", domain.ErrSlotNotFound, slotID)
		}
		return s.placePlayer(r, idx, playerID)
	})
}

// Buy puts a catalog player into the first empty slot of their position
func (s *Service) Buy(ctx context.Context, rosterID uuid.UUID, playerID int) (*View, error) {
	return s.mutate(ctx, rosterID, domain.TransferKindPurchase, func(r *domain.Roster) error {
		p, err := s.lookupPlayer(playerID)
		if err != nil {
			return err
		}
		for i := range r.Slots {
			if r.Slots[i].Type == p.Position && r.Slots[i].Player == nil {
				return s.placePlayer(r, i, playerID)
			}
		}
		return fmt.Errorf("%w: %s", domain.ErrNoEmptySlot, p.Position)
	})
}

// Remove sells the occupant of a slot and credits its cost to the bank
func (s *Service) Remove(ctx context.Context, rosterID uuid.UUID, slotID string) (*View, error) {
	return s.mutate(ctx, rosterID, domain.TransferKindSale, func(r *domain.Roster) error {
		idx := r.SlotIndex(slotID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", domain.ErrSlotNotFound, slotID)
		}
		out := r.Slots[idx].Player
		if out == nil {
			return fmt.Errorf("%w: %s", domain.ErrSlotEmpty, slotID)
		}
		r.Slots[idx].Player = nil
		r.Budget += out.Cost
		return nil
	})
}

// SetCaptain makes a starter the captain. If they were vice-captain, a new vice is derived.
func (s *Service) SetCaptain(ctx context.Context, rosterID uuid.UUID, playerID int) (*View, error) {
	return s.mutate(ctx, rosterID, "", func(r *domain.Roster) error {
		if !r.IsStarter(playerID) {
			return fmt.Errorf("%w: %d", domain.ErrNotStarter, playerID)
		}
		if r.ViceCaptainID == playerID {
			r.ViceCaptainID = 0
		}
		r.CaptainID = playerID
		return nil
	})
}

// SetViceCaptain makes a starter the vice-captain. If they were captain, a new captain is derived.
func (s *Service) SetViceCaptain(ctx context.Context, rosterID uuid.UUID, playerID int) (*View, error) {
	return s.mutate(ctx, rosterID, "", func(r *domain.Roster) error {
		if !r.IsStarter(playerID) {
			return fmt.Errorf("%w: %d", domain.ErrNotStarter, playerID)
		}
		if r.CaptainID == playerID {
			r.CaptainID = 0
		}
		r.ViceCaptainID = playerID
		return nil
	})
}

// OptimizeResult is the saved roster after local search and the swaps that were applied
type OptimizeResult struct {
	View
	Swaps []optimizer.Swap `json:"swaps"`
}

// Optimize runs the bench/starter hill-climber and saves the result
func (s *Service) Optimize(ctx context.Context, rosterID uuid.UUID) (*OptimizeResult, error) {
	var swaps []optimizer.Swap
	view, err := s.mutate(ctx, rosterID, "", func(r *domain.Roster) error {
		res := optimizer.Optimize(r)
		*r = *res.Roster
		swaps = res.Swaps
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Debug().
		Str("roster_id", rosterID.String()).
		Int("swaps", len(swaps)).
		Float64("starter_ep", view.Roster.StarterEP()).
		Msg("Roster optimized")

	return &OptimizeResult{View: *view, Swaps: swaps}, nil
}

// placePlayer puts a catalog player into r.Slots[idx], selling the occupant
func (s *Service) placePlayer(r *domain.Roster, idx int, playerID int) error {
	in, err := s.lookupPlayer(playerID)
	if err != nil {
		return err
	}
	slot := &r.Slots[idx]

	if in.Position != slot.Type {
		return fmt.Errorf("%w: %s into slot %s", domain.ErrPositionMismatch, in.Position, slot.ID)
	}
	if holder := r.PlayerSlotIndex(in.ID); holder >= 0 {
		return fmt.Errorf("%w: %d", domain.ErrPlayerOwned, in.ID)
	}

	counts := r.ClubCounts()
	outCost := 0
	if slot.Player != nil {
		counts[slot.Player.ClubID]--
		outCost = slot.Player.Cost
	}
	if counts[in.ClubID]+1 > domain.MaxPerClub {
		return fmt.Errorf("%w: club %d", domain.ErrClubLimit, in.ClubID)
	}

	slot.Player = in
	r.Budget += outCost - in.Cost
	return nil
}

// lookupPlayer finds a pickable player in the current catalog
func (s *Service) lookupPlayer(playerID int) (*domain.Player, error) {
	p, ok := s.Catalog.Catalog().Player(playerID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrPlayerNotFound, playerID)
	}
	if p.Status == domain.StatusUnavailable {
		return nil, fmt.Errorf("%w: %d", domain.ErrPlayerNotActive, playerID)
	}
	return p, nil
}

// mutate runs one manual change.
// Logic:
//  1. Cancel any running search for the roster; its result would be stale
//  2. Load the roster and apply fn to a copy; on error nothing is saved
//  3. Re-validate the whole roster and re-derive captaincy
//  4. Save, drop pending packages and, for membership changes, append history
func (s *Service) mutate(
	ctx context.Context,
	rosterID uuid.UUID,
	kind domain.TransferKind,
	fn func(r *domain.Roster) error,
) (*View, error) {
	s.cancelSearch(rosterID)

	roster, missing, err := transfer.LoadRoster(ctx, s.RosterRepo, s.Catalog, rosterID)
	if err != nil {
		return nil, err
	}

	next := roster.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	domain.AssignCaptaincy(next)

	if err := s.RosterRepo.Save(ctx, next.State()); err != nil {
		return nil, err
	}

	if kind != "" {
		s.Packages.DiscardRoster(rosterID)
		if s.Executor != nil {
			s.Executor.Record(ctx, kind, roster, next)
		}
	}

	return newView(next, missing), nil
}
