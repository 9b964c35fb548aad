package transfer

import (
	"errors"
	"fmt"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// Apply executes a package against a roster and returns the new roster; r is not modified.
// Logic:
//  1. Check every out-slot still holds the player the package was computed from
//  2. Incremental: put In[i] into the slot of Out[i]
//     Wildcard: empty every slot, then put each incoming player into the first slot of
//     its position that has not yet received one
//  3. Move the bank by -CostDelta (it may go negative)
//  4. Re-derive captaincy
//
// Slot types never change and in-sets are position-matched, so the formation is kept
// by construction and not re-validated. The club cap is checked because a package may
// have been computed against a different squad.
func Apply(r *domain.Roster, pkg *domain.TransferPackage) (*domain.Roster, error) {
	if r == nil || pkg == nil {
		return nil, errors.New("roster and package are required")
	}
	if pkg.RosterID != r.ID {
		return nil, fmt.Errorf("%w: package belongs to roster %s", domain.ErrStalePackage, pkg.RosterID)
	}

	next := r.Clone()

	var err error
	if pkg.IsWildcard {
		err = applyWildcard(next, pkg)
	} else {
		err = applyIncremental(next, pkg)
	}
	if err != nil {
		return nil, err
	}

	for clubID, n := range next.ClubCounts() {
		if n > domain.MaxPerClub {
			return nil, fmt.Errorf("%w: club %d would have %d players", domain.ErrClubLimit, clubID, n)
		}
	}

	next.Budget -= pkg.CostDelta
	domain.AssignCaptaincy(next)

	return next, nil
}

func applyIncremental(r *domain.Roster, pkg *domain.TransferPackage) error {
	if len(pkg.Out) != len(pkg.In) {
		return fmt.Errorf("package has %d outgoing and %d incoming players", len(pkg.Out), len(pkg.In))
	}
	if len(pkg.Out) == 0 {
		return errors.New("package has no transfers")
	}

	// incoming players must be new to the squad unless they replace themselves
	selling := make(map[int]bool, len(pkg.Out))
	for _, out := range pkg.Out {
		if out.Player != nil {
			selling[out.Player.ID] = true
		}
	}

	for i, out := range pkg.Out {
		idx := r.SlotIndex(out.ID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", domain.ErrSlotNotFound, out.ID)
		}
		if err := checkOccupant(&r.Slots[idx], out); err != nil {
			return err
		}

		in := pkg.In[i]
		if in.Position != r.Slots[idx].Type {
			return fmt.Errorf("%w: player %d into slot %s", domain.ErrPositionMismatch, in.ID, out.ID)
		}
		if holder := r.PlayerSlotIndex(in.ID); holder >= 0 && !selling[in.ID] {
			return fmt.Errorf("%w: player %d", domain.ErrPlayerOwned, in.ID)
		}
	}

	for i, out := range pkg.Out {
		r.Slots[r.SlotIndex(out.ID)].Player = pkg.In[i]
	}
	return nil
}

func applyWildcard(r *domain.Roster, pkg *domain.TransferPackage) error {
	// the package sells the whole squad, so it must name exactly the filled slots
	filled := 0
	for i := range r.Slots {
		if r.Slots[i].Player != nil {
			filled++
		}
	}
	if filled != len(pkg.Out) {
		return fmt.Errorf("%w: squad has %d players, package sells %d", domain.ErrStalePackage, filled, len(pkg.Out))
	}
	for _, out := range pkg.Out {
		idx := r.SlotIndex(out.ID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", domain.ErrSlotNotFound, out.ID)
		}
		if err := checkOccupant(&r.Slots[idx], out); err != nil {
			return err
		}
	}

	for i := range r.Slots {
		r.Slots[i].Player = nil
	}

	received := make([]bool, len(r.Slots))
	for _, in := range pkg.In {
		placed := false
		for i := range r.Slots {
			if !received[i] && r.Slots[i].Type == in.Position {
				r.Slots[i].Player = in
				received[i] = true
				placed = true
				break
			}
		}
		if !placed {
			return fmt.Errorf("%w: %s for player %d", domain.ErrNoEmptySlot, in.Position, in.ID)
		}
	}
	return nil
}

// checkOccupant fails when the slot no longer holds the player the package expects
func checkOccupant(current *domain.Slot, expected domain.Slot) error {
	if expected.Player == nil {
		return fmt.Errorf("%w: package slot %s has no outgoing player", domain.ErrSlotEmpty, expected.ID)
	}
	if current.Player == nil || current.Player.ID != expected.Player.ID {
		return fmt.Errorf("%w: slot %s changed", domain.ErrStalePackage, expected.ID)
	}
	return nil
}
