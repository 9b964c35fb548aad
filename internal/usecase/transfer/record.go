package transfer

import (
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// NewRecord describes the membership change from before to after as a history record.
// Slots are matched by ID; starter flag changes alone are not transfers.
// Returns nil when no slot changed occupant.
func NewRecord(kind domain.TransferKind, before, after *domain.Roster, now time.Time) *domain.TransferRecord {
	recordID := uuid.New()
	entries := make([]domain.TransferEntry, 0)

	for _, a := range after.Slots {
		idx := before.SlotIndex(a.ID)
		if idx < 0 {
			continue
		}
		outID := playerID(before.Slots[idx].Player)
		inID := playerID(a.Player)
		if outID == inID {
			continue
		}
		entries = append(entries, domain.TransferEntry{
			ID:          uuid.New(),
			RecordID:    recordID,
			SlotID:      a.ID,
			OutPlayerID: outID,
			InPlayerID:  inID,
		})
	}

	if len(entries) == 0 {
		return nil
	}

	return &domain.TransferRecord{
		ID:          recordID,
		RosterID:    after.ID,
		Kind:        kind,
		BudgetDelta: after.Budget - before.Budget,
		CreatedAt:   now,
		Entries:     entries,
	}
}

func playerID(p *domain.Player) int {
	if p == nil {
		return 0
	}
	return p.ID
}
