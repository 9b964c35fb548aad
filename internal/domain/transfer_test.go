package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/domain/domaintest"
)

func TestTransferRecord_Validate(t *testing.T) {
	entry := func(slot string, out, in int) domain.TransferEntry {
		return domain.TransferEntry{ID: uuid.New(), SlotID: slot, OutPlayerID: out, InPlayerID: in}
	}

	tests := []struct {
		name    string
		record  domain.TransferRecord
		wantErr bool
		errMsg  string
	}{
		{
			name:   "Package with two swaps should pass",
			record: domain.TransferRecord{Kind: domain.TransferKindPackage, Entries: []domain.TransferEntry{entry("s2", 3, 40), entry("s6", 8, 41)}},
		},
		{
			name:   "Sale without incoming player should pass",
			record: domain.TransferRecord{Kind: domain.TransferKindSale, Entries: []domain.TransferEntry{entry("b4", 15, 0)}},
		},
		{
			name:    "Record without entries should fail",
			record:  domain.TransferRecord{Kind: domain.TransferKindManual},
			wantErr: true,
			errMsg:  "transfer record must have at least one entry",
		},
		{
			name:    "Unknown kind should fail",
			record:  domain.TransferRecord{Kind: "LOAN", Entries: []domain.TransferEntry{entry("s2", 3, 40)}},
			wantErr: true,
			errMsg:  "transfer record kind is invalid",
		},
		{
			name:    "Entry without slot should fail",
			record:  domain.TransferRecord{Kind: domain.TransferKindManual, Entries: []domain.TransferEntry{entry("", 3, 40)}},
			wantErr: true,
			errMsg:  "transfer entry must reference a slot",
		},
		{
			name:    "Slot touched twice should fail",
			record:  domain.TransferRecord{Kind: domain.TransferKindPackage, Entries: []domain.TransferEntry{entry("s2", 3, 40), entry("s2", 40, 41)}},
			wantErr: true,
			errMsg:  "transfer record must not touch a slot twice",
		},
		{
			name:    "Entry without players should fail",
			record:  domain.TransferRecord{Kind: domain.TransferKindManual, Entries: []domain.TransferEntry{entry("s2", 0, 0)}},
			wantErr: true,
			errMsg:  "transfer entry must have an outgoing or incoming player",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.record.ID = uuid.New()
			tt.record.RosterID = uuid.New()
			tt.record.CreatedAt = time.Now()

			err := tt.record.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRosterWarnings(t *testing.T) {
	squad := domaintest.Squad(1, 1, 50, "2.0")

	assert.Empty(t, domain.RosterWarnings(domaintest.Roster(0, squad...)))

	assert.Equal(t, []domain.Warning{domain.WarningNegativeBudget},
		domain.RosterWarnings(domaintest.Roster(-1, squad...)))

	assert.Equal(t, []domain.Warning{domain.WarningIncompleteSquad},
		domain.RosterWarnings(domaintest.Roster(0, squad[:14]...)))

	injured := domaintest.Player(1, domain.PositionGK, 1, 50, "2.0")
	injured.Status = domain.StatusDoubtful
	withDoubt := append([]*domain.Player{injured}, squad[1:]...)
	assert.Equal(t, []domain.Warning{domain.WarningUnavailableStarter},
		domain.RosterWarnings(domaintest.Roster(0, withDoubt...)))

	// unavailable players on the bench are not flagged
	benched := domaintest.Player(2, domain.PositionGK, 1, 50, "2.0")
	benched.Status = domain.StatusUnavailable
	withBenched := append([]*domain.Player{squad[0], benched}, squad[2:]...)
	assert.Empty(t, domain.RosterWarnings(domaintest.Roster(0, withBenched...)))
}

func TestTransferPackage_Costs(t *testing.T) {
	out := domaintest.Player(3, domain.PositionDEF, 1, 50, "3.0")
	pkg := &domain.TransferPackage{
		Out: []domain.Slot{{ID: "s2", Type: domain.PositionDEF, IsStarter: true, Player: out}, {ID: "b2", Type: domain.PositionDEF}},
		In: []*domain.Player{
			domaintest.Player(40, domain.PositionDEF, 2, 45, "4.0"),
			domaintest.Player(41, domain.PositionDEF, 3, 35, "1.0"),
		},
	}

	assert.Equal(t, 80, pkg.InCost())
	assert.Equal(t, 50, pkg.OutCost())
}
