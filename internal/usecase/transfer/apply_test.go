package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/domain/domaintest"
	"github.com/simaogato/squad-architect-backend/internal/usecase/scout"
	"github.com/simaogato/squad-architect-backend/internal/usecase/wildcard"
)

func slotCopy(t *testing.T, r *domain.Roster, slotID string) domain.Slot {
	t.Helper()
	idx := r.SlotIndex(slotID)
	require.GreaterOrEqual(t, idx, 0, "slot %s", slotID)
	return r.Slots[idx]
}

func TestApply_Incremental(t *testing.T) {
	roster := domaintest.Roster(0, domaintest.Squad(1, 1, 50, "2.0")...)
	incoming := domaintest.Player(100, domain.PositionMID, 20, 40, "5.0")

	pkg := &domain.TransferPackage{
		RosterID:      roster.ID,
		Out:           []domain.Slot{slotCopy(t, roster, "s6")},
		In:            []*domain.Player{incoming},
		Gain:          3.0,
		CostDelta:     -10,
		TransferCount: 1,
	}

	next, err := Apply(roster, pkg)

	require.NoError(t, err)
	assert.Equal(t, incoming, next.Slots[next.SlotIndex("s6")].Player)
	assert.Equal(t, 10, next.Budget)
	assert.Equal(t, incoming.ID, next.CaptainID, "highest-EP starter becomes captain")
	assert.NoError(t, next.Validate())

	// input untouched
	assert.Equal(t, 8, roster.Slots[roster.SlotIndex("s6")].Player.ID)
	assert.Equal(t, 0, roster.Budget)
}

func TestApply_NegativeBudgetIsAllowed(t *testing.T) {
	roster := domaintest.Roster(0, domaintest.Squad(1, 1, 50, "2.0")...)
	pkg := &domain.TransferPackage{
		RosterID:  roster.ID,
		Out:       []domain.Slot{slotCopy(t, roster, "s10")},
		In:        []*domain.Player{domaintest.Player(100, domain.PositionFWD, 20, 70, "6.0")},
		CostDelta: 20,
	}

	next, err := Apply(roster, pkg)

	require.NoError(t, err)
	assert.Equal(t, -20, next.Budget)
	assert.Contains(t, domain.RosterWarnings(next), domain.WarningNegativeBudget)
}

func TestApply_Rejections(t *testing.T) {
	squad := domaintest.Squad(1, 1, 50, "2.0")

	tests := []struct {
		name    string
		build   func(r *domain.Roster) *domain.TransferPackage
		wantErr error
	}{
		{
			name: "other roster",
			build: func(r *domain.Roster) *domain.TransferPackage {
				return &domain.TransferPackage{
					RosterID: uuid.New(),
					Out:      []domain.Slot{slotCopy(t, r, "s6")},
					In:       []*domain.Player{domaintest.Player(100, domain.PositionMID, 20, 40, "5.0")},
				}
			},
			wantErr: domain.ErrStalePackage,
		},
		{
			name: "occupant changed",
			build: func(r *domain.Roster) *domain.TransferPackage {
				out := slotCopy(t, r, "s6")
				out.Player = domaintest.Player(999, domain.PositionMID, 20, 50, "1.0")
				return &domain.TransferPackage{
					RosterID: r.ID,
					Out:      []domain.Slot{out},
					In:       []*domain.Player{domaintest.Player(100, domain.PositionMID, 20, 40, "5.0")},
				}
			},
			wantErr: domain.ErrStalePackage,
		},
		{
			name: "position mismatch",
			build: func(r *domain.Roster) *domain.TransferPackage {
				return &domain.TransferPackage{
					RosterID: r.ID,
					Out:      []domain.Slot{slotCopy(t, r, "s6")},
					In:       []*domain.Player{domaintest.Player(100, domain.PositionFWD, 20, 40, "5.0")},
				}
			},
			wantErr: domain.ErrPositionMismatch,
		},
		{
			name: "fourth player from a club",
			build: func(r *domain.Roster) *domain.TransferPackage {
				// players 1-3 are club 1; s6 holds player 8 from club 3
				return &domain.TransferPackage{
					RosterID: r.ID,
					Out:      []domain.Slot{slotCopy(t, r, "s6")},
					In:       []*domain.Player{domaintest.Player(100, domain.PositionMID, 1, 40, "5.0")},
				}
			},
			wantErr: domain.ErrClubLimit,
		},
		{
			name: "incoming player already owned",
			build: func(r *domain.Roster) *domain.TransferPackage {
				return &domain.TransferPackage{
					RosterID: r.ID,
					Out:      []domain.Slot{slotCopy(t, r, "s6")},
					In:       []*domain.Player{r.Slots[r.SlotIndex("s7")].Player},
				}
			},
			wantErr: domain.ErrPlayerOwned,
		},
		{
			name: "unknown slot",
			build: func(r *domain.Roster) *domain.TransferPackage {
				out := slotCopy(t, r, "s6")
				out.ID = "x9"
				return &domain.TransferPackage{
					RosterID: r.ID,
					Out:      []domain.Slot{out},
					In:       []*domain.Player{domaintest.Player(100, domain.PositionMID, 20, 40, "5.0")},
				}
			},
			wantErr: domain.ErrSlotNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := domaintest.Roster(0, squad...)
			next, err := Apply(roster, tt.build(roster))

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, next)
		})
	}
}

func TestApply_Wildcard(t *testing.T) {
	current := domaintest.Squad(1, 1, 50, "2.0")
	roster := domaintest.Roster(20, current...)
	roster.CaptainID = 1

	pkg := wildcard.Rebuild(wildcard.Input{Roster: roster, Pool: domaintest.Squad(100, 10, 51, "4.0")})
	require.NotNil(t, pkg)

	next, err := Apply(roster, pkg)

	require.NoError(t, err)
	require.NoError(t, next.Validate())
	assert.Len(t, next.FilledSlots(), domain.SquadSize)
	for _, s := range next.Slots {
		assert.GreaterOrEqual(t, s.Player.ID, 100)
		assert.Equal(t, s.Type, s.Player.Position)
	}
	assert.Equal(t, 20-15, next.Budget)
	assert.GreaterOrEqual(t, next.CaptainID, 100, "old captain left the squad")
	assert.NotZero(t, next.ViceCaptainID)
	assert.NotEqual(t, next.CaptainID, next.ViceCaptainID)
}

func TestApply_WildcardStale(t *testing.T) {
	roster := domaintest.Roster(0, domaintest.Squad(1, 1, 50, "2.0")...)
	pkg := wildcard.Rebuild(wildcard.Input{Roster: roster, Pool: domaintest.Squad(100, 10, 50, "4.0")})
	require.NotNil(t, pkg)

	roster.Slots[roster.SlotIndex("b4")].Player = nil

	_, err := Apply(roster, pkg)
	assert.ErrorIs(t, err, domain.ErrStalePackage)
}

func TestApply_ScoutPackagesKeepRosterValid(t *testing.T) {
	roster := domaintest.Roster(40, domaintest.Squad(1, 1, 50, "2.0")...)
	require.NoError(t, roster.Validate())

	pool := []*domain.Player{
		domaintest.Player(100, domain.PositionMID, 1, 50, "9.0"),
		domaintest.Player(101, domain.PositionFWD, 2, 60, "7.0"),
		domaintest.Player(102, domain.PositionDEF, 30, 45, "5.5"),
		domaintest.Player(103, domain.PositionGK, 31, 80, "6.0"),
	}

	curve, err := scout.New(scout.DefaultConfig()).Run(context.Background(), scout.Input{Roster: roster, Pool: pool, Depth: 4})
	require.NoError(t, err)
	require.NotEmpty(t, curve.Packages)

	for _, pkg := range curve.Packages {
		next, err := Apply(roster, pkg)
		require.NoError(t, err, "depth %d", pkg.TransferCount)
		assert.NoError(t, next.Validate())
		assert.Equal(t, roster.Budget-pkg.CostDelta, next.Budget)
		for club, n := range next.ClubCounts() {
			assert.LessOrEqual(t, n, domain.MaxPerClub, "club %d", club)
		}
	}
}

func TestNewRecord(t *testing.T) {
	before := domaintest.Roster(0, domaintest.Squad(1, 1, 50, "2.0")...)
	after := before.Clone()
	after.Slots[after.SlotIndex("s6")].Player = domaintest.Player(100, domain.PositionMID, 20, 40, "5.0")
	after.Slots[after.SlotIndex("b4")].Player = nil
	after.Slots[after.SlotIndex("s2")].IsStarter = false // not a transfer
	after.Budget = 60

	now := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	record := NewRecord(domain.TransferKindManual, before, after, now)

	require.NotNil(t, record)
	require.NoError(t, record.Validate())
	assert.Equal(t, before.ID, record.RosterID)
	assert.Equal(t, 60, record.BudgetDelta)
	assert.Equal(t, now, record.CreatedAt)
	require.Len(t, record.Entries, 2)
	assert.Equal(t, domain.TransferEntry{ID: record.Entries[0].ID, RecordID: record.ID, SlotID: "s6", OutPlayerID: 8, InPlayerID: 100}, record.Entries[0])
	assert.Equal(t, "b4", record.Entries[1].SlotID)
	assert.Equal(t, 15, record.Entries[1].OutPlayerID)
	assert.Zero(t, record.Entries[1].InPlayerID)

	assert.Nil(t, NewRecord(domain.TransferKindManual, before, before.Clone(), now))
}
