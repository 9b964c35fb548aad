package squad

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/squad-architect-backend/internal/adapter/repository/memory"
	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/domain/domaintest"
	"github.com/simaogato/squad-architect-backend/internal/usecase/scout"
	"github.com/simaogato/squad-architect-backend/internal/usecase/transfer"
)

type fixture struct {
	service  *Service
	rosters  *memory.RosterStore
	packages *memory.PackageStore
	history  *memory.TransferLog
	rosterID uuid.UUID
}

// newFixture stores a full squad (ids 1-15, clubs 1-5, cost 50, EP 2.0) with bank 0.
// The bench goalkeeper (id 2) expects more than the starting one (id 1).
// The catalog also offers midfielders 100 (club 20, cost 40, EP 5.0) and 101 (club 1, cost 40, EP 6.0)
// and defenders 102 (club 1, cost 40, EP 3.0) and 103 (club 21, cost 45, EP 1.0).
func newFixture(t *testing.T, opts ...scout.Option) *fixture {
	t.Helper()

	squad := domaintest.Squad(1, 1, 50, "2.0")
	squad[0] = domaintest.Player(1, domain.PositionGK, 1, 50, "4.0")
	squad[1] = domaintest.Player(2, domain.PositionGK, 1, 50, "5.0")
	extras := []*domain.Player{
		domaintest.Player(100, domain.PositionMID, 20, 40, "5.0"),
		domaintest.Player(101, domain.PositionMID, 1, 40, "6.0"),
		domaintest.Player(102, domain.PositionDEF, 1, 40, "3.0"),
		domaintest.Player(103, domain.PositionDEF, 21, 45, "1.0"),
	}
	roster := domaintest.Roster(0, squad...)

	f := &fixture{
		rosters:  memory.NewRosterStore(),
		packages: memory.NewPackageStore(),
		history:  memory.NewTransferLog(),
		rosterID: roster.ID,
	}
	require.NoError(t, f.rosters.Save(context.Background(), roster.State()))

	catalog := memory.NewCatalogStore(domaintest.Catalog(append(squad, extras...)...))
	executor := transfer.NewExecutorService(f.rosters, f.history, f.packages, catalog, nil, zerolog.Nop())
	f.service = NewService(f.rosters, f.history, catalog, f.packages, executor,
		scout.New(scout.DefaultConfig(), opts...), nil, zerolog.Nop(), 1)
	return f
}

func (f *fixture) load(t *testing.T) *domain.Roster {
	t.Helper()
	view, err := f.service.GetSquad(context.Background(), f.rosterID)
	require.NoError(t, err)
	return view.Roster
}

func TestGetSquad(t *testing.T) {
	f := newFixture(t)

	view, err := f.service.GetSquad(context.Background(), f.rosterID)

	require.NoError(t, err)
	assert.Len(t, view.Roster.FilledSlots(), domain.SquadSize)
	assert.Empty(t, view.Warnings)

	_, err = f.service.GetSquad(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrRosterNotFound)
}

func TestSubstitute(t *testing.T) {
	ctx := context.Background()

	t.Run("goalkeepers swap", func(t *testing.T) {
		f := newFixture(t)

		view, err := f.service.Substitute(ctx, f.rosterID, "s1", "b1")

		require.NoError(t, err)
		r := view.Roster
		assert.False(t, r.Slots[r.SlotIndex("s1")].IsStarter)
		assert.True(t, r.Slots[r.SlotIndex("b1")].IsStarter)
		assert.True(t, f.load(t).Slots[f.load(t).SlotIndex("b1")].IsStarter, "saved")
		assert.Equal(t, 2, r.CaptainID)
	})

	t.Run("illegal formation is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Substitute(ctx, f.rosterID, "s1", "b2")

		require.ErrorIs(t, err, domain.ErrInvalidFormation)
		var formationErr *domain.FormationError
		require.True(t, errors.As(err, &formationErr))
		assert.Equal(t, domain.ReasonGoalkeeperCount, formationErr.Reason)

		r := f.load(t)
		assert.True(t, r.Slots[r.SlotIndex("s1")].IsStarter, "previous state retained")
	})

	t.Run("two starters", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Substitute(ctx, f.rosterID, "s2", "s3")
		assert.ErrorIs(t, err, domain.ErrInvalidSubstitution)
	})

	t.Run("unknown slot", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Substitute(ctx, f.rosterID, "s1", "z9")
		assert.ErrorIs(t, err, domain.ErrSlotNotFound)
	})
}

func TestTransferIn(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces occupant and moves the bank", func(t *testing.T) {
		f := newFixture(t)

		view, err := f.service.TransferIn(ctx, f.rosterID, "s6", 100)

		require.NoError(t, err)
		assert.Equal(t, 100, view.Roster.Slots[view.Roster.SlotIndex("s6")].Player.ID)
		assert.Equal(t, 10, view.Roster.Budget)

		records, err := f.service.ListTransfers(ctx, f.rosterID, 0, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, domain.TransferKindManual, records[0].Kind)
		assert.Equal(t, 8, records[0].Entries[0].OutPlayerID)
		assert.Equal(t, 100, records[0].Entries[0].InPlayerID)
	})

	t.Run("club cap", func(t *testing.T) {
		f := newFixture(t)
		// club 1 already supplies players 1, 2 and 3
		_, err := f.service.TransferIn(ctx, f.rosterID, "s6", 101)
		assert.ErrorIs(t, err, domain.ErrClubLimit)
	})

	t.Run("outgoing club share is released first", func(t *testing.T) {
		f := newFixture(t)
		// s2 holds player 3 from club 1
		view, err := f.service.TransferIn(ctx, f.rosterID, "s2", 102)
		require.NoError(t, err)
		assert.Equal(t, 102, view.Roster.Slots[view.Roster.SlotIndex("s2")].Player.ID)
		assert.Equal(t, 3, view.Roster.ClubCounts()[1])
	})

	t.Run("owned player", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.TransferIn(ctx, f.rosterID, "s6", 9)
		assert.ErrorIs(t, err, domain.ErrPlayerOwned)
	})

	t.Run("position mismatch", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.TransferIn(ctx, f.rosterID, "s2", 100)
		assert.ErrorIs(t, err, domain.ErrPositionMismatch)
	})

	t.Run("unknown player", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.TransferIn(ctx, f.rosterID, "s6", 4242)
		assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
	})
}

func TestRemoveAndBuy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	view, err := f.service.Remove(ctx, f.rosterID, "s6")
	require.NoError(t, err)
	assert.Nil(t, view.Roster.Slots[view.Roster.SlotIndex("s6")].Player)
	assert.Equal(t, 50, view.Roster.Budget)
	assert.Contains(t, view.Warnings, domain.WarningIncompleteSquad)

	_, err = f.service.Remove(ctx, f.rosterID, "s6")
	assert.ErrorIs(t, err, domain.ErrSlotEmpty)

	view, err = f.service.Buy(ctx, f.rosterID, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, view.Roster.Slots[view.Roster.SlotIndex("s6")].Player.ID)
	assert.Equal(t, 10, view.Roster.Budget)
	assert.Empty(t, view.Warnings)

	_, err = f.service.Buy(ctx, f.rosterID, 101)
	assert.ErrorIs(t, err, domain.ErrNoEmptySlot)

	records, err := f.service.ListTransfers(ctx, f.rosterID, 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	kinds := []domain.TransferKind{records[0].Kind, records[1].Kind}
	assert.ElementsMatch(t, []domain.TransferKind{domain.TransferKindSale, domain.TransferKindPurchase}, kinds)
}

func TestCaptaincy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	view, err := f.service.SetCaptain(ctx, f.rosterID, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, view.Roster.CaptainID)
	assert.NotEqual(t, 8, view.Roster.ViceCaptainID)

	_, err = f.service.SetCaptain(ctx, f.rosterID, 2)
	assert.ErrorIs(t, err, domain.ErrNotStarter, "bench goalkeeper")

	view, err = f.service.SetViceCaptain(ctx, f.rosterID, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, view.Roster.ViceCaptainID)
	assert.NotZero(t, view.Roster.CaptainID)
	assert.NotEqual(t, 8, view.Roster.CaptainID, "captain re-derived after promotion to vice")
}

func TestOptimize(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.service.Optimize(ctx, f.rosterID)

	require.NoError(t, err)
	require.Len(t, res.Swaps, 1)
	assert.Equal(t, "b1", res.Swaps[0].BenchSlotID)
	assert.Equal(t, "s1", res.Swaps[0].StarterSlotID)
	assert.InDelta(t, 1.0, res.Swaps[0].Gain, 1e-9)

	again, err := f.service.Optimize(ctx, f.rosterID)
	require.NoError(t, err)
	assert.Empty(t, again.Swaps, "optimizing an optimized roster changes nothing")
}

func TestScoutAndExecute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.service.Scout(ctx, f.rosterID, 0)

	require.NoError(t, err)
	require.Len(t, res.Curve.Packages, 1, "default depth is 1")
	pkg := res.Curve.Packages[0]
	require.NotEmpty(t, pkg.ID)
	assert.Equal(t, 100, pkg.In[0].ID, "club 1 is full, so 101 is not an option")
	assert.Equal(t, 1, f.packages.Len())

	exec, err := f.service.ExecutePackage(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, -pkg.CostDelta, exec.Roster.Budget)
	assert.Equal(t, domain.TransferKindPackage, exec.Record.Kind)
	assert.Equal(t, 100, f.load(t).Slots[f.load(t).PlayerSlotIndex(100)].Player.ID)

	_, err = f.service.ExecutePackage(ctx, pkg.ID)
	assert.ErrorIs(t, err, domain.ErrPackageNotFound, "packages are consumed once")
}

func TestScout_ManualEditDiscardsProposals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.Scout(ctx, f.rosterID, 2)
	require.NoError(t, err)
	require.Positive(t, f.packages.Len())

	_, err = f.service.Remove(ctx, f.rosterID, "b4")
	require.NoError(t, err)
	assert.Zero(t, f.packages.Len())
}

func TestScout_InvalidDepth(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Scout(context.Background(), f.rosterID, 9)
	assert.ErrorIs(t, err, domain.ErrInvalidDepth)
}

func TestScout_ManualEditCancelsRunningSearch(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	f := newFixture(t, scout.WithYield(func(ctx context.Context, phase scout.Phase, _ int) error {
		if phase == scout.PhaseStart {
			close(started)
			<-ctx.Done()
		}
		return ctx.Err()
	}))

	errs := make(chan error, 1)
	go func() {
		_, err := f.service.Scout(ctx, f.rosterID, 1)
		errs <- err
	}()

	<-started
	_, err := f.service.SetCaptain(ctx, f.rosterID, 8)
	require.NoError(t, err)

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("search was not cancelled")
	}
	assert.Zero(t, f.packages.Len())
}

func TestWildcard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.service.Wildcard(ctx, f.rosterID)

	require.NoError(t, err)
	require.NotNil(t, res.Package)
	assert.True(t, res.Package.IsWildcard)
	assert.Len(t, res.Package.In, domain.SquadSize)
	assert.NotEmpty(t, res.Package.ID)

	exec, err := f.service.ExecutePackage(ctx, res.Package.ID)
	require.NoError(t, err)
	assert.NoError(t, exec.Roster.Validate())
	assert.Equal(t, domain.TransferKindWildcard, exec.Record.Kind)
}
