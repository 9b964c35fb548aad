package grpc

import (
	"context"
	"fmt"
	"net"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/squad-architect-backend/internal/adapter/repository/memory"
	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/domain/domaintest"
	"github.com/simaogato/squad-architect-backend/internal/usecase/dashboard"
	"github.com/simaogato/squad-architect-backend/internal/usecase/scout"
	"github.com/simaogato/squad-architect-backend/internal/usecase/squad"
	"github.com/simaogato/squad-architect-backend/internal/usecase/transfer"
)

const testToken = "test-token"

// startServer serves a full squad (ids 1-15, bank 0) over bufconn. Bench goalkeeper 2 expects
// more than starter 1, and midfielder 100 from an unused club is on the market.
func startServer(t *testing.T) (*SquadServiceClient, *domain.Roster) {
	t.Helper()

	players := domaintest.Squad(1, 1, 50, "2.0")
	players[0] = domaintest.Player(1, domain.PositionGK, 1, 50, "4.0")
	players[1] = domaintest.Player(2, domain.PositionGK, 1, 50, "5.0")
	market := domaintest.Player(100, domain.PositionMID, 20, 40, "5.0")
	roster := domaintest.Roster(0, players...)

	rosters := memory.NewRosterStore()
	require.NoError(t, rosters.Save(context.Background(), roster.State()))
	history := memory.NewTransferLog()
	packages := memory.NewPackageStore()
	catalog := memory.NewCatalogStore(domaintest.Catalog(append(players, market)...))

	executor := transfer.NewExecutorService(rosters, history, packages, catalog, nil, zerolog.Nop())
	squadService := squad.NewService(rosters, history, catalog, packages, executor,
		scout.New(scout.DefaultConfig()), nil, zerolog.Nop(), 1)
	server := NewServer(squadService, dashboard.NewDashboardService(rosters, catalog), roster.ID)

	lis := bufconn.Listen(1024 * 1024)
	grpcServer := grpclib.NewServer(grpclib.ChainUnaryInterceptor(
		LoggingInterceptor(zerolog.Nop()),
		AuthInterceptor(testToken),
	))
	RegisterSquadServiceServer(grpcServer, server)
	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewSquadServiceClient(conn), roster
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", testToken)
}

func request(t *testing.T, fields map[string]interface{}) *structpb.Struct {
	t.Helper()
	req, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return req
}

func rosterOf(t *testing.T, resp *structpb.Struct) map[string]interface{} {
	t.Helper()
	roster, ok := resp.AsMap()["roster"].(map[string]interface{})
	require.True(t, ok, "response has a roster: %v", resp.AsMap())
	return roster
}

func TestServer_RequiresToken(t *testing.T) {
	client, _ := startServer(t)

	_, err := client.Call(context.Background(), MethodGetSquad, nil)

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServer_EchoesRequestID(t *testing.T) {
	client, _ := startServer(t)

	var header metadata.MD
	ctx := metadata.AppendToOutgoingContext(authed(), RequestIDHeader, "abc-123")
	_, err := client.Call(ctx, MethodGetSquad, nil, grpclib.Header(&header))

	require.NoError(t, err)
	assert.Equal(t, []string{"abc-123"}, header.Get(RequestIDHeader))
}

func TestServer_GetSquad(t *testing.T) {
	client, roster := startServer(t)

	t.Run("Default roster", func(t *testing.T) {
		resp, err := client.Call(authed(), MethodGetSquad, nil)
		require.NoError(t, err)

		got := rosterOf(t, resp)
		assert.Equal(t, roster.ID.String(), got["id"])
		assert.Len(t, got["slots"], domain.SquadSize)
		assert.Equal(t, float64(0), got["budget"])
	})

	t.Run("Unknown roster", func(t *testing.T) {
		_, err := client.Call(authed(), MethodGetSquad, request(t, map[string]interface{}{
			"rosterId": "6f1c7a3e-8a47-4d5e-9a55-3f5d2f0b9c11",
		}))
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("Malformed roster id", func(t *testing.T) {
		_, err := client.Call(authed(), MethodGetSquad, request(t, map[string]interface{}{
			"rosterId": "not-a-uuid",
		}))
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestServer_Substitute(t *testing.T) {
	client, _ := startServer(t)

	resp, err := client.Call(authed(), MethodSubstitute, request(t, map[string]interface{}{
		"slotA": "s1",
		"slotB": "b1",
	}))
	require.NoError(t, err)
	assert.Equal(t, float64(2), rosterOf(t, resp)["captainId"])

	// b1 now holds the only starting goalkeeper; swapping it with a bench defender leaves no keeper
	_, err = client.Call(authed(), MethodSubstitute, request(t, map[string]interface{}{
		"slotA": "b1",
		"slotB": "b2",
	}))
	st, _ := status.FromError(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Contains(t, st.Message(), "invalid formation")

	_, err = client.Call(authed(), MethodSubstitute, request(t, map[string]interface{}{"slotA": "s1"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_GetSummary(t *testing.T) {
	client, _ := startServer(t)

	resp, err := client.Call(authed(), MethodGetSummary, nil)
	require.NoError(t, err)

	summary := resp.AsMap()
	assert.Equal(t, float64(750), summary["squadValue"])
	assert.Equal(t, float64(15), summary["filledSlots"])
	// ten outfield starters at 2.0 and the starting keeper at 4.0, no captain picked yet
	assert.Equal(t, "24", summary["starterEp"])
}

func TestServer_ScoutExecuteAndHistory(t *testing.T) {
	client, roster := startServer(t)

	resp, err := client.Call(authed(), MethodScout, request(t, map[string]interface{}{"depth": 1}))
	require.NoError(t, err)

	curve := resp.AsMap()["curve"].(map[string]interface{})
	packages := curve["packages"].([]interface{})
	require.Len(t, packages, 1)
	packageID := packages[0].(map[string]interface{})["id"].(string)
	require.NotEmpty(t, packageID)

	_, err = client.Call(authed(), MethodExecutePackage, request(t, map[string]interface{}{"packageId": packageID}))
	require.NoError(t, err)

	_, err = client.Call(authed(), MethodExecutePackage, request(t, map[string]interface{}{"packageId": packageID}))
	assert.Equal(t, codes.NotFound, status.Code(err), "packages are consumed once")

	resp, err = client.Call(authed(), MethodListTransfers, request(t, map[string]interface{}{
		"rosterId": roster.ID.String(),
	}))
	require.NoError(t, err)
	transfers := resp.AsMap()["transfers"].([]interface{})
	require.Len(t, transfers, 1)
	assert.Equal(t, string(domain.TransferKindPackage), transfers[0].(map[string]interface{})["kind"])
}

func TestServer_ScoutInvalidDepth(t *testing.T) {
	client, _ := startServer(t)

	_, err := client.Call(authed(), MethodScout, request(t, map[string]interface{}{"depth": 40}))

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_RequiredFields(t *testing.T) {
	client, _ := startServer(t)

	for _, method := range []string{MethodBuy, MethodSetCaptain, MethodSetViceCaptain, MethodRemove, MethodTransferIn, MethodExecutePackage} {
		t.Run(method, func(t *testing.T) {
			_, err := client.Call(authed(), method, nil)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{fmt.Errorf("load: %w", domain.ErrRosterNotFound), codes.NotFound},
		{domain.ErrPackageNotFound, codes.NotFound},
		{domain.ErrStalePackage, codes.FailedPrecondition},
		{domain.ErrCatalogNotLoaded, codes.FailedPrecondition},
		{domain.ErrNoEmptySlot, codes.FailedPrecondition},
		{&domain.FormationError{Reason: domain.ReasonGoalkeeperCount}, codes.InvalidArgument},
		{domain.ErrClubLimit, codes.InvalidArgument},
		{domain.ErrInvalidDepth, codes.InvalidArgument},
		{context.Canceled, codes.Canceled},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{status.Error(codes.PermissionDenied, "nope"), codes.PermissionDenied},
		{fmt.Errorf("failed to get roster: disk full"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(mapError(tt.err)))
		})
	}
	assert.NoError(t, mapError(nil))
}
