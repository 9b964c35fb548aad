package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/usecase/dashboard"
	"github.com/simaogato/squad-architect-backend/internal/usecase/squad"
)

// Server implements the SquadService gRPC server
type Server struct {
	SquadService     *squad.Service
	DashboardService *dashboard.DashboardService
	// DefaultRosterID is used when a request carries no rosterId
	DefaultRosterID uuid.UUID
}

var _ SquadServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	squadService *squad.Service,
	dashboardService *dashboard.DashboardService,
	defaultRosterID uuid.UUID,
) *Server {
	return &Server{
		SquadService:     squadService,
		DashboardService: dashboardService,
		DefaultRosterID:  defaultRosterID,
	}
}

type rosterRequest struct {
	RosterID string `json:"rosterId"`
}

type substituteRequest struct {
	rosterRequest
	SlotA string `json:"slotA"`
	SlotB string `json:"slotB"`
}

type slotRequest struct {
	rosterRequest
	SlotID   string `json:"slotId"`
	PlayerID int    `json:"playerId"`
}

type playerRequest struct {
	rosterRequest
	PlayerID int `json:"playerId"`
}

type scoutRequest struct {
	rosterRequest
	Depth int `json:"depth"`
}

type packageRequest struct {
	PackageID string `json:"packageId"`
}

type listTransfersRequest struct {
	rosterRequest
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type listTransfersResponse struct {
	Transfers []*domain.TransferRecord `json:"transfers"`
}

// GetSquad handles the GetSquad RPC
func (s *Server) GetSquad(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in rosterRequest
	rosterID, err := s.decodeRoster(req, &in, &in)
	if err != nil {
		return nil, err
	}
	view, err := s.SquadService.GetSquad(ctx, rosterID)
	return respond(view, err)
}

// GetSummary handles the GetSummary RPC
func (s *Server) GetSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in rosterRequest
	rosterID, err := s.decodeRoster(req, &in, &in)
	if err != nil {
		return nil, err
	}
	summary, err := s.DashboardService.GetSummary(ctx, rosterID)
	return respond(summary, err)
}

// GetAnalytics handles the GetAnalytics RPC
func (s *Server) GetAnalytics(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in rosterRequest
	rosterID, err := s.decodeRoster(req, &in, &in)
	if err != nil {
		return nil, err
	}
	analytics, err := s.DashboardService.GetAnalytics(ctx, rosterID)
	return respond(analytics, err)
}

// Substitute handles the Substitute RPC
func (s *Server) Substitute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in substituteRequest
	rosterID, err := s.decodeRoster(req, &in, &in.rosterRequest)
	if err != nil {
		return nil, err
	}
	if in.SlotA == "" || in.SlotB == "" {
		return nil, status.Error(codes.InvalidArgument, "slotA and slotB are required")
	}
	view, err := s.SquadService.Substitute(ctx, rosterID, in.SlotA, in.SlotB)
	return respond(view, err)
}

// TransferIn handles the TransferIn RPC
func (s *Server) TransferIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in slotRequest
	rosterID, err := s.decodeRoster(req, &in, &in.rosterRequest)
	if err != nil {
		return nil, err
	}
	if in.SlotID == "" || in.PlayerID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "slotId and playerId are required")
	}
	view, err := s.SquadService.TransferIn(ctx, rosterID, in.SlotID, in.PlayerID)
	return respond(view, err)
}

// Remove handles the Remove RPC
func (s *Server) Remove(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in slotRequest
	rosterID, err := s.decodeRoster(req, &in, &in.rosterRequest)
	if err != nil {
		return nil, err
	}
	if in.SlotID == "" {
		return nil, status.Error(codes.InvalidArgument, "slotId is required")
	}
	view, err := s.SquadService.Remove(ctx, rosterID, in.SlotID)
	return respond(view, err)
}

// Buy handles the Buy RPC
func (s *Server) Buy(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in playerRequest
	rosterID, err := s.decodePlayer(req, &in)
	if err != nil {
		return nil, err
	}
	view, err := s.SquadService.Buy(ctx, rosterID, in.PlayerID)
	return respond(view, err)
}

// SetCaptain handles the SetCaptain RPC
func (s *Server) SetCaptain(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in playerRequest
	rosterID, err := s.decodePlayer(req, &in)
	if err != nil {
		return nil, err
	}
	view, err := s.SquadService.SetCaptain(ctx, rosterID, in.PlayerID)
	return respond(view, err)
}

// SetViceCaptain handles the SetViceCaptain RPC
func (s *Server) SetViceCaptain(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in playerRequest
	rosterID, err := s.decodePlayer(req, &in)
	if err != nil {
		return nil, err
	}
	view, err := s.SquadService.SetViceCaptain(ctx, rosterID, in.PlayerID)
	return respond(view, err)
}

// Optimize handles the Optimize RPC
func (s *Server) Optimize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in rosterRequest
	rosterID, err := s.decodeRoster(req, &in, &in)
	if err != nil {
		return nil, err
	}
	result, err := s.SquadService.Optimize(ctx, rosterID)
	return respond(result, err)
}

// Scout handles the Scout RPC. A missing depth uses the service default.
func (s *Server) Scout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in scoutRequest
	rosterID, err := s.decodeRoster(req, &in, &in.rosterRequest)
	if err != nil {
		return nil, err
	}
	result, err := s.SquadService.Scout(ctx, rosterID, in.Depth)
	return respond(result, err)
}

// Wildcard handles the Wildcard RPC
func (s *Server) Wildcard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in rosterRequest
	rosterID, err := s.decodeRoster(req, &in, &in)
	if err != nil {
		return nil, err
	}
	result, err := s.SquadService.Wildcard(ctx, rosterID)
	return respond(result, err)
}

// ExecutePackage handles the ExecutePackage RPC
func (s *Server) ExecutePackage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in packageRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if in.PackageID == "" {
		return nil, status.Error(codes.InvalidArgument, "packageId is required")
	}
	result, err := s.SquadService.ExecutePackage(ctx, in.PackageID)
	return respond(result, err)
}

// ListTransfers handles the ListTransfers RPC
func (s *Server) ListTransfers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in listTransfersRequest
	rosterID, err := s.decodeRoster(req, &in, &in.rosterRequest)
	if err != nil {
		return nil, err
	}
	records, err := s.SquadService.ListTransfers(ctx, rosterID, in.Limit, in.Offset)
	if err != nil {
		return nil, mapError(err)
	}
	return respond(listTransfersResponse{Transfers: records}, nil)
}

func (s *Server) decodePlayer(req *structpb.Struct, in *playerRequest) (uuid.UUID, error) {
	rosterID, err := s.decodeRoster(req, in, &in.rosterRequest)
	if err != nil {
		return uuid.Nil, err
	}
	if in.PlayerID <= 0 {
		return uuid.Nil, status.Error(codes.InvalidArgument, "playerId is required")
	}
	return rosterID, nil
}

// decodeRoster decodes req into v and resolves the roster id carried by r
func (s *Server) decodeRoster(req *structpb.Struct, v interface{}, r *rosterRequest) (uuid.UUID, error) {
	if err := decode(req, v); err != nil {
		return uuid.Nil, err
	}
	if r.RosterID == "" {
		return s.DefaultRosterID, nil
	}
	rosterID, err := uuid.Parse(r.RosterID)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid rosterId format: %v", err)
	}
	return rosterID, nil
}

// decode converts a Struct request into v through its JSON form
func decode(req *structpb.Struct, v interface{}) error {
	if req == nil {
		return nil
	}
	data, err := protojson.Marshal(req)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

// respond converts a result into a Struct response, mapping err first
func respond(v interface{}, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, mapError(err)
	}
	out, err := encode(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

func encode(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("failed to convert response: %w", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())

	case errors.Is(err, domain.ErrRosterNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrSlotNotFound),
		errors.Is(err, domain.ErrPackageNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, domain.ErrStalePackage),
		errors.Is(err, domain.ErrCatalogNotLoaded),
		errors.Is(err, domain.ErrSlotEmpty),
		errors.Is(err, domain.ErrNoEmptySlot):
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.Is(err, domain.ErrInvalidFormation),
		errors.Is(err, domain.ErrInvalidRoster),
		errors.Is(err, domain.ErrClubLimit),
		errors.Is(err, domain.ErrPlayerOwned),
		errors.Is(err, domain.ErrPlayerNotActive),
		errors.Is(err, domain.ErrPositionMismatch),
		errors.Is(err, domain.ErrNotStarter),
		errors.Is(err, domain.ErrInvalidDepth),
		errors.Is(err, domain.ErrInvalidSubstitution):
		return status.Error(codes.InvalidArgument, err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Error(codes.Internal, err.Error())
}
