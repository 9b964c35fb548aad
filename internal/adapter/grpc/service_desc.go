package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "squadarchitect.v1.SquadService"

// RPC method names
const (
	MethodGetSquad       = "GetSquad"
	MethodGetSummary     = "GetSummary"
	MethodGetAnalytics   = "GetAnalytics"
	MethodSubstitute     = "Substitute"
	MethodTransferIn     = "TransferIn"
	MethodRemove         = "Remove"
	MethodBuy            = "Buy"
	MethodSetCaptain     = "SetCaptain"
	MethodSetViceCaptain = "SetViceCaptain"
	MethodOptimize       = "Optimize"
	MethodScout          = "Scout"
	MethodWildcard       = "Wildcard"
	MethodExecutePackage = "ExecutePackage"
	MethodListTransfers  = "ListTransfers"
)

// SquadServiceServer is the server API for the SquadService service.
// Requests and responses are JSON objects carried as google.protobuf.Struct.
type SquadServiceServer interface {
	GetSquad(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAnalytics(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Substitute(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TransferIn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Remove(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Buy(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetCaptain(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetViceCaptain(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Optimize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Scout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Wildcard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExecutePackage(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTransfers(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structMethod func(SquadServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call structMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SquadServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(SquadServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// SquadService_ServiceDesc is the grpc.ServiceDesc for the SquadService service
var SquadService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SquadServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodGetSquad, SquadServiceServer.GetSquad),
		unaryMethod(MethodGetSummary, SquadServiceServer.GetSummary),
		unaryMethod(MethodGetAnalytics, SquadServiceServer.GetAnalytics),
		unaryMethod(MethodSubstitute, SquadServiceServer.Substitute),
		unaryMethod(MethodTransferIn, SquadServiceServer.TransferIn),
		unaryMethod(MethodRemove, SquadServiceServer.Remove),
		unaryMethod(MethodBuy, SquadServiceServer.Buy),
		unaryMethod(MethodSetCaptain, SquadServiceServer.SetCaptain),
		unaryMethod(MethodSetViceCaptain, SquadServiceServer.SetViceCaptain),
		unaryMethod(MethodOptimize, SquadServiceServer.Optimize),
		unaryMethod(MethodScout, SquadServiceServer.Scout),
		unaryMethod(MethodWildcard, SquadServiceServer.Wildcard),
		unaryMethod(MethodExecutePackage, SquadServiceServer.ExecutePackage),
		unaryMethod(MethodListTransfers, SquadServiceServer.ListTransfers),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "squadarchitect/v1/squad.proto",
}

// RegisterSquadServiceServer registers srv on s
func RegisterSquadServiceServer(s grpc.ServiceRegistrar, srv SquadServiceServer) {
	s.RegisterService(&SquadService_ServiceDesc, srv)
}

// SquadServiceClient calls SquadService methods by name
type SquadServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSquadServiceClient creates a client on an existing connection
func NewSquadServiceClient(cc grpc.ClientConnInterface) *SquadServiceClient {
	return &SquadServiceClient{cc: cc}
}

// Call invokes method with req and returns the response object
func (c *SquadServiceClient) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
