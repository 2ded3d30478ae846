// gRPC service descriptor and client for gamelist.v1.GameListService.
// Messages are google.protobuf.Struct values carrying the JSON transport form.
package server

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Full method names
const (
	GameListService_ListEmulators_FullMethodName = "/gamelist.v1.GameListService/ListEmulators"
	GameListService_GetGameList_FullMethodName   = "/gamelist.v1.GameListService/GetGameList"
	GameListService_SaveGameList_FullMethodName  = "/gamelist.v1.GameListService/SaveGameList"
	GameListService_Health_FullMethodName        = "/gamelist.v1.GameListService/Health"
)

// GameListServiceServer is the server API for GameListService
type GameListServiceServer interface {
	ListEmulators(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetGameList(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveGameList(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Health(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structCall func(GameListServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(GameListServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(GameListServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// GameListService_ServiceDesc describes GameListService for grpc.RegisterService
var GameListService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "gamelist.v1.GameListService",
	HandlerType: (*GameListServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListEmulators",
			Handler:    unaryHandler(GameListService_ListEmulators_FullMethodName, GameListServiceServer.ListEmulators),
		},
		{
			MethodName: "GetGameList",
			Handler:    unaryHandler(GameListService_GetGameList_FullMethodName, GameListServiceServer.GetGameList),
		},
		{
			MethodName: "SaveGameList",
			Handler:    unaryHandler(GameListService_SaveGameList_FullMethodName, GameListServiceServer.SaveGameList),
		},
		{
			MethodName: "Health",
			Handler:    unaryHandler(GameListService_Health_FullMethodName, GameListServiceServer.Health),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gamelist/v1/gamelist.proto",
}

// RegisterGameListServiceServer registers srv on s
func RegisterGameListServiceServer(s grpc.ServiceRegistrar, srv GameListServiceServer) {
	s.RegisterService(&GameListService_ServiceDesc, srv)
}

// GameListServiceClient is the client API for GameListService
type GameListServiceClient interface {
	ListEmulators(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetGameList(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SaveGameList(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Health(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type gameListServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGameListServiceClient creates a client on cc
func NewGameListServiceClient(cc grpc.ClientConnInterface) GameListServiceClient {
	return &gameListServiceClient{cc: cc}
}

func (c *gameListServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameListServiceClient) ListEmulators(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GameListService_ListEmulators_FullMethodName, in, opts)
}

func (c *gameListServiceClient) GetGameList(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GameListService_GetGameList_FullMethodName, in, opts)
}

func (c *gameListServiceClient) SaveGameList(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GameListService_SaveGameList_FullMethodName, in, opts)
}

func (c *gameListServiceClient) Health(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GameListService_Health_FullMethodName, in, opts)
}

// ToStruct converts any JSON-marshalable value into a Struct message
func ToStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	s := new(structpb.Struct)
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("convert message: %w", err)
	}
	return s, nil
}

// FromStruct decodes a Struct message into v through its JSON form
func FromStruct(s *structpb.Struct, v any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return json.Unmarshal(data, v)
}
