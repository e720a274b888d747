package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "cryptopass.v1.CryptoPassService"

const (
	CryptoPassService_Ping_FullMethodName              = "/" + ServiceName + "/Ping"
	CryptoPassService_Challenge_FullMethodName         = "/" + ServiceName + "/Challenge"
	CryptoPassService_Login_FullMethodName             = "/" + ServiceName + "/Login"
	CryptoPassService_QueryAll_FullMethodName          = "/" + ServiceName + "/QueryAll"
	CryptoPassService_Search_FullMethodName            = "/" + ServiceName + "/Search"
	CryptoPassService_Create_FullMethodName            = "/" + ServiceName + "/Create"
	CryptoPassService_Update_FullMethodName            = "/" + ServiceName + "/Update"
	CryptoPassService_Tombstone_FullMethodName         = "/" + ServiceName + "/Tombstone"
	CryptoPassService_PutShare_FullMethodName          = "/" + ServiceName + "/PutShare"
	CryptoPassService_GetShare_FullMethodName          = "/" + ServiceName + "/GetShare"
	CryptoPassService_ListShares_FullMethodName        = "/" + ServiceName + "/ListShares"
	CryptoPassService_UpdateShareStatus_FullMethodName = "/" + ServiceName + "/UpdateShareStatus"
)

// CryptoPassServiceClient is the client API for CryptoPassService.
type CryptoPassServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Challenge(ctx context.Context, in *ChallengeRequest, opts ...grpc.CallOption) (*ChallengeResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	QueryAll(ctx context.Context, in *QueryAllRequest, opts ...grpc.CallOption) (*QueryAllResponse, error)
	Search(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*SearchResponse, error)
	Create(ctx context.Context, in *CreateRequest, opts ...grpc.CallOption) (*CreateResponse, error)
	Update(ctx context.Context, in *UpdateRequest, opts ...grpc.CallOption) (*UpdateResponse, error)
	Tombstone(ctx context.Context, in *TombstoneRequest, opts ...grpc.CallOption) (*TombstoneResponse, error)
	PutShare(ctx context.Context, in *PutShareRequest, opts ...grpc.CallOption) (*PutShareResponse, error)
	GetShare(ctx context.Context, in *GetShareRequest, opts ...grpc.CallOption) (*GetShareResponse, error)
	ListShares(ctx context.Context, in *ListSharesRequest, opts ...grpc.CallOption) (*ListSharesResponse, error)
	UpdateShareStatus(ctx context.Context, in *UpdateShareStatusRequest, opts ...grpc.CallOption) (*UpdateShareStatusResponse, error)
}

type cryptoPassServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCryptoPassServiceClient(cc grpc.ClientConnInterface) CryptoPassServiceClient {
	return &cryptoPassServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cryptoPassServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, CryptoPassService_Ping_FullMethodName, in, opts)
}

func (c *cryptoPassServiceClient) Challenge(ctx context.Context, in *ChallengeRequest, opts ...grpc.CallOption) (*ChallengeResponse, error) {
	return invoke[ChallengeResponse](ctx, c.cc, CryptoPassService_Challenge_FullMethodName, in, opts)
}

func (c *cryptoPassServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, CryptoPassService_Login_FullMethodName, in, opts)
}

func (c *cryptoPassServiceClient) QueryAll(ctx context.Context, in *QueryAllRequest, opts ...grpc.CallOption) (*QueryAllResponse, error) {
	return invoke[QueryAllResponse](ctx, c.cc, CryptoPassService_QueryAll_FullMethodName, in, opts)
}

func (c *cryptoPassServiceClient) Search(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*SearchResponse, error) {
	return invoke[SearchResponse](ctx, c.cc, CryptoPassService_Search_FullMethodName, in, opts)
}

func (c *cryptoPassServiceClient) Create(ctx context.Context, in *CreateRequest, opts ...grpc.CallOption) (*CreateResponse, error) {
	return invoke[CreateResponse](ctx, c.cc, CryptoPassService_Create_FullMethodName, in, opts)
}

func (c *cryptoPassServiceClient) Update(ctx context.Context, in *UpdateRequest, opts ...grpc.CallOption) (*UpdateResponse, error) {
	return invoke[UpdateResponse](ctx, c.cc, CryptoPassService_Update_FullMethodName, in, opts)
}

func (c *cryptoPassServiceClient) Tombstone(ctx context.Context, in *TombstoneRequest, opts ...grpc.CallOption) (*TombstoneResponse, error) {
	return invoke[TombstoneResponse](ctx, c.cc, CryptoPassService_Tombstone_FullMethodName, in, opts)
}

func (c *cryptoPassServiceClient) PutShare(ctx context.Context, in *PutShareRequest, opts ...grpc.CallOption) (*PutShareResponse, error) {
	return invoke[PutShareResponse](ctx, c.cc, CryptoPassService_PutShare_FullMethodName, in, opts)
}

func (c *cryptoPassServiceClient) GetShare(ctx context.Context, in *GetShareRequest, opts ...grpc.CallOption) (*GetShareResponse, error) {
	return invoke[GetShareResponse](ctx, c.cc, CryptoPassService_GetShare_FullMethodName, in, opts)
}

func (c *cryptoPassServiceClient) ListShares(ctx context.Context, in *ListSharesRequest, opts ...grpc.CallOption) (*ListSharesResponse, error) {
	return invoke[ListSharesResponse](ctx, c.cc, CryptoPassService_ListShares_FullMethodName, in, opts)
}

func (c *cryptoPassServiceClient) UpdateShareStatus(ctx context.Context, in *UpdateShareStatusRequest, opts ...grpc.CallOption) (*UpdateShareStatusResponse, error) {
	return invoke[UpdateShareStatusResponse](ctx, c.cc, CryptoPassService_UpdateShareStatus_FullMethodName, in, opts)
}

// CryptoPassServiceServer is the server API for CryptoPassService.
// Implementations must embed UnimplementedCryptoPassServiceServer.
type CryptoPassServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Challenge(context.Context, *ChallengeRequest) (*ChallengeResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	QueryAll(context.Context, *QueryAllRequest) (*QueryAllResponse, error)
	Search(context.Context, *SearchRequest) (*SearchResponse, error)
	Create(context.Context, *CreateRequest) (*CreateResponse, error)
	Update(context.Context, *UpdateRequest) (*UpdateResponse, error)
	Tombstone(context.Context, *TombstoneRequest) (*TombstoneResponse, error)
	PutShare(context.Context, *PutShareRequest) (*PutShareResponse, error)
	GetShare(context.Context, *GetShareRequest) (*GetShareResponse, error)
	ListShares(context.Context, *ListSharesRequest) (*ListSharesResponse, error)
	UpdateShareStatus(context.Context, *UpdateShareStatusRequest) (*UpdateShareStatusResponse, error)
	mustEmbedUnimplementedCryptoPassServiceServer()
}

// UnimplementedCryptoPassServiceServer answers every method with
// codes.Unimplemented.
type UnimplementedCryptoPassServiceServer struct{}

func (UnimplementedCryptoPassServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedCryptoPassServiceServer) Challenge(context.Context, *ChallengeRequest) (*ChallengeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Challenge not implemented")
}
func (UnimplementedCryptoPassServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedCryptoPassServiceServer) QueryAll(context.Context, *QueryAllRequest) (*QueryAllResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method QueryAll not implemented")
}
func (UnimplementedCryptoPassServiceServer) Search(context.Context, *SearchRequest) (*SearchResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Search not implemented")
}
func (UnimplementedCryptoPassServiceServer) Create(context.Context, *CreateRequest) (*CreateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Create not implemented")
}
func (UnimplementedCryptoPassServiceServer) Update(context.Context, *UpdateRequest) (*UpdateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Update not implemented")
}
func (UnimplementedCryptoPassServiceServer) Tombstone(context.Context, *TombstoneRequest) (*TombstoneResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Tombstone not implemented")
}
func (UnimplementedCryptoPassServiceServer) PutShare(context.Context, *PutShareRequest) (*PutShareResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PutShare not implemented")
}
func (UnimplementedCryptoPassServiceServer) GetShare(context.Context, *GetShareRequest) (*GetShareResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetShare not implemented")
}
func (UnimplementedCryptoPassServiceServer) ListShares(context.Context, *ListSharesRequest) (*ListSharesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListShares not implemented")
}
func (UnimplementedCryptoPassServiceServer) UpdateShareStatus(context.Context, *UpdateShareStatusRequest) (*UpdateShareStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateShareStatus not implemented")
}
func (UnimplementedCryptoPassServiceServer) mustEmbedUnimplementedCryptoPassServiceServer() {}

func RegisterCryptoPassServiceServer(s grpc.ServiceRegistrar, srv CryptoPassServiceServer) {
	s.RegisterService(&CryptoPassService_ServiceDesc, srv)
}

func unary[Req any, Resp any](name string, call func(CryptoPassServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CryptoPassServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CryptoPassServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// CryptoPassService_ServiceDesc is the grpc.ServiceDesc for CryptoPassService.
var CryptoPassService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CryptoPassServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", CryptoPassServiceServer.Ping),
		unary("Challenge", CryptoPassServiceServer.Challenge),
		unary("Login", CryptoPassServiceServer.Login),
		unary("QueryAll", CryptoPassServiceServer.QueryAll),
		unary("Search", CryptoPassServiceServer.Search),
		unary("Create", CryptoPassServiceServer.Create),
		unary("Update", CryptoPassServiceServer.Update),
		unary("Tombstone", CryptoPassServiceServer.Tombstone),
		unary("PutShare", CryptoPassServiceServer.PutShare),
		unary("GetShare", CryptoPassServiceServer.GetShare),
		unary("ListShares", CryptoPassServiceServer.ListShares),
		unary("UpdateShareStatus", CryptoPassServiceServer.UpdateShareStatus),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cryptopass.proto",
}
