package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	pb "github.com/dmitrijs2005/cryptopass/internal/proto"
)

type ctxKey string

const ownerKey ctxKey = "owner"

// publicMethods can be called without an access token.
var publicMethods = map[string]bool{
	pb.CryptoPassService_Ping_FullMethodName:      true,
	pb.CryptoPassService_Challenge_FullMethodName: true,
	pb.CryptoPassService_Login_FullMethodName:     true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	owner, err := s.auth.Owner(accessToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	return handler(context.WithValue(ctx, ownerKey, owner), req)
}

func ownerFromContext(ctx context.Context) (string, error) {
	owner, ok := ctx.Value(ownerKey).(string)
	if !ok || owner == "" {
		return "", status.Error(codes.Unauthenticated, "missing owner")
	}
	return owner, nil
}
