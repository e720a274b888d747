package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/cryptopass/internal/common"
	pb "github.com/dmitrijs2005/cryptopass/internal/proto"
	"github.com/dmitrijs2005/cryptopass/internal/server/services"
	"github.com/dmitrijs2005/cryptopass/internal/wallet"
)

// toStatus maps service errors to gRPC codes. Unknown errors are logged and
// hidden behind codes.Internal.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrShareExpired):
		return status.Error(codes.FailedPrecondition, common.ErrShareExpired.Error())
	case errors.Is(err, common.ErrShareFinal):
		return status.Error(codes.FailedPrecondition, common.ErrShareFinal.Error())
	case errors.Is(err, services.ErrInvalidDocument),
		errors.Is(err, services.ErrInvalidShare),
		errors.Is(err, wallet.ErrInvalidDID):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {

	return &pb.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) Challenge(ctx context.Context, req *pb.ChallengeRequest) (*pb.ChallengeResponse, error) {

	nonce, expiresAt, err := s.auth.Challenge(ctx, req.Did)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.ChallengeResponse{Nonce: nonce, ExpiresAt: expiresAt.UnixMilli()}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {

	token, expiresAt, err := s.auth.Login(ctx, req.Did, req.Nonce, req.Signature)
	if err != nil {
		s.logger.Warn(ctx, "login failed", "did", req.Did)
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Logged in", "did", req.Did)
	return &pb.LoginResponse{AccessToken: token, ExpiresAt: expiresAt.UnixMilli()}, nil
}

func (s *GRPCServer) QueryAll(ctx context.Context, req *pb.QueryAllRequest) (*pb.QueryAllResponse, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.QueryAll(ctx, owner)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.QueryAllResponse{Entries: documentsToEntries(docs)}, nil
}

func (s *GRPCServer) Search(ctx context.Context, req *pb.SearchRequest) (*pb.SearchResponse, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.Search(ctx, owner, req.Term)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.SearchResponse{Entries: documentsToEntries(docs)}, nil
}

func (s *GRPCServer) Create(ctx context.Context, req *pb.CreateRequest) (*pb.CreateResponse, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.Entry == nil {
		return nil, status.Error(codes.InvalidArgument, "entry is required")
	}

	rid, err := s.documents.Create(ctx, owner, entryToDocument(req.Entry))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.CreateResponse{RemoteId: rid}, nil
}

func (s *GRPCServer) Update(ctx context.Context, req *pb.UpdateRequest) (*pb.UpdateResponse, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.Entry == nil || req.RemoteId == "" {
		return nil, status.Error(codes.InvalidArgument, "remote id and entry are required")
	}

	if err := s.documents.Update(ctx, owner, req.RemoteId, entryToDocument(req.Entry)); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.UpdateResponse{}, nil
}

func (s *GRPCServer) Tombstone(ctx context.Context, req *pb.TombstoneRequest) (*pb.TombstoneResponse, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.documents.Tombstone(ctx, owner, req.RemoteId); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.TombstoneResponse{}, nil
}

func (s *GRPCServer) PutShare(ctx context.Context, req *pb.PutShareRequest) (*pb.PutShareResponse, error) {
	if req.Share == nil {
		return nil, status.Error(codes.InvalidArgument, "share is required")
	}

	id, err := s.mailbox.Put(ctx, shareToModel(req.Share))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.PutShareResponse{Id: id}, nil
}

func (s *GRPCServer) GetShare(ctx context.Context, req *pb.GetShareRequest) (*pb.GetShareResponse, error) {
	sh, err := s.mailbox.Get(ctx, req.Id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.GetShareResponse{Share: shareFromModel(sh)}, nil
}

func (s *GRPCServer) ListShares(ctx context.Context, req *pb.ListSharesRequest) (*pb.ListSharesResponse, error) {
	list, err := s.mailbox.List(ctx, req.ToWalletHash, req.FromWalletHash)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]*pb.Share, 0, len(list))
	for _, sh := range list {
		out = append(out, shareFromModel(sh))
	}
	return &pb.ListSharesResponse{Shares: out}, nil
}

func (s *GRPCServer) UpdateShareStatus(ctx context.Context, req *pb.UpdateShareStatusRequest) (*pb.UpdateShareStatusResponse, error) {
	sh, err := s.mailbox.UpdateStatus(ctx, req.Id, req.Status)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.UpdateShareStatusResponse{Share: shareFromModel(sh)}, nil
}
