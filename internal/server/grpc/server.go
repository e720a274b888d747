// Package grpc exposes the document store services over gRPC.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/cryptopass/internal/logging"
	pb "github.com/dmitrijs2005/cryptopass/internal/proto"
	"github.com/dmitrijs2005/cryptopass/internal/server/models"
)

// DocumentService is the owner-scoped document API the server exposes.
type DocumentService interface {
	Create(ctx context.Context, owner string, doc *models.Document) (string, error)
	QueryAll(ctx context.Context, owner string) ([]*models.Document, error)
	Search(ctx context.Context, owner, term string) ([]*models.Document, error)
	Update(ctx context.Context, owner, remoteID string, patch *models.Document) error
	Tombstone(ctx context.Context, owner, remoteID string) error
}

type AuthService interface {
	Challenge(ctx context.Context, did string) (string, time.Time, error)
	Login(ctx context.Context, did, nonce string, signature []byte) (string, time.Time, error)
	Owner(token string) (string, error)
}

type MailboxService interface {
	Put(ctx context.Context, sh *models.Share) (string, error)
	Get(ctx context.Context, id string) (*models.Share, error)
	List(ctx context.Context, toHash, fromHash string) ([]*models.Share, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Share, error)
}

type GRPCServer struct {
	pb.UnimplementedCryptoPassServiceServer
	address   string
	auth      AuthService
	documents DocumentService
	mailbox   MailboxService
	logger    logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, as AuthService, ds DocumentService, ms MailboxService) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		auth:      as,
		documents: ds,
		mailbox:   ms,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	pb.RegisterCryptoPassServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
