package client

import (
	"context"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	pb "github.com/dmitrijs2005/cryptopass/internal/proto"
	"github.com/dmitrijs2005/cryptopass/internal/wallet"
)

// fakeServer hands out numbered tokens and rejects all but the latest as
// expired.
type fakeServer struct {
	pb.UnimplementedCryptoPassServiceServer

	mu       sync.Mutex
	logins   int
	current  string
	lastPut  *pb.Share
	entries  []*pb.Entry
	queryErr error
}

func (f *fakeServer) Challenge(ctx context.Context, in *pb.ChallengeRequest) (*pb.ChallengeResponse, error) {
	return &pb.ChallengeResponse{Nonce: "nonce-" + in.Did}, nil
}

func (f *fakeServer) Login(ctx context.Context, in *pb.LoginRequest) (*pb.LoginResponse, error) {
	if err := wallet.VerifyDID(in.Did, []byte(in.Nonce), in.Signature); err != nil {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	f.current = "token-" + string(rune('0'+f.logins))
	return &pb.LoginResponse{AccessToken: f.current}, nil
}

func (f *fakeServer) checkToken(ctx context.Context) error {
	md, _ := metadata.FromIncomingContext(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	if v := md.Get(common.AccessTokenHeaderName); len(v) == 0 || v[0] != f.current {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}
	return nil
}

func (f *fakeServer) QueryAll(ctx context.Context, in *pb.QueryAllRequest) (*pb.QueryAllResponse, error) {
	if err := f.checkToken(ctx); err != nil {
		return nil, err
	}
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &pb.QueryAllResponse{Entries: f.entries}, nil
}

func (f *fakeServer) PutShare(ctx context.Context, in *pb.PutShareRequest) (*pb.PutShareResponse, error) {
	f.mu.Lock()
	f.lastPut = in.Share
	f.mu.Unlock()
	return &pb.PutShareResponse{Id: "share-1"}, nil
}

func (f *fakeServer) UpdateShareStatus(ctx context.Context, in *pb.UpdateShareStatusRequest) (*pb.UpdateShareStatusResponse, error) {
	return nil, status.Error(codes.FailedPrecondition, common.ErrShareExpired.Error())
}

func startFake(t *testing.T, f *fakeServer) *GRPCClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	pb.RegisterCryptoPassServiceServer(srv, f)
	go func() { _ = srv.Serve(lis) }()

	c, err := NewGRPCClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		srv.Stop()
	})
	return c
}

func TestGRPCClient_LoginAndQuery(t *testing.T) {
	f := &fakeServer{entries: []*pb.Entry{{RemoteId: "r1", EntryId: "e1", ItemType: "login", ServiceName: "GitHub"}}}
	c := startFake(t, f)
	key := wallet.DeriveDID("sig")

	require.NoError(t, c.Login(context.Background(), key))

	got, err := c.QueryAll(context.Background(), key.DID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.Envelope{ID: "e1", RemoteID: "r1", ItemType: models.ItemTypeLogin, ServiceName: "GitHub"}, got[0])
}

func TestGRPCClient_RenewsExpiredToken(t *testing.T) {
	f := &fakeServer{}
	c := startFake(t, f)
	key := wallet.DeriveDID("sig")
	require.NoError(t, c.Login(context.Background(), key))

	// the server rotates, making the client's token stale
	f.mu.Lock()
	f.current = "rotated"
	f.mu.Unlock()

	_, err := c.QueryAll(context.Background(), key.DID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.logins)
}

func TestGRPCClient_OwnerMustMatchLogin(t *testing.T) {
	c := startFake(t, &fakeServer{})
	require.NoError(t, c.Login(context.Background(), wallet.DeriveDID("sig")))

	_, err := c.QueryAll(context.Background(), "did:key:zSomeoneElse")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	c.Logout()
	_, err = c.Create(context.Background(), "anyone", models.Envelope{})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestGRPCClient_MailboxErrorsMapped(t *testing.T) {
	f := &fakeServer{}
	c := startFake(t, f)

	id, err := c.PutShare(context.Background(), models.ShareRequest{ToWalletHash: "to", Status: models.ShareStatusPending, Title: "GitHub"})
	require.NoError(t, err)
	assert.Equal(t, "share-1", id)
	assert.Equal(t, "GitHub", f.lastPut.Title)

	_, err = c.UpdateShareStatus(context.Background(), id, models.ShareStatusAccepted)
	assert.ErrorIs(t, err, common.ErrShareExpired)
}

func TestGRPCClient_PingUnimplemented(t *testing.T) {
	c := startFake(t, &fakeServer{})
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpc error")
}
