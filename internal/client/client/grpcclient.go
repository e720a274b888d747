package client

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	pb "github.com/dmitrijs2005/cryptopass/internal/proto"
	"github.com/dmitrijs2005/cryptopass/internal/wallet"
)

// GRPCClient talks to the document store over gRPC. The owner arguments of
// DocumentStore are implied by the logged-in DID.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.CryptoPassServiceClient

	mu          sync.Mutex
	accessToken string
	identity    *wallet.DIDKey
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	err := invoker(withAccessToken(ctx, s.token()), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}

	s.mu.Lock()
	identity := s.identity
	s.mu.Unlock()
	if identity == nil {
		return err
	}

	// token expired: log in again with the same DID key
	if lerr := s.Login(ctx, identity); lerr != nil {
		return err
	}
	return invoker(withAccessToken(ctx, s.token()), method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a lazy connection to endpointURL. Extra dial
// options (for example a bufconn dialer in tests) are appended.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewCryptoPassServiceClient(conn)
	return c, nil
}

// Login proves control of key with a signed challenge and keeps the access
// token. The key is remembered so an expired token can be renewed.
func (s *GRPCClient) Login(ctx context.Context, key *wallet.DIDKey) error {
	ch, err := s.client.Challenge(ctx, &pb.ChallengeRequest{Did: key.DID})
	if err != nil {
		return mapError(err)
	}

	resp, err := s.client.Login(ctx, &pb.LoginRequest{
		Did:       key.DID,
		Nonce:     ch.Nonce,
		Signature: key.Sign([]byte(ch.Nonce)),
	})
	if err != nil {
		return mapError(err)
	}

	s.mu.Lock()
	s.accessToken = resp.GetAccessToken()
	s.identity = key
	s.mu.Unlock()
	return nil
}

// Logout forgets the token and the DID key.
func (s *GRPCClient) Logout() {
	s.mu.Lock()
	s.accessToken = ""
	s.identity = nil
	s.mu.Unlock()
}

func (s *GRPCClient) checkOwner(owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil || s.identity.DID != owner {
		return common.ErrorUnauthorized
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return mapError(err)
	}

	if resp.GetStatus() != "OK" {
		return common.ErrRemoteUnavailable
	}

	return nil
}

func (s *GRPCClient) QueryAll(ctx context.Context, owner string) ([]models.Envelope, error) {
	if err := s.checkOwner(owner); err != nil {
		return nil, err
	}

	resp, err := s.client.QueryAll(ctx, &pb.QueryAllRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	return entriesToEnvelopes(resp.Entries), nil
}

func (s *GRPCClient) Search(ctx context.Context, owner, term string) ([]models.Envelope, error) {
	if err := s.checkOwner(owner); err != nil {
		return nil, err
	}

	resp, err := s.client.Search(ctx, &pb.SearchRequest{Term: term})
	if err != nil {
		return nil, mapError(err)
	}
	return entriesToEnvelopes(resp.Entries), nil
}

func (s *GRPCClient) Create(ctx context.Context, owner string, env models.Envelope) (string, error) {
	if err := s.checkOwner(owner); err != nil {
		return "", err
	}

	resp, err := s.client.Create(ctx, &pb.CreateRequest{Entry: envelopeToEntry(env)})
	if err != nil {
		return "", mapError(err)
	}
	return resp.RemoteId, nil
}

func (s *GRPCClient) Update(ctx context.Context, remoteID string, p models.Patch) error {
	_, err := s.client.Update(ctx, &pb.UpdateRequest{RemoteId: remoteID, Entry: patchToEntry(p)})
	return mapError(err)
}

func (s *GRPCClient) Tombstone(ctx context.Context, remoteID string) error {
	_, err := s.client.Tombstone(ctx, &pb.TombstoneRequest{RemoteId: remoteID})
	return mapError(err)
}

func (s *GRPCClient) PutShare(ctx context.Context, r models.ShareRequest) (string, error) {
	resp, err := s.client.PutShare(ctx, &pb.PutShareRequest{Share: shareToPB(r)})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Id, nil
}

func (s *GRPCClient) GetShare(ctx context.Context, id string) (models.ShareRequest, error) {
	resp, err := s.client.GetShare(ctx, &pb.GetShareRequest{Id: id})
	if err != nil {
		return models.ShareRequest{}, mapError(err)
	}
	return shareFromPB(resp.Share), nil
}

func (s *GRPCClient) ListShares(ctx context.Context, toHash, fromHash string) ([]models.ShareRequest, error) {
	resp, err := s.client.ListShares(ctx, &pb.ListSharesRequest{ToWalletHash: toHash, FromWalletHash: fromHash})
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]models.ShareRequest, 0, len(resp.Shares))
	for _, sh := range resp.Shares {
		out = append(out, shareFromPB(sh))
	}
	return out, nil
}

func (s *GRPCClient) UpdateShareStatus(ctx context.Context, id string, st models.ShareStatus) (models.ShareRequest, error) {
	resp, err := s.client.UpdateShareStatus(ctx, &pb.UpdateShareStatusRequest{Id: id, Status: string(st)})
	if err != nil {
		return models.ShareRequest{}, mapError(err)
	}
	return shareFromPB(resp.Share), nil
}
