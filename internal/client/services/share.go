package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/client/client"
	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/client/payment"
	"github.com/dmitrijs2005/cryptopass/internal/client/repositories/shares"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/cryptox"
	"github.com/dmitrijs2005/cryptopass/internal/logging"
	"github.com/dmitrijs2005/cryptopass/internal/wallet"
	"github.com/google/uuid"
)

var ErrNotShareable = errors.New("only logins can be shared")

// UnsentShareError is returned when the fee went through but the request
// never reached the mailbox. TxHash can be passed to SendWithReceipt so the
// retry does not pay twice.
type UnsentShareError struct {
	TxHash string
	Err    error
}

func (e *UnsentShareError) Error() string {
	return fmt.Sprintf("fee paid in %s but share not stored: %v", e.TxHash, e.Err)
}

func (e *UnsentShareError) Unwrap() error { return e.Err }

// Identity is the signed-in wallet and its vault key.
type Identity struct {
	Address string
	Key     cryptox.Key
}

// ShareOptions configures the payment gate.
type ShareOptions struct {
	PaymentsEnabled bool
	Fee             *big.Int
	// FeeRecipient receives the fee; empty pays the share recipient.
	FeeRecipient string
}

// ShareService sends logins to other wallets through the mailbox and
// resolves incoming requests.
//
// Without a recipient box key the payload is encrypted under the sender's
// own vault key, so only a wallet deriving the same key can accept it.
// With one, a one-time content key is sealed to the recipient and stored in
// SharedKey.
type ShareService struct {
	mailbox client.Mailbox
	local   shares.Repository
	notes   *NotificationService
	payer   payment.Payer
	opts    ShareOptions
	id      Identity
	box     *cryptox.BoxKeyPair
	logger  logging.Logger
	now     func() time.Time
}

func NewShareService(
	mailbox client.Mailbox,
	local shares.Repository,
	notes *NotificationService,
	payer payment.Payer,
	opts ShareOptions,
	id Identity,
	logger logging.Logger,
) (*ShareService, error) {
	if !opts.PaymentsEnabled {
		payer = payment.Bypass{}
	}
	if opts.Fee == nil {
		opts.Fee = big.NewInt(0)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	box, err := cryptox.DeriveBoxKeyPair(id.Key)
	if err != nil {
		return nil, err
	}

	return &ShareService{
		mailbox: mailbox,
		local:   local,
		notes:   notes,
		payer:   payer,
		opts:    opts,
		id:      id,
		box:     box,
		logger:  logger.With("module", "share"),
		now:     time.Now,
	}, nil
}

// BoxPublicKey is what another wallet passes to Send to seal a share to us.
func (s *ShareService) BoxPublicKey() string {
	return s.box.PublicBase64()
}

// Send shares the login item with recipient. recipientBoxKey may be empty.
//
// The fee is paid before the request is stored. When storing fails after a
// real payment the error is an *UnsentShareError holding the tx hash.
func (s *ShareService) Send(ctx context.Context, item models.Item, recipient, recipientBoxKey string) (models.ShareRequest, error) {
	return s.SendWithReceipt(ctx, item, recipient, recipientBoxKey, "")
}

// SendWithReceipt is Send that reuses an already confirmed fee payment when
// txHash is not empty.
func (s *ShareService) SendWithReceipt(ctx context.Context, item models.Item, recipient, recipientBoxKey, txHash string) (models.ShareRequest, error) {
	if !wallet.ValidAddress(recipient) {
		return models.ShareRequest{}, common.ErrInvalidRecipient
	}
	login, ok := item.Payload.(models.Login)
	if !ok {
		return models.ShareRequest{}, ErrNotShareable
	}

	var recipientPub *[32]byte
	if recipientBoxKey != "" {
		pk, err := cryptox.ParseBoxPublicKey(recipientBoxKey)
		if err != nil {
			return models.ShareRequest{}, fmt.Errorf("%w: %w", common.ErrInvalidRecipient, err)
		}
		recipientPub = pk
	}

	plain, err := json.Marshal(models.SharedLogin{
		Title:    item.Title,
		Username: login.Username,
		Password: login.Password,
		URL:      login.URL,
		Notes:    item.Notes,
	})
	if err != nil {
		return models.ShareRequest{}, err
	}
	defer common.WipeByteArray(plain)

	key := s.id.Key
	var sharedKey string
	if recipientPub != nil {
		content := cryptox.RandomKey()
		defer content.Wipe()
		sealedKey, err := cryptox.SealKey(content, recipientPub)
		if err != nil {
			return models.ShareRequest{}, err
		}
		sharedKey = base64.StdEncoding.EncodeToString(sealedKey)
		key = content
	}

	sealed, err := cryptox.Encrypt(plain, key)
	if err != nil {
		return models.ShareRequest{}, err
	}
	payload, iv := sealed.EncodeBase64()

	if txHash == "" {
		txHash, err = s.pay(ctx, recipient)
		if err != nil {
			return models.ShareRequest{}, err
		}
	}

	now := s.now()
	req := models.ShareRequest{
		ID:               uuid.NewString(),
		FromWalletHash:   wallet.HashAddress(s.id.Address),
		ToWalletHash:     wallet.HashAddress(recipient),
		SenderAddress:    s.id.Address,
		EncryptedPayload: payload,
		IV:               iv,
		SharedKey:        sharedKey,
		TxHash:           txHash,
		Title:            item.Title,
		Status:           models.ShareStatusPending,
		CreatedAt:        now.UnixMilli(),
		ExpiresAt:        now.Add(models.ShareTTL).UnixMilli(),
	}

	id, err := s.mailbox.PutShare(ctx, req)
	if err != nil {
		err = remoteError("put share", err)
		if txHash != payment.BypassTxHash {
			err = &UnsentShareError{TxHash: txHash, Err: err}
		}
		return models.ShareRequest{}, err
	}
	req.ID = id

	s.remember(ctx, req)

	s.notify(ctx, s.notes, models.NotificationSystem, "Password Shared",
		fmt.Sprintf("Password %q sent to %s", item.Title, ShortAddress(recipient)), req.ID)

	// The recipient hears about it right away when it lives on this device
	// or there is no payment to wait for.
	if s.notes != nil && (strings.EqualFold(recipient, s.id.Address) || !s.opts.PaymentsEnabled) {
		s.notify(ctx, s.notes.ForOwner(recipient), models.NotificationShareRequest, "New Password Shared",
			fmt.Sprintf("%s shared %q with you", ShortAddress(s.id.Address), item.Title), req.ID)
	}

	s.logger.Info(ctx, "share sent", "id", req.ID)
	return req, nil
}

func (s *ShareService) pay(ctx context.Context, recipient string) (string, error) {
	if !s.opts.PaymentsEnabled {
		return payment.BypassTxHash, nil
	}
	if s.payer == nil {
		return "", common.ErrPaymentRequired
	}

	to := s.opts.FeeRecipient
	if to == "" {
		to = recipient
	}

	tx, err := s.payer.Pay(ctx, s.id.Address, to, s.opts.Fee)
	if err != nil {
		if errors.Is(err, common.ErrPaymentFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", common.ErrPaymentFailed, err)
	}
	return tx, nil
}

// Accept opens an incoming request and returns its login as a new item.
func (s *ShareService) Accept(ctx context.Context, id string) (models.Item, error) {
	req, err := s.actionable(ctx, id)
	if err != nil {
		return models.Item{}, err
	}

	shared, err := s.open(req)
	if err != nil {
		return models.Item{}, err
	}

	updated, err := s.mailbox.UpdateShareStatus(ctx, id, models.ShareStatusAccepted)
	if err != nil {
		return models.Item{}, s.resolveError(ctx, req, err)
	}
	s.remember(ctx, updated)

	item := models.NewItem(shared.Title, models.Login{
		Username: shared.Username,
		Password: shared.Password,
		URL:      shared.URL,
	}, s.now())
	item.Notes = shared.Notes

	s.notify(ctx, s.notes, models.NotificationShareAccepted, "Password Received",
		fmt.Sprintf("You accepted the password %q", shared.Title), id)

	return item, nil
}

// Reject declines an incoming request without reading its payload.
func (s *ShareService) Reject(ctx context.Context, id string) error {
	req, err := s.actionable(ctx, id)
	if err != nil {
		return err
	}

	updated, err := s.mailbox.UpdateShareStatus(ctx, id, models.ShareStatusRejected)
	if err != nil {
		return s.resolveError(ctx, req, err)
	}
	s.remember(ctx, updated)

	s.notify(ctx, s.notes, models.NotificationShareRejected, "Password Rejected",
		"You rejected an incoming password share", id)
	return nil
}

// actionable fetches a request addressed to us and checks it can still be
// resolved. Expiry is checked first, whatever the stored status.
func (s *ShareService) actionable(ctx context.Context, id string) (models.ShareRequest, error) {
	req, err := s.mailbox.GetShare(ctx, id)
	if err != nil {
		return models.ShareRequest{}, remoteError("get share", err)
	}
	if req.ToWalletHash != wallet.HashAddress(s.id.Address) {
		return models.ShareRequest{}, common.ErrorUnauthorized
	}

	if req.Expired(s.now()) {
		s.expire(ctx, req)
		return models.ShareRequest{}, common.ErrShareExpired
	}
	if req.Status.Terminal() {
		return models.ShareRequest{}, common.ErrShareFinal
	}
	return req, nil
}

// expire records that a request ran out while still unresolved.
func (s *ShareService) expire(ctx context.Context, req models.ShareRequest) {
	if req.Status != models.ShareStatusPending && req.Status != models.ShareStatusExpired {
		return
	}
	req.Status = models.ShareStatusExpired
	s.remember(ctx, req)

	// The store persists the expiry itself when asked to resolve an expired
	// request; the reply is always ErrShareExpired.
	if _, err := s.mailbox.UpdateShareStatus(ctx, req.ID, models.ShareStatusExpired); err != nil && !errors.Is(err, common.ErrShareExpired) {
		s.logger.Warn(ctx, "failed to persist expiry", "id", req.ID, "error", err)
	}
}

func (s *ShareService) resolveError(ctx context.Context, req models.ShareRequest, err error) error {
	if errors.Is(err, common.ErrShareExpired) {
		req.Status = models.ShareStatusExpired
		s.remember(ctx, req)
		return err
	}
	if errors.Is(err, common.ErrShareFinal) {
		return err
	}
	return remoteError("update share", err)
}

func (s *ShareService) open(req models.ShareRequest) (models.SharedLogin, error) {
	key := s.id.Key
	if req.SharedKey != "" {
		raw, err := base64.StdEncoding.DecodeString(req.SharedKey)
		if err != nil {
			return models.SharedLogin{}, common.ErrAuthentication
		}
		content, err := cryptox.OpenKey(raw, s.box)
		if err != nil {
			return models.SharedLogin{}, err
		}
		defer content.Wipe()
		key = content
	}

	sealed, err := cryptox.DecodeSealed(req.EncryptedPayload, req.IV)
	if err != nil {
		return models.SharedLogin{}, err
	}
	plain, err := cryptox.Decrypt(sealed, key)
	if err != nil {
		return models.SharedLogin{}, err
	}
	defer common.WipeByteArray(plain)

	var shared models.SharedLogin
	if err := json.Unmarshal(plain, &shared); err != nil {
		return models.SharedLogin{}, fmt.Errorf("%w: malformed share payload", common.ErrAuthentication)
	}
	return shared, nil
}

// Get returns one request as of now, from the local copy when the store is
// unreachable.
func (s *ShareService) Get(ctx context.Context, id string) (models.ShareRequest, error) {
	req, err := s.mailbox.GetShare(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrRemoteUnavailable) || s.local == nil {
			return models.ShareRequest{}, err
		}
		req, err = s.local.Get(ctx, id)
		if err != nil {
			return models.ShareRequest{}, err
		}
	} else {
		s.remember(ctx, req)
	}
	return req.Observed(s.now()), nil
}

// Incoming lists requests addressed to us, newest first. Requests seen for
// the first time raise a notification.
func (s *ShareService) Incoming(ctx context.Context) ([]models.ShareRequest, error) {
	return s.list(ctx, wallet.HashAddress(s.id.Address), "", true)
}

// Outgoing lists requests we sent, newest first.
func (s *ShareService) Outgoing(ctx context.Context) ([]models.ShareRequest, error) {
	return s.list(ctx, "", wallet.HashAddress(s.id.Address), false)
}

func (s *ShareService) list(ctx context.Context, toHash, fromHash string, announce bool) ([]models.ShareRequest, error) {
	reqs, err := s.mailbox.ListShares(ctx, toHash, fromHash)
	if err != nil {
		if !errors.Is(err, common.ErrRemoteUnavailable) || s.local == nil {
			return nil, err
		}
		s.logger.Warn(ctx, "mailbox unavailable, using local copy", "error", err)
		reqs, err = s.local.List(ctx, toHash, fromHash)
		if err != nil {
			return nil, err
		}
	} else {
		for _, r := range reqs {
			known := s.known(ctx, r.ID)
			s.remember(ctx, r)
			if announce && !known && r.Status == models.ShareStatusPending {
				s.notify(ctx, s.notes, models.NotificationShareRequest, "New Password Shared",
					fmt.Sprintf("%s shared %q with you", ShortAddress(r.SenderAddress), r.Title), r.ID)
			}
		}
	}

	now := s.now()
	for i := range reqs {
		reqs[i] = reqs[i].Observed(now)
	}
	return reqs, nil
}

func (s *ShareService) known(ctx context.Context, id string) bool {
	if s.local == nil {
		return false
	}
	_, err := s.local.Get(ctx, id)
	return err == nil
}

// remember writes the local copy. Failures only cost offline visibility.
func (s *ShareService) remember(ctx context.Context, req models.ShareRequest) {
	if s.local == nil {
		return
	}
	if err := s.local.Upsert(ctx, req); err != nil {
		s.logger.Warn(ctx, "failed to store share locally", "id", req.ID, "error", err)
	}
}

func (s *ShareService) notify(ctx context.Context, n *NotificationService, typ models.NotificationType, title, msg, shareID string) {
	if n == nil {
		return
	}
	if _, err := n.Add(ctx, typ, title, msg, shareID); err != nil {
		s.logger.Warn(ctx, "failed to record notification", "error", err)
	}
}

// ShortAddress renders 0x1234...abcd.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
