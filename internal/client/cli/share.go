package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/client/services"
	"github.com/dmitrijs2005/cryptopass/internal/common"
)

func (a *App) shareService() (*services.ShareService, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.shares == nil {
		return nil, errNotLoggedIn
	}
	return a.shares, nil
}

// shareError turns the share failures a user can act on into a message.
func shareError(err error) string {
	var unsent *services.UnsentShareError
	switch {
	case errors.As(err, &unsent):
		return fmt.Sprintf("Fee paid (tx %s) but the request was not stored, try again later", unsent.TxHash)
	case errors.Is(err, common.ErrInvalidRecipient):
		return "Invalid recipient address"
	case errors.Is(err, services.ErrNotShareable):
		return "Only logins can be shared"
	case errors.Is(err, common.ErrPaymentRequired), errors.Is(err, common.ErrPaymentFailed):
		return fmt.Sprintf("Payment failed: %v", err)
	case errors.Is(err, common.ErrShareExpired):
		return "This share request has expired"
	case errors.Is(err, common.ErrShareFinal):
		return "This share request was already resolved"
	case errors.Is(err, common.ErrorUnauthorized):
		return "This share request is not addressed to you"
	case errors.Is(err, common.ErrAuthentication):
		return "Cannot decrypt this share with your wallet"
	case errors.Is(err, common.ErrRemoteUnavailable):
		return "Store unavailable, try again later"
	default:
		return fmt.Sprintf("error: %v", err)
	}
}

// Share sends a login to another wallet.
func (a *App) Share(ctx context.Context) error {
	svc, err := a.shareService()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	if _, err := a.unlocked(); err != nil {
		return err
	}

	it, _, err := a.pickItem("Enter number or ID of the login to share")
	if err != nil {
		return err
	}
	recipient, err := getSimpleText(a.reader, "Recipient wallet address", a.out)
	if err != nil {
		return err
	}
	boxKey, err := getSimpleText(a.reader, "Recipient share key (optional)", a.out)
	if err != nil {
		return err
	}

	if a.config.PaymentsEnabled {
		ok, err := GetYesNo(a.reader, fmt.Sprintf("Sharing costs %s wei, continue?", a.config.ShareFeeWei), a.out)
		if err != nil || !ok {
			return err
		}
	}

	req, err := svc.Send(ctx, it, recipient, boxKey)
	if err != nil {
		fmt.Fprintln(a.out, shareError(err))
		return err
	}
	fmt.Fprintf(a.out, "Shared %q with %s (request %s, expires %s)\n",
		it.Title, services.ShortAddress(recipient), req.ID, formatMillis(req.ExpiresAt))
	return nil
}

// ShareKey prints the public key other wallets seal shares to.
func (a *App) ShareKey(ctx context.Context) error {
	svc, err := a.shareService()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	fmt.Fprintln(a.out, svc.BoxPublicKey())
	return nil
}

func (a *App) Incoming(ctx context.Context) error {
	svc, err := a.shareService()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	reqs, err := svc.Incoming(ctx)
	if err != nil {
		fmt.Fprintln(a.out, shareError(err))
		return err
	}
	a.printShares(reqs, "from", func(r models.ShareRequest) string { return services.ShortAddress(r.SenderAddress) })
	return nil
}

func (a *App) Outgoing(ctx context.Context) error {
	svc, err := a.shareService()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	reqs, err := svc.Outgoing(ctx)
	if err != nil {
		fmt.Fprintln(a.out, shareError(err))
		return err
	}
	a.printShares(reqs, "to", func(r models.ShareRequest) string { return r.ToWalletHash[:min(12, len(r.ToWalletHash))] })
	return nil
}

func (a *App) printShares(reqs []models.ShareRequest, dir string, who func(models.ShareRequest) string) {
	if len(reqs) == 0 {
		fmt.Fprintln(a.out, "No share requests")
		return
	}
	for _, r := range reqs {
		fmt.Fprintf(a.out, "  %s  %-8s %q %s %s, expires %s\n",
			r.ID, r.Status, r.Title, dir, who(r), formatMillis(r.ExpiresAt))
	}
}

// Accept decrypts an incoming share and adds it to the vault.
func (a *App) Accept(ctx context.Context) error {
	svc, err := a.shareService()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	if _, err := a.unlocked(); err != nil {
		return err
	}
	id, err := getSimpleText(a.reader, "Share request ID", a.out)
	if err != nil {
		return err
	}

	it, err := svc.Accept(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, shareError(err))
		return err
	}
	if err := a.commit(ctx, append(a.snapshot(), it)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %q to your vault\n", it.Title)
	return nil
}

func (a *App) Reject(ctx context.Context) error {
	svc, err := a.shareService()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	id, err := getSimpleText(a.reader, "Share request ID", a.out)
	if err != nil {
		return err
	}
	if err := svc.Reject(ctx, id); err != nil {
		fmt.Fprintln(a.out, shareError(err))
		return err
	}
	fmt.Fprintln(a.out, "Rejected")
	return nil
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}
