package wallet

import (
	"context"
	"fmt"
)

// Credentials is what a completed wallet login produces.
type Credentials struct {
	Address string
	// Signature is the signature over EncryptionMessage; it is the input
	// to cryptox.DeriveKey and what gets handed to the other context.
	Signature string
	DID       *DIDKey
}

// Authenticate asks the wallet for its account, then for the DID seed and
// encryption signatures, in that order.
func Authenticate(ctx context.Context, s Signer) (*Credentials, error) {
	address, err := s.RequestAccounts(ctx)
	if err != nil {
		return nil, err
	}

	didSig, err := s.PersonalSign(ctx, DIDSeedMessage(address), address)
	if err != nil {
		return nil, fmt.Errorf("sign did seed: %w", err)
	}

	encSig, err := s.PersonalSign(ctx, EncryptionMessage(address), address)
	if err != nil {
		return nil, fmt.Errorf("sign encryption message: %w", err)
	}

	return &Credentials{
		Address:   address,
		Signature: encSig,
		DID:       DeriveDID(didSig),
	}, nil
}
