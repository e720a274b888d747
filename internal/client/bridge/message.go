// Package bridge carries session and vault state from the client that talks
// to the wallet to the other client context.
//
// The channel is not authenticated: anything that can reach it can read a
// snapshot or inject one. The websocket Hub narrows this to an explicit
// origin allow-list and a loopback listener; nothing else protects it.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cryptopass/internal/client/models"
	"github.com/dmitrijs2005/cryptopass/internal/wallet"
)

// Kind names a bridge message.
type Kind string

const (
	KindCredentialHandoff Kind = "CREDENTIAL_HANDOFF"
	KindVaultSnapshot     Kind = "VAULT_SNAPSHOT"
	KindLogout            Kind = "LOGOUT"
)

var ErrInvalidMessage = errors.New("invalid bridge message")

// Message is the wire form of every bridge message. Which fields are set
// depends on Type.
type Message struct {
	Type             Kind              `json:"type"`
	WalletAddress    string            `json:"walletAddress,omitempty"`
	DerivedSignature string            `json:"derivedSignature,omitempty"`
	Identity         string            `json:"identity,omitempty"`
	Items            []json.RawMessage `json:"items,omitempty"`
}

func NewHandoff(address, signature, did string) Message {
	return Message{Type: KindCredentialHandoff, WalletAddress: address, DerivedSignature: signature, Identity: did}
}

// NewSnapshot encodes the full decrypted vault.
func NewSnapshot(items []models.Item) (Message, error) {
	raw := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		b, err := models.Encode(it)
		if err != nil {
			return Message{}, fmt.Errorf("encode item %s: %w", it.ID, err)
		}
		raw = append(raw, b)
	}
	return Message{Type: KindVaultSnapshot, Items: raw}, nil
}

func NewLogout() Message {
	return Message{Type: KindLogout}
}

// SnapshotItems decodes the items of a VAULT_SNAPSHOT.
func (m Message) SnapshotItems() ([]models.Item, error) {
	items := make([]models.Item, 0, len(m.Items))
	for _, r := range m.Items {
		it, err := models.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// Validate checks the fields required by Type.
func (m Message) Validate() error {
	switch m.Type {
	case KindCredentialHandoff:
		if !wallet.ValidAddress(m.WalletAddress) || m.DerivedSignature == "" {
			return fmt.Errorf("%w: incomplete handoff", ErrInvalidMessage)
		}
	case KindVaultSnapshot, KindLogout:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, m.Type)
	}
	return nil
}
