package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/cryptox"
)

// Sentinel values written over a document to mark it deleted. Remote
// documents are never removed, only overwritten with these.
const (
	TombstoneData        = "DELETED_ENTRY"
	TombstoneIV          = "DELETED_IV"
	TombstoneServiceName = "[DELETED]"
)

// Envelope is the encrypted form of an Item as stored remotely.
//
// ItemType, ServiceName, Category and Favorite are kept in plaintext so the
// store can filter and search without the key. Everything else about the
// item lives only inside EncryptedData.
type Envelope struct {
	ID            string   `json:"entryId"`
	ItemType      ItemType `json:"itemType"`
	ServiceName   string   `json:"serviceName"`
	EncryptedData string   `json:"encryptedData"`
	IV            string   `json:"iv"`
	Category      string   `json:"category,omitempty"`
	Favorite      bool     `json:"favorite,omitempty"`
	CreatedAt     int64    `json:"createdAt"`
	UpdatedAt     int64    `json:"updatedAt"`

	// RemoteID is assigned by the store; empty until the envelope is created.
	RemoteID string `json:"remoteId,omitempty"`
}

// Patch is the mutable part of an envelope sent on update.
type Patch struct {
	ItemType      ItemType `json:"itemType"`
	ServiceName   string   `json:"serviceName"`
	EncryptedData string   `json:"encryptedData"`
	IV            string   `json:"iv"`
	Category      string   `json:"category,omitempty"`
	Favorite      bool     `json:"favorite,omitempty"`
	UpdatedAt     int64    `json:"updatedAt"`
}

// IsTombstone reports whether the envelope marks a deleted item.
func (e Envelope) IsTombstone() bool {
	return e.ServiceName == TombstoneServiceName || e.EncryptedData == TombstoneData
}

// Patch returns the fields of e that an update overwrites.
func (e Envelope) Patch() Patch {
	return Patch{
		ItemType:      e.ItemType,
		ServiceName:   e.ServiceName,
		EncryptedData: e.EncryptedData,
		IV:            e.IV,
		Category:      e.Category,
		Favorite:      e.Favorite,
		UpdatedAt:     e.UpdatedAt,
	}
}

// Apply overwrites the mutable fields of e with p.
func (e *Envelope) Apply(p Patch) {
	e.ItemType = p.ItemType
	e.ServiceName = p.ServiceName
	e.EncryptedData = p.EncryptedData
	e.IV = p.IV
	e.Category = p.Category
	e.Favorite = p.Favorite
	e.UpdatedAt = p.UpdatedAt
}

// Tombstone overwrites the payload and label with sentinels and bumps
// UpdatedAt past its previous value.
func (e *Envelope) Tombstone(now time.Time) {
	e.EncryptedData = TombstoneData
	e.IV = TombstoneIV
	e.ServiceName = TombstoneServiceName

	ms := now.UnixMilli()
	if ms <= e.UpdatedAt {
		ms = e.UpdatedAt + 1
	}
	e.UpdatedAt = ms
}

// SealItem encodes and encrypts an item under key.
func SealItem(it Item, key cryptox.Key) (Envelope, error) {
	plain, err := Encode(it)
	if err != nil {
		return Envelope{}, err
	}

	sealed, err := cryptox.Encrypt(plain, key)
	if err != nil {
		return Envelope{}, fmt.Errorf("encrypt item %s: %w", it.ID, err)
	}

	data, iv := sealed.EncodeBase64()

	return Envelope{
		ID:            it.ID,
		ItemType:      it.Type(),
		ServiceName:   it.Title,
		EncryptedData: data,
		IV:            iv,
		Category:      it.Category,
		Favorite:      it.Favorite,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}, nil
}

// OpenEnvelope decrypts and decodes an envelope. A wrong key or damaged
// ciphertext yields common.ErrAuthentication.
func OpenEnvelope(e Envelope, key cryptox.Key) (Item, error) {
	sealed, err := cryptox.DecodeSealed(e.EncryptedData, e.IV)
	if err != nil {
		return Item{}, err
	}

	plain, err := cryptox.Decrypt(sealed, key)
	if err != nil {
		return Item{}, err
	}

	it, err := Decode(plain)
	if err != nil {
		return Item{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}

	// The envelope id is authoritative for lookups.
	if it.ID == "" {
		it.ID = e.ID
	}
	return it, nil
}
