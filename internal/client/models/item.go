// Package models defines the vault item types, their encrypted envelope and
// the share/notification records used by the CryptoPass client.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemType is the discriminant of the vault item union.
type ItemType string

const (
	ItemTypeLogin   ItemType = "login"
	ItemTypeNote    ItemType = "note"
	ItemTypeAddress ItemType = "address"
	ItemTypeCard    ItemType = "card"
)

var (
	ErrUnknownItemType = errors.New("unknown item type")
	ErrMissingPayload  = errors.New("item has no payload")
)

// Payload is the variant-specific part of an Item. Only the types in this
// package implement it.
type Payload interface {
	GetType() ItemType
	isPayload()
}

// Login is a website credential.
type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
	URL      string `json:"url,omitempty"`
	// TOTP is the base32 secret, not a code.
	TOTP string `json:"totp,omitempty"`
}

func (Login) GetType() ItemType { return ItemTypeLogin }
func (Login) isPayload()        {}

// Note is free-form secure text.
type Note struct {
	Content string `json:"content"`
}

func (Note) GetType() ItemType { return ItemTypeNote }
func (Note) isPayload()        {}

type Address struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	Country      string `json:"country"`
}

func (Address) GetType() ItemType { return ItemTypeAddress }
func (Address) isPayload()        {}

type Card struct {
	CardholderName  string `json:"cardholderName"`
	CardNumber      string `json:"cardNumber"`
	ExpirationMonth string `json:"expirationMonth,omitempty"`
	ExpirationYear  string `json:"expirationYear,omitempty"`
	CVV             string `json:"cvv,omitempty"`
}

func (Card) GetType() ItemType { return ItemTypeCard }
func (Card) isPayload()        {}

// Item is a decrypted vault item. ID never changes once assigned and
// UpdatedAt (unix milliseconds) grows on every mutation.
type Item struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Notes     string `json:"notes,omitempty"`
	Favorite  bool   `json:"favorite,omitempty"`
	Category  string `json:"category,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`

	Payload Payload `json:"-"`

	// Extra keeps fields written by other clients that this version does
	// not know about, so a decode/encode cycle does not lose them.
	Extra map[string]json.RawMessage `json:"-"`
}

// NewItem creates an item with a fresh id and both timestamps set to now.
func NewItem(title string, p Payload, now time.Time) Item {
	ms := now.UnixMilli()
	return Item{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: ms,
		UpdatedAt: ms,
		Payload:   p,
	}
}

// Type returns the payload discriminant, or "" for an empty item.
func (it Item) Type() ItemType {
	if it.Payload == nil {
		return ""
	}
	return it.Payload.GetType()
}

// Touch records a mutation at now, keeping UpdatedAt strictly increasing
// even when the clock has not advanced.
func (it *Item) Touch(now time.Time) {
	ms := now.UnixMilli()
	if ms <= it.UpdatedAt {
		ms = it.UpdatedAt + 1
	}
	it.UpdatedAt = ms
}

// Encode serializes the item as a flat JSON object with a "type"
// discriminant. Keys are sorted, so equal items encode to equal bytes.
func Encode(it Item) ([]byte, error) {
	if it.Payload == nil {
		return nil, ErrMissingPayload
	}

	out := make(map[string]json.RawMessage, len(it.Extra)+16)
	for k, v := range it.Extra {
		out[k] = v
	}

	if err := mergeInto(out, it); err != nil {
		return nil, err
	}

	switch p := it.Payload.(type) {
	case Login:
		if err := mergeInto(out, p); err != nil {
			return nil, err
		}
	case Note:
		if err := mergeInto(out, p); err != nil {
			return nil, err
		}
	case Address:
		if err := mergeInto(out, p); err != nil {
			return nil, err
		}
	case Card:
		if err := mergeInto(out, p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownItemType, it.Payload)
	}

	t, err := json.Marshal(it.Payload.GetType())
	if err != nil {
		return nil, err
	}
	out["type"] = t

	return json.Marshal(out)
}

// Decode is the inverse of Encode.
func Decode(b []byte) (Item, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return Item{}, fmt.Errorf("decode item: %w", err)
	}

	var kind ItemType
	if t, ok := raw["type"]; ok {
		if err := json.Unmarshal(t, &kind); err != nil {
			return Item{}, fmt.Errorf("decode item type: %w", err)
		}
	}

	var it Item
	if err := json.Unmarshal(b, &it); err != nil {
		return Item{}, fmt.Errorf("decode item: %w", err)
	}

	var payload Payload
	switch kind {
	case ItemTypeLogin:
		var p Login
		if err := json.Unmarshal(b, &p); err != nil {
			return Item{}, fmt.Errorf("decode login: %w", err)
		}
		payload = p
	case ItemTypeNote:
		var p Note
		if err := json.Unmarshal(b, &p); err != nil {
			return Item{}, fmt.Errorf("decode note: %w", err)
		}
		payload = p
	case ItemTypeAddress:
		var p Address
		if err := json.Unmarshal(b, &p); err != nil {
			return Item{}, fmt.Errorf("decode address: %w", err)
		}
		payload = p
	case ItemTypeCard:
		var p Card
		if err := json.Unmarshal(b, &p); err != nil {
			return Item{}, fmt.Errorf("decode card: %w", err)
		}
		payload = p
	default:
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownItemType, kind)
	}
	it.Payload = payload

	delete(raw, "type")
	for _, k := range jsonKeys(it) {
		delete(raw, k)
	}
	for _, k := range jsonKeys(payload) {
		delete(raw, k)
	}
	if len(raw) > 0 {
		it.Extra = raw
	}

	return it, nil
}

func mergeInto(dst map[string]json.RawMessage, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	for k, val := range m {
		dst[k] = val
	}
	return nil
}

// jsonKeys lists the JSON names of the exported fields of a struct value.
func jsonKeys(v any) []string {
	t := reflect.TypeOf(v)
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		keys = append(keys, name)
	}
	return keys
}
