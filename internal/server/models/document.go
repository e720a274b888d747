// Package models defines the records persisted by the document store.
package models

// Document is an encrypted vault entry owned by a DID. The server never
// sees plaintext; ItemType, ServiceName, Category and Favorite are the only
// readable fields.
type Document struct {
	RemoteID      string `json:"remote_id"`
	Owner         string `json:"owner"`
	EntryID       string `json:"entry_id"`
	ItemType      string `json:"item_type"`
	ServiceName   string `json:"service_name"`
	EncryptedData string `json:"encrypted_data"`
	IV            string `json:"iv"`
	Category      string `json:"category,omitempty"`
	Favorite      bool   `json:"favorite,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

// Sentinels a tombstoned document carries.
const (
	TombstoneData        = "DELETED_ENTRY"
	TombstoneIV          = "DELETED_IV"
	TombstoneServiceName = "[DELETED]"
)

// Tombstone overwrites payload and label and moves UpdatedAt to at least
// nowMillis, always past its previous value.
func (d *Document) Tombstone(nowMillis int64) {
	d.EncryptedData = TombstoneData
	d.IV = TombstoneIV
	d.ServiceName = TombstoneServiceName
	if nowMillis <= d.UpdatedAt {
		nowMillis = d.UpdatedAt + 1
	}
	d.UpdatedAt = nowMillis
}
