package models

import "time"

// ShareStatus is the state of a share request. Everything except pending is
// terminal.
type ShareStatus string

const (
	ShareStatusPending  ShareStatus = "pending"
	ShareStatusAccepted ShareStatus = "accepted"
	ShareStatusRejected ShareStatus = "rejected"
	ShareStatusExpired  ShareStatus = "expired"
)

// ShareTTL is how long a request stays actionable.
const ShareTTL = 7 * 24 * time.Hour

func (s ShareStatus) Terminal() bool {
	return s != ShareStatusPending
}

func (s ShareStatus) Valid() bool {
	switch s {
	case ShareStatusPending, ShareStatusAccepted, ShareStatusRejected, ShareStatusExpired:
		return true
	}
	return false
}

// ShareRequest carries one encrypted login from a sender to a recipient.
// Wallet addresses are stored only as hashes; SenderAddress is kept so the
// recipient can tell who sent it.
type ShareRequest struct {
	ID               string      `json:"id"`
	FromWalletHash   string      `json:"fromWalletHash"`
	ToWalletHash     string      `json:"toWalletHash"`
	SenderAddress    string      `json:"senderAddress"`
	EncryptedPayload string      `json:"encryptedPassword"`
	IV               string      `json:"iv"`
	SharedKey        string      `json:"sharedKey"`
	TxHash           string      `json:"txHash,omitempty"`
	Title            string      `json:"passwordTitle,omitempty"`
	Status           ShareStatus `json:"status"`
	CreatedAt        int64       `json:"createdAt"`
	ExpiresAt        int64       `json:"expiresAt"`
}

// Expired reports whether now is past ExpiresAt.
func (r ShareRequest) Expired(now time.Time) bool {
	return now.UnixMilli() > r.ExpiresAt
}

// Observed returns r as seen at now: a pending request past its expiry reads
// as expired. Stored state is not changed.
func (r ShareRequest) Observed(now time.Time) ShareRequest {
	if r.Status == ShareStatusPending && r.Expired(now) {
		r.Status = ShareStatusExpired
	}
	return r
}

// SharedLogin is the subset of a login that leaves the sender's vault.
type SharedLogin struct {
	Title    string `json:"title"`
	Username string `json:"username"`
	Password string `json:"password"`
	URL      string `json:"url,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// NotificationType classifies a local notification.
type NotificationType string

const (
	NotificationShareRequest  NotificationType = "share_request"
	NotificationShareAccepted NotificationType = "share_accepted"
	NotificationShareRejected NotificationType = "share_rejected"
	NotificationSystem        NotificationType = "system"
)

// Notification is a local-only record, usually pointing at a share request.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	ShareID   string           `json:"shareId,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt int64            `json:"createdAt"`
}
