package models

// Share statuses. Only pending can change.
const (
	ShareStatusPending  = "pending"
	ShareStatusAccepted = "accepted"
	ShareStatusRejected = "rejected"
	ShareStatusExpired  = "expired"
)

// Share is a share request waiting in the mailbox.
type Share struct {
	ID               string
	FromWalletHash   string
	ToWalletHash     string
	SenderAddress    string
	EncryptedPayload string
	IV               string
	SharedKey        string
	TxHash           string
	Title            string
	Status           string
	CreatedAt        int64
	ExpiresAt        int64
}
