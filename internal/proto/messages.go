package proto

// Entry is an encrypted vault document.
type Entry struct {
	RemoteId      string `pb:"1"`
	EntryId       string `pb:"2"`
	ItemType      string `pb:"3"`
	ServiceName   string `pb:"4"`
	EncryptedData string `pb:"5"`
	Iv            string `pb:"6"`
	Category      string `pb:"7"`
	Favorite      bool   `pb:"8"`
	CreatedAt     int64  `pb:"9"`
	UpdatedAt     int64  `pb:"10"`
}

// Share is a share request stored in the mailbox.
type Share struct {
	Id               string `pb:"1"`
	FromWalletHash   string `pb:"2"`
	ToWalletHash     string `pb:"3"`
	SenderAddress    string `pb:"4"`
	EncryptedPayload string `pb:"5"`
	Iv               string `pb:"6"`
	SharedKey        string `pb:"7"`
	TxHash           string `pb:"8"`
	Title            string `pb:"9"`
	Status           string `pb:"10"`
	CreatedAt        int64  `pb:"11"`
	ExpiresAt        int64  `pb:"12"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `pb:"1"`
}

func (x *PingResponse) GetStatus() string {
	if x == nil {
		return ""
	}
	return x.Status
}

type ChallengeRequest struct {
	Did string `pb:"1"`
}

type ChallengeResponse struct {
	Nonce     string `pb:"1"`
	ExpiresAt int64  `pb:"2"`
}

type LoginRequest struct {
	Did       string `pb:"1"`
	Nonce     string `pb:"2"`
	Signature []byte `pb:"3"`
}

type LoginResponse struct {
	AccessToken string `pb:"1"`
	ExpiresAt   int64  `pb:"2"`
}

func (x *LoginResponse) GetAccessToken() string {
	if x == nil {
		return ""
	}
	return x.AccessToken
}

type QueryAllRequest struct{}

type QueryAllResponse struct {
	Entries []*Entry `pb:"1"`
}

type SearchRequest struct {
	Term string `pb:"1"`
}

type SearchResponse struct {
	Entries []*Entry `pb:"1"`
}

type CreateRequest struct {
	Entry *Entry `pb:"1"`
}

type CreateResponse struct {
	RemoteId string `pb:"1"`
}

// UpdateRequest overwrites the mutable fields of the document with those in
// Entry; EntryId and CreatedAt are ignored.
type UpdateRequest struct {
	RemoteId string `pb:"1"`
	Entry    *Entry `pb:"2"`
}

type UpdateResponse struct{}

type TombstoneRequest struct {
	RemoteId string `pb:"1"`
}

type TombstoneResponse struct{}

type PutShareRequest struct {
	Share *Share `pb:"1"`
}

type PutShareResponse struct {
	Id string `pb:"1"`
}

type GetShareRequest struct {
	Id string `pb:"1"`
}

type GetShareResponse struct {
	Share *Share `pb:"1"`
}

// ListSharesRequest selects by recipient hash, sender hash, or both.
type ListSharesRequest struct {
	ToWalletHash   string `pb:"1"`
	FromWalletHash string `pb:"2"`
}

type ListSharesResponse struct {
	Shares []*Share `pb:"1"`
}

type UpdateShareStatusRequest struct {
	Id     string `pb:"1"`
	Status string `pb:"2"`
}

type UpdateShareStatusResponse struct {
	Share *Share `pb:"1"`
}
