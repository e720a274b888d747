package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessages_Verbatim(t *testing.T) {
	addr := "0xAbCdEf0123456789abcdef0123456789ABCDEF01"

	assert.Equal(t,
		"Sign this message to authenticate with CryptoPass and derive your encryption key.\n\nNOTE: This signature is used to encrypt/decrypt your passwords. Always use the same wallet address to access your data.\n\nWallet: 0xAbCdEf0123456789abcdef0123456789ABCDEF01",
		EncryptionMessage(addr))

	assert.Equal(t,
		"CryptoPass DID Seed\n\nThis signature is used to create your decentralized identity for Ceramic.\nWallet: 0xAbCdEf0123456789abcdef0123456789ABCDEF01",
		DIDSeedMessage(addr))
}

func TestValidAddress(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0x1111111111111111111111111111111111111111", true},
		{"0xAbCdEf0123456789abcdef0123456789ABCDEF01", true},
		{"1111111111111111111111111111111111111111", false},
		{"0x111", false},
		{"0x111111111111111111111111111111111111111g", false},
		{"0x11111111111111111111111111111111111111111", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidAddress(tt.in), tt.in)
	}
}

func TestHashAddress_CaseInsensitive(t *testing.T) {
	a := HashAddress("0xABCDEFabcdef0123456789012345678901234567")
	b := HashAddress("0xabcdefabcdef0123456789012345678901234567")

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, HashAddress("0x0000000000000000000000000000000000000000"))
}
