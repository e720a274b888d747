package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePassword(t *testing.T) {
	p, err := GeneratePassword(16)
	require.NoError(t, err)
	assert.Len(t, p, 16)
	for _, r := range p {
		assert.True(t, strings.ContainsRune(passwordChars, r), "unexpected rune %q", r)
	}

	_, err = GeneratePassword(0)
	require.Error(t, err)
}
