package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpradov/galeria-api/pkg/token"
)

func TestNew_TokensUnicos(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok, err := token.New()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(tok), 43, "32 bytes en base64url son al menos 43 caracteres")
		assert.False(t, seen[tok], "no deben repetirse tokens")
		seen[tok] = true
	}
}

func TestNew_AptoParaURL(t *testing.T) {
	tok, err := token.New()
	require.NoError(t, err)
	assert.NotContains(t, tok, "+")
	assert.NotContains(t, tok, "/")
	assert.NotContains(t, tok, "=")
}
