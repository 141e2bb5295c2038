package security

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandTokenSource_NewToken(t *testing.T) {
	src := NewRandTokenSource()

	token, err := src.NewToken()
	require.NoError(t, err)
	assert.Len(t, token, tokenBytes*2)

	raw, err := hex.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, raw, tokenBytes)
}

func TestRandTokenSource_TokensDoNotRepeat(t *testing.T) {
	src := NewRandTokenSource()

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		token, err := src.NewToken()
		require.NoError(t, err)
		_, dup := seen[token]
		require.False(t, dup, "token repeated after %d draws", i)
		seen[token] = struct{}{}
	}
}
