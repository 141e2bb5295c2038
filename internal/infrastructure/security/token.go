package security

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gatehouse/gatehouse/internal/application/ports"
)

// tokenBytes is the raw entropy per token; 32 bytes = 64 hex chars, well past
// the 128-bit floor needed to make collisions implausible.
const tokenBytes = 32

// RandTokenSource implements ports.TokenSource with crypto/rand, hex encoded.
type RandTokenSource struct{}

func NewRandTokenSource() *RandTokenSource {
	return &RandTokenSource{}
}

// NewToken returns a fresh opaque token.
func (RandTokenSource) NewToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

var _ ports.TokenSource = (*RandTokenSource)(nil)
