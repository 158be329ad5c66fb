package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// OpaqueTokenBytes is the entropy of verification and reset tokens.
const OpaqueTokenBytes = 32

// MintOpaqueToken returns a random unguessable hex string with no embedded
// structure; it is only ever compared by exact equality.
func MintOpaqueToken() (string, error) {
	buf := make([]byte, OpaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
