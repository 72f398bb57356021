package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ClientKeyVerifier checks static client keys against configured bcrypt hashes.
type ClientKeyVerifier struct {
	hashes [][]byte
}

// NewClientKeyVerifier creates a verifier for the given bcrypt hashes.
// Empty entries are ignored.
func NewClientKeyVerifier(hashes []string) *ClientKeyVerifier {
	v := &ClientKeyVerifier{}
	for _, h := range hashes {
		if h != "" {
			v.hashes = append(v.hashes, []byte(h))
		}
	}
	return v
}

// Enabled reports whether any hash is configured.
func (v *ClientKeyVerifier) Enabled() bool { return len(v.hashes) > 0 }

// Verify returns nil when key matches one of the configured hashes and
// ErrInvalidClientKey otherwise.
func (v *ClientKeyVerifier) Verify(key string) error {
	if key == "" {
		return ErrMissingToken
	}
	for _, h := range v.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(key)) == nil {
			return nil
		}
	}
	return ErrInvalidClientKey
}

// HashClientKey returns the bcrypt hash of key at the given cost.
// A cost of zero uses bcrypt.DefaultCost.
func HashClientKey(key string, cost int) (string, error) {
	if key == "" {
		return "", fmt.Errorf("client key cannot be empty")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash client key: %w", err)
	}
	return string(hash), nil
}
