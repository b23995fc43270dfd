package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// APIKey checks keys presented on internal routes against a bcrypt hash.
// An empty hash disables the check.
type APIKey struct {
	hash []byte
}

func NewAPIKey(hash string) *APIKey {
	return &APIKey{hash: []byte(hash)}
}

func (k *APIKey) Enabled() bool {
	return len(k.hash) != 0
}

func (k *APIKey) Verify(key string) bool {
	if !k.Enabled() {
		return true
	}

	return bcrypt.CompareHashAndPassword(k.hash, []byte(key)) == nil
}

// HashAPIKey produces the value to put into HTTP_INTERNAL_API_KEY_HASH.
func HashAPIKey(key string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash api key: %w", err)
	}

	return string(h), nil
}
