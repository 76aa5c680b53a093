package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// HandleBytes es la entropía de los handles de temporary token y state OAuth2.
const HandleBytes = 32

// GenerateOpaqueToken genera un token opaco aleatorio (base64url sin padding).
func GenerateOpaqueToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		return "", fmt.Errorf("tokens: invalid size %d", nBytes)
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewHandle devuelve un handle de HandleBytes bytes, apto para URL.
func NewHandle() (string, error) {
	return GenerateOpaqueToken(HandleBytes)
}
