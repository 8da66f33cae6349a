// Package sealer issues the opaque manage tokens customers use to view
// or cancel their own booking without an account.
package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// defaultKey is used when no MANAGE_TOKEN_KEY is configured (local
// development only; production must supply its own key).
const defaultKey = "lfQVRuulcL2iOhOJ2r8BYTweoSKwVAJnIF9U+AL+M60="

type Sealer struct {
	aead cipher.AEAD
}

// New builds a Sealer from a base64-encoded 256-bit key. An empty key
// falls back to the development default.
func New(base64Key string) (*Sealer, error) {
	if base64Key == "" {
		base64Key = defaultKey
	}

	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("invalid manage token key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("invalid manage token key: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Sealer{aead: aead}, nil
}

// Seal produces an opaque URL-safe token binding a booking to the email
// it was made with.
func (s *Sealer) Seal(bookingID, email string) (string, error) {
	plaintext := []byte(bookingID + ":" + email)

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := s.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// Open recovers the booking ID and email from a token. Any tampering or
// truncation fails the AEAD open.
func (s *Sealer) Open(token string) (string, string, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", "", fmt.Errorf("invalid token encoding")
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", "", fmt.Errorf("invalid token format")
	}
	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	pt, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", "", fmt.Errorf("invalid token")
	}

	parts := strings.SplitN(string(pt), ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid token format")
	}

	return parts[0], parts[1], nil
}
