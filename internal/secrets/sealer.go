// Package secrets seals integration passwords with XChaCha20-Poly1305.
// A sealed value is base64(nonce || ciphertext || tag).
package secrets

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

var ErrInvalidKey = errors.New("integration key must be 32 bytes, base64 or hex encoded")

var ErrTampered = errors.New("sealed value failed authentication")

type Sealer struct {
	aead cipher.AEAD
}

// ParseKey accepts a 32-byte key as standard base64, URL-safe base64 or hex.
func ParseKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if b, err := hex.DecodeString(s); err == nil && len(b) == chacha20poly1305.KeySize {
		return b, nil
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(s); err == nil && len(b) == chacha20poly1305.KeySize {
			return b, nil
		}
	}
	return nil, ErrInvalidKey
}

func NewSealer(key []byte) (*Sealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &Sealer{aead: aead}, nil
}

// NewSealerFromString is ParseKey followed by NewSealer.
func NewSealerFromString(encoded string) (*Sealer, error) {
	key, err := ParseKey(encoded)
	if err != nil {
		return nil, err
	}
	return NewSealer(key)
}

// Seal encrypts plaintext. aad binds the value to its owner row and is
// required again to open it.
func (s *Sealer) Seal(plaintext, aad string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(plaintext), []byte(aad))
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *Sealer) Open(sealed, aad string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", ErrTampered)
	}
	if len(raw) < s.aead.NonceSize()+s.aead.Overhead() {
		return "", ErrTampered
	}
	nonce, body := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, body, []byte(aad))
	if err != nil {
		return "", ErrTampered
	}
	return string(plain), nil
}
