package secrets

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"hex", hex.EncodeToString(testKey), false},
		{"base64", base64.StdEncoding.EncodeToString(testKey), false},
		{"raw url base64", base64.RawURLEncoding.EncodeToString(testKey), false},
		{"short", base64.StdEncoding.EncodeToString([]byte("short")), true},
		{"garbage", "not a key!", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testKey, got)
		})
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	s, err := NewSealer(testKey)
	require.NoError(t, err)

	sealed, err := s.Seal("hunter2", "user:7")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "hunter2")
	assert.NotEqual(t, base64.StdEncoding.EncodeToString([]byte("hunter2")), sealed)

	plain, err := s.Open(sealed, "user:7")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plain)
}

func TestSeal_FreshNonceEachTime(t *testing.T) {
	s, err := NewSealer(testKey)
	require.NoError(t, err)
	a, _ := s.Seal("same", "")
	b, _ := s.Seal("same", "")
	assert.NotEqual(t, a, b)
}

func TestOpen_RejectsTampering(t *testing.T) {
	s, err := NewSealer(testKey)
	require.NoError(t, err)
	sealed, err := s.Seal("hunter2", "user:7")
	require.NoError(t, err)

	raw, _ := base64.StdEncoding.DecodeString(sealed)
	raw[len(raw)-1] ^= 0x01
	flipped := base64.StdEncoding.EncodeToString(raw)

	other, err := NewSealer([]byte(strings.Repeat("k", 32)))
	require.NoError(t, err)

	_, err = s.Open(flipped, "user:7")
	assert.ErrorIs(t, err, ErrTampered)

	_, err = s.Open(sealed, "user:8")
	assert.ErrorIs(t, err, ErrTampered, "wrong owner binding")

	_, err = other.Open(sealed, "user:7")
	assert.ErrorIs(t, err, ErrTampered, "wrong key")

	_, err = s.Open("AAAA", "user:7")
	assert.ErrorIs(t, err, ErrTampered, "truncated")

	_, err = s.Open("%%%", "user:7")
	assert.ErrorIs(t, err, ErrTampered)
}

func TestNewSealer_BadKey(t *testing.T) {
	_, err := NewSealer([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}
