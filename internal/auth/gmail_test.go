package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	want := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour).Round(time.Second)}

	require.NoError(t, SaveToken(path, want))
	got, err := TokenFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.True(t, want.Expiry.Equal(got.Expiry))
}

type staticSource struct{ tok *oauth2.Token }

func (s staticSource) Token() (*oauth2.Token, error) { return s.tok, nil }

func TestSavingTokenSource_PersistsRefresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	src := &savingTokenSource{src: staticSource{&oauth2.Token{AccessToken: "new"}}, path: path, last: "old"}

	_, err := src.Token()
	require.NoError(t, err)

	got, err := TokenFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", got.AccessToken)
}

func TestNewGmailService_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := NewGmailService(context.Background(), filepath.Join(dir, "missing.json"), filepath.Join(dir, "token.json"))
	assert.Error(t, err)
}
