package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockKeys struct {
	byHash map[string]*APIKeyInfo
}

func (m *mockKeys) FindByHash(_ context.Context, hash string) (*APIKeyInfo, error) {
	info, ok := m.byHash[hash]
	if !ok {
		return nil, ErrUnauthorized
	}
	return info, nil
}

// --- Tests ---

func TestAuthenticator_Authenticate(t *testing.T) {
	a := NewAuthenticator(nil, []byte("pepper"))
	hash := a.HashKey("secret-key")

	repo := &mockKeys{byHash: map[string]*APIKeyInfo{
		hash: {
			ID:      "key-1",
			KeyHash: hash,
			Name:    "test",
			Scopes:  []string{ScopeCart},
			Active:  true,
		},
	}}
	a = NewAuthenticator(repo, []byte("pepper"))

	info, err := a.Authenticate(context.Background(), "secret-key")
	require.NoError(t, err)
	assert.Equal(t, "key-1", info.ID)
	assert.True(t, info.HasScope(ScopeCart))
	assert.False(t, info.HasScope(ScopeListings))
}

func TestAuthenticator_UnknownKey(t *testing.T) {
	a := NewAuthenticator(&mockKeys{byHash: map[string]*APIKeyInfo{}}, []byte("pepper"))

	_, err := a.Authenticate(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticator_RevokedKey(t *testing.T) {
	a := NewAuthenticator(nil, []byte("pepper"))
	hash := a.HashKey("secret-key")

	repo := &mockKeys{byHash: map[string]*APIKeyInfo{
		hash: {ID: "key-1", KeyHash: hash, Active: false},
	}}
	a = NewAuthenticator(repo, []byte("pepper"))

	_, err := a.Authenticate(context.Background(), "secret-key")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticator_PepperChangesHash(t *testing.T) {
	a1 := NewAuthenticator(nil, []byte("pepper-a"))
	a2 := NewAuthenticator(nil, []byte("pepper-b"))
	assert.NotEqual(t, a1.HashKey("secret-key"), a2.HashKey("secret-key"))
}
