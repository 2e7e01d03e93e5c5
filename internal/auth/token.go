package auth

import (
	"context"
	"sync"
	"time"

	"github.com/fivetwenty-io/bcapi/internal/constants"
)

// Token represents an access token issued by the identity endpoint.
type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExtExpiresIn int    `json:"ext_expires_in"`
	// ExpiresAt is the expiry recorded in the access token itself, zero when
	// the token carries none.
	ExpiresAt time.Time `json:"-"`
}

// Valid returns true if the token is usable for at least the expiry skew.
// Tokens without a known expiry are never valid.
func (t *Token) Valid() bool {
	return t.validAt(time.Now())
}

func (t *Token) validAt(now time.Time) bool {
	if t == nil || t.AccessToken == "" || t.ExpiresAt.IsZero() {
		return false
	}

	return t.ExpiresAt.After(now.Add(constants.TokenExpirySkew))
}

// TokenStore holds at most one token. The mutex only keeps reads and writes
// memory safe; it does not coordinate refreshes.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates a new token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the current token.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the current token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the current token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}

// TokenManager manages OAuth2 tokens.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
	GetTokenExpiry() time.Time
}
