package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/bcapi/pkg/bc"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenPersister = errors.New("no token persister configured")
)

// TokenPersister saves issued tokens somewhere other processes can read them.
type TokenPersister interface {
	PersistToken(tenantID, token string, expiresAt time.Time) error
}

// PersistingTokenManager wraps OAuth2TokenManager and hands every newly
// issued token to a TokenPersister. Persist failures are logged, never returned.
type PersistingTokenManager struct {
	oauth2Manager *OAuth2TokenManager
	persister     TokenPersister
	tenantID      string
	logger        bc.Logger

	mutex     sync.Mutex
	lastToken string
}

// NewPersistingTokenManager creates a token manager that persists tokens,
// optionally seeded with a token loaded earlier.
func NewPersistingTokenManager(config *OAuth2Config, persister TokenPersister, initialToken string, initialExpiry time.Time) *PersistingTokenManager {
	oauth2Manager := NewOAuth2TokenManager(config)

	if initialToken != "" {
		oauth2Manager.SetToken(initialToken, initialExpiry)
	}

	return &PersistingTokenManager{
		oauth2Manager: oauth2Manager,
		persister:     persister,
		tenantID:      config.TenantID,
		logger:        config.Logger,
		lastToken:     initialToken,
	}
}

// GetToken returns a valid access token, refreshing if necessary.
func (m *PersistingTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.oauth2Manager.GetToken(ctx)
	if err != nil {
		return "", err
	}

	m.persistIfNew()

	return token, nil
}

// RefreshToken forces a token refresh.
func (m *PersistingTokenManager) RefreshToken(ctx context.Context) error {
	err := m.oauth2Manager.RefreshToken(ctx)
	if err != nil {
		return err
	}

	m.persistIfNew()

	return nil
}

// SetToken manually sets the access token without persisting it.
func (m *PersistingTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.oauth2Manager.SetToken(token, expiresAt)
	m.lastToken = token
}

// GetTokenExpiry returns the current token's expiration time.
func (m *PersistingTokenManager) GetTokenExpiry() time.Time {
	return m.oauth2Manager.GetTokenExpiry()
}

// persistIfNew persists the stored token when it differs from the last one seen.
// Tokens without an expiry are never stored, so they are never persisted.
func (m *PersistingTokenManager) persistIfNew() {
	current := m.oauth2Manager.store.Get()
	if current == nil {
		return
	}

	m.mutex.Lock()
	if current.AccessToken == m.lastToken {
		m.mutex.Unlock()

		return
	}

	m.lastToken = current.AccessToken
	m.mutex.Unlock()

	err := m.persistToken(current)
	if err != nil && m.logger != nil {
		m.logger.Warn("failed to persist refreshed token", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (m *PersistingTokenManager) persistToken(token *Token) error {
	if m.persister == nil {
		return ErrNoTokenPersister
	}

	err := m.persister.PersistToken(m.tenantID, token.AccessToken, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	return nil
}

// CacheTokenPersister stores tokens in a bc.Cache keyed by tenant and client.
type CacheTokenPersister struct {
	cache    bc.Cache
	clientID string
	timeout  time.Duration
}

// NewCacheTokenPersister creates a persister over cache.
func NewCacheTokenPersister(cache bc.Cache, clientID string) *CacheTokenPersister {
	return &CacheTokenPersister{
		cache:    cache,
		clientID: clientID,
		timeout:  5 * time.Second,
	}
}

// PersistToken stores the token until its expiry.
func (p *CacheTokenPersister) PersistToken(tenantID, token string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := p.cache.Set(ctx, p.key(tenantID), &bc.CacheEntry{
		Data:      []byte(token),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	return nil
}

// Load returns a persisted token that is still valid, or an empty string.
func (p *CacheTokenPersister) Load(ctx context.Context, tenantID string) (string, time.Time) {
	entry, err := p.cache.Get(ctx, p.key(tenantID))
	if err != nil || entry == nil {
		return "", time.Time{}
	}

	token := &Token{AccessToken: string(entry.Data), ExpiresAt: entry.ExpiresAt}
	if !token.Valid() {
		return "", time.Time{}
	}

	return token.AccessToken, token.ExpiresAt
}

func (p *CacheTokenPersister) key(tenantID string) string {
	return "token:" + tenantID + ":" + p.clientID
}
