package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/golang-jwt/jwt/v5"
)

// Static errors for err113 compliance.
var (
	ErrEmptyAccessToken        = errors.New("identity endpoint returned no access token")
	errUnexpectedTokenResponse = errors.New("unexpected token response")
)

// OAuth2Config holds the settings of the client-credentials exchange.
type OAuth2Config struct {
	// TokenURL defaults to the tenant's v2.0 token endpoint.
	TokenURL     string
	TenantID     string
	ClientID     string
	ClientSecret string
	// Scope defaults to the Business Central API scope.
	Scope      string
	HTTPClient *http.Client
	Logger     bc.Logger
}

// OAuth2TokenManager obtains tokens with the client-credentials grant and
// keeps the last one while it stays valid.
type OAuth2TokenManager struct {
	config     *OAuth2Config
	store      *TokenStore
	httpClient *http.Client
}

// TokenURLForTenant returns the identity endpoint issuing tokens for tenantID.
func TokenURLForTenant(tenantID string) string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", constants.IdentityHost, url.PathEscape(tenantID))
}

// NewOAuth2TokenManager creates a new OAuth2 token manager.
func NewOAuth2TokenManager(config *OAuth2Config) *OAuth2TokenManager {
	cfg := *config

	if cfg.TokenURL == "" {
		cfg.TokenURL = TokenURLForTenant(cfg.TenantID)
	}

	if cfg.Scope == "" {
		cfg.Scope = constants.DefaultScope
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.ShortHTTPTimeout}
	}

	return &OAuth2TokenManager{
		config:     &cfg,
		store:      NewTokenStore(),
		httpClient: httpClient,
	}
}

// NewClientCredentialsTokenManager creates a token manager for an app registration.
func NewClientCredentialsTokenManager(tenantID, clientID, clientSecret string) *OAuth2TokenManager {
	return NewOAuth2TokenManager(&OAuth2Config{
		TenantID:     tenantID,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}

// GetToken returns a valid access token, fetching a new one when the stored
// token is missing or expires within the skew.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	token, err := m.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// RefreshToken drops the stored token and fetches a new one.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	m.store.Clear()

	_, err := m.fetchToken(ctx)

	return err
}

// SetToken manually sets the access token.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   constants.TokenTypeBearer,
		ExpiresAt:   expiresAt,
	})
}

// GetTokenExpiry returns the stored token's expiry, zero when none is stored.
func (m *OAuth2TokenManager) GetTokenExpiry() time.Time {
	token := m.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

// fetchToken performs the exchange. The result is stored only when its
// expiry is known; it is returned either way.
func (m *OAuth2TokenManager) fetchToken(ctx context.Context) (*Token, error) {
	data := url.Values{}
	data.Set("grant_type", constants.GrantTypeClientCredentials)
	data.Set("scope", m.config.Scope)
	data.Set("client_id", m.config.ClientID)
	data.Set("client_secret", m.config.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, &bc.AuthError{Err: fmt.Errorf("creating token request: %w", err)}
	}

	req.Header.Set(constants.HeaderContentType, constants.ContentTypeForm)
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &bc.AuthError{Err: fmt.Errorf("executing token request: %w", err)}
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &bc.AuthError{StatusCode: resp.StatusCode, Err: fmt.Errorf("reading token response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		authErr := &bc.AuthError{StatusCode: resp.StatusCode}
		if json.Unmarshal(body, authErr) != nil {
			authErr.Err = fmt.Errorf("%w: %s", errUnexpectedTokenResponse, strings.TrimSpace(string(body)))
		}

		m.logWarn("token request rejected", map[string]interface{}{
			"status_code": resp.StatusCode,
			"error":       authErr.Code,
		})

		return nil, authErr
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return nil, &bc.AuthError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding token response: %w", err)}
	}

	if token.AccessToken == "" {
		return nil, &bc.AuthError{StatusCode: resp.StatusCode, Err: ErrEmptyAccessToken}
	}

	if token.TokenType == "" {
		token.TokenType = constants.TokenTypeBearer
	}

	token.ExpiresAt = expiryOf(token.AccessToken)

	if token.ExpiresAt.IsZero() {
		m.logWarn("access token has no expiry claim, not caching", nil)

		return &token, nil
	}

	m.store.Set(&token)

	m.logDebug("token issued", map[string]interface{}{
		"expires_at": token.ExpiresAt.Format(time.RFC3339),
	})

	return &token, nil
}

// expiryOf reads the exp claim of a JWT without verifying its signature,
// returning zero when the token is not a JWT or has no exp.
func expiryOf(accessToken string) time.Time {
	claims := jwt.MapClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(accessToken, claims)
	if err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}

	return exp.Time
}

func (m *OAuth2TokenManager) logWarn(msg string, fields map[string]interface{}) {
	if m.config.Logger != nil {
		m.config.Logger.Warn(msg, fields)
	}
}

func (m *OAuth2TokenManager) logDebug(msg string, fields map[string]interface{}) {
	if m.config.Logger != nil {
		m.config.Logger.Debug(msg, fields)
	}
}
