package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/bcapi/internal/auth"
	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/fivetwenty-io/bcapi/internal/http"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// Client implements the bc.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	tokenCache   bc.Cache
	baseURL      string
	logger       bc.Logger

	// Resource clients
	companies    bc.CompaniesClient
	vendors      bc.VendorsClient
	journals     bc.JournalsClient
	journalLines bc.JournalLinesClient
	dimensions   bc.DimensionsClient
	attachments  bc.AttachmentsClient
}

// validateConfig checks the fields every client needs.
func validateConfig(config *bc.Config) error {
	switch {
	case config == nil:
		return bc.ErrConfigRequired
	case config.TenantID == "":
		return bc.ErrTenantIDRequired
	case config.ClientID == "":
		return bc.ErrClientIDRequired
	case config.ClientSecret == "":
		return bc.ErrClientSecretRequired
	}

	return nil
}

// APIBaseURL returns the resource base URL for config.
func APIBaseURL(config *bc.Config) string {
	if config.APIEndpoint != "" {
		return strings.TrimSuffix(config.APIEndpoint, "/")
	}

	return constants.APIHost + "/v2.0/" + url.PathEscape(config.TenantID)
}

// createTokenManager builds the client-credentials token manager. With a
// TokenCache it is seeded from, and persists to, that cache.
func createTokenManager(ctx context.Context, config *bc.Config) auth.TokenManager {
	oauthConfig := &auth.OAuth2Config{
		TokenURL:     config.TokenURL,
		TenantID:     config.TenantID,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scope:        config.Scope,
		Logger:       config.Logger,
	}

	if config.TokenCache == nil {
		return auth.NewOAuth2TokenManager(oauthConfig)
	}

	persister := auth.NewCacheTokenPersister(config.TokenCache, config.ClientID)
	token, expiresAt := persister.Load(ctx, config.TenantID)

	return auth.NewPersistingTokenManager(oauthConfig, persister, token, expiresAt)
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *bc.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a new Business Central API client.
func New(ctx context.Context, config *bc.Config) (*Client, error) {
	err := validateConfig(config)
	if err != nil {
		return nil, err
	}

	return NewWithTokenManager(config, createTokenManager(ctx, config))
}

// NewWithTokenManager creates a client that takes tokens from tokenManager.
func NewWithTokenManager(config *bc.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, bc.ErrConfigRequired
	}

	baseURL := APIBaseURL(config)
	httpClient := http.NewClient(baseURL, tokenManager, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		tokenCache:   config.TokenCache,
		baseURL:      baseURL,
		logger:       config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// Close closes the token cache when it is an io.Closer. The client must not
// be used afterwards.
func (c *Client) Close() error {
	closer, ok := c.tokenCache.(io.Closer)
	if !ok {
		return nil
	}

	err := closer.Close()
	if err != nil {
		return fmt.Errorf("closing token cache: %w", err)
	}

	return nil
}

// Companies implements bc.Client.Companies.
func (c *Client) Companies() bc.CompaniesClient {
	return c.companies
}

// Vendors implements bc.Client.Vendors.
func (c *Client) Vendors() bc.VendorsClient {
	return c.vendors
}

// Journals implements bc.Client.Journals.
func (c *Client) Journals() bc.JournalsClient {
	return c.journals
}

// JournalLines implements bc.Client.JournalLines.
func (c *Client) JournalLines() bc.JournalLinesClient {
	return c.journalLines
}

// Dimensions implements bc.Client.Dimensions.
func (c *Client) Dimensions() bc.DimensionsClient {
	return c.dimensions
}

// Attachments implements bc.Client.Attachments.
func (c *Client) Attachments() bc.AttachmentsClient {
	return c.attachments
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// RefreshToken forces a new token exchange.
func (c *Client) RefreshToken(ctx context.Context) error {
	if c.tokenManager == nil {
		return ErrNoTokenManagerConfigured
	}

	err := c.tokenManager.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	return nil
}

// TokenExpiry reports when the cached token expires, zero when none is cached.
func (c *Client) TokenExpiry() time.Time {
	if c.tokenManager == nil {
		return time.Time{}
	}

	return c.tokenManager.GetTokenExpiry()
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.companies = NewCompaniesClient(c.httpClient)
	c.vendors = NewVendorsClient(c.httpClient)
	c.journals = NewJournalsClient(c.httpClient)
	c.journalLines = NewJournalLinesClient(c.httpClient)
	c.dimensions = NewDimensionsClient(c.httpClient)
	c.attachments = NewAttachmentsClient(c.httpClient)
}
