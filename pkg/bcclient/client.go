// Package bcclient provides the main entry point for creating Business Central API clients
package bcclient

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fivetwenty-io/bcapi/internal/client"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
)

// New creates a new Business Central API client. The config is validated
// here; credentials are only exercised by the first call.
func New(ctx context.Context, config *bc.Config) (bc.Client, error) {
	if config == nil {
		return nil, bc.ErrConfigRequired
	}

	normalized := *config
	normalized.APIEndpoint = normalizeEndpoint(config.APIEndpoint)
	normalized.TokenURL = normalizeEndpoint(config.TokenURL)

	cli, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

// normalizeEndpoint trims a trailing slash and adds https:// when no scheme is given.
func normalizeEndpoint(endpoint string) string {
	if endpoint == "" {
		return ""
	}

	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// NewWithClientCredentials creates a new client for an app registration.
func NewWithClientCredentials(ctx context.Context, tenantID, clientID, clientSecret string) (bc.Client, error) {
	return New(ctx, &bc.Config{
		TenantID:     tenantID,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}

// NewWithCache creates a new client whose tokens are shared through the cache
// described by cacheConfig, e.g. a NATS KV bucket used by several workers.
// The client owns the cache; Close releases it.
func NewWithCache(ctx context.Context, config *bc.Config, cacheConfig *bc.CacheConfig) (bc.Client, error) {
	if config == nil {
		return nil, bc.ErrConfigRequired
	}

	cache, err := bc.NewCacheFromConfig(cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("creating token cache: %w", err)
	}

	withCache := *config
	withCache.TokenCache = cache

	cli, err := New(ctx, &withCache)
	if err != nil {
		if closer, ok := cache.(io.Closer); ok {
			_ = closer.Close()
		}

		return nil, err
	}

	return cli, nil
}
