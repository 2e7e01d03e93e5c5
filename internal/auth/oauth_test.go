package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{"aud": "https://api.businesscentral.dynamics.com"}
	if !expiresAt.IsZero() {
		claims["exp"] = expiresAt.Unix()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	return token
}

// tokenServer issues the given access token and counts requests.
func tokenServer(t *testing.T, accessToken string, calls *int32) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"token_type":     "Bearer",
			"expires_in":     3599,
			"ext_expires_in": 3599,
			"access_token":   accessToken,
		})
	}))
	t.Cleanup(server.Close)

	return server
}

func newTestManager(tokenURL string) *OAuth2TokenManager {
	return NewOAuth2TokenManager(&OAuth2Config{
		TokenURL:     tokenURL,
		TenantID:     "tenant-1",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	})
}

//nolint:funlen // Test functions can be longer for detailed testing
func TestOAuth2TokenManager_GetToken(t *testing.T) {
	t.Parallel()

	t.Run("sends client credentials form", func(t *testing.T) {
		t.Parallel()

		issued := signedToken(t, time.Now().Add(time.Hour))
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/tenant-1/oauth2/v2.0/token", r.URL.Path)
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

			err := r.ParseForm()
			assert.NoError(t, err)
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			assert.Equal(t, "https://api.businesscentral.dynamics.com/.default", r.PostForm.Get("scope"))
			assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
			assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))

			_ = json.NewEncoder(w).Encode(map[string]interface{}{"access_token": issued, "token_type": "Bearer"})
		}))
		defer server.Close()

		manager := newTestManager(server.URL + "/tenant-1/oauth2/v2.0/token")

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, issued, token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), manager.GetTokenExpiry(), 2*time.Second)
	})

	t.Run("valid cached token makes no request", func(t *testing.T) {
		t.Parallel()

		var calls int32

		server := tokenServer(t, signedToken(t, time.Now().Add(time.Hour)), &calls)
		manager := newTestManager(server.URL)

		first, err := manager.GetToken(context.Background())
		require.NoError(t, err)

		second, err := manager.GetToken(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("token expiring within skew is replaced", func(t *testing.T) {
		t.Parallel()

		var calls int32

		fresh := signedToken(t, time.Now().Add(time.Hour))
		server := tokenServer(t, fresh, &calls)
		manager := newTestManager(server.URL)
		manager.SetToken("nearly-expired", time.Now().Add(30*time.Second))

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, fresh, token)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("token without expiry is returned but not cached", func(t *testing.T) {
		t.Parallel()

		var calls int32

		noExpiry := signedToken(t, time.Time{})
		server := tokenServer(t, noExpiry, &calls)
		manager := newTestManager(server.URL)

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, noExpiry, token)
		assert.Nil(t, manager.store.Get())

		_, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("opaque token is returned but not cached", func(t *testing.T) {
		t.Parallel()

		var calls int32

		server := tokenServer(t, "not-a-jwt", &calls)
		manager := newTestManager(server.URL)

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "not-a-jwt", token)
		assert.True(t, manager.GetTokenExpiry().IsZero())
	})

	t.Run("rejected exchange returns auth error and caches nothing", func(t *testing.T) {
		t.Parallel()

		var calls int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"AADSTS7000215: Invalid client secret provided."}`))
		}))
		defer server.Close()

		manager := newTestManager(server.URL)

		token, err := manager.GetToken(context.Background())
		require.Error(t, err)
		assert.Empty(t, token)

		var authErr *bc.AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
		assert.Equal(t, "invalid_client", authErr.Code)
		assert.Contains(t, authErr.Description, "AADSTS7000215")
		assert.Nil(t, manager.store.Get())

		_, err = manager.GetToken(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("empty access token is an auth error", func(t *testing.T) {
		t.Parallel()

		var calls int32

		server := tokenServer(t, "", &calls)
		manager := newTestManager(server.URL)

		_, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, ErrEmptyAccessToken)
		assert.True(t, bc.IsAuthError(err))
	})

	t.Run("undecodable body is an auth error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		}))
		defer server.Close()

		_, err := newTestManager(server.URL).GetToken(context.Background())
		assert.True(t, bc.IsAuthError(err))
	})

	t.Run("network failure is an auth error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		tokenURL := server.URL
		server.Close()

		_, err := newTestManager(tokenURL).GetToken(context.Background())

		var authErr *bc.AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Zero(t, authErr.StatusCode)
		assert.Error(t, authErr.Err)
	})
}

func TestOAuth2TokenManager_RefreshToken(t *testing.T) {
	t.Parallel()

	var calls int32

	fresh := signedToken(t, time.Now().Add(time.Hour))
	server := tokenServer(t, fresh, &calls)
	manager := newTestManager(server.URL)
	manager.SetToken("current-token", time.Now().Add(time.Hour))

	err := manager.RefreshToken(context.Background())
	require.NoError(t, err)

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fresh, token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOAuth2TokenManager_SetToken(t *testing.T) {
	t.Parallel()

	manager := NewOAuth2TokenManager(&OAuth2Config{TenantID: "tenant-1"})
	expiresAt := time.Now().Add(time.Hour)
	manager.SetToken("manual-token", expiresAt)

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "manual-token", token)

	storedToken := manager.store.Get()
	assert.Equal(t, "Bearer", storedToken.TokenType)
	assert.Equal(t, expiresAt, storedToken.ExpiresAt)
}

func TestNewClientCredentialsTokenManager(t *testing.T) {
	t.Parallel()

	manager := NewClientCredentialsTokenManager("contoso.onmicrosoft.com", "client-id", "client-secret")

	assert.Equal(t, "https://login.microsoftonline.com/contoso.onmicrosoft.com/oauth2/v2.0/token", manager.config.TokenURL)
	assert.Equal(t, "https://api.businesscentral.dynamics.com/.default", manager.config.Scope)
	assert.Equal(t, "client-id", manager.config.ClientID)
	assert.Equal(t, "client-secret", manager.config.ClientSecret)
}
