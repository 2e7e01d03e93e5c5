package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "C1"

var testScope = bc.Scope{CompanyID: testCompanyID}

// staticTokenManager hands out a fixed token.
type staticTokenManager struct {
	token     string
	expiresAt time.Time
	refreshed int
}

func (m *staticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

func (m *staticTokenManager) RefreshToken(ctx context.Context) error {
	m.refreshed++

	return nil
}

func (m *staticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
	m.expiresAt = expiresAt
}

func (m *staticTokenManager) GetTokenExpiry() time.Time {
	return m.expiresAt
}

// newTestClient starts a server running handler and returns a client aimed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewWithTokenManager(&bc.Config{APIEndpoint: server.URL}, &staticTokenManager{token: "test-token"})
	require.NoError(t, err)

	return client
}

func writeJSON(writer http.ResponseWriter, status int, body interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if body != nil {
		_ = json.NewEncoder(writer).Encode(body)
	}
}

func writeODataError(writer http.ResponseWriter, status int, code, message string) {
	writeJSON(writer, status, map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}

func listBody(values interface{}) map[string]interface{} {
	return map[string]interface{}{
		"@odata.context": "https://api.businesscentral.dynamics.com/v2.0/$metadata",
		"value":          values,
	}
}
