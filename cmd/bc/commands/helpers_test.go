package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// setupCLI resets viper onto a temporary config file and captures stdout.
func setupCLI(t *testing.T, values map[string]string) *bytes.Buffer {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigFile(filepath.Join(t.TempDir(), "config.yml"))

	for key, value := range values {
		viper.Set(key, value)
	}

	buf := &bytes.Buffer{}
	previous := stdout
	stdout = buf

	t.Cleanup(func() { stdout = previous })

	return buf
}

// identityServer issues a signed token valid for an hour and counts exchanges.
func identityServer(t *testing.T, calls *int) *httptest.Server {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": signed,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(server.Close)

	return server
}

// credentials returns the config values pointing the CLI at both test servers.
func credentials(identityURL, apiURL string) map[string]string {
	return map[string]string{
		keyTenantID:     "tenant",
		keyClientID:     "client",
		keyClientSecret: "secret",
		keyTokenURL:     identityURL,
		keyAPIEndpoint:  apiURL,
		keyCompany:      "C1",
		keyOutput:       "json",
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func unescapedPath(r *http.Request) string {
	path, err := url.PathUnescape(r.URL.EscapedPath())
	if err != nil {
		return r.URL.Path
	}

	return path
}

// run executes cmd with args.
func run(cmd *cobra.Command, args ...string) error {
	if args == nil {
		args = []string{}
	}

	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	return cmd.Execute()
}

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func newAPIServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server
}

func configFileForTest(t *testing.T) string {
	t.Helper()

	path, err := configFilePath()
	require.NoError(t, err)

	return path
}
