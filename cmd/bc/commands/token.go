package commands

import (
	"fmt"
	"time"

	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/spf13/cobra"
)

// TokenInfo is the printable view of the current token.
type TokenInfo struct {
	Token     string    `json:"token"      yaml:"token"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
	ExpiresIn string    `json:"expires_in" yaml:"expires_in"`
}

// NewTokenCommand creates the token command group.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect and refresh the access token",
		Long:  "Show the cached access token or force a new client-credentials exchange",
	}

	cmd.AddCommand(newTokenShowCommand())
	cmd.AddCommand(newTokenRefreshCommand())

	return cmd
}

func newTokenShowCommand() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the access token",
		Long:  "Show the access token, fetching a new one when the cached token is about to expire",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			token, err := client.GetToken(cmd.Context())
			if err != nil {
				return err
			}

			return renderToken(token, client.TokenExpiry(), full)
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "print the whole token instead of a preview")

	return cmd
}

func newTokenRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Force a token refresh",
		Long:  "Discard the cached token and request a new one",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			err = client.RefreshToken(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to refresh token: %w", err)
			}

			token, err := client.GetToken(cmd.Context())
			if err != nil {
				return err
			}

			return renderToken(token, client.TokenExpiry(), false)
		},
	}
}

func renderToken(token string, expiresAt time.Time, full bool) error {
	if !full {
		token = tokenPreview(token)
	}

	info := TokenInfo{Token: token, ExpiresAt: expiresAt, ExpiresIn: constants.NotAvailable}
	if !expiresAt.IsZero() {
		info.ExpiresIn = time.Until(expiresAt).Round(time.Second).String()
	}

	return render(stdout, info, []string{"Property", "Value"}, [][]string{
		{"Token", info.Token},
		{"Expires At", formatTime(expiresAt)},
		{"Expires In", info.ExpiresIn},
	})
}

func tokenPreview(token string) string {
	if len(token) <= constants.TokenPreviewLength {
		return token
	}

	return token[:constants.TokenPreviewLength] + "..."
}
