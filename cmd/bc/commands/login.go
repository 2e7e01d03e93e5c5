package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		tenantID     string
		clientID     string
		clientSecret string
		environment  string
		company      string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store credentials and verify them",
		Long: `Store the tenant and application credentials in the config file and
verify them by requesting a token. The client secret is prompted for when
not given and not already configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)

			var err error

			tenantID, err = promptIfEmpty(reader, tenantID, keyTenantID, "Tenant ID: ")
			if err != nil {
				return err
			}

			clientID, err = promptIfEmpty(reader, clientID, keyClientID, "Client ID: ")
			if err != nil {
				return err
			}

			if clientSecret == "" {
				clientSecret = viper.GetString(keyClientSecret)
			}

			if clientSecret == "" {
				_, _ = os.Stdout.WriteString("Client Secret: ")

				secretBytes, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read client secret: %w", err)
				}

				_, _ = os.Stdout.WriteString("\n")
				clientSecret = string(secretBytes)
			}

			viper.Set(keyTenantID, tenantID)
			viper.Set(keyClientID, clientID)
			viper.Set(keyClientSecret, clientSecret)
			viper.Set(keyToken, "")
			viper.Set(keyTokenExpiresAt, "")

			if environment != "" {
				viper.Set(keyEnvironment, environment)
			}

			if company != "" {
				viper.Set(keyCompany, company)
			}

			err = saveConfig(loadConfig())
			if err != nil {
				return err
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			_, err = client.GetToken(cmd.Context())
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			_, _ = fmt.Fprintf(stdout, "Authenticated to tenant %s, token valid until %s\n",
				tenantID, formatTime(client.TokenExpiry()))

			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Azure AD tenant id")
	cmd.Flags().StringVar(&clientID, "client-id", "", "application (client) id")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "client secret (prompted when omitted)")
	cmd.Flags().StringVar(&environment, flagEnvironment, "", "default environment")
	cmd.Flags().StringVar(&company, flagCompany, "", "default company id")

	return cmd
}

func promptIfEmpty(reader *bufio.Reader, value, key, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}

	if configured := viper.GetString(key); configured != "" {
		return configured, nil
	}

	_, _ = os.Stdout.WriteString(prompt)

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}
