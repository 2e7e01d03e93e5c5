package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fivetwenty-io/bcapi/internal/auth"
	"github.com/fivetwenty-io/bcapi/internal/client"
	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration keys, also used as viper keys and BC_* environment variables.
const (
	keyTenantID       = "tenant_id"
	keyClientID       = "client_id"
	keyClientSecret   = "client_secret"
	keyEnvironment    = "environment"
	keyCompany        = "company"
	keyAPIEndpoint    = "api_endpoint"
	keyTokenURL       = "token_url"
	keyToken          = "token"
	keyTokenExpiresAt = "token_expires_at"
	keyCache          = "cache"
	keyNATSURL        = "nats_url"
	keyNATSBucket     = "nats_bucket"
	keyOutput         = "output"

	configDirName  = ".bc"
	configFileName = "config.yml"
)

// settableKeys lists the keys accepted by 'bc config set'.
var settableKeys = map[string]bool{
	keyTenantID:     true,
	keyClientID:     true,
	keyClientSecret: true,
	keyEnvironment:  true,
	keyCompany:      true,
	keyAPIEndpoint:  true,
	keyTokenURL:     true,
	keyCache:        true,
	keyNATSURL:      true,
	keyNATSBucket:   true,
	keyOutput:       true,
}

// Config represents the CLI configuration.
type Config struct {
	TenantID       string     `json:"tenant_id,omitempty"        yaml:"tenant_id,omitempty"`
	ClientID       string     `json:"client_id,omitempty"        yaml:"client_id,omitempty"`
	ClientSecret   string     `json:"client_secret,omitempty"    yaml:"client_secret,omitempty"`
	Environment    string     `json:"environment,omitempty"      yaml:"environment,omitempty"`
	Company        string     `json:"company,omitempty"          yaml:"company,omitempty"`
	APIEndpoint    string     `json:"api_endpoint,omitempty"     yaml:"api_endpoint,omitempty"`
	TokenURL       string     `json:"token_url,omitempty"        yaml:"token_url,omitempty"`
	Token          string     `json:"token,omitempty"            yaml:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	Cache          string     `json:"cache,omitempty"            yaml:"cache,omitempty"`
	NATSURL        string     `json:"nats_url,omitempty"         yaml:"nats_url,omitempty"`
	NATSBucket     string     `json:"nats_bucket,omitempty"      yaml:"nats_bucket,omitempty"`
	Output         string     `json:"output,omitempty"           yaml:"output,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the Business Central CLI configuration",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskSecrets(loadConfig())

			return render(stdout, config, []string{"Property", "Value"}, configRows(config))
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + strings.Join(sortedKeys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !settableKeys[key] {
				return fmt.Errorf("%q: %w", key, constants.ErrUnknownConfigKey)
			}

			if key == keyOutput {
				viper.Set(keyOutput, value)

				if _, err := outputFormat(); err != nil {
					return err
				}
			}

			viper.Set(key, value)

			// a new identity invalidates the stored token
			if key == keyTenantID || key == keyClientID || key == keyClientSecret {
				viper.Set(keyToken, "")
				viper.Set(keyTokenExpiresAt, "")
			}

			if err := saveConfig(loadConfig()); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(stdout, "Set %s\n", key)

			return nil
		},
	}
}

func sortedKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for key := range settableKeys {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// loadConfig reads the effective configuration from viper.
func loadConfig() *Config {
	config := &Config{
		TenantID:     viper.GetString(keyTenantID),
		ClientID:     viper.GetString(keyClientID),
		ClientSecret: viper.GetString(keyClientSecret),
		Environment:  viper.GetString(keyEnvironment),
		Company:      viper.GetString(keyCompany),
		APIEndpoint:  viper.GetString(keyAPIEndpoint),
		TokenURL:     viper.GetString(keyTokenURL),
		Token:        viper.GetString(keyToken),
		Cache:        viper.GetString(keyCache),
		NATSURL:      viper.GetString(keyNATSURL),
		NATSBucket:   viper.GetString(keyNATSBucket),
		Output:       viper.GetString(keyOutput),
	}

	if expiresAt := viper.GetTime(keyTokenExpiresAt); !expiresAt.IsZero() {
		config.TokenExpiresAt = &expiresAt
	}

	return config
}

func maskSecrets(config *Config) *Config {
	masked := *config
	if masked.ClientSecret != "" {
		masked.ClientSecret = constants.MaskedSecret
	}

	if masked.Token != "" {
		masked.Token = tokenPreview(masked.Token)
	}

	return &masked
}

func configRows(config *Config) [][]string {
	expiresAt := constants.NotAvailable
	if config.TokenExpiresAt != nil {
		expiresAt = formatTime(*config.TokenExpiresAt)
	}

	return [][]string{
		{"Tenant", valueOrNA(config.TenantID)},
		{"Client ID", valueOrNA(config.ClientID)},
		{"Client Secret", valueOrNA(config.ClientSecret)},
		{"Environment", bc.EnvironmentOrDefault(config.Environment)},
		{"Company", valueOrNA(config.Company)},
		{"API Endpoint", valueOrNA(config.APIEndpoint)},
		{"Token URL", valueOrNA(config.TokenURL)},
		{"Token", valueOrNA(config.Token)},
		{"Token Expires", expiresAt},
		{"Cache", valueOrNA(config.Cache)},
		{"NATS URL", valueOrNA(config.NATSURL)},
		{"Output", valueOrNA(config.Output)},
	}
}

// configFilePath returns the file in use, or $HOME/.bc/config.yml.
func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, configDirName, configFileName), nil
}

// saveConfig writes config to the config file. The runtime token is kept.
func saveConfig(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// createClient builds a client from the effective configuration. Tokens are
// shared through the configured cache, or persisted to the config file.
func createClient(ctx context.Context) (bc.Client, error) {
	config := loadConfig()

	switch {
	case config.TenantID == "":
		return nil, constants.ErrNoTenantConfigured
	case config.ClientID == "":
		return nil, constants.ErrNoClientIDConfigured
	case config.ClientSecret == "":
		return nil, constants.ErrNoClientSecretConfigured
	}

	logger := newCLILogger(viper.GetBool("verbose"))

	bcConfig := &bc.Config{
		TenantID:     config.TenantID,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.TokenURL,
		APIEndpoint:  config.APIEndpoint,
		Debug:        viper.GetBool("verbose"),
		Logger:       logger,
	}

	cacheConfig, err := cacheConfigFor(config)
	if err != nil {
		return nil, err
	}

	if cacheConfig != nil {
		cache, err := bc.NewCacheFromConfig(cacheConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create token cache: %w", err)
		}

		bcConfig.TokenCache = cache

		bcClient, err := client.New(ctx, bcConfig)
		if err != nil {
			if closer, ok := cache.(io.Closer); ok {
				_ = closer.Close()
			}

			return nil, err
		}

		return bcClient, nil
	}

	var expiresAt time.Time
	if config.TokenExpiresAt != nil {
		expiresAt = *config.TokenExpiresAt
	}

	tokenManager := auth.NewPersistingTokenManager(&auth.OAuth2Config{
		TokenURL:     config.TokenURL,
		TenantID:     config.TenantID,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Logger:       logger,
	}, NewConfigPersister(), config.Token, expiresAt)

	bcClient, err := client.NewWithTokenManager(bcConfig, tokenManager)
	if err != nil {
		return nil, err
	}

	return bcClient, nil
}

// cacheConfigFor maps the cache setting to a cache configuration; nil keeps
// tokens in the config file.
func cacheConfigFor(config *Config) (*bc.CacheConfig, error) {
	switch bc.CacheType(config.Cache) {
	case "", bc.CacheTypeNone:
		return nil, nil //nolint:nilnil
	case bc.CacheTypeMemory:
		return bc.DefaultCacheConfig(), nil
	case bc.CacheTypeNATS:
		return &bc.CacheConfig{
			Type:   bc.CacheTypeNATS,
			Memory: &bc.MemoryCacheConfig{MaxSize: constants.DefaultCacheSize},
			NATS:   &bc.NATSKVConfig{URL: config.NATSURL, Bucket: config.NATSBucket},
		}, nil
	default:
		return nil, fmt.Errorf("%q: %w", config.Cache, bc.ErrUnsupportedCacheType)
	}
}
