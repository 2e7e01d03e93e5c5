package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/bcapi/cmd/bc/commands"
	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "bc",
	Short: "Business Central API CLI",
	Long: `A command-line interface for the Microsoft Dynamics 365 Business Central API.

Credentials are read from $HOME/.bc/config.yml, BC_* environment variables
or a .env file in the working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.bc/config.yml)")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log requests and token exchanges to stderr")
	rootCmd.PersistentFlags().String("cache", "", "token cache (none, memory, nats)")
	rootCmd.PersistentFlags().String("nats-url", "", "NATS server URL for the nats token cache")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("cache", rootCmd.PersistentFlags().Lookup("cache"))
	_ = viper.BindPFlag("nats_url", rootCmd.PersistentFlags().Lookup("nats-url"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewTokenCommand())
	rootCmd.AddCommand(commands.NewCompaniesCommand())
	rootCmd.AddCommand(commands.NewVendorsCommand())
	rootCmd.AddCommand(commands.NewJournalsCommand())
	rootCmd.AddCommand(commands.NewJournalLinesCommand())
	rootCmd.AddCommand(commands.NewDimensionsCommand())
	rootCmd.AddCommand(commands.NewAttachmentsCommand())
	rootCmd.AddCommand(commands.NewBatchCommand())
}

func initConfig() {
	// .env values become environment variables unless already set
	_ = godotenv.Load()

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".bc")
		if err := os.MkdirAll(configDir, constants.ConfigDirPerm); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		}

		// Search config in ~/.bc/config.yml
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// BC_TENANT_ID, BC_CLIENT_ID, BC_CLIENT_SECRET, ...
	viper.SetEnvPrefix("BC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer commands.SyncLoggers()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	return 0
}
