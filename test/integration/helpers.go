//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Environment  string
	CompanyID    string
	JournalID    string
	BCPath       string
	Verbose      bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	environment := os.Getenv("BC_ENVIRONMENT")
	if environment == "" {
		environment = "Sandbox"
	}

	return &TestConfig{
		TenantID:     os.Getenv("BC_TENANT_ID"),
		ClientID:     os.Getenv("BC_CLIENT_ID"),
		ClientSecret: os.Getenv("BC_CLIENT_SECRET"),
		Environment:  environment,
		CompanyID:    os.Getenv("BC_COMPANY"),
		JournalID:    os.Getenv("BC_TEST_JOURNAL_ID"),
		BCPath:       getBCPath(),
		Verbose:      os.Getenv("BC_VERBOSE") == "true",
	}
}

// getBCPath determines the path to the bc binary
func getBCPath() string {
	if path := os.Getenv("BC_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../bc",
		"./bc",
		"../bc",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "bc"
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.TenantID == "" || config.ClientID == "" || config.ClientSecret == "" {
		t.Skip("BC_TENANT_ID, BC_CLIENT_ID or BC_CLIENT_SECRET not set, skipping integration test")
	}

	if config.CompanyID == "" {
		t.Skip("BC_COMPANY not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BCPath); err != nil {
		t.Skipf("bc binary not found at %s, skipping integration test", config.BCPath)
	}
}

// CommandRunner runs bc commands against an isolated config file
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a bc command and returns output
func (runner *CommandRunner) Run(args ...string) (string, string, error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.BCPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BCPath, strings.Join(args, " "))
	}

	err := cmd.Run()
	stdout := stdoutBuf.String()
	stderr := stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// Login stores the test credentials, environment and company in the runner's config file
func (runner *CommandRunner) Login() error {
	_, stderr, err := runner.Run("login",
		"--tenant", runner.config.TenantID,
		"--client-id", runner.config.ClientID,
		"--client-secret", runner.config.ClientSecret,
		"--environment", runner.config.Environment,
		"--company", runner.config.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to log in: %s", stderr)
	}

	return nil
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// DecodeJSON decodes command output into out
func DecodeJSON(t *testing.T, output string, out interface{}) {
	t.Helper()

	require.NoError(t, json.Unmarshal([]byte(output), out), "output is not JSON: %s", output)
}

// AssertYAMLOutput verifies command output looks like YAML
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if strings.Contains(output, "---") || strings.Contains(output, ":") {
		return
	}

	t.Errorf("Output does not appear to be YAML: %s", output)
}
