package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// BatchFile is the document read by 'bc batch apply'.
type BatchFile struct {
	// Scope applies to operations that do not name their own company.
	Scope      bc.Scope            `yaml:"scope"`
	Operations []bc.BatchOperation `yaml:"operations"`
}

// batchResultView is the printable form of a batch result.
type batchResultView struct {
	ID       string `json:"id"              yaml:"id"`
	Success  bool   `json:"success"         yaml:"success"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
	Duration string `json:"duration"        yaml:"duration"`
}

// NewBatchCommand creates the batch command group.
func NewBatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run operations in bulk",
		Long:  "Run independent vendor, journal line and dimension operations concurrently",
	}

	cmd.AddCommand(newBatchApplyCommand())

	return cmd
}

func newBatchApplyCommand() *cobra.Command {
	var (
		file        string
		concurrency int
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a batch file",
		Long: `Apply the operations listed in a YAML batch file. Operations run
concurrently and a failing operation does not stop the others.

Example file:

  scope:
    companyId: 5d115c9c-44e3-ea11-bb43-000d3a2feca1
  operations:
    - id: v1
      type: create-vendor
      vendor:
        displayName: Fabrikam
    - id: l1
      type: create-journal-line
      journalId: f91409ba-1fe3-ea11-bb43-000d3a2feca1
      journalLine:
        accountNumber: "10100"
        postingDate: "2024-01-31"
        amount: 125.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return constants.ErrFileRequired
			}

			operations, err := loadBatchFile(file)
			if err != nil {
				return err
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			executor := bc.NewBatchExecutor(client, concurrency)
			if timeout > 0 {
				executor.SetTimeout(timeout)
			}

			results := executor.Execute(cmd.Context(), operations)

			err = renderBatchResults(results)
			if err != nil {
				return err
			}

			if failed := bc.FailedResults(results); len(failed) > 0 {
				return fmt.Errorf("%d of %d: %w", len(failed), len(results), constants.ErrBatchFailed)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML batch file")
	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultConcurrencyLimit, "maximum concurrent operations")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "timeout per operation (default 2m)")

	return cmd
}

// loadBatchFile reads a batch file and applies its scope to unscoped operations.
func loadBatchFile(path string) ([]bc.BatchOperation, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var batch BatchFile

	err = yaml.Unmarshal(data, &batch)
	if err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}

	if len(batch.Operations) == 0 {
		return nil, constants.ErrNoOperations
	}

	for i := range batch.Operations {
		operation := &batch.Operations[i]
		if operation.Scope.CompanyID == "" {
			operation.Scope.CompanyID = batch.Scope.CompanyID
		}

		if operation.Scope.Environment == "" {
			operation.Scope.Environment = batch.Scope.Environment
		}

		if operation.ID == "" {
			operation.ID = fmt.Sprintf("%s-%d", operation.Type, i+1)
		}
	}

	return batch.Operations, nil
}

func renderBatchResults(results []bc.BatchResult) error {
	views := make([]batchResultView, 0, len(results))
	rows := make([][]string, 0, len(results))

	for _, result := range results {
		view := batchResultView{
			ID:       result.ID,
			Success:  result.Success,
			Duration: result.Duration.Round(time.Millisecond).String(),
		}
		if result.Error != nil {
			view.Error = result.Error.Error()
		}

		views = append(views, view)
		rows = append(rows, []string{view.ID, fmt.Sprintf("%t", view.Success), view.Duration, valueOrNA(view.Error)})
	}

	return render(stdout, views, []string{"ID", "Success", "Duration", "Error"}, rows)
}
