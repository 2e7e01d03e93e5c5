package commands

import (
	"fmt"

	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/spf13/cobra"
)

// NewDimensionsCommand creates the dimensions command group.
func NewDimensionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dimensions",
		Aliases: []string{"dimension", "dims"},
		Short:   "Manage dimensions",
		Long:    "List dimensions and tag journal lines with dimension values",
	}

	cmd.AddCommand(newDimensionsListCommand())
	cmd.AddCommand(newDimensionsAddCommand())

	return cmd
}

func newDimensionsListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dimensions",
		Long:  "List the dimensions defined for a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}

			params, err := flags.queryParams()
			if err != nil {
				return err
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			dimensions, err := client.Dimensions().List(cmd.Context(), scope, params)
			if err != nil {
				return fmt.Errorf("failed to list dimensions: %w", err)
			}

			rows := make([][]string, 0, len(dimensions))
			for _, dimension := range dimensions {
				rows = append(rows, []string{dimension.ID, dimension.Code, dimension.DisplayName})
			}

			return render(stdout, dimensions, []string{"ID", "Code", "Name"}, rows)
		},
	}

	flags.register(cmd)
	addScopeFlags(cmd)

	return cmd
}

func newDimensionsAddCommand() *cobra.Command {
	var (
		journalLineID string
		request       bc.DimensionSetLineRequest
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Tag a journal line with a dimension value",
		Long:  "Add a dimension set line to a journal line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if journalLineID == "" {
				return constants.ErrJournalLineRequired
			}

			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			err = client.Dimensions().AddToJournalLine(cmd.Context(), scope, journalLineID, &request)
			if err != nil {
				return fmt.Errorf("failed to add dimension: %w", err)
			}

			_, _ = fmt.Fprintf(stdout, "Added dimension %s=%s to journal line %s\n", request.ID, request.ValueCode, journalLineID)

			return nil
		},
	}

	addScopeFlags(cmd)
	cmd.Flags().StringVar(&journalLineID, flagJournalLine, "", "journal line id")
	cmd.Flags().StringVar(&request.ID, "dimension", "", "dimension id")
	cmd.Flags().StringVar(&request.ValueCode, "value", "", "dimension value code")
	_ = cmd.MarkFlagRequired("dimension")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}
