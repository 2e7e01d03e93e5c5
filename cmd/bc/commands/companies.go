package commands

import (
	"fmt"

	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/spf13/cobra"
)

// NewCompaniesCommand creates the companies command group.
func NewCompaniesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "Manage companies",
		Long:    "List the companies of a Business Central environment",
	}

	cmd.AddCommand(newCompaniesListCommand())

	return cmd
}

func newCompaniesListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List companies",
		Long:  "List the companies of an environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := flags.queryParams()
			if err != nil {
				return err
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			companies, err := client.Companies().List(cmd.Context(), environmentFromFlags(cmd), params)
			if err != nil {
				return fmt.Errorf("failed to list companies: %w", err)
			}

			return render(stdout, companies, []string{"ID", "Name", "Display Name", "Modified"}, companyRows(companies))
		},
	}

	flags.register(cmd)
	cmd.Flags().String(flagEnvironment, "", "environment name (defaults to the configured environment)")

	return cmd
}

func companyRows(companies []bc.Company) [][]string {
	rows := make([][]string, 0, len(companies))
	for _, company := range companies {
		rows = append(rows, []string{
			company.ID,
			company.Name,
			valueOrNA(company.DisplayName),
			formatTime(company.SystemModifiedAt),
		})
	}

	return rows
}
