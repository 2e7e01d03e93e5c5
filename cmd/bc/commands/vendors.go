package commands

import (
	"fmt"

	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/spf13/cobra"
)

// NewVendorsCommand creates the vendors command group.
func NewVendorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vendors",
		Aliases: []string{"vendor"},
		Short:   "Manage vendors",
		Long:    "List, create and update the vendors of a company",
	}

	cmd.AddCommand(newVendorsListCommand())
	cmd.AddCommand(newVendorsCreateCommand())
	cmd.AddCommand(newVendorsUpdateCommand())

	return cmd
}

func newVendorsListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vendors",
		Long:  "List the vendors of a company",
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

			vendors, err := client.Vendors().List(cmd.Context(), scope, params)
			if err != nil {
				return fmt.Errorf("failed to list vendors: %w", err)
			}

			return renderVendors(vendors)
		},
	}

	flags.register(cmd)
	addScopeFlags(cmd)

	return cmd
}

func newVendorsCreateCommand() *cobra.Command {
	var request bc.VendorRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a vendor",
		Long:  "Create a vendor in a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			vendor, err := client.Vendors().Create(cmd.Context(), scope, &request)
			if err != nil {
				return fmt.Errorf("failed to create vendor: %w", err)
			}

			return renderVendors([]bc.Vendor{*vendor})
		},
	}

	cmd.Flags().StringVar(&request.DisplayName, "name", "", "vendor display name")
	cmd.Flags().StringVar(&request.Number, "number", "", "vendor number (assigned by the server when omitted)")
	_ = cmd.MarkFlagRequired("name")
	addScopeFlags(cmd)

	return cmd
}

func newVendorsUpdateCommand() *cobra.Command {
	var request bc.VendorRequest

	cmd := &cobra.Command{
		Use:   "update VENDOR_ID",
		Short: "Update a vendor",
		Long:  "Update a vendor's name or number, overwriting concurrent changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if request.DisplayName == "" && request.Number == "" {
				return constants.ErrNothingToUpdate
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

			vendor, err := client.Vendors().Update(cmd.Context(), scope, args[0], &request)
			if err != nil {
				return fmt.Errorf("failed to update vendor: %w", err)
			}

			return renderVendors([]bc.Vendor{*vendor})
		},
	}

	cmd.Flags().StringVar(&request.DisplayName, "name", "", "new display name")
	cmd.Flags().StringVar(&request.Number, "number", "", "new vendor number")
	addScopeFlags(cmd)

	return cmd
}

func renderVendors(vendors []bc.Vendor) error {
	rows := make([][]string, 0, len(vendors))
	for _, vendor := range vendors {
		rows = append(rows, []string{
			vendor.ID,
			vendor.Number,
			vendor.DisplayName,
			valueOrNA(vendor.City),
			formatAmount(vendor.Balance),
			valueOrNA(vendor.Blocked),
		})
	}

	return render(stdout, vendors, []string{"ID", "Number", "Name", "City", "Balance", "Blocked"}, rows)
}
