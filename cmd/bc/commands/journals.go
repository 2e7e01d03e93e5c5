package commands

import (
	"fmt"

	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/spf13/cobra"
)

// NewJournalsCommand creates the journals command group.
func NewJournalsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "journals",
		Aliases: []string{"journal"},
		Short:   "Manage journals",
		Long:    "List the general journals of a company",
	}

	cmd.AddCommand(newJournalsListCommand())

	return cmd
}

func newJournalsListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journals",
		Long:  "List the general journals of a company",
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

			journals, err := client.Journals().List(cmd.Context(), scope, params)
			if err != nil {
				return fmt.Errorf("failed to list journals: %w", err)
			}

			rows := make([][]string, 0, len(journals))
			for _, journal := range journals {
				rows = append(rows, []string{
					journal.ID,
					journal.Code,
					journal.DisplayName,
					valueOrNA(journal.BalancingAccountNumber),
				})
			}

			return render(stdout, journals, []string{"ID", "Code", "Name", "Balancing Account"}, rows)
		},
	}

	flags.register(cmd)
	addScopeFlags(cmd)

	return cmd
}

// NewJournalLinesCommand creates the journal-lines command group.
func NewJournalLinesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "journal-lines",
		Aliases: []string{"lines"},
		Short:   "Manage journal lines",
		Long:    "List and create the lines of a general journal",
	}

	cmd.AddCommand(newJournalLinesListCommand())
	cmd.AddCommand(newJournalLinesCreateCommand())

	return cmd
}

func newJournalLinesListCommand() *cobra.Command {
	var (
		flags     listFlags
		journalID string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal lines",
		Long:  "List the lines of a general journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if journalID == "" {
				return constants.ErrJournalRequired
			}

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

			lines, err := client.JournalLines().List(cmd.Context(), scope, journalID, params)
			if err != nil {
				return fmt.Errorf("failed to list journal lines: %w", err)
			}

			return renderJournalLines(lines)
		},
	}

	flags.register(cmd)
	addScopeFlags(cmd)
	cmd.Flags().StringVar(&journalID, flagJournal, "", "journal id")

	return cmd
}

func newJournalLinesCreateCommand() *cobra.Command {
	var (
		journalID string
		request   bc.JournalLineCreateRequest
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a journal line",
		Long:  "Post a new line to a general journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if journalID == "" {
				return constants.ErrJournalRequired
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

			line, err := client.JournalLines().Create(cmd.Context(), scope, journalID, &request)
			if err != nil {
				return fmt.Errorf("failed to create journal line: %w", err)
			}

			return renderJournalLines([]bc.JournalLine{*line})
		},
	}

	addScopeFlags(cmd)
	cmd.Flags().StringVar(&journalID, flagJournal, "", "journal id")
	cmd.Flags().Float64Var(&request.Amount, "amount", 0, "line amount")
	cmd.Flags().StringVar(&request.Description, "description", "", "line description")
	cmd.Flags().StringVar(&request.PostingDate, "posting-date", "", "posting date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&request.AccountNumber, "account", "", "account number")
	cmd.Flags().StringVar(&request.BalancingAccountNumber, "balancing-account", "", "balancing account number")
	cmd.Flags().StringVar(&request.BalanceAccountType, "balance-account-type", "", "balancing account type")
	cmd.Flags().StringVar(&request.DocumentNumber, "document-number", "", "document number")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("posting-date")

	return cmd
}

func renderJournalLines(lines []bc.JournalLine) error {
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []string{
			line.ID,
			fmt.Sprintf("%d", line.LineNumber),
			line.PostingDate,
			line.AccountNumber,
			formatAmount(line.Amount),
			valueOrNA(line.Description),
			fmt.Sprintf("%d", len(line.DimensionLines)),
		})
	}

	return render(stdout, lines,
		[]string{"ID", "Line", "Posting Date", "Account", "Amount", "Description", "Dimensions"}, rows)
}
