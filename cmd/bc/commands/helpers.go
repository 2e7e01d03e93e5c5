package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Flag names shared by several commands.
const (
	flagCompany     = "company"
	flagEnvironment = "environment"
	flagFilter      = "filter"
	flagOrderBy     = "order-by"
	flagTop         = "top"
	flagJournal     = "journal"
	flagJournalLine = "journal-line"

	filterParts  = 3
	orderByParts = 2
)

// listFlags holds the OData query flags of list commands.
type listFlags struct {
	filter  string
	orderBy string
	top     int
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.filter, flagFilter, "", "filter as <startswith|endswith|contains>:<field>:<value>")
	cmd.Flags().StringVar(&f.orderBy, flagOrderBy, "", "sort as <field> or <field>:<asc|desc>")
	cmd.Flags().IntVar(&f.top, flagTop, 0, "maximum number of records to return")
}

// queryParams converts the flags into query parameters, nil when none is set.
func (f *listFlags) queryParams() (*bc.QueryParams, error) {
	if f.filter == "" && f.orderBy == "" && f.top <= 0 {
		return nil, nil //nolint:nilnil
	}

	params := bc.NewQueryParams()

	if f.filter != "" {
		filter, err := parseFilter(f.filter)
		if err != nil {
			return nil, err
		}

		params.Filter = filter
	}

	if f.orderBy != "" {
		orderBy, err := parseOrderBy(f.orderBy)
		if err != nil {
			return nil, err
		}

		params.OrderBy = orderBy
	}

	if f.top > 0 {
		params.WithTop(f.top)
	}

	return params, nil
}

// parseFilter parses "<operation>:<field>:<value>". The value may contain colons.
func parseFilter(raw string) (*bc.Filter, error) {
	parts := strings.SplitN(raw, ":", filterParts)
	if len(parts) != filterParts || parts[1] == "" {
		return nil, fmt.Errorf("%q: %w", raw, constants.ErrInvalidFilter)
	}

	operation, ok := bc.ParseFilterOperation(parts[0])
	if !ok {
		return nil, fmt.Errorf("%q: %w", parts[0], constants.ErrInvalidFilterOp)
	}

	return &bc.Filter{Operation: operation, Field: parts[1], Value: parts[2]}, nil
}

// parseOrderBy parses "<field>" or "<field>:<direction>"; direction defaults to asc.
func parseOrderBy(raw string) (*bc.OrderBy, error) {
	parts := strings.SplitN(raw, ":", orderByParts)
	if parts[0] == "" {
		return nil, fmt.Errorf("%q: %w", raw, constants.ErrInvalidOrderBy)
	}

	direction := bc.SortAscending

	if len(parts) == orderByParts {
		parsed, ok := bc.ParseSortDirection(parts[1])
		if !ok {
			return nil, fmt.Errorf("%q: %w", raw, constants.ErrInvalidOrderBy)
		}

		direction = parsed
	}

	return &bc.OrderBy{Field: parts[0], Direction: direction}, nil
}

// addScopeFlags registers --company and --environment.
func addScopeFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagCompany, "", "company id (defaults to the configured company)")
	cmd.Flags().String(flagEnvironment, "", "environment name (defaults to the configured environment)")
}

// scopeFromFlags resolves the company scope from flags, falling back to the config.
func scopeFromFlags(cmd *cobra.Command) (bc.Scope, error) {
	company, _ := cmd.Flags().GetString(flagCompany)
	if company == "" {
		company = viper.GetString(keyCompany)
	}

	if company == "" {
		return bc.Scope{}, constants.ErrCompanyRequired
	}

	return bc.Scope{Environment: environmentFromFlags(cmd), CompanyID: company}, nil
}

func environmentFromFlags(cmd *cobra.Command) string {
	environment, _ := cmd.Flags().GetString(flagEnvironment)
	if environment == "" {
		environment = viper.GetString(keyEnvironment)
	}

	return bc.EnvironmentOrDefault(environment)
}

// outputFormat returns the validated --output value.
func outputFormat() (string, error) {
	format := viper.GetString("output")
	switch format {
	case "", constants.FormatTable:
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%q: %w", format, constants.ErrInvalidOutputFormat)
	}
}

// render writes data as json or yaml, or calls table for the table format.
func render(w io.Writer, data interface{}, headers []string, rows [][]string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		return encoder.Encode(data)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(constants.JSONIndentSize)

		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}

		return encoder.Close()
	default:
		return renderTable(w, headers, rows)
	}
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(toAny(headers)...)

	for _, row := range rows {
		_ = table.Append(toAny(row)...)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}

func valueOrNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return constants.NotAvailable
	}

	return t.Local().Format(constants.TimeDisplayFormat)
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// stdout is swapped by tests.
var stdout io.Writer = os.Stdout
