package constants

import "errors"

// Configuration errors.
var (
	ErrNoTenantConfigured       = errors.New("no tenant configured, use 'bc login' or set BC_TENANT_ID")
	ErrNoClientIDConfigured     = errors.New("no client id configured, use 'bc login' or set BC_CLIENT_ID")
	ErrNoClientSecretConfigured = errors.New("no client secret configured, use 'bc login' or set BC_CLIENT_SECRET")
	ErrUnknownConfigKey         = errors.New("unknown configuration key")
	ErrTokenTenantMismatch      = errors.New("token was issued for a different tenant")
)

// Required flag errors.
var (
	ErrCompanyRequired     = errors.New("--company flag is required")
	ErrJournalRequired     = errors.New("--journal flag is required")
	ErrJournalLineRequired = errors.New("--journal-line flag is required")
	ErrParentRequired      = errors.New("--parent flag is required")
	ErrFileRequired        = errors.New("--file flag is required")
	ErrNothingToUpdate     = errors.New("nothing to update, pass --name or --number")
	ErrNoOperations        = errors.New("batch file holds no operations")
	ErrBatchFailed         = errors.New("one or more batch operations failed")
)

// Validation errors.
var (
	ErrInvalidFilter       = errors.New("invalid --filter, expected <operation>:<field>:<value>")
	ErrInvalidFilterOp     = errors.New("invalid filter operation, expected startswith, endswith or contains")
	ErrInvalidOrderBy      = errors.New("invalid --order-by, expected <field> or <field>:<asc|desc>")
	ErrInvalidOutputFormat = errors.New("invalid output format, expected table, json or yaml")
)
