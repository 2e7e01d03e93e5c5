package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Remote endpoints.
const (
	// IdentityHost is the Microsoft identity platform host issuing client-credentials tokens.
	IdentityHost = "https://login.microsoftonline.com"

	// APIHost is the Business Central API host.
	APIHost = "https://api.businesscentral.dynamics.com"

	// DefaultScope is the fixed scope requested by the client-credentials grant.
	DefaultScope = "https://api.businesscentral.dynamics.com/.default"

	// DefaultEnvironment is used when a call does not name an environment.
	DefaultEnvironment = "Production"

	// APIVersionPath is the API segment placed after the environment name.
	APIVersionPath = "api/v2.0"
)

// Token bookkeeping.
const (
	// TokenExpirySkew is subtracted from a token's expiry before it is considered usable.
	TokenExpirySkew = 60 * time.Second

	// GrantTypeClientCredentials is the only grant the token manager performs.
	GrantTypeClientCredentials = "client_credentials"

	// TokenTypeBearer is the token type reported when the identity endpoint omits one.
	TokenTypeBearer = "Bearer"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for token exchanges.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry and concurrency limits.
const (
	// DefaultRetryMax is zero: the library never retries on its own.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum backoff once retries are enabled.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// DefaultConcurrencyLimit limits concurrent batch operations.
	DefaultConcurrencyLimit = 3

	// DefaultBatchTimeout bounds a single batch operation.
	DefaultBatchTimeout = 2 * time.Minute
)

// Headers and content types.
const (
	HeaderAuthorization   = "Authorization"
	HeaderAccept          = "Accept"
	HeaderContentType     = "Content-Type"
	HeaderUserAgent       = "User-Agent"
	HeaderIfMatch         = "If-Match"
	HeaderClientRequestID = "client-request-id"

	// IfMatchAny overwrites unconditionally, ignoring the entity's concurrency tag.
	IfMatchAny = "*"

	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"

	// DefaultUserAgent is sent on every request unless overridden.
	DefaultUserAgent = "bcapi-go/1.0"
)

// Attachment upload.
const (
	// AttachmentFileField is the single multipart field carrying attachment content.
	AttachmentFileField = "file"

	// AttachmentFileExtension is appended to the attachment name in the metadata record.
	AttachmentFileExtension = ".pdf"

	// AttachmentParentTypeJournal is the default parent type for uploads.
	AttachmentParentTypeJournal = "Journal"
)

// Cache defaults.
const (
	// DefaultCacheSize is the default number of entries held by the memory cache.
	DefaultCacheSize = 100

	// DefaultNATSBucket is the KV bucket used for shared token storage.
	DefaultNATSBucket = "bcapi-tokens"
)

// UI and display constants.
const (
	// NotAvailable is printed for empty table cells.
	NotAvailable = "N/A"

	// MaskedSecret replaces secrets in output.
	MaskedSecret = "***"

	// JSONIndentSize is the indent used by json and yaml encoders.
	JSONIndentSize = 2

	// TokenPreviewLength is the number of leading token characters shown by the CLI.
	TokenPreviewLength = 12

	// TimeDisplayFormat formats timestamps in tables.
	TimeDisplayFormat = "2006-01-02 15:04:05"
)

// Format constants.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)
