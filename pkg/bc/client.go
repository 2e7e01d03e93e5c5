package bc

import (
	"context"
	"io"
	"time"
)

// CompaniesClient lists the companies of an environment.
type CompaniesClient interface {
	List(ctx context.Context, environment string, params *QueryParams) ([]Company, error)
}

// VendorsClient manages vendors of a company.
type VendorsClient interface {
	List(ctx context.Context, scope Scope, params *QueryParams) ([]Vendor, error)
	Create(ctx context.Context, scope Scope, request *VendorRequest) (*Vendor, error)
	Update(ctx context.Context, scope Scope, vendorID string, request *VendorRequest) (*Vendor, error)
}

// JournalsClient lists general journals of a company.
type JournalsClient interface {
	List(ctx context.Context, scope Scope, params *QueryParams) ([]Journal, error)
}

// JournalLinesClient manages the lines of a journal.
type JournalLinesClient interface {
	List(ctx context.Context, scope Scope, journalID string, params *QueryParams) ([]JournalLine, error)
	Create(ctx context.Context, scope Scope, journalID string, request *JournalLineCreateRequest) (*JournalLine, error)
}

// DimensionsClient lists dimensions and tags journal lines with dimension values.
type DimensionsClient interface {
	List(ctx context.Context, scope Scope, params *QueryParams) ([]Dimension, error)
	AddToJournalLine(ctx context.Context, scope Scope, journalLineID string, request *DimensionSetLineRequest) error
}

// AttachmentsClient uploads and removes document attachments.
type AttachmentsClient interface {
	// Upload creates the attachment record, then sends its content. When the
	// content step fails the returned error is a *PartialUploadError.
	Upload(ctx context.Context, scope Scope, request *AttachmentUploadRequest) error
	Delete(ctx context.Context, scope Scope, attachmentID string) error
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	Companies() CompaniesClient
	Vendors() VendorsClient
	Journals() JournalsClient
	JournalLines() JournalLinesClient
	Dimensions() DimensionsClient
	Attachments() AttachmentsClient
}

// TokenClient exposes the bearer token used by the client.
type TokenClient interface {
	// GetToken returns a token that stays valid for at least the expiry skew,
	// fetching a new one if needed.
	GetToken(ctx context.Context) (string, error)
	// RefreshToken discards the cached token and fetches a new one.
	RefreshToken(ctx context.Context) error
	// TokenExpiry reports the expiry of the cached token, zero if none.
	TokenExpiry() time.Time
}

// Client is the Business Central API client. Close releases the token cache
// when it holds resources such as a NATS connection.
type Client interface {
	ResourceClients
	TokenClient
	io.Closer
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a bc.Client.
//
// # Required fields
//
// TenantID, ClientID and ClientSecret are required; bcclient.New rejects a
// config missing any of them. Their values are not checked further: a wrong
// secret surfaces as an *AuthError on the first call.
//
// # Endpoints
//
// Tokens are requested from
// "https://login.microsoftonline.com/<tenant>/oauth2/v2.0/token" and resource
// calls go to "https://api.businesscentral.dynamics.com/v2.0/<tenant>/".
// TokenURL and APIEndpoint override these, mainly for tests.
//
// # Retries
//
// The client does not retry on its own. Setting RetryMax above zero opts in
// to retries of 5xx, 429 and connection errors with backoff between
// RetryWaitMin and RetryWaitMax.
type Config struct {
	// TenantID: Azure AD tenant owning the Business Central environment.
	TenantID string
	// ClientID: application (client) id registered for the client-credentials grant.
	ClientID string
	// ClientSecret: secret paired with ClientID.
	ClientSecret string

	// Scope overrides the requested token scope.
	Scope string
	// TokenURL overrides the identity endpoint.
	TokenURL string
	// APIEndpoint overrides the resource base URL, including the tenant segment.
	APIEndpoint string

	// HTTPTimeout bounds each HTTP round-trip. Zero uses the default.
	HTTPTimeout time.Duration
	// RetryMax: number of retries for transient failures. Zero disables retries.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries.
	RetryWaitMax time.Duration
	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and token manager.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string

	// TokenCache, when set, receives every issued token and seeds the client
	// with a still-valid one, so processes sharing the cache share a token.
	TokenCache Cache
	// Interceptors run around every resource request.
	Interceptors *InterceptorChain
}
