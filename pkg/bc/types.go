package bc

import "github.com/fivetwenty-io/bcapi/internal/constants"

// Scope identifies the environment and company a request targets.
type Scope struct {
	// Environment defaults to "Production" when empty.
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`
	CompanyID   string `json:"companyId"             yaml:"companyId"`
}

// EnvironmentOrDefault returns the scope's environment, or the default one.
func (s Scope) EnvironmentOrDefault() string {
	return EnvironmentOrDefault(s.Environment)
}

// EnvironmentOrDefault returns environment, or "Production" when it is empty.
func EnvironmentOrDefault(environment string) string {
	if environment == "" {
		return constants.DefaultEnvironment
	}

	return environment
}

// ListResponse is the collection envelope returned by the API.
type ListResponse[T any] struct {
	Context  string `json:"@odata.context,omitempty"  yaml:"context,omitempty"`
	NextLink string `json:"@odata.nextLink,omitempty" yaml:"nextLink,omitempty"`
	Value    []T    `json:"value"                     yaml:"value"`
}

// Ref is the minimal shape of a freshly created record.
type Ref struct {
	ID   string `json:"id"                     yaml:"id"`
	ETag string `json:"@odata.etag,omitempty" yaml:"etag,omitempty"`
}
