package client

import (
	"context"

	"github.com/fivetwenty-io/bcapi/internal/http"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
)

// CompaniesClient implements bc.CompaniesClient.
type CompaniesClient struct {
	httpClient *http.Client
}

// NewCompaniesClient creates a new companies client.
func NewCompaniesClient(httpClient *http.Client) *CompaniesClient {
	return &CompaniesClient{
		httpClient: httpClient,
	}
}

// List implements bc.CompaniesClient.List.
func (c *CompaniesClient) List(ctx context.Context, environment string, params *bc.QueryParams) ([]bc.Company, error) {
	return listResources[bc.Company](ctx, c.httpClient, companiesPath(environment), params, "companies")
}
