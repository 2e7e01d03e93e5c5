package client

import (
	"context"

	"github.com/fivetwenty-io/bcapi/internal/http"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
)

// JournalsClient implements bc.JournalsClient.
type JournalsClient struct {
	httpClient *http.Client
}

// NewJournalsClient creates a new journals client.
func NewJournalsClient(httpClient *http.Client) *JournalsClient {
	return &JournalsClient{
		httpClient: httpClient,
	}
}

// List implements bc.JournalsClient.List.
func (c *JournalsClient) List(ctx context.Context, scope bc.Scope, params *bc.QueryParams) ([]bc.Journal, error) {
	err := requireCompany(scope)
	if err != nil {
		return nil, err
	}

	return listResources[bc.Journal](ctx, c.httpClient, companyPath(scope, entityJournals), params, "journals")
}
