package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/bcapi/internal/http"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
)

// DimensionsClient implements bc.DimensionsClient.
type DimensionsClient struct {
	httpClient *http.Client
}

// NewDimensionsClient creates a new dimensions client.
func NewDimensionsClient(httpClient *http.Client) *DimensionsClient {
	return &DimensionsClient{
		httpClient: httpClient,
	}
}

// List implements bc.DimensionsClient.List.
func (c *DimensionsClient) List(ctx context.Context, scope bc.Scope, params *bc.QueryParams) ([]bc.Dimension, error) {
	err := requireCompany(scope)
	if err != nil {
		return nil, err
	}

	return listResources[bc.Dimension](ctx, c.httpClient, companyPath(scope, entityDimensions), params, "dimensions")
}

// AddToJournalLine implements bc.DimensionsClient.AddToJournalLine.
func (c *DimensionsClient) AddToJournalLine(ctx context.Context, scope bc.Scope, journalLineID string, request *bc.DimensionSetLineRequest) error {
	err := requireCompany(scope)
	if err != nil {
		return err
	}

	if journalLineID == "" {
		return fmt.Errorf("journal line %w", bc.ErrIDRequired)
	}

	if request == nil {
		return bc.ErrRequestRequired
	}

	path := companyPath(scope, entitySegment(entityJournalLines, journalLineID), entityDimensionSetLines)

	_, err = c.httpClient.Post(ctx, path, request)
	if err != nil {
		return fmt.Errorf("adding dimension to journal line: %w", err)
	}

	return nil
}
