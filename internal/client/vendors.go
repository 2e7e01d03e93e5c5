package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/fivetwenty-io/bcapi/internal/http"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
)

// VendorsClient implements bc.VendorsClient.
type VendorsClient struct {
	httpClient *http.Client
}

// NewVendorsClient creates a new vendors client.
func NewVendorsClient(httpClient *http.Client) *VendorsClient {
	return &VendorsClient{
		httpClient: httpClient,
	}
}

// List implements bc.VendorsClient.List.
func (c *VendorsClient) List(ctx context.Context, scope bc.Scope, params *bc.QueryParams) ([]bc.Vendor, error) {
	err := requireCompany(scope)
	if err != nil {
		return nil, err
	}

	return listResources[bc.Vendor](ctx, c.httpClient, companyPath(scope, entityVendors), params, "vendors")
}

// Create implements bc.VendorsClient.Create.
func (c *VendorsClient) Create(ctx context.Context, scope bc.Scope, request *bc.VendorRequest) (*bc.Vendor, error) {
	err := requireCompany(scope)
	if err != nil {
		return nil, err
	}

	if request == nil {
		return nil, bc.ErrRequestRequired
	}

	resp, err := c.httpClient.Post(ctx, companyPath(scope, entityVendors), request)
	if err != nil {
		return nil, fmt.Errorf("creating vendor: %w", err)
	}

	return decodeEntity[bc.Vendor](resp.Body, "vendor")
}

// Update implements bc.VendorsClient.Update. The update is unconditional.
func (c *VendorsClient) Update(ctx context.Context, scope bc.Scope, vendorID string, request *bc.VendorRequest) (*bc.Vendor, error) {
	err := requireCompany(scope)
	if err != nil {
		return nil, err
	}

	if vendorID == "" {
		return nil, fmt.Errorf("vendor %w", bc.ErrIDRequired)
	}

	if request == nil {
		return nil, bc.ErrRequestRequired
	}

	resp, err := c.httpClient.Patch(ctx, companyPath(scope, entitySegment(entityVendors, vendorID)), request,
		map[string]string{constants.HeaderIfMatch: constants.IfMatchAny})
	if err != nil {
		return nil, fmt.Errorf("updating vendor: %w", err)
	}

	return decodeEntity[bc.Vendor](resp.Body, "vendor")
}
