package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/bcapi/internal/http"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
)

// JournalLinesClient implements bc.JournalLinesClient.
type JournalLinesClient struct {
	httpClient *http.Client
}

// NewJournalLinesClient creates a new journal lines client.
func NewJournalLinesClient(httpClient *http.Client) *JournalLinesClient {
	return &JournalLinesClient{
		httpClient: httpClient,
	}
}

func journalLinesPath(scope bc.Scope, journalID string) string {
	return companyPath(scope, entitySegment(entityJournals, journalID), entityJournalLines)
}

// List implements bc.JournalLinesClient.List.
func (c *JournalLinesClient) List(ctx context.Context, scope bc.Scope, journalID string, params *bc.QueryParams) ([]bc.JournalLine, error) {
	err := requireCompany(scope)
	if err != nil {
		return nil, err
	}

	if journalID == "" {
		return nil, fmt.Errorf("journal %w", bc.ErrIDRequired)
	}

	return listResources[bc.JournalLine](ctx, c.httpClient, journalLinesPath(scope, journalID), params, "journal lines")
}

// Create implements bc.JournalLinesClient.Create. The request is sent with
// its journalId set to journalID; the caller's request is left untouched.
func (c *JournalLinesClient) Create(ctx context.Context, scope bc.Scope, journalID string, request *bc.JournalLineCreateRequest) (*bc.JournalLine, error) {
	err := requireCompany(scope)
	if err != nil {
		return nil, err
	}

	if journalID == "" {
		return nil, fmt.Errorf("journal %w", bc.ErrIDRequired)
	}

	if request == nil {
		return nil, bc.ErrRequestRequired
	}

	body := *request
	body.JournalID = journalID

	resp, err := c.httpClient.Post(ctx, journalLinesPath(scope, journalID), &body)
	if err != nil {
		return nil, fmt.Errorf("creating journal line: %w", err)
	}

	return decodeEntity[bc.JournalLine](resp.Body, "journal line")
}
