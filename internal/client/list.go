package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/bcapi/internal/http"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
)

// listResources fetches a collection and unwraps its "value" array.
func listResources[T any](ctx context.Context, httpClient *http.Client, path string, params *bc.QueryParams, kind string) ([]T, error) {
	resp, err := httpClient.Get(ctx, path, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}

	var list bc.ListResponse[T]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing %s list: %w", kind, err)
	}

	if list.Value == nil {
		return []T{}, nil
	}

	return list.Value, nil
}

// decodeEntity unmarshals a single record returned by POST or PATCH.
func decodeEntity[T any](body []byte, kind string) (*T, error) {
	var entity T

	err := json.Unmarshal(body, &entity)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", kind, err)
	}

	return &entity, nil
}
