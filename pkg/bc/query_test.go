package bc_test

import (
	"net/url"
	"testing"

	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/stretchr/testify/assert"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestFormatQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   *bc.QueryParams
		expected map[string]string
	}{
		{
			name:     "nil params",
			params:   nil,
			expected: nil,
		},
		{
			name:     "empty params",
			params:   bc.NewQueryParams(),
			expected: map[string]string{},
		},
		{
			name:     "top only",
			params:   bc.NewQueryParams().WithTop(5),
			expected: map[string]string{"$top": "5"},
		},
		{
			name:     "zero top is omitted",
			params:   &bc.QueryParams{Top: 0},
			expected: map[string]string{},
		},
		{
			name:     "order by",
			params:   bc.NewQueryParams().WithOrderBy("displayName", bc.SortDescending),
			expected: map[string]string{"$orderby": "displayName desc"},
		},
		{
			name:     "filter",
			params:   bc.NewQueryParams().WithFilter(bc.FilterStartsWith, "number", "V1"),
			expected: map[string]string{"$filter": "startswith(number,'V1')"},
		},
		{
			name: "all options",
			params: bc.NewQueryParams().
				WithFilter(bc.FilterContains, "displayName", "Acme").
				WithOrderBy("number", bc.SortAscending).
				WithTop(10),
			expected: map[string]string{
				"$top":     "10",
				"$orderby": "number asc",
				"$filter":  "contains(displayName,'Acme')",
			},
		},
		{
			name:     "value is not escaped",
			params:   bc.NewQueryParams().WithFilter(bc.FilterEndsWith, "displayName", "a b&c"),
			expected: map[string]string{"$filter": "endswith(displayName,'a b&c')"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := bc.FormatQuery(tt.params)
			assert.Equal(t, tt.expected, result)

			if tt.params != nil {
				assert.NotNil(t, result)
			}
		})
	}
}

func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	var nilParams *bc.QueryParams
	assert.Nil(t, nilParams.ToValues())

	values := bc.NewQueryParams().WithTop(3).WithOrderBy("code", bc.SortAscending).ToValues()
	assert.Equal(t, url.Values{
		"$top":     []string{"3"},
		"$orderby": []string{"code asc"},
	}, values)
}

func TestParseFilterOperation(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"startswith", "endswith", "contains"} {
		op, ok := bc.ParseFilterOperation(name)
		assert.True(t, ok)
		assert.Equal(t, bc.FilterOperation(name), op)
	}

	_, ok := bc.ParseFilterOperation("eq")
	assert.False(t, ok)
}

func TestParseSortDirection(t *testing.T) {
	t.Parallel()

	dir, ok := bc.ParseSortDirection("desc")
	assert.True(t, ok)
	assert.Equal(t, bc.SortDescending, dir)

	_, ok = bc.ParseSortDirection("down")
	assert.False(t, ok)
}
