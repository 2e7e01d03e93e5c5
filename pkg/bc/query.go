package bc

import (
	"fmt"
	"net/url"
	"strconv"
)

// FilterOperation is an OData string function usable in $filter.
type FilterOperation string

const (
	FilterStartsWith FilterOperation = "startswith"
	FilterEndsWith   FilterOperation = "endswith"
	FilterContains   FilterOperation = "contains"
)

// SortDirection is the direction of an $orderby clause.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Query parameter keys understood by the API.
const (
	ParamTop     = "$top"
	ParamOrderBy = "$orderby"
	ParamFilter  = "$filter"
)

// Filter is a single string-function filter on one field.
type Filter struct {
	Operation FilterOperation `json:"operation" yaml:"operation"`
	Field     string          `json:"field"     yaml:"field"`
	// Value is placed between single quotes as is. Callers must not pass
	// values containing a single quote.
	Value string `json:"value" yaml:"value"`
}

// OrderBy is a single sort key.
type OrderBy struct {
	Field     string        `json:"field"     yaml:"field"`
	Direction SortDirection `json:"direction" yaml:"direction"`
}

// QueryParams holds the list options of a request: at most one filter, one
// sort key and one limit.
type QueryParams struct {
	Filter  *Filter  `json:"filter,omitempty"  yaml:"filter,omitempty"`
	OrderBy *OrderBy `json:"orderBy,omitempty" yaml:"orderBy,omitempty"`
	// Top limits the number of returned records; zero means no limit.
	Top int `json:"top,omitempty" yaml:"top,omitempty"`
}

// NewQueryParams creates empty query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithFilter sets the filter.
func (q *QueryParams) WithFilter(operation FilterOperation, field, value string) *QueryParams {
	q.Filter = &Filter{Operation: operation, Field: field, Value: value}

	return q
}

// WithOrderBy sets the sort key.
func (q *QueryParams) WithOrderBy(field string, direction SortDirection) *QueryParams {
	q.OrderBy = &OrderBy{Field: field, Direction: direction}

	return q
}

// WithTop sets the record limit.
func (q *QueryParams) WithTop(top int) *QueryParams {
	q.Top = top

	return q
}

// String renders the filter as an OData expression.
func (f *Filter) String() string {
	return fmt.Sprintf("%s(%s,'%s')", f.Operation, f.Field, f.Value)
}

// String renders the sort key as an OData $orderby value.
func (o *OrderBy) String() string {
	return o.Field + " " + string(o.Direction)
}

// FormatQuery translates query parameters into the flat parameter mapping
// sent to the API. It returns nil for nil params and an empty, non-nil map
// for params without any option set.
func FormatQuery(params *QueryParams) map[string]string {
	if params == nil {
		return nil
	}

	query := make(map[string]string)

	if params.Top > 0 {
		query[ParamTop] = strconv.Itoa(params.Top)
	}

	if params.OrderBy != nil {
		query[ParamOrderBy] = params.OrderBy.String()
	}

	if params.Filter != nil {
		query[ParamFilter] = params.Filter.String()
	}

	return query
}

// ToValues converts the parameters to url.Values, nil for nil params.
func (q *QueryParams) ToValues() url.Values {
	query := FormatQuery(q)
	if query == nil {
		return nil
	}

	values := make(url.Values, len(query))
	for key, value := range query {
		values.Set(key, value)
	}

	return values
}

// ParseFilterOperation validates an operation name.
func ParseFilterOperation(name string) (FilterOperation, bool) {
	switch op := FilterOperation(name); op {
	case FilterStartsWith, FilterEndsWith, FilterContains:
		return op, true
	default:
		return "", false
	}
}

// ParseSortDirection validates a direction name.
func ParseSortDirection(name string) (SortDirection, bool) {
	switch dir := SortDirection(name); dir {
	case SortAscending, SortDescending:
		return dir, true
	default:
		return "", false
	}
}
