package restnav

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParams expresses common query-string options for a dispatch in a
// builder style. Zero value is usable; ToValues produces the url.Values to
// place in RequestOptions.Params.
type QueryParams struct {
	// Fields restricts which resource fields the API returns.
	Fields []string

	// Filter selects a server-side filter, e.g. "open" or "all".
	Filter string

	// Limit caps the number of returned entries; zero means server default.
	Limit int

	// Custom holds any additional key/value pairs.
	Custom map[string][]string
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{Custom: map[string][]string{}}
}

// WithFields sets the fields restriction.
func (q *QueryParams) WithFields(fields ...string) *QueryParams {
	q.Fields = fields

	return q
}

// WithFilter sets the filter.
func (q *QueryParams) WithFilter(filter string) *QueryParams {
	q.Filter = filter

	return q
}

// WithLimit sets the entry limit.
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Limit = limit

	return q
}

// With adds one custom key/value pair.
func (q *QueryParams) With(key, value string) *QueryParams {
	if q.Custom == nil {
		q.Custom = map[string][]string{}
	}

	q.Custom[key] = append(q.Custom[key], value)

	return q
}

// ToValues converts the params to url.Values. A nil receiver yields empty
// values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	if len(q.Fields) > 0 {
		values.Set("fields", strings.Join(q.Fields, ","))
	}

	if q.Filter != "" {
		values.Set("filter", q.Filter)
	}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	for key, vs := range q.Custom {
		for _, v := range vs {
			values.Add(key, v)
		}
	}

	return values
}
