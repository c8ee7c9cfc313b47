// Package trello exposes the generated Trello API surface: an embedded
// endpoint schema plus one entry point per declared API version. Most
// consumers should start here and navigate with the returned
// restnav.Navigator; the lower-level restnav package is for callers
// bringing their own schema.
package trello

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/fivetwenty-io/restnav/internal/transport"
	"github.com/fivetwenty-io/restnav/pkg/restnav"
)

// BaseURL is the address resolved paths are appended to.
const BaseURL = "https://trello.com"

// V1 is the only API version currently embedded.
const V1 = "1"

//go:embed endpoints.yaml
var endpointsYAML []byte

var (
	schemaOnce sync.Once
	schema     *restnav.Schema
	schemaErr  error
)

// Schema parses the embedded endpoint tree, once per process.
func Schema() (*restnav.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = restnav.ParseSchema(endpointsYAML)
	})

	if schemaErr != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", schemaErr)
	}

	return schema, nil
}

// Versions lists the API versions declared in the embedded schema.
func Versions() ([]string, error) {
	s, err := Schema()
	if err != nil {
		return nil, err
	}

	return s.Versions(), nil
}

// New returns a root navigator for one embedded API version. A default
// retrying transport and the Trello base URL are wired in; caller options
// are applied afterwards and may override both.
func New(version, apiKey string, opts ...restnav.Option) (*restnav.Navigator, error) {
	s, err := Schema()
	if err != nil {
		return nil, err
	}

	defaults := []restnav.Option{
		restnav.WithBaseURL(BaseURL),
		restnav.WithTransport(transport.NewClient()),
	}

	return restnav.New(s, version, apiKey, append(defaults, opts...)...)
}

// NewV1 returns a root navigator for version 1 of the Trello API.
func NewV1(apiKey string, opts ...restnav.Option) (*restnav.Navigator, error) {
	return New(V1, apiKey, opts...)
}
