// Package commands implements the restnav CLI subcommands.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/restnav/internal/transport"
	"github.com/fivetwenty-io/restnav/pkg/restnav"
	"github.com/fivetwenty-io/restnav/pkg/trello"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	defaultJSONIndent = "  "
)

// Static errors for err113 compliance.
var (
	ErrEmptyPath       = errors.New("path must have at least one segment")
	ErrAmbiguousValue  = errors.New("segment matches no static child and the node declares several parameter keywords; use keyword=value")
	ErrBadParamBinding = errors.New("parameter binding must be keyword=value")
)

// loadSchema returns the schema selected by --schema, falling back to the
// embedded Trello schema.
func loadSchema() (*restnav.Schema, error) {
	schemaFile := viper.GetString("schema")
	if schemaFile == "" {
		return trello.Schema()
	}

	data, err := os.ReadFile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	schema, err := restnav.ParseSchema(data)
	if err != nil {
		return nil, fmt.Errorf("schema file %s: %w", schemaFile, err)
	}

	return schema, nil
}

// rootNavigator builds the root navigator for one schema version from the
// effective CLI configuration.
func rootNavigator(schema *restnav.Schema, version string) (*restnav.Navigator, error) {
	baseURL := viper.GetString("base_url")
	if baseURL == "" {
		baseURL = trello.BaseURL
	}

	transportOpts := []transport.Option{}
	if viper.GetBool("verbose") {
		transportOpts = append(transportOpts,
			transport.WithDebug(true),
			transport.WithLogger(newStderrLogger()),
		)
	}

	return restnav.New(schema, version, viper.GetString("api_key"),
		restnav.WithBaseURL(baseURL),
		restnav.WithTransport(transport.NewClient(transportOpts...)),
	)
}

// navigate resolves a slash-separated path into a navigator. The first
// segment selects the API version. Each later segment is tried as a static
// child first; a segment written as keyword=value binds that parameter
// explicitly, and a bare non-matching segment binds the node's single
// declared keyword when there is exactly one.
func navigate(schema *restnav.Schema, path string) (*restnav.Navigator, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, ErrEmptyPath
	}

	nav, err := rootNavigator(schema, segments[0])
	if err != nil {
		return nil, err
	}

	for _, segment := range segments[1:] {
		nav, err = descend(nav, segment)
		if err != nil {
			return nil, err
		}
	}

	return nav, nil
}

// descend applies one CLI path segment to a navigator.
func descend(nav *restnav.Navigator, segment string) (*restnav.Navigator, error) {
	if keyword, value, ok := strings.Cut(segment, "="); ok {
		if keyword == "" || value == "" {
			return nil, fmt.Errorf("%q: %w", segment, ErrBadParamBinding)
		}

		return nav.Params(map[string]interface{}{keyword: value})
	}

	next, err := nav.Child(segment)
	if err == nil {
		return next, nil
	}

	if !restnav.IsUnknownPath(err) {
		return nil, err
	}

	keywords := nav.Node().ArgKeywords()
	if len(keywords) == 1 {
		return nav.Param(keywords[0], segment)
	}

	if len(keywords) > 1 {
		return nil, fmt.Errorf("%q at %s: %w", segment, nav, ErrAmbiguousValue)
	}

	return nil, err
}

func splitPath(path string) []string {
	var segments []string

	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	return segments
}

// printBody writes a response body in the selected output format. Bodies
// that are not valid JSON are written verbatim regardless of format.
func printBody(body []byte) error {
	var decoded interface{}

	if err := json.Unmarshal(body, &decoded); err != nil {
		_, werr := os.Stdout.Write(append(body, '\n'))

		return werr
	}

	switch viper.GetString("output") {
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(decoded)
	default:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", defaultJSONIndent)

		return encoder.Encode(decoded)
	}
}

// stderrLogger is the CLI's restnav.Logger: key=value lines on stderr.
type stderrLogger struct{}

func newStderrLogger() restnav.Logger {
	return stderrLogger{}
}

func (stderrLogger) log(level, msg string, fields map[string]interface{}) {
	fmt.Fprintf(os.Stderr, "%s: %s", level, msg)

	for key, value := range fields {
		fmt.Fprintf(os.Stderr, " %s=%v", key, value)
	}

	fmt.Fprintln(os.Stderr)
}

func (l stderrLogger) Debug(msg string, fields map[string]interface{}) { l.log("debug", msg, fields) }
func (l stderrLogger) Info(msg string, fields map[string]interface{})  { l.log("info", msg, fields) }
func (l stderrLogger) Warn(msg string, fields map[string]interface{})  { l.log("warn", msg, fields) }
func (l stderrLogger) Error(msg string, fields map[string]interface{}) { l.log("error", msg, fields) }
