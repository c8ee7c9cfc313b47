// Package schemagen builds serialized endpoint-tree schemas from an
// extracted API documentation listing. It is an offline, one-shot tool: the
// runtime navigator only ever consumes its output.
package schemagen

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// httpMethods are the verbs recognized as endpoint definitions.
var httpMethods = map[string]bool{
	"OPTIONS": true,
	"GET":     true,
	"HEAD":    true,
	"POST":    true,
	"PUT":     true,
	"DELETE":  true,
	"TRACE":   true,
	"CONNECT": true,
}

// Endpoint is one extracted API operation: a verb, a raw documentation
// path (with [argName] placeholders), and its documentation text.
type Endpoint struct {
	Method string
	Path   string
	Doc    string
}

// ParseListing reads a plain-text endpoint listing. A block starts with a
// definition line, "<VERB> /path/..."; every following line up to the next
// definition belongs to that endpoint's documentation. The documentation
// text keeps the normalized definition line as its first line.
func ParseListing(r io.Reader) ([]Endpoint, error) {
	var (
		endpoints []Endpoint
		current   *Endpoint
		docLines  []string
	)

	flush := func() {
		if current == nil {
			return
		}

		current.Doc = strings.TrimRight(strings.Join(docLines, "\n"), "\n")
		endpoints = append(endpoints, *current)
		current = nil
		docLines = nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		verb, path, ok := splitDefinition(line)
		if ok {
			flush()

			current = &Endpoint{Method: verb, Path: path}
			docLines = []string{verb + " " + path}

			continue
		}

		if current != nil {
			docLines = append(docLines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}

	flush()

	return endpoints, nil
}

// splitDefinition recognizes an endpoint definition line.
func splitDefinition(line string) (verb, path string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", "", false
	}

	if !httpMethods[fields[0]] || !strings.HasPrefix(fields[1], "/") {
		return "", "", false
	}

	return fields[0], fields[1], true
}

// CamelToUnderscore translates camelCase into underscore format:
// "minutesBetweenSummaries" becomes "minutes_between_summaries".
func CamelToUnderscore(s string) string {
	var b strings.Builder

	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// isURLArg reports whether a path segment is a placeholder argument, e.g.
// "[idAction]".
func isURLArg(segment string) bool {
	return strings.HasPrefix(segment, "[") && strings.HasSuffix(segment, "]")
}

// segmentKey converts one raw path segment into its schema mapping key:
// placeholder segments become underscore-wrapped parameter keys, everything
// else is camelCase-normalized in place.
func segmentKey(segment string) string {
	if isURLArg(segment) {
		inner := strings.TrimSuffix(strings.TrimPrefix(segment, "["), "]")

		return "_" + strings.Trim(CamelToUnderscore(inner), "_") + "_"
	}

	return CamelToUnderscore(segment)
}

// BuildTree groups endpoints into the nested schema mapping. The first
// path element is the API version key and is kept verbatim; the rest are
// normalized via segmentKey. Each endpoint's documentation is packed and
// attached under METHODS; the first declaration of a verb at a node wins.
func BuildTree(endpoints []Endpoint) (map[string]interface{}, error) {
	tree := map[string]interface{}{}

	for _, ep := range endpoints {
		segments := strings.Split(strings.Trim(ep.Path, "/"), "/")
		if len(segments) == 0 || segments[0] == "" {
			return nil, fmt.Errorf("endpoint %s %s: empty path", ep.Method, ep.Path)
		}

		here := descend(tree, segments[0])
		for _, segment := range segments[1:] {
			here = descend(here, segmentKey(segment))
		}

		packed, err := PackDoc(ep.Doc)
		if err != nil {
			return nil, fmt.Errorf("endpoint %s %s: %w", ep.Method, ep.Path, err)
		}

		methods, _ := here["METHODS"].([][]string)
		if !hasVerb(methods, ep.Method) {
			here["METHODS"] = append(methods, []string{ep.Method, packed})
		}
	}

	return tree, nil
}

// descend returns the child mapping for key, creating it when absent.
func descend(node map[string]interface{}, key string) map[string]interface{} {
	child, ok := node[key].(map[string]interface{})
	if !ok {
		child = map[string]interface{}{}
		node[key] = child
	}

	return child
}

func hasVerb(methods [][]string, verb string) bool {
	for _, pair := range methods {
		if len(pair) > 0 && pair[0] == verb {
			return true
		}
	}

	return false
}

// PackDoc compresses documentation text for embedding in the schema:
// base64 over gzip over UTF-8.
func PackDoc(text string) (string, error) {
	var buf bytes.Buffer

	zw := gzip.NewWriter(&buf)

	_, err := zw.Write([]byte(text))
	if err != nil {
		return "", fmt.Errorf("compressing documentation: %w", err)
	}

	err = zw.Close()
	if err != nil {
		return "", fmt.Errorf("compressing documentation: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Generate runs the whole pipeline: parse the listing, build the tree, and
// serialize it as YAML.
func Generate(r io.Reader) ([]byte, error) {
	endpoints, err := ParseListing(r)
	if err != nil {
		return nil, err
	}

	tree, err := BuildTree(endpoints)
	if err != nil {
		return nil, err
	}

	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("serializing schema: %w", err)
	}

	return out, nil
}
