package restnav

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// MethodsKey is the reserved mapping key that carries a node's HTTP method
// declarations in the serialized schema.
const MethodsKey = "METHODS"

// Schema is the loaded endpoint tree, keyed by API version at the root. It
// is built once and never mutated; navigators hold references into it.
type Schema struct {
	versions map[string]*Node
}

// Node is one point of the endpoint tree. A node may declare HTTP methods
// and carry static and parameter children at the same time (GET /board/{id}
// next to GET /board/{id}/cards).
type Node struct {
	name     string
	methods  []Method
	children map[string]*Node
	params   map[string]*Node
}

// Method is one HTTP verb declared at a node. Documentation is stored in
// its packed wire form (base64 over gzip) and only decoded on demand.
type Method struct {
	Verb   string
	packed string
}

// Doc decompresses and returns the documentation text for this method.
func (m Method) Doc() (string, error) {
	if m.packed == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(m.packed)
	if err != nil {
		return "", fmt.Errorf("decoding %s documentation: %w", m.Verb, err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decompressing %s documentation: %w", m.Verb, err)
	}
	defer zr.Close()

	text, err := io.ReadAll(zr)
	if err != nil {
		return "", fmt.Errorf("decompressing %s documentation: %w", m.Verb, err)
	}

	return string(text), nil
}

// ParseSchema loads a serialized endpoint tree. The input is a nested YAML
// mapping: the root keys are API versions; below that, a METHODS key holds
// [verb, packedDoc] pairs, keys wrapped in single underscores declare path
// parameters, and any other key is a static path segment.
func ParseSchema(data []byte) (*Schema, error) {
	var raw map[string]interface{}

	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}

	versions := make(map[string]*Node, len(raw))

	for version, subtree := range raw {
		node, err := buildNode(version, subtree)
		if err != nil {
			return nil, fmt.Errorf("version %q: %w", version, err)
		}

		versions[version] = node
	}

	return &Schema{versions: versions}, nil
}

// buildNode recursively converts one raw subtree mapping. Recursion depth
// is bounded by the input; the serialized form cannot express cycles.
func buildNode(name string, raw interface{}) (*Node, error) {
	node := &Node{
		name:     name,
		children: map[string]*Node{},
		params:   map[string]*Node{},
	}

	if raw == nil {
		return node, nil
	}

	mapping, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: subtree is %T, want mapping", ErrMalformedSchema, raw)
	}

	for key, value := range mapping {
		switch {
		case key == MethodsKey:
			methods, err := buildMethods(value)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", name, err)
			}

			node.methods = methods
		case isParamKey(key):
			child, err := buildNode(key, value)
			if err != nil {
				return nil, err
			}

			node.params[strings.Trim(key, "_")] = child
		default:
			child, err := buildNode(key, value)
			if err != nil {
				return nil, err
			}

			node.children[key] = child
		}
	}

	return node, nil
}

// buildMethods converts a raw METHODS value: a sequence of two-element
// [verb, packedDoc] sequences, in declaration order.
func buildMethods(raw interface{}) ([]Method, error) {
	seq, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: METHODS is %T, want sequence", ErrMalformedSchema, raw)
	}

	methods := make([]Method, 0, len(seq))

	for _, entry := range seq {
		pair, ok := entry.([]interface{})
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%w: METHODS entry must be a [verb, doc] pair", ErrMalformedSchema)
		}

		verb, ok := pair[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: METHODS verb must be a string", ErrMalformedSchema)
		}

		doc, ok := pair[1].(string)
		if !ok {
			return nil, fmt.Errorf("%w: METHODS documentation must be a string", ErrMalformedSchema)
		}

		methods = append(methods, Method{Verb: strings.ToUpper(verb), packed: doc})
	}

	return methods, nil
}

// isParamKey reports whether a mapping key declares a path parameter, i.e.
// it is wrapped in a single leading and trailing underscore.
func isParamKey(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "_") && strings.HasSuffix(key, "_")
}

// Versions returns the API versions declared at the schema root, sorted.
func (s *Schema) Versions() []string {
	versions := make([]string, 0, len(s.versions))
	for v := range s.versions {
		versions = append(versions, v)
	}

	sort.Strings(versions)

	return versions
}

// Version returns the root node for one API version.
func (s *Schema) Version(version string) (*Node, error) {
	node, ok := s.versions[version]
	if !ok {
		return nil, &NavigationError{
			Op:      "version",
			Name:    version,
			Allowed: s.Versions(),
			Err:     ErrUnknownVersion,
		}
	}

	return node, nil
}

// Name returns the node's own path segment: its static name, or the
// underscore-wrapped parameter key it was declared under.
func (n *Node) Name() string {
	return n.name
}

// Child performs a static descent lookup.
func (n *Node) Child(name string) (*Node, bool) {
	child, ok := n.children[name]

	return child, ok
}

// Param resolves a parameter keyword (without delimiters) to its subtree.
func (n *Node) Param(keyword string) (*Node, bool) {
	child, ok := n.params[keyword]

	return child, ok
}

// ArgKeywords returns the parameter keywords declared directly under this
// node, sorted.
func (n *Node) ArgKeywords() []string {
	keywords := make([]string, 0, len(n.params))
	for k := range n.params {
		keywords = append(keywords, k)
	}

	sort.Strings(keywords)

	return keywords
}

// ChildNames returns the static child names declared under this node,
// sorted.
func (n *Node) ChildNames() []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Methods returns the HTTP methods declared at this node, in declaration
// order. The slice is empty for purely structural nodes.
func (n *Node) Methods() []Method {
	return n.methods
}

// Method returns the declaration for one HTTP verb, case-insensitively.
func (n *Node) Method(verb string) (Method, bool) {
	verb = strings.ToUpper(verb)
	for _, m := range n.methods {
		if m.Verb == verb {
			return m, true
		}
	}

	return Method{}, false
}
