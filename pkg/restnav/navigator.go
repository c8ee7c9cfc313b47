package restnav

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Navigator is an immutable position in the endpoint tree: a schema node, the
// path resolved so far, and the credentials to dispatch with. Descent
// operations return a new Navigator and never touch the receiver, so callers
// can branch off any partial path and use the branches independently, from
// any number of goroutines.
type Navigator struct {
	node    *Node
	segment string
	parent  *Navigator
	cfg     *config
}

// config is shared by every navigator in one chain. It is written only by
// the root factory.
type config struct {
	baseURL   string
	apiKey    string
	transport Transport
	logger    Logger
}

// Option configures a root Navigator.
type Option func(*config)

// WithTransport sets the transport used by method dispatch.
func WithTransport(t Transport) Option {
	return func(c *config) {
		c.transport = t
	}
}

// WithBaseURL sets the address the resolved path is appended to.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLogger sets the logger used for dispatch debug logging.
func WithLogger(logger Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New builds the root Navigator for one API version: it binds the version's
// subtree, uses the version string as the root path segment, and propagates
// the API key to every descendant.
func New(schema *Schema, version, apiKey string, opts ...Option) (*Navigator, error) {
	node, err := schema.Version(version)
	if err != nil {
		return nil, err
	}

	cfg := &config{apiKey: apiKey}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Navigator{node: node, segment: version, cfg: cfg}, nil
}

// Child descends to a static sub-resource.
func (n *Navigator) Child(name string) (*Navigator, error) {
	child, ok := n.node.Child(name)
	if !ok {
		return nil, &NavigationError{
			Op:      "child",
			Path:    n.URL(),
			Name:    name,
			Allowed: n.node.ChildNames(),
			Err:     ErrUnknownPath,
		}
	}

	return &Navigator{node: child, segment: name, parent: n, cfg: n.cfg}, nil
}

// Param descends through a declared path parameter, capturing the value as
// the next path segment.
func (n *Navigator) Param(keyword string, value interface{}) (*Navigator, error) {
	child, ok := n.node.Param(keyword)
	if !ok {
		return nil, &NavigationError{
			Op:      "param",
			Path:    n.URL(),
			Name:    keyword,
			Allowed: n.node.ArgKeywords(),
			Err:     ErrUnknownArgument,
		}
	}

	return &Navigator{node: child, segment: fmt.Sprint(value), parent: n, cfg: n.cfg}, nil
}

// Params is the keyword-arguments form of Param, for callers that collect
// bindings dynamically. Exactly one binding must be supplied: a node may
// declare several parameter keywords, but a single descent captures a
// single path segment.
func (n *Navigator) Params(args map[string]interface{}) (*Navigator, error) {
	switch len(args) {
	case 0:
		return nil, &NavigationError{
			Op:      "param",
			Path:    n.URL(),
			Allowed: n.node.ArgKeywords(),
			Err:     ErrMissingArgument,
		}
	case 1:
		for keyword, value := range args {
			return n.Param(keyword, value)
		}
	}

	return nil, &NavigationError{
		Op:      "param",
		Path:    n.URL(),
		Allowed: n.node.ArgKeywords(),
		Err:     ErrTooManyArguments,
	}
}

// Node returns the schema node this navigator stands on.
func (n *Navigator) Node() *Node {
	return n.node
}

// URL resolves the path from the root to this navigator: segments joined by
// "/" in root-to-leaf order, empty segments elided (a version-less tree may
// use an empty root name). Pure and repeatable.
func (n *Navigator) URL() string {
	var segments []string
	for nav := n; nav != nil; nav = nav.parent {
		if nav.segment != "" {
			segments = append(segments, nav.segment)
		}
	}

	// Collected leaf-to-root; reverse in place.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}

	return strings.Join(segments, "/")
}

// MethodDoc returns the documentation text for a verb declared at this
// node, decompressing it on demand.
func (n *Navigator) MethodDoc(verb string) (string, error) {
	method, ok := n.node.Method(verb)
	if !ok {
		return "", n.unsupported(verb)
	}

	return method.Doc()
}

// Do dispatches an HTTP request for this navigator's resolved path. The
// verb must be declared at the current node. The API key is merged into a
// copy of opts.Params under "key" (force-set; other caller params are
// preserved) and the call is delegated to the transport. The response comes
// back uninterpreted: status handling, like retries, is the transport's and
// the caller's business.
func (n *Navigator) Do(ctx context.Context, verb string, opts *RequestOptions) (*Response, error) {
	verb = strings.ToUpper(verb)

	if _, ok := n.node.Method(verb); !ok {
		return nil, n.unsupported(verb)
	}

	if n.cfg.transport == nil {
		return nil, ErrNoTransport
	}

	merged := opts.Clone()
	merged.Params.Set("key", n.cfg.apiKey)

	rawURL := n.cfg.baseURL + "/" + n.URL()

	if n.cfg.logger != nil {
		n.cfg.logger.Debug("dispatching request", map[string]interface{}{
			"method": verb,
			"url":    rawURL,
		})
	}

	resp, err := n.cfg.transport.Request(ctx, verb, rawURL, merged)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", verb, rawURL, err)
	}

	return resp, nil
}

// Get dispatches GET for this navigator's path.
func (n *Navigator) Get(ctx context.Context, opts *RequestOptions) (*Response, error) {
	return n.Do(ctx, http.MethodGet, opts)
}

// Post dispatches POST for this navigator's path.
func (n *Navigator) Post(ctx context.Context, opts *RequestOptions) (*Response, error) {
	return n.Do(ctx, http.MethodPost, opts)
}

// Put dispatches PUT for this navigator's path.
func (n *Navigator) Put(ctx context.Context, opts *RequestOptions) (*Response, error) {
	return n.Do(ctx, http.MethodPut, opts)
}

// Delete dispatches DELETE for this navigator's path.
func (n *Navigator) Delete(ctx context.Context, opts *RequestOptions) (*Response, error) {
	return n.Do(ctx, http.MethodDelete, opts)
}

func (n *Navigator) unsupported(verb string) error {
	allowed := make([]string, 0, len(n.node.Methods()))
	for _, m := range n.node.Methods() {
		allowed = append(allowed, m.Verb)
	}

	return &NavigationError{
		Op:      "dispatch",
		Path:    n.URL(),
		Name:    strings.ToUpper(verb),
		Allowed: allowed,
		Err:     ErrUnsupportedMethod,
	}
}

// String returns a debug form exposing the resolved path.
func (n *Navigator) String() string {
	return fmt.Sprintf("Query<%q>", n.URL())
}
