package restnav

import (
	"errors"
	"fmt"
	"strings"
)

// Static errors for err113 compliance.
var (
	// ErrUnknownVersion means the requested API version is not present in
	// the schema root.
	ErrUnknownVersion = errors.New("unknown API version")

	// ErrUnknownPath means a static descent named a child the schema does
	// not declare at the current node.
	ErrUnknownPath = errors.New("unknown path segment")

	// ErrUnknownArgument means a parameter descent used a keyword the
	// schema does not declare at the current node.
	ErrUnknownArgument = errors.New("unknown argument")

	// ErrMissingArgument means a parameter descent was attempted with no
	// keyword at all.
	ErrMissingArgument = errors.New("missing argument")

	// ErrTooManyArguments means a parameter descent supplied more than one
	// keyword; a single invocation binds exactly one path argument.
	ErrTooManyArguments = errors.New("too many arguments")

	// ErrUnsupportedMethod means the dispatched HTTP verb is not declared
	// at the current node.
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrNoTransport means a request was dispatched on a navigator built
	// without a transport.
	ErrNoTransport = errors.New("no transport configured")

	// ErrMalformedSchema means the serialized schema did not match the
	// expected nested-mapping shape.
	ErrMalformedSchema = errors.New("malformed schema")
)

// NavigationError reports a failed navigation or dispatch step with enough
// context to recover: the operation, the resolved path so far, the name
// that failed, and the names that would have been legal.
type NavigationError struct {
	// Op is the failing operation: "child", "param", "dispatch", "version".
	Op string

	// Path is the URL resolved up to the failing navigator.
	Path string

	// Name is the offending segment, keyword, or verb, if any.
	Name string

	// Allowed lists the names legal at this node, for discoverability.
	Allowed []string

	// Err is one of the sentinel errors above.
	Err error
}

// Error implements the error interface.
func (e *NavigationError) Error() string {
	var b strings.Builder

	b.WriteString(e.Op)

	if e.Path != "" {
		fmt.Fprintf(&b, " %q", e.Path)
	}

	fmt.Fprintf(&b, ": %v", e.Err)

	if e.Name != "" {
		fmt.Fprintf(&b, ": %q", e.Name)
	}

	if len(e.Allowed) > 0 {
		fmt.Fprintf(&b, " (allowed: %s)", strings.Join(e.Allowed, ", "))
	}

	return b.String()
}

// Unwrap returns the sentinel so callers can branch with errors.Is.
func (e *NavigationError) Unwrap() error {
	return e.Err
}

// IsUnknownPath checks if the error is a failed static descent.
func IsUnknownPath(err error) bool {
	return errors.Is(err, ErrUnknownPath)
}

// IsUnknownArgument checks if the error is a parameter descent with an
// undeclared keyword.
func IsUnknownArgument(err error) bool {
	return errors.Is(err, ErrUnknownArgument)
}

// IsUnsupportedMethod checks if the error is a dispatch of an undeclared
// HTTP verb.
func IsUnsupportedMethod(err error) bool {
	return errors.Is(err, ErrUnsupportedMethod)
}
