// Package restnav provides a declarative REST-API client core: a static
// endpoint tree (the Schema) and an immutable, fluent Navigator over it.
//
// # Overview
//
// A Schema describes an API surface as a tree. Each node may declare HTTP
// methods (with packed documentation), static sub-resources, and named path
// parameters. A Navigator binds one schema node plus the path resolved so
// far; descending by static name or by parameter binding returns a new
// Navigator, and invoking a declared HTTP verb dispatches the request
// through a pluggable Transport. Navigators are never mutated, so partial
// paths can be branched and reused freely.
//
// Getting a navigator
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/restnav/pkg/restnav"
//	  "github.com/fivetwenty-io/restnav/pkg/trello"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  root, err := trello.NewV1("APIKEY")
//	  if err != nil { log.Fatal(err) }
//
//	  boards, err := root.Child("boards")
//	  if err != nil { log.Fatal(err) }
//
//	  board, err := boards.Param("board_id", "4d5ea62fd76aa1136000000c")
//	  if err != nil { log.Fatal(err) }
//
//	  resp, err := board.Get(ctx, &restnav.RequestOptions{
//	    Params: restnav.NewQueryParams().WithFields("name", "desc").ToValues(),
//	  })
//	  if err != nil { log.Fatal(err) }
//	  _ = resp
//	}
//
// # Errors
//
// Navigation failures are NavigationError values wrapping sentinel errors
// (ErrUnknownPath, ErrUnknownArgument, ErrMissingArgument,
// ErrTooManyArguments, ErrUnsupportedMethod). Helpers such as IsUnknownPath
// and IsUnsupportedMethod make it easy to branch on them. Transport
// failures pass through unwrapped by this taxonomy: the core neither
// retries nor inspects response status codes.
//
// # Schema format
//
// Schemas load from a nested YAML mapping keyed by API version. Inside a
// version, the reserved METHODS key holds [verb, doc] pairs where doc is
// base64 over gzip; keys wrapped in single underscores (_board_id_) declare
// path parameters; every other key is a static path segment. Documentation
// is decompressed lazily, only when requested.
package restnav
