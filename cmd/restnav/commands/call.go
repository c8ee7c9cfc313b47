package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/restnav/pkg/restnav"
	"github.com/spf13/cobra"
)

// NewCallCommand creates the call command.
func NewCallCommand() *cobra.Command {
	var (
		params []string
		data   string
	)

	cmd := &cobra.Command{
		Use:   "call <verb> <path>",
		Short: "Dispatch an HTTP request for a schema path",
		Long: `Resolve a slash-separated path against the endpoint schema and dispatch
the given HTTP verb on the resolved endpoint.

The first path segment selects the API version. A segment that does not
match a static child binds the node's declared path parameter; write it as
keyword=value when the node declares more than one keyword.`,
		Example: `  restnav call GET 1/boards/4d5ea62fd76aa1136000000c
  restnav call GET 1/boards/4d5ea62fd76aa1136000000c/cards --param fields=name
  restnav call POST 1/cards --param idList=LIST --param name="Buy milk"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			verb, path := args[0], args[1]

			schema, err := loadSchema()
			if err != nil {
				return err
			}

			nav, err := navigate(schema, path)
			if err != nil {
				return err
			}

			opts := &restnav.RequestOptions{Params: restnav.NewQueryParams().ToValues()}

			for _, param := range params {
				key, value, ok := strings.Cut(param, "=")
				if !ok {
					return fmt.Errorf("--param %q: %w", param, ErrBadParamBinding)
				}

				opts.Params.Add(key, value)
			}

			if data != "" {
				var body interface{}
				if err := json.Unmarshal([]byte(data), &body); err != nil {
					return fmt.Errorf("parsing --data: %w", err)
				}

				opts.Body = body
			}

			resp, err := nav.Do(cmd.Context(), verb, opts)
			if err != nil {
				return err
			}

			if resp.StatusCode >= 400 {
				fmt.Fprintf(cmd.ErrOrStderr(), "HTTP %d\n", resp.StatusCode)
			}

			return printBody(resp.Body)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")

	return cmd
}
