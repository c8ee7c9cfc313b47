package commands

import (
	"os"

	"github.com/fivetwenty-io/restnav/pkg/restnav"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewTreeCommand creates the tree command.
func NewTreeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree [path]",
		Short: "List the endpoints declared under a schema path",
		Long: `Walk the endpoint schema and list every declared operation under the
given path. With no path, every version in the schema is listed.`,
		Example: `  restnav tree
  restnav tree 1/boards`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := loadSchema()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Method", "Path")

			emit := func(verb, path string) {
				_ = table.Append(verb, path)
			}

			if len(args) == 1 {
				nav, err := navigate(schema, args[0])
				if err != nil {
					return err
				}

				walkEndpoints(nav.Node(), nav.URL(), emit)
			} else {
				for _, version := range schema.Versions() {
					node, err := schema.Version(version)
					if err != nil {
						return err
					}

					walkEndpoints(node, version, emit)
				}
			}

			return table.Render()
		},
	}
}

// walkEndpoints visits a subtree depth-first, reporting every declared
// operation with its display path. Parameter children render as [keyword].
func walkEndpoints(node *restnav.Node, prefix string, emit func(verb, path string)) {
	for _, method := range node.Methods() {
		emit(method.Verb, prefix)
	}

	for _, keyword := range node.ArgKeywords() {
		child, _ := node.Param(keyword)
		walkEndpoints(child, prefix+"/["+keyword+"]", emit)
	}

	for _, name := range node.ChildNames() {
		child, _ := node.Child(name)
		walkEndpoints(child, prefix+"/"+name, emit)
	}
}
