package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewDocsCommand creates the docs command.
func NewDocsCommand() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "docs <path>",
		Short: "Show the methods and documentation for a schema path",
		Example: `  restnav docs 1/boards/board_id=X
  restnav docs 1/search --full`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := loadSchema()
			if err != nil {
				return err
			}

			nav, err := navigate(schema, args[0])
			if err != nil {
				return err
			}

			node := nav.Node()

			if full {
				for _, method := range node.Methods() {
					doc, err := method.Doc()
					if err != nil {
						return err
					}

					fmt.Fprintf(os.Stdout, "%s\n\n", doc)
				}

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Method", "Summary")

			for _, method := range node.Methods() {
				doc, err := method.Doc()
				if err != nil {
					return err
				}

				_ = table.Append(method.Verb, docSummary(doc))
			}

			_ = table.Render()

			if keywords := node.ArgKeywords(); len(keywords) > 0 {
				fmt.Fprintf(os.Stdout, "\nParameters: %s\n", strings.Join(keywords, ", "))
			}

			if children := node.ChildNames(); len(children) > 0 {
				fmt.Fprintf(os.Stdout, "Sub-resources: %s\n", strings.Join(children, ", "))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "print full documentation text")

	return cmd
}

// docSummary picks the first non-empty line after the definition line.
func docSummary(doc string) string {
	lines := strings.Split(doc, "\n")
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}

	if len(lines) > 0 {
		return strings.TrimSpace(lines[0])
	}

	return ""
}
