package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/fivetwenty-io/restnav/internal/constants"
	"github.com/fivetwenty-io/restnav/internal/schemagen"
	"github.com/spf13/cobra"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var (
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build an endpoint schema from an extracted documentation listing",
		Long: `Read a plain-text endpoint listing (blocks starting with "<VERB> /path",
followed by documentation lines) and emit the YAML endpoint schema the
navigator consumes. Documentation text is compressed and base64-encoded.`,
		Example: `  restnav generate -i endpoints.txt -o endpoints.yaml
  cat endpoints.txt | restnav generate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var reader io.Reader = cmd.InOrStdin()

			if input != "" && input != "-" {
				data, err := os.ReadFile(input)
				if err != nil {
					return fmt.Errorf("reading listing: %w", err)
				}

				reader = bytes.NewReader(data)
			}

			out, err := schemagen.Generate(reader)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(out)

				return err
			}

			err = os.WriteFile(output, out, constants.ConfigFilePerm)
			if err != nil {
				return fmt.Errorf("writing schema: %w", err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote schema to %s\n", output)

			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "endpoint listing file (default stdin)")
	cmd.Flags().StringVarP(&output, "output-file", "o", "", "schema output file (default stdout)")

	return cmd
}
