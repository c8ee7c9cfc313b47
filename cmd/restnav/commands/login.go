package commands

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrAPIKeyRequired means login ran without a key and stdin was empty.
var ErrAPIKeyRequired = errors.New("API key is required")

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var apiKey string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the API key used for requests",
		Long:  "Prompt for an API key and persist it in the CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				fmt.Fprint(os.Stderr, "API key: ")

				keyBytes, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("reading API key: %w", err)
				}

				fmt.Fprintln(os.Stderr)

				apiKey = string(keyBytes)
			}

			if apiKey == "" {
				return ErrAPIKeyRequired
			}

			config, err := loadConfigFile()
			if err != nil {
				return err
			}

			config.APIKey = apiKey

			if err := saveConfigFile(config); err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, "API key saved.")

			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (prompted when omitted)")

	return cmd
}
