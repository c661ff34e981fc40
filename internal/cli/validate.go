package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/store"
)

// validateCommand creates the validate command that checks an index file.
func (c *CLI) validateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an index file against the index schema",
		Long: `Validate checks that the index file is an array of complete plugin records
and that no plugin appears twice. Every violation is listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output = c.output(cmd, output)

			violations, err := store.ValidateFile(output)
			if err != nil {
				return err
			}
			if len(violations) == 0 {
				printSuccess(c.out, "%s is valid", StyleHighlight.Render(output))
				return nil
			}

			for _, v := range violations {
				printError(c.out, "%s", v)
			}
			return errors.New(errors.ErrCodeInvalidFormat, "%s has %d violations", output, len(violations))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultOutput, "index file to check")
	return cmd
}
