package cli

import (
	"github.com/spf13/cobra"
)

// addCommand creates the add command for indexing a single plugin.
func (c *CLI) addCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "add <owner/name>",
		Short: "Add a single plugin to the index",
		Long: `Add fetches the GitHub metadata of one repository and appends it to the
index file. Nothing is written if the plugin is already indexed.`,
		Example: `  plugindex add nvim-telescope/telescope.nvim
  plugindex add folke/lazy.nvim -o site/plugins.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			output = c.output(cmd, output)

			runner, closeCache, err := c.newRunner(ctx, clientOptions{})
			if err != nil {
				return err
			}
			defer closeCache()

			var spin *Spinner
			if stderr := cmd.ErrOrStderr(); isTerminal(stderr) {
				spin = newSpinnerWithContext(ctx, stderr, "Fetching "+args[0])
				spin.Start()
			}
			res, err := runner.Add(ctx, args[0], output)
			if spin != nil {
				spin.Stop()
			}
			if err != nil {
				return err
			}

			if !res.Added {
				printInfo(c.out, "Plugin %s is already indexed", res.Record.Reference())
				return nil
			}
			printSuccess(c.out, "Added plugin %s", res.Record.Reference())
			printFile(c.out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultOutput, "index file to update")
	return cmd
}

// output returns the flag value when given on the command line and the
// configured output otherwise.
func (c *CLI) output(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("output") {
		return flagValue
	}
	return c.Config.Output
}
