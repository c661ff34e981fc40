package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plugindex/pkg/indexer"
)

// indexCommand creates the index command that rebuilds the whole index.
func (c *CLI) indexCommand() *cobra.Command {
	var (
		output  string
		pretty  bool
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the index from the awesome-neovim list",
		Long: `Index fetches the plugin list README, extracts every owner/name reference
found in its list items and enriches each one with GitHub metadata.

Plugins already in the index but no longer listed are kept. Plugins that fail
to enrich are reported and left out; the command still succeeds.`,
		Example: `  plugindex index
  plugindex index -o site/plugins.json --pretty
  plugindex index --refresh -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			output = c.output(cmd, output)

			source, err := c.Config.source()
			if err != nil {
				return err
			}

			runner, closeCache, err := c.newRunner(ctx, clientOptions{noCache: noCache, refresh: refresh})
			if err != nil {
				return err
			}
			defer closeCache()

			prog := newProgress(loggerFromContext(ctx))
			res, err := runner.Index(ctx, indexer.IndexOptions{
				Output: output,
				Source: source,
				Pretty: pretty,
			})
			if err != nil {
				return err
			}
			prog.done("Index complete")

			c.printIndexSummary(res, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultOutput, "index file to write")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the written JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached metadata and refetch every plugin")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the metadata cache")

	return cmd
}

func (c *CLI) printIndexSummary(res *indexer.IndexResult, output string) {
	fmt.Fprintln(c.out)
	printSuccess(c.out, "Indexed %s plugins", StyleNumber.Render(fmt.Sprint(res.Added)))
	printKeyValue(c.out, "scraped", fmt.Sprint(res.Scraped))
	if len(res.Preserved) > 0 {
		printKeyValue(c.out, "preserved", fmt.Sprint(len(res.Preserved)))
	}
	if res.Duplicates > 0 {
		printKeyValue(c.out, "duplicates", fmt.Sprint(res.Duplicates))
	}
	if n := len(res.Failed); n > 0 {
		printWarning(c.out, "%d plugins could not be enriched", n)
	}
	printFile(c.out, output)
}
