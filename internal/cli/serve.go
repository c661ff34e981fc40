package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plugindex/pkg/server"
)

// serveCommand creates the serve command that exposes the index over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		output string
		addr   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the index to the web client",
		Long: `Serve exposes the index file over HTTP:

  GET /plugins.json                 the raw index file
  GET /api/plugins?q=&sort=&limit=  search and sort plugins
  GET /api/plugins/{owner}/{name}   a single plugin
  GET /healthz                      liveness and record count

The file is re-read whenever it changes on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			output = c.output(cmd, output)
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			printInfo(c.out, "Serving %s at %s", output, StyleLink.Render(displayURL(addr)))
			return server.New(output, loggerFromContext(ctx)).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultOutput, "index file to serve")
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	return cmd
}

// displayURL turns a listen address into a clickable URL.
func displayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
