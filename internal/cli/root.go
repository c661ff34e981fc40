package cli

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/matzehuels/plugindex/pkg/errors"
)

// Exit codes returned by [Execute].
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130 // Standard shell convention for SIGINT
)

// Execute runs the plugindex command line with args and returns the process
// exit code. Command output goes to stdout; logs and failures go to stderr,
// the latter formatted with [errors.Format].
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := New(stderr, LogInfo)
	c.out = stdout

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		errors.Format(stderr, err)
		return ExitFailure
	}
}
