package cmdline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mfridman/cmdline/pkg/ctxlog"
)

// ExecuteOptions specifies options for executing a command.
type ExecuteOptions struct {
	// PrintErrors writes any error to Stderr and makes Execute return nil instead of the error.
	PrintErrors bool

	// Stdout and Stderr are the output streams of the command tree. If nil, [os.Stdout] and
	// [os.Stderr] are used.
	Stdout, Stderr io.Writer

	// Logger is made available to actions and the engine through the context, see
	// [ctxlog.FromContext]. Defaults to [slog.Default].
	Logger *slog.Logger
}

// Execute parses args like [Command.Parse] and runs the result: the active switch action of the
// last command named on the command line, else that command's action, else its help text.
//
// Unless the command was created with NoEngine, everything runs inside its [Engine].
//
// The options parameter may be nil, in which case default values are used. See
// [ExecuteOptions] for more details.
func (c *Command) Execute(ctx context.Context, args []string, options *ExecuteOptions) error {
	options = checkAndSetExecuteOptions(options)
	c.stdout, c.stderr = options.Stdout, options.Stderr
	ctx = ctxlog.WithLogger(ctx, options.Logger)
	if args == nil {
		args = os.Args
	}

	run := func(ctx context.Context) error {
		if err := c.parse(args); err != nil {
			return err
		}
		return c.dispatch(ctx)
	}

	var err error
	if c.noEngine {
		err = run(ctx)
	} else {
		engine := c.engine
		if engine == nil {
			engine = &DefaultEngine{}
		}
		err = engine.Run(ctx, run)
	}
	if err != nil && options.PrintErrors {
		fmt.Fprintf(options.Stderr, "error: %v\n", err)
		return nil
	}
	return err
}

func (c *Command) dispatch(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	last := c.resolve()
	switch {
	case last.activeSwitch != nil:
		logger.Debug("running switch action", "command", last.Path(), "option", last.activeSwitch.Name())
		return last.activeSwitch.action(ctx, last)
	case last.action != nil:
		logger.Debug("running command action", "command", last.Path(), "args", last.arguments)
		return last.action(ctx, last)
	default:
		logger.Debug("no action, printing help", "command", last.Path())
		return printUsage(ctx, last)
	}
}

func checkAndSetExecuteOptions(opt *ExecuteOptions) *ExecuteOptions {
	if opt == nil {
		opt = &ExecuteOptions{}
	}
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return opt
}
