// Package cmdline parses command lines into typed option values, positional arguments and a
// chain of nested subcommands, and dispatches to the matching action.
//
// A command tree is built once with [NewCommand] and [OptionConfig] values, then parsed with
// [Command.Parse] or run with [Command.Execute]:
//
//	root := cmdline.MustCommand(cmdline.CommandConfig{
//		Name:    "greet",
//		Version: "1.0.0\n",
//		Options: []cmdline.OptionConfig{
//			{LongForm: "name", ShortForm: 'n', Description: "who to greet <<NAME>>"},
//			{LongForm: "loud", ShortForm: 'l', Type: cmdline.TypeBoolean},
//		},
//		Action: func(ctx context.Context, c *cmdline.Command) error {
//			fmt.Fprintln(c.Stdout(), "hello", cmdline.GetValue[string](c, "name"))
//			return nil
//		},
//	})
//	err := root.Execute(ctx, os.Args, nil)
//
// Short options combine (-ln bob), long options take their value inline or as the next token
// (--name=bob, --name bob) and "--" ends option parsing. Every command gets --help/-h unless it
// is helpless, and --version/-v when it has a version.
package cmdline
