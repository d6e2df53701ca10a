package cmdline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mfridman/cmdline/pkg/suggest"
)

// ActionFunc is the work run by [Command.Execute]. It receives the command that resolved the
// action, which is the deepest subcommand named on the command line.
type ActionFunc func(ctx context.Context, c *Command) error

// CommandConfig describes a command. Only Name is required.
type CommandConfig struct {
	// Name is a single word identifying the command. It must not start with '-'.
	Name string

	// Description and Notes are free text shown in the help output.
	Description string
	Notes       string
	// Synopsis lists usage patterns. Each is shown after the command's full name.
	//
	// Example: "[OPTIONS] <file>..."
	Synopsis []string
	// Examples are shown verbatim, one per line.
	Examples []string

	Options     []OptionConfig
	Subcommands []*Command

	// Action runs when this command is the last one named on the command line and no switch
	// action was given. Without it, the command prints its help.
	Action ActionFunc

	// Helpless disables the automatic --help/-h option and help subcommand.
	Helpless bool
	// Version enables the automatic --version/-v option and version subcommand.
	Version   string
	Copyright string
	BugEmail  string

	// Formatter renders the help text. Defaults to [DefaultUsage].
	Formatter func(*Command) string

	// Engine wraps [Command.Execute] of this command when it is the root of execution.
	// Defaults to [DefaultEngine]. NoEngine runs without any wrapper.
	Engine   Engine
	NoEngine bool
}

// Command is a node in a command tree: its options, its subcommands and the result of the last
// parse.
type Command struct {
	name        string
	description string
	notes       string
	synopsis    []string
	examples    []string

	options []*Option
	byLong  map[string]*Option
	byShort map[rune]*Option

	subcommands     map[string]*Command
	subcommandOrder []*Command
	parent          *Command

	action    ActionFunc
	helpless  bool
	version   string
	copyright string
	bugEmail  string
	formatter func(*Command) string
	engine    Engine
	noEngine  bool
	builtin   bool

	preParsed bool

	arguments        []string
	activeSubcommand *Command
	activeSwitch     *Option

	stdout, stderr io.Writer
}

// NewCommand validates cfg and returns the command, with its options and subcommands
// registered.
func NewCommand(cfg CommandConfig) (*Command, error) {
	if err := validateName(cfg.Name); err != nil {
		return nil, err
	}
	c := &Command{
		name:        cfg.Name,
		description: cfg.Description,
		notes:       cfg.Notes,
		synopsis:    cfg.Synopsis,
		examples:    cfg.Examples,
		byLong:      make(map[string]*Option),
		byShort:     make(map[rune]*Option),
		subcommands: make(map[string]*Command),
		action:      cfg.Action,
		helpless:    cfg.Helpless,
		version:     cfg.Version,
		copyright:   cfg.Copyright,
		bugEmail:    cfg.BugEmail,
		formatter:   cfg.Formatter,
		engine:      cfg.Engine,
		noEngine:    cfg.NoEngine,
	}
	for _, oc := range cfg.Options {
		if _, err := c.AddOptionConfig(oc); err != nil {
			return nil, fmt.Errorf("command %q: %w", c.name, err)
		}
	}
	for _, sub := range cfg.Subcommands {
		if err := c.AddSubcommand(sub); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustCommand is like [NewCommand] but panics on error. Intended for static command trees.
func MustCommand(cfg CommandConfig) *Command {
	c, err := NewCommand(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

func validateName(name string) error {
	switch {
	case name == "":
		return errorf(ErrInvalidCommand, "command has no name")
	case strings.HasPrefix(name, "-"):
		return errorf(ErrInvalidCommand, "command name %q must not start with '-'", name)
	case strings.ContainsAny(name, " \t\n"):
		return errorf(ErrInvalidCommand, "command name %q contains spaces, must be a single word", name)
	}
	return nil
}

// AddOption registers opt. The long and short forms must be unique within this command;
// subcommands have their own namespaces.
func (c *Command) AddOption(opt *Option) error {
	if opt == nil {
		return errorf(ErrInvalidOption, "command %q: option is nil", c.name)
	}
	if opt.long != "" {
		if _, ok := c.byLong[opt.long]; ok {
			return errorf(ErrDuplicateOption, "command %q: option --%s already registered", c.name, opt.long)
		}
	}
	if opt.short != 0 {
		if _, ok := c.byShort[opt.short]; ok {
			return errorf(ErrDuplicateOption, "command %q: option -%c already registered", c.name, opt.short)
		}
	}
	if opt.long != "" {
		c.byLong[opt.long] = opt
	}
	if opt.short != 0 {
		c.byShort[opt.short] = opt
	}
	c.options = append(c.options, opt)
	return nil
}

// AddOptionConfig builds an option from cfg and registers it.
func (c *Command) AddOptionConfig(cfg OptionConfig) (*Option, error) {
	opt, err := NewOption(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.AddOption(opt); err != nil {
		return nil, err
	}
	return opt, nil
}

// AddSubcommand registers sub under its name and makes c its parent.
func (c *Command) AddSubcommand(sub *Command) error {
	if sub == nil {
		return errorf(ErrInvalidCommand, "command %q: subcommand is nil", c.name)
	}
	if _, ok := c.subcommands[sub.name]; ok {
		return errorf(ErrDuplicateSubcommand, "command %q: subcommand %q already registered", c.name, sub.name)
	}
	c.subcommands[sub.name] = sub
	c.subcommandOrder = append(c.subcommandOrder, sub)
	sub.parent = c
	return nil
}

// SetHelpless turns the automatic help option and subcommand off or on. It fails once the
// command has been parsed or its help rendered.
func (c *Command) SetHelpless(helpless bool) error {
	if c.preParsed {
		return errorf(ErrState, "command %q: cannot change help after first parse", c.name)
	}
	c.helpless = helpless
	return nil
}

// SetVersion sets the version string. It fails once the command has been parsed or its help
// rendered.
func (c *Command) SetVersion(version string) error {
	if c.preParsed {
		return errorf(ErrState, "command %q: cannot change version after first parse", c.name)
	}
	c.version = version
	return nil
}

// SetAction replaces the command's action.
func (c *Command) SetAction(fn ActionFunc) { c.action = fn }

func (c *Command) Name() string { return c.name }
func (c *Command) Description() string { return c.description }
func (c *Command) Notes() string { return c.notes }

// Synopsis returns the usage lines shown after the command path, without the path.
func (c *Command) Synopsis() []string { return c.synopsis }

func (c *Command) Examples() []string { return c.examples }

// Version returns the text printed verbatim by --version.
func (c *Command) Version() string { return c.version }
func (c *Command) Copyright() string { return c.copyright }
func (c *Command) BugEmail() string { return c.bugEmail }

// Helpless reports whether the command goes without the automatic help option and subcommand.
func (c *Command) Helpless() bool { return c.helpless }

// Parent returns the command c is registered under, or nil for the root.
func (c *Command) Parent() *Command { return c.parent }

// Options returns the options of c in registration order. After the first parse or usage
// rendering this includes the injected --version and --help options, last.
func (c *Command) Options() []*Option { return c.options }

// Subcommands returns the subcommands of c in registration order. After the first parse or
// usage rendering this includes the built-in version and help subcommands, last.
func (c *Command) Subcommands() []*Command { return c.subcommandOrder }

// Option returns the option registered under key: a long form, or a single-character short
// form. It returns nil if there is none.
func (c *Command) Option(key string) *Option {
	if opt, ok := c.byLong[key]; ok {
		return opt
	}
	if r := []rune(key); len(r) == 1 {
		return c.byShort[r[0]]
	}
	return nil
}

// Subcommand returns the subcommand with the given name, or nil.
func (c *Command) Subcommand(name string) *Command {
	return c.subcommands[name]
}

// Path is the space-separated chain of command names from the root down to c.
func (c *Command) Path() string {
	var names []string
	for cmd := c; cmd != nil; cmd = cmd.parent {
		names = append(names, cmd.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " ")
}

// Arguments are the positional arguments left after the last parse.
func (c *Command) Arguments() []string { return c.arguments }

// ActiveSubcommand is the subcommand that consumed the rest of the command line in the last
// parse, or nil.
func (c *Command) ActiveSubcommand() *Command { return c.activeSubcommand }

// ActiveSwitch is the action-bearing switch given in the last parse, or nil.
func (c *Command) ActiveSwitch() *Option { return c.activeSwitch }

// Stdout is where actions of this command write. It is inherited from the parent command and
// defaults to [os.Stdout].
func (c *Command) Stdout() io.Writer {
	for cmd := c; cmd != nil; cmd = cmd.parent {
		if cmd.stdout != nil {
			return cmd.stdout
		}
	}
	return os.Stdout
}

// Stderr is like [Command.Stdout] for error output.
func (c *Command) Stderr() io.Writer {
	for cmd := c; cmd != nil; cmd = cmd.parent {
		if cmd.stderr != nil {
			return cmd.stderr
		}
	}
	return os.Stderr
}

// Usage renders the help text of the command with its formatter.
func (c *Command) Usage() string {
	c.preParse()
	if c.formatter != nil {
		return c.formatter(c)
	}
	return DefaultUsage(c)
}

// Clear resets every option of c and its subcommands to its default and forgets the arguments,
// active subcommand and active switch of the last parse.
func (c *Command) Clear() {
	for _, opt := range c.options {
		opt.Clear()
	}
	c.arguments = nil
	c.activeSubcommand = nil
	c.activeSwitch = nil
	for _, sub := range c.subcommandOrder {
		sub.Clear()
	}
}

// preParse adds the automatic version and help options, and their subcommand mirrors when the
// command has subcommands. It runs once.
func (c *Command) preParse() {
	if c.preParsed {
		return
	}
	c.preParsed = true

	if c.version != "" {
		c.addBuiltinSwitch("version", 'v', "Show version information and exit.", printVersion)
		if len(c.subcommandOrder) > 0 && c.subcommands["version"] == nil {
			c.addBuiltinSubcommand(&Command{
				name:        "version",
				description: "Show version information and exit.",
				action: func(ctx context.Context, vc *Command) error {
					return printVersion(ctx, vc.parent)
				},
			})
		}
	}
	if !c.helpless {
		c.addBuiltinSwitch("help", 'h', "Show this help and exit.", printUsage)
		if len(c.subcommandOrder) > 0 && c.subcommands["help"] == nil {
			c.addBuiltinSubcommand(&Command{
				name:        "help",
				description: "Show help for a command.",
				synopsis:    []string{"[<command>]"},
				action:      printSubcommandUsage,
			})
		}
	}
}

// addBuiltinSwitch registers an action switch unless the long form is already taken. The short
// form is only used when free.
func (c *Command) addBuiltinSwitch(long string, short rune, description string, action ActionFunc) {
	if _, ok := c.byLong[long]; ok {
		return
	}
	if _, ok := c.byShort[short]; ok {
		short = 0
	}
	opt, err := NewOption(OptionConfig{
		LongForm:    long,
		ShortForm:   short,
		Type:        TypeSwitch,
		Description: description,
		Action:      action,
	})
	if err != nil {
		panic(fmt.Sprintf("internal error: builtin option --%s: %v", long, err))
	}
	if err := c.AddOption(opt); err != nil {
		panic(fmt.Sprintf("internal error: builtin option --%s: %v", long, err))
	}
}

func (c *Command) addBuiltinSubcommand(sub *Command) {
	sub.byLong = make(map[string]*Option)
	sub.byShort = make(map[rune]*Option)
	sub.subcommands = make(map[string]*Command)
	sub.helpless = true
	sub.builtin = true
	if err := c.AddSubcommand(sub); err != nil {
		panic(fmt.Sprintf("internal error: builtin subcommand %q: %v", sub.name, err))
	}
}

func printVersion(_ context.Context, c *Command) error {
	_, err := io.WriteString(c.Stdout(), c.version)
	return err
}

func printUsage(_ context.Context, c *Command) error {
	_, err := io.WriteString(c.Stdout(), c.Usage())
	return err
}

func printSubcommandUsage(ctx context.Context, hc *Command) error {
	target := hc.parent
	if args := hc.Arguments(); len(args) > 0 {
		sub := target.Subcommand(args[0])
		if sub == nil {
			return target.formatUnknownSubcommandError(args[0])
		}
		target = sub
	}
	return printUsage(ctx, target)
}

func (c *Command) formatUnknownSubcommandError(name string) error {
	var known []string
	for _, sub := range c.subcommandOrder {
		known = append(known, sub.name)
	}
	if suggestions := suggest.FindSimilar(name, known, 3); len(suggestions) > 0 {
		return errorf(ErrUnknownSubcommand, "unknown command %q. Did you mean one of these?\n\t%s",
			name, strings.Join(suggestions, "\n\t"))
	}
	return errorf(ErrUnknownSubcommand, "unknown command %q", name)
}
