package cmdline

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mfridman/cmdline/pkg/suggest"
)

// ParseOptions specifies options for parsing a command line.
type ParseOptions struct {
	// PrintErrors writes a parse error to Stderr and makes Parse return nil instead of the
	// error.
	PrintErrors bool
	// Argv, if non-nil, is parsed instead of the args given to Parse.
	Argv []string
	// Stderr receives printed errors. Defaults to [os.Stderr].
	Stderr io.Writer
}

// Parse resets the command and parses args into option values, positional arguments and the
// chain of active subcommands. args[0] is the program or command name and is not parsed; a nil
// args parses [os.Args].
//
// Required options are not enforced when the command line ends in an action switch such as
// --help, or in a built-in help or version subcommand.
//
// The options parameter may be nil, in which case errors are returned.
func (c *Command) Parse(args []string, options *ParseOptions) error {
	if options == nil {
		options = &ParseOptions{}
	}
	if options.Argv != nil {
		args = options.Argv
	}
	if args == nil {
		args = os.Args
	}
	err := c.parse(args)
	if err != nil && options.PrintErrors {
		stderr := options.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return nil
	}
	return err
}

// occurrences collects the raw values given for each option in command-line order. A raw value
// is either the string from the command line or the literal true.
type occurrences struct {
	order  []*Option
	values map[*Option][]any
}

func (o *occurrences) add(opt *Option, v any) {
	if o.values == nil {
		o.values = make(map[*Option][]any)
	}
	if _, ok := o.values[opt]; !ok {
		o.order = append(o.order, opt)
	}
	o.values[opt] = append(o.values[opt], v)
}

func (c *Command) parse(argv []string) error {
	c.preParse()
	c.Clear()

	var seen occurrences
	i := 1
loop:
	for i < len(argv) {
		token := argv[i]
		switch {
		case token == "--":
			i++
			break loop
		case isLongOption(token):
			next, err := c.parseLong(argv, i, &seen)
			if err != nil {
				return err
			}
			i = next
		case isShortOption(token):
			next, err := c.parseShort(argv, i, &seen)
			if err != nil {
				return err
			}
			i = next
		default:
			sub, ok := c.subcommands[token]
			if !ok {
				break loop
			}
			if c.activeSwitch != nil {
				return errorf(ErrSwitchSubcommandConflict, "command %q: option %s cannot be combined with subcommand %q",
					c.Path(), c.activeSwitch.Name(), token)
			}
			c.activeSubcommand = sub
			if err := sub.parse(argv[i:]); err != nil {
				return err
			}
			i = len(argv)
			break loop
		}
	}
	if c.activeSubcommand == nil && i < len(argv) {
		c.arguments = append([]string(nil), argv[i:]...)
	}

	return c.commit(&seen)
}

// parseLong handles --name and --name=value at argv[i] and returns the index of the next token.
func (c *Command) parseLong(argv []string, i int, seen *occurrences) (int, error) {
	name, value, hasValue := strings.Cut(argv[i][2:], "=")
	opt, ok := c.byLong[name]
	if !ok {
		return 0, c.formatUnknownOptionError("--" + name)
	}
	switch {
	case hasValue:
		seen.add(opt, value)
	case opt.typ.isBool():
		seen.add(opt, true)
		if err := c.activate(opt); err != nil {
			return 0, err
		}
	case opt.valueOptional:
		if i+1 < len(argv) && looksLikeOptionValue(argv[i+1]) {
			i++
			seen.add(opt, argv[i])
		} else {
			seen.add(opt, true)
		}
	default:
		if i+1 >= len(argv) || !looksLikeOptionValue(argv[i+1]) {
			return 0, errorf(ErrMissingOptionArgument, "command %q: option %s requires a value", c.Path(), opt.Name())
		}
		i++
		seen.add(opt, argv[i])
	}
	return i + 1, nil
}

// parseShort handles a group of short options such as -abc at argv[i] and returns the index of
// the next token. The first option that takes a value ends the group: the rest of the token, or
// else the next token, is its value.
func (c *Command) parseShort(argv []string, i int, seen *occurrences) (int, error) {
	letters := []rune(argv[i][1:])
	for j, r := range letters {
		opt, ok := c.byShort[r]
		if !ok {
			return 0, c.formatUnknownOptionError("-" + string(r))
		}
		if opt.typ.isBool() {
			seen.add(opt, true)
			if err := c.activate(opt); err != nil {
				return 0, err
			}
			continue
		}

		rest := string(letters[j+1:])
		switch {
		case rest != "":
			seen.add(opt, rest)
		case i+1 < len(argv) && looksLikeOptionValue(argv[i+1]):
			i++
			seen.add(opt, argv[i])
		case opt.valueOptional:
			seen.add(opt, true)
		default:
			return 0, errorf(ErrMissingOptionArgument, "command %q: option -%c requires a value", c.Path(), r)
		}
		break
	}
	return i + 1, nil
}

// activate records opt as the active switch if it carries an action.
func (c *Command) activate(opt *Option) error {
	if !opt.triggersAction() {
		return nil
	}
	if c.activeSwitch != nil && c.activeSwitch != opt {
		return errorf(ErrConflictingSwitches, "command %q: options %s and %s cannot be used together",
			c.Path(), c.activeSwitch.Name(), opt.Name())
	}
	c.activeSwitch = opt
	return nil
}

// commit coerces the collected values, stores them and checks required options.
func (c *Command) commit(seen *occurrences) error {
	for _, opt := range seen.order {
		raw := seen.values[opt]
		if len(raw) > 1 && !opt.multiple {
			return errorf(ErrRepeatedOption, "command %q: option %s given %d times", c.Path(), opt.Name(), len(raw))
		}
		values := make([]any, 0, len(raw))
		for _, v := range raw {
			coerced, err := coerce(opt, v)
			if err != nil {
				return fmt.Errorf("command %q: %w", c.Path(), err)
			}
			values = append(values, coerced)
		}
		var err error
		if opt.multiple {
			err = opt.SetValue(values, true)
		} else {
			err = opt.SetValue(values[0], true)
		}
		if err != nil {
			return fmt.Errorf("command %q: %w", c.Path(), err)
		}
	}

	if c.skipsRequired() {
		return nil
	}
	var missing []string
	for _, opt := range c.options {
		if _, ok := seen.values[opt]; opt.required && !ok {
			missing = append(missing, opt.Name())
		}
	}
	if len(missing) > 0 {
		return errorf(ErrMissingRequiredOption, "command %q: required option(s) %s not set", c.Path(), strings.Join(missing, ", "))
	}
	return nil
}

// skipsRequired reports whether the parse ended in a switch action or a built-in subcommand,
// in which case required options are not enforced so that help and version always work.
func (c *Command) skipsRequired() bool {
	last := c.resolve()
	return last.activeSwitch != nil || last.builtin
}

// resolve follows the active subcommands down to the last command of the parse.
func (c *Command) resolve() *Command {
	last := c
	for last.activeSubcommand != nil {
		last = last.activeSubcommand
	}
	return last
}

// coerce converts a raw command-line value to the option's type. The literal true is passed
// through unchanged.
func coerce(opt *Option, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return raw, nil
	}
	switch opt.typ {
	case TypeInt:
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		f, err := parseNumber(s)
		if err != nil || f != math.Trunc(f) || f >= 1<<63 || f <= -(1<<63) {
			return nil, errorf(ErrInvalidOptionValue, "option %s: %q is not an integer", opt.Name(), s)
		}
		return int(f), nil
	case TypeFloat:
		f, err := parseNumber(s)
		if err != nil {
			return nil, errorf(ErrInvalidOptionValue, "option %s: %q is not a number", opt.Name(), s)
		}
		return f, nil
	case TypeSwitch, TypeBoolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errorf(ErrInvalidOptionValue, "option %s: %q is not a boolean", opt.Name(), s)
		}
		return b, nil
	default:
		return s, nil
	}
}

// parseNumber parses a finite decimal number.
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return f, nil
}

// looksLikeOptionValue reports whether token can be taken as the value of an option rather
// than being the next option.
func looksLikeOptionValue(token string) bool {
	return len(token) <= 1 || !strings.HasPrefix(token, "-")
}

func isLongOption(token string) bool {
	return len(token) > 3 && strings.HasPrefix(token, "--") && token[2] != '-'
}

func isShortOption(token string) bool {
	return len(token) > 1 && token[0] == '-' && token[1] != '-'
}

func (c *Command) formatUnknownOptionError(name string) error {
	var known []string
	for _, opt := range c.options {
		if opt.long != "" {
			known = append(known, "--"+opt.long)
		}
	}
	if strings.HasPrefix(name, "--") {
		if suggestions := suggest.FindSimilar(name, known, 3); len(suggestions) > 0 {
			return errorf(ErrUnknownOption, "command %q: unknown option %q. Did you mean one of these?\n\t%s",
				c.Path(), name, strings.Join(suggestions, "\n\t"))
		}
	}
	return errorf(ErrUnknownOption, "command %q: unknown option %q", c.Path(), name)
}
