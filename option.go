package cmdline

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// OptionType determines how an option's value is read from the command line.
type OptionType int

const (
	// TypeString takes a string value. It is the zero value.
	TypeString OptionType = iota
	// TypeSwitch is a boolean flag that may trigger an [ActionFunc] when present.
	TypeSwitch
	// TypeBoolean is a boolean flag.
	TypeBoolean
	// TypeInt takes an integer value.
	TypeInt
	// TypeFloat takes a numeric value, stored as float64.
	TypeFloat
)

func (t OptionType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeSwitch:
		return "switch"
	case TypeBoolean:
		return "boolean"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	default:
		return fmt.Sprintf("OptionType(%d)", int(t))
	}
}

func (t OptionType) isBool() bool {
	return t == TypeSwitch || t == TypeBoolean
}

// OptionConfig describes an option. At least one of LongForm and ShortForm must be set.
type OptionConfig struct {
	// LongForm is the name used as --name. At least two characters, not starting with '-'.
	LongForm string
	// ShortForm is the character used as -x. Zero means no short form.
	ShortForm rune

	Type OptionType

	// Required options must appear on the command line.
	Required bool
	// Multiple collects every occurrence, in order, into a []any value.
	Multiple bool
	// ValueOptional lets the option appear without a value, in which case its value is true.
	// Not allowed for boolean or multiple options.
	ValueOptional bool

	// Default is the value before parsing. Boolean options only accept false and multiple
	// options accept no default.
	Default any

	// Label, Placeholder and Description are only used in help text. A <<word>> marker in
	// Description becomes the Placeholder when none is set.
	Label       string
	Placeholder string
	Description string

	// Action runs when the option is given and the command is executed. Switch options only.
	Action ActionFunc
}

// Option is a named flag of a [Command] together with the value parsed for it.
type Option struct {
	long          string
	short         rune
	typ           OptionType
	required      bool
	multiple      bool
	valueOptional bool
	defaultValue  any
	label         string
	placeholder   string
	description   string
	action        ActionFunc

	value    any
	explicit bool
}

var placeholderMarker = regexp.MustCompile(`<<([^<>]+)>>`)

// NewOption validates cfg and returns the option it describes, holding its default value.
func NewOption(cfg OptionConfig) (*Option, error) {
	if cfg.LongForm == "" && cfg.ShortForm == 0 {
		return nil, errorf(ErrInvalidOption, "option must have a long or short form")
	}
	if cfg.LongForm != "" {
		if utf8.RuneCountInString(cfg.LongForm) < 2 {
			return nil, errorf(ErrInvalidOption, "long form %q must be at least 2 characters", cfg.LongForm)
		}
		if strings.HasPrefix(cfg.LongForm, "-") {
			return nil, errorf(ErrInvalidOption, "long form %q must not start with '-'", cfg.LongForm)
		}
		if strings.ContainsAny(cfg.LongForm, "= \t") {
			return nil, errorf(ErrInvalidOption, "long form %q must not contain '=' or spaces", cfg.LongForm)
		}
	}
	if cfg.ShortForm == '-' {
		return nil, errorf(ErrInvalidOption, "short form must not be '-'")
	}
	if unicode.IsSpace(cfg.ShortForm) || cfg.ShortForm == '=' {
		return nil, errorf(ErrInvalidOption, "short form %q must not be '=' or a space", cfg.ShortForm)
	}
	if cfg.Type < TypeString || cfg.Type > TypeFloat {
		return nil, errorf(ErrInvalidOption, "option %s: unknown type %v", formName(cfg.LongForm, cfg.ShortForm), cfg.Type)
	}
	o := &Option{
		long:          cfg.LongForm,
		short:         cfg.ShortForm,
		typ:           cfg.Type,
		required:      cfg.Required,
		multiple:      cfg.Multiple,
		valueOptional: cfg.ValueOptional,
		label:         cfg.Label,
		placeholder:   cfg.Placeholder,
		action:        cfg.Action,
	}
	if o.valueOptional && (o.typ.isBool() || o.multiple) {
		return nil, errorf(ErrInvalidOption, "option %s: value-optional is not allowed for boolean or multiple options", o.Name())
	}
	if o.action != nil && o.typ != TypeSwitch {
		return nil, errorf(ErrInvalidOption, "option %s: only switch options may have an action", o.Name())
	}

	switch {
	case cfg.Default == nil:
		if o.typ.isBool() {
			o.defaultValue = false
		}
	case o.multiple:
		return nil, errorf(ErrInvalidOption, "option %s: multiple options cannot have a default", o.Name())
	case o.typ.isBool():
		if b, ok := cfg.Default.(bool); !ok || b {
			return nil, errorf(ErrInvalidOption, "option %s: boolean default must be false", o.Name())
		}
		o.defaultValue = false
	default:
		v, err := o.checkScalar(cfg.Default)
		if err != nil {
			return nil, errorf(ErrInvalidOption, "option %s: invalid default: %w", o.Name(), err)
		}
		o.defaultValue = v
	}

	o.description = cfg.Description
	if m := placeholderMarker.FindStringSubmatch(cfg.Description); m != nil {
		if o.placeholder == "" {
			o.placeholder = m[1]
		}
		o.description = placeholderMarker.ReplaceAllString(cfg.Description, "$1")
	}

	o.Clear()
	return o, nil
}

// Key is the long form if set, otherwise the short form.
func (o *Option) Key() string {
	if o.long != "" {
		return o.long
	}
	return string(o.short)
}

// Name is the option as typed on the command line, for messages: --long or -s.
func (o *Option) Name() string {
	return formName(o.long, o.short)
}

func formName(long string, short rune) string {
	if long != "" {
		return "--" + long
	}
	return "-" + string(short)
}

// LongForm returns the name used as --name, or "" for a short-only option.
func (o *Option) LongForm() string { return o.long }

// ShortForm returns the character used as -x, or 0 for a long-only option.
func (o *Option) ShortForm() rune { return o.short }

func (o *Option) Type() OptionType { return o.typ }

// Required reports whether a parse fails when the option is absent.
func (o *Option) Required() bool { return o.required }

// Multiple reports whether every occurrence is collected into a list.
func (o *Option) Multiple() bool { return o.multiple }

// ValueOptional reports whether the option may appear without a value, in which case its value
// is true.
func (o *Option) ValueOptional() bool { return o.valueOptional }

// Default returns the value the option holds before any parse.
func (o *Option) Default() any { return o.defaultValue }

func (o *Option) Label() string { return o.label }

// Placeholder names the value in help text, taken from a <<word>> marker when not configured.
func (o *Option) Placeholder() string { return o.placeholder }

// Description returns the help text with any <<word>> marker replaced by the bare word.
func (o *Option) Description() string { return o.description }

// Action returns the function run when this switch is given, or nil.
func (o *Option) Action() ActionFunc { return o.action }

// IsExplicit reports whether the value came from the command line rather than the default.
func (o *Option) IsExplicit() bool { return o.explicit }

func (o *Option) triggersAction() bool { return o.typ == TypeSwitch && o.action != nil }

// Clear restores the default value and marks the value as not explicit.
func (o *Option) Clear() {
	o.value = o.defaultValue
	o.explicit = false
}

// SetValue type-checks v and stores it. Multiple options take a []any, all others a scalar.
// A nil v unsets the value.
func (o *Option) SetValue(v any, explicit bool) error {
	if v == nil {
		o.value = nil
		o.explicit = explicit
		return nil
	}
	list, isList := v.([]any)
	if o.multiple {
		if !isList {
			return errorf(ErrInvalidOptionValue, "option %s takes multiple values, got scalar %v", o.Name(), v)
		}
		values := make([]any, 0, len(list))
		for _, elem := range list {
			checked, err := o.checkScalar(elem)
			if err != nil {
				return errorf(ErrInvalidOptionValue, "option %s: %w", o.Name(), err)
			}
			values = append(values, checked)
		}
		o.value = values
		o.explicit = explicit
		return nil
	}
	if isList {
		return errorf(ErrInvalidOptionValue, "option %s takes a single value, got list %v", o.Name(), list)
	}
	checked, err := o.checkScalar(v)
	if err != nil {
		return errorf(ErrInvalidOptionValue, "option %s: %w", o.Name(), err)
	}
	o.value = checked
	o.explicit = explicit
	return nil
}

// checkScalar reports whether v has the runtime type of the option, widening int to float64
// for float options. The literal true is always accepted by value-optional options.
func (o *Option) checkScalar(v any) (any, error) {
	if o.valueOptional {
		if b, ok := v.(bool); ok && b {
			return true, nil
		}
	}
	switch o.typ {
	case TypeSwitch, TypeBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case TypeInt:
		if i, ok := v.(int); ok {
			return i, nil
		}
	case TypeFloat:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		}
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("value %v (%T) is not of type %s", v, v, o.typ)
}

// Value returns the option's value. For multiple options it is the first value, or nil.
func (o *Option) Value() any {
	if o.multiple {
		if list, ok := o.value.([]any); ok && len(list) > 0 {
			return list[0]
		}
		return nil
	}
	return o.value
}

// Values returns every value of the option in command-line order. It is never nil.
func (o *Option) Values() []any {
	if o.multiple {
		list, _ := o.value.([]any)
		out := make([]any, len(list))
		copy(out, list)
		return out
	}
	if o.value == nil {
		return []any{}
	}
	return []any{o.value}
}
