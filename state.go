package cmdline

import (
	"fmt"
)

// GetValue retrieves the value of the option registered under key on c, with type inference.
// Example usage:
//
//	verbose := GetValue[bool](cmd, "verbose")
//	count := GetValue[int](cmd, "count")
//	tags := GetValue[[]any](cmd, "tag")
//
// Requesting []any returns every value of the option. An unset option yields the zero value of
// T. A value-optional option given without a value holds true: requested as bool or any it
// returns true, as any other type it returns the zero value of T. Use [Option.IsExplicit] to
// tell that case apart from an absent option.
//
// If the option isn't registered or holds a value of another type, it panics: both are
// programming errors in the command definition.
func GetValue[T any](c *Command, key string) T {
	var zero T
	opt := c.Option(key)
	if opt == nil {
		panic(fmt.Errorf("internal error: option %q not found in command %q", key, c.Path()))
	}
	var value any
	if _, wantList := any(zero).([]any); wantList {
		value = opt.Values()
	} else {
		value = opt.Value()
	}
	if value == nil {
		return zero
	}
	if b, ok := value.(bool); ok && b && opt.valueOptional {
		if v, ok := value.(T); ok {
			return v
		}
		return zero
	}
	v, ok := value.(T)
	if !ok {
		panic(fmt.Errorf("internal error: type mismatch for option %q in command %q: registered %T, requested %T",
			key, c.Path(), value, zero))
	}
	return v
}

// Values maps the key of every option of c that holds a value to that value. Boolean options
// are left out while false. Multiple options map to their full []any list.
func (c *Command) Values() map[string]any {
	values := make(map[string]any)
	for _, opt := range c.options {
		if opt.multiple {
			if list := opt.Values(); len(list) > 0 {
				values[opt.Key()] = list
			}
			continue
		}
		v := opt.Value()
		if v == nil {
			continue
		}
		if b, ok := v.(bool); ok && !b && opt.typ.isBool() {
			continue
		}
		values[opt.Key()] = v
	}
	return values
}
