package cmdline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mfridman/cmdline/pkg/textutil"
)

const (
	usageWidth  = 80
	usageIndent = "    "
	columnGap   = "   "
	// minDescriptionWidth keeps the second column readable next to very long option names.
	minDescriptionWidth = 20
)

// DefaultUsage renders the help text of c in sections: SYNOPSIS, DESCRIPTION, EXAMPLES, NOTES,
// OPTIONS and SUBCOMMANDS, followed by the bug report address and copyright. Empty sections are
// left out.
func DefaultUsage(c *Command) string {
	if c == nil {
		return ""
	}
	c.preParse()

	var b strings.Builder
	path := c.Path()

	b.WriteString("SYNOPSIS\n")
	if len(c.synopsis) == 0 {
		line := path
		if len(c.options) > 0 {
			line += " [OPTIONS]"
		}
		if len(c.subcommandOrder) > 0 {
			line += " <COMMAND>"
		}
		b.WriteString(usageIndent + line + "\n")
	}
	for _, s := range c.synopsis {
		b.WriteString(usageIndent + path + " " + s + "\n")
	}

	if c.description != "" {
		b.WriteString("\nDESCRIPTION\n")
		b.WriteString(textutil.WrapPrefix(c.description, usageWidth-len(usageIndent), usageIndent))
	}

	if len(c.examples) > 0 {
		b.WriteString("\nEXAMPLES\n")
		for _, ex := range c.examples {
			b.WriteString(usageIndent + ex + "\n")
		}
	}

	if c.notes != "" {
		b.WriteString("\nNOTES\n")
		b.WriteString(textutil.WrapPrefix(c.notes, usageWidth-len(usageIndent), usageIndent))
	}

	optionNames := make([]string, len(c.options))
	width := 0
	for i, opt := range c.options {
		optionNames[i] = optionUsageName(opt)
		width = max(width, utf8.RuneCountInString(optionNames[i]))
	}
	for _, sub := range c.subcommandOrder {
		width = max(width, utf8.RuneCountInString(sub.name))
	}

	if len(c.options) > 0 {
		b.WriteString("\nOPTIONS\n")
		for i, opt := range c.options {
			writeColumns(&b, optionNames[i], optionUsageDescription(opt), width)
		}
	}

	if len(c.subcommandOrder) > 0 {
		b.WriteString("\nSUBCOMMANDS\n")
		for _, sub := range c.subcommandOrder {
			writeColumns(&b, sub.name, sub.description, width)
		}
		if help := c.subcommands["help"]; help != nil && help.builtin {
			fmt.Fprintf(&b, "\nUse \"%s help <command>\" for more information on a command.\n", path)
		}
	}

	if c.bugEmail != "" || c.copyright != "" {
		b.WriteString("\n")
		if c.bugEmail != "" {
			fmt.Fprintf(&b, "Report bugs to <%s>.\n", c.bugEmail)
		}
		if c.copyright != "" {
			b.WriteString(c.copyright + "\n")
		}
	}
	return b.String()
}

// writeColumns writes name padded to width followed by the description wrapped to the rest of
// the line. Continuation lines are aligned under the description.
func writeColumns(b *strings.Builder, name, description string, width int) {
	descWidth := max(usageWidth-len(usageIndent)-width-len(columnGap), minDescriptionWidth)
	lines := textutil.Wrap(description, descWidth)
	if len(lines) == 0 {
		b.WriteString(usageIndent + name + "\n")
		return
	}
	fmt.Fprintf(b, "%s%-*s%s%s\n", usageIndent, width, name, columnGap, lines[0])
	padding := strings.Repeat(" ", len(usageIndent)+width+len(columnGap))
	for _, line := range lines[1:] {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(padding + line + "\n")
	}
}

// optionUsageName renders an option as "-s, --long VALUE". Options without a short form are
// indented so that long forms line up.
func optionUsageName(opt *Option) string {
	var name string
	switch {
	case opt.short != 0 && opt.long != "":
		name = fmt.Sprintf("-%c, --%s", opt.short, opt.long)
	case opt.short != 0:
		name = fmt.Sprintf("-%c", opt.short)
	default:
		name = "    --" + opt.long
	}
	if opt.typ.isBool() {
		return name
	}
	placeholder := optionPlaceholder(opt)
	if opt.valueOptional {
		placeholder = "[" + placeholder + "]"
	}
	if opt.multiple {
		placeholder += "..."
	}
	return name + " " + placeholder
}

func optionPlaceholder(opt *Option) string {
	switch {
	case opt.placeholder != "":
		return opt.placeholder
	case opt.label != "":
		return strings.ToUpper(opt.label)
	default:
		return strings.ToUpper(opt.typ.String())
	}
}

func optionUsageDescription(opt *Option) string {
	description := opt.description
	if opt.required {
		description = strings.TrimSpace(description + " (required)")
	}
	if d := opt.defaultValue; d != nil && !opt.typ.isBool() {
		description = strings.TrimSpace(fmt.Sprintf("%s (default: %v)", description, d))
	}
	return description
}
