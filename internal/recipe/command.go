package recipe

import (
	"fmt"
	"strings"
)

// Command names a recipe and carries its positional parameter overrides
type Command struct {
	Name   string
	Params []string
}

// NewCommand builds a command from a name and optional parameters
func NewCommand(name string, params ...string) Command {
	return Command{Name: name, Params: params}
}

// ParseCommand normalizes a [name, param0, param1, ...] sequence. An empty
// sequence yields a command with an empty name, which no recipe matches.
func ParseCommand(fields []string) Command {
	if len(fields) == 0 {
		return Command{}
	}
	return Command{Name: fields[0], Params: append([]string(nil), fields[1:]...)}
}

// ParseCommandString splits s on whitespace, so "mult 3.5" becomes
// {Name: "mult", Params: ["3.5"]}
func ParseCommandString(s string) Command {
	return ParseCommand(strings.Fields(s))
}

// CommandFrom normalizes a loosely typed command value such as one decoded
// from YAML. A string is a bare recipe name; a list is [name, params...] with
// scalar parameters converted to their text form.
func CommandFrom(v any) (Command, error) {
	switch x := v.(type) {
	case Command:
		return x, nil
	case string:
		return NewCommand(x), nil
	case []string:
		if len(x) == 0 {
			return Command{}, fmt.Errorf("empty command list")
		}
		return ParseCommand(x), nil
	case []any:
		if len(x) == 0 {
			return Command{}, fmt.Errorf("empty command list")
		}
		name, ok := x[0].(string)
		if !ok {
			return Command{}, fmt.Errorf("command name must be a string, got %T", x[0])
		}
		params := make([]string, 0, len(x)-1)
		for _, p := range x[1:] {
			params = append(params, fmt.Sprint(p))
		}
		return Command{Name: name, Params: params}, nil
	default:
		return Command{}, fmt.Errorf("unsupported command value %T", v)
	}
}

// String renders the command the way ParseCommandString reads it
func (c Command) String() string {
	if len(c.Params) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Params, " ")
}
