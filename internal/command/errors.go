package command

import (
	"fmt"
	"strings"
)

// ParseError is a malformed command line. It is resolved entirely on the
// client and never reaches a worker.
type ParseError interface {
	error
	// Type is the machine-readable kind reported in --json output.
	Type() string
}

// UnknownCommandError reports a verb that is not in the grammar.
type UnknownCommandError struct {
	Verb string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %s", e.Verb)
}

func (e *UnknownCommandError) Type() string { return "unknown_command" }

// UnknownSubcommandError reports a sub-verb the parent verb does not accept.
type UnknownSubcommandError struct {
	Verb  string
	Sub   string
	Valid []string
}

func (e *UnknownSubcommandError) Error() string {
	return fmt.Sprintf("unknown subcommand: %s %s (valid: %s)", e.Verb, e.Sub, strings.Join(e.Valid, ", "))
}

func (e *UnknownSubcommandError) Type() string { return "unknown_subcommand" }

// MissingArgumentsError reports a verb invoked with fewer positional
// arguments than it requires.
type MissingArgumentsError struct {
	Verb  string
	Usage string
}

func (e *MissingArgumentsError) Error() string {
	if e.Usage == "" {
		return fmt.Sprintf("missing arguments for %s", e.Verb)
	}
	return fmt.Sprintf("missing arguments for %s; usage: agent-browser %s %s", e.Verb, e.Verb, e.Usage)
}

func (e *MissingArgumentsError) Type() string { return "missing_arguments" }

// InvalidValueError reports an argument that is present but unusable.
type InvalidValueError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %s", e.Value, e.Field, e.Reason)
}

func (e *InvalidValueError) Type() string { return "invalid_value" }

// InvalidSessionNameError reports a --session-name that cannot be used.
type InvalidSessionNameError struct {
	Name string
}

func (e *InvalidSessionNameError) Error() string {
	return fmt.Sprintf("invalid session name %q: use letters, digits, '.', '_' or '-'", e.Name)
}

func (e *InvalidSessionNameError) Type() string { return "invalid_session_name" }
