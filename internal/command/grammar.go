package command

import (
	"sort"
	"strings"

	"github.com/agentbrowser/agent-browser/internal/ipc"
	"github.com/agentbrowser/agent-browser/internal/paths"
)

// Globals is the slice of global options the grammar reads.
type Globals struct {
	// Full requests a full-page screenshot.
	Full bool
	// Headers is a JSON object of extra HTTP headers sent with open.
	Headers string
	// SessionName names persisted auth state; it must be a valid file name.
	SessionName string
}

// flag is a verb-local flag. Value flags consume the following token;
// optional value flags consume it only when it does not look like a flag.
type flag struct {
	names    []string
	key      string
	value    bool
	optional bool
}

func boolFlag(key string, names ...string) flag {
	return flag{names: names, key: key}
}

func valueFlag(key string, names ...string) flag {
	return flag{names: names, key: key, value: true}
}

func optionalValueFlag(key string, names ...string) flag {
	return flag{names: names, key: key, value: true, optional: true}
}

// verb is one node of the grammar. A verb either builds a request from its
// positional arguments or dispatches on its first positional to a sub-verb.
type verb struct {
	min   int
	usage string
	flags []flag
	build func(a *args) (ipc.Request, error)

	subs map[string]*verb
	// defaultSub is used when a verb with subs gets no further tokens.
	defaultSub string
	// fallback handles a first token that names no sub-verb (e.g. tab 2).
	fallback *verb
}

// args is what a build function sees after sub-verb dispatch and flag
// extraction.
type args struct {
	path  []string
	pos   []string
	flags map[string]string
	g     Globals
}

func (a *args) name() string { return strings.Join(a.path, " ") }

func (a *args) has(key string) bool {
	_, ok := a.flags[key]
	return ok
}

func (a *args) flag(key string) (string, bool) {
	v, ok := a.flags[key]
	return v, ok
}

// opt returns the i-th positional, or "" and false when absent.
func (a *args) opt(i int) (string, bool) {
	if i < len(a.pos) {
		return a.pos[i], true
	}
	return "", false
}

// rest joins positionals from i onward with single spaces.
func (a *args) rest(i int) string {
	if i >= len(a.pos) {
		return ""
	}
	return strings.Join(a.pos[i:], " ")
}

// Translate turns CLI tokens into an action request. It has no side
// effects; two calls with the same input differ only in "id".
func Translate(tokens []string, g Globals) (ipc.Request, error) {
	if len(tokens) == 0 {
		return nil, &MissingArgumentsError{Verb: "agent-browser", Usage: "<command> [args...]"}
	}
	if g.SessionName != "" {
		if err := paths.ValidateSessionName(g.SessionName); err != nil {
			return nil, &InvalidSessionNameError{Name: g.SessionName}
		}
	}

	v, ok := grammar[tokens[0]]
	if !ok {
		return nil, &UnknownCommandError{Verb: tokens[0]}
	}

	path := []string{tokens[0]}
	rest := tokens[1:]
	for v.subs != nil {
		if len(rest) == 0 {
			if v.defaultSub == "" {
				return nil, &MissingArgumentsError{Verb: strings.Join(path, " "), Usage: v.usage}
			}
			path = append(path, v.defaultSub)
			v = v.subs[v.defaultSub]
			continue
		}

		if sub, ok := v.subs[rest[0]]; ok {
			path = append(path, rest[0])
			rest = rest[1:]
			v = sub
			continue
		}
		if v.fallback != nil {
			v = v.fallback
			break
		}
		return nil, &UnknownSubcommandError{Verb: strings.Join(path, " "), Sub: rest[0], Valid: subNames(v)}
	}

	a := &args{path: path, g: g}
	if err := a.extract(v, rest); err != nil {
		return nil, err
	}
	if len(a.pos) < v.min {
		return nil, &MissingArgumentsError{Verb: a.name(), Usage: v.usage}
	}

	req, err := v.build(a)
	if err != nil {
		return nil, err
	}
	req["id"] = NewID()
	return req, nil
}

// extract splits tokens into positionals and the verb's declared flags.
// Unknown dash tokens stay positional since they may be free text.
func (a *args) extract(v *verb, tokens []string) error {
	a.flags = make(map[string]string)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		f, ok := lookupFlag(v.flags, tok)
		if !ok {
			a.pos = append(a.pos, tok)
			continue
		}
		if !f.value {
			a.flags[f.key] = ""
			continue
		}

		next := i + 1
		switch {
		case next < len(tokens) && !(f.optional && strings.HasPrefix(tokens[next], "-")):
			a.flags[f.key] = tokens[next]
			i = next
		case f.optional:
			a.flags[f.key] = ""
		default:
			return &MissingArgumentsError{Verb: a.name(), Usage: tok + " <value>"}
		}
	}
	return nil
}

func lookupFlag(flags []flag, tok string) (flag, bool) {
	for _, f := range flags {
		for _, n := range f.names {
			if n == tok {
				return f, true
			}
		}
	}
	return flag{}, false
}

func subNames(v *verb) []string {
	names := make([]string, 0, len(v.subs))
	for name := range v.subs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Verbs returns every top-level verb spelling, sorted.
func Verbs() []string {
	names := make([]string, 0, len(grammar))
	for name := range grammar {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SubVerbs returns the sub-verbs accepted after verb, sorted. It is empty
// for verbs that take plain arguments.
func SubVerbs(verb string) []string {
	v, ok := grammar[verb]
	if !ok || v.subs == nil {
		return nil
	}
	return subNames(v)
}

// Usage returns the argument synopsis for verb.
func Usage(verb string) (string, bool) {
	v, ok := grammar[verb]
	if !ok {
		return "", false
	}
	return v.usage, true
}
