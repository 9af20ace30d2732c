package command

import "strings"

// SplitLine splits a command line on spaces and tabs, honoring single and
// double quotes. Quotes group words and are dropped; no escapes are
// interpreted.
func SplitLine(line string) []string {
	var tokens []string
	var cur strings.Builder
	inDouble, inSingle, started := false, false, false

	for _, r := range line {
		switch {
		case r == '"' && !inSingle:
			inDouble = !inDouble
			started = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			started = true
		case (r == ' ' || r == '\t') && !inDouble && !inSingle:
			if started {
				tokens = append(tokens, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		tokens = append(tokens, cur.String())
	}
	return tokens
}
