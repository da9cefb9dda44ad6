package shell

import (
	"regexp"
	"strings"
)

// A token is a bare run of non-space, non-quote characters or a quoted
// run. A quote with no partner matches nothing and so splits the text
// around it.
var tokenRegex = regexp.MustCompile(`[^\t\n\v\f\r "']+|"([^"]*)"|'([^']*)'`)

// Tokenize splits a command line into arguments. Quoted runs become a
// single argument with their quotes removed. There are no escapes and no
// syntax errors.
func Tokenize(line string) []string {
	tokens := []string{}

	for _, m := range tokenRegex.FindAllStringSubmatchIndex(line, -1) {
		switch {
		case m[2] >= 0: // "..."
			tokens = append(tokens, line[m[2]:m[3]])
		case m[4] >= 0: // '...'
			tokens = append(tokens, line[m[4]:m[5]])
		default:
			tokens = append(tokens, line[m[0]:m[1]])
		}
	}

	return tokens
}

// Join rebuilds the text of a command line from its tokens.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}
