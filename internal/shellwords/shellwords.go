// Package shellwords codecs a command string to/from an argv, matching the
// POSIX word-splitting rules a shell applies before exec.
package shellwords

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// SyntaxError is returned when a command string cannot be tokenised because
// of unbalanced quoting.
type SyntaxError struct {
	Command string
	Err     error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("shell syntax error in %q: %v", e.Command, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Split implements POSIX-style word splitting with single-quote,
// double-quote, and backslash escapes.
func Split(command string) ([]string, error) {
	words, err := shlex.Split(command)
	if err != nil {
		return nil, &SyntaxError{Command: command, Err: err}
	}
	return words, nil
}

// Join emits each token quoted such that Split(Join(xs)) == xs for any xs
// of non-null strings.
func Join(argv []string) string {
	quoted := make([]string, 0, len(argv))
	for _, tok := range argv {
		quoted = append(quoted, quote(tok))
	}
	return strings.Join(quoted, " ")
}

func quote(tok string) string {
	if tok == "" {
		return "''"
	}
	if !needsQuoting(tok) {
		return tok
	}
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range tok {
		if r == '\'' {
			b.WriteString(`'\''`)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}

func needsQuoting(tok string) bool {
	for _, r := range tok {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case strings.ContainsRune("_-./=:+,@%", r):
		default:
			return true
		}
	}
	return false
}
