// Package command builds the probe command line for each candidate index.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultToken is the default substitution marker replaced by the
// candidate index in the probe command's arguments.
const DefaultToken = "$X"

// Template is an immutable probe command template: an argv slice plus
// the substitution token that is textually replaced by the decimal
// candidate index before each probe is spawned.
type Template struct {
	args  []string
	token string
}

// NewTemplate validates and creates a Template.
// The command must be nonempty, the token must be nonempty, and at
// least one argument must contain the token.
func NewTemplate(args []string, token string) (*Template, error) {
	if token == "" {
		return nil, errors.New("substitution string cannot be empty")
	}
	if len(args) == 0 {
		return nil, errors.New("command cannot be empty (put it after \"--\")")
	}

	found := false
	for _, a := range args {
		if strings.Contains(a, token) {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("command %q does not contain the substitution string %q",
			strings.Join(args, " "), token)
	}

	// Defensive copy, the template must not alias caller memory
	cp := make([]string, len(args))
	copy(cp, args)

	return &Template{args: cp, token: token}, nil
}

// Render returns the argv for the given candidate index, with every
// occurrence of the token in every argument replaced.
func (t *Template) Render(index int64) []string {
	num := strconv.FormatInt(index, 10)
	out := make([]string, len(t.args))
	for i, a := range t.args {
		out[i] = strings.ReplaceAll(a, t.token, num)
	}
	return out
}

// Token returns the substitution token.
func (t *Template) Token() string {
	return t.token
}

// String returns the raw (unsubstituted) command line.
func (t *Template) String() string {
	return strings.Join(t.args, " ")
}
