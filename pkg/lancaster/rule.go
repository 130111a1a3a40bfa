package lancaster

import (
	"fmt"
	"strings"
)

type Continuation byte

const (
	Continue Continuation = '>'
	Stop     Continuation = '.'
)

func (c Continuation) String() string {
	if c == Stop {
		return "stop"
	}
	return "continue"
}

// Rule is a parsed entry of the encoded rule table.
//
// Ending holds the suffix exactly as encoded, i.e. reversed: "gni" matches words ending in
// "ing". The first byte of Ending is the word's last letter and selects the rule group.
type Rule struct {
	Ending       string
	IntactOnly   bool
	RemoveCount  int
	Append       string
	Continuation Continuation
}

// InvalidRuleError reports a rule string that does not follow the table grammar
// `^[a-z]+\*?\d[a-z]*[>.]?$`.
type InvalidRuleError struct {
	Rule string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("the rule %q is invalid", e.Rule)
}

// ParseRule validates raw against the rule grammar and destructures it in a single pass.
func ParseRule(raw string) (Rule, error) {
	var r Rule
	i := 0
	for i < len(raw) && isLower(raw[i]) {
		i++
	}
	if i == 0 {
		return Rule{}, &InvalidRuleError{Rule: raw}
	}
	r.Ending = raw[:i]

	if i < len(raw) && raw[i] == '*' {
		r.IntactOnly = true
		i++
	}

	if i >= len(raw) || !isDigit(raw[i]) {
		return Rule{}, &InvalidRuleError{Rule: raw}
	}
	r.RemoveCount = int(raw[i] - '0')
	i++

	start := i
	for i < len(raw) && isLower(raw[i]) {
		i++
	}
	r.Append = raw[start:i]

	r.Continuation = Continue
	if i < len(raw) && (raw[i] == '>' || raw[i] == '.') {
		r.Continuation = Continuation(raw[i])
		i++
	}
	if i != len(raw) {
		return Rule{}, &InvalidRuleError{Rule: raw}
	}
	return r, nil
}

// Suffix returns the word ending the rule matches, in reading order.
func (r Rule) Suffix() string {
	b := make([]byte, len(r.Ending))
	for i := range r.Ending {
		b[len(b)-1-i] = r.Ending[i]
	}
	return string(b)
}

// String encodes the rule back into table form. The terminator is always written.
func (r Rule) String() string {
	var sb strings.Builder
	sb.WriteString(r.Ending)
	if r.IntactOnly {
		sb.WriteByte('*')
	}
	sb.WriteByte(byte('0' + r.RemoveCount))
	sb.WriteString(r.Append)
	sb.WriteByte(byte(r.Continuation))
	return sb.String()
}

func isLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
