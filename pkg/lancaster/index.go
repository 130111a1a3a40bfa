package lancaster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrEmptyTable = errors.New("rule table has no rules")

// RuleIndex groups rules by the first character of their encoded ending, which is the last
// letter of the words they can match. Each group keeps the declaration order of the table;
// the stemming loop applies the first rule of a group that passes its gate.
type RuleIndex map[byte][]Rule

// BuildIndex parses every rule of the table. It fails on the first rule that does not follow
// the grammar, so a table is either indexed completely or not at all.
func BuildIndex(rules []string) (RuleIndex, error) {
	index := make(RuleIndex)
	for _, raw := range rules {
		rule, err := ParseRule(raw)
		if err != nil {
			return nil, err
		}
		key := rule.Ending[0]
		index[key] = append(index[key], rule)
	}
	return index, nil
}

// Len returns the number of rules in the index.
func (idx RuleIndex) Len() int {
	n := 0
	for _, group := range idx {
		n += len(group)
	}
	return n
}

// LoadRules reads a rule table with one rule per line. Blank lines are skipped and '#'
// starts a comment that runs to the end of the line. A table without any rule fails with
// ErrEmptyTable.
func LoadRules(r io.Reader) ([]string, error) {
	var rules []string
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if _, err := ParseRule(text); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rules = append(rules, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, ErrEmptyTable
	}
	return rules, nil
}
