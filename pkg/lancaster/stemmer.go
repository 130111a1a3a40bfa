// Package lancaster implements a rule-table driven suffix stemmer in the Paice/Husk family.
//
// A Stemmer repeatedly looks up the rules registered for the current last letter of a word,
// applies the first one whose ending matches and whose gate holds, and stops when a rule
// says so or nothing applies.
package lancaster

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

type Config struct {
	// Rules replaces the built-in table when non-empty.
	Rules []string
	// StripPrefix removes one known prefix (see Prefixes) before suffix rules run.
	StripPrefix bool
	// TrueLastLetter dispatches on the final letter of the word. By default the scan stops at
	// the first non-letter, so "ab1ing" dispatches on 'b'.
	TrueLastLetter bool
	// MaxRounds bounds the number of rule applications per word. Zero picks
	// rules + 2*len(word), which the built-in table never reaches.
	MaxRounds int
}

// Stemmer is safe for concurrent use. Its rule index is built by New and never changes.
type Stemmer struct {
	index          RuleIndex
	rules          int
	stripPrefix    bool
	trueLastLetter bool
	maxRounds      int
}

// Step records one rule application.
type Step struct {
	Rule   Rule
	Before string
	After  string
}

func New(cfg Config) (*Stemmer, error) {
	rules := cfg.Rules
	if len(rules) == 0 {
		rules = defaultRules
	}
	index, err := BuildIndex(rules)
	if err != nil {
		return nil, err
	}
	return &Stemmer{
		index:          index,
		rules:          len(rules),
		stripPrefix:    cfg.StripPrefix,
		trueLastLetter: cfg.TrueLastLetter,
		maxRounds:      cfg.MaxRounds,
	}, nil
}

func MustNew(cfg Config) *Stemmer {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

var (
	defaultOnce    sync.Once
	defaultStemmer *Stemmer
)

// Default returns a shared stemmer using the built-in table without prefix stripping.
func Default() *Stemmer {
	defaultOnce.Do(func() {
		defaultStemmer = MustNew(Config{})
	})
	return defaultStemmer
}

// Stem stems word with the Default stemmer.
func Stem(word string) string {
	return Default().Stem(word)
}

// Apply runs the stemming loop over word with index as given: no lowercasing and no prefix
// stripping. word is its own intact reference.
func Apply(word string, index RuleIndex) string {
	s := &Stemmer{index: index, rules: index.Len()}
	return s.run(word, nil)
}

// Index returns the rule index the stemmer dispatches on. Callers must not modify it.
func (s *Stemmer) Index() RuleIndex {
	return s.index
}

func (s *Stemmer) Stem(word string) string {
	return s.run(s.prepare(word), nil)
}

// Trace stems word and returns every rule application in order.
func (s *Stemmer) Trace(word string) (string, []Step) {
	var steps []Step
	stem := s.run(s.prepare(word), func(step Step) {
		steps = append(steps, step)
	})
	return stem, steps
}

func (s *Stemmer) prepare(word string) string {
	word = strings.ToLower(word)
	if s.stripPrefix {
		word = StripPrefix(word)
	}
	return word
}

// run rewrites word until a stop rule fires, no rule of the dispatched group applies, or the
// round bound is reached. word is also the intact reference for intact-only rules.
func (s *Stemmer) run(word string, trace func(Step)) string {
	intact := []rune(word)
	current := intact

	maxRounds := s.maxRounds
	if maxRounds <= 0 {
		maxRounds = s.rules + 2*len(intact)
	}

	for round := 0; round < maxRounds; round++ {
		pos := s.lastLetter(current)
		if pos < 0 || current[pos] >= utf8.RuneSelf {
			break
		}
		group, ok := s.index[byte(current[pos])]
		if !ok {
			break
		}

		rule, found := s.match(group, current, intact)
		if !found {
			break
		}

		next := applyRule(current, rule)
		if trace != nil {
			trace(Step{Rule: rule, Before: string(current), After: string(next)})
		}
		current = next
		if rule.Continuation == Stop {
			break
		}
	}
	return string(current)
}

// match returns the first rule of group whose ending matches word and whose gate holds.
func (s *Stemmer) match(group []Rule, word, intact []rune) (Rule, bool) {
	for _, rule := range group {
		if !hasReversedSuffix(word, rule.Ending) {
			continue
		}
		if rule.IntactOnly && !equalRunes(word, intact) {
			continue
		}
		if acceptable(word, rule.RemoveCount) {
			return rule, true
		}
	}
	return Rule{}, false
}

func (s *Stemmer) lastLetter(word []rune) int {
	if s.trueLastLetter {
		for i := len(word) - 1; i >= 0; i-- {
			if unicode.IsLetter(word[i]) {
				return i
			}
		}
		return -1
	}
	last := -1
	for i, r := range word {
		if !unicode.IsLetter(r) {
			break
		}
		last = i
	}
	return last
}

func applyRule(word []rune, rule Rule) []rune {
	keep := len(word) - rule.RemoveCount
	next := make([]rune, 0, keep+len(rule.Append))
	next = append(next, word[:keep]...)
	for i := 0; i < len(rule.Append); i++ {
		next = append(next, rune(rule.Append[i]))
	}
	return next
}

// hasReversedSuffix reports whether word ends with the reverse of ending.
func hasReversedSuffix(word []rune, ending string) bool {
	if len(ending) > len(word) {
		return false
	}
	for i := 0; i < len(ending); i++ {
		if word[len(word)-1-i] != rune(ending[i]) {
			return false
		}
	}
	return true
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
