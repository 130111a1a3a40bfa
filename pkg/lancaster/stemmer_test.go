package lancaster

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStem(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"maximum", "maxim"},
		{"provision", "provid"},
		{"owed", "ow"},
		{"saying", "say"},
		{"cement", "cem"},
		{"string", "string"},

		// protect rules fire and stop
		{"ear", "ear"},
		{"meant", "meant"},

		{"cats", "cat"},
		{"dogs", "dog"},
		{"happiness", "happy"},

		// input is case folded
		{"Maximum", "maxim"},
		{"SAYING", "say"},

		// nothing to do
		{"", ""},
		{"a", "a"},
		{"123", "123"},
		{"x-rays", "x-rays"},

		// dispatch uses the end of the leading letter run
		{"ab1ing", "ab1ing"},
		{"don't", "don't"},
	}

	s := MustNew(Config{})
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Stem(tt.input))
			assert.Equal(t, tt.want, Stem(tt.input))
		})
	}
}

func TestStemTrueLastLetter(t *testing.T) {
	s := MustNew(Config{TrueLastLetter: true})
	assert.Equal(t, "ab1", s.Stem("ab1ing"))
	assert.Equal(t, "maxim", s.Stem("maximum"))
	assert.Equal(t, "123", s.Stem("123"))
}

func TestStemStripPrefix(t *testing.T) {
	s := MustNew(Config{StripPrefix: true})
	assert.Equal(t, "met", s.Stem("kilometer"))
	assert.Equal(t, "maxim", s.Stem("maximum"))

	// "mu*2." only fires when the word is intact, so the intact reference must be the
	// word after the prefix is gone.
	assert.Equal(t, "maxim", s.Stem("ultramaximum"))
	_, steps := s.Trace("ultramaximum")
	require.Len(t, steps, 1)
	assert.Equal(t, "mu*2.", steps[0].Rule.String())
	assert.Equal(t, "maximum", steps[0].Before)

	plain := MustNew(Config{})
	assert.Equal(t, "kilomet", plain.Stem("kilometer"))
}

func TestTablesAreCopies(t *testing.T) {
	p := Prefixes()
	require.Equal(t, "kilo", p[0])
	p[0] = "met"
	assert.Equal(t, "kilo", Prefixes()[0])
	assert.Equal(t, "meter", StripPrefix("kilometer"))

	rules := DefaultRules()
	require.Len(t, rules, 115)
	rules[0] = "x0."
	assert.Equal(t, "ai*2.", DefaultRules()[0])
}

func TestStripPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"kilometer", "meter"},
		{"microscope", "scope"},
		{"megahertz", "hertz"},
		{"pseudocode", "code"},
		{"antidisestablish", "disestablish"},
		{"disexhyper", "exhyper"},
		{"exhale", "hale"},
		{"string", "string"},
		{"", ""},
		{"ex", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, StripPrefix(tt.input))
		})
	}
}

func TestAcceptable(t *testing.T) {
	tests := []struct {
		word   string
		remove int
		want   bool
	}{
		{"owed", 2, true},
		{"owe", 2, false},
		{"ab", 0, true},
		{"cement", 4, false},
		{"cement", 3, true},
		{"string", 3, false},
		{"strings", 0, false},
		{"by", 0, false},
		{"bya", 0, true},
		{"mat", 0, true},
		{"", 0, false},
		{"a", 9, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Acceptable(tt.word, tt.remove), "Acceptable(%q, %d)", tt.word, tt.remove)
	}
}

func TestTrace(t *testing.T) {
	s := MustNew(Config{})
	stem, steps := s.Trace("provision")
	assert.Equal(t, "provid", stem)
	require.Len(t, steps, 2)

	assert.Equal(t, "nois4j>", steps[0].Rule.String())
	assert.Equal(t, "provision", steps[0].Before)
	assert.Equal(t, "provij", steps[0].After)

	assert.Equal(t, "ji1d.", steps[1].Rule.String())
	assert.Equal(t, "provid", steps[1].After)

	stem, steps = s.Trace("string")
	assert.Equal(t, "string", stem)
	assert.Empty(t, steps)
}

func TestApply(t *testing.T) {
	index := Default().Index()
	assert.Equal(t, "provid", Apply("provision", index))
	assert.Equal(t, "kilomet", Apply("kilometer", index))

	custom, err := BuildIndex([]string{"gni3.", "s1>"})
	require.NoError(t, err)
	assert.Equal(t, "walk", Apply("walkings", custom))
	assert.Equal(t, "string", Apply("string", custom))
	assert.Equal(t, "", Apply("", custom))
}

func TestFirstMatchWins(t *testing.T) {
	// both rules match "-ment"; the earlier one is acceptable and wins
	s := MustNew(Config{Rules: []string{"tnem4.", "tne3."}})
	assert.Equal(t, "govern", s.Stem("government"))

	s = MustNew(Config{Rules: []string{"tne3.", "tnem4."}})
	assert.Equal(t, "governm", s.Stem("government"))
}

func TestIntactOnly(t *testing.T) {
	s := MustNew(Config{Rules: []string{"sei3y>", "s*1>", "yb*1.", "y0."}})
	assert.Equal(t, "cat", s.Stem("cats"))
	assert.Equal(t, "bab", s.Stem("baby"))
	// "babies" becomes "baby" first, so "yb*1." is skipped and "y0." stops
	assert.Equal(t, "baby", s.Stem("babies"))
}

func TestNewInvalidRules(t *testing.T) {
	s, err := New(Config{Rules: []string{"ai*2.", "A*2."}})
	assert.Nil(t, s)

	var ruleErr *InvalidRuleError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, "A*2.", ruleErr.Rule)

	assert.Panics(t, func() {
		MustNew(Config{Rules: []string{"ab"}})
	})
}

func TestStemTerminatesWithLoopingTable(t *testing.T) {
	s := MustNew(Config{Rules: []string{"a0>"}})
	assert.Equal(t, "banana", s.Stem("banana"))

	grow := MustNew(Config{Rules: []string{"a0a>"}, MaxRounds: 3})
	assert.Equal(t, "bananaaaa", grow.Stem("banana"))
}

func TestStemNeverLengthens(t *testing.T) {
	words := []string{
		"abilities", "acceptance", "according", "dependencies", "government",
		"happiness", "hopefully", "international", "nationality", "operational",
		"organization", "philosophy", "psychology", "relational", "responsibility",
		"sensibility", "specification", "suspicious", "conscientious", "extraordinary",
		"quickly", "running", "flies", "ceded", "proceed", "guidance", "received",
		"distinguish", "absorption", "resolution", "presumption", "inscription",
	}

	s := MustNew(Config{})
	for _, w := range words {
		stem, steps := s.Trace(w)
		assert.LessOrEqual(t, len(stem), len(w), w)
		assert.LessOrEqual(t, len(steps), len(DefaultRules()), w)
	}
}

func TestStemBoundedRounds(t *testing.T) {
	s := MustNew(Config{})
	for _, suffix := range []string{"ing", "ness", "ment", "ly", "s", "ies", "ational"} {
		word := strings.Repeat(suffix, 64/len(suffix))
		require.LessOrEqual(t, len(word), 64)

		stem, steps := s.Trace(word)
		assert.LessOrEqual(t, len(steps), len(DefaultRules()), word)
		assert.LessOrEqual(t, len(stem), len(word), word)
	}
}

func TestStemConcurrent(t *testing.T) {
	s := MustNew(Config{StripPrefix: true})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "provid", s.Stem("provision"))
				assert.Equal(t, "maxim", Stem("maximum"))
			}
		}()
	}
	wg.Wait()
}
