package lancaster

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		raw  string
		want Rule
	}{
		{"ai*2.", Rule{Ending: "ai", IntactOnly: true, RemoveCount: 2, Continuation: Stop}},
		{"city3s.", Rule{Ending: "city", RemoveCount: 3, Append: "s", Continuation: Stop}},
		{"nois4j>", Rule{Ending: "nois", RemoveCount: 4, Append: "j", Continuation: Continue}},
		{"rae0.", Rule{Ending: "rae", RemoveCount: 0, Continuation: Stop}},
		{"s*1>", Rule{Ending: "s", IntactOnly: true, RemoveCount: 1, Continuation: Continue}},
		{"e1", Rule{Ending: "e", RemoveCount: 1, Continuation: Continue}},
		{"abc9xyz", Rule{Ending: "abc", RemoveCount: 9, Append: "xyz", Continuation: Continue}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseRule(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRuleInvalid(t *testing.T) {
	invalid := []string{
		"",
		"A*2.",
		"ab",
		"*1.",
		"1a.",
		"a**1.",
		"a12.",
		"a1>.",
		"a1A",
		"a1 ",
		" a1",
		"ai*2.\n",
		"é1.",
	}

	for _, raw := range invalid {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseRule(raw)
			require.Error(t, err)

			var ruleErr *InvalidRuleError
			require.True(t, errors.As(err, &ruleErr))
			assert.Equal(t, raw, ruleErr.Rule)
		})
	}
}

func TestRuleStringRoundTrip(t *testing.T) {
	for _, raw := range DefaultRules() {
		rule, err := ParseRule(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, rule.String())

		again, err := ParseRule(rule.String())
		require.NoError(t, err, raw)
		assert.Equal(t, rule, again)
	}
}

func TestRuleStringAddsTerminator(t *testing.T) {
	rule, err := ParseRule("lib2l")
	require.NoError(t, err)
	assert.Equal(t, "lib2l>", rule.String())
}

func TestRuleSuffix(t *testing.T) {
	rule, err := ParseRule("hsiug5ct.")
	require.NoError(t, err)
	assert.Equal(t, "guish", rule.Suffix())
}

func TestBuildIndex(t *testing.T) {
	index, err := BuildIndex(DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultRules()), index.Len())

	// group order follows the table
	var endings []string
	for _, rule := range index['t'] {
		endings = append(endings, rule.Ending)
	}
	assert.Equal(t, []string{
		"tacilp", "ta", "tnem", "tne", "tna", "tpir", "tpro", "tcud",
		"tpmus", "tpec", "tulo", "tsis", "tsi", "tt",
	}, endings)

	for key, group := range index {
		for _, rule := range group {
			assert.Equal(t, key, rule.Ending[0])
		}
	}
}

func TestBuildIndexRejectsWholeTable(t *testing.T) {
	index, err := BuildIndex([]string{"ai*2.", "a*1.", "ab", "e1>"})
	assert.Nil(t, index)

	var ruleErr *InvalidRuleError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, "ab", ruleErr.Rule)
	assert.Contains(t, err.Error(), `"ab"`)
}

func TestLoadRules(t *testing.T) {
	input := `
# custom table
ai*2.   # -ia if intact
e1>

s0.
`
	rules, err := LoadRules(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"ai*2.", "e1>", "s0."}, rules)
}

func TestLoadRulesInvalidLine(t *testing.T) {
	_, err := LoadRules(strings.NewReader("e1>\nA*2.\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	var ruleErr *InvalidRuleError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, "A*2.", ruleErr.Rule)
}

func TestLoadRulesEmpty(t *testing.T) {
	_, err := LoadRules(strings.NewReader("# nothing but comments\n\n   \n"))
	assert.True(t, errors.Is(err, ErrEmptyTable))

	_, err = LoadRules(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmptyTable))
}
