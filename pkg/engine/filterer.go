package engine

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type FilterInterface interface {
	Lowercase(tokens []string) []string
	Fold(tokens []string) []string
	RemoveStopWords(tokens []string) []string
	RemoveIgnored(tokens []string) []string
}

// Filterer normalizes and drops tokens. Stop words are the snowball English list plus
// StopWords; Ignored tokens are dropped even when stop word removal is off.
type Filterer struct {
	StopWords map[string]struct{}
	Ignored   map[string]struct{}
}

func NewFilterer(stopWords ...string) *Filterer {
	f := &Filterer{
		StopWords: make(map[string]struct{}, len(stopWords)),
		Ignored:   map[string]struct{}{"?": {}},
	}
	for _, w := range stopWords {
		f.StopWords[strings.ToLower(w)] = struct{}{}
	}
	return f
}

func (f *Filterer) IsStopWord(token string) bool {
	if _, ok := f.StopWords[token]; ok {
		return true
	}
	return english.IsStopWord(token)
}

func (f *Filterer) Lowercase(tokens []string) []string {
	for idx := range tokens {
		tokens[idx] = strings.ToLower(tokens[idx])
	}
	return tokens
}

// Fold strips combining marks so that "café" and "cafe" produce the same token.
func (f *Filterer) Fold(tokens []string) []string {
	// transformer chains keep state, so each call builds its own
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	for idx := range tokens {
		folded, _, err := transform.String(t, tokens[idx])
		if err == nil {
			tokens[idx] = folded
		}
	}
	return tokens
}

func (f *Filterer) RemoveStopWords(tokens []string) []string {
	newTokens := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if !f.IsStopWord(token) {
			newTokens = append(newTokens, token)
		}
	}
	return newTokens
}

func (f *Filterer) RemoveIgnored(tokens []string) []string {
	newTokens := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ignored := f.Ignored[token]; !ignored {
			newTokens = append(newTokens, token)
		}
	}
	return newTokens
}
