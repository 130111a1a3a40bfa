package engine

import (
	"strings"
	"unicode"
)

type TokenizerInterface interface {
	Tokenize(s string) []string
}

// Tokenizer splits text on every rune that is neither a letter nor a number, except that an
// apostrophe between two letters stays inside the token ("don't").
type Tokenizer struct {
	KeepApostrophes bool
}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

func (t *Tokenizer) Tokenize(s string) []string {
	if !t.KeepApostrophes {
		return strings.FieldsFunc(s, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
	}

	runes := []rune(s)
	tokens := make([]string, 0, len(runes)/4)
	start := -1
	for i, r := range runes {
		inner := r == '\'' && i > 0 && i+1 < len(runes) && unicode.IsLetter(runes[i-1]) && unicode.IsLetter(runes[i+1])
		if unicode.IsLetter(r) || unicode.IsNumber(r) || inner {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, string(runes[start:i]))
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, string(runes[start:]))
	}
	return tokens
}
