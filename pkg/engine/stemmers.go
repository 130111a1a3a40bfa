package engine

import (
	"errors"
	"fmt"

	"github.com/kljensen/snowball"
	"github.com/reiver/go-porterstemmer"
	"github.com/xkmsoft/stemsearch/pkg/lancaster"
)

const (
	Lancaster = "lancaster"
	Snowball  = "snowball"
	Porter    = "porter"
)

var ErrUnknownAlgorithm = errors.New("unknown stemming algorithm")

type StemmerInterface interface {
	Stem(tokens []string) []string
	StemWord(token string) string
}

// Stemmer stems tokens with one of the supported algorithms. The lancaster backend is the
// rule table stemmer of this module; snowball and porter are kept for comparison. The zero
// value stems with the built-in lancaster table.
type Stemmer struct {
	Algorithm string
	lancaster *lancaster.Stemmer
}

func NewStemmer(algorithm string, cfg lancaster.Config) (*Stemmer, error) {
	if algorithm == "" {
		algorithm = Lancaster
	}
	s := &Stemmer{Algorithm: algorithm}
	switch algorithm {
	case Lancaster:
		l, err := lancaster.New(cfg)
		if err != nil {
			return nil, err
		}
		s.lancaster = l
	case Snowball, Porter:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
	return s, nil
}

// NewLancasterStemmer wraps an already configured rule table stemmer.
func NewLancasterStemmer(l *lancaster.Stemmer) *Stemmer {
	return &Stemmer{Algorithm: Lancaster, lancaster: l}
}

func (s *Stemmer) StemWord(token string) string {
	switch s.Algorithm {
	case Snowball:
		stemmed, err := snowball.Stem(token, "english", false)
		if err != nil {
			return token
		}
		return stemmed
	case Porter:
		return porterstemmer.StemString(token)
	default:
		if s.lancaster == nil {
			return lancaster.Default().Stem(token)
		}
		return s.lancaster.Stem(token)
	}
}

func (s *Stemmer) Stem(tokens []string) []string {
	newTokens := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if stemmed := s.StemWord(token); stemmed != "" {
			newTokens = append(newTokens, stemmed)
		}
	}
	return newTokens
}

// RuleStemmer returns the rule table stemmer, or nil for the other algorithms.
func (s *Stemmer) RuleStemmer() *lancaster.Stemmer {
	return s.lancaster
}
