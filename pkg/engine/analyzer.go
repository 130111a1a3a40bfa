package engine

type AnalyzerInterface interface {
	Analyze(s string) []string
	Explain(s string) StemResult
}

// StemResult pairs each token of a text with its stem.
type StemResult struct {
	Tokens []string `json:"tokens"`
	Stems  []string `json:"stems"`
}

// Analyzer runs the tokenize, lowercase, fold, stop word and stem stages in that order.
type Analyzer struct {
	Tokenizer     *Tokenizer
	Filterer      *Filterer
	Stemmer       *Stemmer
	Fold          bool
	KeepStopWords bool
}

func NewAnalyzer(stemmer *Stemmer) *Analyzer {
	return &Analyzer{
		Tokenizer: NewTokenizer(),
		Filterer:  NewFilterer(),
		Stemmer:   stemmer,
		Fold:      true,
	}
}

func (a *Analyzer) normalize(s string) []string {
	tokens := a.Tokenizer.Tokenize(s)
	tokens = a.Filterer.Lowercase(tokens)
	if a.Fold {
		tokens = a.Filterer.Fold(tokens)
	}
	return a.Filterer.RemoveIgnored(tokens)
}

func (a *Analyzer) Analyze(s string) []string {
	tokens := a.normalize(s)
	if !a.KeepStopWords {
		tokens = a.Filterer.RemoveStopWords(tokens)
	}
	return a.Stemmer.Stem(tokens)
}

// Explain stems every token of s, stop words included, keeping tokens and stems aligned.
func (a *Analyzer) Explain(s string) StemResult {
	tokens := a.normalize(s)
	stems := make([]string, len(tokens))
	for idx, token := range tokens {
		stems[idx] = a.Stemmer.StemWord(token)
	}
	return StemResult{Tokens: tokens, Stems: stems}
}
