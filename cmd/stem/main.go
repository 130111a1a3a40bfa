package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/xkmsoft/stemsearch/pkg/config"
	"github.com/xkmsoft/stemsearch/pkg/corpus"
	"github.com/xkmsoft/stemsearch/pkg/engine"
)

type options struct {
	analyzer config.AnalyzerConfig
	trace    bool
	corpus   string
}

func parseFlags(args []string) (*options, []string, error) {
	fs := flag.NewFlagSet("stem", flag.ContinueOnError)
	stripPrefix := fs.Bool("prefix", false, "Strip a known prefix before stemming")
	rules := fs.String("rules", "", "Rule table file, one rule per line")
	algorithm := fs.String("algorithm", engine.Lancaster, "Stemming algorithm [lancaster, snowball, porter]")
	trueLastLetter := fs.Bool("true-last-letter", false, "Dispatch rules on the final letter of the word")
	apostrophes := fs.Bool("apostrophes", false, "Keep apostrophes between letters inside tokens")
	trace := fs.Bool("trace", false, "Print every rule applied (lancaster only)")
	corpusPath := fs.String("corpus", "", "Training JSON file; prints the vocabulary and bag-of-words rows")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return &options{
		analyzer: config.AnalyzerConfig{
			Algorithm:       *algorithm,
			RulesFile:       *rules,
			StripPrefix:     *stripPrefix,
			TrueLastLetter:  *trueLastLetter,
			KeepApostrophes: *apostrophes,
		},
		trace:  *trace,
		corpus: *corpusPath,
	}, fs.Args(), nil
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	opts, words, err := parseFlags(args)
	if err != nil {
		return err
	}

	if opts.corpus != "" {
		opts.analyzer.KeepStopWords = true
		analyzer, err := opts.analyzer.Build()
		if err != nil {
			return err
		}
		return printCorpus(opts.corpus, analyzer, stdout)
	}

	analyzer, err := opts.analyzer.Build()
	if err != nil {
		return err
	}

	if len(words) > 0 {
		for _, word := range analyzer.Tokenizer.Tokenize(strings.Join(words, " ")) {
			printStem(word, analyzer.Stemmer, opts.trace, stdout)
		}
		return nil
	}

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		for _, word := range analyzer.Tokenizer.Tokenize(scanner.Text()) {
			printStem(word, analyzer.Stemmer, opts.trace, stdout)
		}
	}
	return scanner.Err()
}

func printStem(word string, stemmer *engine.Stemmer, trace bool, w io.Writer) {
	if l := stemmer.RuleStemmer(); trace && l != nil {
		stem, steps := l.Trace(word)
		fmt.Fprintf(w, "%s\t%s\n", word, stem)
		for _, step := range steps {
			fmt.Fprintf(w, "\t%s\t%s -> %s\n", step.Rule, step.Before, step.After)
		}
		return
	}
	fmt.Fprintf(w, "%s\t%s\n", word, stemmer.StemWord(word))
}

func printCorpus(path string, analyzer engine.AnalyzerInterface, w io.Writer) error {
	examples, err := corpus.LoadTrainingFile(path)
	if err != nil {
		return err
	}
	c, err := corpus.Build(examples, analyzer)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%d documents\n", len(c.Documents))
	fmt.Fprintf(w, "%d classes %v\n", len(c.Classes), c.Classes)
	fmt.Fprintf(w, "%d unique stemmed words %v\n", len(c.Words), c.Words)

	inputs, outputs := c.Rows()
	for idx := range inputs {
		fmt.Fprintf(w, "%v %v\n", inputs[idx], outputs[idx])
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
