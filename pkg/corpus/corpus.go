// Package corpus turns labelled training sentences into a stemmed vocabulary and
// bag-of-words vectors for a downstream classifier.
package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/xkmsoft/stemsearch/pkg/engine"
)

var ErrEmptyCorpus = errors.New("training data has no examples")

// Example is one labelled sentence.
type Example struct {
	ID       string `json:"id"`
	Class    string `json:"class"`
	Sentence string `json:"sentence"`
}

type trainingFile struct {
	DataObjects []struct {
		ID       json.RawMessage `json:"id"`
		Class    string          `json:"class"`
		Sentence string          `json:"sentence"`
	} `json:"dataObjects"`
}

// LoadTrainingData decodes {"dataObjects": [{"id", "class", "sentence"}]}. An empty or
// missing id becomes the 1-based position of the example.
func LoadTrainingData(r io.Reader) ([]Example, error) {
	var file trainingFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode training data: %w", err)
	}

	examples := make([]Example, 0, len(file.DataObjects))
	for pos, obj := range file.DataObjects {
		id, err := decodeID(obj.ID)
		if err != nil {
			return nil, fmt.Errorf("example %d: %w", pos+1, err)
		}
		if id == "" {
			id = strconv.Itoa(pos + 1)
		}
		examples = append(examples, Example{ID: id, Class: obj.Class, Sentence: obj.Sentence})
	}
	return examples, nil
}

func LoadTrainingFile(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			fmt.Printf("Error closing training file: %s\n", err.Error())
		}
	}(f)
	return LoadTrainingData(f)
}

// decodeID accepts a string, a number or null.
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid id %s", raw)
	}
	return n.String(), nil
}

// Document is an example after analysis.
type Document struct {
	Stems []string
	Class string
}

// Corpus holds the vocabulary and classes of a training set. Words and Classes are sorted and
// unique; vector positions follow that order.
type Corpus struct {
	Words     []string
	Classes   []string
	Documents []Document

	analyzer   engine.AnalyzerInterface
	wordIndex  map[string]int
	classIndex map[string]int
}

// Build analyzes every example. The analyzer decides whether stop words are kept.
func Build(examples []Example, analyzer engine.AnalyzerInterface) (*Corpus, error) {
	if len(examples) == 0 {
		return nil, ErrEmptyCorpus
	}

	c := &Corpus{
		analyzer:   analyzer,
		wordIndex:  make(map[string]int),
		classIndex: make(map[string]int),
		Documents:  make([]Document, 0, len(examples)),
	}
	for _, example := range examples {
		stems := analyzer.Analyze(example.Sentence)
		c.Documents = append(c.Documents, Document{Stems: stems, Class: example.Class})
		for _, stem := range stems {
			c.wordIndex[stem] = 0
		}
		c.classIndex[example.Class] = 0
	}

	c.Words = sortedKeys(c.wordIndex)
	for idx, w := range c.Words {
		c.wordIndex[w] = idx
	}
	c.Classes = sortedKeys(c.classIndex)
	for idx, class := range c.Classes {
		c.classIndex[class] = idx
	}
	return c, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BagOfWords marks with 1 every vocabulary word that occurs among stems.
func (c *Corpus) BagOfWords(stems []string) []int {
	bag := make([]int, len(c.Words))
	for _, stem := range stems {
		if idx, ok := c.wordIndex[stem]; ok {
			bag[idx] = 1
		}
	}
	return bag
}

// Vectorize analyzes sentence and returns its bag of words together with the stems that
// were found in the vocabulary.
func (c *Corpus) Vectorize(sentence string) ([]int, []string) {
	stems := c.analyzer.Analyze(sentence)
	bag := c.BagOfWords(stems)
	known := make([]string, 0, len(stems))
	for _, stem := range stems {
		if _, ok := c.wordIndex[stem]; ok {
			known = append(known, stem)
		}
	}
	return bag, known
}

// OneHot returns the output row for class.
func (c *Corpus) OneHot(class string) ([]int, error) {
	idx, ok := c.classIndex[class]
	if !ok {
		return nil, fmt.Errorf("unknown class %q", class)
	}
	row := make([]int, len(c.Classes))
	row[idx] = 1
	return row, nil
}

// Rows returns the training matrix: one bag of words per document and the matching one-hot
// class rows.
func (c *Corpus) Rows() (inputs [][]int, outputs [][]int) {
	inputs = make([][]int, 0, len(c.Documents))
	outputs = make([][]int, 0, len(c.Documents))
	for _, doc := range c.Documents {
		inputs = append(inputs, c.BagOfWords(doc.Stems))
		row, _ := c.OneHot(doc.Class)
		outputs = append(outputs, row)
	}
	return inputs, outputs
}
