package corpus

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkmsoft/stemsearch/pkg/engine"
	"github.com/xkmsoft/stemsearch/pkg/lancaster"
)

const trainingJSON = `{
  "dataObjects": [
    {"id": "", "class": "greeting", "sentence": "how are you today?"},
    {"id": 7, "class": "sandwich", "sentence": "make me a sandwich"},
    {"class": "goodbye", "sentence": "talk to you tomorrow"},
    {"id": "g2", "class": "greeting", "sentence": "how is your day"}
  ]
}`

func newAnalyzer(t *testing.T) *engine.Analyzer {
	t.Helper()
	stemmer, err := engine.NewStemmer(engine.Lancaster, lancaster.Config{})
	require.NoError(t, err)
	a := engine.NewAnalyzer(stemmer)
	a.KeepStopWords = true
	return a
}

func TestLoadTrainingData(t *testing.T) {
	examples, err := LoadTrainingData(strings.NewReader(trainingJSON))
	require.NoError(t, err)
	require.Len(t, examples, 4)

	assert.Equal(t, Example{ID: "1", Class: "greeting", Sentence: "how are you today?"}, examples[0])
	assert.Equal(t, "7", examples[1].ID)
	assert.Equal(t, "3", examples[2].ID)
	assert.Equal(t, "g2", examples[3].ID)
}

func TestLoadTrainingDataInvalid(t *testing.T) {
	_, err := LoadTrainingData(strings.NewReader(`{"dataObjects": [`))
	assert.Error(t, err)

	_, err = LoadTrainingData(strings.NewReader(`{"dataObjects": [{"id": true}]}`))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	examples, err := LoadTrainingData(strings.NewReader(trainingJSON))
	require.NoError(t, err)

	c, err := Build(examples, newAnalyzer(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"goodbye", "greeting", "sandwich"}, c.Classes)
	assert.Contains(t, c.Words, "sandwich")
	assert.Contains(t, c.Words, "you")
	assert.NotContains(t, c.Words, "?")
	assert.True(t, sortedUnique(c.Words))

	inputs, outputs := c.Rows()
	require.Len(t, inputs, 4)
	require.Len(t, outputs, 4)
	assert.Equal(t, []int{0, 1, 0}, outputs[0])
	assert.Equal(t, []int{0, 0, 1}, outputs[1])
	for _, row := range inputs {
		assert.Len(t, row, len(c.Words))
	}
}

func TestVectorize(t *testing.T) {
	examples, err := LoadTrainingData(strings.NewReader(trainingJSON))
	require.NoError(t, err)
	c, err := Build(examples, newAnalyzer(t))
	require.NoError(t, err)

	bag, known := c.Vectorize("Make me some lunch")
	assert.Equal(t, []string{"mak", "me"}, known)

	ones := 0
	for _, v := range bag {
		ones += v
	}
	assert.Equal(t, 2, ones)

	_, err = c.OneHot("weather")
	assert.Error(t, err)
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil, newAnalyzer(t))
	assert.True(t, errors.Is(err, ErrEmptyCorpus))
}

func sortedUnique(words []string) bool {
	for i := 1; i < len(words); i++ {
		if words[i-1] >= words[i] {
			return false
		}
	}
	return true
}
