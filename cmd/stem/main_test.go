package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStemArgs(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"maximum", "Provision"}, strings.NewReader(""), &out))
	assert.Equal(t, "maximum\tmaxim\nProvision\tprovid\n", out.String())
}

func TestStemStdin(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-prefix"}, strings.NewReader("kilometer\n\nsaying owed\n"), &out))
	assert.Equal(t, "kilometer\tmet\nsaying\tsay\nowed\tow\n", out.String())
}

func TestStemApostrophes(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"don't"}, nil, &out))
	assert.Equal(t, "don\tdon\nt\tt\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"-apostrophes", "don't"}, nil, &out))
	assert.Equal(t, "don't\tdon't\n", out.String())
}

func TestStemTrace(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-trace", "provision"}, nil, &out))
	assert.Equal(t, "provision\tprovid\n\tnois4j>\tprovision -> provij\n\tji1d.\tprovij -> provid\n", out.String())
}

func TestStemRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.txt")
	require.NoError(t, os.WriteFile(path, []byte("s*1>\n"), 0644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-rules", path, "cats", "provision"}, nil, &out))
	assert.Equal(t, "cats\tcat\nprovision\tprovision\n", out.String())
}

func TestStemErrors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"-algorithm", "lovins", "word"}, nil, &out))
	assert.Error(t, run([]string{"-rules", filepath.Join(t.TempDir(), "missing.txt"), "word"}, nil, &out))

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("# empty\n"), 0644))
	assert.Error(t, run([]string{"-rules", empty, "word"}, nil, &out))
}

func TestCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "training.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"dataObjects": [
		{"class": "greeting", "sentence": "how are you"},
		{"class": "sandwich", "sentence": "make me a sandwich"}
	]}`), 0644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-corpus", path}, nil, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "2 documents", lines[0])
	assert.Equal(t, "2 classes [greeting sandwich]", lines[1])
	assert.True(t, strings.HasSuffix(lines[4], "[0 1]"), lines[4])
}
