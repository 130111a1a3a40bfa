package engine

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring"
	xmlparser "github.com/tamerh/xml-stream-parser"
)

const (
	XmlStreamBufferSize = 1024 * 1024 * 1 // 1MB
	DocumentCapacity    = 524288          // 2^19
	PageSize            = 25
)

type Processed struct {
	Duration float64 `json:"time"`
	Unit     string  `json:"unit"`
}

type SearchResult struct {
	Url      string  `json:"url"`
	Rank     float64 `json:"rank"`
	Title    string  `json:"title"`
	Abstract string  `json:"abstract"`
}

type SearchResults struct {
	Processed       Processed      `json:"processed"`
	Stems           []string       `json:"stems"`
	NumberOfResults int            `json:"number_of_results"`
	CurrentPage     int            `json:"current_page"`
	NumberOfPages   int            `json:"number_of_pages"`
	Results         []SearchResult `json:"results"`
}

// Document is one <doc> entry of a Wikipedia abstract dump.
type Document struct {
	Index    uint32 `xml:"index" json:"index"`
	Title    string `xml:"title" json:"title"`
	Url      string `xml:"url" json:"url"`
	Abstract string `xml:"abstract" json:"abstract"`
}

// IndexStore persists an index and its documents outside of the JSON dump files.
type IndexStore interface {
	SaveIndex(indexes map[string]*roaring.Bitmap) error
	LoadIndex() (map[string]*roaring.Bitmap, error)
	SaveDocuments(data map[uint32]Document) error
	LoadDocuments() (map[uint32]Document, error)
}

type IndexerInterface interface {
	DownloadWikimediaDump(ctx context.Context, path string, url string) error
	UncompressWikimediaDump(path string) (string, error)
	LoadWikimediaDump(path string) error
	LoadIndexDump(path string) error
	LoadDataDump(path string) error
	SaveIndexDump(path string) error
	SaveDataDump(path string) error
	SaveTo(store IndexStore) error
	LoadFrom(store IndexStore) error
	IsFileExists(path string) bool
	Analyze(s string) []string
	AddIndex(tokens []string, index uint32)
	IndexDocuments(documents []Document)
	Search(s string, page uint32) SearchResults
}

type Indexer struct {
	Data       map[uint32]Document
	Indexes    map[string]*roaring.Bitmap
	Analyzer   *Analyzer
	Mutex      sync.RWMutex
	Cores      int
	Multiplier int
}

func NewIndexer(analyzer *Analyzer) *Indexer {
	return &Indexer{
		Data:       map[uint32]Document{},
		Indexes:    map[string]*roaring.Bitmap{},
		Analyzer:   analyzer,
		Cores:      runtime.NumCPU(),
		Multiplier: 2,
	}
}

// ParseWikimediaDump streams the <doc> elements of an abstract dump. Documents are numbered
// from first in the order they appear.
func ParseWikimediaDump(r io.Reader, first uint32) ([]Document, error) {
	parser := xmlparser.NewXMLParser(bufio.NewReaderSize(r, XmlStreamBufferSize), "doc")
	documents := make([]Document, 0, 1024)
	index := first

	var parseErr error
	for xmlElement := range parser.Stream() {
		if xmlElement.Err != nil {
			if parseErr == nil {
				parseErr = xmlElement.Err
			}
			continue
		}
		if xmlElement.Name != "doc" || parseErr != nil {
			continue
		}
		documents = append(documents, Document{
			Index:    index,
			Title:    childText(xmlElement, "title"),
			Url:      childText(xmlElement, "url"),
			Abstract: childText(xmlElement, "abstract"),
		})
		index++
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return documents, nil
}

func childText(element *xmlparser.XMLElement, name string) string {
	if childs := element.Childs[name]; len(childs) > 0 {
		return strings.TrimSpace(childs[0].InnerText)
	}
	return ""
}

func (i *Indexer) LoadWikimediaDump(path string) error {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Whole process took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			fmt.Printf("Closing xml file failed: %s\n", err.Error())
		}
	}(f)

	// Phase 1: Parsing the XML file
	t1 := time.Now()
	i.Mutex.RLock()
	first := uint32(len(i.Data))
	i.Mutex.RUnlock()
	documents, err := ParseWikimediaDump(f, first)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	fmt.Printf("Parsing XML file took %f seconds\n", time.Since(t1).Seconds())
	fmt.Printf("There are %d documents in the file %s\n", len(documents), path)

	// Phase 2: Creating indexes concurrently
	t2 := time.Now()
	i.IndexDocuments(documents)
	fmt.Printf("Indexing documents took %f seconds\n", time.Since(t2).Seconds())
	return nil
}

// IndexDocuments stores the documents and indexes them on Cores*Multiplier goroutines.
func (i *Indexer) IndexDocuments(documents []Document) {
	numberOfDocuments := len(documents)
	if numberOfDocuments == 0 {
		return
	}

	i.Mutex.Lock()
	for _, doc := range documents {
		i.Data[doc.Index] = doc
	}
	i.Mutex.Unlock()

	workers := i.Cores * i.Multiplier
	if workers < 1 {
		workers = 1
	}
	chunkSize := (numberOfDocuments + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < numberOfDocuments; start += chunkSize {
		end := start + chunkSize
		if end > numberOfDocuments {
			end = numberOfDocuments
		}
		wg.Add(1)
		go i.AddIndexesAsync(documents[start:end], &wg)
	}
	wg.Wait()
}

func (i *Indexer) AddIndexesAsync(documents []Document, wg *sync.WaitGroup) {
	defer wg.Done()
	for _, doc := range documents {
		tokens := i.Analyze(fmt.Sprintf("%s %s", doc.Title, doc.Abstract))
		i.AddIndex(tokens, doc.Index)
	}
}

func (i *Indexer) Analyze(s string) []string {
	return i.Analyzer.Analyze(s)
}

func (i *Indexer) AddIndex(tokens []string, index uint32) {
	i.Mutex.Lock()
	defer i.Mutex.Unlock()
	for _, token := range tokens {
		if indexes, exists := i.Indexes[token]; exists {
			indexes.Add(index)
		} else {
			i.Indexes[token] = roaring.BitmapOf(index)
		}
	}
}

// Search intersects the posting lists of the query stems. Stems that are not indexed are
// ignored. Results are ranked by the number of query stems found in the title.
func (i *Indexer) Search(s string, page uint32) SearchResults {
	t0 := time.Now()

	stems := uniqueTokens(i.Analyze(s))

	i.Mutex.RLock()
	bitmaps := make([]*roaring.Bitmap, 0, len(stems))
	for _, stem := range stems {
		if indexes, exists := i.Indexes[stem]; exists {
			bitmaps = append(bitmaps, indexes)
		}
	}
	var rb *roaring.Bitmap
	switch len(bitmaps) {
	case 0:
		rb = roaring.NewBitmap()
	case 1:
		rb = bitmaps[0].Clone()
	default:
		// Parallel ANDing to find the intersection
		rb = roaring.ParAnd(i.Cores, bitmaps...)
	}
	documents := make([]Document, 0, rb.GetCardinality())
	for _, index := range rb.ToArray() {
		if doc, ok := i.Data[index]; ok {
			documents = append(documents, doc)
		}
	}
	i.Mutex.RUnlock()

	searchResults := make([]SearchResult, 0, len(documents))
	for _, doc := range documents {
		searchResults = append(searchResults, SearchResult{
			Url:      doc.Url,
			Rank:     i.titleRank(doc.Title, stems),
			Title:    doc.Title,
			Abstract: doc.Abstract,
		})
	}
	sort.SliceStable(searchResults, func(a, b int) bool {
		return searchResults[a].Rank > searchResults[b].Rank
	})

	totalResults := len(searchResults)
	numberOfPages := GetNumberOfPages(totalResults, PageSize)
	currentPage := ClampPage(int(page), numberOfPages)
	paginationResults := SliceSearchResults(searchResults, currentPage)

	var duration float64
	elapsed := time.Since(t0)
	if elapsed.Microseconds() > 1000 {
		duration = float64(elapsed.Milliseconds())
	} else {
		duration = float64(elapsed.Microseconds()) / 1000.0
	}

	fmt.Printf("%d results returned out of (%d documents) in %f milliseconds for phrase: %s\n", len(paginationResults), totalResults, duration, s)
	return SearchResults{
		Processed: Processed{
			Duration: duration,
			Unit:     "milliseconds",
		},
		Stems:           stems,
		NumberOfResults: totalResults,
		Results:         paginationResults,
		CurrentPage:     currentPage,
		NumberOfPages:   numberOfPages,
	}
}

// titleRank is 1 plus the number of query stems that occur in the title.
func (i *Indexer) titleRank(title string, stems []string) float64 {
	titleStems := make(map[string]struct{})
	for _, stem := range i.Analyze(title) {
		titleStems[stem] = struct{}{}
	}
	rank := 1.0
	for _, stem := range stems {
		if _, ok := titleStems[stem]; ok {
			rank++
		}
	}
	return rank
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	unique := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		unique = append(unique, token)
	}
	return unique
}

func (i *Indexer) LoadIndexDump(path string) error {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Loading indexes dump took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	bytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var indexes map[string][]uint32
	if err = json.Unmarshal(bytes, &indexes); err != nil {
		return fmt.Errorf("decode index dump %s: %w", path, err)
	}

	i.Mutex.Lock()
	defer i.Mutex.Unlock()
	for token, idx := range indexes {
		i.Indexes[token] = roaring.BitmapOf(idx...)
	}
	return nil
}

func (i *Indexer) LoadDataDump(path string) error {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Loading data dump took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	bytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var data map[uint32]Document
	if err = json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("decode data dump %s: %w", path, err)
	}

	i.Mutex.Lock()
	i.Data = data
	i.Mutex.Unlock()
	return nil
}

func (i *Indexer) IsFileExists(path string) bool {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false
	}
	return true
}

func (i *Indexer) SaveIndexDump(path string) error {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Saving indexes dump into the file took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	i.Mutex.RLock()
	indexes := make(map[string][]uint32, len(i.Indexes))
	for token, idx := range i.Indexes {
		indexes[token] = idx.ToArray()
	}
	i.Mutex.RUnlock()

	bytes, err := json.Marshal(&indexes)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0644)
}

func (i *Indexer) SaveDataDump(path string) error {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Saving data dump into the file took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	i.Mutex.RLock()
	bytes, err := json.Marshal(&i.Data)
	i.Mutex.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0644)
}

// SaveTo writes the index and the documents into store.
func (i *Indexer) SaveTo(store IndexStore) error {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Saving index into the store took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	i.Mutex.RLock()
	defer i.Mutex.RUnlock()
	if err := store.SaveIndex(i.Indexes); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	if err := store.SaveDocuments(i.Data); err != nil {
		return fmt.Errorf("save documents: %w", err)
	}
	return nil
}

// LoadFrom replaces the index and the documents with the content of store.
func (i *Indexer) LoadFrom(store IndexStore) error {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Loading index from the store took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	indexes, err := store.LoadIndex()
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	data, err := store.LoadDocuments()
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	i.Mutex.Lock()
	i.Indexes = indexes
	i.Data = data
	i.Mutex.Unlock()
	return nil
}

// Size returns the number of documents and indexed stems.
func (i *Indexer) Size() (documents int, stems int) {
	i.Mutex.RLock()
	defer i.Mutex.RUnlock()
	return len(i.Data), len(i.Indexes)
}

func (i *Indexer) DownloadWikimediaDump(ctx context.Context, path string, url string) error {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Downloading wikimedia dump on %s took %f seconds\n", url, time.Since(t0).Seconds())
	}(t0)

	fmt.Printf("Downloading the file from %s\n", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func(b io.ReadCloser) {
		if err := b.Close(); err != nil {
			fmt.Printf("Error closing get body %s\n", err.Error())
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			fmt.Printf("Error closing file: %s\n", err.Error())
		}
	}(f)

	_, err = io.Copy(f, resp.Body)
	return err
}

// UncompressWikimediaDump gunzips path next to itself and returns the path of the result.
func (i *Indexer) UncompressWikimediaDump(path string) (string, error) {
	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Uncompressing the file took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	fmt.Printf("Uncompressing the file: %s\n", path)

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			fmt.Printf("Error closing file: %s\n", err.Error())
		}
	}(f)

	r, err := gzip.NewReader(f)
	if err != nil {
		return "", err
	}
	defer func(r *gzip.Reader) {
		if err := r.Close(); err != nil {
			fmt.Printf("Error closing reader: %s\n", err.Error())
		}
	}(r)

	dir, file := filepath.Split(path)
	target := filepath.Join(dir, strings.TrimSuffix(file, ".gz"))
	out, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer func(out *os.File) {
		if err := out.Close(); err != nil {
			fmt.Printf("Error closing file: %s\n", err.Error())
		}
	}(out)

	if _, err = io.Copy(out, r); err != nil {
		return "", err
	}
	return target, nil
}
