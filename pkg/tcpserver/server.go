package tcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xkmsoft/stemsearch/pkg/engine"
)

const (
	QUERY = byte(0)
	STEM  = byte(1)
)

const (
	HeaderSize     = 5
	MaxRequestSize = 1 << 20 // 1MB
	ReadTimeout    = 10 * time.Second
)

const (
	DataDirectory      = "data"
	BaseIndexes        = "indexes%s.json"
	BaseData           = "data%s.json"
	BaseFile           = "enwiki-latest-abstract%s.%s"
	BaseURL            = "https://dumps.wikimedia.org/enwiki/latest/enwiki-latest-abstract%s.xml.gz"
	XMLExtension       = "xml"
	GZExtension        = "xml.gz"
	AbstractFilesCount = 28
)

var (
	ErrInvalidQuery    = errors.New("invalid query")
	ErrRequestTooLarge = errors.New("request too large")
)

// Store is the persistent alternative to the JSON dumps of an abstract file.
type Store interface {
	engine.IndexStore
	HasIndex() (bool, error)
}

type ServerInterface interface {
	Address() string
	Signature() string
	InitializeServer(ctx context.Context) error
	HandleRequest(connection net.Conn)
	HandleResponse(response string, connection net.Conn)
	ParseQuery(query []byte) (*QueryStruct, error)
	AcceptConnections() error
	GetAbstractStruct() *AbstractStruct
	InitializeDataDirectory() error
}

type AbstractStruct struct {
	XMLFileName string
	GZFileName  string
	DataDump    string
	IndexDump   string
	URL         string
}

type Server struct {
	Host           string
	Port           string
	Network        string
	DataDirectory  string
	Indexer        *engine.Indexer
	Analyzer       *engine.Analyzer
	Store          Store
	Abstracts      []*AbstractStruct
	FileIndex      int
	CleanFlag      bool
	MaxRequestSize int64 // bytes read from one connection, header included

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

type QueryStruct struct {
	Command byte
	Page    uint32
	Phrase  string
}

func NewServer(host string, port string, network string, dataDirectory string, index int, clean bool, analyzer *engine.Analyzer) *Server {
	if dataDirectory == "" {
		dataDirectory = DataDirectory
	}
	abstracts := make([]*AbstractStruct, AbstractFilesCount)
	for i := 0; i < AbstractFilesCount; i++ {
		var suffix string
		if i > 0 {
			suffix = strconv.Itoa(i)
		}
		abstracts[i] = &AbstractStruct{
			XMLFileName: filepath.Join(dataDirectory, fmt.Sprintf(BaseFile, suffix, XMLExtension)),
			GZFileName:  filepath.Join(dataDirectory, fmt.Sprintf(BaseFile, suffix, GZExtension)),
			DataDump:    filepath.Join(dataDirectory, fmt.Sprintf(BaseData, suffix)),
			IndexDump:   filepath.Join(dataDirectory, fmt.Sprintf(BaseIndexes, suffix)),
			URL:         fmt.Sprintf(BaseURL, suffix),
		}
	}
	return &Server{
		Host:           host,
		Port:           port,
		Network:        network,
		DataDirectory:  dataDirectory,
		Indexer:        engine.NewIndexer(analyzer),
		Analyzer:       analyzer,
		Abstracts:      abstracts,
		FileIndex:      index,
		CleanFlag:      clean,
		MaxRequestSize: MaxRequestSize,
	}
}

func (s *Server) InitializeDataDirectory() error {
	if _, err := os.Stat(s.DataDirectory); os.IsNotExist(err) {
		return os.MkdirAll(s.DataDirectory, 0755)
	}
	if s.CleanFlag {
		files, err := os.ReadDir(s.DataDirectory)
		if err != nil {
			return err
		}
		for _, f := range files {
			if !f.IsDir() {
				if err := os.Remove(filepath.Join(s.DataDirectory, f.Name())); err != nil {
					fmt.Printf("File %s could not deleted: %s\n", f.Name(), err.Error())
				}
			}
		}
	}
	return nil
}

func (s *Server) GetAbstractStruct() *AbstractStruct {
	return s.Abstracts[s.FileIndex]
}

func (s *Server) Address() string {
	return net.JoinHostPort(s.Host, s.Port)
}

func (s *Server) Signature() string {
	return fmt.Sprintf("%s %s", s.Network, s.Address())
}

// InitializeServer fills the index from the cheapest available source: the store, the JSON
// dumps, the XML file, and finally a fresh download of the abstract dump.
func (s *Server) InitializeServer(ctx context.Context) error {
	fmt.Printf("Initializing the full text search engine and the tcpserver on %s\n", s.Signature())

	t0 := time.Now()
	defer func(t0 time.Time) {
		fmt.Printf("Initializing the server took %f seconds\n", time.Since(t0).Seconds())
	}(t0)

	if err := s.InitializeDataDirectory(); err != nil {
		return err
	}

	if s.Store != nil {
		found, err := s.Store.HasIndex()
		if err != nil {
			return err
		}
		if found {
			return s.Indexer.LoadFrom(s.Store)
		}
	}

	abstracts := s.GetAbstractStruct()

	if s.Store == nil && s.Indexer.IsFileExists(abstracts.IndexDump) && s.Indexer.IsFileExists(abstracts.DataDump) {
		return s.loadDumps(abstracts)
	}

	if !s.Indexer.IsFileExists(abstracts.XMLFileName) {
		// Phase 1: Download from the server
		if !s.Indexer.IsFileExists(abstracts.GZFileName) {
			if err := s.Indexer.DownloadWikimediaDump(ctx, abstracts.GZFileName, abstracts.URL); err != nil {
				return err
			}
		}
		// Phase 2: Uncompress the file
		if _, err := s.Indexer.UncompressWikimediaDump(abstracts.GZFileName); err != nil {
			return err
		}
	}
	// Phase 3: Load file and create indexes
	if err := s.Indexer.LoadWikimediaDump(abstracts.XMLFileName); err != nil {
		return err
	}
	return s.persist(abstracts)
}

// loadDumps loads the index and data dumps concurrently.
func (s *Server) loadDumps(abstracts *AbstractStruct) error {
	errs := make(chan error, 2)
	go func() {
		errs <- s.Indexer.LoadIndexDump(abstracts.IndexDump)
	}()
	go func() {
		errs <- s.Indexer.LoadDataDump(abstracts.DataDump)
	}()

	var first error
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *Server) persist(abstracts *AbstractStruct) error {
	if s.Store != nil {
		return s.Indexer.SaveTo(s.Store)
	}

	errs := make(chan error, 2)
	go func() {
		errs <- s.Indexer.SaveIndexDump(abstracts.IndexDump)
	}()
	go func() {
		errs <- s.Indexer.SaveDataDump(abstracts.DataDump)
	}()

	var first error
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	return first
}

// HandleRequest reads one request up to EOF, which the client signals by closing its write
// side, and writes the reply.
func (s *Server) HandleRequest(connection net.Conn) {
	request, err := s.ReadRequest(connection)
	if err != nil {
		s.HandleResponse(fmt.Sprintf("Error: %s", err.Error()), connection)
		return
	}

	queryStruct, err := s.ParseQuery(request)
	if err != nil {
		s.HandleResponse(fmt.Sprintf("Error: %s", err.Error()), connection)
		return
	}

	fmt.Printf("Command: %b Page: %d Phrase: %s\n", queryStruct.Command, queryStruct.Page, queryStruct.Phrase)

	phrase := strings.TrimSpace(queryStruct.Phrase)
	var str string
	switch queryStruct.Command {
	case STEM:
		str, err = ToJSONString(s.Analyzer.Explain(phrase))
	default:
		str, err = ToJSONString(s.Indexer.Search(phrase, queryStruct.Page))
	}
	if err != nil {
		s.HandleResponse(fmt.Sprintf("Error: %s", err.Error()), connection)
		return
	}
	s.HandleResponse(str, connection)
}

// ReadRequest reads until EOF. Requests longer than MaxRequestSize are drained and rejected
// with ErrRequestTooLarge.
func (s *Server) ReadRequest(connection net.Conn) ([]byte, error) {
	if err := connection.SetReadDeadline(time.Now().Add(ReadTimeout)); err != nil {
		return nil, err
	}
	limit := s.MaxRequestSize
	if limit <= 0 {
		limit = MaxRequestSize
	}

	request, err := io.ReadAll(io.LimitReader(connection, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading connection: %w", err)
	}
	if int64(len(request)) > limit {
		// unread bytes would make the close reset the connection before the reply arrives
		if _, err := io.Copy(io.Discard, connection); err != nil {
			fmt.Printf("Error draining connection: %s\n", err.Error())
		}
		return nil, fmt.Errorf("%w: it should be at most %d bytes", ErrRequestTooLarge, limit)
	}
	return request, nil
}

// ParseQuery decodes [command:1][page:4, big endian][phrase].
func (s *Server) ParseQuery(query []byte) (*QueryStruct, error) {
	if len(query) < HeaderSize {
		return nil, fmt.Errorf("%w: length %d, it should be at least %d bytes", ErrInvalidQuery, len(query), HeaderSize)
	}
	command := query[0]
	if command != QUERY && command != STEM {
		return nil, fmt.Errorf("%w: header byte %b", ErrInvalidQuery, command)
	}
	return &QueryStruct{
		Command: command,
		Page:    BytesToUint32(query[1:HeaderSize]),
		Phrase:  string(query[HeaderSize:]),
	}, nil
}

func (s *Server) HandleResponse(response string, connection net.Conn) {
	defer func(c net.Conn) {
		if err := c.Close(); err != nil {
			fmt.Printf("Error closing connection: %s\n", err.Error())
		}
	}(connection)

	if _, err := connection.Write([]byte(response + "\n")); err != nil {
		fmt.Printf("Error writing to the connection: %s\n", err.Error())
	}
}

// Listen binds the server address without accepting connections yet.
func (s *Server) Listen() error {
	listener, err := net.Listen(s.Network, s.Address())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until Close is called.
func (s *Server) Serve() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return errors.New("server is not listening")
	}

	fmt.Printf("Accepting connections on %s\n", listener.Addr())
	for {
		con, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				fmt.Printf("Server closed on %s\n", s.Signature())
				return nil
			}
			fmt.Printf("Error accepting connection: %s\n", err.Error())
			continue
		}
		go s.HandleRequest(con)
	}
}

func (s *Server) AcceptConnections() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}
