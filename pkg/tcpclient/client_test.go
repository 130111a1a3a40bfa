package tcpclient

import (
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkmsoft/stemsearch/pkg/engine"
	"github.com/xkmsoft/stemsearch/pkg/lancaster"
	"github.com/xkmsoft/stemsearch/pkg/tcpserver"
)

const testDump = `<feed>
<doc>
<title>Wikipedia: Provision</title>
<url>https://en.wikipedia.org/wiki/Provision</url>
<abstract>A provision is a maximum saying.</abstract>
</doc>
</feed>`

func startServer(t *testing.T) *TCPClient {
	t.Helper()
	stemmer, err := engine.NewStemmer(engine.Lancaster, lancaster.Config{})
	require.NoError(t, err)
	s := tcpserver.NewServer("127.0.0.1", "0", "tcp", t.TempDir(), 0, false, engine.NewAnalyzer(stemmer))
	documents, err := engine.ParseWikimediaDump(strings.NewReader(testDump), 0)
	require.NoError(t, err)
	s.Indexer.IndexDocuments(documents)

	require.NoError(t, s.Listen())
	go func() {
		_ = s.Serve()
	}()
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})

	host, port, err := net.SplitHostPort(s.Addr().String())
	require.NoError(t, err)
	return NewTCPClient(host, port, "tcp")
}

func TestPrepareQuery(t *testing.T) {
	c := NewTCPClient("localhost", "3333", "tcp")
	assert.Equal(t, []byte{STEM, 0, 0, 1, 2, 'a', 'b'}, c.PrepareQuery(STEM, "ab", 258))
	assert.Equal(t, "localhost:3333", c.Address())
}

func TestQuery(t *testing.T) {
	c := startServer(t)

	results, err := c.Query("provisions", 1)
	require.NoError(t, err)
	require.Equal(t, 1, results.NumberOfResults)
	assert.Equal(t, "Wikipedia: Provision", results.Results[0].Title)
	assert.Equal(t, []string{"provid"}, results.Stems)
}

func TestStem(t *testing.T) {
	c := startServer(t)

	result, err := c.Stem("maximum provision")
	require.NoError(t, err)
	assert.Equal(t, []string{"maximum", "provision"}, result.Tokens)
	assert.Equal(t, []string{"maxim", "provid"}, result.Stems)
}

func TestServerError(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		buffer := make([]byte, 64)
		_, _ = conn.Read(buffer)
		_, _ = conn.Write([]byte("Error: invalid query\n"))
		_ = conn.Close()
	}()

	host, port, err := net.SplitHostPort(listener.Addr().String())
	require.NoError(t, err)
	_, err = NewTCPClient(host, port, "tcp").Stem("x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServer))
	assert.Contains(t, err.Error(), "invalid query")
}

func TestStemLongText(t *testing.T) {
	c := startServer(t)

	result, err := c.Stem(strings.Repeat("running ", 300))
	require.NoError(t, err)
	require.Len(t, result.Tokens, 300)
	require.Len(t, result.Stems, 300)
	assert.Equal(t, "run", result.Stems[0])
}
