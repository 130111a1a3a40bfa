package tcpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/xkmsoft/stemsearch/pkg/engine"
)

const (
	QUERY = byte(0)
	STEM  = byte(1)
)

const DialTimeout = 5 * time.Second

// ErrServer wraps the "Error: ..." replies of the engine.
var ErrServer = errors.New("engine error")

type ClientInterface interface {
	Query(s string, page uint32) (*engine.SearchResults, error)
	Stem(s string) (*engine.StemResult, error)
}

type TCPClient struct {
	Ip      string
	Port    string
	Network string
}

func NewTCPClient(ip string, port string, network string) *TCPClient {
	return &TCPClient{
		Ip:      ip,
		Port:    port,
		Network: network,
	}
}

func (c *TCPClient) PrepareQuery(command byte, s string, p uint32) []byte {
	query := make([]byte, 0, 5+len(s))
	query = append(query, GetHeader(command)...)
	query = append(query, Uint32ToBytes(p)...)
	query = append(query, []byte(s)...)
	return query
}

func (c *TCPClient) Address() string {
	return net.JoinHostPort(c.Ip, c.Port)
}

func (c *TCPClient) Query(s string, page uint32) (*engine.SearchResults, error) {
	var searchResults engine.SearchResults
	if err := c.roundTrip(c.PrepareQuery(QUERY, s, page), &searchResults); err != nil {
		return nil, err
	}
	return &searchResults, nil
}

func (c *TCPClient) Stem(s string) (*engine.StemResult, error) {
	var stemResult engine.StemResult
	if err := c.roundTrip(c.PrepareQuery(STEM, s, 0), &stemResult); err != nil {
		return nil, err
	}
	return &stemResult, nil
}

// roundTrip writes one request, closes the write side so the server reads it to EOF, and
// decodes the reply, which the server ends by closing the connection.
func (c *TCPClient) roundTrip(query []byte, v interface{}) error {
	conn, err := net.DialTimeout(c.Network, c.Address(), DialTimeout)
	if err != nil {
		return err
	}
	defer func(conn net.Conn) {
		if err := conn.Close(); err != nil {
			fmt.Printf("Error closing TCP connection: %s\n", err.Error())
		}
	}(conn)

	if _, err = conn.Write(query); err != nil {
		return err
	}
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		if err := cw.CloseWrite(); err != nil {
			return err
		}
	}

	var buffer bytes.Buffer
	if _, err := io.Copy(&buffer, conn); err != nil {
		return err
	}

	reply := bytes.TrimSpace(buffer.Bytes())
	if bytes.HasPrefix(reply, []byte("Error")) {
		msg := strings.TrimSpace(strings.TrimPrefix(string(reply), "Error:"))
		return fmt.Errorf("%w: %s", ErrServer, msg)
	}
	return json.Unmarshal(reply, v)
}
