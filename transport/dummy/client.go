package dummy

import (
	"io"
	"net"

	"github.com/indigo-web/okstub/transport"
)

var _ transport.Client = new(Client)

// Client replays the chunks it was initialised with, one per read. Once they're over, every
// read returns the final error, io.EOF unless set otherwise. Everything written is journaled
// per call, so tests can check each response separately.
type Client struct {
	data     [][]byte
	pointer  int
	readErr  error
	writeErr error
	written  [][]byte
	closed   bool
}

func NewClient(data ...[]byte) *Client {
	return &Client{
		data:    data,
		readErr: io.EOF,
	}
}

// FailReads makes the client return the error instead of io.EOF after all the chunks are read.
func (c *Client) FailReads(err error) *Client {
	c.readErr = err
	return c
}

// FailWrites makes every write fail with the error.
func (c *Client) FailWrites(err error) *Client {
	c.writeErr = err
	return c
}

func (c *Client) Read() ([]byte, error) {
	if c.closed {
		return nil, net.ErrClosed
	}

	if c.pointer >= len(c.data) {
		return nil, c.readErr
	}

	chunk := c.data[c.pointer]
	c.pointer++

	return chunk, nil
}

func (c *Client) Write(b []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}

	c.written = append(c.written, append([]byte(nil), b...))
	return len(b), nil
}

// Written returns a copy of every slice passed to Write, in order.
func (c *Client) Written() [][]byte {
	return c.written
}

func (*Client) Remote() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 1}
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

func (c *Client) Closed() bool {
	return c.closed
}

// ShortWriter accepts at most N bytes per write, reporting no error. That's what a broken
// io.Writer looks like.
type ShortWriter struct {
	*Client
	N int
}

func (s ShortWriter) Write(b []byte) (int, error) {
	if len(b) > s.N {
		b = b[:s.N]
	}

	return s.Client.Write(b)
}
