package transport

import (
	"errors"
	"net"

	"golang.org/x/net/netutil"
)

var ErrNotBound = errors.New("listener is not bound")

// TCP owns the listening socket. The socket never holds more than a single live connection.
type TCP struct {
	l           net.Listener
	constructor ListenerConstructor
}

// NewTCP returns a transport, which creates its socket via the constructor. If nil is passed,
// a plain TCP listener is used.
func NewTCP(constructor ListenerConstructor) *TCP {
	if constructor == nil {
		constructor = bindTCP
	}

	return &TCP{
		constructor: constructor,
	}
}

func bindTCP(network, addr string) (net.Listener, error) {
	tcpaddr, err := net.ResolveTCPAddr(network, addr)
	if err != nil {
		return nil, err
	}

	return net.ListenTCP(network, tcpaddr)
}

func (t *TCP) Bind(addr string) error {
	l, err := t.constructor("tcp", addr)
	if err != nil {
		return err
	}

	t.l = netutil.LimitListener(l, 1)
	return nil
}

// Accept blocks until a client connects.
func (t *TCP) Accept() (net.Conn, error) {
	if t.l == nil {
		return nil, ErrNotBound
	}

	return t.l.Accept()
}

// Addr returns the address the socket is actually bound to, or nil if it isn't bound yet.
func (t *TCP) Addr() net.Addr {
	if t.l == nil {
		return nil
	}

	return t.l.Addr()
}

func (t *TCP) Close() error {
	if t.l == nil {
		return nil
	}

	return t.l.Close()
}
