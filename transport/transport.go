package transport

import "net"

// ListenerConstructor creates the listening socket. It's the single point where the
// operating system's socket capability is consumed, so it can be substituted in tests.
type ListenerConstructor func(network, addr string) (net.Listener, error)
