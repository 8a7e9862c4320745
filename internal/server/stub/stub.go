package stub

import (
	"errors"
	"fmt"
	"io"

	"github.com/indigo-web/okstub/internal/buffer"
	"github.com/indigo-web/okstub/internal/protocol/http1"
	"github.com/indigo-web/okstub/transport"
	"github.com/rs/zerolog"
)

var (
	ErrReceive = errors.New("receive failed")
	ErrSend    = errors.New("send failed")
)

type State uint8

const (
	Listening State = iota
	Accepted
	Receiving
	Responding
	Closed
)

func (s State) String() string {
	switch s {
	case Listening:
		return "listening"
	case Accepted:
		return "accepted"
	case Receiving:
		return "receiving"
	case Responding:
		return "responding"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Driver answers every received chunk of a single connection with the same response,
// regardless of what the chunk contains. The write buffer is exclusively owned by the driver
// for the whole connection's lifetime, but it's neither allocated nor freed here.
type Driver struct {
	buff   *buffer.Buffer
	header http1.Header
	log    zerolog.Logger
	state  State

	responses, received, sent int
}

func New(buff *buffer.Buffer, log zerolog.Logger) *Driver {
	return &Driver{
		buff:   buff,
		header: http1.OK(),
		log:    log,
		state:  Accepted,
	}
}

// Run serves the client until it closes the connection, in which case nil is returned. Any
// other outcome is an error wrapping either ErrReceive or ErrSend, or a serialization error.
func (d *Driver) Run(client transport.Client) error {
	for {
		ok, err := d.HandleChunk(client)
		if !ok {
			return err
		}
	}
}

// HandleChunk receives once and responds if anything arrived. It returns false as soon as the
// connection is over, whether gracefully or not.
func (d *Driver) HandleChunk(client transport.Client) (ok bool, err error) {
	d.state = Receiving
	data, err := client.Read()

	if len(data) > 0 {
		d.received += len(data)
		d.log.Info().Int("bytes", len(data)).Msg("bytes received")

		if rerr := d.respond(client); rerr != nil {
			d.state = Closed
			return false, rerr
		}
	}

	switch {
	case err == nil && len(data) > 0:
		return true, nil
	case err == nil, errors.Is(err, io.EOF):
		d.log.Info().Msg("closing connection")
		d.state = Closed
		return false, nil
	default:
		d.state = Closed
		return false, fmt.Errorf("%w: %w", ErrReceive, err)
	}
}

func (d *Driver) respond(client transport.Client) error {
	d.state = Responding
	d.buff.Reset()

	if err := http1.WriteResponseHeader(d.buff, d.header); err != nil {
		return fmt.Errorf("serialize response: %w", err)
	}

	n, err := client.Write(d.buff.Bytes())
	d.sent += n
	switch {
	case err != nil:
		return fmt.Errorf("%w: %w", ErrSend, err)
	case n != d.buff.Len():
		return fmt.Errorf("%w: %w", ErrSend, io.ErrShortWrite)
	}

	d.responses++
	d.log.Info().Int("bytes", n).Msg("bytes sent")

	return nil
}

func (d *Driver) State() State {
	return d.state
}

// Responses returns how many responses were sent completely.
func (d *Driver) Responses() int {
	return d.responses
}

func (d *Driver) BytesReceived() int {
	return d.received
}

func (d *Driver) BytesSent() int {
	return d.sent
}
