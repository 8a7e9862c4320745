package okstub

import (
	"errors"
	"fmt"
	"net"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/okstub/alloc"
	"github.com/indigo-web/okstub/config"
	"github.com/indigo-web/okstub/internal/buffer"
	"github.com/indigo-web/okstub/internal/server/stub"
	"github.com/indigo-web/okstub/transport"
	"github.com/rs/zerolog"
)

// DefaultAddr is where the stub always listens.
const DefaultAddr = "0.0.0.0:8080"

var (
	ErrSetup  = errors.New("setup failed")
	ErrAccept = errors.New("accept failed")
)

// App accepts exactly one client, answers every chunk it sends with 200 OK and returns as
// soon as the client goes away.
type App struct {
	cfg         *config.Config
	log         zerolog.Logger
	ledger      *alloc.Ledger
	constructor transport.ListenerConstructor
	hooks       hooks
}

// New returns a new App instance.
func New() *App {
	return &App{
		cfg:    config.Default(),
		log:    zerolog.Nop(),
		ledger: alloc.NewLedger(),
	}
}

// Tune replaces the default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

func (a *App) Logger(log zerolog.Logger) *App {
	a.log = log
	return a
}

// Ledger sets the ledger both connection buffers are taken from, so their release can be
// observed from outside.
func (a *App) Ledger(ledger *alloc.Ledger) *App {
	a.ledger = ledger
	return a
}

// Listener overrides how the listening socket is created. The address passed to the
// constructor is always DefaultAddr.
func (a *App) Listener(constructor transport.ListenerConstructor) *App {
	a.constructor = constructor
	return a
}

// NotifyOnStart calls the callback with the bound address right before the app starts
// waiting for the client.
func (a *App) NotifyOnStart(cb func(addr net.Addr)) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback after every resource is released, no matter how the
// serving ended.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Serve binds the socket, serves a single client and releases everything it acquired on
// the way out. nil is returned only if the client closed the connection itself.
func (a *App) Serve() error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrSetup, err)
	}

	if a.hooks.OnStop != nil {
		defer a.hooks.OnStop()
	}

	tcp := transport.NewTCP(a.constructor)
	if err := tcp.Bind(DefaultAddr); err != nil {
		a.log.Error().Err(err).Str("addr", DefaultAddr).Msg("cannot bind")
		return fmt.Errorf("%w: %w", ErrSetup, err)
	}

	defer func() {
		if err := tcp.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing the listener")
		}
	}()

	a.log.Info().Stringer("addr", tcp.Addr()).Msg("waiting for connections")
	if a.hooks.OnStart != nil {
		a.hooks.OnStart(tcp.Addr())
	}

	conn, err := tcp.Accept()
	if err != nil {
		a.log.Error().Err(err).Msg("cannot accept")
		return fmt.Errorf("%w: %w", ErrAccept, err)
	}

	return a.serveConn(conn)
}

func (a *App) serveConn(conn net.Conn) (err error) {
	log := a.log.With().
		Str("session", uniuri.New()).
		Stringer("remote", conn.RemoteAddr()).
		Logger()
	log.Info().Msg("accepted new connection")

	defer func() {
		_ = conn.Close()
		log.Info().Msg("cleanup")
	}()

	readBuff, err := a.ledger.Acquire(a.cfg.NET.ReadBufferSize)
	if err != nil {
		return fmt.Errorf("%w: read buffer: %w", ErrSetup, err)
	}

	defer a.ledger.Release(readBuff)

	writeBuff, err := buffer.Allocate(a.ledger, a.cfg.NET.WriteBufferSize)
	if err != nil {
		return fmt.Errorf("%w: write buffer: %w", ErrSetup, err)
	}

	defer writeBuff.Free()
	writeBuff.Zero()

	driver := stub.New(writeBuff, log)
	err = driver.Run(transport.NewClient(conn, a.cfg.NET.ReadTimeout, readBuff))

	event := log.Info()
	if err != nil {
		event = log.Error().Err(err)
	}

	event.
		Int("responses", driver.Responses()).
		Int("received", driver.BytesReceived()).
		Int("sent", driver.BytesSent()).
		Msg("connection closed")

	return err
}

// ExitCode maps the result of Serve onto the process exit status.
func ExitCode(err error) int {
	if err != nil {
		return 1
	}

	return 0
}

type hooks struct {
	OnStart func(net.Addr)
	OnStop  func()
}
