package lightbridge

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
)

// Bridge ties the command server, executor and device controller together.
// One Bridge drives one physical device; any number of TCP clients may
// connect and all of them see the same session state.
type Bridge struct {
	cfg     Config
	state   *SessionState
	exec    *Executor
	metrics *Metrics

	mu       sync.Mutex
	listener net.Listener
}

// New assembles a bridge from the default configuration and the given
// options. Either WithDevice or WithDialer must be provided.
func New(opts ...Option) (*Bridge, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	dial := cfg.Dial
	if dial == nil {
		if cfg.DevicePath == "" {
			return nil, fmt.Errorf("%w: no device path or dialer", ErrInvalidConfig)
		}
		dial = serialDialer(cfg.DevicePath, cfg.BaudRate)
	}

	var metrics *Metrics
	if cfg.MetricsAddr != "" {
		metrics = NewMetrics()
	}

	state := NewSessionState()
	ctrl := NewController(dial, state, cfg.Logger, metrics, cfg.ExchangeTimeout)

	return &Bridge{
		cfg:     cfg,
		state:   state,
		exec:    NewExecutor(ctrl, cfg.Logger, metrics),
		metrics: metrics,
	}, nil
}

// State returns the current session snapshot.
func (b *Bridge) State() Snapshot {
	return b.state.Get()
}

// Addr returns the bound listener address, or "" before Run has bound it.
// Useful when listening on an ephemeral port.
func (b *Bridge) Addr() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listener == nil {
		return ""
	}
	return b.listener.Addr().String()
}

// Run binds the TCP listener and serves client connections until the
// context is cancelled. The executor worker and the optional metrics
// endpoint run for the same lifetime.
func (b *Bridge) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", b.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", b.cfg.ListenAddr, err)
	}
	b.mu.Lock()
	b.listener = ln
	b.mu.Unlock()

	logger := b.cfg.Logger
	logger.Info("command server listening", "addr", ln.Addr().String())

	go b.exec.Run(ctx)

	if b.metrics != nil {
		go b.serveMetrics(ctx)
	}

	// Shut the listener down when the context expires.
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}

		logger.Debug("client connected", "remote", conn.RemoteAddr().String())
		go b.serveConn(ctx, conn)
	}
}

// serveConn handles one client connection: read a line, execute, answer
// OK or ERROR. Per-connection failures close only that connection; the
// bridge keeps running.
func (b *Bridge) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	b.metrics.connOpened()
	defer b.metrics.connClosed()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			// A trailing fragment without its newline is still a request,
			// just a malformed one.
			if line != "" {
				b.respond(conn, ErrParse)
			}
			b.cfg.Logger.Debug("client disconnected", "remote", conn.RemoteAddr().String())
			return
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			b.respond(conn, err)
			continue
		}

		b.respond(conn, b.exec.Submit(ctx, cmd))
	}
}

// respond writes the single-token protocol reply for err.
func (b *Bridge) respond(conn net.Conn, err error) {
	reply := "OK\n"
	if err != nil {
		reply = "ERROR\n"
	}
	if _, werr := conn.Write([]byte(reply)); werr != nil {
		b.cfg.Logger.Debug("client write failed", "error", werr)
	}
}

// serveMetrics exposes the Prometheus endpoint for the lifetime of ctx.
func (b *Bridge) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", b.metrics.Handler())

	srv := &http.Server{Addr: b.cfg.MetricsAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	b.cfg.Logger.Info("metrics listening", "addr", b.cfg.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		b.cfg.Logger.Error("metrics server stopped", "error", err)
	}
}
