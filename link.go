package lightbridge

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// lineTerminator ends every outgoing device command and every incoming
// device response on the wire.
const lineTerminator = '\r'

// responseQueueDepth bounds the buffered response queue. The protocol has at
// most one outstanding exchange at a time, so the queue depth is normally 0
// or 1; anything deeper indicates protocol desynchronization.
const responseQueueDepth = 8

// Transport is the byte-level serial collaborator the bridge talks through.
// The real implementation is a serial port; tests substitute an in-memory
// scripted device.
type Transport interface {
	io.ReadWriteCloser
}

// DeviceLink frames commands and responses on a Transport. Send writes a
// single terminated command line; a background reader splits the incoming
// byte stream on the terminator and enqueues each completed line, decoupled
// from whichever Send triggered it.
type DeviceLink struct {
	transport Transport
	logger    *slog.Logger

	responses chan string
	done      chan struct{}
	closeOnce sync.Once
}

// NewDeviceLink wraps an open transport and starts the background response
// reader. The caller owns the link and must Close it to release the
// transport.
func NewDeviceLink(transport Transport, logger *slog.Logger) *DeviceLink {
	l := &DeviceLink{
		transport: transport,
		logger:    logger,
		responses: make(chan string, responseQueueDepth),
		done:      make(chan struct{}),
	}
	go l.readLoop()
	return l
}

// Send transmits one command line, appending the carriage terminator.
func (l *DeviceLink) Send(line string) error {
	if _, err := l.transport.Write(append([]byte(line), lineTerminator)); err != nil {
		return fmt.Errorf("device write: %w", err)
	}
	return nil
}

// Await returns the next queued device response. A buffered line is returned
// immediately with no delay; otherwise Await blocks until a line arrives,
// the timeout elapses (ErrResponseTimeout), or the link is closed.
func (l *DeviceLink) Await(timeout time.Duration) (string, error) {
	select {
	case line := <-l.responses:
		return line, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case line := <-l.responses:
		return line, nil
	case <-timer.C:
		return "", ErrResponseTimeout
	case <-l.done:
		return "", ErrLinkClosed
	}
}

// FlushInput discards any buffered responses and reports how many were
// dropped. A response queued before a command has even been sent belongs to
// no outstanding exchange: it is a late arrival from a previous, failed one.
func (l *DeviceLink) FlushInput() int {
	dropped := 0
	for {
		select {
		case <-l.responses:
			dropped++
		default:
			return dropped
		}
	}
}

// Close stops the reader and releases the underlying transport. Safe to call
// more than once.
func (l *DeviceLink) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		err = l.transport.Close()
	})
	return err
}

// readLoop runs for the life of the link, independent of any Send call.
// Exits when the transport read fails, which includes the Close path.
func (l *DeviceLink) readLoop() {
	reader := bufio.NewReader(l.transport)
	for {
		raw, err := reader.ReadString(lineTerminator)
		if err != nil {
			select {
			case <-l.done:
			default:
				l.logger.Debug("device reader stopped", "error", err)
			}
			return
		}

		line := strings.TrimRight(raw, "\r\n")
		select {
		case l.responses <- line:
		default:
			// Queue full: nobody is waiting for this many responses, so the
			// host and device have lost protocol sync.
			l.logger.Warn("dropping unexpected device response", "line", line)
		}
	}
}
