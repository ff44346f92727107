package models

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// InputMode represents the current input mode (vim-like)
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
)

func (m InputMode) String() string {
	switch m {
	case InputModeNormal:
		return "NORMAL"
	case InputModeInsert:
		return "INSERT"
	default:
		return "NORMAL"
	}
}

// ConnectionStatusMsg reports the outcome of connecting to the bridge.
type ConnectionStatusMsg struct {
	Connected bool
	Error     error
}

// BridgeModel holds the monitor's connection to a running bridge.
type BridgeModel struct {
	addr string

	conn   net.Conn
	reader *bufio.Reader

	connected bool
	err       error
	ready     bool

	inputMode InputMode

	mu sync.RWMutex
}

func NewBridgeModel(addr string) *BridgeModel {
	return &BridgeModel{
		addr:      addr,
		inputMode: InputModeNormal, // start in normal mode
	}
}

func (m *BridgeModel) Addr() string {
	return m.addr
}

// Connect dials the bridge. Called from a tea.Cmd goroutine.
func (m *BridgeModel) Connect(timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", m.addr, timeout)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.conn = conn
	m.reader = bufio.NewReader(conn)
	m.mu.Unlock()
	return nil
}

// RoundTrip sends one command line and waits for the single-token reply.
// The mutex keeps concurrent sends from interleaving on the socket.
func (m *BridgeModel) RoundTrip(command string, timeout time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return "", fmt.Errorf("not connected")
	}

	m.conn.SetDeadline(time.Now().Add(timeout)) //nolint:errcheck
	if _, err := fmt.Fprintf(m.conn, "%s\n", command); err != nil {
		return "", err
	}

	reply, err := m.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(reply, "\n"), nil
}

func (m *BridgeModel) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

func (m *BridgeModel) SetConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = connected
}

func (m *BridgeModel) GetError() error {
	return m.err
}

func (m *BridgeModel) SetError(err error) {
	m.err = err
}

func (m *BridgeModel) IsReady() bool {
	return m.ready
}

func (m *BridgeModel) SetReady(ready bool) {
	m.ready = ready
}

func (m *BridgeModel) GetInputMode() InputMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inputMode
}

func (m *BridgeModel) SetInputMode(mode InputMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputMode = mode
}

func (m *BridgeModel) IsInInsertMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inputMode == InputModeInsert
}

// Cleanup tears the connection down.
func (m *BridgeModel) Cleanup() {
	m.mu.Lock()
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.mu.Unlock()
}
