package lightbridge

import (
	"fmt"

	"go.bug.st/serial"
)

// serialDialer returns a Dialer that opens the given serial device. The
// device speaks 8N1 ASCII; everything beyond the baud rate is fixed.
func serialDialer(path string, baud int) Dialer {
	return func() (Transport, error) {
		mode := &serial.Mode{
			BaudRate: baud,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		}
		port, err := serial.Open(path, mode)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		return port, nil
	}
}

// ListPorts returns the serial ports present on the system, for picking a
// device path.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
