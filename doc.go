// Package lightbridge bridges a newline-delimited TCP command protocol to a
// serial-attached light-source controller.
//
// Clients send short text commands; the bridge translates each one into one
// or more request/response exchanges with the device and keeps a small piece
// of session state (shutter flag, intensity) consistent with what was last
// pushed to the hardware.
//
// # Basic Usage
//
// Assemble and run a bridge:
//
//	bridge, err := lightbridge.New(
//	    lightbridge.WithDevice("/dev/ttyUSB0"),
//	    lightbridge.WithListenAddr(":31104"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := bridge.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Command Protocol
//
// The TCP side is ASCII, one command per line, answered with OK or ERROR:
//
//	INITIALIZE            open and handshake the device, then sync
//	SHUTDOWN              hand control back to the device front panel
//	TL_INTENSITY <0-255>  set the logical intensity, then sync
//	SHUTTER_OPEN <0|1>    set the logical shutter flag, then sync
//
// Multiple clients may connect at once; they all drive the one physical
// device and share one session state. Command execution is serialized
// through a single worker, so device exchanges never interleave.
//
// # Emulated Shutter
//
// The device's own shutter control is never cycled (doing so eventually
// wedges the hardware in a fault state). Instead a closed shutter is
// emulated by driving the device at intensity zero while the logical
// intensity is remembered for restoration on reopen.
//
// # Configuration Options
//
// Use functional options for custom configuration:
//
//	bridge, err := lightbridge.New(
//	    lightbridge.WithDevice("/dev/ttyUSB0"),
//	    lightbridge.WithBaudRate(19200),
//	    lightbridge.WithExchangeTimeout(2*time.Second),
//	    lightbridge.WithLogger(logger),
//	    lightbridge.WithMetricsAddr(":2112"),
//	)
//
// # Error Handling
//
// Sentinel errors support errors.Is checks:
//
//	var (
//	    ErrParse            // malformed client command
//	    ErrResponseTimeout  // no device response within the deadline
//	    ErrEchoMismatch     // device echoed the wrong code
//	    ErrNotConnected     // exchange attempted before INITIALIZE
//	    // ... and more
//	)
//
// No command failure is fatal to the process: the TCP server and the serial
// reader keep running, and every failure is reported to the client as a
// single ERROR line.
package lightbridge
