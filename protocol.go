package lightbridge

import (
	"fmt"
	"log/slog"
	"time"
)

// Device command codes understood by the lamp controller. Each exchange
// succeeds only when the device echoes the bare code back.
const (
	codeSelectChannel = "77025" // select lamp channel
	codeManualControl = "77005" // manual front-panel control, 0=off 1=on
	codeSetIntensity  = "77020" // set intensity: <level> <unused>
	codeShutter       = "77032" // device-level shutter enable
)

// DefaultExchangeTimeout is how long a single device exchange waits for its
// echo before failing.
const DefaultExchangeTimeout = 1000 * time.Millisecond

// Dialer opens the serial transport on demand. The controller dials lazily
// on INITIALIZE and releases the transport on SHUTDOWN.
type Dialer func() (Transport, error)

// Controller drives the lamp device through request/response exchanges and
// keeps the device output consistent with the session state.
//
// The controller is not safe for concurrent use; all calls must come from
// the executor's single worker goroutine.
type Controller struct {
	dial    Dialer
	state   *SessionState
	logger  *slog.Logger
	metrics *Metrics
	timeout time.Duration

	link  *DeviceLink
	ready bool
}

// NewController returns a controller in the uninitialized state. No device
// I/O happens until Initialize. A nil metrics set disables instrumentation.
func NewController(dial Dialer, state *SessionState, logger *slog.Logger, metrics *Metrics, timeout time.Duration) *Controller {
	if timeout <= 0 {
		timeout = DefaultExchangeTimeout
	}
	return &Controller{
		dial:    dial,
		state:   state,
		logger:  logger,
		metrics: metrics,
		timeout: timeout,
	}
}

// Ready reports whether the device handshake has completed.
func (c *Controller) Ready() bool { return c.ready }

// Initialize opens the transport if needed and runs the device handshake,
// strictly in order: select the lamp channel, disable manual control, force
// intensity to zero, and assert the device-level shutter open.
//
// Manual control must be disabled because front-panel adjustments cannot be
// observed or reconciled back into the session state. The device shutter is
// asserted open exactly once and never toggled again: cycling the device's
// own shutter control eventually wedges it in a fault state, so shuttering
// is emulated by zeroing intensity instead (see Sync).
//
// Any echo mismatch aborts the sequence and leaves the controller not ready.
func (c *Controller) Initialize() error {
	if c.link == nil {
		transport, err := c.dial()
		if err != nil {
			return fmt.Errorf("open device: %w", err)
		}
		c.link = NewDeviceLink(transport, c.logger)
	}

	handshake := []struct {
		cmd  string
		echo string
	}{
		{codeSelectChannel + " 0", codeSelectChannel},
		{codeManualControl + " 0", codeManualControl},
		{codeSetIntensity + " 0 0", codeSetIntensity},
		{codeShutter + " 0 1", codeShutter},
	}

	for _, step := range handshake {
		if err := c.exchange(step.cmd, step.echo); err != nil {
			c.ready = false
			return err
		}
	}

	c.ready = true
	c.logger.Info("device initialized")
	return nil
}

// Shutdown hands manual control back to the device and releases the
// transport. The transport is released even when the device refuses the
// handover; keeping a handle to a device in an unknown state helps nobody,
// so the policy here is always-release.
func (c *Controller) Shutdown() error {
	if c.link == nil {
		c.ready = false
		return nil
	}

	err := c.exchange(codeManualControl+" 1", codeManualControl)

	if closeErr := c.link.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	c.link = nil
	c.ready = false

	if err == nil {
		c.logger.Info("device shut down")
	}
	return err
}

// SetIntensity records the new logical intensity. No device I/O happens
// here; the executor's mandatory post-command Sync pushes it down.
func (c *Controller) SetIntensity(level int) error {
	c.state.SetIntensity(level)
	return nil
}

// SetShutter records the new logical shutter flag. As with SetIntensity,
// the device only sees the change on the next Sync.
func (c *Controller) SetShutter(open bool) error {
	c.state.SetShutter(open)
	return nil
}

// Sync pushes the current session state down to the device as a single
// intensity exchange. A closed shutter drives the device at zero while the
// logical intensity is kept for restoration on reopen.
func (c *Controller) Sync() error {
	snap := c.state.Get()
	cmd := fmt.Sprintf("%s %d 0", codeSetIntensity, snap.DeviceIntensity())
	return c.exchange(cmd, codeSetIntensity)
}

// exchange performs one correlated write-and-wait against the device and
// validates the echo. Mismatches and timeouts fail the current command only.
func (c *Controller) exchange(cmd, echo string) (err error) {
	defer func() { c.metrics.exchangeDone(err) }()

	if c.link == nil {
		return ErrNotConnected
	}

	// Anything still queued is a late response from a timed-out exchange;
	// it must not be taken as the answer to this one.
	if dropped := c.link.FlushInput(); dropped > 0 {
		c.logger.Warn("discarded stale device responses", "count", dropped)
	}

	if err := c.link.Send(cmd); err != nil {
		return err
	}

	got, err := c.link.Await(c.timeout)
	if err != nil {
		return fmt.Errorf("exchange %q: %w", cmd, err)
	}
	if got != echo {
		return fmt.Errorf("%w: sent %q, expected %q, got %q", ErrEchoMismatch, cmd, echo, got)
	}
	return nil
}
