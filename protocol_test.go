package lightbridge

import (
	"errors"
	"testing"
	"time"
)

// newTestController wires a controller to a fake device with the given
// respond hook.
func newTestController(t *testing.T, respond func(cmd string) (string, bool)) (*Controller, *fakeDevice) {
	t.Helper()
	dev := newFakeDevice(respond)
	dial := func() (Transport, error) { return dev, nil }
	ctrl := NewController(dial, NewSessionState(), testLogger(), nil, 200*time.Millisecond)
	return ctrl, dev
}

func TestControllerInitializeHandshake(t *testing.T) {
	ctrl, dev := newTestController(t, echoFirstField)

	if ctrl.Ready() {
		t.Fatal("controller ready before Initialize")
	}
	if err := ctrl.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !ctrl.Ready() {
		t.Fatal("controller not ready after Initialize")
	}

	want := []string{"77025 0", "77005 0", "77020 0 0", "77032 0 1"}
	got := dev.sentLines()
	if len(got) != len(want) {
		t.Fatalf("handshake sent %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("handshake[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestControllerInitializeAbortsOnEchoMismatch(t *testing.T) {
	ctrl, dev := newTestController(t, func(cmd string) (string, bool) {
		// Fail the second handshake step, echo everything else correctly.
		if cmd == "77005 0" {
			return "99999", true
		}
		return echoFirstField(cmd)
	})

	err := ctrl.Initialize()
	if !errors.Is(err, ErrEchoMismatch) {
		t.Fatalf("Initialize error = %v, want ErrEchoMismatch", err)
	}
	if ctrl.Ready() {
		t.Error("controller ready after failed handshake")
	}

	// The sequence must abort at the mismatch: steps 3 and 4 never sent.
	if got := dev.sentCount(); got != 2 {
		t.Errorf("sent %d lines, want 2 (abort after mismatch)", got)
	}
}

func TestControllerInitializeTimeout(t *testing.T) {
	ctrl, _ := newTestController(t, nil) // device never answers

	err := ctrl.Initialize()
	if !errors.Is(err, ErrResponseTimeout) {
		t.Fatalf("Initialize error = %v, want ErrResponseTimeout", err)
	}
}

func TestControllerSyncDrivesDeviceIntensity(t *testing.T) {
	ctrl, dev := newTestController(t, echoFirstField)
	if err := ctrl.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// Shutter closed: intensity is remembered but the device stays dark.
	if err := ctrl.SetIntensity(100); err != nil {
		t.Fatalf("SetIntensity failed: %v", err)
	}
	if err := ctrl.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	// Shutter open: the remembered intensity reaches the device.
	if err := ctrl.SetShutter(true); err != nil {
		t.Fatalf("SetShutter failed: %v", err)
	}
	if err := ctrl.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	// Shutter closed again: device zeroed, logical intensity retained.
	if err := ctrl.SetShutter(false); err != nil {
		t.Fatalf("SetShutter failed: %v", err)
	}
	if err := ctrl.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	lines := dev.sentLines()
	syncs := lines[4:] // skip the handshake
	want := []string{"77020 0 0", "77020 100 0", "77020 0 0"}
	if len(syncs) != len(want) {
		t.Fatalf("sync lines = %v, want %v", syncs, want)
	}
	for i := range want {
		if syncs[i] != want[i] {
			t.Errorf("sync[%d] = %q, want %q", i, syncs[i], want[i])
		}
	}
}

func TestControllerMutationsDoNoDeviceIO(t *testing.T) {
	ctrl, dev := newTestController(t, echoFirstField)
	if err := ctrl.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	before := dev.sentCount()

	if err := ctrl.SetIntensity(42); err != nil {
		t.Fatalf("SetIntensity failed: %v", err)
	}
	if err := ctrl.SetShutter(true); err != nil {
		t.Fatalf("SetShutter failed: %v", err)
	}

	if got := dev.sentCount(); got != before {
		t.Errorf("state mutations wrote %d device lines", got-before)
	}
}

func TestControllerShutdownRestoresManualControl(t *testing.T) {
	ctrl, dev := newTestController(t, echoFirstField)
	if err := ctrl.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if err := ctrl.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if ctrl.Ready() {
		t.Error("controller still ready after Shutdown")
	}

	lines := dev.sentLines()
	if last := lines[len(lines)-1]; last != "77005 1" {
		t.Errorf("last device line = %q, want %q", last, "77005 1")
	}
}

func TestControllerShutdownReleasesTransportOnMismatch(t *testing.T) {
	ctrl, _ := newTestController(t, func(cmd string) (string, bool) {
		if cmd == "77005 1" {
			return "99999", true
		}
		return echoFirstField(cmd)
	})
	if err := ctrl.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	err := ctrl.Shutdown()
	if !errors.Is(err, ErrEchoMismatch) {
		t.Fatalf("Shutdown error = %v, want ErrEchoMismatch", err)
	}

	// Transport released regardless: the next exchange has nothing to
	// talk through.
	if err := ctrl.Sync(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Sync after failed Shutdown = %v, want ErrNotConnected", err)
	}
}

func TestControllerShutdownWithoutTransport(t *testing.T) {
	ctrl, dev := newTestController(t, echoFirstField)

	if err := ctrl.Shutdown(); err != nil {
		t.Fatalf("Shutdown before Initialize failed: %v", err)
	}
	if got := dev.sentCount(); got != 0 {
		t.Errorf("Shutdown without transport wrote %d lines", got)
	}
}

func TestControllerSyncBeforeInitialize(t *testing.T) {
	ctrl, _ := newTestController(t, echoFirstField)

	if err := ctrl.Sync(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Sync before Initialize = %v, want ErrNotConnected", err)
	}
}

func TestControllerLateResponseNotReused(t *testing.T) {
	dev := newFakeDevice(nil) // device never answers in time
	dial := func() (Transport, error) { return dev, nil }
	ctrl := NewController(dial, NewSessionState(), testLogger(), nil, 50*time.Millisecond)

	// First exchange times out on the opening handshake step.
	err := ctrl.Initialize()
	if !errors.Is(err, ErrResponseTimeout) {
		t.Fatalf("Initialize error = %v, want ErrResponseTimeout", err)
	}
	if got := dev.sentCount(); got != 1 {
		t.Fatalf("sent %d lines, want 1", got)
	}

	// The answer to that exchange arrives late, after the deadline.
	dev.inject("77025")
	time.Sleep(20 * time.Millisecond)

	// A second attempt must not take the stale echo as the answer to its
	// own first step: if it did, it would move on to the second handshake
	// step before timing out.
	err = ctrl.Initialize()
	if !errors.Is(err, ErrResponseTimeout) {
		t.Fatalf("Initialize after stale echo = %v, want ErrResponseTimeout", err)
	}
	if got := dev.sentCount(); got != 2 {
		t.Errorf("sent %d lines total, want 2 (stale echo must not advance the handshake)", got)
	}
}
