package lightbridge

import (
	"sync"
	"testing"
)

func TestSessionStateDefaults(t *testing.T) {
	state := NewSessionState()

	snap := state.Get()
	if snap.ShutterOpen {
		t.Error("expected shutter closed at startup")
	}
	if snap.Intensity != 0 {
		t.Errorf("expected intensity 0 at startup, got %d", snap.Intensity)
	}
}

func TestSessionStateIndependentFields(t *testing.T) {
	state := NewSessionState()

	state.SetIntensity(100)
	state.SetShutter(true)

	snap := state.Get()
	if !snap.ShutterOpen || snap.Intensity != 100 {
		t.Errorf("got %+v, want shutter open with intensity 100", snap)
	}

	// Closing the shutter must not touch the stored intensity.
	state.SetShutter(false)
	snap = state.Get()
	if snap.ShutterOpen {
		t.Error("expected shutter closed")
	}
	if snap.Intensity != 100 {
		t.Errorf("intensity = %d, want 100 after shutter close", snap.Intensity)
	}
}

func TestSnapshotDeviceIntensity(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want int
	}{
		{"open shutter passes intensity", Snapshot{ShutterOpen: true, Intensity: 100}, 100},
		{"closed shutter forces zero", Snapshot{ShutterOpen: false, Intensity: 100}, 0},
		{"open shutter at zero", Snapshot{ShutterOpen: true, Intensity: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.DeviceIntensity(); got != tt.want {
				t.Errorf("DeviceIntensity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSessionStateSnapshotIsDetached(t *testing.T) {
	state := NewSessionState()
	state.SetIntensity(10)

	snap := state.Get()
	snap.Intensity = 99

	if got := state.Get().Intensity; got != 10 {
		t.Errorf("shared state changed through a snapshot copy: intensity = %d", got)
	}
}

func TestSessionStateConcurrentReaders(t *testing.T) {
	state := NewSessionState()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				snap := state.Get()
				// A snapshot must always be internally consistent: the
				// writers below only ever store matched pairs.
				if snap.ShutterOpen && snap.Intensity != 50 {
					t.Errorf("torn snapshot: %+v", snap)
					return
				}
			}
		}()
	}

	for j := 0; j < 1000; j++ {
		state.SetIntensity(50)
		state.SetShutter(true)
		state.SetShutter(false)
		state.SetIntensity(50)
	}
	wg.Wait()
}
