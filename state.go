package lightbridge

import "sync"

// Snapshot is an immutable view of the logical lamp state. Snapshots are
// plain values; mutating a copy never affects the shared state.
type Snapshot struct {
	ShutterOpen bool
	Intensity   int
}

// DeviceIntensity returns the intensity the physical device should be driven
// at. The controller has no usable hardware shutter, so a closed shutter is
// emulated by forcing the device intensity to zero while the logical
// intensity is retained for restoration on reopen.
func (s Snapshot) DeviceIntensity() int {
	if s.ShutterOpen {
		return s.Intensity
	}
	return 0
}

// SessionState holds the lamp state shared by all client connections. It is
// the single source of truth for what the device should currently be doing.
//
// Writers replace the whole snapshot under the lock, so concurrent readers
// never observe a partially updated state. Range validation happens in the
// command parser before state is ever touched.
type SessionState struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewSessionState returns session state with the power-on defaults:
// shutter closed, intensity zero.
func NewSessionState() *SessionState {
	return &SessionState{}
}

// Get returns the current snapshot.
func (s *SessionState) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// SetIntensity replaces the snapshot with one carrying the new intensity.
func (s *SessionState) SetIntensity(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{ShutterOpen: s.snap.ShutterOpen, Intensity: level}
}

// SetShutter replaces the snapshot with one carrying the new shutter flag.
func (s *SessionState) SetShutter(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{ShutterOpen: open, Intensity: s.snap.Intensity}
}
