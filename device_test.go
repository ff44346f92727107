package lightbridge

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// fakeDevice is an in-memory Transport scripting the device end of the
// serial line. Writes are split on the carriage terminator and recorded;
// the respond hook decides what, if anything, the device echoes back.
type fakeDevice struct {
	mu      sync.Mutex
	sent    []string
	partial []byte

	pr *io.PipeReader
	pw *io.PipeWriter

	respond func(cmd string) (string, bool)
}

// echoFirstField is the well-behaved device: it echoes the command code.
func echoFirstField(cmd string) (string, bool) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

func newFakeDevice(respond func(cmd string) (string, bool)) *fakeDevice {
	pr, pw := io.Pipe()
	return &fakeDevice{pr: pr, pw: pw, respond: respond}
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	return d.pr.Read(p)
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	d.partial = append(d.partial, p...)
	var complete []string
	for {
		i := bytes.IndexByte(d.partial, '\r')
		if i < 0 {
			break
		}
		complete = append(complete, string(d.partial[:i]))
		d.partial = d.partial[i+1:]
	}
	d.sent = append(d.sent, complete...)
	respond := d.respond
	d.mu.Unlock()

	if respond != nil {
		for _, line := range complete {
			if reply, ok := respond(line); ok {
				d.inject(reply)
			}
		}
	}
	return len(p), nil
}

func (d *fakeDevice) Close() error {
	d.pw.Close()
	return d.pr.Close()
}

// inject writes a terminated response line as if the device had sent it
// unprompted.
func (d *fakeDevice) inject(line string) {
	d.pw.Write([]byte(line + "\r")) //nolint:errcheck
}

// sentLines returns a copy of every complete command line written so far.
func (d *fakeDevice) sentLines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.sent...)
}

func (d *fakeDevice) sentCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}
