package goless

import "io"

// ResponseProvider writes bytes the pager needs to push at the terminal
// outside of a rendered row — e.g. the bell, or a status-line redraw
// escape. Typically the real tty's fd; tests pass a bytes.Buffer.
type ResponseProvider = io.Writer

// NoopResponse discards all response data.
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// BellProvider handles the command loop's visible/audible-bell request,
// issued when an invalid key is pressed or a search wraps past the end of
// the file. The terminal driver that turns this into an actual BEL byte or
// flash sequence is an explicit external collaborator (§1); this interface
// is the seam.
type BellProvider interface {
	// Ring is called when the pager wants to alert the user.
	Ring()
}

// NoopBell ignores all bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

var (
	_ ResponseProvider = NoopResponse{}
	_ BellProvider     = (*NoopBell)(nil)
)
