package goless

import (
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// followBackoffMin/Max bound the exponential backoff used when a stat
// fails transiently while polling a followed file (§9 open question #3:
// "a reimplementation may choose an exponential backoff but must not
// report the failure to the user").
const (
	followBackoffMin = 100 * time.Millisecond
	followBackoffMax = 2 * time.Second
)

// Follower watches a named input for rotation (truncate, rename, unlink +
// recreate) while ignore-EOI mode is armed, the open question's answer to
// spec §4.1's refill algorithm ("in follow-by-name mode, stat the filename
// and, if inode/device changed or size shrank, signal the caller to
// reopen"). It prefers fsnotify where the filesystem supports it and falls
// back to the spec'd stat poll otherwise, never surfacing a transient
// stat failure to the user.
type Follower struct {
	filename string
	watcher  *fsnotify.Watcher

	lastIno  uint64
	lastDev  uint64
	lastSize int64

	backoff time.Duration
}

// NewFollower starts watching filename for rotation. It records the
// current inode/device/size as the baseline to compare future stats
// against. If fsnotify can't watch the path (e.g. it doesn't exist yet),
// the Follower still works via Rotated's stat check.
func NewFollower(filename string) *Follower {
	f := &Follower{filename: filename, backoff: followBackoffMin}
	if st, err := os.Stat(filename); err == nil {
		ino, dev := statIdentity(st)
		f.lastIno, f.lastDev, f.lastSize = ino, dev, st.Size()
	}
	if w, err := fsnotify.NewWatcher(); err == nil {
		if w.Add(filename) == nil {
			f.watcher = w
		} else {
			w.Close()
		}
	}
	return f
}

// Close releases the fsnotify watcher, if any.
func (f *Follower) Close() {
	if f.watcher != nil {
		f.watcher.Close()
		f.watcher = nil
	}
}

// Rotated reports whether the followed filename now refers to a different
// inode/device, or has shrunk, relative to the last successful check —
// the exact condition spec §4.1's refill algorithm checks for. A stat
// failure is treated as "not yet rotated" and never reported: the caller
// just keeps waiting, backing off geometrically between attempts.
func (f *Follower) Rotated() bool {
	st, err := os.Stat(f.filename)
	if err != nil {
		f.backoff = minDuration(f.backoff*2, followBackoffMax)
		return false
	}
	f.backoff = followBackoffMin

	ino, dev := statIdentity(st)
	rotated := ino != f.lastIno || dev != f.lastDev || st.Size() < f.lastSize
	f.lastIno, f.lastDev, f.lastSize = ino, dev, st.Size()
	return rotated
}

// WaitHint returns how long the caller should sleep before the next Rotated call
// when no fsnotify event is available — the backoff computed by the most
// recent failed Rotated check, or followBackoffMin if none failed yet.
func (f *Follower) WaitHint() time.Duration {
	return f.backoff
}

// Events exposes the raw fsnotify channel for a caller that wants to
// select on it directly instead of polling; nil if no watcher is active.
func (f *Follower) Events() <-chan fsnotify.Event {
	if f.watcher == nil {
		return nil
	}
	return f.watcher.Events
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
