package goless

import (
	"testing"
	"time"
)

func noInterrupt() bool { return false }

// fakeLineIndex is a simple in-memory "file" of N lines of fixed width,
// used to drive LineNumberCache's scan callbacks without real I/O: line i
// starts at byte position i*lineWidth.
type fakeLineIndex struct {
	lineWidth int64
	numLines  int64
}

func (f *fakeLineIndex) posOf(line int64) FilePos {
	return FilePos(line * f.lineWidth)
}

func (f *fakeLineIndex) lineOf(pos FilePos) int64 {
	return int64(pos) / f.lineWidth
}

func (f *fakeLineIndex) scanForward(fromPos FilePos, fromLine int64, targetPos FilePos, deadline time.Time, interrupted func() bool) (FilePos, int64, bool) {
	return targetPos, f.lineOf(targetPos) + 1, true
}

func (f *fakeLineIndex) scanBackward(fromPos FilePos, fromLine int64, targetPos FilePos, deadline time.Time, interrupted func() bool) (FilePos, int64, bool) {
	return targetPos, f.lineOf(targetPos) + 1, true
}

func (f *fakeLineIndex) scanToLineForward(fromPos FilePos, fromLine, targetLine int64, deadline time.Time, interrupted func() bool) (FilePos, int64, bool) {
	return f.posOf(targetLine - 1), targetLine, true
}

func (f *fakeLineIndex) scanToLineBackward(fromPos FilePos, fromLine, targetLine int64, deadline time.Time, interrupted func() bool) (FilePos, int64, bool) {
	return f.posOf(targetLine - 1), targetLine, true
}

func newTestCache(capacity int, idx *fakeLineIndex) *LineNumberCache {
	c := NewLineNumberCache(capacity)
	c.SetScanners(idx.scanForward, idx.scanBackward, idx.scanToLineForward, idx.scanToLineBackward, noInterrupt)
	return c
}

func TestLineNumberCacheFindAtStartIsLineOne(t *testing.T) {
	idx := &fakeLineIndex{lineWidth: 10, numLines: 1000}
	c := newTestCache(0, idx)
	line, ok := c.FindLineNumber(0)
	if !ok || line != 1 {
		t.Fatalf("expected line 1 at pos 0, got %d ok=%v", line, ok)
	}
}

func TestLineNumberCacheAdaptsAndBoundsPool(t *testing.T) {
	idx := &fakeLineIndex{lineWidth: 10, numLines: 1000}
	c := newTestCache(200, idx)

	c.FindLineNumber(0)
	c.FindLineNumber(idx.posOf(idx.numLines - 1))
	if n := c.Len(); n > 2 {
		t.Errorf("expected at most 2 entries after two lookups, got %d", n)
	}
	c.FindLineNumber(idx.posOf(idx.numLines / 2))
	if n := c.Len(); n > 3 {
		t.Errorf("expected at most 3 entries after three lookups, got %d", n)
	}

	for i := int64(1); i <= 200; i++ {
		pos := FilePos(int64(idx.posOf(idx.numLines)) * i / 201)
		c.FindLineNumber(pos)
		if n := c.Len(); n > 200 {
			t.Fatalf("pool exceeded capacity: %d entries after %d lookups", n, i)
		}
	}
}

func TestLineNumberCacheRoundTrip(t *testing.T) {
	idx := &fakeLineIndex{lineWidth: 10, numLines: 1000}
	c := newTestCache(200, idx)

	target := idx.posOf(42)
	line, ok := c.FindLineNumber(target)
	if !ok {
		t.Fatal("expected a line number")
	}
	gotPos, ok := c.FindPosition(line)
	if !ok {
		t.Fatal("expected a position")
	}
	if gotPos > target {
		t.Errorf("expected FindPosition(FindLineNumber(pos)) <= pos, got %d > %d", gotPos, target)
	}
}

func TestLineNumberCacheClearResetsAndReenables(t *testing.T) {
	idx := &fakeLineIndex{lineWidth: 10, numLines: 100}
	c := newTestCache(10, idx)
	c.FindLineNumber(idx.posOf(5))
	c.disabled = true

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d entries", c.Len())
	}
	if c.Disabled() {
		t.Error("expected Clear to re-enable line numbering")
	}
}

func TestLineNumberCacheDisabledOnInterruptedScan(t *testing.T) {
	idx := &fakeLineIndex{lineWidth: 10, numLines: 100}
	c := NewLineNumberCache(10)
	interrupted := true
	c.SetScanners(
		func(fromPos FilePos, fromLine int64, targetPos FilePos, deadline time.Time, interrupted func() bool) (FilePos, int64, bool) {
			return 0, 0, false
		},
		idx.scanBackward,
		idx.scanToLineForward,
		idx.scanToLineBackward,
		func() bool { return interrupted },
	)

	_, ok := c.FindLineNumber(idx.posOf(50))
	if ok {
		t.Fatal("expected scan failure to report not-ok")
	}
	if !c.Disabled() {
		t.Error("expected an interrupted scan to disable line numbering")
	}
}
