package trace

import (
	"errors"
	"io"
	"sync"
)

// RingTracer keeps the last N events in memory. Tests read it with Snapshot;
// --trace-mode ring writes the tail on Close, and --trace-mode both writes it
// only when a span failed, as a postmortem after the live stream.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	total uint64 // events ever stored; the newest is at (total-1) % len(buf)
	level Level

	out        io.Writer
	closer     io.Closer
	format     Format
	failedOnly bool
	failed     bool
}

// NewRingTracer keeps up to capacity events (4096 when capacity <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// DumpTo makes Close write the buffered events to w; an owned w is closed
// afterwards. With failedOnly the events are written only if some span failed.
func (t *RingTracer) DumpTo(w io.Writer, format Format, failedOnly bool, owned bool) *RingTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out, t.format, t.failedOnly = w, format, failedOnly
	if c, ok := w.(io.Closer); ok && owned {
		t.closer = c
	}
	return t
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && !ev.forced() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	stored := *ev
	stored.Seq = NextSeq()
	if _, ok := stored.Extra["error"]; ok {
		t.failed = true
	}
	t.buf[t.total%uint64(len(t.buf))] = stored
	t.total++
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *RingTracer) snapshotLocked() []Event {
	size := uint64(len(t.buf))
	n := min(t.total, size)
	out := make([]Event, 0, n)
	for i := t.total - n; i < t.total; i++ {
		out = append(out, t.buf[i%size])
	}
	return out
}

// Dump writes the stored events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return writeEvents(w, t.Snapshot(), format)
}

func writeEvents(w io.Writer, events []Event, format Format) error {
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

// Close writes the tail to the DumpTo writer, if any.
func (t *RingTracer) Close() error {
	t.mu.Lock()
	out, closer, format := t.out, t.closer, t.format
	write := out != nil && (!t.failedOnly || t.failed)
	events := t.snapshotLocked()
	t.out, t.closer = nil, nil
	t.mu.Unlock()

	var errs []error
	if write {
		errs = append(errs, writeEvents(out, events, format))
	}
	if closer != nil {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool {
	return t.level > LevelOff
}
