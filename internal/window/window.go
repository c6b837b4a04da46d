// Package window implements a bounded sliding data window over a live record
// stream. The window owns a FIFO-bounded buffer of records and derives a
// logical "current window" over its suffix under either a count-based or a
// time-based retention policy, with synchronous event notification on every
// mutation.
//
// The window is a single-threaded data structure: it takes no internal locks,
// and every operation runs to completion on the caller's goroutine. Callers
// in concurrent programs must serialize mutation externally, typically by
// routing all pushes through one goroutine (see pipeline.Ingestor).
package window

import (
	"time"

	"github.com/lndroit/streamlens/internal/record"
)

// Window is a sliding data window over records of type R.
//
// The buffer holds up to Config.MaxBuffer records, oldest first; appending
// beyond the cap evicts from the front regardless of window membership. The
// window itself is the suffix [start, len) of the buffer selected by the
// retention policy and is derived incrementally: a cursor advance on each
// push, never a full rescan.
type Window[R record.Record] struct {
	cfg Config

	buf   ring[R]
	start int // logical index of the window start within buf

	latest     time.Time // max parsed timestamp seen (time retention)
	haveLatest bool

	pushes uint64
	filled bool // window reached fullness at least once; latched until Clear

	handlers [numEventKinds][]handlerEntry[R]
	nextSub  Subscription
}

// New constructs a window from cfg. It fails fast on misconfiguration
// (invalid retention kind, non-positive size or span) and otherwise
// normalizes unset options to their defaults.
func New[R record.Record](cfg Config) (*Window[R], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Window[R]{cfg: cfg.withDefaults()}, nil
}

// Push appends a record to the buffer, evicting from the front first if the
// cap would be exceeded, and recomputes the window boundary. It then fires a
// slide event when the push counter reaches a SlideEvery multiple (count
// retention), followed by a data event; both carry a copy of the current
// window.
//
// Under time retention a record whose TimeField is missing or unparsable, or
// whose timestamp is already older than the span behind the latest timestamp
// seen, is never an error: it stays in the buffer (it counts toward MaxBuffer
// and appears in AllData) but is excluded from the window. Because the window
// is a contiguous suffix, such a record acts as a barrier: the window
// restarts after it.
func (w *Window[R]) Push(r R) {
	w.push(r)
	w.dispatch(EventData, w.WindowData())
}

// PushMany pushes records in order. Eviction, window recomputation, and
// slide cadence are identical to repeated Push calls, but a single data
// event fires at the end, reflecting the post-batch window.
func (w *Window[R]) PushMany(rs []R) {
	for _, r := range rs {
		w.push(r)
	}
	w.dispatch(EventData, w.WindowData())
}

func (w *Window[R]) push(r R) {
	for w.buf.len()+1 > w.cfg.MaxBuffer {
		w.buf.popFront()
		if w.start > 0 {
			w.start--
		}
	}
	w.buf.pushBack(r)
	w.advance(r)

	if !w.filled && w.isFull() {
		w.filled = true
	}

	w.pushes++
	if w.cfg.Retention == RetentionCount && w.pushes%uint64(w.cfg.SlideEvery) == 0 {
		w.dispatch(EventSlide, w.WindowData())
	}
}

// advance moves the window start cursor after r was appended. Count
// retention is a constant-time index update; time retention advances the
// cursor monotonically past records that fell out of the span, a scan
// bounded by the number of newly stale records.
func (w *Window[R]) advance(r R) {
	switch w.cfg.Retention {
	case RetentionCount:
		if n := w.buf.len(); n > w.cfg.Size {
			w.start = n - w.cfg.Size
		}
	case RetentionTime:
		ts, ok := r.GetTime(w.cfg.TimeField)
		if !ok {
			// Timestamp-less barrier: the record stays buffered but the
			// window restarts after it.
			w.start = w.buf.len()
			return
		}
		if !w.haveLatest || ts.After(w.latest) {
			w.latest = ts
			w.haveLatest = true
		}
		cutoff := w.latest.Add(-w.cfg.Span)
		if ts.Before(cutoff) {
			// A late arrival already behind the cutoff is as much a barrier
			// as an unparsable timestamp: no suffix containing it can hold
			// only in-span records.
			w.start = w.buf.len()
			return
		}
		for w.start < w.buf.len() {
			rts, ok := w.buf.at(w.start).GetTime(w.cfg.TimeField)
			if ok && !rts.Before(cutoff) {
				break
			}
			w.start++
		}
	}
}

// WindowData returns a copy of the current window contents, oldest first.
// It is empty (never an error) when the buffer is empty or when RequireFull
// is set and the window has not yet filled for the first time. The
// suppression applies only to the initial fill phase: once full, later
// shrinks below Size do not re-arm it, though Clear does.
func (w *Window[R]) WindowData() []R {
	if w.suppressed() {
		return []R{}
	}
	return w.buf.slice(w.start, w.buf.len())
}

// AllData returns a copy of the entire buffer, oldest first, including
// records outside the current window.
func (w *Window[R]) AllData() []R {
	return w.buf.slice(0, w.buf.len())
}

// WindowStats locates the window within the buffer: Count records occupying
// the half-open index range [Start, End), so End-Start == Count.
type WindowStats struct {
	Count int
	Start int
	End   int
}

// Stats reports the window's record count and its index range within the
// buffer. While RequireFull suppression is active the window occupies an
// empty range at the buffer end.
func (w *Window[R]) Stats() WindowStats {
	n := w.buf.len()
	if w.suppressed() {
		return WindowStats{Count: 0, Start: n, End: n}
	}
	return WindowStats{Count: n - w.start, Start: w.start, End: n}
}

// Clear empties the buffer and resets the push counter and fill latch,
// keeping configuration and subscriptions, then fires an empty event.
func (w *Window[R]) Clear() {
	w.buf.reset()
	w.start = 0
	w.pushes = 0
	w.filled = false
	w.haveLatest = false
	w.latest = time.Time{}
	w.dispatch(EventEmpty, nil)
}

// BufferLen returns the current buffer length.
func (w *Window[R]) BufferLen() int {
	return w.buf.len()
}

// WindowLen returns the number of records currently in the window.
func (w *Window[R]) WindowLen() int {
	if w.suppressed() {
		return 0
	}
	return w.buf.len() - w.start
}

// WindowSize echoes the configured Size (count retention).
func (w *Window[R]) WindowSize() int {
	return w.cfg.Size
}

// Span echoes the configured time span (time retention).
func (w *Window[R]) Span() time.Duration {
	return w.cfg.Span
}

// IsFull reports whether the window has stopped growing from the buffer
// start: for count retention the window holds exactly Size records; for time
// retention the oldest timestamped buffer record already falls outside the
// span behind the latest timestamp.
func (w *Window[R]) IsFull() bool {
	return w.isFull()
}

func (w *Window[R]) isFull() bool {
	switch w.cfg.Retention {
	case RetentionCount:
		return w.buf.len()-w.start == w.cfg.Size
	case RetentionTime:
		if !w.haveLatest {
			return false
		}
		cutoff := w.latest.Add(-w.cfg.Span)
		for i := 0; i < w.buf.len(); i++ {
			if ts, ok := w.buf.at(i).GetTime(w.cfg.TimeField); ok {
				return !ts.After(cutoff)
			}
		}
		return false
	}
	return false
}

func (w *Window[R]) suppressed() bool {
	return w.cfg.RequireFull && !w.filled
}
