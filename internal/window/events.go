package window

import "github.com/lndroit/streamlens/internal/record"

// EventKind enumerates the notifications a window emits.
type EventKind uint8

const (
	// EventData fires after every push with the current window contents.
	EventData EventKind = iota
	// EventSlide fires every SlideEvery pushes (count retention) with the
	// current window contents.
	EventSlide
	// EventEmpty fires when Clear empties the buffer. It carries no records.
	EventEmpty

	numEventKinds
)

func (k EventKind) String() string {
	switch k {
	case EventData:
		return "data"
	case EventSlide:
		return "slide"
	case EventEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Event is the payload delivered to handlers. Records is a copy of the
// current window (oldest first) and is nil for EventEmpty; mutating it never
// affects window internals.
type Event[R record.Record] struct {
	Kind    EventKind
	Records []R
}

// Handler consumes window events.
type Handler[R record.Record] func(Event[R])

// Subscription identifies a registered handler. Go functions are not
// comparable, so unsubscription is by token rather than by handler value.
type Subscription uint64

type handlerEntry[R record.Record] struct {
	id Subscription
	fn Handler[R]
}

// On registers a handler for an event kind. Handlers fire synchronously, in
// registration order, within the call that triggered the event. The returned
// token unregisters the handler via Off.
func (w *Window[R]) On(kind EventKind, fn Handler[R]) Subscription {
	if kind >= numEventKinds || fn == nil {
		return 0
	}
	w.nextSub++
	w.handlers[kind] = append(w.handlers[kind], handlerEntry[R]{id: w.nextSub, fn: fn})
	return w.nextSub
}

// Off unregisters the handler identified by sub for the given event kind.
// Other handlers keep firing in their original order. It reports whether a
// handler was removed.
func (w *Window[R]) Off(kind EventKind, sub Subscription) bool {
	if kind >= numEventKinds {
		return false
	}
	entries := w.handlers[kind]
	for i, e := range entries {
		if e.id == sub {
			w.handlers[kind] = append(entries[:i:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// dispatch invokes the handlers registered for kind, in order. It iterates a
// snapshot so On/Off called from inside a handler only affects later
// dispatches. Dispatch is deliberately reentrant: a handler that mutates the
// window triggers a nested dispatch that completes before this one resumes.
func (w *Window[R]) dispatch(kind EventKind, records []R) {
	entries := w.handlers[kind]
	if len(entries) == 0 {
		return
	}
	snapshot := make([]handlerEntry[R], len(entries))
	copy(snapshot, entries)

	ev := Event[R]{Kind: kind, Records: records}
	for _, e := range snapshot {
		e.fn(ev)
	}
}
