package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lndroit/streamlens/internal/record"
)

func TestOn_HandlersFireInRegistrationOrder(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 3})
	require.NoError(t, err)

	var order []string
	w.On(EventData, func(Event[record.Dynamic]) { order = append(order, "first") })
	w.On(EventData, func(Event[record.Dynamic]) { order = append(order, "second") })

	w.Push(xRec(1))

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestOff_RemovesOnlyThatHandler(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 3})
	require.NoError(t, err)

	var first, second int
	subFirst := w.On(EventData, func(Event[record.Dynamic]) { first++ })
	w.On(EventData, func(Event[record.Dynamic]) { second++ })

	w.Push(xRec(1))
	require.Equal(t, 1, first)
	require.Equal(t, 1, second)

	assert.True(t, w.Off(EventData, subFirst))
	w.Push(xRec(2))
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)

	// Unsubscribing twice is a no-op.
	assert.False(t, w.Off(EventData, subFirst))
}

func TestOn_RejectsUnknownKindAndNilHandler(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 3})
	require.NoError(t, err)

	assert.Equal(t, Subscription(0), w.On(EventKind(42), func(Event[record.Dynamic]) {}))
	assert.Equal(t, Subscription(0), w.On(EventData, nil))
	assert.False(t, w.Off(EventKind(42), 1))
}

func TestDispatch_HandlerAddedDuringDispatchFiresNextTime(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 3})
	require.NoError(t, err)

	var late int
	registered := false
	w.On(EventData, func(Event[record.Dynamic]) {
		if !registered {
			registered = true
			w.On(EventData, func(Event[record.Dynamic]) { late++ })
		}
	})

	w.Push(xRec(1))
	assert.Equal(t, 0, late)
	w.Push(xRec(2))
	assert.Equal(t, 1, late)
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "data", EventData.String())
	assert.Equal(t, "slide", EventSlide.String())
	assert.Equal(t, "empty", EventEmpty.String())
	assert.Equal(t, "unknown", EventKind(42).String())
}
