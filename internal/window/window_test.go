package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lndroit/streamlens/internal/record"
)

func xRec(x float64) record.Dynamic {
	return record.Dynamic{"x": x}
}

func timedRec(ms int64, v float64) record.Dynamic {
	return record.Dynamic{"time": float64(ms), "v": v}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"unknown retention", Config{Retention: "weekly", Size: 5}, ErrInvalidRetention},
		{"zero count size", Config{Retention: RetentionCount, Size: 0}, ErrInvalidSize},
		{"negative count size", Config{Retention: RetentionCount, Size: -3}, ErrInvalidSize},
		{"zero time span", Config{Retention: RetentionTime}, ErrInvalidSpan},
		{"negative time span", Config{Retention: RetentionTime, Span: -time.Second}, ErrInvalidSpan},
		{"negative slide", Config{Retention: RetentionCount, Size: 5, SlideEvery: -1}, ErrInvalidSlide},
		{"negative buffer cap", Config{Retention: RetentionCount, Size: 5, MaxBuffer: -1}, ErrInvalidMaxBuffer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New[record.Dynamic](tt.cfg)
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, w)
		})
	}
}

func TestPush_BufferNeverExceedsCap(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 5, MaxBuffer: 50})
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		w.Push(xRec(float64(i)))
		require.LessOrEqual(t, w.BufferLen(), 50)
	}
	assert.Equal(t, 50, w.BufferLen())
}

func TestPush_CountWindowTracksMinOfSizeAndBuffer(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 5})
	require.NoError(t, err)

	for i := 1; i <= 12; i++ {
		w.Push(xRec(float64(i)))
		want := i
		if want > 5 {
			want = 5
		}
		require.Equal(t, want, w.WindowLen(), "after push %d", i)
		require.Len(t, w.WindowData(), want)
	}
}

func TestPush_FIFOEviction(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 3, MaxBuffer: 10})
	require.NoError(t, err)

	for i := 1; i <= 13; i++ {
		w.Push(xRec(float64(i)))
	}

	all := w.AllData()
	require.Len(t, all, 10)
	for i, r := range all {
		v, ok := r.GetFloat64("x")
		require.True(t, ok)
		// Records 1..3 were evicted, so the buffer holds 4..13 in push order.
		assert.Equal(t, float64(i+4), v)
	}
}

func TestEndToEnd_CountWindowOverTenPushes(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 3})
	require.NoError(t, err)

	for x := 1; x <= 10; x++ {
		w.Push(xRec(float64(x)))
	}

	win := w.WindowData()
	require.Len(t, win, 3)
	for i, want := range []float64{8, 9, 10} {
		v, ok := win[i].GetFloat64("x")
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
	assert.Len(t, w.AllData(), 10)

	stats := w.Stats()
	assert.Equal(t, WindowStats{Count: 3, Start: 7, End: 10}, stats)
	assert.Equal(t, stats.Count, stats.End-stats.Start)
}

func TestClear_EmptiesBufferAndFiresEmptyOnce(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 3})
	require.NoError(t, err)

	var empties int
	var lastPayload []record.Dynamic
	w.On(EventEmpty, func(ev Event[record.Dynamic]) {
		empties++
		lastPayload = ev.Records
	})

	w.Push(xRec(1))
	w.Push(xRec(2))
	w.Clear()

	assert.Equal(t, 1, empties)
	assert.Nil(t, lastPayload)
	assert.Equal(t, 0, w.BufferLen())
	assert.Empty(t, w.WindowData())
	assert.Nil(t, w.FieldStats("x"))

	// Configuration and subscriptions survive a clear.
	w.Push(xRec(3))
	assert.Equal(t, 1, w.WindowLen())
	w.Clear()
	assert.Equal(t, 2, empties)
}

func TestClear_ResetsSlideCounter(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 5, SlideEvery: 3})
	require.NoError(t, err)

	var slides int
	w.On(EventSlide, func(Event[record.Dynamic]) { slides++ })

	w.Push(xRec(1))
	w.Push(xRec(2))
	w.Clear()

	// The counter restarted, so the next slide needs three more pushes.
	w.Push(xRec(3))
	w.Push(xRec(4))
	assert.Equal(t, 0, slides)
	w.Push(xRec(5))
	assert.Equal(t, 1, slides)
}

func TestSlideCadence(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 5, SlideEvery: 3})
	require.NoError(t, err)

	var slideAt []int
	pushed := 0
	w.On(EventSlide, func(ev Event[record.Dynamic]) {
		slideAt = append(slideAt, pushed)
	})

	for i := 1; i <= 10; i++ {
		pushed = i
		w.Push(xRec(float64(i)))
	}

	assert.Equal(t, []int{3, 6, 9}, slideAt)
}

func TestSlideEvery_DefaultsToSize(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 4})
	require.NoError(t, err)

	var slides int
	w.On(EventSlide, func(Event[record.Dynamic]) { slides++ })

	for i := 0; i < 8; i++ {
		w.Push(xRec(float64(i)))
	}
	assert.Equal(t, 2, slides)
}

func TestPushMany_SingleDataEventPreservesSlides(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 5, SlideEvery: 2})
	require.NoError(t, err)

	var dataEvents, slides int
	var lastData []record.Dynamic
	w.On(EventData, func(ev Event[record.Dynamic]) {
		dataEvents++
		lastData = ev.Records
	})
	w.On(EventSlide, func(Event[record.Dynamic]) { slides++ })

	batch := make([]record.Dynamic, 0, 7)
	for i := 1; i <= 7; i++ {
		batch = append(batch, xRec(float64(i)))
	}
	w.PushMany(batch)

	assert.Equal(t, 1, dataEvents)
	assert.Equal(t, 3, slides) // at pushes 2, 4, 6
	require.Len(t, lastData, 5)
	v, ok := lastData[0].GetFloat64("x")
	require.True(t, ok)
	assert.Equal(t, float64(3), v)
}

func TestTimeRetention_WindowFollowsLatestTimestamp(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionTime, Span: 10 * time.Second})
	require.NoError(t, err)

	sec := int64(time.Second / time.Millisecond)
	w.Push(timedRec(0*sec, 1))
	w.Push(timedRec(5*sec, 2))
	w.Push(timedRec(9*sec, 3))
	assert.Equal(t, 3, w.WindowLen())
	assert.False(t, w.IsFull())

	// Cutoff moves to t=5s; the t=0 record leaves the window but stays buffered.
	w.Push(timedRec(15*sec, 4))
	assert.Equal(t, 3, w.WindowLen())
	assert.Equal(t, 4, w.BufferLen())
	assert.True(t, w.IsFull())

	w.Push(timedRec(30*sec, 5))
	assert.Equal(t, 1, w.WindowLen())
	assert.Equal(t, 5, w.BufferLen())

	stats := w.Stats()
	assert.Equal(t, WindowStats{Count: 1, Start: 4, End: 5}, stats)
}

func TestTimeRetention_MalformedTimestampIsABarrier(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionTime, Span: time.Hour})
	require.NoError(t, err)

	sec := int64(time.Second / time.Millisecond)
	w.Push(timedRec(1*sec, 1))
	w.Push(record.Dynamic{"v": 2.0}) // no time field at all
	assert.Equal(t, 0, w.WindowLen())
	assert.Equal(t, 2, w.BufferLen())

	w.Push(timedRec(2*sec, 3))
	win := w.WindowData()
	require.Len(t, win, 1)
	v, ok := win[0].GetFloat64("v")
	require.True(t, ok)
	assert.Equal(t, float64(3), v)

	// The barrier record still counts toward the buffer and AllData.
	assert.Len(t, w.AllData(), 3)
	stats := w.Stats()
	assert.Equal(t, WindowStats{Count: 1, Start: 2, End: 3}, stats)
}

func TestTimeRetention_LateRecordBehindCutoffIsExcluded(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionTime, Span: 10 * time.Second})
	require.NoError(t, err)

	sec := int64(time.Second / time.Millisecond)
	w.Push(timedRec(0*sec, 1))
	w.Push(timedRec(100*sec, 2))
	require.Equal(t, 1, w.WindowLen())

	// A late arrival stamped t=50s is far behind the t=90s cutoff. It must
	// not enter the window, though it stays buffered like any barrier record.
	w.Push(timedRec(50*sec, 3))
	assert.Equal(t, 0, w.WindowLen())
	assert.Equal(t, 3, w.BufferLen())
	assert.Empty(t, w.WindowData())

	// Out-of-order but still in span: included.
	w.Push(timedRec(95*sec, 4))
	win := w.WindowData()
	require.Len(t, win, 1)
	v, ok := win[0].GetFloat64("v")
	require.True(t, ok)
	assert.Equal(t, float64(4), v)

	w.Push(timedRec(92*sec, 5))
	assert.Equal(t, 2, w.WindowLen())
}

func TestTimeRetention_UsesConfiguredTimeField(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionTime, Span: 10 * time.Second, TimeField: "ts"})
	require.NoError(t, err)

	sec := int64(time.Second / time.Millisecond)
	w.Push(record.Dynamic{"ts": float64(0 * sec)})
	w.Push(record.Dynamic{"ts": float64(20 * sec)})
	assert.Equal(t, 1, w.WindowLen())
}

func TestRequireFull_SuppressesOnlyInitialFill(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 3, RequireFull: true})
	require.NoError(t, err)

	w.Push(xRec(1))
	w.Push(xRec(2))
	assert.Empty(t, w.WindowData())
	assert.Equal(t, 0, w.WindowLen())
	assert.Nil(t, w.FieldStats("x"))
	assert.Equal(t, WindowStats{Count: 0, Start: 2, End: 2}, w.Stats())

	w.Push(xRec(3))
	assert.Len(t, w.WindowData(), 3)
	assert.True(t, w.IsFull())

	// Clear restarts the fill phase.
	w.Clear()
	w.Push(xRec(4))
	assert.Empty(t, w.WindowData())
}

func TestRequireFull_DoesNotRearmAfterShrink(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionTime, Span: 10 * time.Second, RequireFull: true})
	require.NoError(t, err)

	sec := int64(time.Second / time.Millisecond)
	w.Push(timedRec(0*sec, 1))
	assert.Empty(t, w.WindowData())

	w.Push(timedRec(15*sec, 2))
	assert.True(t, w.IsFull())
	assert.Len(t, w.WindowData(), 1)

	// A barrier empties the window, but the full-once latch stays set: the
	// next record is queryable immediately rather than suppressed again.
	w.Push(record.Dynamic{"v": 3.0})
	assert.Empty(t, w.WindowData())
	w.Push(timedRec(16*sec, 4))
	assert.Len(t, w.WindowData(), 1)
}

func TestDispatch_IsReentrantDepthFirst(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 5})
	require.NoError(t, err)

	var seen [][]float64
	nested := false
	w.On(EventData, func(ev Event[record.Dynamic]) {
		xs := make([]float64, 0, len(ev.Records))
		for _, r := range ev.Records {
			x, _ := r.GetFloat64("x")
			xs = append(xs, x)
		}
		seen = append(seen, xs)
		if !nested {
			nested = true
			w.Push(xRec(2))
		}
	})

	w.Push(xRec(1))

	// The nested dispatch completes before the outer push returns, so the
	// two-record event is recorded even though it was triggered second.
	require.Len(t, seen, 2)
	assert.Equal(t, []float64{1}, seen[0])
	assert.Equal(t, []float64{1, 2}, seen[1])
	assert.Equal(t, 2, w.BufferLen())
}

func TestWindowData_IsACopy(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 3})
	require.NoError(t, err)

	w.Push(xRec(1))
	w.Push(xRec(2))

	win := w.WindowData()
	win[0] = xRec(99)

	again := w.WindowData()
	v, ok := again[0].GetFloat64("x")
	require.True(t, ok)
	assert.Equal(t, float64(1), v)
}

func TestQueries_EchoConfiguration(t *testing.T) {
	w, err := New[record.Dynamic](Config{Retention: RetentionCount, Size: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, w.WindowSize())

	tw, err := New[record.Dynamic](Config{Retention: RetentionTime, Span: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, tw.Span())
}
