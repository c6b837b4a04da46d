package window

import "math"

// FieldStats summarizes the numeric values of one field across the window.
// Count is the number of records that contributed a numeric value; when it
// is zero, Min, Max, Sum, and Mean are all NaN.
type FieldStats struct {
	Min   float64
	Max   float64
	Sum   float64
	Mean  float64
	Count int
}

// FieldStats computes min/max/sum/mean/count over the numeric values of
// field within the current window. It returns nil when the window is empty.
// Records whose field is missing or non-numeric are skipped, never an error;
// a window with no numeric contributions yields Count 0 and NaN aggregates.
func (w *Window[R]) FieldStats(field string) *FieldStats {
	if w.WindowLen() == 0 {
		return nil
	}

	var (
		min, max float64
		sum      float64
		count    int
	)
	for i := w.start; i < w.buf.len(); i++ {
		v, ok := w.buf.at(i).GetFloat64(field)
		if !ok {
			continue
		}
		if count == 0 || v < min {
			min = v
		}
		if count == 0 || v > max {
			max = v
		}
		sum += v
		count++
	}

	if count == 0 {
		nan := math.NaN()
		return &FieldStats{Min: nan, Max: nan, Sum: nan, Mean: nan, Count: 0}
	}
	return &FieldStats{
		Min:   min,
		Max:   max,
		Sum:   sum,
		Mean:  sum / float64(count),
		Count: count,
	}
}
