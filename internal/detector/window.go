package detector

import (
	"fmt"
	"math"
)

// BoundedWindow is a fixed-capacity, insertion-ordered buffer of recent
// values. When full, pushing a new value evicts the oldest one (strict FIFO).
// Length never exceeds capacity.
//
// Statistics are computed over the current contents, so callers that need
// past-only scoring must query before pushing the value being scored.
type BoundedWindow struct {
	values []float64
	head   int // index of the oldest element
	size   int
}

// NewBoundedWindow creates a window holding up to capacity values.
func NewBoundedWindow(capacity int) (*BoundedWindow, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("window capacity must be >= 1, got %d", capacity)
	}
	return &BoundedWindow{values: make([]float64, capacity)}, nil
}

// Push appends v, evicting the oldest value if the window is full.
func (w *BoundedWindow) Push(v float64) {
	if w.size < len(w.values) {
		w.values[(w.head+w.size)%len(w.values)] = v
		w.size++
		return
	}
	w.values[w.head] = v
	w.head = (w.head + 1) % len(w.values)
}

// Len returns the number of values currently held.
func (w *BoundedWindow) Len() int { return w.size }

// Capacity returns the maximum number of values the window holds.
func (w *BoundedWindow) Capacity() int { return len(w.values) }

// Full reports whether the window holds capacity values.
func (w *BoundedWindow) Full() bool { return w.size == len(w.values) }

// Values returns the current contents, oldest first.
func (w *BoundedWindow) Values() []float64 {
	out := make([]float64, w.size)
	for i := 0; i < w.size; i++ {
		out[i] = w.at(i)
	}
	return out
}

// Mean returns the arithmetic mean of the current contents, 0 when empty.
func (w *BoundedWindow) Mean() float64 {
	if w.size == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < w.size; i++ {
		sum += w.at(i)
	}
	return sum / float64(w.size)
}

// PopulationVariance returns the population variance of the current contents
// (sum of squared deviations divided by the count, not count-1), 0 when empty.
func (w *BoundedWindow) PopulationVariance() float64 {
	if w.size == 0 {
		return 0
	}
	mean := w.Mean()
	ss := 0.0
	for i := 0; i < w.size; i++ {
		d := w.at(i) - mean
		ss += d * d
	}
	return ss / float64(w.size)
}

// MaxAbsDeviation returns the largest absolute deviation of any held value
// from the window mean, 0 when empty.
func (w *BoundedWindow) MaxAbsDeviation() float64 {
	if w.size == 0 {
		return 0
	}
	mean := w.Mean()
	maxDev := 0.0
	for i := 0; i < w.size; i++ {
		if d := math.Abs(w.at(i) - mean); d > maxDev {
			maxDev = d
		}
	}
	return maxDev
}

func (w *BoundedWindow) at(i int) float64 {
	return w.values[(w.head+i)%len(w.values)]
}
