package scheduler

// window is a fixed-capacity ring of the most recent latency samples.
// It keeps a running sum so pushing and averaging are both O(1).
type window struct {
	samples []float64
	size    int
	next    int
	count   int
	sum     float64
}

func newWindow(size int) *window {
	if size <= 0 {
		size = 1
	}
	return &window{
		samples: make([]float64, size),
		size:    size,
	}
}

// Push records a sample, evicting the oldest one once full.
func (w *window) Push(v float64) {
	if w.count == w.size {
		w.sum -= w.samples[w.next]
	} else {
		w.count++
	}
	w.samples[w.next] = v
	w.sum += v
	w.next = (w.next + 1) % w.size
}

// Average returns the arithmetic mean of the retained samples, or 0
// when empty.
func (w *window) Average() float64 {
	if w.count == 0 {
		return 0
	}
	return w.sum / float64(w.count)
}

// Reset discards all samples.
func (w *window) Reset() {
	for i := range w.samples {
		w.samples[i] = 0
	}
	w.next = 0
	w.count = 0
	w.sum = 0
}
