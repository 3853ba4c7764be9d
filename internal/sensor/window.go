package sensor

// WindowSize is the number of samples kept per sensor.
const WindowSize = 10

// Window is a fixed size circular buffer of samples. Every slot also
// records whether it was written from a successful read, which lets
// callers tell a genuine 0.0 from the failed-read sentinel.
type Window struct {
	data  [WindowSize]float64
	valid [WindowSize]bool
	pos   int
}

// Push stores v at the cursor and advances it.
func (w *Window) Push(v float64, valid bool) {
	w.data[w.pos] = v
	w.valid[w.pos] = valid
	w.pos = (w.pos + 1) % WindowSize
}

// Cursor is the slot the next sample goes into.
func (w *Window) Cursor() int {
	return w.pos
}

// Values returns the raw slots in physical order, sentinels included.
func (w *Window) Values() [WindowSize]float64 {
	return w.data
}

// Mean averages all non-zero slots. A slot holding 0.0 is treated as
// never written. ok is false when no slot qualifies.
func (w *Window) Mean() (mean float64, ok bool) {
	return w.mean(func(i int) bool { return w.data[i] != 0 })
}

// ValidMean averages the slots written from successful reads, so a
// genuine 0.0 reading counts. ok is false when there are none.
func (w *Window) ValidMean() (mean float64, ok bool) {
	return w.mean(func(i int) bool { return w.valid[i] })
}

func (w *Window) mean(use func(int) bool) (float64, bool) {
	var sum float64
	n := 0
	for i := range w.data {
		if use(i) {
			sum += w.data[i]
			n++
		}
	}
	if n == 0 {
		return 0, false
	}

	return sum / float64(n), true
}

// Reset clears all samples and rewinds the cursor.
func (w *Window) Reset() {
	*w = Window{}
}
