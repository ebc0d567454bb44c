package tui

// sparkBlocks are the eight heights of a sparkline cell, lowest first.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// RingBuffer keeps the most recent samples of a series.
type RingBuffer struct {
	data  []float64
	next  int
	count int
}

func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{data: make([]float64, max(capacity, 1))}
}

// Push appends v, dropping the oldest sample when full.
func (r *RingBuffer) Push(v float64) {
	r.data[r.next] = v
	r.next = (r.next + 1) % len(r.data)
	r.count = min(r.count+1, len(r.data))
}

func (r *RingBuffer) Len() int { return r.count }

// Last returns the newest sample, or 0 when empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.data[(r.next-1+len(r.data))%len(r.data)]
}

// Values returns the samples oldest first.
func (r *RingBuffer) Values() []float64 {
	out := make([]float64, r.count)
	start := (r.next - r.count + len(r.data)) % len(r.data)
	for i := range out {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

func (r *RingBuffer) Reset() {
	r.next, r.count = 0, 0
}

// RenderSparkline draws percentages (0..100) as block characters, keeping
// the newest width values.
func RenderSparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	out := make([]rune, len(values))
	top := len(sparkBlocks) - 1
	for i, v := range values {
		v = min(max(v, 0), 100)
		out[i] = sparkBlocks[int(v/100*float64(top))]
	}
	return string(out)
}
