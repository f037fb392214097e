package mixer

import "sync"

// Region is the circular buffer of digitized game audio, in interleaved
// int16 samples. A producer writes ahead of the read cursor and the mixer
// consumes a window at the cursor once per period.
type Region struct {
	mtx     sync.Mutex
	samples []int16
	read    int
	write   int
}

// NewRegion returns a silent region of n samples.
func NewRegion(n int) *Region {
	if n <= 0 {
		panic("mixer: region size must be positive")
	}
	return &Region{samples: make([]int16, n)}
}

// Len is the size of the region in samples.
func (r *Region) Len() int {
	return len(r.samples)
}

// Position returns the read cursor in samples. Producers use it to stay
// ahead of the mixer.
func (r *Region) Position() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.read
}

// Window copies len(dst) samples starting at the read cursor into dst,
// wrapping at the end of the region. The cursor does not move.
func (r *Region) Window(dst []int16) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	for n, pos := 0, r.read; n < len(dst); {
		c := copy(dst[n:], r.samples[pos:])
		n += c
		pos = (pos + c) % len(r.samples)
	}
}

// Advance moves the read cursor n samples forward, modulo the region size.
func (r *Region) Advance(n int) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.read = (r.read + n) % len(r.samples)
}

// Write stores p at the write cursor, wrapping as needed, and moves the
// write cursor past it. It never blocks and overwrites whatever the mixer
// has not read yet.
func (r *Region) Write(p []int16) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	for len(p) > 0 {
		c := copy(r.samples[r.write:], p)
		p = p[c:]
		r.write = (r.write + c) % len(r.samples)
	}
}
