// Package ringbuf provides a fixed-capacity blocking byte queue connecting
// one producer goroutine to one consumer goroutine.
//
// A send blocks until its whole payload is buffered. A receive blocks until
// at least one byte is available and then returns one contiguous run of
// buffered bytes, which may be shorter than requested; callers that need an
// exact amount loop until they have it.
package ringbuf

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

var (
	// ErrClosed is returned by sends on a closed Buffer, and by receives once
	// a closed Buffer has been drained.
	ErrClosed = errors.New("ringbuf: buffer closed")
	// ErrTimeout is returned by a send that could not buffer its whole
	// payload within SendTimeout.
	ErrTimeout = errors.New("ringbuf: send timed out")
)

// Buffer is a bounded byte queue. The zero value is not usable; create one
// with New.
type Buffer struct {
	// SendTimeout bounds how long one send may wait for space. Zero waits
	// forever.
	SendTimeout time.Duration

	sendMtx sync.Mutex // keeps payloads of concurrent senders contiguous
	recvMtx sync.Mutex

	mtx    sync.Mutex
	data   []byte
	head   int // index of the oldest buffered byte
	size   int // number of buffered bytes
	closed bool

	readable  chan struct{}
	writable  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New returns an empty Buffer holding at most capacity bytes.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		panic("ringbuf: capacity must be positive")
	}
	return &Buffer{
		data:     make([]byte, capacity),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func notify(c chan struct{}) {
	select {
	case c <- struct{}{}:
	default:
	}
}

// Cap returns the capacity in bytes.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.size
}

// Send buffers all of p, blocking while the buffer is full.
func (b *Buffer) Send(p []byte) (int, error) {
	return b.SendContext(context.Background(), p)
}

// SendContext buffers all of p, blocking while the buffer is full. It
// returns early with the number of bytes already buffered if ctx is done,
// SendTimeout elapses, or the buffer is closed.
func (b *Buffer) SendContext(ctx context.Context, p []byte) (int, error) {
	b.sendMtx.Lock()
	defer b.sendMtx.Unlock()

	var timeout <-chan time.Time
	if b.SendTimeout > 0 {
		t := time.NewTimer(b.SendTimeout)
		defer t.Stop()
		timeout = t.C
	}

	written := 0
	for written < len(p) {
		b.mtx.Lock()
		if b.closed {
			b.mtx.Unlock()
			return written, ErrClosed
		}
		if free := len(b.data) - b.size; free > 0 {
			n := b.put(p[written:written+min(free, len(p)-written)])
			written += n
			if b.size < len(b.data) {
				notify(b.writable)
			}
			b.mtx.Unlock()
			notify(b.readable)
			continue
		}
		b.mtx.Unlock()

		select {
		case <-b.writable:
		case <-b.done:
		case <-ctx.Done():
			return written, ctx.Err()
		case <-timeout:
			return written, ErrTimeout
		}
	}
	return written, nil
}

// put copies p into the free space after the tail, wrapping once.
// b.mtx must be held and p must fit.
func (b *Buffer) put(p []byte) int {
	tail := (b.head + b.size) % len(b.data)
	n := copy(b.data[tail:], p)
	if n < len(p) {
		n += copy(b.data, p[n:])
	}
	b.size += n
	return n
}

// TryReceive is ReceiveUpTo without the wait. It returns 0 when nothing
// is buffered.
func (b *Buffer) TryReceive(p []byte) int {
	b.recvMtx.Lock()
	defer b.recvMtx.Unlock()

	b.mtx.Lock()
	n := b.take(p)
	b.mtx.Unlock()
	if n > 0 {
		notify(b.writable)
	}
	return n
}

// take copies one contiguous run of at most len(p) bytes out of the
// buffer. The caller holds mtx.
func (b *Buffer) take(p []byte) int {
	n := min(len(p), b.size, len(b.data)-b.head)
	if n == 0 {
		return 0
	}
	copy(p, b.data[b.head:b.head+n])
	b.head = (b.head + n) % len(b.data)
	b.size -= n
	if b.size > 0 {
		notify(b.readable)
	}
	return n
}

// ReceiveUpTo blocks until data is buffered and copies one contiguous run of
// it, at most len(p) bytes, into p.
func (b *Buffer) ReceiveUpTo(p []byte) (int, error) {
	return b.ReceiveUpToContext(context.Background(), p)
}

// ReceiveUpToContext is ReceiveUpTo, returning early if ctx is done. A run
// never crosses the end of the underlying array, so a receive may return
// fewer bytes than are buffered.
func (b *Buffer) ReceiveUpToContext(ctx context.Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b.recvMtx.Lock()
	defer b.recvMtx.Unlock()

	for {
		b.mtx.Lock()
		n := b.take(p)
		closed := b.closed
		b.mtx.Unlock()
		if n > 0 {
			notify(b.writable)
			return n, nil
		}
		if closed {
			return 0, ErrClosed
		}

		select {
		case <-b.readable:
		case <-b.done:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Write implements io.Writer on top of Send.
func (b *Buffer) Write(p []byte) (int, error) {
	return b.Send(p)
}

// Read implements io.Reader on top of ReceiveUpTo. It reports io.EOF once
// the buffer is closed and drained.
func (b *Buffer) Read(p []byte) (int, error) {
	n, err := b.ReceiveUpTo(p)
	if errors.Is(err, ErrClosed) {
		return n, io.EOF
	}
	return n, err
}

// Close wakes blocked senders and receivers. Buffered bytes can still be
// received; further sends fail with ErrClosed.
func (b *Buffer) Close() error {
	b.mtx.Lock()
	b.closed = true
	b.mtx.Unlock()
	b.closeOnce.Do(func() { close(b.done) })
	return nil
}

// ensure interface conformation
var _ io.ReadWriteCloser = (*Buffer)(nil)
