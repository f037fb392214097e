package cdaudio

import (
	"context"
	"errors"
	"io"

	"github.com/rabidaudio/cuestream/cd"
	"github.com/rabidaudio/cuestream/ringbuf"
	"github.com/sirupsen/logrus"
)

// streamReader turns the playback state into a continuous byte stream.
// It owns the image handle and the chunk buffer; exactly one chunk,
// silence or audio, is pushed per iteration.
type streamReader struct {
	ctl   *Controller
	table cd.Table
	image io.ReadSeekCloser
	out   *ringbuf.Buffer
	chunk []byte
	pos   int64 // image position after the last read or seek
	log   *logrus.Entry
}

func newStreamReader(ctl *Controller, table cd.Table, image io.ReadSeekCloser, out *ringbuf.Buffer, chunkSize int, log *logrus.Entry) *streamReader {
	return &streamReader{
		ctl:   ctl,
		table: table,
		image: image,
		out:   out,
		chunk: make([]byte, chunkSize),
		log:   log,
	}
}

// Run loops until the state is ShuttingDown or ctx is done, then closes
// the image.
func (r *streamReader) Run(ctx context.Context) error {
	defer func() {
		r.chunk = nil
		if err := r.image.Close(); err != nil {
			r.log.WithError(err).Warn("closing image")
		}
		r.log.Debug("reader exited")
	}()

	for {
		if !r.fill() {
			return nil
		}
		if !r.push(ctx) {
			return nil
		}
	}
}

// fill prepares the next chunk under the controller's lock. It reports
// false once the reader should exit.
func (r *streamReader) fill() bool {
	r.ctl.mtx.Lock()
	defer r.ctl.mtx.Unlock()

	st := &r.ctl.state
	switch st.Run {
	case ShuttingDown:
		return false

	case Stopped:
		clear(r.chunk)
		return true

	case StartingTrack:
		track := r.table.At(st.Track)
		if !track.Used() {
			r.log.WithField("track", st.Track).Info("no such track, stopping")
			st.Run = Stopped
			clear(r.chunk)
			return true
		}
		if !r.seek(track.OffsetBytes) {
			st.Run = Stopped
			clear(r.chunk)
			return true
		}
		st.Run = Playing
		r.log.WithFields(logrus.Fields{"track": st.Track, "looping": st.Looping}).Info("playing")
	}

	r.read(st)
	return true
}

// read fills the chunk from the image and handles the end of the current
// track. The caller holds the lock.
func (r *streamReader) read(st *State) {
	n, err := io.ReadFull(r.image, r.chunk)
	r.pos += int64(n)
	eof := false
	if err != nil {
		clear(r.chunk[n:])
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			r.log.WithError(err).Error("image read failed, stopping")
			st.Run = Stopped
			return
		}
		// the last track ends at the end of the image, where pos can
		// never pass End
		eof = true
	}
	if r.pos >= r.table.ImageSize() {
		eof = true
	}
	r.log.WithField("pos", r.pos).Trace("chunk")

	track := r.table.At(st.Track)
	if r.pos <= track.End() && !eof {
		return
	}
	if st.Looping {
		r.log.WithField("track", st.Track).Debug("end of track, looping")
		if !r.seek(track.OffsetBytes) {
			st.Run = Stopped
		}
		return
	}
	st.Track++
	r.log.WithField("track", st.Track).Debug("end of track, next track")
	if !r.table.At(st.Track).Used() {
		r.log.Debug("end of disc, stopping")
		st.Run = Stopped
	}
}

func (r *streamReader) seek(offset int64) bool {
	pos, err := r.image.Seek(offset, io.SeekStart)
	if err != nil {
		r.log.WithError(err).WithField("offset", offset).Error("image seek failed, stopping")
		return false
	}
	r.pos = pos
	return true
}

// push sends the whole chunk without holding the lock. With a send timeout
// configured, each timeout is a chance to notice shutdown.
func (r *streamReader) push(ctx context.Context) bool {
	sent := 0
	for sent < len(r.chunk) {
		n, err := r.out.SendContext(ctx, r.chunk[sent:])
		sent += n
		switch {
		case err == nil:
		case errors.Is(err, ringbuf.ErrTimeout):
			if r.ctl.Snapshot().Run == ShuttingDown {
				return false
			}
		default:
			return false
		}
	}
	return true
}
