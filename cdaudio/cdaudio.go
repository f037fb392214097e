// Package cdaudio streams the audio tracks of a cue/bin disc image as a
// continuous PCM byte stream.
//
// A System parses the cue sheet, opens the image and runs a reader
// goroutine that pushes one chunk per iteration into a bounded buffer:
// audio from the image while playing, silence otherwise. Playback is
// controlled with Play, Stop, Pause, Resume and Shutdown, which never fail;
// if Init could not find a cue sheet or image, they do nothing and
// ReadPCM yields silence.
package cdaudio

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rabidaudio/cuestream/cd"
	"github.com/rabidaudio/cuestream/cue"
	"github.com/rabidaudio/cuestream/logger"
	"github.com/rabidaudio/cuestream/ringbuf"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultCapacity is the default size of the stream buffer, 32 frames
// of audio. The reader moves a quarter of it per iteration.
const DefaultCapacity = cd.BytesPerFrame * 32

// Options configure a System.
type Options struct {
	CueFile     string        // cue sheet name in the base directory; empty to discover one
	Patterns    []string      // discovery patterns, default cue.DefaultPatterns
	Capacity    int           // stream buffer size in bytes, default DefaultCapacity
	SendTimeout time.Duration // reader send timeout, 0 to wait forever
	Logger      *logrus.Entry

	// StartTrack, if positive, is played from the first chunk the reader
	// produces, so no silence is queued ahead of it.
	StartTrack int
	StartLoop  bool
}

// System is the streaming subsystem of one disc image.
type System struct {
	opts Options
	log  *logrus.Entry
	ctl  Controller

	mtx     sync.Mutex // guards the fields below during Init and Shutdown
	enabled bool
	table   cd.Table
	sheet   *cue.Sheet
	buf     *ringbuf.Buffer
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// New returns a System that is disabled until Init succeeds.
func New(opts Options) *System {
	if opts.Patterns == nil {
		opts.Patterns = cue.DefaultPatterns
	}
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &System{opts: opts, log: log}
}

// Init loads the cue sheet from baseDir, opens its image and starts the
// reader. It reports whether the subsystem is enabled; a missing cue sheet
// or image is logged and leaves it disabled. Once shut down, the subsystem
// stays disabled.
func (s *System) Init(baseDir string) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.enabled {
		return true
	}
	if s.ctl.Snapshot().Run == ShuttingDown {
		s.log.Warn("cd audio already shut down")
		return false
	}
	if err := s.init(baseDir); err != nil {
		s.log.WithError(err).Warn("cd audio disabled")
		return false
	}
	return true
}

func (s *System) init(baseDir string) error {
	path, sheet, err := cue.Load(baseDir, s.opts.CueFile, s.opts.Patterns)
	if err != nil {
		return err
	}
	log := s.log.WithField("cue", path)
	if sheet.FileCount > 1 {
		log.WithField("files", sheet.FileCount).Warn("multi-file cue sheets are not supported, using the last FILE")
	}

	image, err := os.Open(sheet.Image)
	if err != nil {
		return fmt.Errorf("%w: %w", cue.ErrNoImage, err)
	}
	size, err := image.Seek(0, io.SeekEnd)
	if err == nil {
		_, err = image.Seek(0, io.SeekStart)
	}
	if err != nil {
		image.Close()
		return fmt.Errorf("cdaudio: size of %s: %w", sheet.Image, err)
	}

	table := sheet.Table(size)
	for _, tr := range table.Tracks() {
		log.WithFields(logrus.Fields{
			"track":  tr.Index,
			"kind":   tr.Kind,
			"offset": tr.OffsetBytes,
			"size":   tr.LengthBytes,
		}).Info("track")
	}

	buf := ringbuf.New(s.opts.Capacity)
	buf.SendTimeout = s.opts.SendTimeout
	reader := newStreamReader(&s.ctl, table, image, buf, s.opts.Capacity/4, s.log.WithField("component", "reader"))

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	s.sheet = sheet
	s.table = table
	s.buf = buf
	s.cancel = cancel
	s.group = group
	s.enabled = true
	s.ctl.enable()
	if s.opts.StartTrack > 0 {
		s.ctl.Play(s.opts.StartTrack, s.opts.StartLoop)
	}
	group.Go(func() error { return reader.Run(ctx) })
	return nil
}

// Enabled reports whether Init succeeded.
func (s *System) Enabled() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.enabled
}

// Tracks returns the populated tracks, or nil when disabled.
func (s *System) Tracks() []cd.Track {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.enabled {
		return nil
	}
	return s.table.Tracks()
}

// Sheet returns the parsed cue sheet, or nil when disabled.
func (s *System) Sheet() *cue.Sheet {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.sheet
}

// State returns a snapshot of the playback state.
func (s *System) State() State {
	return s.ctl.Snapshot()
}

// Play starts track from its beginning, looping it if looping is set, or
// continuing with the following tracks otherwise.
func (s *System) Play(track int, looping bool) { s.ctl.Play(track, looping) }

// Stop switches to silence.
func (s *System) Stop() { s.ctl.Stop() }

// Pause is the same as Stop.
func (s *System) Pause() { s.ctl.Pause() }

// Resume resumes reading from the current image position.
func (s *System) Resume() { s.ctl.Resume() }

// Shutdown stops the reader and waits for it to exit. The consumer must
// keep reading until Shutdown returns, unless the buffer has a send timeout.
func (s *System) Shutdown() {
	_ = s.ShutdownContext(context.Background())
}

// ShutdownContext is Shutdown with a bound on the wait. When ctx is done
// before the reader has exited, the reader is interrupted even inside a
// blocking send.
func (s *System) ShutdownContext(ctx context.Context) error {
	s.ctl.Shutdown()

	s.mtx.Lock()
	group, cancel, buf := s.group, s.cancel, s.buf
	s.group = nil
	s.mtx.Unlock()
	if group == nil {
		return nil
	}

	// the lock is not held while waiting, so ReadPCM can keep draining
	done := make(chan error, 1)
	go func() { done <- group.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		cancel()
		err = <-done
	}
	cancel()
	buf.Close()

	s.mtx.Lock()
	s.enabled = false
	s.mtx.Unlock()
	s.log.Info("cd audio shut down")
	return err
}

// ReadPCM fills p with the next bytes of the stream, in as many receives
// as it takes. Before Init succeeds, and after Shutdown, p is filled with
// silence without blocking.
func (s *System) ReadPCM(ctx context.Context, p []byte) error {
	s.mtx.Lock()
	buf := s.buf
	enabled := s.enabled
	s.mtx.Unlock()

	if !enabled {
		clear(p)
		return nil
	}
	return ReceiveFull(ctx, buf, p)
}

// Receiver is the consuming side of a bounded byte buffer.
type Receiver interface {
	ReceiveUpToContext(ctx context.Context, p []byte) (int, error)
}

// ReceiveFull loops on r until p is full, tolerating deliveries shorter
// than requested.
func ReceiveFull(ctx context.Context, r Receiver, p []byte) error {
	for len(p) > 0 {
		n, err := r.ReceiveUpToContext(ctx, p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
