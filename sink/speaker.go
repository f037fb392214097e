package sink

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/rabidaudio/cuestream/cd"
	"github.com/rabidaudio/cuestream/pcm"
	"github.com/rabidaudio/cuestream/ringbuf"
	"github.com/sirupsen/logrus"
)

// Format is the beep format of CD audio.
var Format = beep.Format{
	SampleRate:  cd.SampleRate,
	NumChannels: cd.Channels,
	Precision:   cd.BytesPerSample,
}

// Speaker plays mixed samples on the default audio device. Write blocks
// once the device is a buffer's worth behind, which paces the mixer.
type Speaker struct {
	buf     *ringbuf.Buffer
	stream  *bufferStreamer
	volume  *effects.Volume
	scratch []byte
	log     *logrus.Entry
}

// NewSpeaker opens the audio device with a buffer of the given length.
// Only one Speaker can be open at a time.
func NewSpeaker(buffer time.Duration, log *logrus.Entry) (*Speaker, error) {
	n := Format.SampleRate.N(buffer)
	if n <= 0 {
		return nil, fmt.Errorf("sink: speaker buffer %v too short", buffer)
	}
	if err := speaker.Init(Format.SampleRate, n); err != nil {
		return nil, fmt.Errorf("sink: speaker init: %w", err)
	}

	buf := ringbuf.New(2 * n * cd.BytesPerStereoSample)
	stream := &bufferStreamer{buf: buf}
	volume := &effects.Volume{Streamer: stream, Base: 2}
	speaker.Play(volume)

	log = orDiscard(log)
	log.WithField("buffer", buffer).Info("speaker open")
	return &Speaker{buf: buf, stream: stream, volume: volume, log: log}, nil
}

// Write queues samples for playback. It gives up when ctx is done.
func (s *Speaker) Write(ctx context.Context, samples []int16) error {
	need := len(samples) * cd.BytesPerSample
	if cap(s.scratch) < need {
		s.scratch = make([]byte, need)
	}
	p := s.scratch[:need]
	pcm.Encode(p, samples)
	_, err := s.buf.SendContext(ctx, p)
	return err
}

// SetVolume sets the output level in percent.
func (s *Speaker) SetVolume(percent int) error {
	speaker.Lock()
	defer speaker.Unlock()
	s.volume.Silent = percent <= 0
	if percent > 0 {
		s.volume.Volume = math.Log2(float64(percent) / 100)
	}
	return nil
}

// Underruns returns the number of device callbacks that found the buffer
// short and played silence instead.
func (s *Speaker) Underruns() int {
	speaker.Lock()
	defer speaker.Unlock()
	return s.stream.underruns
}

// Close stops playback and releases the device.
func (s *Speaker) Close() error {
	speaker.Clear()
	s.buf.Close()
	speaker.Close()
	if u := s.Underruns(); u > 0 {
		s.log.WithField("underruns", u).Warn("speaker underran")
	}
	return nil
}

// bufferStreamer hands buffered bytes to beep. It runs on the speaker's
// goroutine so it never waits for the mixer; a short buffer plays as
// silence.
type bufferStreamer struct {
	buf       *ringbuf.Buffer
	scratch   []byte
	underruns int
}

func (s *bufferStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	need := len(samples) * cd.BytesPerStereoSample
	if cap(s.scratch) < need {
		s.scratch = make([]byte, need)
	}
	p := s.scratch[:need]

	got := 0
	for got < need {
		c := s.buf.TryReceive(p[got:])
		if c == 0 {
			break
		}
		got += c
	}
	if got < need {
		s.underruns++
		clear(p[got:])
	}
	for i := range samples {
		samples[i][0], samples[i][1] = extractFrame(p[i*cd.BytesPerStereoSample:])
	}
	return len(samples), true
}

func (s *bufferStreamer) Err() error {
	return nil
}

// extractFrame converts one little-endian stereo sample pair to floats
// in [-1, 1).
func extractFrame(p []byte) (l, r float64) {
	li := int16(p[0]) | int16(p[1])<<8
	ri := int16(p[2]) | int16(p[3])<<8
	return float64(li) / (1 << 15), float64(ri) / (1 << 15)
}

var _ beep.Streamer = (*bufferStreamer)(nil)
