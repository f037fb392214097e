// Package mixer combines the streamed CD audio with the digitized game
// audio and feeds the result to a sink at the rate it is played.
package mixer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rabidaudio/cuestream/cd"
	"github.com/rabidaudio/cuestream/logger"
	"github.com/rabidaudio/cuestream/pcm"
	"github.com/rabidaudio/cuestream/ringbuf"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultChunkBytes is the amount of CD audio mixed per period.
	DefaultChunkBytes = 2048
	// DefaultRegionBytes is the size of the digitized audio region.
	DefaultRegionBytes = 16384
)

// CDSource delivers the CD byte stream. ReadPCM fills all of p or fails.
type CDSource interface {
	ReadPCM(ctx context.Context, p []byte) error
}

// Feeder produces digitized audio. Next fills dst with the samples that
// follow the previous call.
type Feeder interface {
	Next(dst []int16)
}

// Sink plays mixed interleaved stereo samples.
type Sink interface {
	// Write blocks until the samples are queued or ctx is done.
	Write(ctx context.Context, samples []int16) error
	// SetVolume sets the output level in percent, 0 to 100.
	SetVolume(percent int) error
}

// Config holds the mixer tunables.
type Config struct {
	ChunkBytes int
	Weights    Weights
	// Pace runs one step per chunk duration instead of as fast as the
	// sink accepts samples.
	Pace bool
}

// Mixer is the consumer of the CD stream.
type Mixer struct {
	cfg    Config
	cd     CDSource
	region *Region
	feeder Feeder
	volume Volume
	sink   Sink
	log    *logrus.Entry

	mainVolume int // last percent applied to the sink, -1 before the first step
	cdBytes    []byte
	cdSamples  []int16
	digi       []int16
	out        []int16
}

// New returns a mixer reading from src and region, writing to sink. A nil
// feeder leaves the region to an outside producer.
func New(cfg Config, src CDSource, region *Region, feeder Feeder, volume Volume, sink Sink, log *logrus.Entry) (*Mixer, error) {
	if cfg.ChunkBytes <= 0 || cfg.ChunkBytes%cd.BytesPerStereoSample != 0 {
		return nil, fmt.Errorf("mixer: chunk of %d bytes is not a whole number of stereo samples", cfg.ChunkBytes)
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights
	}
	if cfg.Weights.CD < 0 || cfg.Weights.Digi < 0 || cfg.Weights.CD+cfg.Weights.Digi <= 0 {
		return nil, fmt.Errorf("mixer: bad weights %+v", cfg.Weights)
	}
	if log == nil {
		log = logger.Discard()
	}

	n := cfg.ChunkBytes / cd.BytesPerSample
	return &Mixer{
		cfg:        cfg,
		cd:         src,
		region:     region,
		feeder:     feeder,
		volume:     volume,
		sink:       sink,
		log:        log,
		mainVolume: -1,
		cdBytes:    make([]byte, cfg.ChunkBytes),
		cdSamples:  make([]int16, n),
		digi:       make([]int16, n),
		out:        make([]int16, n),
	}, nil
}

// Period is the playing time of one chunk.
func (m *Mixer) Period() time.Duration {
	frames := m.cfg.ChunkBytes / cd.BytesPerStereoSample
	return time.Duration(frames) * time.Second / cd.SampleRate
}

// Step mixes and writes one chunk.
func (m *Mixer) Step(ctx context.Context) error {
	if main := int(m.volume.MainVolume() * 100); main != m.mainVolume {
		if err := m.sink.SetVolume(main); err != nil {
			return fmt.Errorf("mixer: set volume: %w", err)
		}
		m.log.WithField("volume", main).Debug("main volume")
		m.mainVolume = main
	}
	cdvol := int(m.volume.CDVolume() * 255)

	if err := m.readCD(ctx); err != nil {
		return err
	}
	pcm.Decode(m.cdSamples, m.cdBytes)

	if m.feeder != nil {
		m.feeder.Next(m.digi)
		m.region.Write(m.digi)
	}
	m.region.Window(m.digi)
	m.region.Advance(len(m.digi))

	m.cfg.Weights.MixInto(m.out, m.cdSamples, m.digi, cdvol)
	if err := m.sink.Write(ctx, m.out); err != nil {
		return fmt.Errorf("mixer: sink: %w", err)
	}
	return nil
}

func (m *Mixer) readCD(ctx context.Context) error {
	if m.cd == nil {
		clear(m.cdBytes)
		return nil
	}
	err := m.cd.ReadPCM(ctx, m.cdBytes)
	if errors.Is(err, ringbuf.ErrClosed) {
		// the stream went away during shutdown
		clear(m.cdBytes)
		return nil
	}
	return err
}

// Run steps until ctx is done or a step fails. Cancellation is not an
// error.
func (m *Mixer) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if m.cfg.Pace {
		t := time.NewTicker(m.Period())
		defer t.Stop()
		tick = t.C
	}
	m.log.WithFields(logrus.Fields{"chunk": m.cfg.ChunkBytes, "period": m.Period()}).Info("mixer running")

	for {
		if err := m.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if tick == nil {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
		}
	}
}

// Render runs n steps without pacing, for offline output.
func (m *Mixer) Render(ctx context.Context, n int) error {
	for range n {
		if err := m.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}
