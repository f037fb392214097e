package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rabidaudio/cuestream/cd"
	"github.com/rabidaudio/cuestream/cdaudio"
	"github.com/rabidaudio/cuestream/config"
	"github.com/rabidaudio/cuestream/logger"
	"github.com/rabidaudio/cuestream/mixer"
	"github.com/rabidaudio/cuestream/pcm"
	"github.com/rabidaudio/cuestream/sink"
	"github.com/sirupsen/logrus"
)

// outputSink is a mixer sink that has to be closed.
type outputSink interface {
	mixer.Sink
	io.Closer
}

// pipeline is the reader, the mixer and the sink wired together.
type pipeline struct {
	sys    *cdaudio.System
	mix    *mixer.Mixer
	levels *mixer.Levels
	out    outputSink
	log    *logrus.Entry
}

// newPipeline starts the reader, playing track from the start if it is
// positive, and builds the mixer around it.
func newPipeline(cfg *config.Config, out outputSink, pace bool, track int, loop bool) (*pipeline, error) {
	log := logger.WithComponent("cmd")

	sys := cdaudio.New(cdaudio.Options{
		CueFile:     cfg.Cue.File,
		Patterns:    cfg.Cue.Patterns,
		Capacity:    cfg.Stream.Capacity,
		SendTimeout: cfg.Stream.SendTimeout,
		Logger:      logger.WithComponent("cdaudio"),
		StartTrack:  track,
		StartLoop:   loop,
	})
	if !sys.Init(cfg.BaseDir) {
		log.WithField("basedir", cfg.BaseDir).Warn("no playable disc image, mixing silence")
	}

	var feeder mixer.Feeder
	if cfg.Digi.File != "" {
		samples, rate, err := pcm.LoadWAV(cfg.Digi.File)
		if err != nil {
			return nil, fmt.Errorf("digitized audio: %w", err)
		}
		if rate != cd.SampleRate {
			log.WithField("rate", rate).Warn("digitized audio is not 44100 Hz, it will play at the wrong speed")
		}
		feeder = pcm.NewLoop(samples)
	}

	levels := mixer.NewLevels(cfg.Mixer.MainVolume, cfg.Mixer.CDVolume)
	mix, err := mixer.New(mixer.Config{
		ChunkBytes: cfg.Mixer.ChunkBytes,
		Weights:    mixer.Weights{CD: cfg.Mixer.CDWeight, Digi: cfg.Mixer.DigiWeight},
		Pace:       pace,
	}, sys, mixer.NewRegion(cfg.Mixer.DMABytes/cd.BytesPerSample), feeder, levels, out, logger.WithComponent("mixer"))
	if err != nil {
		sys.Shutdown()
		return nil, err
	}
	return &pipeline{sys: sys, mix: mix, levels: levels, out: out, log: log}, nil
}

// openSink creates the sink named in the configuration.
func openSink(cfg *config.Config) (outputSink, bool, error) {
	switch cfg.Sink.Kind {
	case "speaker":
		s, err := sink.NewSpeaker(cfg.Sink.Buffer, logger.WithComponent("speaker"))
		return s, cfg.Mixer.Pace, err
	case "wav":
		s, err := sink.CreateWAV(cfg.Sink.Path)
		return s, cfg.Mixer.Pace, err
	default:
		// nothing slows the mixer down otherwise
		return &sink.Discard{}, true, nil
	}
}

// close shuts the reader down while the mixer may still be draining it,
// then waits for the mixer via stop and closes the sink.
func (p *pipeline) close(stop func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.sys.ShutdownContext(ctx); err != nil {
		p.log.WithError(err).Warn("reader shutdown")
	}
	err := stop()
	if cerr := p.out.Close(); err == nil {
		err = cerr
	}
	return err
}

// drain reads and drops the stream until the reader has shut down.
func (p *pipeline) drain(ctx context.Context) {
	buf := make([]byte, cd.BytesPerFrame)
	for p.sys.Enabled() {
		if err := p.sys.ReadPCM(ctx, buf); err != nil {
			return
		}
	}
}
