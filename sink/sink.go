// Package sink has the outputs the mixer can write to: the audio device,
// a WAV recording, or nowhere.
package sink

import (
	"context"

	"github.com/rabidaudio/cuestream/logger"
	"github.com/sirupsen/logrus"
)

// Discard drops samples, counting them.
type Discard struct {
	Samples int
	Volume  int
}

func (d *Discard) Write(_ context.Context, samples []int16) error {
	d.Samples += len(samples)
	return nil
}

func (d *Discard) SetVolume(percent int) error {
	d.Volume = percent
	return nil
}

func (d *Discard) Close() error {
	return nil
}

func orDiscard(log *logrus.Entry) *logrus.Entry {
	if log != nil {
		return log
	}
	return logger.Discard()
}
