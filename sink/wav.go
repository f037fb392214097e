package sink

import (
	"context"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rabidaudio/cuestream/cd"
)

// WAVFile records mixed samples to a 16-bit stereo WAV file. The main
// volume is applied to the samples as they are written.
type WAVFile struct {
	f       *os.File
	enc     *wav.Encoder
	percent int
	buf     *audio.IntBuffer
	frames  int
}

// CreateWAV creates or truncates the file at path.
func CreateWAV(path string) (*WAVFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sink: %w", err)
	}
	return &WAVFile{
		f:       f,
		enc:     wav.NewEncoder(f, cd.SampleRate, 8*cd.BytesPerSample, cd.Channels, 1),
		percent: 100,
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: cd.Channels, SampleRate: cd.SampleRate},
			SourceBitDepth: 8 * cd.BytesPerSample,
		},
	}, nil
}

func (w *WAVFile) Write(_ context.Context, samples []int16) error {
	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = int(s) * w.percent / 100
	}
	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("sink: wav: %w", err)
	}
	w.frames += len(samples) / cd.Channels
	return nil
}

func (w *WAVFile) SetVolume(percent int) error {
	w.percent = min(max(percent, 0), 100)
	return nil
}

// Frames returns the number of stereo sample pairs written.
func (w *WAVFile) Frames() int {
	return w.frames
}

// Close finishes the WAV header and closes the file.
func (w *WAVFile) Close() error {
	if err := w.enc.Close(); err != nil {
		w.f.Close()
		return fmt.Errorf("sink: wav: %w", err)
	}
	return w.f.Close()
}
