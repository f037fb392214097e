// Package pcm converts between raw CD audio bytes and int16 samples and
// loads digitized audio from WAV files.
package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
	"github.com/rabidaudio/cuestream/cd"
)

// ErrFormat is returned for WAV files that are not 16-bit PCM.
var ErrFormat = errors.New("pcm: unsupported wav format")

// Decode converts little-endian 16-bit samples in p into dst. It converts
// min(len(dst), len(p)/2) samples.
func Decode(dst []int16, p []byte) {
	n := min(len(dst), len(p)/cd.BytesPerSample)
	for i := range n {
		dst[i] = int16(binary.LittleEndian.Uint16(p[i*cd.BytesPerSample:]))
	}
}

// Encode is the inverse of Decode.
func Encode(dst []byte, s []int16) {
	n := min(len(s), len(dst)/cd.BytesPerSample)
	for i := range n {
		binary.LittleEndian.PutUint16(dst[i*cd.BytesPerSample:], uint16(s[i]))
	}
}

// LoadWAV reads a 16-bit PCM WAV file into interleaved stereo samples.
// Mono files are duplicated onto both channels. The sample rate is
// returned but not converted.
func LoadWAV(path string) (samples []int16, sampleRate int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close() // read-only

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: %s is not a wav file", ErrFormat, path)
	}
	if dec.BitDepth != 16 {
		return nil, 0, fmt.Errorf("%w: %d bit samples", ErrFormat, dec.BitDepth)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("pcm: decode %s: %w", path, err)
	}

	switch chans := buf.Format.NumChannels; chans {
	case 2:
		samples = make([]int16, len(buf.Data))
		for i, v := range buf.Data {
			samples[i] = int16(v)
		}
	case 1:
		samples = make([]int16, 2*len(buf.Data))
		for i, v := range buf.Data {
			samples[2*i] = int16(v)
			samples[2*i+1] = int16(v)
		}
	default:
		return nil, 0, fmt.Errorf("%w: %d channels", ErrFormat, chans)
	}
	return samples, buf.Format.SampleRate, nil
}

// Loop plays a clip of samples over and over. The zero value is silent.
type Loop struct {
	samples []int16
	pos     int
}

// NewLoop returns a Loop over samples.
func NewLoop(samples []int16) *Loop {
	return &Loop{samples: samples}
}

// Next fills dst with the samples that follow the previous call.
func (l *Loop) Next(dst []int16) {
	if len(l.samples) == 0 {
		clear(dst)
		return
	}
	for n := 0; n < len(dst); {
		c := copy(dst[n:], l.samples[l.pos:])
		n += c
		l.pos = (l.pos + c) % len(l.samples)
	}
}
