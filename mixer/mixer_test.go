package mixer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabidaudio/cuestream/pcm"
	"github.com/rabidaudio/cuestream/ringbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failIfErr(t *testing.T, err error) {
	if err != nil {
		t.Fatal(err)
	}
}

func TestMix(t *testing.T) {
	assert.Equal(t, int16(1247), Mix(1000, 2000, 255))
	assert.Equal(t, int16(500), Mix(0, 2000, 255))
	assert.Equal(t, int16(0), Mix(1000, 0, 0))
	assert.Equal(t, int16(-1247), Mix(-1000, -2000, 255), "truncates toward zero")
	assert.Equal(t, int16(750), Weights{CD: 1, Digi: 1}.Mix(1000, 500, 256))
}

func TestMixWraps(t *testing.T) {
	// a cdvol past 255 overdrives the CD sample and the sum wraps
	assert.Equal(t, int16(-8194), Mix(32767, 32767, 512))
}

func TestRegion(t *testing.T) {
	r := NewRegion(8)
	r.Write([]int16{1, 2, 3, 4, 5, 6})
	assert.Equal(t, 0, r.Position())

	w := make([]int16, 4)
	r.Window(w)
	assert.Equal(t, []int16{1, 2, 3, 4}, w)
	r.Advance(4)
	r.Advance(2)
	assert.Equal(t, 6, r.Position())

	r.Write([]int16{7, 8, 9, 10})
	r.Window(w)
	assert.Equal(t, []int16{7, 8, 9, 10}, w, "window wraps")
	r.Advance(4)
	assert.Equal(t, 2, r.Position(), "cursor is modulo the region size")
}

func TestLevels(t *testing.T) {
	l := NewLevels(DefaultMainVolume, 1)
	assert.Equal(t, 0.5, l.MainVolume())
	l.AddMain(0.75)
	assert.Equal(t, 1.0, l.MainVolume())
	l.AddCD(-2)
	assert.Equal(t, 0.0, l.CDVolume())
}

type constSource struct {
	sample int16
	reads  int
	err    error
}

func (s *constSource) ReadPCM(_ context.Context, p []byte) error {
	s.reads++
	if s.err != nil {
		return s.err
	}
	samples := make([]int16, len(p)/2)
	for i := range samples {
		samples[i] = s.sample
	}
	pcm.Encode(p, samples)
	return nil
}

type recorder struct {
	samples []int16
	volumes []int
	err     error
}

func (r *recorder) Write(_ context.Context, samples []int16) error {
	if r.err != nil {
		return r.err
	}
	r.samples = append(r.samples, samples...)
	return nil
}

func (r *recorder) SetVolume(percent int) error {
	r.volumes = append(r.volumes, percent)
	return nil
}

func newTestMixer(t *testing.T, src CDSource, feeder Feeder, vol Volume, out Sink) *Mixer {
	m, err := New(Config{ChunkBytes: 16}, src, NewRegion(16), feeder, vol, out, nil)
	failIfErr(t, err)
	return m
}

func TestStep(t *testing.T) {
	src := &constSource{sample: 1000}
	out := &recorder{}
	m := newTestMixer(t, src, pcm.NewLoop([]int16{2000}), NewLevels(0.5, 1), out)

	failIfErr(t, m.Step(context.Background()))
	require.Len(t, out.samples, 8)
	for _, s := range out.samples {
		assert.Equal(t, int16(1247), s)
	}
	assert.Equal(t, 1, src.reads)
}

func TestVolumeAppliedOnChange(t *testing.T) {
	vol := NewLevels(0.5, 1)
	out := &recorder{}
	m := newTestMixer(t, &constSource{}, nil, vol, out)

	ctx := context.Background()
	failIfErr(t, m.Step(ctx))
	failIfErr(t, m.Step(ctx))
	vol.SetMain(0.8)
	failIfErr(t, m.Step(ctx))
	failIfErr(t, m.Step(ctx))
	assert.Equal(t, []int{50, 80}, out.volumes)
}

func TestStepWithoutSource(t *testing.T) {
	out := &recorder{}
	m := newTestMixer(t, nil, pcm.NewLoop([]int16{800}), NewLevels(1, 1), out)
	failIfErr(t, m.Step(context.Background()))
	assert.Equal(t, int16(200), out.samples[0], "silence mixed with digitized audio")
}

func TestStepClosedStream(t *testing.T) {
	out := &recorder{}
	m := newTestMixer(t, &constSource{err: ringbuf.ErrClosed}, nil, NewLevels(1, 1), out)
	failIfErr(t, m.Step(context.Background()))
	assert.Equal(t, make([]int16, 8), out.samples)
}

func TestStepSinkFailure(t *testing.T) {
	boom := errors.New("boom")
	m := newTestMixer(t, &constSource{}, nil, NewLevels(1, 1), &recorder{err: boom})
	assert.ErrorIs(t, m.Step(context.Background()), boom)
}

func TestRun(t *testing.T) {
	out := &recorder{}
	m := newTestMixer(t, &constSource{sample: 32}, nil, NewLevels(1, 1), out)
	assert.Equal(t, 4*time.Second/44100, m.Period())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	failIfErr(t, m.Run(ctx))
	assert.Len(t, out.samples, 8, "one step before noticing cancellation")

	failIfErr(t, m.Render(context.Background(), 3))
	assert.Len(t, out.samples, 32)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{ChunkBytes: 6}, nil, NewRegion(4), nil, NewLevels(1, 1), &recorder{}, nil)
	assert.Error(t, err)
	_, err = New(Config{ChunkBytes: 8, Weights: Weights{CD: -1, Digi: 1}}, nil, NewRegion(4), nil, NewLevels(1, 1), &recorder{}, nil)
	assert.Error(t, err)
}
