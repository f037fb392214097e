package console

import (
	"strings"
	"testing"

	"github.com/nsf/termbox-go"
	"github.com/rabidaudio/cuestream/cd"
	"github.com/rabidaudio/cuestream/cdaudio"
	"github.com/rabidaudio/cuestream/mixer"
	"github.com/stretchr/testify/assert"
)

type fakePlayer struct {
	state cdaudio.State
	calls []string
}

func (p *fakePlayer) Play(track int, looping bool) {
	p.state = cdaudio.State{Run: cdaudio.StartingTrack, Track: track, Looping: looping}
	p.calls = append(p.calls, "play")
}
func (p *fakePlayer) Stop()   { p.state.Run = cdaudio.Stopped; p.calls = append(p.calls, "stop") }
func (p *fakePlayer) Pause()  { p.state.Run = cdaudio.Stopped; p.calls = append(p.calls, "pause") }
func (p *fakePlayer) Resume() { p.state.Run = cdaudio.Playing; p.calls = append(p.calls, "resume") }

func (p *fakePlayer) State() cdaudio.State { return p.state }

func (p *fakePlayer) Tracks() []cd.Track {
	return []cd.Track{
		{Index: 1, Kind: cd.KindOther, LengthBytes: 75 * cd.BytesPerFrame},
		{Index: 2, Kind: cd.KindAudio, LengthBytes: 150 * cd.BytesPerFrame, Title: "Aftermath"},
	}
}

func key(ch rune) termbox.Event {
	return termbox.Event{Type: termbox.EventKey, Ch: ch}
}

func TestKeyCommand(t *testing.T) {
	assert.Equal(t, Command{Action: PlayTrack, Track: 3}, KeyCommand(key('3')))
	assert.Equal(t, Command{Action: PlayTrack, Track: 10}, KeyCommand(key('0')))
	assert.Equal(t, Command{Action: Quit}, KeyCommand(key('q')))
	assert.Equal(t, Command{Action: Quit}, KeyCommand(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc}))
	assert.Equal(t, Command{Action: TogglePause}, KeyCommand(termbox.Event{Type: termbox.EventKey, Key: termbox.KeySpace}))
	assert.Equal(t, Command{Action: CDVolumeDown}, KeyCommand(key('[')))
	assert.Equal(t, Command{}, KeyCommand(key('z')))
	assert.Equal(t, Command{}, KeyCommand(termbox.Event{Type: termbox.EventResize}))
}

func TestApply(t *testing.T) {
	p := &fakePlayer{}
	levels := mixer.NewLevels(0.5, 1)
	c := New(p, levels)

	assert.True(t, c.Apply(Command{Action: ToggleLoop}))
	c.Apply(Command{Action: PlayTrack, Track: 2})
	assert.Equal(t, cdaudio.State{Run: cdaudio.StartingTrack, Track: 2, Looping: true}, p.state)

	c.Apply(Command{Action: TogglePause})
	c.Apply(Command{Action: TogglePause})
	c.Apply(Command{Action: Next})
	assert.Equal(t, 3, p.state.Track)
	c.Apply(Command{Action: Prev})
	c.Apply(Command{Action: Prev})
	c.Apply(Command{Action: Prev})
	assert.Equal(t, 1, p.state.Track, "previous stops at track 1")
	c.Apply(Command{Action: Stop})
	assert.Equal(t, []string{"play", "pause", "resume", "play", "play", "play", "play", "stop"}, p.calls)

	c.Apply(Command{Action: VolumeUp})
	assert.InDelta(t, 0.55, levels.MainVolume(), 1e-9)
	c.Apply(Command{Action: CDVolumeUp})
	assert.Equal(t, 1.0, levels.CDVolume(), "clamped")

	assert.False(t, c.Apply(Command{Action: Quit}))
}

func TestLines(t *testing.T) {
	p := &fakePlayer{state: cdaudio.State{Run: cdaudio.Playing, Track: 2}}
	c := New(p, mixer.NewLevels(0.5, 1))
	screen := strings.Join(c.Lines(), "\n")
	assert.Contains(t, screen, "state playing")
	assert.Contains(t, screen, "volume  50%")
	assert.Contains(t, screen, "> 02 AUDIO 00:02:00  Aftermath")
	assert.Contains(t, screen, "  01 OTHER 00:01:00")
}
