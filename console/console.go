// Package console is an interactive terminal front end for the CD audio
// system, standing in for the game engine that would normally drive it.
package console

import (
	"context"
	"fmt"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/rabidaudio/cuestream/cd"
	"github.com/rabidaudio/cuestream/cdaudio"
	"github.com/rabidaudio/cuestream/mixer"
)

// volumeStep is the change per key press of either volume.
const volumeStep = 0.05

// Player is the command surface the console drives.
type Player interface {
	Play(track int, looping bool)
	Stop()
	Pause()
	Resume()
	State() cdaudio.State
	Tracks() []cd.Track
}

// Console turns commands into player and volume changes.
type Console struct {
	player  Player
	levels  *mixer.Levels
	looping bool
	status  string
}

// New returns a console driving player and levels.
func New(player Player, levels *mixer.Levels) *Console {
	return &Console{player: player, levels: levels}
}

// Apply carries out cmd. It reports false when the console should exit.
func (c *Console) Apply(cmd Command) bool {
	st := c.player.State()
	switch cmd.Action {
	case Quit:
		return false
	case PlayTrack:
		c.player.Play(cmd.Track, c.looping)
		c.status = fmt.Sprintf("play %d", cmd.Track)
	case TogglePause:
		if st.Run == cdaudio.Playing || st.Run == cdaudio.StartingTrack {
			c.player.Pause()
			c.status = "paused"
		} else {
			c.player.Resume()
			c.status = "resumed"
		}
	case Stop:
		c.player.Stop()
		c.status = "stopped"
	case Next:
		c.player.Play(st.Track+1, c.looping)
		c.status = fmt.Sprintf("play %d", st.Track+1)
	case Prev:
		c.player.Play(max(st.Track-1, 1), c.looping)
		c.status = fmt.Sprintf("play %d", max(st.Track-1, 1))
	case ToggleLoop:
		c.looping = !c.looping
		c.status = fmt.Sprintf("looping %v, applies from the next play", c.looping)
	case VolumeUp:
		c.levels.AddMain(volumeStep)
	case VolumeDown:
		c.levels.AddMain(-volumeStep)
	case CDVolumeUp:
		c.levels.AddCD(volumeStep)
	case CDVolumeDown:
		c.levels.AddCD(-volumeStep)
	}
	return true
}

// Lines renders the console screen as text.
func (c *Console) Lines() []string {
	st := c.player.State()
	lines := []string{
		fmt.Sprintf("state %-14v track %-3d looping %v", st.Run, st.Track, st.Looping),
		fmt.Sprintf("volume %3.0f%%   cd volume %3.0f%%   next play loops: %v",
			c.levels.MainVolume()*100, c.levels.CDVolume()*100, c.looping),
		"",
	}
	for _, tr := range c.player.Tracks() {
		mark := " "
		if tr.Index == st.Track && st.Run != cdaudio.Stopped {
			mark = ">"
		}
		line := fmt.Sprintf("%s %02d %-5v %s", mark, tr.Index, tr.Kind, tr.Duration())
		if tr.Title != "" {
			line += "  " + tr.Title
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")
	lines = append(lines, help...)
	if c.status != "" {
		lines = append(lines, "", c.status)
	}
	return lines
}

// Run takes over the terminal until the quit key is pressed or ctx is done.
func Run(ctx context.Context, player Player, levels *mixer.Levels) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	defer termbox.Close()

	c := New(player, levels)
	events := make(chan termbox.Event)
	go func() {
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt {
				close(events)
				return
			}
			events <- ev
		}
	}()
	defer func() {
		termbox.Interrupt()
		for range events {
		}
	}()

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		draw(c.Lines())
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		case ev := <-events:
			if ev.Type == termbox.EventError {
				return fmt.Errorf("console: %w", ev.Err)
			}
			if !c.Apply(KeyCommand(ev)) {
				return nil
			}
		}
	}
}

func draw(lines []string) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for y, line := range lines {
		for x, r := range []rune(line) {
			termbox.SetCell(x, y, r, termbox.ColorDefault, termbox.ColorDefault)
		}
	}
	termbox.Flush()
}
