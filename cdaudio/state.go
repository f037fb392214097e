package cdaudio

import (
	"fmt"
	"sync"
)

// RunState is what the reader does on its next chunk.
type RunState int

const (
	Stopped       RunState = iota // emit silence
	Playing                       // read from the current image position
	StartingTrack                 // seek to the current track, then play
	ShuttingDown                  // reader exits; terminal
)

func (s RunState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case StartingTrack:
		return "starting"
	case ShuttingDown:
		return "shutting down"
	default:
		return fmt.Sprintf("RunState(%d)", int(s))
	}
}

// State is the playback intent shared by the command callers and the
// reader. It is only ever read or written as a whole under Controller.mtx.
type State struct {
	Run     RunState
	Track   int
	Looping bool
}

// Controller holds the playback state. Commands may be called from any
// goroutine. Every command is a no-op until the controller is enabled,
// which happens once an image is open, and after Shutdown.
type Controller struct {
	mtx     sync.Mutex
	state   State
	enabled bool
}

func (c *Controller) enable() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.enabled = true
}

// update applies fn to the state unless the controller is disabled or
// shutting down.
func (c *Controller) update(fn func(*State)) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if !c.enabled || c.state.Run == ShuttingDown {
		return
	}
	fn(&c.state)
}

// Play starts track from its beginning. The track number is not validated;
// an unused slot stops playback.
func (c *Controller) Play(track int, looping bool) {
	c.update(func(s *State) {
		s.Run = StartingTrack
		s.Track = track
		s.Looping = looping
	})
}

// Stop switches the reader to silence.
func (c *Controller) Stop() {
	c.update(func(s *State) { s.Run = Stopped })
}

// Pause is the same as Stop. No position is saved: Resume continues from
// wherever the reader's image position is.
func (c *Controller) Pause() {
	c.Stop()
}

// Resume continues reading the current track from the image position the
// reader left off at.
func (c *Controller) Resume() {
	c.update(func(s *State) { s.Run = Playing })
}

// Shutdown makes the reader exit on its next chunk. No command has any
// effect afterwards.
func (c *Controller) Shutdown() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.state.Run = ShuttingDown
}

// Snapshot returns a consistent copy of the state.
func (c *Controller) Snapshot() State {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.state
}
