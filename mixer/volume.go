package mixer

import (
	"math"
	"sync/atomic"
)

// DefaultMainVolume is the main output volume before anyone sets it.
const DefaultMainVolume = 0.5

// Volume supplies the two volume inputs of the mixer, each in [0, 1].
type Volume interface {
	MainVolume() float64
	CDVolume() float64
}

// Levels is a Volume that can be changed from any goroutine.
type Levels struct {
	main atomic.Uint64
	cd   atomic.Uint64
}

// NewLevels returns levels set to main and cd.
func NewLevels(main, cd float64) *Levels {
	l := &Levels{}
	l.SetMain(main)
	l.SetCD(cd)
	return l
}

func (l *Levels) MainVolume() float64 { return math.Float64frombits(l.main.Load()) }
func (l *Levels) CDVolume() float64   { return math.Float64frombits(l.cd.Load()) }

// SetMain sets the main volume, clamped to [0, 1].
func (l *Levels) SetMain(v float64) { l.main.Store(math.Float64bits(clamp01(v))) }

// SetCD sets the CD mix volume, clamped to [0, 1].
func (l *Levels) SetCD(v float64) { l.cd.Store(math.Float64bits(clamp01(v))) }

// AddMain moves the main volume by delta.
func (l *Levels) AddMain(delta float64) { l.SetMain(l.MainVolume() + delta) }

// AddCD moves the CD mix volume by delta.
func (l *Levels) AddCD(delta float64) { l.SetCD(l.CDVolume() + delta) }

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

var _ Volume = (*Levels)(nil)
