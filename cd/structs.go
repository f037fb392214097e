package cd

import "fmt"

// Kind classifies a slot of the track table.
type Kind uint8

const (
	KindNone  Kind = iota // slot not described by the cue sheet
	KindAudio             // raw PCM audio
	KindOther             // data, e.g. MODE1/2352
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NONE"
	case KindAudio:
		return "AUDIO"
	case KindOther:
		return "OTHER"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Track is one logical track of a disc image.
type Track struct {
	Index       int   // track number from the cue sheet
	Kind        Kind
	OffsetBytes int64 // start of the track within the image
	LengthBytes int64 // distance to the next populated track, or to the end of the image
	Title       string
	Performer   string
}

// Used reports whether the slot holds a track.
func (t Track) Used() bool {
	return t.Kind != KindNone
}

// End returns the byte offset one past the last byte of the track.
func (t Track) End() int64 {
	return t.OffsetBytes + t.LengthBytes
}

// Duration formats the track length as MM:SS:FF.
func (t Track) Duration() string {
	return Timecode(t.LengthBytes / BytesPerFrame)
}

// Timecode formats a frame count as MM:SS:FF.
func Timecode(frames int64) string {
	ff := frames % FramesPerSecond
	secs := frames / FramesPerSecond
	return fmt.Sprintf("%02d:%02d:%02d", secs/60, secs%60, ff)
}
