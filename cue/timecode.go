package cue

import (
	"strings"

	"github.com/rabidaudio/cuestream/cd"
)

// InvalidTimecode is returned by ParseTimecode when the input lacks
// either of its two ':' separators.
const InvalidTimecode = -1

// ParseTimecode converts an MM:SS:FF timecode into a frame count,
// 75*(MM*60+SS)+FF. Each field is read like C atoi: leading digits are
// used and anything after them is ignored, so "00:02:00 junk" parses.
func ParseTimecode(s string) int64 {
	mm, rest, ok := strings.Cut(s, ":")
	if !ok {
		return InvalidTimecode
	}
	ss, ff, ok := strings.Cut(rest, ":")
	if !ok {
		return InvalidTimecode
	}
	return cd.FramesPerSecond*(atoi(mm)*60+atoi(ss)) + atoi(ff)
}

// FramesToBytes returns the byte offset of a frame within a raw image.
func FramesToBytes(frames int64) int64 {
	return frames * cd.BytesPerFrame
}

// atoi parses an optionally signed run of leading digits, after leading
// whitespace, and returns 0 when there is none.
func atoi(s string) int64 {
	s = strings.TrimLeft(s, " \t")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var n int64
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		return -n
	}
	return n
}
