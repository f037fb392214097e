package cd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesPerFrame(t *testing.T) {
	assert.Equal(t, 2352, BytesPerFrame)
	assert.Equal(t, 4, BytesPerStereoSample)
}

func TestNewTableLengths(t *testing.T) {
	var slots [MaxTracks]Track
	slots[1] = Track{Kind: KindOther, OffsetBytes: 0}
	slots[2] = Track{Kind: KindAudio, OffsetBytes: 10000}
	slots[3] = Track{Kind: KindAudio, OffsetBytes: 25000}

	table := NewTable(slots, 40000)

	assert.Equal(t, int64(10000), table.At(1).LengthBytes)
	assert.Equal(t, int64(15000), table.At(2).LengthBytes)
	assert.Equal(t, int64(15000), table.At(3).LengthBytes)
	assert.Equal(t, int64(40000), table.ImageSize())
	assert.Equal(t, 3, table.Count())
	assert.Equal(t, int64(25000), table.At(2).End())
}

func TestNewTableSkipsGaps(t *testing.T) {
	var slots [MaxTracks]Track
	slots[1] = Track{Kind: KindAudio, OffsetBytes: 0}
	slots[4] = Track{Kind: KindAudio, OffsetBytes: 7056}

	table := NewTable(slots, 9408)

	assert.Equal(t, int64(7056), table.At(1).LengthBytes, "length runs to the next populated slot")
	assert.Equal(t, int64(2352), table.At(4).LengthBytes)
	assert.False(t, table.At(2).Used())
	assert.Equal(t, int64(0), table.At(2).LengthBytes)
}

func TestNewTableLastSlot(t *testing.T) {
	var slots [MaxTracks]Track
	slots[MaxTracks-1] = Track{Kind: KindAudio, OffsetBytes: 100}

	table := NewTable(slots, 1000)
	assert.Equal(t, int64(900), table.At(MaxTracks-1).LengthBytes)
}

func TestNewTableNeverNegative(t *testing.T) {
	var slots [MaxTracks]Track
	slots[1] = Track{Kind: KindAudio, OffsetBytes: 5000}
	slots[2] = Track{Kind: KindAudio, OffsetBytes: 1000}

	table := NewTable(slots, 3000)
	assert.Equal(t, int64(0), table.At(1).LengthBytes)
	assert.Equal(t, int64(2000), table.At(2).LengthBytes)
}

func TestTableAtOutOfRange(t *testing.T) {
	table := NewTable([MaxTracks]Track{}, 0)
	assert.Equal(t, KindNone, table.At(-1).Kind)
	assert.Equal(t, KindNone, table.At(MaxTracks).Kind)
	assert.Equal(t, KindNone, table.At(255).Kind)
	assert.Empty(t, table.Tracks())
}

func TestTableTracks(t *testing.T) {
	var slots [MaxTracks]Track
	slots[1] = Track{Kind: KindOther}
	slots[2] = Track{Kind: KindAudio, OffsetBytes: 2352}
	slots[3] = Track{Kind: KindAudio, OffsetBytes: 4704}
	table := NewTable(slots, 7056)

	tracks := table.Tracks()
	assert.Len(t, tracks, 3)
	assert.Equal(t, 1, tracks[0].Index)
	assert.Equal(t, 3, tracks[2].Index)

	audio := table.AudioTracks()
	assert.Len(t, audio, 2)
	assert.Equal(t, 2, audio[0].Index)
}

func TestTimecode(t *testing.T) {
	assert.Equal(t, "00:00:00", Timecode(0))
	assert.Equal(t, "01:30:10", Timecode(6760))
	assert.Equal(t, "13:20:14", Timecode(60014))

	tr := Track{LengthBytes: 6760 * BytesPerFrame}
	assert.Equal(t, "01:30:10", tr.Duration())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "AUDIO", KindAudio.String())
	assert.Equal(t, "OTHER", KindOther.String())
	assert.Equal(t, "NONE", KindNone.String())
}
