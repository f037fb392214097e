package cd

// Table is the fixed-capacity track table of one disc image. Slot i holds
// cue sheet track i; slot 0 is conventionally unused. A Table is built once
// and never modified afterwards, so it can be shared by value.
type Table struct {
	slots     [MaxTracks]Track
	imageSize int64
}

// NewTable computes the length of every populated slot and returns the
// finished table. Offsets and kinds are taken from slots as parsed; the
// length of a track runs up to the next populated slot, and the last
// populated slot runs to the end of the image.
//
// Offsets are expected in non-decreasing order. A track whose successor
// starts before it gets a length of zero.
func NewTable(slots [MaxTracks]Track, imageSize int64) Table {
	t := Table{slots: slots, imageSize: imageSize}
	for i := range t.slots {
		if !t.slots[i].Used() {
			continue
		}
		t.slots[i].Index = i
		end := imageSize
		for j := i + 1; j < MaxTracks; j++ {
			if t.slots[j].Used() {
				end = t.slots[j].OffsetBytes
				break
			}
		}
		t.slots[i].LengthBytes = max(end-t.slots[i].OffsetBytes, 0)
	}
	return t
}

// At returns the track in slot i. Out of range indexes report an unused
// slot rather than panicking, since play requests are not validated.
func (t *Table) At(i int) Track {
	if i < 0 || i >= MaxTracks {
		return Track{Index: i}
	}
	return t.slots[i]
}

// ImageSize is the total size of the binary image in bytes.
func (t *Table) ImageSize() int64 {
	return t.imageSize
}

// Tracks returns the populated slots in ascending index order.
func (t *Table) Tracks() []Track {
	var tracks []Track
	for _, tr := range t.slots {
		if tr.Used() {
			tracks = append(tracks, tr)
		}
	}
	return tracks
}

// Count returns the number of populated slots.
func (t *Table) Count() int {
	n := 0
	for _, tr := range t.slots {
		if tr.Used() {
			n++
		}
	}
	return n
}

// AudioTracks returns the populated audio slots in ascending index order.
func (t *Table) AudioTracks() []Track {
	var tracks []Track
	for _, tr := range t.slots {
		if tr.Kind == KindAudio {
			tracks = append(tracks, tr)
		}
	}
	return tracks
}
