package datatrack

import (
	"errors"
	"fmt"
	"io"

	"github.com/rabidaudio/cuestream/cd"
)

// UserDataSize is the payload of one cooked data sector.
const UserDataSize = 2048

const (
	mode1DataOffset = 16 // sync (12) + address (3) + mode (1)
	mode2DataOffset = 24 // XA form 1 adds an 8 byte subheader
	modeByte        = 15
)

// sectorReader presents the user data of a run of raw 2352 byte sectors
// as a flat stream of 2048 byte sectors.
type sectorReader struct {
	img     io.ReaderAt
	start   int64 // byte offset of the first raw sector
	sectors int64
	offset  int64 // position in cooked bytes
	raw     []byte
}

// NewReader returns a reader over the cooked user data of track, which
// must be a data track of img.
func NewReader(img io.ReaderAt, track cd.Track) (io.ReadSeeker, error) {
	if track.Kind != cd.KindOther {
		return nil, fmt.Errorf("%w: track %d is %v", ErrNotDataTrack, track.Index, track.Kind)
	}
	return &sectorReader{
		img:     img,
		start:   track.OffsetBytes,
		sectors: track.LengthBytes / cd.BytesPerFrame,
		raw:     make([]byte, cd.BytesPerFrame),
	}, nil
}

// Size is the cooked size of the track.
func (r *sectorReader) Size() int64 {
	return r.sectors * UserDataSize
}

func (r *sectorReader) Read(p []byte) (int, error) {
	if r.offset >= r.Size() {
		return 0, io.EOF
	}
	// a read never crosses a sector
	sector := r.offset / UserDataSize
	within := r.offset % UserDataSize

	if _, err := r.img.ReadAt(r.raw, r.start+sector*cd.BytesPerFrame); err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	data := r.raw[mode1DataOffset:]
	if r.raw[modeByte] == 2 {
		data = r.raw[mode2DataOffset:]
	}
	n := copy(p, data[within:UserDataSize])
	r.offset += int64(n)
	return n, nil
}

func (r *sectorReader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += r.offset
	case io.SeekEnd:
		offset += r.Size()
	default:
		return 0, fmt.Errorf("datatrack: bad whence %d", whence)
	}
	if offset < 0 {
		return 0, fmt.Errorf("datatrack: negative position %d", offset)
	}
	r.offset = offset
	return offset, nil
}

// ensure interface conformation
var _ io.ReadSeeker = (*sectorReader)(nil)
