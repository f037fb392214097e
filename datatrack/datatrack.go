// Package datatrack looks inside the data tracks of a raw disc image.
package datatrack

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/diskfs/go-diskfs"
	"github.com/rabidaudio/cuestream/cd"
)

// ErrNotDataTrack is returned when asked to inspect an audio or unused
// track.
var ErrNotDataTrack = errors.New("datatrack: not a data track")

// Entry is one file or directory in the root of a data track.
type Entry struct {
	Name string
	Size int64
	Dir  bool
}

// Info describes the filesystem on a data track.
type Info struct {
	Track   int
	Label   string
	Entries []Entry
}

// Inspect reads the ISO9660 filesystem of a MODE1/2352 track of the image
// at path. The track is cooked into a temporary ISO file for go-diskfs.
func Inspect(path string, track cd.Track) (info *Info, err error) {
	img, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer img.Close() // read-only

	r, err := NewReader(img, track)
	if err != nil {
		return nil, err
	}

	tmpdir, err := os.MkdirTemp("", "datatrack")
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpdir); err == nil {
			err = rerr
		}
	}()

	iso := filepath.Join(tmpdir, "track.iso")
	if err := cook(iso, r); err != nil {
		return nil, err
	}

	dsk, err := diskfs.Open(iso, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, fmt.Errorf("datatrack: open %s: %w", iso, err)
	}
	defer dsk.Close()

	fs, err := dsk.GetFilesystem(0) // whole disk, no partition table
	if err != nil {
		return nil, fmt.Errorf("datatrack: track %d: %w", track.Index, err)
	}
	entries, err := fs.ReadDir("/")
	if err != nil {
		return nil, fmt.Errorf("datatrack: track %d: read root: %w", track.Index, err)
	}

	info = &Info{Track: track.Index, Label: strings.TrimSpace(fs.Label())}
	for _, e := range entries {
		info.Entries = append(info.Entries, Entry{Name: e.Name(), Size: e.Size(), Dir: e.IsDir()})
	}
	slices.SortFunc(info.Entries, func(a, b Entry) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return info, nil
}

func cook(dst string, r io.Reader) (err error) {
	w, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if c := w.Close(); err == nil {
			err = c
		}
	}()

	_, err = io.Copy(w, r)
	return err
}
