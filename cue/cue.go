// Package cue reads the track layout of a single-file disc image from a
// cue sheet, e.g.
//
//	FILE "game.gog" BINARY
//	  TRACK 01 MODE1/2352
//	    INDEX 01 00:00:00
//	  TRACK 02 AUDIO
//	    PREGAP 00:02:00
//	    INDEX 01 13:20:14
//
// Parsing is best effort: lines that cannot be understood are skipped.
package cue

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/rabidaudio/cuestream/cd"
)

// Sheet is the parsed content of a cue sheet.
type Sheet struct {
	// Image is the path of the binary image, resolved against the base
	// directory the sheet was parsed with. Empty if there was no FILE line.
	Image     string
	ImageType string // e.g. BINARY
	// FileCount is the number of FILE lines seen. Only single-file sheets
	// are supported; with more than one, the last FILE line wins.
	FileCount int
	Title     string
	Performer string
	// Slots holds offsets and kinds indexed by track number. Lengths are
	// not known until the image size is, see Table.
	Slots [cd.MaxTracks]cd.Track
}

// Table combines the parsed offsets with the size of the image.
func (s *Sheet) Table(imageSize int64) cd.Table {
	return cd.NewTable(s.Slots, imageSize)
}

// Parse reads a cue sheet from r. INDEX, TITLE and PERFORMER lines apply to
// the most recent TRACK line; the FILE name is joined with baseDir.
// Track numbers beyond cd.MaxTracks are ignored. Only the first INDEX of a
// track sets its offset.
func Parse(r io.Reader, baseDir string) (*Sheet, error) {
	sheet := Sheet{}
	curTrack := -1
	curKind := cd.KindNone
	indexed := [cd.MaxTracks]bool{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		args := line[len(fields[0]):]
		switch strings.ToUpper(fields[0]) {
		case "FILE":
			name, rest := quoted(args)
			if name == "" {
				continue
			}
			sheet.Image = filepath.Join(NormalizeBase(baseDir), name)
			sheet.ImageType = strings.TrimSpace(rest)
			sheet.FileCount++

		case "TRACK":
			curTrack = -1
			if len(fields) < 2 {
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				continue
			}
			curTrack = n
			curKind = cd.KindOther
			if len(fields) > 2 && strings.Contains(strings.ToUpper(fields[2]), "AUDIO") {
				curKind = cd.KindAudio
			}

		case "INDEX":
			if len(fields) < 3 || curTrack < 0 || curTrack >= cd.MaxTracks || indexed[curTrack] {
				continue
			}
			frames := ParseTimecode(fields[2])
			if frames < 0 {
				continue
			}
			indexed[curTrack] = true
			sheet.Slots[curTrack].Index = curTrack
			sheet.Slots[curTrack].Kind = curKind
			sheet.Slots[curTrack].OffsetBytes = FramesToBytes(frames)

		case "TITLE", "PERFORMER":
			value, _ := quoted(args)
			setMeta(&sheet, curTrack, strings.ToUpper(fields[0]), value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cue: read: %w", err)
	}
	return &sheet, nil
}

func setMeta(sheet *Sheet, track int, key, value string) {
	if track >= cd.MaxTracks {
		return
	}
	if track < 0 {
		if key == "TITLE" {
			sheet.Title = value
		} else {
			sheet.Performer = value
		}
		return
	}
	if key == "TITLE" {
		sheet.Slots[track].Title = value
	} else {
		sheet.Slots[track].Performer = value
	}
}

// quoted splits `"some name" rest` into the quoted text and what follows
// it. Unquoted input is split at the first whitespace instead.
func quoted(s string) (value, rest string) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) {
		if end := strings.IndexByte(s[1:], '"'); end >= 0 {
			return s[1 : end+1], s[end+2:]
		}
		return s[1:], ""
	}
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// NormalizeBase strips one trailing path separator, '/' or '\', from dir.
func NormalizeBase(dir string) string {
	if len(dir) > 1 && (strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, `\`)) {
		return dir[:len(dir)-1]
	}
	return dir
}
