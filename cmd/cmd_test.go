package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rabidaudio/cuestream/cd"
	"github.com/rabidaudio/cuestream/cue"
	"github.com/rabidaudio/cuestream/datatrack"
	"github.com/rabidaudio/cuestream/pcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failIfErr(t *testing.T, err error) {
	if err != nil {
		t.Fatal(err)
	}
}

func writeDisc(t *testing.T) string {
	dir := t.TempDir()
	sheet := `TITLE "Test Disc"
FILE "disc.bin" BINARY
  TRACK 01 AUDIO
    TITLE "Intro"
    INDEX 01 00:00:00
  TRACK 02 AUDIO
    INDEX 01 00:00:02
`
	failIfErr(t, os.WriteFile(filepath.Join(dir, "disc.cue"), []byte(sheet), 0o644))
	failIfErr(t, os.WriteFile(filepath.Join(dir, "disc.bin"), bytes.Repeat([]byte{0x11}, 4*cd.BytesPerFrame), 0o644))
	return dir
}

func TestPrintTable(t *testing.T) {
	dir := writeDisc(t)
	path, sheet, err := cue.Load(dir, "", cue.DefaultPatterns)
	failIfErr(t, err)
	table := sheet.Table(4 * cd.BytesPerFrame)

	var out bytes.Buffer
	printTable(&out, path, sheet, &table)
	assert.Contains(t, out.String(), "Disc:      Test Disc / ")
	assert.Contains(t, out.String(), "1     AUDIO            0         4704 00:00:02  Intro")
	assert.Contains(t, out.String(), "2     AUDIO         4704         4704 00:00:02")
}

func TestPrintDataTrack(t *testing.T) {
	var out bytes.Buffer
	printDataTrack(&out, &datatrack.Info{
		Track:   1,
		Label:   "GAMEDATA",
		Entries: []datatrack.Entry{{Name: "MAPS", Dir: true}, {Name: "README.TXT", Size: 5}},
	})
	assert.Equal(t, "\ntrack 01: ISO9660 volume \"GAMEDATA\"\n  MAPS/\n  README.TXT                        5\n", out.String())
}

func TestRender(t *testing.T) {
	dir := writeDisc(t)
	wav := filepath.Join(t.TempDir(), "out.wav")

	rootCmd.SetArgs([]string{"render", "1", wav, "--basedir", dir, "--duration", "100ms"})
	require.NoError(t, rootCmd.Execute())

	samples, rate, err := pcm.LoadWAV(wav)
	failIfErr(t, err)
	assert.Equal(t, 44100, rate)
	// 8 whole mixer periods of 512 stereo samples fit in 100ms
	assert.Len(t, samples, 8*1024)
	// 0x1111 at cd volume 255/256, weight 24/32 and main volume 50%
	assert.Equal(t, int16(1631), samples[0])
}
