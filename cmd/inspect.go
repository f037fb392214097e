package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rabidaudio/cuestream/cd"
	"github.com/rabidaudio/cuestream/cue"
	"github.com/rabidaudio/cuestream/datatrack"
	"github.com/spf13/cobra"
)

// inspectCmd prints the track table of the disc image
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the track table",
	Long: `Parse the cue sheet, print every track with its offset and length, and list
the ISO9660 filesystem found on each data track.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path, sheet, err := cue.Load(cfg.BaseDir, cfg.Cue.File, cfg.Cue.Patterns)
		if err != nil {
			return err
		}
		info, err := os.Stat(sheet.Image)
		if err != nil {
			return fmt.Errorf("%w: %w", cue.ErrNoImage, err)
		}
		table := sheet.Table(info.Size())
		printTable(cmd.OutOrStdout(), path, sheet, &table)

		for _, tr := range table.Tracks() {
			if tr.Kind != cd.KindOther {
				continue
			}
			dt, err := datatrack.Inspect(sheet.Image, tr)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "\ntrack %02d: %v\n", tr.Index, err)
				continue
			}
			printDataTrack(cmd.OutOrStdout(), dt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func printTable(w io.Writer, path string, sheet *cue.Sheet, table *cd.Table) {
	fmt.Fprintf(w, "Cue sheet: %s\n", path)
	fmt.Fprintf(w, "Image:     %s (%d bytes)\n", sheet.Image, table.ImageSize())
	if sheet.Title != "" || sheet.Performer != "" {
		fmt.Fprintf(w, "Disc:      %s / %s\n", sheet.Title, sheet.Performer)
	}
	if sheet.FileCount > 1 {
		fmt.Fprintf(w, "Warning:   %d FILE lines, only the last is used\n", sheet.FileCount)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-5s %-5s %12s %12s %-8s  %s\n", "TRACK", "KIND", "OFFSET", "LENGTH", "TIME", "TITLE")
	for _, tr := range table.Tracks() {
		fmt.Fprintf(w, "%-5d %-5v %12d %12d %-8s  %s\n",
			tr.Index, tr.Kind, tr.OffsetBytes, tr.LengthBytes, tr.Duration(), tr.Title)
	}
}

func printDataTrack(w io.Writer, dt *datatrack.Info) {
	fmt.Fprintf(w, "\ntrack %02d: ISO9660 volume %q\n", dt.Track, dt.Label)
	for _, e := range dt.Entries {
		if e.Dir {
			fmt.Fprintf(w, "  %s/\n", e.Name)
		} else {
			fmt.Fprintf(w, "  %-24s %10d\n", e.Name, e.Size)
		}
	}
}
