package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rabidaudio/cuestream/sink"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	renderDuration time.Duration
	renderLoop     bool
)

// renderCmd mixes a track into a WAV file
var renderCmd = &cobra.Command{
	Use:   "render <track> <out.wav>",
	Short: "Mix a track into a WAV file",
	Long: `Play a track through the reader and mixer as fast as they go and record the
mixed output as a 44.1kHz 16-bit stereo WAV file.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		track, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad track %q: %w", args[0], err)
		}
		if renderDuration <= 0 {
			return fmt.Errorf("--duration must be positive")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out, err := sink.CreateWAV(args[1])
		if err != nil {
			return err
		}
		p, err := newPipeline(cfg, out, false, track, renderLoop)
		if err != nil {
			out.Close()
			return err
		}

		steps := int(renderDuration / p.mix.Period())
		renderErr := p.mix.Render(cmd.Context(), steps)

		// nothing consumes the stream once the mixer is done
		drainCtx, stopDrain := context.WithCancel(context.Background())
		defer stopDrain()
		go p.drain(drainCtx)

		if err := p.close(func() error { return renderErr }); err != nil {
			return err
		}
		p.log.WithFields(logrus.Fields{
			"file":    args[1],
			"seconds": float64(out.Frames()) / float64(sink.Format.SampleRate),
		}).Info("rendered")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().DurationVar(&renderDuration, "duration", 30*time.Second, "length of audio to render")
	renderCmd.Flags().BoolVarP(&renderLoop, "loop", "l", false, "loop the track")
}
