package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rabidaudio/cuestream/console"
	"github.com/rabidaudio/cuestream/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	playLoop      bool
	playNoConsole bool
)

// playCmd plays the disc through the configured sink
var playCmd = &cobra.Command{
	Use:   "play [track]",
	Short: "Play the disc image",
	Long: `Play the disc image through the configured sink. With a terminal attached an
interactive console drives playback; with --no-console the given track is
played until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolVarP(&playLoop, "loop", "l", false, "loop the track")
	playCmd.Flags().BoolVar(&playNoConsole, "no-console", false, "play without the interactive console")
}

func runPlay(cmd *cobra.Command, args []string) error {
	track := 0
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad track %q: %w", args[0], err)
		}
		track = n
	}
	if playNoConsole && track == 0 {
		return fmt.Errorf("a track is required with --no-console")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !playNoConsole {
		w, closeLog, err := consoleLogOutput(cfg)
		if err != nil {
			return err
		}
		defer closeLog()
		if err := logger.Setup(cfg.Logging.Level, cfg.Logging.Format, w); err != nil {
			return err
		}
	}

	out, pace, err := openSink(cfg)
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg, out, pace, track, playLoop)
	if err != nil {
		out.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	mixCtx, cancelMix := context.WithCancel(context.Background())
	g, mixCtx := errgroup.WithContext(mixCtx)
	g.Go(func() error { return p.mix.Run(mixCtx) })

	if playNoConsole {
		p.log.WithField("track", track).Info("playing, ctrl-c to stop")
		select {
		case <-ctx.Done():
		case <-mixCtx.Done():
		}
	} else if err := console.Run(ctx, p.sys, p.levels); err != nil {
		p.log.WithError(err).Error("console")
	}

	return p.close(func() error {
		cancelMix()
		return g.Wait()
	})
}
