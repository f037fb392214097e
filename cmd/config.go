package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

// configShowCmd shows the current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective configuration from defaults, the config file and environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Current Configuration:")
		fmt.Fprintf(w, "  Base dir: %s\n", cfg.BaseDir)
		fmt.Fprintf(w, "  Cue:\n")
		fmt.Fprintf(w, "    File: %q\n", cfg.Cue.File)
		fmt.Fprintf(w, "    Patterns: %v\n", cfg.Cue.Patterns)
		fmt.Fprintf(w, "  Stream:\n")
		fmt.Fprintf(w, "    Capacity: %d\n", cfg.Stream.Capacity)
		fmt.Fprintf(w, "    Send timeout: %s\n", cfg.Stream.SendTimeout)
		fmt.Fprintf(w, "  Mixer:\n")
		fmt.Fprintf(w, "    Chunk: %d bytes\n", cfg.Mixer.ChunkBytes)
		fmt.Fprintf(w, "    DMA region: %d bytes\n", cfg.Mixer.DMABytes)
		fmt.Fprintf(w, "    Weights: cd %d, digitized %d\n", cfg.Mixer.CDWeight, cfg.Mixer.DigiWeight)
		fmt.Fprintf(w, "    Volume: main %.2f, cd %.2f\n", cfg.Mixer.MainVolume, cfg.Mixer.CDVolume)
		fmt.Fprintf(w, "    Paced: %v\n", cfg.Mixer.Pace)
		fmt.Fprintf(w, "  Sink:\n")
		fmt.Fprintf(w, "    Kind: %s\n", cfg.Sink.Kind)
		fmt.Fprintf(w, "    Path: %s\n", cfg.Sink.Path)
		fmt.Fprintf(w, "    Buffer: %s\n", cfg.Sink.Buffer)
		fmt.Fprintf(w, "  Digitized audio: %q\n", cfg.Digi.File)
		fmt.Fprintf(w, "  Logging:\n")
		fmt.Fprintf(w, "    Level: %s\n", cfg.Logging.Level)
		fmt.Fprintf(w, "    Format: %s\n", cfg.Logging.Format)
		fmt.Fprintf(w, "    File: %q\n", cfg.Logging.File)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
