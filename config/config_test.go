package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, yaml string) *Config {
	dir := t.TempDir()
	t.Chdir(dir)
	if yaml != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cdaudio.yaml"), []byte(yaml), 0o644))
	}
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := load(t, "")
	assert.Equal(t, ".", cfg.BaseDir)
	assert.Equal(t, []string{"game.cue", "*.cue", "*.CUE"}, cfg.Cue.Patterns)
	assert.Equal(t, 2352*32, cfg.Stream.Capacity)
	assert.Equal(t, time.Duration(0), cfg.Stream.SendTimeout)
	assert.Equal(t, 2048, cfg.Mixer.ChunkBytes)
	assert.Equal(t, 16384, cfg.Mixer.DMABytes)
	assert.Equal(t, 24, cfg.Mixer.CDWeight)
	assert.Equal(t, 8, cfg.Mixer.DigiWeight)
	assert.Equal(t, 0.5, cfg.Mixer.MainVolume)
	assert.Equal(t, "speaker", cfg.Sink.Kind)
	assert.Equal(t, 100*time.Millisecond, cfg.Sink.Buffer)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFile(t *testing.T) {
	cfg := load(t, `
basedir: /games/quake/
cue:
  file: quake.cue
stream:
  send_timeout: 250ms
sink:
  kind: wav
  path: out.wav
logging:
  level: debug
`)
	assert.Equal(t, "/games/quake/", cfg.BaseDir)
	assert.Equal(t, "quake.cue", cfg.Cue.File)
	assert.Equal(t, 250*time.Millisecond, cfg.Stream.SendTimeout)
	assert.Equal(t, "wav", cfg.Sink.Kind)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestEnvironment(t *testing.T) {
	t.Setenv("CDAUDIO_BASEDIR", "/mnt/cd")
	cfg := load(t, "")
	assert.Equal(t, "/mnt/cd", cfg.BaseDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Config)
	}{
		{"stream.capacity", func(c *Config) { c.Stream.Capacity = 100 }},
		{"stream.send_timeout", func(c *Config) { c.Stream.SendTimeout = -time.Second }},
		{"mixer.chunk_bytes", func(c *Config) { c.Mixer.ChunkBytes = 6 }},
		{"mixer.dma_bytes", func(c *Config) { c.Mixer.DMABytes = 3000 }},
		{"mixer.cd_weight", func(c *Config) { c.Mixer.CDWeight, c.Mixer.DigiWeight = 0, 0 }},
		{"mixer.main_volume", func(c *Config) { c.Mixer.MainVolume = 1.5 }},
		{"mixer.cd_volume", func(c *Config) { c.Mixer.CDVolume = -0.1 }},
		{"sink.kind", func(c *Config) { c.Sink.Kind = "alsa" }},
		{"sink.path", func(c *Config) { c.Sink.Kind = "wav" }},
		{"sink.buffer", func(c *Config) { c.Sink.Buffer = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := load(t, "")
			tt.mutate(cfg)
			err := cfg.Validate()
			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr), "got %v", err)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestNestedEnvironment(t *testing.T) {
	t.Setenv("CDAUDIO_MIXER_MAIN_VOLUME", "0.25")
	t.Setenv("CDAUDIO_SINK_KIND", "discard")
	cfg := load(t, "")
	assert.Equal(t, 0.25, cfg.Mixer.MainVolume)
	assert.Equal(t, "discard", cfg.Sink.Kind)
}
