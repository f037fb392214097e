package config

import (
	"strings"
	"time"

	"github.com/rabidaudio/cuestream/cd"
	"github.com/rabidaudio/cuestream/cdaudio"
	"github.com/rabidaudio/cuestream/cue"
	"github.com/rabidaudio/cuestream/mixer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	BaseDir string        `mapstructure:"basedir"`
	Cue     CueConfig     `mapstructure:"cue"`
	Stream  StreamConfig  `mapstructure:"stream"`
	Mixer   MixerConfig   `mapstructure:"mixer"`
	Sink    SinkConfig    `mapstructure:"sink"`
	Digi    DigiConfig    `mapstructure:"digi"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CueConfig selects the cue sheet in the base directory
type CueConfig struct {
	File     string   `mapstructure:"file"`
	Patterns []string `mapstructure:"patterns"`
}

// StreamConfig holds the reader-to-mixer buffer settings
type StreamConfig struct {
	Capacity    int           `mapstructure:"capacity"`
	SendTimeout time.Duration `mapstructure:"send_timeout"`
}

// MixerConfig holds mixer settings
type MixerConfig struct {
	ChunkBytes int     `mapstructure:"chunk_bytes"`
	DMABytes   int     `mapstructure:"dma_bytes"`
	CDWeight   int     `mapstructure:"cd_weight"`
	DigiWeight int     `mapstructure:"digi_weight"`
	MainVolume float64 `mapstructure:"main_volume"`
	CDVolume   float64 `mapstructure:"cd_volume"`
	Pace       bool    `mapstructure:"pace"`
}

// SinkConfig selects where mixed audio goes
type SinkConfig struct {
	Kind   string        `mapstructure:"kind"` // speaker, wav or discard
	Path   string        `mapstructure:"path"`
	Buffer time.Duration `mapstructure:"buffer"`
}

// DigiConfig names a WAV clip looped as the digitized game audio
type DigiConfig struct {
	File string `mapstructure:"file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
	File   string `mapstructure:"file"`   // used while the console owns the terminal
}

// SetDefaults registers the default of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("basedir", ".")
	v.SetDefault("cue.file", "")
	v.SetDefault("cue.patterns", cue.DefaultPatterns)
	v.SetDefault("stream.capacity", cdaudio.DefaultCapacity)
	v.SetDefault("stream.send_timeout", "0s")
	v.SetDefault("mixer.chunk_bytes", mixer.DefaultChunkBytes)
	v.SetDefault("mixer.dma_bytes", mixer.DefaultRegionBytes)
	v.SetDefault("mixer.cd_weight", mixer.DefaultWeights.CD)
	v.SetDefault("mixer.digi_weight", mixer.DefaultWeights.Digi)
	v.SetDefault("mixer.main_volume", mixer.DefaultMainVolume)
	v.SetDefault("mixer.cd_volume", 1.0)
	v.SetDefault("mixer.pace", false)
	v.SetDefault("sink.kind", "speaker")
	v.SetDefault("sink.path", "")
	v.SetDefault("sink.buffer", "100ms")
	v.SetDefault("digi.file", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load reads the configuration into a Config using v. A missing config
// file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetConfigName("cdaudio")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.cdaudio")
	v.AddConfigPath("/etc/cdaudio")

	v.SetEnvPrefix("CDAUDIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		logrus.Debug("No config file found, using defaults and environment variables")
	} else {
		logrus.WithField("file", v.ConfigFileUsed()).Info("Using config file")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Stream.Capacity <= 0 || c.Stream.Capacity%(4*cd.BytesPerStereoSample) != 0 {
		return &ConfigError{Field: "stream.capacity", Message: "must be a positive multiple of 16 bytes"}
	}
	if c.Stream.SendTimeout < 0 {
		return &ConfigError{Field: "stream.send_timeout", Message: "must not be negative"}
	}
	if c.Mixer.ChunkBytes <= 0 || c.Mixer.ChunkBytes%cd.BytesPerStereoSample != 0 {
		return &ConfigError{Field: "mixer.chunk_bytes", Message: "must be a positive multiple of 4 bytes"}
	}
	if c.Mixer.DMABytes <= 0 || c.Mixer.DMABytes%c.Mixer.ChunkBytes != 0 {
		return &ConfigError{Field: "mixer.dma_bytes", Message: "must be a positive multiple of mixer.chunk_bytes"}
	}
	if c.Mixer.CDWeight < 0 || c.Mixer.DigiWeight < 0 || c.Mixer.CDWeight+c.Mixer.DigiWeight <= 0 {
		return &ConfigError{Field: "mixer.cd_weight", Message: "weights must be non-negative with a positive sum"}
	}
	if c.Mixer.MainVolume < 0 || c.Mixer.MainVolume > 1 {
		return &ConfigError{Field: "mixer.main_volume", Message: "must be between 0 and 1"}
	}
	if c.Mixer.CDVolume < 0 || c.Mixer.CDVolume > 1 {
		return &ConfigError{Field: "mixer.cd_volume", Message: "must be between 0 and 1"}
	}
	switch c.Sink.Kind {
	case "speaker", "discard":
	case "wav":
		if c.Sink.Path == "" {
			return &ConfigError{Field: "sink.path", Message: "is required for the wav sink"}
		}
	default:
		return &ConfigError{Field: "sink.kind", Message: "must be speaker, wav or discard"}
	}
	if c.Sink.Kind == "speaker" && c.Sink.Buffer <= 0 {
		return &ConfigError{Field: "sink.buffer", Message: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
