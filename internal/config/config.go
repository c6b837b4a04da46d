package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultKafkaGroupID    = "streamlens-default-group"
	defaultWindowRetention = "count"
	defaultWindowSize      = 100
	defaultTimeField       = "time"
	defaultMaxBuffer       = 10000
	defaultMetricsEnabled  = true
	defaultMetricsAddr     = ":9090"
	defaultSummaryInterval = 10 * time.Second
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultLogFileEnabled  = false
	defaultLogDirectory    = "log"
	defaultLogFilename     = "app.log"
	defaultLogMaxSizeMB    = 100
	defaultLogMaxBackups   = 3
	defaultLogMaxAgeDays   = 7
	defaultLogCompress     = false

	// Environment variable prefix
	envPrefix = "STREAMLENS"
)

type Config struct {
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Window  WindowConfig  `mapstructure:"window"`
	Fields  []string      `mapstructure:"fields"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"groupID"`
}

// WindowConfig mirrors the sliding window's construction options.
type WindowConfig struct {
	Retention   string        `mapstructure:"retention"`  // "count" or "time"
	Size        int           `mapstructure:"size"`       // count retention: records per window
	Span        time.Duration `mapstructure:"span"`       // time retention: window time span
	SlideEvery  int           `mapstructure:"slideEvery"` // pushes between slide events; 0 = size
	TimeField   string        `mapstructure:"timeField"`
	MaxBuffer   int           `mapstructure:"maxBuffer"`
	RequireFull bool          `mapstructure:"requireFull"`

	// SummaryInterval controls how often the ingestor logs a window summary.
	SummaryInterval time.Duration `mapstructure:"summaryInterval"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // Max size in MB
	MaxBackups         int    `mapstructure:"maxBackups"` // Max backup files
	MaxAge             int    `mapstructure:"maxAge"`     // Max days to retain
	Compress           bool   `mapstructure:"compress"`   // Compress rotated files?
}

// Load initializes viper, reads config, applies defaults, unmarshals, and validates.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)

	// Set default values before reading the config source
	setDefaults(v)

	// Read configuration from file (error if mandatory file is missing)
	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	// Unmarshal the configuration
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults applies default configuration values using Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("kafka.groupID", defaultKafkaGroupID)
	v.SetDefault("window.retention", defaultWindowRetention)
	v.SetDefault("window.size", defaultWindowSize)
	v.SetDefault("window.timeField", defaultTimeField)
	v.SetDefault("window.maxBuffer", defaultMaxBuffer)
	v.SetDefault("window.summaryInterval", defaultSummaryInterval)
	v.SetDefault("metrics.enabled", defaultMetricsEnabled)
	v.SetDefault("metrics.addr", defaultMetricsAddr)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

// readConfigFile attempts to read the configuration file specified in viper.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if len(cfg.Kafka.Brokers) == 0 {
		return ErrEmptyKafkaBrokers
	}
	if cfg.Kafka.Topic == "" {
		return ErrEmptyKafkaTopic
	}
	if cfg.Kafka.GroupID == "" {
		return ErrEmptyKafkaGroupID
	}
	switch cfg.Window.Retention {
	case "count":
		if cfg.Window.Size <= 0 {
			return ErrInvalidWindowSize
		}
	case "time":
		if cfg.Window.Span <= 0 {
			return ErrInvalidWindowSpan
		}
	default:
		return ErrInvalidWindowRetention
	}
	if cfg.Window.SlideEvery < 0 {
		return ErrInvalidWindowSlide
	}
	if cfg.Window.MaxBuffer < 0 {
		return ErrInvalidWindowBuffer
	}
	if cfg.Window.SummaryInterval <= 0 {
		return ErrInvalidSummaryInterval
	}
	return nil
}
