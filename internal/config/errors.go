package config

import "errors"

var (
	ErrReadingConfigFile      = errors.New("failed to read config file")
	ErrUnmarshallingConfig    = errors.New("failed to unmarshal config")
	ErrEmptyKafkaBrokers      = errors.New("kafka brokers list cannot be empty")
	ErrEmptyKafkaTopic        = errors.New("kafka topic cannot be empty")
	ErrEmptyKafkaGroupID      = errors.New("kafka groupID cannot be empty")
	ErrInvalidWindowRetention = errors.New("window retention must be \"count\" or \"time\"")
	ErrInvalidWindowSize      = errors.New("window size must be positive for count retention")
	ErrInvalidWindowSpan      = errors.New("window span must be positive for time retention")
	ErrInvalidWindowSlide     = errors.New("window slideEvery cannot be negative")
	ErrInvalidWindowBuffer    = errors.New("window maxBuffer cannot be negative")
	ErrInvalidSummaryInterval = errors.New("window summaryInterval must be positive")
	ErrConfigFileMissing      = errors.New("config file not found")
)
