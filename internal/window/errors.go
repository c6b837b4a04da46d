package window

import "errors"

var (
	// ErrInvalidConfig wraps every configuration validation failure, so
	// callers can match misconfiguration as a class without enumerating the
	// specific sentinels below.
	ErrInvalidConfig = errors.New("invalid window configuration")

	ErrInvalidRetention = errors.New("window retention must be \"count\" or \"time\"")
	ErrInvalidSize      = errors.New("window size must be positive")
	ErrInvalidSpan      = errors.New("window span must be a positive duration")
	ErrInvalidSlide     = errors.New("window slide interval cannot be negative")
	ErrInvalidMaxBuffer = errors.New("window buffer cap cannot be negative")
)
